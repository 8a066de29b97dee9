package router

import (
	"net/http"

	"travel-advisory-service/internal/interface/api"
	"travel-advisory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers the API, health and metrics routes
func NewRouter(server *api.Server, gatherer prometheus.Gatherer, log logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if v.Error != nil {
				log.Warn("Request failed", append(fields, "error", v.Error.Error())...)
				return nil
			}
			log.Debug("Request handled", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	advisories := e.Group("/api/advisories")
	advisories.GET("", server.ListAdvisories)
	advisories.POST("", server.CreateAdvisory)
	advisories.DELETE("/:id", server.DeleteAdvisory)

	workflows := e.Group("/api/workflows")
	workflows.GET("", server.ListWorkflows)
	workflows.POST("", server.CreateWorkflow)
	workflows.POST("/parse", server.ParseWorkflow)
	workflows.GET("/:id", server.GetWorkflow)
	workflows.PUT("/:id", server.UpdateWorkflow)
	workflows.POST("/:id/steps/:stepId/complete", server.CompleteStep)
	workflows.POST("/:id/customer-response", server.CustomerResponse)

	return e
}
