// Package api contains the HTTP handlers for the travel advisory service
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/usecase"
	"travel-advisory-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const maxTextBody = 64 << 10

// Server holds the dependencies for the API server.
type Server struct {
	Workflows  *usecase.WorkflowService
	Advisories *usecase.AdvisoryService
	Impact     *usecase.AdvisoryImpactOrchestrator
	Logger     logger.Logger
}

// NewServer creates a new Server.
func NewServer(workflows *usecase.WorkflowService, advisories *usecase.AdvisoryService, impact *usecase.AdvisoryImpactOrchestrator, logger logger.Logger) *Server {
	return &Server{
		Workflows:  workflows,
		Advisories: advisories,
		Impact:     impact,
		Logger:     logger,
	}
}

// CreateAdvisoryResponse is returned after an advisory is stored and fanned out
type CreateAdvisoryResponse struct {
	Advisory *entity.Advisory    `json:"advisory"`
	Impact   usecase.ImpactReport `json:"impact"`
}

// CustomerResponseRequest carries the customer's reply to a remediation offer
type CustomerResponseRequest struct {
	Response string `json:"response"`
}

// ListAdvisories returns all advisories
// (GET /api/advisories)
func (s *Server) ListAdvisories(c echo.Context) error {
	advisories, err := s.Advisories.List(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, advisories)
}

// CreateAdvisory stores an advisory and drafts reviews for impacted bookings
// (POST /api/advisories)
func (s *Server) CreateAdvisory(c echo.Context) error {
	var advisory entity.Advisory
	if err := c.Bind(&advisory); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	saved, report, err := s.Advisories.Create(c.Request().Context(), &advisory)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusCreated, CreateAdvisoryResponse{Advisory: saved, Impact: report})
}

// DeleteAdvisory removes an advisory
// (DELETE /api/advisories/:id)
func (s *Server) DeleteAdvisory(c echo.Context) error {
	if err := s.Advisories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListWorkflows returns all workflows
// (GET /api/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	workflows, err := s.Workflows.List(c.Request().Context())
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, workflows)
}

// CreateWorkflow creates a workflow
// (POST /api/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	var workflow entity.Workflow
	if err := c.Bind(&workflow); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	created, err := s.Workflows.Create(c.Request().Context(), &workflow)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ParseWorkflow builds a workflow from a plain-text request body
// (POST /api/workflows/parse)
func (s *Server) ParseWorkflow(c echo.Context) error {
	text, err := readText(c)
	if err != nil {
		return err
	}

	workflow, err := s.Workflows.Parse(c.Request().Context(), text)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusCreated, workflow)
}

// GetWorkflow returns a workflow with fresh advisory warnings
// (GET /api/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	workflow, err := s.Workflows.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// UpdateWorkflow replaces a workflow
// (PUT /api/workflows/:id)
func (s *Server) UpdateWorkflow(c echo.Context) error {
	var workflow entity.Workflow
	if err := c.Bind(&workflow); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	updated, err := s.Workflows.Update(c.Request().Context(), c.Param("id"), &workflow)
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// CompleteStep marks a step completed
// (POST /api/workflows/:id/steps/:stepId/complete)
func (s *Server) CompleteStep(c echo.Context) error {
	workflow, err := s.Workflows.CompleteStep(c.Request().Context(), c.Param("id"), c.Param("stepId"))
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// CustomerResponse applies the customer's answer to an advisory draft. The body
// is either {"response": "..."} or the reply as plain text.
// (POST /api/workflows/:id/customer-response)
func (s *Server) CustomerResponse(c echo.Context) error {
	text, err := readText(c)
	if err != nil {
		return err
	}
	var req CustomerResponseRequest
	if json.Unmarshal([]byte(text), &req) == nil {
		text = req.Response
	}

	outcome, err := s.Impact.OnCustomerResponse(c.Request().Context(), c.Param("id"), text)
	if err != nil {
		return s.httpError(err)
	}
	if outcome.Status == usecase.ResponseNotFound {
		return c.JSON(http.StatusNotFound, outcome)
	}
	return c.JSON(http.StatusOK, outcome)
}

func readText(c echo.Context) (string, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTextBody))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body: "+err.Error())
	}
	return strings.TrimSpace(string(body)), nil
}

// httpError maps usecase errors onto HTTP statuses
func (s *Server) httpError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrWorkflowNotFound), errors.Is(err, usecase.ErrStepNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrInvalidAdvisory),
		errors.Is(err, usecase.ErrInvalidWorkflow),
		errors.Is(err, usecase.ErrMissingResponse):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.Logger.Error("Request failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
