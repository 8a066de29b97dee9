package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/interface/api"
	memrepo "travel-advisory-service/internal/interface/repository"
	"travel-advisory-service/internal/usecase"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"
)

// scriptedGateway answers by prompt content
type scriptedGateway struct {
	replies map[string]string
}

func (g *scriptedGateway) Reason(ctx context.Context, prompt string) (string, bool) {
	for fragment, reply := range g.replies {
		if strings.Contains(prompt, fragment) {
			return reply, true
		}
	}
	return "", false
}

type sentMessage struct {
	to, subject string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(ctx context.Context, to, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{to: to, subject: subject})
}

type testAPI struct {
	handler   http.Handler
	workflows interface {
		Save(ctx context.Context, w *entity.Workflow) error
	}
	notifier *recordingNotifier
}

func newTestAPI(t *testing.T, gateway *scriptedGateway) *testAPI {
	t.Helper()
	log := logger.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)

	workflows := memrepo.NewMemoryWorkflowRepository()
	advisories := memrepo.NewMemoryAdvisoryRepository()
	notifier := &recordingNotifier{}

	impact := usecase.NewAdvisoryImpactOrchestrator(workflows, gateway, notifier, usecase.ImpactOptions{
		Workers:         2,
		DedupTTL:        time.Minute,
		FallbackAddress: "agent@example.com",
	}, log, m)
	workflowService := usecase.NewWorkflowService(workflows, advisories,
		usecase.NewViolationAnalyzer(gateway, log, m), usecase.NewItineraryParser(gateway, log), log)
	advisoryService := usecase.NewAdvisoryService(advisories, impact, log)

	server := api.NewServer(workflowService, advisoryService, impact, log)
	return &testAPI{
		handler:   NewRouter(server, reg, log),
		workflows: workflows,
		notifier:  notifier,
	}
}

func (a *testAPI) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{})

	rec := a.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = a.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdvisoryDraftsImpactedBooking(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{replies: map[string]string{
		"Travel Strategy Consultant": `{"script": "Offer reroute", "estimatedCost": "$300", "estimatedTimeDelay": "2 days"}`,
	}})

	date := time.Now().UTC().AddDate(0, 0, 7)
	require.NoError(t, a.workflows.Save(context.Background(), &entity.Workflow{
		ID:            "wf-1",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Origin:        "Delhi, India",
		Destination:   "Guangzhou, China",
		TravelDate:    &date,
		Steps:         []entity.Step{entity.NewStep("1", "Flight", "DEL-CAN")},
	}))

	rec := a.do(t, http.MethodPost, "/api/advisories", "application/json",
		`{"sourceRegion": "India", "targetRegion": "China", "severity": "HIGH", "description": "Flights suspended"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created api.CreateAdvisoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Advisory.ID)
	assert.Equal(t, 1, created.Impact.Drafted)

	rec = a.do(t, http.MethodGet, "/api/workflows", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var workflows []entity.Workflow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &workflows))
	require.Len(t, workflows, 2)

	var draft *entity.Workflow
	for i := range workflows {
		if workflows[i].ID != "wf-1" {
			draft = &workflows[i]
		}
	}
	require.NotNil(t, draft)
	assert.Equal(t, "Asha (Advisory Review)", draft.CustomerName)
	assert.Equal(t, "Advisory Impact Review", draft.Steps[0].Name)
	assert.Equal(t, "Offer reroute", draft.Steps[0].Metadata[entity.MetaAgentScript])

	require.Len(t, a.notifier.sent, 1)
	assert.Equal(t, "asha@example.com", a.notifier.sent[0].to)
	assert.Equal(t, "Travel Advisory Alert: India to China", a.notifier.sent[0].subject)
}

func TestRouter_DateOnlyTravelDateIsScannedByAdvisory(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{replies: map[string]string{
		"Travel Strategy Consultant": `{"script": "Offer a later date"}`,
	}})

	departure := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	rec := a.do(t, http.MethodPost, "/api/workflows", "application/json",
		`{"customerName": "Asha", "origin": "Delhi, India", "destination": "Paris", "travelDate": "`+departure+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, departure, created["travelDate"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = a.do(t, http.MethodPut, "/api/workflows/"+id, "application/json",
		`{"customerName": "Asha", "origin": "Delhi, India", "destination": "Paris", "travelDate": "`+departure+`T09:30:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, departure, updated["travelDate"])

	rec = a.do(t, http.MethodPost, "/api/advisories", "application/json",
		`{"sourceRegion": "India", "targetRegion": "China", "severity": "HIGH", "description": "Airspace closed"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.CreateAdvisoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Impact.Drafted)

	rec = a.do(t, http.MethodGet, "/api/workflows", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var workflows []entity.Workflow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &workflows))
	require.Len(t, workflows, 2)
	for _, wf := range workflows {
		require.NotNil(t, wf.TravelDate)
		assert.Equal(t, departure, wf.TravelDate.Format("2006-01-02"))
	}
}

func TestRouter_InvalidTravelDate(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{})
	rec := a.do(t, http.MethodPost, "/api/workflows", "application/json", `{"customerName": "Asha", "travelDate": "next week"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_InvalidAdvisory(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{})
	rec := a.do(t, http.MethodPost, "/api/advisories", "application/json", `{"sourceRegion": "India", "severity": "HIGH"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_WorkflowLifecycle(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{})

	rec := a.do(t, http.MethodPost, "/api/workflows", "application/json", `{"customerName": "Asha", "origin": "Paris", "destination": "Rome"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var wf entity.Workflow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wf))
	require.Len(t, wf.Steps, 3)

	rec = a.do(t, http.MethodPost, "/api/workflows/"+wf.ID+"/steps/2/complete", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/workflows/"+wf.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.Workflow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entity.StepCompleted, got.Steps[1].Status)

	rec = a.do(t, http.MethodPost, "/api/workflows/"+wf.ID+"/steps/missing/complete", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/workflows/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ParseWorkflow(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{})

	rec := a.do(t, http.MethodPost, "/api/workflows/parse", "text/plain", "Book a flight to Tokyo")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var wf entity.Workflow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wf))
	assert.Equal(t, "Book a flight to Tokyo", wf.CustomerName)
	require.Len(t, wf.Steps, 2)
	assert.Equal(t, "Book flight flight to Tokyo", wf.Steps[0].Description)
}

func TestRouter_CustomerResponse(t *testing.T) {
	a := newTestAPI(t, &scriptedGateway{replies: map[string]string{
		"Classify as POSITIVE": "POSITIVE",
	}})

	review := entity.Step{
		ID:       "advisory-guidance-1",
		Name:     "Advisory Impact Review",
		Status:   entity.StepPending,
		Metadata: entity.RemediationMeta{AdvisoryID: "adv", IsAdvisoryTask: true}.ToMetadata(),
	}
	require.NoError(t, a.workflows.Save(context.Background(), &entity.Workflow{
		ID:           "draft-1",
		CustomerName: "Asha (Advisory Review)",
		Steps:        []entity.Step{review},
	}))

	rec := a.do(t, http.MethodPost, "/api/workflows/draft-1/customer-response", "application/json", `{"response": "Yes please"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome usecase.ResponseOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, usecase.ResponseAccepted, outcome.Status)

	// no customer email, so the fallback address is used
	require.Len(t, a.notifier.sent, 1)
	assert.Equal(t, "agent@example.com", a.notifier.sent[0].to)

	rec = a.do(t, http.MethodPost, "/api/workflows/draft-1/customer-response", "application/json", `{"response": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/workflows/missing/customer-response", "text/plain", "yes")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
