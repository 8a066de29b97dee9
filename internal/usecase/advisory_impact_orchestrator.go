package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"
	"travel-advisory-service/pkg/utils"
	"travel-advisory-service/templates"
)

const (
	reviewStepName     = "Advisory Impact Review"
	reviewNameSuffix   = " (Advisory Review)"
	unknownEstimate    = "Unknown"
	defaultImpactLimit = 4
)

// ImpactOptions tunes the advisory fan-out
type ImpactOptions struct {
	// Workers bounds how many bookings are processed at once
	Workers int
	// DedupTTL is how long an advisory/booking pair is remembered after drafting
	DedupTTL time.Duration
	// FallbackAddress receives notifications for bookings with no customer email
	FallbackAddress string
}

// ImpactReport summarizes one advisory fan-out
type ImpactReport struct {
	Scanned  int `json:"scanned"`
	Impacted int `json:"impacted"`
	Drafted  int `json:"drafted"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ResponseStatus says which branch handled a customer response
type ResponseStatus string

const (
	ResponseNotFound ResponseStatus = "NOT_FOUND"
	ResponseAccepted ResponseStatus = "ACCEPTED"
	ResponseDeclined ResponseStatus = "DECLINED"
)

// ResponseOutcome is the result of a customer response
type ResponseOutcome struct {
	Status  ResponseStatus `json:"status"`
	Message string         `json:"message"`
}

type bookingResult int

const (
	bookingDrafted bookingResult = iota
	bookingFailed
	bookingSkipped
)

// AdvisoryImpactOrchestrator stages remediation drafts for bookings hit by a new
// advisory and applies the customer's answer to them.
type AdvisoryImpactOrchestrator struct {
	workflowRepo    repository.WorkflowRepository
	gateway         repository.LLMGateway
	notifier        repository.NotificationChannel
	processed       *cache.Cache
	workers         int
	fallbackAddress string
	logger          logger.Logger
	metrics         *metrics.Metrics

	now      func() time.Time
	impacted func(*entity.Workflow, *entity.Advisory) bool
	clone    func(*entity.Workflow) *entity.Workflow
}

// NewAdvisoryImpactOrchestrator creates a new orchestrator
func NewAdvisoryImpactOrchestrator(
	workflowRepo repository.WorkflowRepository,
	gateway repository.LLMGateway,
	notifier repository.NotificationChannel,
	opts ImpactOptions,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *AdvisoryImpactOrchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultImpactLimit
	}
	ttl := opts.DedupTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &AdvisoryImpactOrchestrator{
		workflowRepo:    workflowRepo,
		gateway:         gateway,
		notifier:        notifier,
		processed:       cache.New(ttl, 2*ttl),
		workers:         workers,
		fallbackAddress: opts.FallbackAddress,
		logger:          logger,
		metrics:         metrics,
		now:             time.Now,
		impacted:        IsImpacted,
		clone:           CloneForReview,
	}
}

// OnNewAdvisory drafts a reviewed copy of every future booking the advisory
// touches and notifies each customer. Bookings are independent: a failure on
// one is logged and counted without stopping the rest. Only failing to load the
// bookings is returned as an error.
func (o *AdvisoryImpactOrchestrator) OnNewAdvisory(ctx context.Context, advisory *entity.Advisory) (ImpactReport, error) {
	start := time.Now()
	defer func() {
		o.metrics.ImpactTime.Observe(time.Since(start).Seconds())
	}()
	o.metrics.AdvisoriesProcessed.Inc()

	// one day of grace so trips departing today are still covered
	since := startOfDay(o.now()).AddDate(0, 0, -1)
	bookings, err := o.workflowRepo.FindWithTravelDateAfter(ctx, since)
	if err != nil {
		o.metrics.ErrorsCount.WithLabelValues("load_future_bookings").Inc()
		return ImpactReport{}, fmt.Errorf("failed to load future bookings: %w", err)
	}

	log := o.logger.With("advisoryId", advisory.ID)
	log.Info("Checking advisory impact", "bookings", len(bookings), "since", since.Format(travelDateLayout))
	drafted := draftedSources(bookings, advisory.ID)

	var (
		mu     sync.Mutex
		report = ImpactReport{Scanned: len(bookings)}
		group  errgroup.Group
	)
	group.SetLimit(o.workers)

	for _, booking := range bookings {
		if !o.impacted(booking, advisory) {
			continue
		}
		mu.Lock()
		report.Impacted++
		mu.Unlock()

		booking := booking
		group.Go(func() error {
			result := o.processBooking(ctx, log, booking, advisory, drafted)
			mu.Lock()
			defer mu.Unlock()
			switch result {
			case bookingDrafted:
				report.Drafted++
			case bookingFailed:
				report.Failed++
			case bookingSkipped:
				report.Skipped++
			}
			return nil
		})
	}
	_ = group.Wait()

	log.Info("Advisory impact processed",
		"scanned", report.Scanned,
		"impacted", report.Impacted,
		"drafted", report.Drafted,
		"failed", report.Failed,
		"skipped", report.Skipped)

	return report, nil
}

func (o *AdvisoryImpactOrchestrator) processBooking(ctx context.Context, log logger.Logger, booking *entity.Workflow, advisory *entity.Advisory, drafted map[string]struct{}) bookingResult {
	log = log.With("workflowId", booking.ID)

	key := advisory.ID + "/" + booking.ID
	if advisory.ID != "" {
		if meta, ok := booking.Remediation(); ok && meta.AdvisoryID == advisory.ID {
			log.Debug("Booking is a review draft for this advisory, skipping")
			return bookingSkipped
		}
		if _, ok := drafted[booking.ID]; ok {
			log.Info("Review draft already stored for this advisory, skipping")
			return bookingSkipped
		}
		// covers runs of the same advisory that overlap before either has saved
		if err := o.processed.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			log.Info("Booking is being drafted for this advisory, skipping")
			return bookingSkipped
		}
	}

	draft := o.clone(booking)
	draft.CustomerName = booking.CustomerName + reviewNameSuffix
	draft.CreatedAt = o.now().UTC()
	draft.UpdatedAt = draft.CreatedAt

	remediation := o.generateRemediation(ctx, log, booking, advisory)
	reviewStep := entity.Step{
		ID:   "advisory-guidance-" + uuid.New().String(),
		Name: reviewStepName,
		Description: fmt.Sprintf("Review new advisory execution with customer. Estimated Cost: %s, Delay: %s",
			remediation.EstimatedCost, remediation.EstimatedTimeDelay),
		Status:   entity.StepPending,
		Metadata: remediation.ToMetadata(),
	}
	draft.Steps = append([]entity.Step{reviewStep}, draft.Steps...)

	if err := o.workflowRepo.Save(ctx, draft); err != nil {
		log.Error("Failed to save advisory draft", "draftId", draft.ID, "error", err)
		o.metrics.ErrorsCount.WithLabelValues("save_draft").Inc()
		o.processed.Delete(key)
		return bookingFailed
	}
	o.metrics.DraftsCreated.Inc()
	log.Info("Advisory draft saved", "draftId", draft.ID)

	subject, body := templates.AdvisoryAlert(booking.CustomerName, advisory.SourceRegion, advisory.TargetRegion,
		advisory.Description, remediation.EstimatedCost, remediation.EstimatedTimeDelay)
	o.notifier.Send(ctx, o.recipient(booking), subject, body)

	return bookingDrafted
}

// generateRemediation asks the gateway for an agent script. Unparsable replies
// are used verbatim as the script; missing estimates read "Unknown".
func (o *AdvisoryImpactOrchestrator) generateRemediation(ctx context.Context, log logger.Logger, booking *entity.Workflow, advisory *entity.Advisory) entity.RemediationMeta {
	meta := entity.RemediationMeta{
		AdvisoryID:         advisory.ID,
		SourceWorkflowID:   booking.ID,
		EstimatedCost:      unknownEstimate,
		EstimatedTimeDelay: unknownEstimate,
		IsAdvisoryTask:     true,
	}

	reply, ok := o.gateway.Reason(ctx, buildScriptPrompt(booking, advisory))
	if !ok {
		log.Warn("No remediation script available from gateway")
		return meta
	}

	parsed := utils.ParseStructuredReply(reply)
	if !parsed.Parsed {
		log.Warn("Failed to parse remediation script reply, using raw text")
		meta.AgentScript = reply
		return meta
	}

	meta.AgentScript = parsed.TextOr("script", reply)
	meta.EstimatedCost = parsed.TextOr("estimatedCost", unknownEstimate)
	meta.EstimatedTimeDelay = parsed.TextOr("estimatedTimeDelay", unknownEstimate)
	return meta
}

// OnCustomerResponse classifies the customer's reply to a remediation offer.
// Anything the gateway does not call POSITIVE, including no answer at all, is
// treated as a decline.
func (o *AdvisoryImpactOrchestrator) OnCustomerResponse(ctx context.Context, workflowID, text string) (ResponseOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return ResponseOutcome{}, ErrMissingResponse
	}

	workflow, err := o.workflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		o.metrics.ErrorsCount.WithLabelValues("load_workflow").Inc()
		return ResponseOutcome{}, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
	}
	if workflow == nil {
		return ResponseOutcome{Status: ResponseNotFound, Message: "Workflow not found"}, nil
	}

	log := o.logger.With("workflowId", workflowID)
	sentiment, _ := o.gateway.Reason(ctx, buildSentimentPrompt(text))
	recipient := o.recipient(workflow)

	if !strings.Contains(strings.ToUpper(strings.TrimSpace(sentiment)), "POSITIVE") {
		log.Info("Customer declined advisory remediation")
		subject, body := templates.TripUpdateAcknowledged()
		o.notifier.Send(ctx, recipient, subject, body)
		return ResponseOutcome{Status: ResponseDeclined, Message: "Negative response processed. Agent notified."}, nil
	}

	if len(workflow.Steps) > 0 && workflow.Steps[0].IsRemediationStep() {
		workflow.Steps[0].Complete()
	}
	workflow.UpdatedAt = o.now().UTC()
	if err := o.workflowRepo.Save(ctx, workflow); err != nil {
		o.metrics.ErrorsCount.WithLabelValues("save_workflow").Inc()
		return ResponseOutcome{}, fmt.Errorf("failed to save workflow %s: %w", workflowID, err)
	}

	log.Info("Customer accepted advisory remediation")
	subject, body := templates.TripUpdated(workflow.CustomerName)
	o.notifier.Send(ctx, recipient, subject, body)
	return ResponseOutcome{Status: ResponseAccepted, Message: "Positive response processed. Itinerary updated."}, nil
}

func (o *AdvisoryImpactOrchestrator) recipient(workflow *entity.Workflow) string {
	if strings.TrimSpace(workflow.CustomerEmail) != "" {
		return workflow.CustomerEmail
	}
	return o.fallbackAddress
}

// draftedSources returns the ids of bookings that already have a stored review
// draft for the advisory
func draftedSources(workflows []*entity.Workflow, advisoryID string) map[string]struct{} {
	sources := make(map[string]struct{})
	if advisoryID == "" {
		return sources
	}
	for _, w := range workflows {
		if meta, ok := w.Remediation(); ok && meta.AdvisoryID == advisoryID && meta.SourceWorkflowID != "" {
			sources[meta.SourceWorkflowID] = struct{}{}
		}
	}
	return sources
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
