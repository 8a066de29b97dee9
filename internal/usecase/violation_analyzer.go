package usecase

import (
	"context"

	"travel-advisory-service/internal/domain/entity"
	"travel-advisory-service/internal/domain/repository"
	"travel-advisory-service/pkg/logger"
	"travel-advisory-service/pkg/metrics"
	"travel-advisory-service/pkg/utils"
)

// ViolationAnalyzer annotates workflow steps with advisory warnings
type ViolationAnalyzer struct {
	gateway repository.LLMGateway
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewViolationAnalyzer creates a new step violation analyzer
func NewViolationAnalyzer(gateway repository.LLMGateway, logger logger.Logger, metrics *metrics.Metrics) *ViolationAnalyzer {
	return &ViolationAnalyzer{
		gateway: gateway,
		logger:  logger,
		metrics: metrics,
	}
}

// Analyze asks the gateway which steps violate the advisories and writes the
// reported warning and alternative onto those steps. It returns true only if a
// value actually changed, so callers can skip persisting unchanged workflows.
//
// Steps the reply does not mention keep whatever warning they already had.
func (a *ViolationAnalyzer) Analyze(ctx context.Context, workflow *entity.Workflow, advisories []*entity.Advisory) bool {
	if workflow == nil || workflow.Finished || len(advisories) == 0 || len(workflow.Steps) == 0 {
		return false
	}

	reply, ok := a.gateway.Reason(ctx, buildCompliancePrompt(advisories, workflow.Steps))
	if !ok {
		a.logger.Debug("No compliance answer, leaving steps untouched", "workflowId", workflow.ID)
		a.metrics.WorkflowsAnalyzed.WithLabelValues("no_answer").Inc()
		return false
	}

	violations := utils.ParseStructuredReply(reply)
	if !violations.Parsed {
		a.logger.Warn("Failed to parse compliance reply", "workflowId", workflow.ID, "reply", reply)
		a.metrics.WorkflowsAnalyzed.WithLabelValues("unparsed").Inc()
		return false
	}

	changed := false
	for i := range workflow.Steps {
		step := &workflow.Steps[i]
		violation, found := violations.Object(step.ID)
		if !found {
			continue
		}
		if warning, ok := violation.Text("warning"); ok && warning != step.Warning {
			step.Warning = warning
			changed = true
		}
		if alternative, ok := violation.Text("alternative"); ok && alternative != step.Alternative {
			step.Alternative = alternative
			changed = true
		}
	}

	if changed {
		a.logger.Info("Advisory analysis updated workflow", "workflowId", workflow.ID)
		a.metrics.WorkflowsAnalyzed.WithLabelValues("changed").Inc()
	} else {
		a.metrics.WorkflowsAnalyzed.WithLabelValues("unchanged").Inc()
	}
	return changed
}
