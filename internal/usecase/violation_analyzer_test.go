package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"travel-advisory-service/internal/domain/entity"
)

func chinaAdvisories() []*entity.Advisory {
	return []*entity.Advisory{{ID: "adv-1", SourceRegion: "India", TargetRegion: "China", Severity: entity.SeverityHigh, Description: "No direct flights"}}
}

func twoStepWorkflow() *entity.Workflow {
	return &entity.Workflow{
		ID: "wf-1",
		Steps: []entity.Step{
			entity.NewStep("step1", "Flight", "Delhi to Shanghai"),
			entity.NewStep("step2", "Hotel", "Shanghai Bund"),
		},
	}
}

func TestAnalyze_AppliesReportedViolations(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("Reason", mock.Anything, promptContaining("Step ID: step1")).
		Return(`{"step1": {"warning": "Banned route", "alternative": "Fly via Singapore"}}`, true)

	a := NewViolationAnalyzer(gateway, newTestLogger(), newTestMetrics())
	wf := twoStepWorkflow()

	changed := a.Analyze(context.Background(), wf, chinaAdvisories())
	assert.True(t, changed)
	assert.Equal(t, "Banned route", wf.Steps[0].Warning)
	assert.Equal(t, "Fly via Singapore", wf.Steps[0].Alternative)
	assert.Empty(t, wf.Steps[1].Warning)
	assert.Empty(t, wf.Steps[1].Alternative)
}

func TestAnalyze_RepeatedAnalysisReportsNoChange(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("Reason", mock.Anything, mock.Anything).
		Return("```json\n{\"step1\": {\"warning\": \"Banned route\", \"alternative\": \"Fly via Singapore\"}}\n```", true)

	a := NewViolationAnalyzer(gateway, newTestLogger(), newTestMetrics())
	wf := twoStepWorkflow()

	assert.True(t, a.Analyze(context.Background(), wf, chinaAdvisories()))
	assert.False(t, a.Analyze(context.Background(), wf, chinaAdvisories()))
	assert.Equal(t, "Banned route", wf.Steps[0].Warning)
	assert.Equal(t, "Fly via Singapore", wf.Steps[0].Alternative)
	gateway.AssertNumberOfCalls(t, "Reason", 2)
}

func TestAnalyze_StaleWarningsAreKept(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("Reason", mock.Anything, mock.Anything).Return("{}", true)

	a := NewViolationAnalyzer(gateway, newTestLogger(), newTestMetrics())
	wf := twoStepWorkflow()
	wf.Steps[1].Warning = "old warning"

	assert.False(t, a.Analyze(context.Background(), wf, chinaAdvisories()))
	assert.Equal(t, "old warning", wf.Steps[1].Warning)
}

func TestAnalyze_UnusableRepliesChangeNothing(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		ok    bool
	}{
		{name: "no answer", reply: "", ok: false},
		{name: "prose", reply: "Step 1 looks risky", ok: true},
		{name: "truncated", reply: `{"step1": {"warning": "Ban`, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(MockGateway)
			gateway.On("Reason", mock.Anything, mock.Anything).Return(tt.reply, tt.ok)

			a := NewViolationAnalyzer(gateway, newTestLogger(), newTestMetrics())
			wf := twoStepWorkflow()

			assert.False(t, a.Analyze(context.Background(), wf, chinaAdvisories()))
			assert.Empty(t, wf.Steps[0].Warning)
		})
	}
}

func TestAnalyze_SkipsGatewayWhenNothingToCheck(t *testing.T) {
	gateway := new(MockGateway)
	a := NewViolationAnalyzer(gateway, newTestLogger(), newTestMetrics())

	assert.False(t, a.Analyze(context.Background(), &entity.Workflow{ID: "empty"}, chinaAdvisories()))
	assert.False(t, a.Analyze(context.Background(), twoStepWorkflow(), nil))

	finished := twoStepWorkflow()
	finished.Finished = true
	assert.False(t, a.Analyze(context.Background(), finished, chinaAdvisories()))

	gateway.AssertNotCalled(t, "Reason", mock.Anything, mock.Anything)
}
