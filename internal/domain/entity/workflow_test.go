package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_UnmarshalTravelDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *time.Time
	}{
		{name: "date only", value: `"2026-12-01"`, want: datePtr(2026, 12, 1)},
		{name: "timestamp is truncated", value: `"2026-12-01T18:45:00Z"`, want: datePtr(2026, 12, 1)},
		{name: "offset keeps its calendar day", value: `"2026-12-01T01:30:00+05:30"`, want: datePtr(2026, 12, 1)},
		{name: "null", value: `null`},
		{name: "empty", value: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Workflow
			err := json.Unmarshal([]byte(`{"id": "wf-1", "customerName": "Asha", "travelDate": `+tt.value+`}`), &w)
			require.NoError(t, err)
			assert.Equal(t, "wf-1", w.ID)
			assert.Equal(t, "Asha", w.CustomerName)
			assert.Equal(t, tt.want, w.TravelDate)
		})
	}
}

func TestWorkflow_UnmarshalRejectsBadTravelDate(t *testing.T) {
	var w Workflow
	err := json.Unmarshal([]byte(`{"travelDate": "01/12/2026"}`), &w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestWorkflow_MarshalTravelDateAsDate(t *testing.T) {
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	data, err := json.Marshal(&Workflow{ID: "wf-1", TravelDate: &date, Steps: []Step{NewStep("1", "Flight", "")}})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2026-12-01", raw["travelDate"])
	assert.Equal(t, "wf-1", raw["id"])

	data, err = json.Marshal(Workflow{ID: "wf-2"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "travelDate")

	var back Workflow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.TravelDate)
}

func TestStep_Consistent(t *testing.T) {
	s := NewStep("1", "Flight", "")
	assert.True(t, s.Consistent())

	s.Completed = true
	assert.False(t, s.Consistent())

	s.Complete()
	assert.True(t, s.Consistent())
	assert.Equal(t, StepCompleted, s.Status)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
