package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// TravelDateLayout is the wire format of a travel date
const TravelDateLayout = "2006-01-02"

// Step Status
const (
	StepPending    StepStatus = "PENDING"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
	StepSkipped    StepStatus = "SKIPPED"
)

// StepStatus is the lifecycle state of a workflow step
type StepStatus string

// Terminal reports whether no further transition is allowed
func (s StepStatus) Terminal() bool {
	return s == StepCompleted || s == StepSkipped
}

// Step is one unit of work inside a workflow. IDs are unique within a workflow only.
type Step struct {
	ID          string                 `json:"id" bson:"id"`
	Name        string                 `json:"name" bson:"name"`
	Description string                 `json:"description" bson:"description"`
	Status      StepStatus             `json:"status" bson:"status"`
	Completed   bool                   `json:"completed" bson:"completed"`
	Metadata    map[string]interface{} `json:"metadata" bson:"metadata"`
	Warning     string                 `json:"warning,omitempty" bson:"warning,omitempty"`
	Alternative string                 `json:"alternative,omitempty" bson:"alternative,omitempty"`
}

// NewStep creates a pending step with an empty metadata map
func NewStep(id, name, description string) Step {
	return Step{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      StepPending,
		Metadata:    make(map[string]interface{}),
	}
}

// Complete marks the step done
func (s *Step) Complete() {
	s.Status = StepCompleted
	s.Completed = true
}

// Consistent checks that the completed flag agrees with the status
func (s Step) Consistent() bool {
	return !s.Completed || s.Status.Terminal()
}

// Workflow is a customer's booking, an ordered list of steps
type Workflow struct {
	ID            string     `json:"id" bson:"_id"`
	AgentID       string     `json:"agentId" bson:"agentId"`
	CustomerName  string     `json:"customerName" bson:"customerName"`
	CustomerEmail string     `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	Origin        string     `json:"origin" bson:"origin"`
	Destination   string     `json:"destination" bson:"destination"`
	TravelDate    *time.Time `json:"travelDate,omitempty" bson:"travelDate,omitempty"`
	Finished      bool       `json:"finished" bson:"finished"`
	Steps         []Step     `json:"steps" bson:"steps"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// DateOf returns midnight UTC of t's calendar day
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseTravelDate accepts "2006-01-02" or an RFC 3339 timestamp and returns the
// calendar date at midnight UTC.
func ParseTravelDate(value string) (time.Time, error) {
	if t, err := time.Parse(TravelDateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid travel date %q, expected YYYY-MM-DD", value)
	}
	return DateOf(t), nil
}

type workflowAlias Workflow

// MarshalJSON writes the travel date as YYYY-MM-DD
func (w Workflow) MarshalJSON() ([]byte, error) {
	out := struct {
		workflowAlias
		TravelDate string `json:"travelDate,omitempty"`
	}{workflowAlias: workflowAlias(w)}
	if w.TravelDate != nil {
		out.TravelDate = w.TravelDate.UTC().Format(TravelDateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the travel date as YYYY-MM-DD, or as an RFC 3339
// timestamp truncated to its date
func (w *Workflow) UnmarshalJSON(data []byte) error {
	in := struct {
		*workflowAlias
		TravelDate *string `json:"travelDate"`
	}{workflowAlias: (*workflowAlias)(w)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	w.TravelDate = nil
	if in.TravelDate != nil && *in.TravelDate != "" {
		date, err := ParseTravelDate(*in.TravelDate)
		if err != nil {
			return err
		}
		w.TravelDate = &date
	}
	return nil
}

// StepByID returns a pointer into Steps, or nil
func (w *Workflow) StepByID(id string) *Step {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return &w.Steps[i]
		}
	}
	return nil
}

// Copy returns a deep copy that keeps every identifier.
// Metadata values are copied shallowly.
func (w *Workflow) Copy() *Workflow {
	if w == nil {
		return nil
	}
	cp := *w
	if w.TravelDate != nil {
		d := *w.TravelDate
		cp.TravelDate = &d
	}
	if w.Steps != nil {
		cp.Steps = make([]Step, len(w.Steps))
		for i, s := range w.Steps {
			s.Metadata = copyMetadata(s.Metadata)
			cp.Steps[i] = s
		}
	}
	return &cp
}

func copyMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
