package entity

// Remediation metadata keys
const (
	MetaAdvisoryID         = "advisoryId"
	MetaAgentScript        = "agentScript"
	MetaEstimatedCost      = "estimatedCost"
	MetaEstimatedTimeDelay = "estimatedTimeDelay"
	MetaIsAdvisoryTask     = "isAdvisoryTask"
	MetaSourceWorkflowID   = "sourceWorkflowId"
)

// RemediationMeta is the typed view of an advisory review step's metadata
type RemediationMeta struct {
	AdvisoryID         string
	AgentScript        string
	EstimatedCost      string
	EstimatedTimeDelay string
	IsAdvisoryTask     bool
	// SourceWorkflowID is the booking the draft was cloned from
	SourceWorkflowID string
}

// ToMetadata renders the open map stored on the step
func (r RemediationMeta) ToMetadata() map[string]interface{} {
	return map[string]interface{}{
		MetaAdvisoryID:         r.AdvisoryID,
		MetaAgentScript:        r.AgentScript,
		MetaEstimatedCost:      r.EstimatedCost,
		MetaEstimatedTimeDelay: r.EstimatedTimeDelay,
		MetaIsAdvisoryTask:     r.IsAdvisoryTask,
		MetaSourceWorkflowID:   r.SourceWorkflowID,
	}
}

// RemediationFromMetadata reads the known keys back out of a step's metadata.
// ok is false unless the isAdvisoryTask marker is a true boolean.
func RemediationFromMetadata(m map[string]interface{}) (RemediationMeta, bool) {
	marker, _ := m[MetaIsAdvisoryTask].(bool)
	if !marker {
		return RemediationMeta{}, false
	}
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	return RemediationMeta{
		AdvisoryID:         str(MetaAdvisoryID),
		AgentScript:        str(MetaAgentScript),
		EstimatedCost:      str(MetaEstimatedCost),
		EstimatedTimeDelay: str(MetaEstimatedTimeDelay),
		IsAdvisoryTask:     true,
		SourceWorkflowID:   str(MetaSourceWorkflowID),
	}, true
}

// IsRemediationStep reports whether the step carries the advisory task marker
func (s Step) IsRemediationStep() bool {
	_, ok := RemediationFromMetadata(s.Metadata)
	return ok
}

// Remediation returns the metadata of the workflow's leading review step, if any
func (w *Workflow) Remediation() (RemediationMeta, bool) {
	if w == nil || len(w.Steps) == 0 {
		return RemediationMeta{}, false
	}
	return RemediationFromMetadata(w.Steps[0].Metadata)
}
