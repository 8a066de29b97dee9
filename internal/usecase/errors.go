package usecase

import "errors"

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("step not found")
	ErrMissingResponse  = errors.New("response text is required")
	ErrInvalidAdvisory  = errors.New("invalid advisory")
	ErrInvalidWorkflow  = errors.New("invalid workflow")
)
