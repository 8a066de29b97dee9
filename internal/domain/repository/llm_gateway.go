package repository

import "context"

// LLMGateway is the external language model used for compliance checks,
// script drafting and reply classification.
type LLMGateway interface {
	// Reason returns the model's text. ok is false when no answer is available
	// (no credential, transport failure, timeout or non-success status).
	Reason(ctx context.Context, prompt string) (text string, ok bool)
}
