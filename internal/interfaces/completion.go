package interfaces

import "context"

// CompletionService is the reasoning oracle: one synchronous prompt-in,
// text-out completion with a bounded output budget. Implementations may
// return transport, auth, or rate-limit errors; callers in the scoring stage
// must catch and degrade rather than propagate.
type CompletionService interface {
	// Complete sends a single prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Close releases any client resources.
	Close() error
}
