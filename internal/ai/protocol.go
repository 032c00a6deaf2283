package ai

import "context"

// CompletionRequest is one structured ask for a completion provider. The
// provider turns the system/user pair into its own wire format.
type CompletionRequest struct {
	System    string
	User      string
	MaxTokens int
}

// Completion is a single completion choice plus the optional flat citation
// list some providers attach.
type Completion struct {
	Content   string
	Citations []string
}

// Completer performs one round-trip to an external completion service.
// Implementations must not retry: the upstream is non-deterministic and a
// blind retry is as likely to produce a different malformed reply as a
// correct one.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
