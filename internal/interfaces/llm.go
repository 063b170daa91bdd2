package interfaces

import "context"

// CompletionRequest is a provider-agnostic completion request
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionService generates a single text completion. Implementations wrap
// a specific AI provider; credentials and model selection are resolved from
// the runtime parameter store with config-file fallback.
type CompletionService interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
	Close() error
}

// CompletionResolver yields a configured CompletionService. Resolution happens
// per call so that parameter-store changes take effect without a restart.
type CompletionResolver interface {
	Resolve(ctx context.Context) (CompletionService, error)
}
