package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/services/kv"
)

// Factory resolves a configured completion service from the runtime parameter
// store with config-file fallback. Resolution happens per call so operators
// can rotate keys or switch provider/model without a restart.
type Factory struct {
	config *common.AIConfig
	params *kv.Service
	logger arbor.ILogger
}

// NewFactory creates a completion service factory
func NewFactory(config *common.AIConfig, params *kv.Service, logger arbor.ILogger) *Factory {
	return &Factory{
		config: config,
		params: params,
		logger: logger,
	}
}

// Resolve returns a completion service for the currently configured provider
func (f *Factory) Resolve(ctx context.Context) (interfaces.CompletionService, error) {
	provider, err := f.params.GetOrDefault(ctx, ParamProvider, f.config.Provider)
	if err != nil {
		return nil, err
	}
	apiKey, err := f.params.GetOrDefault(ctx, ParamAPIKey, f.config.APIKey)
	if err != nil {
		return nil, err
	}
	baseURL, err := f.params.GetOrDefault(ctx, ParamBaseURL, f.config.BaseURL)
	if err != nil {
		return nil, err
	}
	model, err := f.params.GetOrDefault(ctx, ParamModel, f.config.Model)
	if err != nil {
		return nil, err
	}

	switch ProviderType(provider) {
	case ProviderGemini:
		return NewGeminiService(ctx, apiKey, baseURL, model, f.config, f.logger)
	case ProviderClaude:
		return NewClaudeService(apiKey, baseURL, model, f.config, f.logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", provider)
	}
}
