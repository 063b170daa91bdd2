package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
)

// ClaudeService implements the CompletionService interface using the
// Anthropic Claude API.
type ClaudeService struct {
	client      anthropic.Client
	model       string
	logger      arbor.ILogger
	timeout     time.Duration
	maxTokens   int
	temperature float32
}

// NewClaudeService creates a Claude completion service. baseURL may be empty
// to use the provider default.
func NewClaudeService(apiKey, baseURL, model string, cfg *common.AIConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if apiKey == "" {
		return nil, common.NewValidation("Claude API key is required (set ai_api_key in the parameter store or ai.api_key in config)")
	}
	if model == "" {
		model = "claude-haiku-3-5-20241022"
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	service := &ClaudeService{
		client:      anthropic.NewClient(opts...),
		model:       model,
		logger:      logger,
		timeout:     timeout,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude completion service initialized")

	return service, nil
}

// Complete generates a single text completion
func (s *ClaudeService) Complete(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
	if req == nil || req.Prompt == "" {
		return "", common.NewValidation("completion prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if s.temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.temperature))
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", &common.UpstreamFetchError{URL: "claude api", Err: err}
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", &common.UpstreamFetchError{URL: "claude api", Err: fmt.Errorf("no response generated")}
	}

	s.logger.Debug().
		Int("prompt_length", len(req.Prompt)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion finished")

	return response.String(), nil
}

// Close releases client resources (no-op for the Claude client)
func (s *ClaudeService) Close() error {
	return nil
}
