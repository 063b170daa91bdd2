package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the CompletionService interface using the Google
// Gemini API.
type GeminiService struct {
	client      *genai.Client
	model       string
	logger      arbor.ILogger
	timeout     time.Duration
	temperature float32
}

// NewGeminiService creates a Gemini completion service. baseURL may be empty
// to use the provider default.
func NewGeminiService(ctx context.Context, apiKey, baseURL, model string, cfg *common.AIConfig, logger arbor.ILogger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, common.NewValidation("Gemini API key is required (set ai_api_key in the parameter store or ai.api_key in config)")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	service := &GeminiService{
		client:      client,
		model:       model,
		logger:      logger,
		timeout:     timeout,
		temperature: cfg.Temperature,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Gemini completion service initialized")

	return service, nil
}

// Complete generates a single text completion
func (s *GeminiService) Complete(ctx context.Context, req *interfaces.CompletionRequest) (string, error) {
	if req == nil || req.Prompt == "" {
		return "", common.NewValidation("completion prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.temperature),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.model, contents, config)
	if err != nil {
		return "", &common.UpstreamFetchError{URL: "gemini api", Err: err}
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", &common.UpstreamFetchError{URL: "gemini api", Err: fmt.Errorf("no response generated")}
	}

	s.logger.Debug().
		Int("prompt_length", len(req.Prompt)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion finished")

	return response.String(), nil
}

// Close releases client resources. The genai client does not require an
// explicit close; clearing the reference is sufficient.
func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}
