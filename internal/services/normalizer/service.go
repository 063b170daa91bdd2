package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/interfaces"
	"github.com/ternarybob/vendo/internal/models"
)

const outlineSystemPrompt = `You are a precise data extraction assistant. ` +
	`You respond with raw JSON only: no markdown, no code fences, no commentary.`

const outlineExtractPrompt = `Extract the course outline from the following HTML.
Return only JSON matching this shape exactly:
{"sections":[{"title":"...","duration":"...","lectures":[{"title":"...","duration":"..."}]}]}
Omitted durations become empty strings. Do not invent sections.

HTML:
%s`

const outlineTranslatePrompt = `Translate only the "title" values in the following JSON into %s.
Keep every "duration" value and the JSON shape exactly as given.
Return only the JSON.

%s`

const textConvertPrompt = `Convert the following HTML fragment into clean structured prose.
Preserve headings, lists and links. Return plain text only.

HTML:
%s`

// Service normalizes scraped HTML through an AI completion service
type Service struct {
	storage        interfaces.StorageManager
	resolver       interfaces.CompletionResolver
	logger         arbor.ILogger
	targetLanguage string
}

// NewService creates a content normalizer
func NewService(storage interfaces.StorageManager, resolver interfaces.CompletionResolver, config *common.AIConfig, logger arbor.ILogger) *Service {
	targetLanguage := config.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = "Simplified Chinese"
	}

	return &Service{
		storage:        storage,
		resolver:       resolver,
		logger:         logger,
		targetLanguage: targetLanguage,
	}
}

// ExtractOutline runs the two-stage outline extraction: stage A pulls a
// strict JSON outline from the raw course HTML, stage B translates only the
// titles while preserving durations and shape. The stage-B JSON is persisted
// verbatim. Re-running overwrites the prior outline.
func (s *Service) ExtractOutline(ctx context.Context, resourceID string) (*models.ExternalResource, error) {
	resource, err := s.storage.Resources().Get(resourceID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resource.RawCourseHTML) == "" {
		return nil, common.NewValidation("resource has no raw course HTML to extract from")
	}

	completion, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer completion.Close()

	s.logger.Info().Str("resource_id", resourceID).Msg("Extracting course outline")

	extracted, err := completion.Complete(ctx, &interfaces.CompletionRequest{
		System: outlineSystemPrompt,
		Prompt: fmt.Sprintf(outlineExtractPrompt, resource.RawCourseHTML),
	})
	if err != nil {
		return nil, err
	}

	var outline models.Outline
	if err := DecodeResponse(extracted, &outline); err != nil {
		return nil, err
	}

	translated, err := completion.Complete(ctx, &interfaces.CompletionRequest{
		System: outlineSystemPrompt,
		Prompt: fmt.Sprintf(outlineTranslatePrompt, s.targetLanguage, StripCodeFences(extracted)),
	})
	if err != nil {
		return nil, err
	}

	outline = models.Outline{}
	if err := DecodeResponse(translated, &outline); err != nil {
		return nil, err
	}

	resource, err = s.storage.Resources().Patch(resourceID, &models.ResourcePatch{
		NormalizedOutlineJSON: StripCodeFences(translated),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("resource_id", resourceID).
		Int("sections", len(outline.Sections)).
		Msg("Course outline extracted")

	return resource, nil
}

// ConvertToText converts the scraped details HTML into clean prose with a
// single completion call. An empty response is a failure and nothing is
// persisted.
func (s *Service) ConvertToText(ctx context.Context, resourceID string) (*models.ExternalResource, error) {
	resource, err := s.storage.Resources().Get(resourceID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resource.RawDetailHTML) == "" {
		return nil, common.NewValidation("resource has no detail HTML to convert")
	}

	completion, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer completion.Close()

	s.logger.Info().Str("resource_id", resourceID).Msg("Converting detail HTML to text")

	text, err := completion.Complete(ctx, &interfaces.CompletionRequest{
		Prompt: fmt.Sprintf(textConvertPrompt, resource.RawDetailHTML),
	})
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &common.ValidationError{Message: "AI returned an empty conversion"}
	}

	return s.storage.Resources().Patch(resourceID, &models.ResourcePatch{
		NormalizedText: text,
	})
}
