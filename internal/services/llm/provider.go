package llm

// Parameter store keys consulted when resolving the completion service.
// Values set here override the config file without a restart.
const (
	ParamProvider = "ai_provider"
	ParamAPIKey   = "ai_api_key"
	ParamBaseURL  = "ai_base_url"
	ParamModel    = "ai_model"
)

// ProviderType identifies the AI completion backend
type ProviderType string

const (
	// ProviderClaude uses the Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses the Google Gemini API
	ProviderGemini ProviderType = "gemini"
)
