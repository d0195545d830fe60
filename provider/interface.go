// Package provider implements the LLM backends behind the chat assistant.
//
// The assistant supports multiple providers (local Ollama, cloud OpenAI and
// Anthropic APIs) through the model.Provider interface. The interface itself
// is defined in the model package to avoid import cycles: implementations
// here import model, and model uses the interface without importing this
// package.
//
// The provider layer owns all type conversions between the assistant's
// provider-agnostic types and each SDK's types; see conversions.go.
package provider

// Type identifies the provider implementation.
type Type string

const (
	TypeOllama    Type = "ollama"
	TypeOpenAI    Type = "openai"
	TypeAnthropic Type = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    Type
	BaseURL string
	Model   string
	APIKey  string // OpenAI/Anthropic only
}
