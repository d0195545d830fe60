package provider

import (
	"fmt"

	"p2pchat/model"
)

// NewProvider creates a provider from configuration, dispatching on
// cfg.Type. Returns an error for unknown types or when the
// provider-specific constructor fails.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case TypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case TypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case TypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// TypeFromID maps a user-facing provider id from the config file to a
// provider Type. Unknown ids pass through so the factory can report them.
func TypeFromID(id string) Type {
	switch id {
	case "ollama":
		return TypeOllama
	case "openai":
		return TypeOpenAI
	case "anthropic":
		return TypeAnthropic
	default:
		return Type(id)
	}
}
