package provider

import (
	"testing"
)

func TestTypeFromID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Type
	}{
		{name: "ollama", input: "ollama", expected: TypeOllama},
		{name: "openai", input: "openai", expected: TypeOpenAI},
		{name: "anthropic", input: "anthropic", expected: TypeAnthropic},
		{name: "unknown passes through", input: "watsonx", expected: Type("watsonx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeFromID(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewProviderUnknownType(t *testing.T) {
	_, err := NewProvider(Config{Type: Type("watsonx")})
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "openai without key", cfg: Config{Type: TypeOpenAI}},
		{name: "anthropic without key", cfg: Config{Type: TypeAnthropic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(tt.cfg); err == nil {
				t.Fatal("expected error for missing api key")
			}
		})
	}
}
