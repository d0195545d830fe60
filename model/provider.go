package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"p2pchat/ollama"
)

// Provider abstracts LLM backends (Ollama, OpenAI, Anthropic) using
// provider-agnostic types from the model layer.
//
// The interface lives here rather than in the provider package to avoid
// import cycles: provider implementations import model, and model uses the
// interface without importing provider.
type Provider interface {
	// Chat sends messages and streams responses back via callback.
	Chat(ctx context.Context, messages []Message, callback StreamCallback) error

	// ChatWithTools sends messages with available tool definitions and
	// streams responses.
	ChatWithTools(ctx context.Context, messages []Message, tools []mcptypes.Tool, callback StreamCallback) error

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// StreamCallback is called for each chunk of streamed response. Tool calls
// are reported as they are detected; chunk may be empty on a pure tool-call
// notification.
type StreamCallback func(chunk string, toolCalls []ToolCall) error
