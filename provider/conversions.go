package provider

import (
	"github.com/ollama/ollama/api"

	"p2pchat/model"
	"p2pchat/storage"
)

// roleFor maps a message type to the wire role shared by the Ollama and
// OpenAI chat APIs.
func roleFor(t storage.MessageType) string {
	switch t {
	case storage.MessageUser:
		return "user"
	case storage.MessageAssistant:
		return "assistant"
	case model.MessageSystem:
		return "system"
	default:
		return "user"
	}
}

// ConvertToOllamaMessages converts model messages to Ollama API messages
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	ollamaMessages := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		ollamaMessages = append(ollamaMessages, api.Message{
			Role:    roleFor(msg.Type),
			Content: msg.Text,
		})
	}
	return ollamaMessages
}

// ConvertToProviderToolCalls converts Ollama tool calls to provider-agnostic
// tool calls
func ConvertToProviderToolCalls(ollamaCalls []api.ToolCall) []model.ToolCall {
	if len(ollamaCalls) == 0 {
		return nil
	}

	calls := make([]model.ToolCall, 0, len(ollamaCalls))
	for _, call := range ollamaCalls {
		calls = append(calls, model.ToolCall{
			Name:      call.Function.Name,
			Arguments: map[string]any(call.Function.Arguments),
		})
	}
	return calls
}
