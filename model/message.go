package model

import "p2pchat/storage"

// Message is the runtime chat message, shared with the storage layer so the
// conversation map is the single source of truth.
type Message = storage.Message

// MessageSystem is a context-only type used when building provider request
// messages (system prompts, tool results). It never enters a conversation's
// message list.
const MessageSystem storage.MessageType = "system"

// ToolCall is a provider-agnostic tool invocation requested by the model.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}
