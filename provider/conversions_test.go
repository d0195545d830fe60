package provider

import (
	"testing"

	"github.com/ollama/ollama/api"

	"p2pchat/model"
	"p2pchat/storage"
)

func TestRoleFor(t *testing.T) {
	tests := []struct {
		name     string
		input    storage.MessageType
		expected string
	}{
		{name: "user", input: storage.MessageUser, expected: "user"},
		{name: "assistant", input: storage.MessageAssistant, expected: "assistant"},
		{name: "system", input: model.MessageSystem, expected: "system"},
		{name: "streaming falls back to user", input: storage.MessageStreaming, expected: "user"},
		{name: "error falls back to user", input: storage.MessageError, expected: "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roleFor(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.Message
		expected []api.Message
	}{
		{
			name:     "empty input",
			input:    []model.Message{},
			expected: []api.Message{},
		},
		{
			name: "mixed roles",
			input: []model.Message{
				{Type: model.MessageSystem, Text: "You assist procure-to-pay analysts."},
				{Type: storage.MessageUser, Text: "Why is the invoice on hold?"},
				{Type: storage.MessageAssistant, Text: "The quantities do not match the receipt."},
			},
			expected: []api.Message{
				{Role: "system", Content: "You assist procure-to-pay analysts."},
				{Role: "user", Content: "Why is the invoice on hold?"},
				{Role: "assistant", Content: "The quantities do not match the receipt."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertToOllamaMessages(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.expected))
			}
			for i, msg := range got {
				if msg.Role != tt.expected[i].Role {
					t.Errorf("message %d role: got %q, want %q", i, msg.Role, tt.expected[i].Role)
				}
				if msg.Content != tt.expected[i].Content {
					t.Errorf("message %d content: got %q, want %q", i, msg.Content, tt.expected[i].Content)
				}
			}
		})
	}
}

func TestConvertToProviderToolCalls(t *testing.T) {
	input := []api.ToolCall{
		{
			Function: api.ToolCallFunction{
				Name:      "lookup_term",
				Arguments: api.ToolCallFunctionArguments{"term": "GRN"},
			},
		},
		{
			Function: api.ToolCallFunction{
				Name:      "current_date",
				Arguments: api.ToolCallFunctionArguments{},
			},
		},
	}

	got := ConvertToProviderToolCalls(input)
	if len(got) != 2 {
		t.Fatalf("length mismatch: got %d, want 2", len(got))
	}
	if got[0].Name != "lookup_term" {
		t.Errorf("call 0 name: got %q, want %q", got[0].Name, "lookup_term")
	}
	if term, ok := got[0].Arguments["term"].(string); !ok || term != "GRN" {
		t.Errorf("call 0 term argument: got %v, want %q", got[0].Arguments["term"], "GRN")
	}
	if got[1].Name != "current_date" {
		t.Errorf("call 1 name: got %q, want %q", got[1].Name, "current_date")
	}
}

func TestConvertToProviderToolCallsEmpty(t *testing.T) {
	if got := ConvertToProviderToolCalls(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := ConvertToProviderToolCalls([]api.ToolCall{}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
