package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"p2pchat/config"
	"p2pchat/storage"
	"p2pchat/tools"
)

// MaxToolRounds caps follow-up requests after tool execution so a model
// that keeps requesting tools cannot loop forever.
const MaxToolRounds = 3

const chatTimeout = 120 * time.Second

// buildAPIMessages assembles the provider request context: an optional
// system prompt, then the conversation's terminal user/assistant messages
// in order. Error messages and streaming placeholders never go upstream.
func buildAPIMessages(messages []Message, systemPrompt string) []Message {
	var apiMessages []Message

	if systemPrompt != "" {
		apiMessages = append(apiMessages, Message{
			Type: MessageSystem,
			Text: systemPrompt,
		})
	}

	for _, msg := range messages {
		if msg.Type == storage.MessageUser || msg.Type == storage.MessageAssistant {
			apiMessages = append(apiMessages, Message{
				Type: msg.Type,
				Text: msg.Text,
			})
		}
	}

	return apiMessages
}

// SendMessage appends the user message, opens a streaming slot and starts
// the provider request in the background. Stream events arrive as tea.Msgs
// via NextStreamEvent; callers must not invoke this while a session is
// already in flight (the compose input is disabled during streaming).
func (m *Model) SendMessage(text string) tea.Cmd {
	m.Store.AppendMessage(storage.Message{
		Type:      storage.MessageUser,
		Text:      text,
		Timestamp: time.Now(),
	})

	acc := BeginStream(m.Store)
	m.Stream = acc
	m.Streaming = true

	events := make(chan tea.Msg, 64)
	m.streamCh = events

	conv, _ := m.Store.Get(acc.Target().ConversationID)
	apiMessages := buildAPIMessages(conv.Messages, m.BuildSystemPrompt())

	var registry *tools.Registry
	if m.Config.ToolsEnabled {
		registry = m.Tools
	}

	go runChat(m.Provider, registry, apiMessages, acc.Target(), events)

	return m.NextStreamEvent()
}

// NextStreamEvent waits for the next event of the in-flight streaming
// session. The UI re-issues it after every delta so events are consumed
// one per Update cycle, in arrival order.
func (m *Model) NextStreamEvent() tea.Cmd {
	events := m.streamCh
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// runChat drives the provider conversation, including bounded tool rounds.
// It owns no model state: everything it needs is captured at start and all
// results flow back through the events channel.
func runChat(provider Provider, registry *tools.Registry, apiMessages []Message, target StreamTarget, events chan<- tea.Msg) {
	defer close(events)

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	var full strings.Builder
	round := 0

	var mcpTools []mcptypes.Tool
	if registry != nil {
		mcpTools = registry.Definitions()
	}

	for {
		var calls []ToolCall

		err := provider.ChatWithTools(ctx, apiMessages, mcpTools, func(chunk string, toolCalls []ToolCall) error {
			if chunk != "" {
				full.WriteString(chunk)
				events <- StreamDeltaMsg{Target: target, Text: chunk}
			}
			if len(toolCalls) > 0 && len(calls) == 0 {
				calls = toolCalls
				names := make([]string, 0, len(toolCalls))
				for _, call := range toolCalls {
					names = append(names, call.Name)
				}
				events <- StreamToolCallMsg{Target: target, Names: names}
			}
			return nil
		})
		if err != nil {
			events <- StreamErrorMsg{Target: target, Err: err}
			return
		}

		if registry == nil || len(calls) == 0 || round >= MaxToolRounds {
			events <- StreamDoneMsg{Target: target, FullResponse: full.String()}
			return
		}
		round++

		// Feed tool results back and let the model continue.
		for _, call := range calls {
			result, err := registry.Execute(ctx, call.Name, call.Arguments)
			if err != nil {
				config.Log.Warnf("tool %s failed: %v", call.Name, err)
				result = fmt.Sprintf("tool %s failed: %v", call.Name, err)
			}
			apiMessages = append(apiMessages, Message{
				Type: MessageSystem,
				Text: fmt.Sprintf("Result of %s: %s", call.Name, result),
			})
		}
	}
}

// FetchModelList retrieves the provider's available models.
func (m *Model) FetchModelList() tea.Cmd {
	provider := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		models, err := provider.ListModels(ctx)
		return ModelsListMsg{Models: models, Err: err}
	}
}
