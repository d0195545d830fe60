package model

import (
	"p2pchat/config"
	"p2pchat/storage"
)

// StreamTarget identifies the exact streaming slot a session writes to: the
// conversation and message index tagged when the session started. Events
// are validated against it instead of trusting ambient current-conversation
// state, which can change mid-stream.
type StreamTarget struct {
	ConversationID string
	MessageIndex   int
}

// Accumulator folds an incremental event stream into the single streaming
// message it was started for. Deltas are applied in arrival order with no
// coalescing beyond concatenation; exactly one Done or Fail terminates the
// session, after which every further event is dropped.
type Accumulator struct {
	store    *storage.Store
	target   StreamTarget
	terminal bool
}

// BeginStream appends a streaming placeholder to the current conversation
// (creating one if none exists) and returns the accumulator bound to it.
func BeginStream(store *storage.Store) *Accumulator {
	conv := store.AppendMessage(storage.Message{Type: storage.MessageStreaming})
	return &Accumulator{
		store: store,
		target: StreamTarget{
			ConversationID: conv.ID,
			MessageIndex:   len(conv.Messages) - 1,
		},
	}
}

// Target returns the slot this accumulator writes to.
func (a *Accumulator) Target() StreamTarget {
	return a.target
}

// Terminated reports whether a terminal event has fired.
func (a *Accumulator) Terminated() bool {
	return a.terminal
}

// slot resolves the target to its live streaming message, or reports the
// event as stale (conversation deleted, message gone, already terminal).
func (a *Accumulator) slot() (*storage.Conversation, bool) {
	if a.terminal {
		return nil, false
	}
	conv, ok := a.store.Get(a.target.ConversationID)
	if !ok {
		return nil, false
	}
	if a.target.MessageIndex >= len(conv.Messages) {
		return nil, false
	}
	if conv.Messages[a.target.MessageIndex].Type != storage.MessageStreaming {
		return nil, false
	}
	return conv, true
}

// Delta appends a text fragment to the streaming message. Returns false if
// the event was dropped as stale.
func (a *Accumulator) Delta(target StreamTarget, text string) bool {
	if target != a.target {
		config.Log.Debugf("dropping delta for stale target %+v", target)
		return false
	}
	conv, ok := a.slot()
	if !ok {
		config.Log.Debugf("dropping delta for vanished slot %+v", a.target)
		return false
	}
	conv.Messages[a.target.MessageIndex].Text += text
	return true
}

// ToolCall records a tool invocation on the streaming message, preserving
// notification order.
func (a *Accumulator) ToolCall(target StreamTarget, name string) bool {
	if target != a.target {
		config.Log.Debugf("dropping tool call for stale target %+v", target)
		return false
	}
	conv, ok := a.slot()
	if !ok {
		return false
	}
	msg := &conv.Messages[a.target.MessageIndex]
	msg.ToolCalls = append(msg.ToolCalls, name)
	return true
}

// Done terminates the session successfully: the streaming message becomes
// an assistant message with the final text, its timestamp is stamped, tool
// calls are discarded and the conversation is persisted.
func (a *Accumulator) Done(target StreamTarget, finalText string) bool {
	if target != a.target {
		config.Log.Debugf("dropping done for stale target %+v", target)
		return false
	}
	conv, ok := a.slot()
	if !ok {
		return false
	}
	a.terminal = true
	a.store.FinalizeStreaming(conv, a.target.MessageIndex, finalText)
	return true
}

// Fail terminates the session with an error: the streaming placeholder is
// removed entirely and a terminal error message is appended in its place.
func (a *Accumulator) Fail(target StreamTarget, errText string) bool {
	if target != a.target {
		config.Log.Debugf("dropping error for stale target %+v", target)
		return false
	}
	conv, ok := a.slot()
	if !ok {
		return false
	}
	a.terminal = true
	a.store.FailStreaming(conv, a.target.MessageIndex, errText)
	return true
}
