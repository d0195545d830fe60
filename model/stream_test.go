package model

import (
	"testing"
	"time"

	"p2pchat/storage"
)

func newStreamStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.CreateConversation()
	s.AppendMessage(storage.Message{Type: storage.MessageUser, Text: "question", Timestamp: time.Now()})
	return s
}

func TestBeginStreamAppendsPlaceholder(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)

	conv := s.Current()
	target := acc.Target()
	if target.ConversationID != conv.ID {
		t.Errorf("target conversation: got %q, want %q", target.ConversationID, conv.ID)
	}
	if target.MessageIndex != 1 {
		t.Errorf("target index: got %d, want 1", target.MessageIndex)
	}
	if got := conv.Messages[1].Type; got != storage.MessageStreaming {
		t.Errorf("placeholder type: got %q, want %q", got, storage.MessageStreaming)
	}
}

func TestDeltasAccumulateInOrder(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)
	target := acc.Target()

	for _, chunk := range []string{"The ", "invoice ", "is ", "on hold."} {
		if !acc.Delta(target, chunk) {
			t.Fatalf("delta %q dropped", chunk)
		}
	}

	got := s.Current().Messages[1].Text
	if got != "The invoice is on hold." {
		t.Errorf("accumulated text: got %q, want %q", got, "The invoice is on hold.")
	}
}

func TestToolCallsRecordedInOrder(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)
	target := acc.Target()

	names := []string{"lookup_term", "current_date", "lookup_term"}
	for _, name := range names {
		if !acc.ToolCall(target, name) {
			t.Fatalf("tool call %q dropped", name)
		}
	}

	got := s.Current().Messages[1].ToolCalls
	if len(got) != len(names) {
		t.Fatalf("tool call count: got %d, want %d", len(got), len(names))
	}
	for i, name := range got {
		if name != names[i] {
			t.Errorf("tool call %d: got %q, want %q", i, name, names[i])
		}
	}
}

func TestDoneFinalizesSlot(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)
	target := acc.Target()

	acc.Delta(target, "partial")
	acc.ToolCall(target, "lookup_term")
	if !acc.Done(target, "the full answer") {
		t.Fatal("done dropped")
	}

	msg := s.Current().Messages[1]
	if msg.Type != storage.MessageAssistant {
		t.Errorf("final type: got %q, want %q", msg.Type, storage.MessageAssistant)
	}
	if msg.Text != "the full answer" {
		t.Errorf("final text: got %q, want %q", msg.Text, "the full answer")
	}
	if msg.Timestamp.IsZero() {
		t.Error("final message has zero timestamp")
	}
	if msg.ToolCalls != nil {
		t.Errorf("tool calls not discarded: got %v", msg.ToolCalls)
	}
	if !acc.Terminated() {
		t.Error("accumulator not terminal after done")
	}
}

func TestFailReplacesPlaceholderWithError(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)
	target := acc.Target()

	acc.Delta(target, "partial text the user never sees")
	if !acc.Fail(target, "request timed out") {
		t.Fatal("fail dropped")
	}

	conv := s.Current()
	if len(conv.Messages) != 2 {
		t.Fatalf("message count: got %d, want 2", len(conv.Messages))
	}
	last := conv.Messages[1]
	if last.Type != storage.MessageError {
		t.Errorf("replacement type: got %q, want %q", last.Type, storage.MessageError)
	}
	if last.Text != "request timed out" {
		t.Errorf("replacement text: got %q, want %q", last.Text, "request timed out")
	}
	if !acc.Terminated() {
		t.Error("accumulator not terminal after fail")
	}
}

func TestTerminalEventFiresAtMostOnce(t *testing.T) {
	tests := []struct {
		name  string
		first func(a *Accumulator, target StreamTarget) bool
	}{
		{
			name:  "done then everything dropped",
			first: func(a *Accumulator, target StreamTarget) bool { return a.Done(target, "answer") },
		},
		{
			name:  "fail then everything dropped",
			first: func(a *Accumulator, target StreamTarget) bool { return a.Fail(target, "boom") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStreamStore(t)
			acc := BeginStream(s)
			target := acc.Target()

			if !tt.first(acc, target) {
				t.Fatal("terminal event dropped")
			}
			before := len(s.Current().Messages)
			beforeText := s.Current().Messages[1].Text

			if acc.Delta(target, "late delta") {
				t.Error("delta accepted after terminal event")
			}
			if acc.Done(target, "second answer") {
				t.Error("done accepted twice")
			}
			if acc.Fail(target, "second error") {
				t.Error("fail accepted after terminal event")
			}

			if got := len(s.Current().Messages); got != before {
				t.Errorf("message count changed: got %d, want %d", got, before)
			}
			if got := s.Current().Messages[1].Text; got != beforeText {
				t.Errorf("message text changed: got %q, want %q", got, beforeText)
			}
		})
	}
}

func TestEventsForStaleTargetDropped(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)

	stale := StreamTarget{ConversationID: "other-conversation", MessageIndex: 1}
	if acc.Delta(stale, "text") {
		t.Error("delta for foreign target accepted")
	}
	if acc.Done(stale, "text") {
		t.Error("done for foreign target accepted")
	}
	if acc.Fail(stale, "err") {
		t.Error("fail for foreign target accepted")
	}
	if got := s.Current().Messages[1].Text; got != "" {
		t.Errorf("placeholder text: got %q, want empty", got)
	}
	if acc.Terminated() {
		t.Error("stale events terminated the session")
	}
}

func TestEventsAfterConversationDeletedDropped(t *testing.T) {
	s := newStreamStore(t)
	acc := BeginStream(s)
	target := acc.Target()

	s.DeleteConversation(target.ConversationID)

	if acc.Delta(target, "text") {
		t.Error("delta accepted after conversation deleted")
	}
	if acc.Done(target, "answer") {
		t.Error("done accepted after conversation deleted")
	}
	if got := len(s.Current().Messages); got != 0 {
		t.Errorf("replacement conversation messages: got %d, want 0", got)
	}
}
