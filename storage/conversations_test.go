package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()

	texts := []string{"first", "second", "third", "fourth"}
	types := []MessageType{MessageUser, MessageAssistant, MessageUser, MessageAssistant}
	for i, text := range texts {
		s.AppendMessage(Message{Type: types[i], Text: text, Timestamp: time.Now()})
	}

	conv := s.Current()
	if len(conv.Messages) != len(texts) {
		t.Fatalf("message count: got %d, want %d", len(conv.Messages), len(texts))
	}
	for i, msg := range conv.Messages {
		if msg.Text != texts[i] {
			t.Errorf("message %d text: got %q, want %q", i, msg.Text, texts[i])
		}
		if msg.Type != types[i] {
			t.Errorf("message %d type: got %q, want %q", i, msg.Type, types[i])
		}
	}
}

func TestAppendMessageCreatesConversationWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	if s.Current() != nil {
		t.Fatal("expected no current conversation in a fresh store")
	}

	conv := s.AppendMessage(Message{Type: MessageUser, Text: "hello", Timestamp: time.Now()})
	if conv == nil {
		t.Fatal("AppendMessage returned nil conversation")
	}
	if s.Current() != conv {
		t.Error("appended conversation is not current")
	}
	if len(conv.Messages) != 1 {
		t.Errorf("message count: got %d, want 1", len(conv.Messages))
	}
}

func TestStreamingMessagesNeverPersisted(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	s.CreateConversation()
	s.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})
	s.AppendMessage(Message{Type: MessageStreaming, Text: "partial answ"})
	s.Persist()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	conv := reopened.Current()
	if conv == nil {
		t.Fatal("expected current conversation after reopen")
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("persisted message count: got %d, want 1", len(conv.Messages))
	}
	if conv.Messages[0].Type != MessageUser {
		t.Errorf("persisted message type: got %q, want %q", conv.Messages[0].Type, MessageUser)
	}
}

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "short message used verbatim",
			text:     "why is PO 4500123 stuck on hold",
			expected: "why is PO 4500123 stuck on hold",
		},
		{
			name:     "long message truncated at fifty runes",
			text:     strings.Repeat("a", 80),
			expected: strings.Repeat("a", 50) + "...",
		},
		{
			name:     "newlines flattened to spaces",
			text:     "invoice hold\nfor vendor 1002",
			expected: "invoice hold for vendor 1002",
		},
		{
			name:     "multibyte runes counted as runes",
			text:     strings.Repeat("ü", 60),
			expected: strings.Repeat("ü", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			s.CreateConversation()
			s.AppendMessage(Message{Type: MessageUser, Text: tt.text, Timestamp: time.Now()})
			conv := s.AppendMessage(Message{Type: MessageAssistant, Text: "an answer", Timestamp: time.Now()})
			if conv.Title != tt.expected {
				t.Errorf("title: got %q, want %q", conv.Title, tt.expected)
			}
		})
	}
}

func TestTitleStaysDefaultUntilResponse(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()

	conv := s.AppendMessage(Message{Type: MessageUser, Text: "why is PO 4500123 stuck", Timestamp: time.Now()})
	if conv.Title != DefaultTitle {
		t.Errorf("title after user message alone: got %q, want %q", conv.Title, DefaultTitle)
	}

	s.AppendMessage(Message{Type: MessageAssistant, Text: "it awaits goods receipt", Timestamp: time.Now()})
	if conv.Title != "why is PO 4500123 stuck" {
		t.Errorf("title after response: got %q, want %q", conv.Title, "why is PO 4500123 stuck")
	}
}

func TestAutoTitleRunsAtMostOnce(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()

	s.AppendMessage(Message{Type: MessageUser, Text: "first question", Timestamp: time.Now()})
	s.AppendMessage(Message{Type: MessageAssistant, Text: "an answer", Timestamp: time.Now()})
	s.AppendMessage(Message{Type: MessageUser, Text: "second question", Timestamp: time.Now()})
	s.AppendMessage(Message{Type: MessageAssistant, Text: "another answer", Timestamp: time.Now()})

	if got := s.Current().Title; got != "first question" {
		t.Errorf("title after later messages: got %q, want %q", got, "first question")
	}
}

func TestRenameBlocksAutoTitle(t *testing.T) {
	s := newTestStore(t)
	conv := s.CreateConversation()

	s.RenameConversation(conv.ID, "Q3 payment runs")
	s.AppendMessage(Message{Type: MessageUser, Text: "unrelated question", Timestamp: time.Now()})
	s.AppendMessage(Message{Type: MessageAssistant, Text: "an answer", Timestamp: time.Now()})

	if got := s.Current().Title; got != "Q3 payment runs" {
		t.Errorf("title after append: got %q, want %q", got, "Q3 payment runs")
	}
}

func TestDeleteCurrentCreatesReplacement(t *testing.T) {
	s := newTestStore(t)
	conv := s.CreateConversation()
	s.AppendMessage(Message{Type: MessageUser, Text: "hello", Timestamp: time.Now()})

	s.DeleteConversation(conv.ID)

	if s.Count() != 1 {
		t.Fatalf("conversation count: got %d, want 1", s.Count())
	}
	current := s.Current()
	if current == nil {
		t.Fatal("expected a replacement conversation")
	}
	if current.ID == conv.ID {
		t.Error("replacement reused the deleted id")
	}
	if len(current.Messages) != 0 {
		t.Errorf("replacement messages: got %d, want 0", len(current.Messages))
	}
}

func TestDeleteNonCurrentKeepsSelection(t *testing.T) {
	s := newTestStore(t)
	first := s.CreateConversation()
	second := s.CreateConversation()

	s.DeleteConversation(first.ID)

	if s.CurrentID() != second.ID {
		t.Errorf("current id: got %q, want %q", s.CurrentID(), second.ID)
	}
	if s.Count() != 1 {
		t.Errorf("conversation count: got %d, want 1", s.Count())
	}
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	conv := s.CreateConversation()

	s.DeleteConversation("no-such-id")

	if s.Count() != 1 {
		t.Errorf("conversation count: got %d, want 1", s.Count())
	}
	if s.CurrentID() != conv.ID {
		t.Errorf("current id: got %q, want %q", s.CurrentID(), conv.ID)
	}
}

func TestOpenSurvivesCorruptStorage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, conversationsFile), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open should not fail on corrupt storage: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("conversation count: got %d, want 0", s.Count())
	}
}

func TestOpenDropsNullConversationEntries(t *testing.T) {
	dir := t.TempDir()
	stored := `{
		"good": {"id": "good", "title": "Invoice holds", "messages": []},
		"bad": null
	}`
	if err := os.WriteFile(filepath.Join(dir, conversationsFile), []byte(stored), 0600); err != nil {
		t.Fatalf("write storage file: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("conversation count: got %d, want 1", s.Count())
	}
	if _, ok := s.Get("good"); !ok {
		t.Error("valid conversation was dropped")
	}
	if _, ok := s.Get("bad"); ok {
		t.Error("null conversation entry survived load")
	}

	// Listing and persisting must not trip over the dropped entry.
	if got := len(s.List()); got != 1 {
		t.Errorf("listed count: got %d, want 1", got)
	}
	s.Persist()
}

func TestCurrentIDRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.CreateConversation()
	want := s.CreateConversation().ID
	s.AppendMessage(Message{Type: MessageUser, Text: "hi", Timestamp: time.Now()})

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.CurrentID() != want {
		t.Errorf("current id after reopen: got %q, want %q", reopened.CurrentID(), want)
	}
}

func TestOpenIgnoresDanglingCurrentID(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	conv := s.CreateConversation()
	s.AppendMessage(Message{Type: MessageUser, Text: "hi", Timestamp: time.Now()})

	if err := os.WriteFile(filepath.Join(dir, currentIDFile), []byte("gone-"+conv.ID), 0600); err != nil {
		t.Fatalf("write id file: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.CurrentID() != conv.ID {
		t.Errorf("current id: got %q, want %q", reopened.CurrentID(), conv.ID)
	}
}

func TestFinalizeStreaming(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()
	s.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})
	conv := s.AppendMessage(Message{Type: MessageStreaming, Text: "part", ToolCalls: []string{"lookup_term"}})

	s.FinalizeStreaming(conv, 1, "a complete answer")

	msg := conv.Messages[1]
	if msg.Type != MessageAssistant {
		t.Errorf("finalized type: got %q, want %q", msg.Type, MessageAssistant)
	}
	if msg.Text != "a complete answer" {
		t.Errorf("finalized text: got %q, want %q", msg.Text, "a complete answer")
	}
	if msg.Timestamp.IsZero() {
		t.Error("finalized message has zero timestamp")
	}
	if msg.ToolCalls != nil {
		t.Errorf("tool calls not discarded: got %v", msg.ToolCalls)
	}
}

func TestFinalizeNonStreamingIgnored(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()
	conv := s.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})

	s.FinalizeStreaming(conv, 0, "overwrite attempt")

	if conv.Messages[0].Text != "question" {
		t.Errorf("message text: got %q, want %q", conv.Messages[0].Text, "question")
	}
	if conv.Messages[0].Type != MessageUser {
		t.Errorf("message type: got %q, want %q", conv.Messages[0].Type, MessageUser)
	}
}

func TestFailStreamingReplacesPlaceholder(t *testing.T) {
	s := newTestStore(t)
	s.CreateConversation()
	s.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})
	conv := s.AppendMessage(Message{Type: MessageStreaming, Text: "partial"})

	s.FailStreaming(conv, 1, "connection refused")

	if len(conv.Messages) != 2 {
		t.Fatalf("message count: got %d, want 2", len(conv.Messages))
	}
	last := conv.Messages[1]
	if last.Type != MessageError {
		t.Errorf("replacement type: got %q, want %q", last.Type, MessageError)
	}
	if last.Text != "connection refused" {
		t.Errorf("replacement text: got %q, want %q", last.Text, "connection refused")
	}
	for _, msg := range conv.Messages {
		if msg.Type == MessageStreaming {
			t.Error("streaming placeholder survived failure")
		}
	}
	// A failed exchange still counts as a response for titling.
	if conv.Title != "question" {
		t.Errorf("title after failure: got %q, want %q", conv.Title, "question")
	}
}

func TestListOrderedByMostRecentUpdate(t *testing.T) {
	s := newTestStore(t)
	older := s.CreateConversation()
	newer := s.CreateConversation()
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer.UpdatedAt = time.Now()

	metas := s.List()
	if len(metas) != 2 {
		t.Fatalf("metadata count: got %d, want 2", len(metas))
	}
	if metas[0].ID != newer.ID {
		t.Errorf("first listed id: got %q, want %q", metas[0].ID, newer.ID)
	}
	if metas[1].ID != older.ID {
		t.Errorf("second listed id: got %q, want %q", metas[1].ID, older.ID)
	}
}

func TestPersistedFileOmitsToolCalls(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.CreateConversation()
	s.AppendMessage(Message{
		Type:      MessageAssistant,
		Text:      "answer",
		Timestamp: time.Now(),
		ToolCalls: []string{"lookup_term"},
	})

	data, err := os.ReadFile(filepath.Join(dir, conversationsFile))
	if err != nil {
		t.Fatalf("read persisted file: %v", err)
	}
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted file is not valid JSON: %v", err)
	}
	if strings.Contains(string(data), "lookup_term") {
		t.Error("tool call names leaked into persisted storage")
	}
}
