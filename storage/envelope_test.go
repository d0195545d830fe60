package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	src.CreateConversation()
	src.AppendMessage(Message{Type: MessageUser, Text: "what is a three-way match", Timestamp: time.Now()})
	src.AppendMessage(Message{Type: MessageAssistant, Text: "a control matching PO, receipt and invoice", Timestamp: time.Now()})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestStore(t)
	added, err := dst.Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added: got %d, want 1", added)
	}
	conv, ok := dst.Get(src.CurrentID())
	if !ok {
		t.Fatal("imported conversation not found")
	}
	if len(conv.Messages) != 2 {
		t.Errorf("imported message count: got %d, want 2", len(conv.Messages))
	}
}

func TestImportMergesByKeyUnion(t *testing.T) {
	src := newTestStore(t)
	src.CreateConversation()
	src.AppendMessage(Message{Type: MessageUser, Text: "imported question", Timestamp: time.Now()})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestStore(t)
	dst.CreateConversation()
	dst.AppendMessage(Message{Type: MessageUser, Text: "local question", Timestamp: time.Now()})

	added, err := dst.Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added: got %d, want 1", added)
	}
	if dst.Count() != 2 {
		t.Errorf("conversation count: got %d, want 2", dst.Count())
	}
}

func TestImportExistingIDsWin(t *testing.T) {
	dir := t.TempDir()
	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	conv := src.CreateConversation()
	src.AppendMessage(Message{Type: MessageUser, Text: "exported version", Timestamp: time.Now()})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Same id in the destination with different content
	src.RenameConversation(conv.ID, "local title")
	added, err := src.Import(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if added != 0 {
		t.Errorf("added: got %d, want 0", added)
	}
	got, _ := src.Get(conv.ID)
	if got.Title != "local title" {
		t.Errorf("title after import: got %q, want %q", got.Title, "local title")
	}
}

func TestImportIsIdempotent(t *testing.T) {
	src := newTestStore(t)
	src.CreateConversation()
	src.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestStore(t)
	if _, err := dst.Import(path); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	added, err := dst.Import(path)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if added != 0 {
		t.Errorf("second import added: got %d, want 0", added)
	}
	if dst.Count() != 1 {
		t.Errorf("conversation count: got %d, want 1", dst.Count())
	}
}

func TestImportSetsCurrentWhenStoreWasEmpty(t *testing.T) {
	src := newTestStore(t)
	src.CreateConversation()
	src.AppendMessage(Message{Type: MessageUser, Text: "question", Timestamp: time.Now()})

	path := filepath.Join(t.TempDir(), "export.json")
	if err := src.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestStore(t)
	if _, err := dst.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if dst.CurrentID() == "" {
		t.Error("import into empty store left no current conversation")
	}
}

func TestImportRejectsMalformedEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: "{broken",
		},
		{
			name:    "missing conversations field",
			content: `{"version": "1"}`,
		},
		{
			name:    "conversations is null",
			content: `{"version": "1", "conversations": null}`,
		},
		{
			name:    "conversations is an array",
			content: `{"version": "1", "conversations": []}`,
		},
		{
			name:    "conversations is a string",
			content: `{"version": "1", "conversations": "nope"}`,
		},
		{
			name:    "null conversation entry",
			content: `{"version": "1", "conversations": {"x": null}}`,
		},
		{
			name:    "null entry next to a valid one",
			content: `{"version": "1", "conversations": {"ok": {"id": "ok", "title": "t", "messages": []}, "x": null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("write test file: %v", err)
			}

			s := newTestStore(t)
			s.CreateConversation()

			added, err := s.Import(path)
			if err == nil {
				t.Fatal("expected error for malformed envelope")
			}
			if added != 0 {
				t.Errorf("added: got %d, want 0", added)
			}
			if s.Count() != 1 {
				t.Errorf("conversation count after failed import: got %d, want 1", s.Count())
			}
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Import(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
