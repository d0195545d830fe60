package tools

import (
	"context"
	"strings"
	"testing"
)

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry()

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("definition count: got %d, want 2", len(defs))
	}
	if defs[0].Name != "lookup_term" {
		t.Errorf("first definition: got %q, want %q", defs[0].Name, "lookup_term")
	}
	if defs[1].Name != "current_date" {
		t.Errorf("second definition: got %q, want %q", defs[1].Name, "current_date")
	}
}

func TestExecuteLookupTerm(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		contains string
		wantErr  bool
	}{
		{
			name:     "known term",
			args:     map[string]any{"term": "three-way match"},
			contains: "purchase order, goods receipt and supplier invoice",
		},
		{
			name:     "case and whitespace folded",
			args:     map[string]any{"term": "  PO  "},
			contains: "Purchase Order",
		},
		{
			name:     "unknown term lists known ones",
			args:     map[string]any{"term": "blanket wumpus"},
			contains: "No glossary entry",
		},
		{
			name:    "missing argument",
			args:    map[string]any{},
			wantErr: true,
		},
		{
			name:    "non-string argument",
			args:    map[string]any{"term": 42},
			wantErr: true,
		},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Execute(context.Background(), "lookup_term", tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("result %q does not contain %q", got, tt.contains)
			}
		})
	}
}

func TestExecuteCurrentDate(t *testing.T) {
	r := NewRegistry()
	got, err := r.Execute(context.Background(), "current_date", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got == "" {
		t.Error("current_date returned empty result")
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute(context.Background(), "delete_everything", nil); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
