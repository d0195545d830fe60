package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvelopeVersion tags the export schema.
const EnvelopeVersion = "1"

// Envelope is the export/import container for a conversation set.
type Envelope struct {
	Version       string                   `json:"version"`
	Exported      time.Time                `json:"exported"`
	Conversations map[string]*Conversation `json:"conversations"`
}

// Export writes the full conversation set as an envelope to path.
func (s *Store) Export(path string) error {
	env := Envelope{
		Version:       EnvelopeVersion,
		Exported:      time.Now(),
		Conversations: make(map[string]*Conversation, len(s.conversations)),
	}
	for id, conv := range s.conversations {
		env.Conversations[id] = sanitized(conv)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// 0600 - exports contain conversation history
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}

// GenerateExportPath returns a default export path under the user's
// Downloads directory, timestamped so repeated exports never collide.
func GenerateExportPath() string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE") // Windows fallback
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("p2pchat-conversations-%s.json", timestamp)

	return filepath.Join(homeDir, "Downloads", filename)
}

// Import reads an envelope from path and merges it into the store by key
// union: conversations with new ids are added, existing ids always win.
// Validation is structural and happens before any merge; on failure the
// entire import is aborted. Returns the number of conversations added.
func (s *Store) Import(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file: %w", err)
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		return 0, err
	}

	added := 0
	for id, conv := range env.Conversations {
		if _, exists := s.conversations[id]; exists {
			continue
		}
		s.conversations[id] = conv
		added++
	}

	if s.currentID == "" && len(s.conversations) > 0 {
		for _, meta := range s.List() {
			s.currentID = meta.ID
			break
		}
	}

	if added > 0 {
		s.Persist()
	}

	return added, nil
}

// ParseEnvelope decodes and structurally validates an envelope. The
// top-level conversations field must be present and a map.
func ParseEnvelope(data []byte) (*Envelope, error) {
	// Probe the raw shape first: a null or non-object conversations field
	// unmarshals "successfully" into a nil map, which has to be rejected.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid import file: %w", err)
	}

	raw, ok := probe["conversations"]
	if !ok {
		return nil, fmt.Errorf("invalid import file: missing conversations field")
	}

	var conversations map[string]*Conversation
	if err := json.Unmarshal(raw, &conversations); err != nil {
		return nil, fmt.Errorf("invalid import file: conversations is not a map: %w", err)
	}
	if conversations == nil {
		return nil, fmt.Errorf("invalid import file: conversations is not a map")
	}
	// A null entry unmarshals to a nil pointer without error and would
	// blow up every later walk of the map.
	for id, conv := range conversations {
		if conv == nil {
			return nil, fmt.Errorf("invalid import file: conversation %q is null", id)
		}
	}

	env := &Envelope{Conversations: conversations}
	if v, ok := probe["version"]; ok {
		_ = json.Unmarshal(v, &env.Version)
	}
	if e, ok := probe["exported"]; ok {
		_ = json.Unmarshal(e, &env.Exported)
	}

	return env, nil
}
