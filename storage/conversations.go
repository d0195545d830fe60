package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"p2pchat/config"
)

// MessageType tags a message variant. Streaming is transient: it exists only
// in memory while a response is being accumulated and is converted to
// assistant (success) or replaced by error (failure) before persistence.
type MessageType string

const (
	MessageUser      MessageType = "user"
	MessageAssistant MessageType = "assistant"
	MessageStreaming MessageType = "streaming"
	MessageError     MessageType = "error"
)

// Terminal reports whether the type is a final state.
func (t MessageType) Terminal() bool {
	return t != MessageStreaming
}

// Message is a chat message. Text is mutable only while Type is
// MessageStreaming; Timestamp stays zero until the message reaches a
// terminal type. ToolCalls is tracked only during streaming and never
// serialized.
type Message struct {
	Type      MessageType `json:"type"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	ToolCalls []string    `json:"-"`
}

// Conversation is a named, ordered sequence of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// ConversationMetadata is a lightweight view of a Conversation for listing
type ConversationMetadata struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"updated"`
	MessageCount int       `json:"message_count"`
}

const (
	// DefaultTitle is the placeholder title a conversation carries until
	// auto-titling derives one from its first user message.
	DefaultTitle = "New Conversation"

	conversationsFile = "conversations.json"
	currentIDFile     = "current_conversation.id"

	titleMaxRunes = 50
)

// Store is the single source of truth for all conversations and the active
// selection. All mutation goes through its API from the single UI event
// loop; state survives restarts via two durable keys under the data dir
// (the serialized conversation map and the current conversation id).
type Store struct {
	dataDir       string
	conversations map[string]*Conversation
	currentID     string
	index         *MessageIndex
}

// Open loads the persisted conversation map and last-active id. Storage that
// is absent or fails to parse is not fatal: chat history is convenience
// data, so the store falls back to an empty map and logs the problem.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir:       dataDir,
		conversations: make(map[string]*Conversation),
	}

	data, err := os.ReadFile(filepath.Join(dataDir, conversationsFile))
	switch {
	case os.IsNotExist(err):
		// First run
	case err != nil:
		config.Log.Warnf("conversation storage unreadable, starting empty: %v", err)
	default:
		if err := json.Unmarshal(data, &s.conversations); err != nil {
			config.Log.Warnf("conversation storage corrupt, starting empty: %v", err)
			s.conversations = make(map[string]*Conversation)
		}
		// Null entries unmarshal to nil pointers without error; drop them
		// so the rest of the store never has to nil-check.
		for id, conv := range s.conversations {
			if conv == nil {
				config.Log.Warnf("dropping null conversation entry %q", id)
				delete(s.conversations, id)
			}
		}
	}

	idData, err := os.ReadFile(filepath.Join(dataDir, currentIDFile))
	if err == nil {
		id := strings.TrimSpace(string(idData))
		if _, ok := s.conversations[id]; ok {
			s.currentID = id
		} else if id != "" {
			config.Log.Warnf("stored current id %q not found, ignoring", id)
		}
	}

	// current_id must refer to an existing conversation, or be empty only
	// when the set is empty
	if s.currentID == "" && len(s.conversations) > 0 {
		for _, meta := range s.List() {
			s.currentID = meta.ID
			break
		}
	}

	return s, nil
}

// SetIndex attaches a secondary message index that is refreshed on every
// persist.
func (s *Store) SetIndex(index *MessageIndex) {
	s.index = index
}

// DataDir returns the directory backing the store.
func (s *Store) DataDir() string {
	return s.dataDir
}

// NewConversationID generates a unique conversation id: a millisecond
// timestamp plus a random suffix, so rapid creation cannot collide.
func NewConversationID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Current returns the active conversation, or nil when none exists.
func (s *Store) Current() *Conversation {
	if s.currentID == "" {
		return nil
	}
	return s.conversations[s.currentID]
}

// CurrentID returns the active conversation id ("" when the set is empty).
func (s *Store) CurrentID() string {
	return s.currentID
}

// Get returns a conversation by id.
func (s *Store) Get(id string) (*Conversation, bool) {
	conv, ok := s.conversations[id]
	return conv, ok
}

// Count returns the number of conversations.
func (s *Store) Count() int {
	return len(s.conversations)
}

// CreateConversation creates an empty conversation, makes it current and
// persists.
func (s *Store) CreateConversation() *Conversation {
	now := time.Now()
	conv := &Conversation{
		ID:        NewConversationID(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = conv
	s.currentID = conv.ID
	s.Persist()
	return conv
}

// LoadConversation switches the active conversation. An unknown id is a
// benign no-op: the UI may hold stale state, so it is logged, not raised.
func (s *Store) LoadConversation(id string) *Conversation {
	conv, ok := s.conversations[id]
	if !ok {
		config.Log.Infof("load of unknown conversation %q ignored", id)
		return s.Current()
	}
	s.currentID = id
	s.Persist()
	return conv
}

// AppendMessage appends to the current conversation, creating one first if
// none exists. Terminal messages are persisted immediately; a streaming
// placeholder only mutates memory. The title stays default until a response
// lands: auto-titling runs when an assistant or error message arrives, not
// on the user message itself.
func (s *Store) AppendMessage(msg Message) *Conversation {
	conv := s.Current()
	if conv == nil {
		conv = s.CreateConversation()
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()

	if msg.Type.Terminal() {
		if msg.Type != MessageUser {
			s.autoTitle(conv)
		}
		s.Persist()
	}
	return conv
}

// FinalizeStreaming converts the streaming message at index into a terminal
// assistant message, stamps its timestamp, discards tool calls and persists.
func (s *Store) FinalizeStreaming(conv *Conversation, index int, finalText string) {
	if index < 0 || index >= len(conv.Messages) || conv.Messages[index].Type != MessageStreaming {
		config.Log.Warnf("finalize of non-streaming message %d in %s ignored", index, conv.ID)
		return
	}
	conv.Messages[index] = Message{
		Type:      MessageAssistant,
		Text:      finalText,
		Timestamp: time.Now(),
	}
	conv.UpdatedAt = time.Now()
	s.autoTitle(conv)
	s.Persist()
}

// FailStreaming removes the streaming placeholder at index entirely and
// appends a terminal error message in its place.
func (s *Store) FailStreaming(conv *Conversation, index int, errText string) {
	if index < 0 || index >= len(conv.Messages) || conv.Messages[index].Type != MessageStreaming {
		config.Log.Warnf("fail of non-streaming message %d in %s ignored", index, conv.ID)
		return
	}
	conv.Messages = append(conv.Messages[:index], conv.Messages[index+1:]...)
	conv.Messages = append(conv.Messages, Message{
		Type:      MessageError,
		Text:      errText,
		Timestamp: time.Now(),
	})
	conv.UpdatedAt = time.Now()
	s.autoTitle(conv)
	s.Persist()
}

// DeleteConversation removes a conversation. Deleting the active one
// immediately creates a replacement so current_id never dangles. Unknown
// ids are benign no-ops.
func (s *Store) DeleteConversation(id string) {
	if _, ok := s.conversations[id]; !ok {
		config.Log.Infof("delete of unknown conversation %q ignored", id)
		return
	}
	delete(s.conversations, id)

	if s.currentID == id {
		s.currentID = ""
		s.CreateConversation()
		return
	}
	s.Persist()
}

// RenameConversation sets a conversation's title. A manual title counts as
// non-default: auto-titling will never overwrite it afterwards.
func (s *Store) RenameConversation(id, title string) {
	conv, ok := s.conversations[id]
	if !ok {
		config.Log.Infof("rename of unknown conversation %q ignored", id)
		return
	}
	conv.Title = title
	conv.UpdatedAt = time.Now()
	s.Persist()
}

// List returns metadata for all conversations, most recently updated first.
func (s *Store) List() []ConversationMetadata {
	metas := make([]ConversationMetadata, 0, len(s.conversations))
	for _, conv := range s.conversations {
		metas = append(metas, ConversationMetadata{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].UpdatedAt.Equal(metas[j].UpdatedAt) {
			return metas[i].ID > metas[j].ID
		}
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas
}

// Conversations returns the full conversation set, most recently updated
// first.
func (s *Store) Conversations() []*Conversation {
	convs := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		convs = append(convs, conv)
	}
	sort.Slice(convs, func(i, j int) bool {
		if convs[i].UpdatedAt.Equal(convs[j].UpdatedAt) {
			return convs[i].ID > convs[j].ID
		}
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs
}

// autoTitle rewrites the default title from the first user message, exactly
// once. Once any non-default title exists it is never touched again.
func (s *Store) autoTitle(conv *Conversation) {
	if conv.Title != DefaultTitle {
		return
	}
	for _, msg := range conv.Messages {
		if msg.Type == MessageUser {
			conv.Title = TruncateTitle(msg.Text)
			return
		}
	}
}

// TruncateTitle normalizes a message into a display title: newlines become
// spaces and the result is capped at 50 runes with an ellipsis marker.
func TruncateTitle(text string) string {
	title := strings.ReplaceAll(text, "\n", " ")
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.TrimSpace(title)

	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes]) + "..."
	}
	if title == "" {
		title = DefaultTitle
	}
	return title
}

// Persist serializes the whole conversation map and the current id under
// their two storage keys. Writes are fire-and-forget: a failure is logged,
// never surfaced, and the in-memory state stays authoritative. The last
// write wins over the entire blob.
func (s *Store) Persist() {
	snapshot := make(map[string]*Conversation, len(s.conversations))
	for id, conv := range s.conversations {
		snapshot[id] = sanitized(conv)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		config.Log.Errorf("failed to serialize conversations: %v", err)
		return
	}

	// 0600 - conversation history is user-private
	if err := os.WriteFile(filepath.Join(s.dataDir, conversationsFile), data, 0600); err != nil {
		config.Log.Errorf("failed to write conversations: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, currentIDFile), []byte(s.currentID), 0600); err != nil {
		config.Log.Errorf("failed to write current conversation id: %v", err)
	}

	if s.index != nil {
		if err := s.index.Refresh(snapshot); err != nil {
			config.Log.Errorf("failed to refresh message index: %v", err)
		}
	}
}

// sanitized returns a copy with any in-flight streaming placeholder dropped:
// a persisted conversation never contains a streaming message.
func sanitized(conv *Conversation) *Conversation {
	clean := *conv
	clean.Messages = make([]Message, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.Type == MessageStreaming {
			continue
		}
		clean.Messages = append(clean.Messages, msg)
	}
	return &clean
}
