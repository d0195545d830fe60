package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MessageMatch is one global-search hit.
type MessageMatch struct {
	ConversationID    string
	ConversationTitle string
	MessageIndex      int
	Type              MessageType
	Text              string
	Preview           string
	Timestamp         time.Time
}

// MessageIndex is a sqlite-backed index over every terminal message, used
// by global search so queries don't have to walk the full conversation map
// on each keystroke. It is derived data: the JSON store stays the source of
// truth and the index is rebuilt from it on every persist.
type MessageIndex struct {
	db *sql.DB
}

func NewMessageIndex(dataDir string) (*MessageIndex, error) {
	dbPath := filepath.Join(dataDir, "messages.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	index := &MessageIndex{db: db}

	if err := index.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return index, nil
}

func (mi *MessageIndex) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		conversation_id TEXT NOT NULL,
		conversation_title TEXT NOT NULL,
		message_idx INTEGER NOT NULL,
		type TEXT NOT NULL,
		text TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		PRIMARY KEY (conversation_id, message_idx)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	`

	_, err := mi.db.Exec(schema)
	return err
}

// Refresh rebuilds the index from a sanitized conversation snapshot.
func (mi *MessageIndex) Refresh(conversations map[string]*Conversation) error {
	tx, err := mi.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages
		(conversation_id, conversation_title, message_idx, type, text, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, conv := range conversations {
		for i, msg := range conv.Messages {
			if _, err := stmt.Exec(id, conv.Title, i, string(msg.Type), msg.Text, msg.Timestamp); err != nil {
				return fmt.Errorf("failed to index message: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Search returns all messages containing the query as a case-insensitive
// substring, newest first. LIKE wildcards in the query are escaped so user
// input is matched literally.
func (mi *MessageIndex) Search(query string) ([]MessageMatch, error) {
	if query == "" {
		return []MessageMatch{}, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := mi.db.Query(`SELECT conversation_id, conversation_title, message_idx, type, text, timestamp
		FROM messages
		WHERE text LIKE ? ESCAPE '\'
		ORDER BY timestamp DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var matches []MessageMatch
	for rows.Next() {
		var m MessageMatch
		var msgType string
		if err := rows.Scan(&m.ConversationID, &m.ConversationTitle, &m.MessageIndex, &msgType, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		m.Type = MessageType(msgType)
		m.Preview = previewText(m.Text)
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Close releases the underlying database handle.
func (mi *MessageIndex) Close() error {
	return mi.db.Close()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func previewText(text string) string {
	preview := strings.ReplaceAll(text, "\n", " ")
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return preview
}
