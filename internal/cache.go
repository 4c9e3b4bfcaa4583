package internal

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a local SQLite store of conversations fetched from the backend.
// It lets list/show/export work offline and avoids refetching unchanged
// histories.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	title      TEXT,
	created_at TEXT,
	updated_at TEXT,
	synced_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	conversation_id TEXT NOT NULL,
	position        INTEGER NOT NULL,
	id              TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      TEXT,
	tool_info       TEXT,
	PRIMARY KEY (conversation_id, position)
);
`

// OpenCache opens (creating if necessary) the cache database at path
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &CacheError{Op: "open", Err: err}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &CacheError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &CacheError{Op: "open", Err: err}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, &CacheError{Op: "open", Err: err}
	}
	return &Cache{db: db}, nil
}

// OpenCacheDB wraps an already-open database handle; used by tests with an
// in-memory database.
func OpenCacheDB(db *sql.DB) (*Cache, error) {
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, &CacheError{Op: "open", Err: err}
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSummaries upserts conversation summaries from the listing endpoint,
// leaving any cached messages untouched.
func (c *Cache) SaveSummaries(conversations []Conversation) error {
	tx, err := c.db.Begin()
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, conv := range conversations {
		_, err := tx.Exec(`
			INSERT INTO conversations (id, title, created_at, updated_at, synced_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				updated_at = excluded.updated_at,
				synced_at = excluded.synced_at`,
			conv.ID, conv.Title, conv.CreatedAt, conv.UpdatedAt, now)
		if err != nil {
			return &CacheError{Op: "write", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	return nil
}

// SaveConversation stores a full conversation, replacing any cached messages
func (c *Cache) SaveConversation(detail *ConversationDetail) error {
	tx, err := c.db.Begin()
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO conversations (id, title, created_at, updated_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at`,
		detail.ID, detail.Title, detail.CreatedAt, detail.UpdatedAt, now)
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, detail.ID); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	for i, m := range detail.Messages {
		toolInfo, err := marshalToolInfo(m.ToolInfo)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO messages (conversation_id, position, id, role, content, created_at, tool_info)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			detail.ID, i, m.ID, m.Role, m.Content, m.CreatedAt, toolInfo)
		if err != nil {
			return &CacheError{Op: "write", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	return nil
}

// SaveTranscript stores a live engine transcript under the session id,
// preserving tool entries. Used after a chat session ends so the turn is
// inspectable offline. The summary upsert, message delete, and inserts
// commit as one transaction so a failure never leaves an emptied
// conversation behind.
func (c *Cache) SaveTranscript(sessionID, title string, messages []Message) error {
	if sessionID == "" {
		return nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO conversations (id, title, created_at, updated_at, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at`,
		sessionID, title, "", now, now)
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, sessionID); err != nil {
		return &CacheError{Op: "write", Err: err}
	}

	for i, m := range messages {
		toolInfo, err := marshalToolInfo(m.ToolInfo)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO messages (conversation_id, position, id, role, content, created_at, tool_info)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, i, m.ID, string(m.Role), m.Content, m.Timestamp.UTC().Format(time.RFC3339), toolInfo)
		if err != nil {
			return &CacheError{Op: "write", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	return nil
}

func marshalToolInfo(info *ToolInfo) (sql.NullString, error) {
	if info == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return sql.NullString{}, &CacheError{Op: "write", Err: err}
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ListConversations returns cached summaries, most recently updated first
func (c *Cache) ListConversations() ([]Conversation, error) {
	rows, err := c.db.Query(`
		SELECT id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, &CacheError{Op: "read", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var conversations []Conversation
	for rows.Next() {
		var conv Conversation
		var title, createdAt, updatedAt sql.NullString
		if err := rows.Scan(&conv.ID, &title, &createdAt, &updatedAt); err != nil {
			return nil, &CacheError{Op: "read", Err: err}
		}
		conv.Title = title.String
		conv.CreatedAt = createdAt.String
		conv.UpdatedAt = updatedAt.String
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, &CacheError{Op: "read", Err: err}
	}
	return conversations, nil
}

// GetConversation returns one cached conversation with its messages, or
// nil when the id is not cached.
func (c *Cache) GetConversation(id string) (*ConversationDetail, error) {
	var detail ConversationDetail
	var title, createdAt, updatedAt sql.NullString
	err := c.db.QueryRow(`
		SELECT id, title, created_at, updated_at
		FROM conversations WHERE id = ?`, id).
		Scan(&detail.ID, &title, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &CacheError{Op: "read", Err: err}
	}
	detail.Title = title.String
	detail.CreatedAt = createdAt.String
	detail.UpdatedAt = updatedAt.String

	rows, err := c.db.Query(`
		SELECT id, role, content, created_at, tool_info
		FROM messages WHERE conversation_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, &CacheError{Op: "read", Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m StoredMessage
		var createdAt, toolInfo sql.NullString
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &createdAt, &toolInfo); err != nil {
			return nil, &CacheError{Op: "read", Err: err}
		}
		m.CreatedAt = createdAt.String
		if toolInfo.Valid && toolInfo.String != "" {
			var info ToolInfo
			if err := json.Unmarshal([]byte(toolInfo.String), &info); err != nil {
				return nil, &CacheError{Op: "read", Err: err}
			}
			m.ToolInfo = &info
		}
		detail.Messages = append(detail.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &CacheError{Op: "read", Err: err}
	}
	return &detail, nil
}

// DeleteConversation removes a conversation and its messages from the cache
func (c *Cache) DeleteConversation(id string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	return nil
}

// Clear removes everything from the cache
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM messages`); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	if _, err := c.db.Exec(`DELETE FROM conversations`); err != nil {
		return &CacheError{Op: "write", Err: err}
	}
	return nil
}
