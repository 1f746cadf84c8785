// Package sqlite stores sessions, messages and tool records in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("path is required for SQLite store")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Stores exposes s as every record store.
func (s *Store) Stores() domain.RecordStores {
	return domain.RecordStores{Reminders: s, Habits: s, Tasks: s, Plans: s}
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, updated_at);

	CREATE TABLE IF NOT EXISTS messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		time_label TEXT NOT NULL DEFAULT '',
		due_at INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		triggered INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id, created_at);

	CREATE TABLE IF NOT EXISTS habits (
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		dates TEXT NOT NULL DEFAULT '[]',
		streak INTEGER NOT NULL DEFAULT 0,
		best_streak INTEGER NOT NULL DEFAULT 0,
		last_date TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, name)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, seq);

	CREATE TABLE IF NOT EXISTS plans (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		goal TEXT NOT NULL,
		steps TEXT NOT NULL DEFAULT '[]',
		text TEXT NOT NULL,
		generated INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Times are stored as unix nanoseconds; zero stays zero.
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(session.ID), string(session.UserID), session.Title,
		toUnix(session.CreatedAt), toUnix(session.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`,
		session.Title, toUnix(session.UpdatedAt), string(session.ID),
	)
	if err != nil {
		return fmt.Errorf("sqlite UpdateSession: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, title, created_at, updated_at FROM sessions WHERE id = ?`, string(id))

	var (
		userID, title        string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&userID, &title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sqlite GetSession: %w", err)
	}

	return &domain.Session{
		ID:        id,
		UserID:    domain.UserID(userID),
		Title:     title,
		CreatedAt: fromUnix(createdAt),
		UpdatedAt: fromUnix(updatedAt),
	}, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at, updated_at FROM sessions
		 WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?`,
		string(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListSessionsByUser: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		var (
			id, title            string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&id, &title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, &domain.Session{
			ID:        domain.SessionID(id),
			UserID:    userID,
			Title:     title,
			CreatedAt: fromUnix(createdAt),
			UpdatedAt: fromUnix(updatedAt),
		})
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────
// MessageStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, author, text, language, content_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(msg.ID), string(msg.SessionID), string(msg.Author), msg.Text,
		string(msg.Language), msg.ContentType, toUnix(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite AppendMessage: %w", err)
	}
	return nil
}

// GetMessagesBySession reads the newest `limit` messages and returns them oldest first.
func (s *Store) GetMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, text, language, content_type, created_at FROM (
			SELECT seq, id, author, text, language, content_type, created_at FROM messages
			WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`,
		string(sessionID), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite GetMessagesBySession: %w", err)
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var (
			id, author, text, lang, contentType string
			createdAt                           int64
		)
		if err := rows.Scan(&id, &author, &text, &lang, &contentType, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &domain.Message{
			ID:          domain.MessageID(id),
			SessionID:   sessionID,
			Author:      domain.Role(author),
			Text:        text,
			Language:    domain.LanguageCode(lang),
			ContentType: contentType,
			CreatedAt:   fromUnix(createdAt),
		})
	}
	return out, rows.Err()
}
