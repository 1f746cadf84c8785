// Package redis keeps the conversation log in Redis lists so several API replicas share it.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const keyPrefix = "ruhaan:messages:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// MessageStore appends each message as a JSON entry of the list ruhaan:messages:{session_id}.
type MessageStore struct {
	rdb *redis.Client
}

// NewMessageStore connects and pings the server.
func NewMessageStore(cfg Config) (*MessageStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &MessageStore{rdb: rdb}, nil
}

// NewMessageStoreFromClient wraps an existing client.
func NewMessageStoreFromClient(rdb *redis.Client) *MessageStore {
	return &MessageStore{rdb: rdb}
}

func (s *MessageStore) Close() error {
	return s.rdb.Close()
}

func key(sessionID domain.SessionID) string {
	return keyPrefix + string(sessionID)
}

type messageEntry struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	Language    string    `json:"language,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *MessageStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	raw, err := json.Marshal(messageEntry{
		ID:          string(msg.ID),
		Author:      string(msg.Author),
		Text:        msg.Text,
		Language:    string(msg.Language),
		ContentType: msg.ContentType,
		CreatedAt:   msg.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if err := s.rdb.RPush(ctx, key(msg.SessionID), raw).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

// GetMessagesBySession reads the last `limit` entries, oldest first (all if limit <= 0).
func (s *MessageStore) GetMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	raws, err := s.rdb.LRange(ctx, key(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]*domain.Message, 0, len(raws))
	for _, raw := range raws {
		var e messageEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, &domain.Message{
			ID:          domain.MessageID(e.ID),
			SessionID:   sessionID,
			Author:      domain.Role(e.Author),
			Text:        e.Text,
			Language:    domain.LanguageCode(e.Language),
			ContentType: e.ContentType,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
