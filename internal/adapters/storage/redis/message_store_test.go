package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/redis"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// Needs a live server: RUHAAN_TEST_REDIS_ADDR=localhost:6379 go test ./...
func newStore(t *testing.T) *redis.MessageStore {
	t.Helper()
	addr := os.Getenv("RUHAAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RUHAAN_TEST_REDIS_ADDR not set")
	}

	s, err := redis.NewMessageStore(redis.Config{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndReadTail(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sid := domain.SessionID("test-" + uuid.NewString())
	t.Cleanup(func() {
		rdb := goredis.NewClient(&goredis.Options{Addr: os.Getenv("RUHAAN_TEST_REDIS_ADDR"), DB: 15})
		defer rdb.Close()
		rdb.Del(context.Background(), "ruhaan:messages:"+string(sid))
	})

	base := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	for i, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:          domain.MessageID(text),
			SessionID:   sid,
			Author:      domain.RoleUser,
			Text:        text,
			Language:    domain.LangHindi,
			ContentType: domain.ContentChitChat,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	tail, err := s.GetMessagesBySession(ctx, sid, 2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, "two", tail[0].Text)
	assert.Equal(t, "three", tail[1].Text)
	assert.Equal(t, domain.LangHindi, tail[1].Language)
	assert.True(t, tail[1].CreatedAt.Equal(base.Add(2*time.Second)))

	all, err := s.GetMessagesBySession(ctx, sid, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, err := s.GetMessagesBySession(ctx, "missing-"+domain.SessionID(uuid.NewString()), 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
