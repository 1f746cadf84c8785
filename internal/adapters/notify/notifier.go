// Package notify delivers reminder and timer notifications.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, message string) error {
	observability.LoggerFromContext(ctx).Info("notification", "title", title, "message", message)
	return nil
}

// Notification is one delivered notification.
type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Inbox keeps the last notifications in memory so clients can poll them, and forwards each
// one to next when set.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	size  int
	next  domain.Notifier
	now   func() time.Time
}

// NewInbox keeps at most size notifications (50 when size <= 0).
func NewInbox(size int, next domain.Notifier) *Inbox {
	if size <= 0 {
		size = 50
	}
	return &Inbox{size: size, next: next, now: time.Now}
}

func (b *Inbox) Notify(ctx context.Context, title, message string) error {
	b.mu.Lock()
	b.items = append(b.items, Notification{Title: title, Message: message, At: b.now()})
	if len(b.items) > b.size {
		b.items = b.items[len(b.items)-b.size:]
	}
	b.mu.Unlock()

	if b.next != nil {
		return b.next.Notify(ctx, title, message)
	}
	return nil
}

// Recent returns the kept notifications, oldest first.
func (b *Inbox) Recent() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}
