package domain

// DefaultHistoryWindow is how many recent turns are sent to the model as context.
const DefaultHistoryWindow = 5

// Turn is one {role, content} entry of a conversation context.
type Turn struct {
	Role    Role
	Content string
}

// History is a session-scoped ring buffer holding the last N turns.
// It is not safe for concurrent use; each request builds its own.
type History struct {
	turns []Turn
	start int
	size  int
}

// NewHistory creates an empty History keeping at most capacity turns.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryWindow
	}
	return &History{turns: make([]Turn, capacity)}
}

// Append adds a turn, evicting the oldest one when the buffer is full.
func (h *History) Append(role Role, content string) {
	if h == nil {
		return
	}
	capacity := len(h.turns)
	if h.size < capacity {
		h.turns[(h.start+h.size)%capacity] = Turn{Role: role, Content: content}
		h.size++
		return
	}
	h.turns[h.start] = Turn{Role: role, Content: content}
	h.start = (h.start + 1) % capacity
}

// Turns returns the buffered turns oldest first.
func (h *History) Turns() []Turn {
	if h == nil || h.size == 0 {
		return nil
	}
	out := make([]Turn, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.turns[(h.start+i)%len(h.turns)])
	}
	return out
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return h.size
}

func (h *History) Cap() int {
	if h == nil {
		return 0
	}
	return len(h.turns)
}
