package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// MockStructuredJSON is a complete four-section answer returned for structured calls.
const MockStructuredJSON = `{
  "psychological": {"analysis": "Fear of the unknown is making this choice feel heavier than it is.", "key_points": ["Write down the three worst outcomes and how you would recover from each.", "Notice that the fear is about uncertainty, not about your ability.", "Talk to one person who has made a similar move."]},
  "philosophical": {"perspective": "A life shaped only by safety rarely feels like your own.", "key_points": ["Decide which regret you could live with more easily.", "Remember that every path has a cost, including staying.", "Focus on what you can control this week."]},
  "autobiographical": {"story": "Many people felt this exact fear before their best decisions.", "key_points": ["Start a small side project before leaving anything.", "Plan a savings buffer of six months.", "Ask yourself what your past self would be proud of."]},
  "logical": {"framework": "Compare the options with a simple risk and reward table.", "key_points": ["Create a list of pros and cons for both options.", "Set a deadline to decide within two weeks.", "Try the new path for thirty days in your free time."]}
}`

// MockLLM is a scripted ChatClient for local runs and tests.
// With no responder it returns canned answers per purpose.
type MockLLM struct {
	mu        sync.Mutex
	responder func(req domain.CompletionRequest) (string, error)
	calls     []domain.CompletionRequest
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// NewScriptedLLM returns a mock that answers every call with fn.
func NewScriptedLLM(fn func(req domain.CompletionRequest) (string, error)) *MockLLM {
	return &MockLLM{responder: fn}
}

func (m *MockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	fn := m.responder
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fn != nil {
		return fn(req)
	}
	return cannedReply(req), nil
}

// Calls returns a copy of every request received so far.
func (m *MockLLM) Calls() []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many requests had the given purpose.
func (m *MockLLM) CallCount(p domain.Purpose) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Purpose == p {
			n++
		}
	}
	return n
}

func cannedReply(req domain.CompletionRequest) string {
	last := ""
	if len(req.Messages) > 0 {
		last = req.Messages[len(req.Messages)-1].Content
	}

	switch req.Purpose {
	case domain.PurposeClassify:
		return "chit-chat"
	case domain.PurposeStructured:
		return MockStructuredJSON
	case domain.PurposeTranslate:
		return last
	case domain.PurposeGoalPlanner:
		return "Step 1: Learn the basics\n• Spend one week on fundamentals\n\nStep 2: Build something small\n• Finish one mini project\n\nStep 3: Share and iterate\n• Get feedback from two people"
	case domain.PurposeCommand:
		return fmt.Sprintf("I can help with reminders, habits, goals, tasks and the browser. You said %q.", last)
	default:
		return fmt.Sprintf("I hear you. You said %q. Tell me a bit more.", last)
	}
}
