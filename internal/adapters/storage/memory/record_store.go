package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// RecordStore is an in-memory implementation of the tool stores
// (reminders, habits, tasks and goal plans).
// It is NOT persistent and is only suitable for development / local mode.
type RecordStore struct {
	mu        sync.RWMutex
	reminders map[domain.UserID][]*domain.Reminder
	habits    map[domain.UserID]map[string]*domain.Habit
	tasks     map[domain.UserID][]*domain.Task
	plans     map[domain.UserID][]*domain.GoalPlan
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		reminders: make(map[domain.UserID][]*domain.Reminder),
		habits:    make(map[domain.UserID]map[string]*domain.Habit),
		tasks:     make(map[domain.UserID][]*domain.Task),
		plans:     make(map[domain.UserID][]*domain.GoalPlan),
	}
}

// Stores exposes s as every record store.
func (s *RecordStore) Stores() domain.RecordStores {
	return domain.RecordStores{Reminders: s, Habits: s, Tasks: s, Plans: s}
}

// --- reminders --- //

func (s *RecordStore) AddReminder(_ context.Context, r *domain.Reminder) error {
	if r == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	cp := *r
	s.reminders[r.UserID] = append(s.reminders[r.UserID], &cp)
	return nil
}

func (s *RecordStore) MarkReminderTriggered(_ context.Context, userID domain.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders[userID] {
		if r.ID == id {
			r.Triggered = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *RecordStore) ListReminders(_ context.Context, userID domain.UserID) ([]*domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Reminder, 0, len(s.reminders[userID]))
	for _, r := range s.reminders[userID] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

// --- habits --- //

func (s *RecordStore) GetHabit(_ context.Context, userID domain.UserID, name string) (*domain.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.habits[userID][name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyHabit(h), nil
}

func (s *RecordStore) SaveHabit(_ context.Context, h *domain.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.habits[h.UserID]
	if !ok {
		byName = make(map[string]*domain.Habit)
		s.habits[h.UserID] = byName
	}
	byName[h.Name] = copyHabit(h)
	return nil
}

func (s *RecordStore) DeleteHabit(_ context.Context, userID domain.UserID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.habits[userID][name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.habits[userID], name)
	return nil
}

func (s *RecordStore) ListHabits(_ context.Context, userID domain.UserID) ([]*domain.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Habit, 0, len(s.habits[userID]))
	for _, h := range s.habits[userID] {
		out = append(out, copyHabit(h))
	}
	return out, nil
}

func copyHabit(h *domain.Habit) *domain.Habit {
	cp := *h
	cp.Dates = append([]string(nil), h.Dates...)
	return &cp
}

// --- tasks --- //

func (s *RecordStore) AddTask(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	s.tasks[t.UserID] = append(s.tasks[t.UserID], &cp)
	return nil
}

func (s *RecordStore) ListTasks(_ context.Context, userID domain.UserID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *RecordStore) RemoveTask(_ context.Context, userID domain.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[userID]
	for i, t := range tasks {
		if t.ID == id {
			s.tasks[userID] = append(tasks[:i:i], tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *RecordStore) ClearTasks(_ context.Context, userID domain.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tasks[userID])
	delete(s.tasks, userID)
	return n, nil
}

// --- goal plans --- //

func (s *RecordStore) AppendPlan(_ context.Context, plan *domain.GoalPlan) error {
	if plan == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	s.plans[plan.UserID] = append(s.plans[plan.UserID], plan)
	return nil
}

// ListPlansByUser returns the last `limit` plans for a user.
// If limit <= 0, returns all.
func (s *RecordStore) ListPlansByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.GoalPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := s.plans[userID]
	if limit <= 0 || limit > len(plans) {
		limit = len(plans)
	}

	out := make([]*domain.GoalPlan, limit)
	copy(out, plans[len(plans)-limit:])
	return out, nil
}
