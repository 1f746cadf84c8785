// Package journal reads back what the tools recorded for a user: goal plans, reminders,
// habits and tasks.
package journal

import (
	"context"
	"fmt"
	"sort"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const defaultPlanLimit = 20

// Service holds the logic of reading a user's records
type Service struct {
	stores domain.RecordStores
}

// NewService creates a journal service over the record stores. Any store may be nil.
func NewService(stores domain.RecordStores) *Service {
	return &Service{
		stores: stores,
	}
}

// GetUserPlans returns the last `limit` goal plans for a user.
// If limit <= 0, a reasonable default value is used.
func (s *Service) GetUserPlans(ctx context.Context, userID domain.UserID, limit int) ([]*domain.GoalPlan, error) {
	if s.stores.Plans == nil {
		return []*domain.GoalPlan{}, nil
	}
	if limit <= 0 {
		limit = defaultPlanLimit
	}

	plans, err := s.stores.Plans.ListPlansByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// GetUserReminders returns the user's reminders oldest first, optionally only the ones not yet triggered.
func (s *Service) GetUserReminders(ctx context.Context, userID domain.UserID, activeOnly bool) ([]*domain.Reminder, error) {
	if s.stores.Reminders == nil {
		return []*domain.Reminder{}, nil
	}

	all, err := s.stores.Reminders.ListReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	if !activeOnly {
		return all, nil
	}

	active := make([]*domain.Reminder, 0, len(all))
	for _, r := range all {
		if !r.Triggered {
			active = append(active, r)
		}
	}
	return active, nil
}

// GetUserHabits returns the user's habits sorted by name.
func (s *Service) GetUserHabits(ctx context.Context, userID domain.UserID) ([]*domain.Habit, error) {
	if s.stores.Habits == nil {
		return []*domain.Habit{}, nil
	}

	habits, err := s.stores.Habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}

// GetUserTasks returns the user's quick task list in insertion order.
func (s *Service) GetUserTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	if s.stores.Tasks == nil {
		return []*domain.Task{}, nil
	}

	tasks, err := s.stores.Tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
