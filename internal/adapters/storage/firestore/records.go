package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// Tool records live under users/{user_id}/{reminders,habits,tasks,plans}.

func (s *Store) userCol(userID domain.UserID, name string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(string(userID)).Collection(name)
}

// habitDocID keeps habit names usable as document IDs.
func habitDocID(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

type reminderDoc struct {
	Content   string    `firestore:"content"`
	TimeLabel string    `firestore:"time_label"`
	DueAt     time.Time `firestore:"due_at"`
	CreatedAt time.Time `firestore:"created_at"`
	Triggered bool      `firestore:"triggered"`
}

type habitDoc struct {
	Name       string   `firestore:"name"`
	Dates      []string `firestore:"dates"`
	Streak     int      `firestore:"streak"`
	BestStreak int      `firestore:"best_streak"`
	LastDate   string   `firestore:"last_date"`
}

type taskDoc struct {
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type planStepDoc struct {
	Title   string   `firestore:"title"`
	Details []string `firestore:"details"`
}

type planDoc struct {
	Goal      string        `firestore:"goal"`
	Steps     []planStepDoc `firestore:"steps"`
	Text      string        `firestore:"text"`
	Generated bool          `firestore:"generated"`
	CreatedAt time.Time     `firestore:"created_at"`
}

// eachDoc runs fn for every document of q.
func eachDoc(ctx context.Context, q firestore.Query, fn func(*firestore.DocumentSnapshot) error) error {
	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

// ─────────────────────────────────────────
// ReminderStore implementation
// ─────────────────────────────────────────

func (s *Store) AddReminder(ctx context.Context, r *domain.Reminder) error {
	doc := reminderDoc{
		Content:   r.Content,
		TimeLabel: r.TimeLabel,
		DueAt:     r.DueAt,
		CreatedAt: r.CreatedAt,
		Triggered: r.Triggered,
	}
	if _, err := s.userCol(r.UserID, "reminders").Doc(r.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AddReminder: %w", err)
	}
	return nil
}

func (s *Store) MarkReminderTriggered(ctx context.Context, userID domain.UserID, id string) error {
	_, err := s.userCol(userID, "reminders").Doc(id).Update(ctx, []firestore.Update{
		{Path: "triggered", Value: true},
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore MarkReminderTriggered: %w", err)
	}
	return nil
}

func (s *Store) ListReminders(ctx context.Context, userID domain.UserID) ([]*domain.Reminder, error) {
	q := s.userCol(userID, "reminders").OrderBy("created_at", firestore.Asc)

	var out []*domain.Reminder
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc reminderDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode reminderDoc: %w", err)
		}
		out = append(out, &domain.Reminder{
			ID:        snap.Ref.ID,
			UserID:    userID,
			Content:   doc.Content,
			TimeLabel: doc.TimeLabel,
			DueAt:     doc.DueAt,
			CreatedAt: doc.CreatedAt,
			Triggered: doc.Triggered,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListReminders: %w", err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// HabitStore implementation
// ─────────────────────────────────────────

func toHabit(userID domain.UserID, doc habitDoc) *domain.Habit {
	return &domain.Habit{
		UserID:     userID,
		Name:       doc.Name,
		Dates:      doc.Dates,
		Streak:     doc.Streak,
		BestStreak: doc.BestStreak,
		LastDate:   doc.LastDate,
	}
}

func (s *Store) GetHabit(ctx context.Context, userID domain.UserID, name string) (*domain.Habit, error) {
	snap, err := s.userCol(userID, "habits").Doc(habitDocID(name)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetHabit: %w", err)
	}

	var doc habitDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode habitDoc: %w", err)
	}
	return toHabit(userID, doc), nil
}

func (s *Store) SaveHabit(ctx context.Context, h *domain.Habit) error {
	doc := habitDoc{
		Name:       h.Name,
		Dates:      h.Dates,
		Streak:     h.Streak,
		BestStreak: h.BestStreak,
		LastDate:   h.LastDate,
	}
	if _, err := s.userCol(h.UserID, "habits").Doc(habitDocID(h.Name)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveHabit: %w", err)
	}
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, userID domain.UserID, name string) error {
	_, err := s.userCol(userID, "habits").Doc(habitDocID(name)).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore DeleteHabit: %w", err)
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context, userID domain.UserID) ([]*domain.Habit, error) {
	q := s.userCol(userID, "habits").OrderBy("name", firestore.Asc)

	var out []*domain.Habit
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc habitDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode habitDoc: %w", err)
		}
		out = append(out, toHabit(userID, doc))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListHabits: %w", err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) AddTask(ctx context.Context, t *domain.Task) error {
	doc := taskDoc{Description: t.Description, CreatedAt: t.CreatedAt}
	if _, err := s.userCol(t.UserID, "tasks").Doc(t.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AddTask: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	q := s.userCol(userID, "tasks").OrderBy("created_at", firestore.Asc)

	var out []*domain.Task
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode taskDoc: %w", err)
		}
		out = append(out, &domain.Task{
			ID:          snap.Ref.ID,
			UserID:      userID,
			Description: doc.Description,
			CreatedAt:   doc.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListTasks: %w", err)
	}
	return out, nil
}

func (s *Store) RemoveTask(ctx context.Context, userID domain.UserID, id string) error {
	_, err := s.userCol(userID, "tasks").Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore RemoveTask: %w", err)
	}
	return nil
}

func (s *Store) ClearTasks(ctx context.Context, userID domain.UserID) (int, error) {
	bw := s.client.BulkWriter(ctx)

	n := 0
	err := eachDoc(ctx, s.userCol(userID, "tasks").Query, func(snap *firestore.DocumentSnapshot) error {
		if _, err := bw.Delete(snap.Ref); err != nil {
			return err
		}
		n++
		return nil
	})
	bw.End()
	if err != nil {
		return 0, fmt.Errorf("firestore ClearTasks: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────
// PlanStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendPlan(ctx context.Context, plan *domain.GoalPlan) error {
	steps := make([]planStepDoc, 0, len(plan.Steps))
	for _, st := range plan.Steps {
		steps = append(steps, planStepDoc{Title: st.Title, Details: st.Details})
	}

	doc := planDoc{
		Goal:      plan.Goal,
		Steps:     steps,
		Text:      plan.Text,
		Generated: plan.Generated,
		CreatedAt: plan.CreatedAt,
	}
	if _, err := s.userCol(plan.UserID, "plans").Doc(plan.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AppendPlan: %w", err)
	}
	return nil
}

// ListPlansByUser returns the last `limit` plans oldest first (all if limit <= 0).
func (s *Store) ListPlansByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.GoalPlan, error) {
	q := s.userCol(userID, "plans").OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*domain.GoalPlan
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc planDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode planDoc: %w", err)
		}
		steps := make([]domain.PlanStep, 0, len(doc.Steps))
		for _, st := range doc.Steps {
			steps = append(steps, domain.PlanStep{Title: st.Title, Details: st.Details})
		}
		out = append(out, &domain.GoalPlan{
			ID:        snap.Ref.ID,
			UserID:    userID,
			Goal:      doc.Goal,
			Steps:     steps,
			Text:      doc.Text,
			Generated: doc.Generated,
			CreatedAt: doc.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListPlansByUser: %w", err)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
