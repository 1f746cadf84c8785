package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// ─────────────────────────────────────────
// ReminderStore implementation
// ─────────────────────────────────────────

func (s *Store) AddReminder(ctx context.Context, r *domain.Reminder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, content, time_label, due_at, created_at, triggered)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.UserID), r.Content, r.TimeLabel,
		toUnix(r.DueAt), toUnix(r.CreatedAt), r.Triggered,
	)
	if err != nil {
		return fmt.Errorf("sqlite AddReminder: %w", err)
	}
	return nil
}

func (s *Store) MarkReminderTriggered(ctx context.Context, userID domain.UserID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET triggered = 1 WHERE user_id = ? AND id = ?`, string(userID), id)
	if err != nil {
		return fmt.Errorf("sqlite MarkReminderTriggered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ListReminders(ctx context.Context, userID domain.UserID) ([]*domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, time_label, due_at, created_at, triggered FROM reminders
		 WHERE user_id = ? ORDER BY created_at ASC`, string(userID))
	if err != nil {
		return nil, fmt.Errorf("sqlite ListReminders: %w", err)
	}
	defer rows.Close()

	var out []*domain.Reminder
	for rows.Next() {
		var (
			r              domain.Reminder
			dueAt, created int64
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.TimeLabel, &dueAt, &created, &r.Triggered); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.UserID = userID
		r.DueAt = fromUnix(dueAt)
		r.CreatedAt = fromUnix(created)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────
// HabitStore implementation
// ─────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(sc scanner, userID domain.UserID) (*domain.Habit, error) {
	var (
		h     = domain.Habit{UserID: userID}
		dates string
	)
	if err := sc.Scan(&h.Name, &dates, &h.Streak, &h.BestStreak, &h.LastDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dates), &h.Dates); err != nil {
		return nil, fmt.Errorf("decode habit dates: %w", err)
	}
	return &h, nil
}

func (s *Store) GetHabit(ctx context.Context, userID domain.UserID, name string) (*domain.Habit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, dates, streak, best_streak, last_date FROM habits WHERE user_id = ? AND name = ?`,
		string(userID), name)

	h, err := scanHabit(row, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sqlite GetHabit: %w", err)
	}
	return h, nil
}

func (s *Store) SaveHabit(ctx context.Context, h *domain.Habit) error {
	dates := h.Dates
	if dates == nil {
		dates = []string{}
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("encode habit dates: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO habits (user_id, name, dates, streak, best_streak, last_date)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, name) DO UPDATE SET
			dates = excluded.dates,
			streak = excluded.streak,
			best_streak = excluded.best_streak,
			last_date = excluded.last_date`,
		string(h.UserID), h.Name, string(raw), h.Streak, h.BestStreak, h.LastDate,
	)
	if err != nil {
		return fmt.Errorf("sqlite SaveHabit: %w", err)
	}
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, userID domain.UserID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM habits WHERE user_id = ? AND name = ?`, string(userID), name)
	if err != nil {
		return fmt.Errorf("sqlite DeleteHabit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context, userID domain.UserID) ([]*domain.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, dates, streak, best_streak, last_date FROM habits
		 WHERE user_id = ? ORDER BY name ASC`, string(userID))
	if err != nil {
		return nil, fmt.Errorf("sqlite ListHabits: %w", err)
	}
	defer rows.Close()

	var out []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) AddTask(ctx context.Context, t *domain.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, description, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, string(t.UserID), t.Description, toUnix(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite AddTask: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, created_at FROM tasks WHERE user_id = ? ORDER BY seq ASC`,
		string(userID))
	if err != nil {
		return nil, fmt.Errorf("sqlite ListTasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		var (
			t       = domain.Task{UserID: userID}
			created int64
		)
		if err := rows.Scan(&t.ID, &t.Description, &created); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.CreatedAt = fromUnix(created)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) RemoveTask(ctx context.Context, userID domain.UserID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND id = ?`, string(userID), id)
	if err != nil {
		return fmt.Errorf("sqlite RemoveTask: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) ClearTasks(ctx context.Context, userID domain.UserID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ?`, string(userID))
	if err != nil {
		return 0, fmt.Errorf("sqlite ClearTasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite ClearTasks: %w", err)
	}
	return int(n), nil
}

// ─────────────────────────────────────────
// PlanStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendPlan(ctx context.Context, plan *domain.GoalPlan) error {
	steps := plan.Steps
	if steps == nil {
		steps = []domain.PlanStep{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode plan steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, user_id, goal, steps, text, generated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, string(plan.UserID), plan.Goal, string(raw), plan.Text,
		plan.Generated, toUnix(plan.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite AppendPlan: %w", err)
	}
	return nil
}

// ListPlansByUser returns the last `limit` plans oldest first (all if limit <= 0).
func (s *Store) ListPlansByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.GoalPlan, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, goal, steps, text, generated, created_at FROM (
			SELECT seq, id, goal, steps, text, generated, created_at FROM plans
			WHERE user_id = ? ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`,
		string(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListPlansByUser: %w", err)
	}
	defer rows.Close()

	var out []*domain.GoalPlan
	for rows.Next() {
		var (
			p       = domain.GoalPlan{UserID: userID}
			steps   string
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Goal, &steps, &p.Text, &p.Generated, &created); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &p.Steps); err != nil {
			return nil, fmt.Errorf("decode plan steps: %w", err)
		}
		p.CreatedAt = fromUnix(created)
		out = append(out, &p)
	}
	return out, rows.Err()
}
