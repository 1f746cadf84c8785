package tools

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// Scheduler runs fire-and-forget jobs after a delay, outside the request that created them.
type Scheduler struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timers  map[string]*time.Timer
	running sync.WaitGroup
	stopped bool
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[string]*time.Timer),
	}
}

// After schedules fn to run once after d. It returns the job id, or "" when the
// scheduler is already stopped.
func (s *Scheduler) After(d time.Duration, name string, fn func(ctx context.Context)) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ""
	}

	id := uuid.NewString()
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		if _, ok := s.timers[id]; !ok || s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.running.Add(1)
		s.mu.Unlock()

		defer s.running.Done()
		log := observability.Logger().With("job", name, "job_id", id)
		defer func() {
			if r := recover(); r != nil {
				log.Error("scheduled job panicked", "panic", r)
			}
		}()
		log.Info("scheduled job fired")
		fn(s.ctx)
	})
	observability.Logger().Debug("job scheduled", "job", name, "job_id", id, "delay", d.String())
	return id
}

// Cancel drops a pending job. It reports whether the job was still pending.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	return t.Stop()
}

// Pending returns the number of jobs waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels pending jobs, cancels the context of running ones and waits for them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.cancel()
	s.running.Wait()
}
