package monitor

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ErrSchedulerStopped is returned when scheduling on a cancelled scheduler.
var ErrSchedulerStopped = errors.New("scheduler stopped")

// TaskFunc performs one firing of a periodic task. A returned error is logged and
// swallowed; the task keeps its period.
type TaskFunc func(ctx context.Context) error

// Task describes a periodic job.
type Task struct {
	Name   string
	Period time.Duration
	Run    TaskFunc
	// Gate, when set, must return true for a firing to run.
	Gate func() bool
	// Poll marks a remote poll. Only polls are counted in the poll metrics.
	Poll bool
}

// TaskInfo describes a registered task.
type TaskInfo struct {
	Name   string
	Period time.Duration
	Runs   uint64
}

type taskState struct {
	Task
	mu   sync.Mutex
	runs uint64
}

// Scheduler runs independent periodic tasks. Every task fires immediately and then
// once per period; each firing runs on its own goroutine so a hung request never
// delays the next one.
type Scheduler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	metrics *Metrics

	mu      sync.Mutex
	tasks   []*taskState
	stopped bool
	loops   sync.WaitGroup
	firings sync.WaitGroup
	once    sync.Once
}

// NewScheduler creates a scheduler whose firings inherit parent. metrics may be nil.
func NewScheduler(parent context.Context, logger *slog.Logger, metrics *Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{ctx: ctx, cancel: cancel, logger: logger, metrics: metrics}
}

// Schedule registers fn to run now and every period until CancelAll.
func (s *Scheduler) Schedule(name string, period time.Duration, fn TaskFunc) error {
	return s.ScheduleTask(Task{Name: name, Period: period, Run: fn})
}

// ScheduleTask registers t.
func (s *Scheduler) ScheduleTask(t Task) error {
	if t.Run == nil {
		return errors.New("schedule " + t.Name + ": nil task")
	}
	if t.Period <= 0 {
		return errors.New("schedule " + t.Name + ": period must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSchedulerStopped
	}
	ts := &taskState{Task: t}
	s.tasks = append(s.tasks, ts)
	s.loops.Add(1)
	go s.loop(ts)
	if s.logger != nil {
		s.logger.Debug("task scheduled", "task", t.Name, "period", t.Period)
	}
	return nil
}

func (s *Scheduler) loop(t *taskState) {
	defer s.loops.Done()
	ticker := time.NewTicker(t.Period)
	defer ticker.Stop()
	s.fire(t)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.fire(t)
		}
	}
}

func (s *Scheduler) fire(t *taskState) {
	if s.ctx.Err() != nil {
		return
	}
	if t.Gate != nil && !t.Gate() {
		return
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.firings.Add(1)
	s.mu.Unlock()
	t.mu.Lock()
	t.runs++
	t.mu.Unlock()
	go func() {
		defer s.firings.Done()
		defer func() {
			if r := recover(); r != nil && s.logger != nil {
				s.logger.Error("task panic", "task", t.Name, "error", r, "stack", string(debug.Stack()))
			}
		}()
		err := t.Run(s.ctx)
		if s.ctx.Err() != nil {
			return
		}
		if t.Poll {
			s.metrics.ObservePoll(t.Name, err)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("task failed", "task", t.Name, "error", err)
		}
	}()
}

// Tasks lists the registered tasks.
func (s *Scheduler) Tasks() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		t.mu.Lock()
		out = append(out, TaskInfo{Name: t.Name, Period: t.Period, Runs: t.runs})
		t.mu.Unlock()
	}
	return out
}

// Stopped reports whether CancelAll has been called.
func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// CancelAll stops every task, cancels in-flight firings and waits for them to
// return. Further calls are no-ops.
func (s *Scheduler) CancelAll() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		s.cancel()
		s.loops.Wait()
		s.firings.Wait()
		if s.logger != nil {
			s.logger.Debug("scheduler stopped")
		}
	})
}
