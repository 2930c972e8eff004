package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// waitFor polls cond until it holds or timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

func TestScheduler_FiresImmediatelyAndRepeats(t *testing.T) {
	s := NewScheduler(context.Background(), discardLogger, nil)
	defer s.CancelAll()
	var n atomic.Int32
	if err := s.Schedule("tick", 150*time.Millisecond, func(context.Context) error { n.Add(1); return nil }); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	waitFor(t, 100*time.Millisecond, func() bool { return n.Load() >= 1 }, "immediate firing")
	waitFor(t, time.Second, func() bool { return n.Load() >= 3 }, "repeated firings")
}

func TestScheduler_FailuresDoNotStopTasks(t *testing.T) {
	m := NewMetrics()
	s := NewScheduler(context.Background(), discardLogger, m)
	defer s.CancelAll()
	var failing, healthy atomic.Int32
	_ = s.ScheduleTask(Task{Name: "failing", Period: 10 * time.Millisecond, Poll: true, Run: func(context.Context) error {
		failing.Add(1)
		return errors.New("boom")
	}})
	_ = s.ScheduleTask(Task{Name: "healthy", Period: 10 * time.Millisecond, Poll: true, Run: func(context.Context) error { healthy.Add(1); return nil }})
	waitFor(t, time.Second, func() bool { return failing.Load() >= 3 && healthy.Load() >= 3 }, "both tasks to keep firing")
	if m.PollsFailed.Load() == 0 || m.PollsOK.Load() == 0 {
		t.Fatalf("metrics not recorded: ok=%d failed=%d", m.PollsOK.Load(), m.PollsFailed.Load())
	}
}

func TestScheduler_OnlyPollsCountAsPolls(t *testing.T) {
	m := NewMetrics()
	s := NewScheduler(context.Background(), discardLogger, m)
	var polls, others atomic.Int32
	_ = s.ScheduleTask(Task{Name: TaskAlarms, Period: 10 * time.Millisecond, Poll: true, Run: func(context.Context) error { polls.Add(1); return nil }})
	_ = s.Schedule("activity_check", 10*time.Millisecond, func(context.Context) error { others.Add(1); return nil })
	waitFor(t, time.Second, func() bool { return polls.Load() >= 3 && others.Load() >= 3 }, "both tasks to fire")
	s.CancelAll()

	if got, want := m.PollsOK.Load(), uint64(polls.Load()); got > want {
		t.Fatalf("non-poll firings counted: polls=%d counted=%d", want, got)
	}
	if n := testutil.ToFloat64(m.polls.WithLabelValues("activity_check", "ok")); n != 0 {
		t.Fatalf("activity_check recorded as poll %v times", n)
	}
}

func TestScheduler_HungFiringDoesNotBlockNext(t *testing.T) {
	s := NewScheduler(context.Background(), discardLogger, nil)
	var n atomic.Int32
	_ = s.Schedule("hung", 10*time.Millisecond, func(ctx context.Context) error {
		n.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})
	waitFor(t, time.Second, func() bool { return n.Load() >= 3 }, "re-arm while earlier firing hangs")
	s.CancelAll()
}

func TestScheduler_GateSkipsFirings(t *testing.T) {
	s := NewScheduler(context.Background(), discardLogger, nil)
	defer s.CancelAll()
	var open atomic.Bool
	var n atomic.Int32
	_ = s.ScheduleTask(Task{
		Name:   "gated",
		Period: 10 * time.Millisecond,
		Gate:   open.Load,
		Run:    func(context.Context) error { n.Add(1); return nil },
	})
	time.Sleep(50 * time.Millisecond)
	if n.Load() != 0 {
		t.Fatalf("gated task fired while closed: %d", n.Load())
	}
	open.Store(true)
	waitFor(t, time.Second, func() bool { return n.Load() >= 1 }, "gated task after opening")
}

func TestScheduler_CancelAllStopsEverything(t *testing.T) {
	s := NewScheduler(context.Background(), discardLogger, nil)
	var n atomic.Int32
	_ = s.Schedule("a", 5*time.Millisecond, func(context.Context) error { n.Add(1); return nil })
	_ = s.Schedule("b", 5*time.Millisecond, func(context.Context) error { n.Add(1); return nil })
	waitFor(t, time.Second, func() bool { return n.Load() >= 4 }, "tasks running")
	s.CancelAll()
	s.CancelAll()
	after := n.Load()
	time.Sleep(40 * time.Millisecond)
	if n.Load() != after {
		t.Fatalf("task fired after CancelAll: before=%d after=%d", after, n.Load())
	}
	if err := s.Schedule("late", time.Second, func(context.Context) error { return nil }); !errors.Is(err, ErrSchedulerStopped) {
		t.Fatalf("expected ErrSchedulerStopped, got %v", err)
	}
	if !s.Stopped() || len(s.Tasks()) != 2 {
		t.Fatalf("unexpected task list after stop: %+v", s.Tasks())
	}
}

func TestScheduler_RejectsInvalidTasks(t *testing.T) {
	s := NewScheduler(context.Background(), discardLogger, nil)
	defer s.CancelAll()
	if err := s.Schedule("zero", 0, func(context.Context) error { return nil }); err == nil {
		t.Fatalf("zero period accepted")
	}
	if err := s.Schedule("nil", time.Second, nil); err == nil {
		t.Fatalf("nil task accepted")
	}
}
