package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/dualcam-monitor/domain/remote"
)

type fakeSource struct {
	status   remote.CameraStatus
	stats    func(ctx context.Context) (remote.SegmentationStats, error)
	alarms   remote.AlarmList
	alarmErr error
}

func (f *fakeSource) CameraStatus(context.Context) (remote.CameraStatus, error) {
	return f.status, nil
}

func (f *fakeSource) SegmentationStats(ctx context.Context) (remote.SegmentationStats, error) {
	return f.stats(ctx)
}

func (f *fakeSource) ListAlarms(context.Context) (remote.AlarmList, error) {
	return f.alarms, f.alarmErr
}

func TestPoller_OutOfOrderResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	src := &fakeSource{}
	src.stats = func(ctx context.Context) (remote.SegmentationStats, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release // first request resolves last
			return remote.SegmentationStats{CurrentProduct: 10}, nil
		}
		return remote.SegmentationStats{CurrentProduct: 2_500_000}, nil
	}
	store := NewStore(discardLogger)
	loop := NewEventLoop(discardLogger)
	defer loop.Close()
	m := NewMetrics()
	p := NewPoller(src, store, loop, m, discardLogger)

	done := make(chan error, 1)
	go func() { done <- p.PollSegmentation(context.Background()) }()
	<-started
	if err := p.PollSegmentation(context.Background()); err != nil {
		t.Fatalf("second poll: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if got := store.Get().Stats.CurrentProduct; got != 2_500_000 {
		t.Fatalf("stale response applied: got %v", got)
	}
	if m.StaleDiscarded.Load() != 1 {
		t.Fatalf("stale discard not counted: got %d", m.StaleDiscarded.Load())
	}
}

func TestPoller_FailureLeavesStateUntouched(t *testing.T) {
	src := &fakeSource{alarmErr: errors.New("network down")}
	store := NewStore(discardLogger)
	store.Apply(PartialFromAlarms(remote.AlarmList{Alarms: []remote.Alarm{{ID: "keep"}}, TotalPending: 1}))
	p := NewPoller(src, store, nil, nil, discardLogger)
	if err := p.PollAlarms(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if items := store.Get().Alarms.Items; len(items) != 1 || items[0].ID != "keep" {
		t.Fatalf("failed poll mutated alarms: %+v", items)
	}
}

func TestPoller_CancelledContextDropsResult(t *testing.T) {
	src := &fakeSource{status: remote.CameraStatus{Camera1: remote.CameraStatusEntry{Connected: true}}}
	store := NewStore(discardLogger)
	p := NewPoller(src, store, nil, nil, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.PollCameraStatus(ctx)
	if store.Get().Camera(Camera1).Connected {
		t.Fatalf("result applied after teardown")
	}
}

func TestPoller_RegisterSchedulesAllKinds(t *testing.T) {
	src := &fakeSource{
		status: remote.CameraStatus{Camera1: remote.CameraStatusEntry{Connected: true, Processing: true, SegmentationArea: 500}},
		alarms: remote.AlarmList{Alarms: []remote.Alarm{{ID: "a1", CameraID: "camera2"}}, TotalPending: 1},
	}
	src.stats = func(context.Context) (remote.SegmentationStats, error) {
		return remote.SegmentationStats{CurrentProduct: 1500}, nil
	}
	store := NewStore(discardLogger)
	loop := NewEventLoop(discardLogger)
	s := NewScheduler(context.Background(), discardLogger, nil)
	p := NewPoller(src, store, loop, nil, discardLogger)
	if err := p.Register(s, Intervals{CameraStatus: time.Second, Segmentation: time.Second, Alarms: time.Second}); err != nil {
		t.Fatalf("register: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		v := store.Get()
		return v.Camera(Camera1).Indicator() == IndicatorProcessing && v.Stats.CurrentProduct == 1500 && len(v.Alarms.Items) == 1
	}, "all kinds applied")
	s.CancelAll()
	loop.Close()
	if len(s.Tasks()) != 3 {
		t.Fatalf("expected 3 tasks, got %+v", s.Tasks())
	}
}
