package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/domain/remote"
)

// StatusSource is the read side of the remote client.
type StatusSource interface {
	CameraStatus(ctx context.Context) (remote.CameraStatus, error)
	SegmentationStats(ctx context.Context) (remote.SegmentationStats, error)
	ListAlarms(ctx context.Context) (remote.AlarmList, error)
}

// Intervals holds the poll period for each data kind.
type Intervals struct {
	CameraStatus time.Duration
	Segmentation time.Duration
	Alarms       time.Duration
}

// Task names registered by Poller.Register.
const (
	TaskCameraStatus = "camera_status"
	TaskSegmentation = "segmentation"
	TaskAlarms       = "alarms"
)

// Poller binds remote reads to the store. Every request is stamped with a per-kind
// sequence number so an out-of-order response never overwrites a newer one.
type Poller struct {
	source  StatusSource
	store   *Store
	loop    *EventLoop
	metrics *Metrics
	logger  *slog.Logger
	seq     [kindCount]atomic.Uint64
}

// NewPoller wires a poller. loop and metrics may be nil; without a loop results are
// applied on the requesting goroutine.
func NewPoller(source StatusSource, store *Store, loop *EventLoop, metrics *Metrics, logger *slog.Logger) *Poller {
	return &Poller{source: source, store: store, loop: loop, metrics: metrics, logger: logger}
}

// Register schedules the three remote polls on s.
func (p *Poller) Register(s *Scheduler, iv Intervals) error {
	return errors.Join(
		s.ScheduleTask(Task{Name: TaskCameraStatus, Period: iv.CameraStatus, Run: p.PollCameraStatus, Poll: true}),
		s.ScheduleTask(Task{Name: TaskSegmentation, Period: iv.Segmentation, Run: p.PollSegmentation, Poll: true}),
		s.ScheduleTask(Task{Name: TaskAlarms, Period: iv.Alarms, Run: p.PollAlarms, Poll: true}),
	)
}

// PollCameraStatus fetches camera connectivity, areas and alarm statistics.
func (p *Poller) PollCameraStatus(ctx context.Context) error {
	seq := p.seq[KindCameraStatus].Add(1)
	st, err := p.source.CameraStatus(ctx)
	if err != nil {
		return err
	}
	p.apply(ctx, KindCameraStatus, seq, PartialFromCameraStatus(st))
	return nil
}

// PollSegmentation fetches the segmentation statistics.
func (p *Poller) PollSegmentation(ctx context.Context) error {
	seq := p.seq[KindSegmentation].Add(1)
	st, err := p.source.SegmentationStats(ctx)
	if err != nil {
		return err
	}
	p.apply(ctx, KindSegmentation, seq, PartialFromSegmentation(st))
	return nil
}

// PollAlarms fetches the pending alarm list.
func (p *Poller) PollAlarms(ctx context.Context) error {
	seq := p.seq[KindAlarms].Add(1)
	list, err := p.source.ListAlarms(ctx)
	if err != nil {
		return err
	}
	p.apply(ctx, KindAlarms, seq, PartialFromAlarms(list))
	return nil
}

// Refresh re-reads the alarm list and the status document that carries the
// evaluation statistics.
func (p *Poller) Refresh(ctx context.Context) error {
	return errors.Join(p.PollAlarms(ctx), p.PollCameraStatus(ctx))
}

func (p *Poller) apply(ctx context.Context, kind DataKind, seq uint64, partial Partial) {
	do := func() {
		if ctx.Err() != nil {
			return
		}
		if _, ok := p.store.ApplySequenced(kind, seq, partial); !ok {
			p.metrics.ObserveStale(kind)
		}
	}
	if p.loop == nil {
		do()
		return
	}
	if !p.loop.Call(do) && p.logger != nil {
		p.logger.Debug("result dropped after shutdown", "kind", kind.String(), "seq", seq)
	}
}

// PartialFromCameraStatus converts a status document into a store update covering
// both cameras, the area product and the alarm summary.
func PartialFromCameraStatus(st remote.CameraStatus) Partial {
	p := Partial{
		Cameras:     make(map[CameraID]CameraPatch, len(CameraIDs)),
		AreaProduct: lo.ToPtr(st.AreaProduct),
		Summary: &AlarmSummary{
			TotalAlarms:          st.TotalAlarms,
			PendingAlarms:        st.PendingAlarms,
			CorrectAlarms:        st.CorrectAlarms,
			IncorrectAlarms:      st.IncorrectAlarms,
			AccuracyPercentage:   st.AccuracyPercentage,
			EvaluationPercentage: st.EvaluationPercentage,
		},
	}
	for _, id := range CameraIDs {
		e, _ := st.Camera(string(id))
		p.Cameras[id] = CameraPatch{
			Connected:        lo.ToPtr(e.Connected),
			Processing:       lo.ToPtr(e.Processing),
			SegmentationArea: lo.ToPtr(e.SegmentationArea),
		}
	}
	return p
}

// PartialFromSegmentation converts segmentation statistics into a wholesale update.
func PartialFromSegmentation(st remote.SegmentationStats) Partial {
	return Partial{Stats: &SegmentationStats{
		Camera1Area:       st.Camera1Area,
		Camera2Area:       st.Camera2Area,
		CurrentProduct:    st.CurrentProduct,
		MaxProduct:        st.MaxProduct,
		AverageProduct:    st.AverageProduct,
		TotalCalculations: st.TotalCalculations,
		NonZeroProducts:   st.NonZeroProducts,
	}}
}

// PartialFromAlarms converts the alarm list into a full replacement update.
func PartialFromAlarms(list remote.AlarmList) Partial {
	items := lo.Map(list.Alarms, func(a remote.Alarm, _ int) Alarm {
		return Alarm{ID: a.ID, CameraID: CameraID(a.CameraID), Timestamp: ParseTimestamp(a.Timestamp), Filename: a.Filename}
	})
	return Partial{Alarms: &AlarmList{Items: items, TotalPending: list.TotalPending}}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads the ISO-8601 timestamps the service emits, with or without a
// zone. Unparseable input yields the zero time.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
