package monitor

import (
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/domain/remote"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) listener(c Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
}

func (r *changeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func TestStore_InitialState(t *testing.T) {
	s := NewStore(discardLogger)
	v := s.Get()
	for _, id := range CameraIDs {
		c := v.Camera(id)
		if c.ID != id || c.Connected || c.Processing || c.SegmentationArea != 0 {
			t.Fatalf("unexpected initial camera state: got %+v", c)
		}
		if c.Indicator() != IndicatorDisconnected {
			t.Fatalf("initial indicator: got %v", c.Indicator())
		}
	}
	if v.Alarms.Items == nil || len(v.Alarms.Items) != 0 {
		t.Fatalf("initial alarms should be empty, got %v", v.Alarms.Items)
	}
}

func TestStore_ApplyReturnsChangedFields(t *testing.T) {
	s := NewStore(discardLogger)
	changed := s.Apply(PartialFromCameraStatus(remote.CameraStatus{
		Camera1:     remote.CameraStatusEntry{Connected: true, Processing: true, SegmentationArea: 500},
		AreaProduct: 0,
	}))
	want := []Field{ConnectedField(Camera1), ProcessingField(Camera1), AreaField(Camera1)}
	if len(changed) != len(want) {
		t.Fatalf("changed fields: got %v want %v", changed, want)
	}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("changed fields: got %v want %v", changed, want)
		}
	}
	// identical snapshot changes nothing
	again := s.Apply(PartialFromCameraStatus(remote.CameraStatus{
		Camera1: remote.CameraStatusEntry{Connected: true, Processing: true, SegmentationArea: 500},
	}))
	if len(again) != 0 {
		t.Fatalf("re-applying same snapshot should not change anything, got %v", again)
	}
}

func TestStore_AbsentFieldsKeepPriorValue(t *testing.T) {
	s := NewStore(discardLogger)
	s.Apply(PartialFromCameraStatus(remote.CameraStatus{
		Camera2:     remote.CameraStatusEntry{Connected: true, SegmentationArea: 42},
		AreaProduct: 7,
	}))
	s.Apply(Partial{Cameras: map[CameraID]CameraPatch{Camera2: {SegmentationArea: lo.ToPtr(0.0)}}})
	v := s.Get()
	c2 := v.Camera(Camera2)
	if !c2.Connected || c2.SegmentationArea != 0 {
		t.Fatalf("partial update lost fields: got %+v", c2)
	}
	if v.AreaProduct != 7 {
		t.Fatalf("area product should be retained: got %v", v.AreaProduct)
	}
}

func TestStore_ClampsInvalidNumbers(t *testing.T) {
	s := NewStore(discardLogger)
	s.Apply(Partial{
		AreaProduct: lo.ToPtr(-3.0),
		Stats:       &SegmentationStats{CurrentProduct: math.NaN(), MaxProduct: math.Inf(1), Camera1Area: 10},
	})
	v := s.Get()
	if v.AreaProduct != 0 || v.Stats.CurrentProduct != 0 || v.Stats.MaxProduct != 0 || v.Stats.Camera1Area != 10 {
		t.Fatalf("numbers not clamped: got %+v %v", v.Stats, v.AreaProduct)
	}
}

func TestStore_SequencedRejectsStale(t *testing.T) {
	s := NewStore(discardLogger)
	rec := &changeRecorder{}
	s.AddListener(rec.listener)

	newer := PartialFromSegmentation(remote.SegmentationStats{CurrentProduct: 2_500_000})
	older := PartialFromSegmentation(remote.SegmentationStats{CurrentProduct: 100})
	if _, ok := s.ApplySequenced(KindSegmentation, 2, newer); !ok {
		t.Fatalf("seq 2 should apply")
	}
	if _, ok := s.ApplySequenced(KindSegmentation, 1, older); ok {
		t.Fatalf("seq 1 after seq 2 should be rejected")
	}
	if _, ok := s.ApplySequenced(KindSegmentation, 2, older); ok {
		t.Fatalf("duplicate seq should be rejected")
	}
	if got := s.Get().Stats.CurrentProduct; got != 2_500_000 {
		t.Fatalf("stale response overwrote state: got %v", got)
	}
	// other kinds keep their own counters
	if _, ok := s.ApplySequenced(KindAlarms, 1, PartialFromAlarms(remote.AlarmList{})); !ok {
		t.Fatalf("alarms seq 1 should apply independently")
	}
	if rec.count() != 1 {
		t.Fatalf("expected one change event, got %d", rec.count())
	}
	if s.LastApplied(KindSegmentation) != 2 {
		t.Fatalf("last applied: got %d", s.LastApplied(KindSegmentation))
	}
}

func TestStore_AlarmIdentityChange(t *testing.T) {
	s := NewStore(discardLogger)
	list := remote.AlarmList{Alarms: []remote.Alarm{{ID: "a"}, {ID: "b"}}, TotalPending: 2}
	changed := s.Apply(PartialFromAlarms(list))
	if !lo.Contains(changed, FieldAlarms) || !lo.Contains(changed, FieldAlarmsTotalPending) {
		t.Fatalf("expected alarm fields changed, got %v", changed)
	}
	// same ids, different filename: identity unchanged
	list.Alarms[0].Filename = "x.jpg"
	if changed := s.Apply(PartialFromAlarms(list)); lo.Contains(changed, FieldAlarms) {
		t.Fatalf("identity unchanged, got %v", changed)
	}
	list.Alarms = list.Alarms[1:]
	if changed := s.Apply(PartialFromAlarms(list)); !lo.Contains(changed, FieldAlarms) {
		t.Fatalf("removal should change identity, got %v", changed)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(discardLogger)
	s.Apply(PartialFromAlarms(remote.AlarmList{Alarms: []remote.Alarm{{ID: "a"}}}))
	v := s.Get()
	v.Alarms.Items[0].ID = "mutated"
	if s.Get().Alarms.Items[0].ID != "a" {
		t.Fatalf("snapshot shares memory with store")
	}
}

func TestStore_ResetNotifies(t *testing.T) {
	s := NewStore(discardLogger)
	rec := &changeRecorder{}
	s.Apply(Partial{AreaProduct: lo.ToPtr(5.0)})
	s.ApplySequenced(KindCameraStatus, 3, Partial{})
	s.AddListener(rec.listener)
	s.Reset()
	if rec.count() != 1 || s.Get().AreaProduct != 0 || s.LastApplied(KindCameraStatus) != 0 {
		t.Fatalf("reset failed: events=%d state=%+v", rec.count(), s.Get())
	}
}

func TestParseTimestamp(t *testing.T) {
	if ts := ParseTimestamp("2024-05-01T10:20:30.123456"); ts.IsZero() || ts.Second() != 30 {
		t.Fatalf("python isoformat not parsed: got %v", ts)
	}
	if ts := ParseTimestamp("2024-05-01T10:20:30Z"); ts.IsZero() {
		t.Fatalf("rfc3339 not parsed")
	}
	if ts := ParseTimestamp("garbage"); !ts.IsZero() {
		t.Fatalf("garbage should yield zero time, got %v", ts)
	}
}
