package monitor

import (
	"log/slog"
	"math"
	"sync"
)

// CameraPatch carries the camera fields present in an update. Nil means absent.
type CameraPatch struct {
	Connected        *bool
	Processing       *bool
	SegmentationArea *float64
}

// Partial is an incoming update. Absent parts keep their current value; the
// segmentation stats, summary and alarm list are replaced wholesale when present.
type Partial struct {
	Cameras     map[CameraID]CameraPatch
	AreaProduct *float64
	Stats       *SegmentationStats
	Summary     *AlarmSummary
	Alarms      *AlarmList
}

// Change describes one applied update that altered at least one field.
type Change struct {
	Fields []Field
	Prev   ViewState
	State  ViewState
}

// Has reports whether f is among the changed fields.
func (c Change) Has(f Field) bool {
	for _, x := range c.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// Listener receives changes after they are applied.
type Listener func(Change)

// Store is the single authority for the last known view state.
type Store struct {
	mu        sync.RWMutex
	state     ViewState
	applied   [kindCount]uint64
	listeners []Listener
	logger    *slog.Logger
}

// NewStore returns a store holding the initial state: both cameras disconnected,
// every number 0, no alarms.
func NewStore(logger *slog.Logger) *Store {
	return &Store{state: initialState(), logger: logger}
}

func initialState() ViewState {
	var v ViewState
	for _, id := range CameraIDs {
		v.Cameras[id.Index()].ID = id
	}
	v.Alarms.Items = []Alarm{}
	return v
}

// AddListener registers l. Listeners run synchronously on the applying goroutine.
func (s *Store) AddListener(l Listener) {
	if s == nil || l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Get returns the current snapshot. The alarm slice is a copy.
func (s *Store) Get() ViewState {
	if s == nil {
		return initialState()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Apply merges p over the current state and returns the changed fields.
func (s *Store) Apply(p Partial) []Field {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	prev := s.state
	next := merge(prev, p)
	changed := diff(prev, next)
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()
	s.notify(listeners, changed, prev, next)
	return changed
}

// ApplySequenced applies p only when seq is newer than the last sequence applied
// for kind. It reports whether the update was accepted.
func (s *Store) ApplySequenced(kind DataKind, seq uint64, p Partial) ([]Field, bool) {
	if s == nil || kind < 0 || kind >= kindCount {
		return nil, false
	}
	s.mu.Lock()
	last := s.applied[kind]
	if seq <= last {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Debug("stale response discarded", "kind", kind.String(), "seq", seq, "last", last)
		}
		return nil, false
	}
	s.applied[kind] = seq
	prev := s.state
	next := merge(prev, p)
	changed := diff(prev, next)
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()
	s.notify(listeners, changed, prev, next)
	return changed, true
}

// LastApplied returns the newest sequence applied for kind.
func (s *Store) LastApplied(kind DataKind) uint64 {
	if s == nil || kind < 0 || kind >= kindCount {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied[kind]
}

// Reset returns the store to its initial state and forgets applied sequences.
func (s *Store) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	prev := s.state
	next := initialState()
	changed := diff(prev, next)
	s.state = next
	s.applied = [kindCount]uint64{}
	listeners := s.listeners
	s.mu.Unlock()
	s.notify(listeners, changed, prev, next)
}

func (s *Store) notify(listeners []Listener, changed []Field, prev, next ViewState) {
	if len(changed) == 0 {
		return
	}
	for _, l := range listeners {
		l(Change{Fields: changed, Prev: cloneState(prev), State: cloneState(next)})
	}
}

func merge(cur ViewState, p Partial) ViewState {
	next := cur
	for id, patch := range p.Cameras {
		i := id.Index()
		if i < 0 {
			continue
		}
		c := next.Cameras[i]
		if patch.Connected != nil {
			c.Connected = *patch.Connected
		}
		if patch.Processing != nil {
			c.Processing = *patch.Processing
		}
		if patch.SegmentationArea != nil {
			c.SegmentationArea = clamp(*patch.SegmentationArea)
		}
		next.Cameras[i] = c
	}
	if p.AreaProduct != nil {
		next.AreaProduct = clamp(*p.AreaProduct)
	}
	if p.Stats != nil {
		st := *p.Stats
		next.Stats = SegmentationStats{
			Camera1Area:       clamp(st.Camera1Area),
			Camera2Area:       clamp(st.Camera2Area),
			CurrentProduct:    clamp(st.CurrentProduct),
			MaxProduct:        clamp(st.MaxProduct),
			AverageProduct:    clamp(st.AverageProduct),
			TotalCalculations: clamp(st.TotalCalculations),
			NonZeroProducts:   clamp(st.NonZeroProducts),
		}
	}
	if p.Summary != nil {
		sm := *p.Summary
		next.Summary = AlarmSummary{
			TotalAlarms:          clamp(sm.TotalAlarms),
			PendingAlarms:        clamp(sm.PendingAlarms),
			CorrectAlarms:        clamp(sm.CorrectAlarms),
			IncorrectAlarms:      clamp(sm.IncorrectAlarms),
			AccuracyPercentage:   clamp(sm.AccuracyPercentage),
			EvaluationPercentage: clamp(sm.EvaluationPercentage),
		}
	}
	if p.Alarms != nil {
		items := make([]Alarm, len(p.Alarms.Items))
		copy(items, p.Alarms.Items)
		next.Alarms = AlarmList{Items: items, TotalPending: clamp(p.Alarms.TotalPending)}
	}
	return next
}

func cloneState(v ViewState) ViewState {
	items := make([]Alarm, len(v.Alarms.Items))
	copy(items, v.Alarms.Items)
	v.Alarms.Items = items
	return v
}

// clamp substitutes 0 for negative or non-finite numbers.
func clamp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}
