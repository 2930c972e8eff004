package presenter

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/model"
)

// DefaultHighlightDuration is how long a changed readout stays highlighted.
const DefaultHighlightDuration = 500 * time.Millisecond

// EmptyAlarmsText is shown in place of an empty alarm list.
const EmptyAlarmsText = "No pending alarms"

// AlarmRow is the drawable form of a pending alarm.
type AlarmRow struct {
	ID       string
	Camera   string
	Time     string
	Filename string
	ImageURL string
}

// Surface is the render target of the Reconciler. All calls happen on the
// thread that calls Tick. SetAlarms forgets the controls of rows it no
// longer shows, and SetControl ignores alarm keys without a row.
type Surface interface {
	SetText(slot Slot, text string)
	SetHighlight(slot Slot, on bool)
	SetActive(slot Slot, on bool)
	SetAlarms(rows []AlarmRow)
	SetControl(key string, c model.Control)
}

// StateSource provides the current view state.
type StateSource interface {
	Get() monitor.ViewState
}

// ReconcilerConfig configures a Reconciler. Bindings defaults to DefaultBindings.
type ReconcilerConfig struct {
	Bindings          []Binding
	HighlightDuration time.Duration
	ImageURL          func(filename string) string
	VideoURL          func(cameraID string) string
	Logger            *slog.Logger
}

// Reconciler turns store changes into surface updates. Store listeners queue
// changes from any goroutine; Tick flushes them on the UI thread.
type Reconciler struct {
	source   StateSource
	surface  Surface
	controls *model.ControlModel
	bindings []Binding
	hlFor    time.Duration
	imageURL func(string) string
	videoURL func(string) string
	logger   *slog.Logger

	mu       sync.Mutex
	changed  map[monitor.Field]bool
	base     monitor.ViewState // state before the first unflushed change
	latest   monitor.ViewState
	queued   bool
	activity map[Slot]bool // pending activity evaluation, nil when none

	// UI thread only.
	rendered       bool
	shown          monitor.ViewState
	highlights     map[Slot]time.Time
	active         map[Slot]bool
	controlVersion uint64
	controlsPushed bool
}

// NewReconciler constructs a reconciler. controls may be nil.
func NewReconciler(source StateSource, surface Surface, controls *model.ControlModel, cfg ReconcilerConfig) *Reconciler {
	if cfg.Bindings == nil {
		cfg.Bindings = DefaultBindings()
	}
	if cfg.HighlightDuration <= 0 {
		cfg.HighlightDuration = DefaultHighlightDuration
	}
	return &Reconciler{
		source:     source,
		surface:    surface,
		controls:   controls,
		bindings:   cfg.Bindings,
		hlFor:      cfg.HighlightDuration,
		imageURL:   cfg.ImageURL,
		videoURL:   cfg.VideoURL,
		logger:     cfg.Logger,
		changed:    make(map[monitor.Field]bool),
		highlights: make(map[Slot]time.Time),
		active:     make(map[Slot]bool),
	}
}

// OnChange queues a store change. It is meant to be registered with
// Store.AddListener and may be called from any goroutine.
func (r *Reconciler) OnChange(c monitor.Change) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.queued {
		r.base = c.Prev
		r.queued = true
	}
	r.latest = c.State
	for _, f := range c.Fields {
		r.changed[f] = true
	}
}

// CheckActivity evaluates the activity cards against the current state. The
// result is drawn on the next Tick. Its signature fits a scheduler task.
func (r *Reconciler) CheckActivity(context.Context) error {
	if r == nil || r.source == nil {
		return nil
	}
	v := r.source.Get()
	act := make(map[Slot]bool, len(activityCards))
	for _, c := range activityCards {
		act[c.slot] = v.Number(c.field) > 0
	}
	r.mu.Lock()
	r.activity = act
	r.mu.Unlock()
	return nil
}

// Tick flushes queued changes, expires highlights and pushes control updates.
func (r *Reconciler) Tick(now time.Time) {
	if r == nil || r.surface == nil {
		return
	}
	r.mu.Lock()
	queued, base, latest := r.queued, r.base, r.latest
	changed := r.changed
	activity := r.activity
	r.changed = make(map[monitor.Field]bool)
	r.queued = false
	r.activity = nil
	r.mu.Unlock()

	if !r.rendered {
		r.renderAll()
	} else if queued {
		r.apply(now, base, latest, changed)
	}
	for slot, on := range activity {
		if r.active[slot] != on {
			r.active[slot] = on
			r.surface.SetActive(slot, on)
		}
	}
	r.expire(now)
	r.pushControls()
}

// renderAll draws every binding from the source without highlights.
func (r *Reconciler) renderAll() {
	r.rendered = true
	v := monitor.ViewState{}
	if r.source != nil {
		v = r.source.Get()
	}
	for _, b := range r.bindings {
		r.surface.SetText(b.Slot, b.Text(v))
	}
	r.renderAlarms(v)
	r.syncCameras(v)
	r.shown = v
}

func (r *Reconciler) apply(now time.Time, base, latest monitor.ViewState, changed map[monitor.Field]bool) {
	for _, b := range r.bindings {
		if !lo.SomeBy(b.Fields, func(f monitor.Field) bool { return changed[f] }) {
			continue
		}
		r.surface.SetText(b.Slot, b.Text(latest))
		if highlight(b, base, latest) {
			r.highlights[b.Slot] = now.Add(r.hlFor)
			r.surface.SetHighlight(b.Slot, true)
		}
	}
	if changed[monitor.FieldAlarms] {
		r.renderAlarms(latest)
	}
	if lo.SomeBy(monitor.CameraIDs, func(id monitor.CameraID) bool { return changed[monitor.ConnectedField(id)] }) {
		r.syncCameras(latest)
	}
	r.shown = latest
	if r.logger != nil {
		r.logger.Debug("view reconciled", "fields", len(changed))
	}
}

func highlight(b Binding, prev, next monitor.ViewState) bool {
	if len(b.Fields) == 0 {
		return false
	}
	was, is := prev.Number(b.Fields[0]), next.Number(b.Fields[0])
	switch b.Highlight {
	case HighlightPositive:
		return was != is && is > 0
	case HighlightAny:
		return was != is
	}
	return false
}

func (r *Reconciler) expire(now time.Time) {
	for slot, until := range r.highlights {
		if now.Before(until) {
			continue
		}
		delete(r.highlights, slot)
		r.surface.SetHighlight(slot, false)
	}
}

func (r *Reconciler) renderAlarms(v monitor.ViewState) {
	rows := lo.Map(v.Alarms.Items, func(a monitor.Alarm, _ int) AlarmRow {
		row := AlarmRow{ID: a.ID, Camera: a.CameraID.Label(), Filename: a.Filename}
		if !a.Timestamp.IsZero() {
			row.Time = a.Timestamp.Format("2006-01-02 15:04:05")
		}
		if r.imageURL != nil && a.Filename != "" {
			row.ImageURL = r.imageURL(a.Filename)
		}
		return row
	})
	if r.controls != nil {
		r.controls.SyncAlarms(lo.Map(rows, func(row AlarmRow, _ int) string { return row.ID }))
	}
	r.surface.SetAlarms(rows)
}

// syncCameras points the video slots at the live feeds of connected cameras
// and aligns the camera controls.
func (r *Reconciler) syncCameras(v monitor.ViewState) {
	for _, id := range monitor.CameraIDs {
		connected := v.Camera(id).Connected
		feed := ""
		if connected && r.videoURL != nil {
			feed = r.videoURL(string(id))
		}
		r.surface.SetText(VideoSlot(id), feed)
		if r.controls != nil {
			r.controls.SyncCamera(id, connected)
		}
	}
}

func (r *Reconciler) pushControls() {
	if r.controls == nil {
		return
	}
	v := r.controls.Version()
	if r.controlsPushed && v == r.controlVersion {
		return
	}
	r.controlsPushed = true
	r.controlVersion = v
	snap := r.controls.Snapshot()
	keys := lo.Keys(snap)
	slices.Sort(keys)
	for _, k := range keys {
		r.surface.SetControl(k, snap[k])
	}
}

// Highlighted reports whether slot is currently highlighted.
func (r *Reconciler) Highlighted(slot Slot) bool {
	_, ok := r.highlights[slot]
	return ok
}

// Shown returns the state last drawn.
func (r *Reconciler) Shown() monitor.ViewState {
	return r.shown
}
