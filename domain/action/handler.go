package action

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// DefaultRefreshDelay separates a committed evaluation from the re-fetch that
// removes the row, leaving room for the exit feedback.
const DefaultRefreshDelay = 300 * time.Millisecond

// Deps wires a Handler. Client is required; the rest may be nil.
type Deps struct {
	Client       Mutator
	State        StateWriter
	Refresher    Refresher
	Controls     Controls
	Notifier     Notifier
	Metrics      *monitor.Metrics
	Logger       *slog.Logger
	RefreshDelay time.Duration
}

// Handler runs optimistic mutations. Each item moves Idle -> Pending ->
// Committing -> Idle on success and Pending -> Idle on failure; an item that is
// not Idle rejects further actions with ErrBusy.
type Handler struct {
	Deps

	mu        sync.Mutex
	phases    map[Item]Phase
	listeners []PhaseListener
}

// NewHandler constructs a Handler.
func NewHandler(d Deps) *Handler {
	if d.RefreshDelay < 0 {
		d.RefreshDelay = 0
	}
	return &Handler{Deps: d, phases: make(map[Item]Phase)}
}

// AddListener registers l for phase transitions.
func (h *Handler) AddListener(l PhaseListener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()
}

// Phase returns the current phase of item.
func (h *Handler) Phase(item Item) Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phases[item]
}

// Busy lists items that are not idle.
func (h *Handler) Busy() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return lo.Keys(h.phases)
}

// EvaluateAlarm records the operator verdict for an alarm. On success the alarm
// list and statistics are re-fetched after the refresh delay.
func (h *Handler) EvaluateAlarm(ctx context.Context, alarmID string, correct bool) error {
	cmd := CmdEvaluateIncorrect
	if correct {
		cmd = CmdEvaluateCorrect
	}
	if alarmID == "" {
		return h.reject(cmd, "Alarm evaluation failed", &ValidationError{Fields: []string{"alarm_id"}})
	}
	item := AlarmItem(alarmID)
	restore, err := h.begin(item, cmd)
	if err != nil {
		return err
	}
	if _, err := h.Client.EvaluateAlarm(ctx, alarmID, correct); err != nil {
		return h.rollback(item, cmd, restore, "Alarm evaluation failed", err)
	}
	h.commit(item, cmd)
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	h.success(cmd, fmt.Sprintf("Alarm marked %s and moved to the %s folder", verdict, verdict))

	if h.RefreshDelay > 0 {
		t := time.NewTimer(h.RefreshDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}
	if h.Refresher != nil && ctx.Err() == nil {
		if err := h.Refresher.Refresh(ctx); err != nil && h.Logger != nil {
			h.Logger.Warn("refresh after evaluation failed", "alarm", alarmID, "error", err)
		}
	}
	h.finish(item)
	return nil
}

// ConnectCamera validates form, then asks the service to open the camera stream.
// A validation failure never reaches the client.
func (h *Handler) ConnectCamera(ctx context.Context, id monitor.CameraID, form ConnectionForm) error {
	if !id.Valid() {
		return h.reject(CmdConnect, "Camera connection failed", &ValidationError{Fields: []string{"camera"}, Reason: "unknown camera " + string(id)})
	}
	rtspURL, err := form.RTSPURL()
	if err != nil {
		return h.reject(CmdConnect, id.Label()+" connection failed", err)
	}
	item := CameraItem(id)
	restore, err := h.begin(item, CmdConnect)
	if err != nil {
		return err
	}
	if _, err := h.Client.ConnectCamera(ctx, string(id), rtspURL); err != nil {
		return h.rollback(item, CmdConnect, restore, id.Label()+" connection failed", err)
	}
	h.commit(item, CmdConnect)
	h.applyCamera(id, monitor.CameraPatch{Connected: lo.ToPtr(true), Processing: lo.ToPtr(false)})
	h.success(CmdConnect, id.Label()+" connected. Person detection and segmentation area tracking are active.")
	h.finish(item)
	return nil
}

// DisconnectCamera asks the service to release a camera and zeroes its
// segmentation area locally until the next poll confirms it.
func (h *Handler) DisconnectCamera(ctx context.Context, id monitor.CameraID) error {
	if !id.Valid() {
		return h.reject(CmdDisconnect, "Camera disconnection failed", &ValidationError{Fields: []string{"camera"}, Reason: "unknown camera " + string(id)})
	}
	item := CameraItem(id)
	restore, err := h.begin(item, CmdDisconnect)
	if err != nil {
		return err
	}
	if _, err := h.Client.DisconnectCamera(ctx, string(id)); err != nil {
		return h.rollback(item, CmdDisconnect, restore, id.Label()+" disconnection failed", err)
	}
	h.commit(item, CmdDisconnect)
	h.applyCamera(id, monitor.CameraPatch{
		Connected:        lo.ToPtr(false),
		Processing:       lo.ToPtr(false),
		SegmentationArea: lo.ToPtr(0.0),
	})
	h.success(CmdDisconnect, id.Label()+" disconnected")
	h.finish(item)
	return nil
}

// begin moves item from Idle to Pending and locks its controls.
func (h *Handler) begin(item Item, cmd Command) (func(), error) {
	h.mu.Lock()
	if h.phases[item] != PhaseIdle {
		h.mu.Unlock()
		h.Metrics.ObserveAction(cmd.String(), ClassBusy.String())
		if h.Logger != nil {
			h.Logger.Debug("action rejected, item busy", "item", item.String(), "command", cmd.String())
		}
		return nil, ErrBusy
	}
	h.phases[item] = PhasePending
	listeners := h.listeners
	h.mu.Unlock()
	h.emit(listeners, item, PhaseIdle, PhasePending)

	restore := func() {}
	if h.Controls != nil {
		if r := h.Controls.Lock(item, cmd); r != nil {
			restore = r
		}
	}
	return restore, nil
}

func (h *Handler) commit(item Item, cmd Command) {
	h.transition(item, PhaseCommitting)
	if h.Controls != nil {
		h.Controls.Commit(item, cmd)
	}
}

func (h *Handler) finish(item Item) {
	if h.Controls != nil {
		h.Controls.Release(item)
	}
	h.transition(item, PhaseIdle)
}

func (h *Handler) rollback(item Item, cmd Command, restore func(), prefix string, err error) error {
	restore()
	h.transition(item, PhaseIdle)
	return h.reject(cmd, prefix, err)
}

// reject reports a failed action through the notifier and returns err.
func (h *Handler) reject(cmd Command, prefix string, err error) error {
	class := Classify(err)
	h.Metrics.ObserveAction(cmd.String(), class.String())
	if h.Logger != nil {
		h.Logger.Error("action failed", "command", cmd.String(), "class", class.String(), "error", err)
	}
	if h.Notifier != nil {
		h.Notifier.Error(prefix + ": " + describe(err))
	}
	return err
}

func (h *Handler) success(cmd Command, msg string) {
	h.Metrics.ObserveAction(cmd.String(), "success")
	if h.Logger != nil {
		h.Logger.Info("action committed", "command", cmd.String())
	}
	if h.Notifier != nil {
		h.Notifier.Success(msg)
	}
}

func (h *Handler) applyCamera(id monitor.CameraID, patch monitor.CameraPatch) {
	if h.State == nil {
		return
	}
	h.State.Apply(monitor.Partial{Cameras: map[monitor.CameraID]monitor.CameraPatch{id: patch}})
}

func (h *Handler) transition(item Item, next Phase) {
	h.mu.Lock()
	prev := h.phases[item]
	if next == PhaseIdle {
		delete(h.phases, item)
	} else {
		h.phases[item] = next
	}
	listeners := h.listeners
	h.mu.Unlock()
	if prev != next {
		h.emit(listeners, item, prev, next)
	}
}

func (h *Handler) emit(listeners []PhaseListener, item Item, prev, next Phase) {
	for _, l := range listeners {
		l(item, prev, next)
	}
}
