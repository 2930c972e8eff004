package model

import (
	"maps"
	"strings"
	"sync"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

const (
	LabelConnect       = "Connect"
	LabelConnecting    = "Connecting..."
	LabelDisconnect    = "Disconnect"
	LabelDisconnecting = "Disconnecting..."
	LabelCorrect       = "✓ Correct"
	LabelIncorrect     = "✗ Incorrect"
	LabelEvaluating    = "..."
)

// Control is the presentation of one operator button.
type Control struct {
	Label   string
	Enabled bool
	Visible bool
	Loading bool
	Fading  bool
}

func ConnectKey(id monitor.CameraID) string    { return string(id) + ".connect" }
func DisconnectKey(id monitor.CameraID) string { return string(id) + ".disconnect" }
func CorrectKey(alarmID string) string         { return "alarm:" + alarmID + ".correct" }
func IncorrectKey(alarmID string) string       { return "alarm:" + alarmID + ".incorrect" }

func itemKeys(item action.Item) []string {
	if item.Kind == action.ItemCamera {
		id := monitor.CameraID(item.ID)
		return []string{ConnectKey(id), DisconnectKey(id)}
	}
	return []string{CorrectKey(item.ID), IncorrectKey(item.ID)}
}

func cameraControls(connected bool) (connect, disconnect Control) {
	connect = Control{Label: LabelConnect, Enabled: true, Visible: !connected}
	disconnect = Control{Label: LabelDisconnect, Enabled: true, Visible: connected}
	return connect, disconnect
}

func alarmControls() (correct, incorrect Control) {
	return Control{Label: LabelCorrect, Enabled: true, Visible: true},
		Control{Label: LabelIncorrect, Enabled: true, Visible: true}
}

// ControlModel holds every operator button keyed by control key. It implements
// action.Controls so the action handler can lock and restore items without
// knowing how they are drawn.
type ControlModel struct {
	mu       sync.Mutex
	controls map[string]Control
	locked   map[action.Item]bool
	listed   map[string]bool // alarm IDs of the last SyncAlarms, nil before the first
	version  uint64
}

var _ action.Controls = (*ControlModel)(nil)

// NewControlModel returns a model with both cameras disconnected and no alarms.
func NewControlModel() *ControlModel {
	m := &ControlModel{
		controls: make(map[string]Control),
		locked:   make(map[action.Item]bool),
	}
	for _, id := range monitor.CameraIDs {
		m.controls[ConnectKey(id)], m.controls[DisconnectKey(id)] = cameraControls(false)
	}
	return m
}

// Lock disables the item's controls and marks the triggering one as loading.
func (m *ControlModel) Lock(item action.Item, cmd action.Command) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := itemKeys(item)
	snapshot := make(map[string]Control, len(keys))
	for _, k := range keys {
		c, ok := m.controls[k]
		if !ok {
			continue
		}
		snapshot[k] = c
		c.Enabled = false
		m.controls[k] = c
	}
	switch cmd {
	case action.CmdConnect:
		m.setLoading(ConnectKey(monitor.CameraID(item.ID)), LabelConnecting)
	case action.CmdDisconnect:
		m.setLoading(DisconnectKey(monitor.CameraID(item.ID)), LabelDisconnecting)
	case action.CmdEvaluateCorrect, action.CmdEvaluateIncorrect:
		m.setLoading(CorrectKey(item.ID), LabelEvaluating)
		m.setLoading(IncorrectKey(item.ID), LabelEvaluating)
	}
	m.locked[item] = true
	m.version++

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, k := range keys {
			if c, ok := snapshot[k]; ok {
				m.controls[k] = c
			}
		}
		delete(m.locked, item)
		m.dropUnlisted(item)
		m.version++
	}
}

// dropUnlisted removes the controls of an alarm that left the list while it
// was locked. Callers hold m.mu.
func (m *ControlModel) dropUnlisted(item action.Item) {
	if item.Kind != action.ItemAlarm || m.listed == nil || m.listed[item.ID] {
		return
	}
	for _, k := range itemKeys(item) {
		delete(m.controls, k)
	}
}

func (m *ControlModel) setLoading(key, label string) {
	c, ok := m.controls[key]
	if !ok {
		return
	}
	c.Loading = true
	c.Label = label
	m.controls[key] = c
}

// Commit shows the success presentation for cmd. Camera controls swap
// visibility; alarm controls fade out.
func (m *ControlModel) Commit(item action.Item, cmd action.Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch cmd {
	case action.CmdConnect, action.CmdDisconnect:
		id := monitor.CameraID(item.ID)
		connect, disconnect := cameraControls(cmd == action.CmdConnect)
		connect.Enabled, disconnect.Enabled = false, false
		m.controls[ConnectKey(id)] = connect
		m.controls[DisconnectKey(id)] = disconnect
	case action.CmdEvaluateCorrect, action.CmdEvaluateIncorrect:
		for _, k := range itemKeys(item) {
			if c, ok := m.controls[k]; ok {
				c.Loading = false
				c.Enabled = false
				c.Fading = true
				m.controls[k] = c
			}
		}
	}
	m.version++
}

// Release unlocks item after a commit.
func (m *ControlModel) Release(item action.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locked, item)
	if item.Kind == action.ItemCamera {
		for _, k := range itemKeys(item) {
			if c, ok := m.controls[k]; ok {
				c.Enabled = true
				m.controls[k] = c
			}
		}
	}
	m.dropUnlisted(item)
	m.version++
}

// Locked reports whether item has an action in flight.
func (m *ControlModel) Locked(item action.Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked[item]
}

// SyncCamera aligns a camera's controls with polled state. Locked cameras are
// left alone so an in-flight action keeps its presentation.
func (m *ControlModel) SyncCamera(id monitor.CameraID, connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[action.CameraItem(id)] {
		return
	}
	connect, disconnect := cameraControls(connected)
	if m.controls[ConnectKey(id)] == connect && m.controls[DisconnectKey(id)] == disconnect {
		return
	}
	m.controls[ConnectKey(id)] = connect
	m.controls[DisconnectKey(id)] = disconnect
	m.version++
}

// SyncAlarms adds controls for new alarm IDs and drops those of alarms no
// longer listed, except alarms with an action in flight. Those are dropped when
// the action releases them.
func (m *ControlModel) SyncAlarms(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	present := make(map[string]bool, len(ids))
	m.listed = present
	changed := false
	for _, id := range ids {
		present[id] = true
		if _, ok := m.controls[CorrectKey(id)]; ok {
			continue
		}
		m.controls[CorrectKey(id)], m.controls[IncorrectKey(id)] = alarmControls()
		changed = true
	}
	for k := range m.controls {
		id, ok := AlarmIDFromKey(k)
		if !ok || present[id] || m.locked[action.AlarmItem(id)] {
			continue
		}
		delete(m.controls, k)
		changed = true
	}
	if changed {
		m.version++
	}
}

// AlarmIDFromKey returns the alarm ID of an alarm control key.
func AlarmIDFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "alarm:")
	if !ok {
		return "", false
	}
	if id, ok := strings.CutSuffix(rest, ".correct"); ok {
		return id, true
	}
	if id, ok := strings.CutSuffix(rest, ".incorrect"); ok {
		return id, true
	}
	return "", false
}

// Get returns the control stored under key.
func (m *ControlModel) Get(key string) (Control, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controls[key]
	return c, ok
}

// Snapshot copies every control.
func (m *ControlModel) Snapshot() map[string]Control {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.controls)
}

// Version increments on every presentation change.
func (m *ControlModel) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}
