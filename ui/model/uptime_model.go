package model

import (
	"time"

	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// UptimeModel tracks, per camera slot, how long the current connection has
// lasted and the connected time accumulated since start. It is driven from the
// UI tick and not safe for concurrent use. The zero value is ready to use.
type UptimeModel struct {
	slots map[monitor.CameraID]*uptime
}

type uptime struct {
	active      bool
	start       time.Time
	session     time.Duration
	accumulated time.Duration
}

// NewUptimeModel returns a pointer to a ready-to-use UptimeModel.
func NewUptimeModel() *UptimeModel { return &UptimeModel{} }

// OnTick updates the slot using its connection flag and the current timestamp.
func (m *UptimeModel) OnTick(id monitor.CameraID, connected bool, now time.Time) {
	if m == nil {
		return
	}
	if m.slots == nil {
		m.slots = make(map[monitor.CameraID]*uptime)
	}
	u := m.slots[id]
	if u == nil {
		u = &uptime{}
		m.slots[id] = u
	}
	if connected {
		if !u.active { // disconnected -> connected
			u.active = true
			u.start = now
			u.session = 0
		}
		u.session = now.Sub(u.start)
	} else if u.active { // connected -> disconnected
		u.session = now.Sub(u.start)
		u.accumulated += u.session
		u.active = false
	}
}

// Values returns the current (or last) connection duration and the total
// connected time, including the ongoing connection.
func (m *UptimeModel) Values(id monitor.CameraID) (session, total time.Duration) {
	if m == nil || m.slots[id] == nil {
		return 0, 0
	}
	u := m.slots[id]
	session = u.session
	total = u.accumulated
	if u.active {
		total += session
	}
	return
}

// Connected reports whether the slot is inside a connection.
func (m *UptimeModel) Connected(id monitor.CameraID) bool {
	return m != nil && m.slots[id] != nil && m.slots[id].active
}
