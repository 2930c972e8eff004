package model

import (
	"testing"
	"time"

	"github.com/soocke/dualcam-monitor/domain/monitor"
)

func TestUptimeModel_Lifecycle(t *testing.T) {
	m := NewUptimeModel()
	base := time.Unix(0, 0)
	id := monitor.Camera1

	m.OnTick(id, true, base)
	m.OnTick(id, true, base.Add(5*time.Second))
	session, total := m.Values(id)
	if session != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s session & total; got session=%v total=%v", session, total)
	}

	// Disconnect keeps the last session.
	m.OnTick(id, false, base.Add(5*time.Second))
	m.OnTick(id, false, base.Add(7*time.Second))
	session, total = m.Values(id)
	if session != 5*time.Second || total != 5*time.Second || m.Connected(id) {
		t.Fatalf("after disconnect expected 5s/5s; got session=%v total=%v", session, total)
	}

	// Reconnect for 3s.
	m.OnTick(id, true, base.Add(10*time.Second))
	m.OnTick(id, true, base.Add(13*time.Second))
	session, total = m.Values(id)
	if session != 3*time.Second || total != 8*time.Second {
		t.Fatalf("expected 3s session and 8s total; got session=%v total=%v", session, total)
	}

	if s, tot := m.Values(monitor.Camera2); s != 0 || tot != 0 {
		t.Fatalf("untouched slot should be zero; got %v %v", s, tot)
	}
}

func TestUptimeModel_NilSafe(t *testing.T) {
	var m *UptimeModel
	m.OnTick(monitor.Camera1, true, time.Now())
	if s, tot := m.Values(monitor.Camera1); s != 0 || tot != 0 || m.Connected(monitor.Camera1) {
		t.Fatalf("nil model should report zero")
	}
}
