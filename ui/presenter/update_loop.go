package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Reconciler    *Reconciler
	Notifications *NotificationPresenter
	Uptime        *UptimePresenter
	Phases        *PhasePresenter
	Schedule      func()
}

func NewLoop(rec *Reconciler, notes *NotificationPresenter, schedule func()) *Loop {
	return &Loop{Reconciler: rec, Notifications: notes, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Reconciler != nil {
		l.Reconciler.Tick(now)
	}
	if l.Notifications != nil {
		l.Notifications.Tick(now)
	}
	if l.Uptime != nil {
		l.Uptime.Tick(now)
	}
	if l.Phases != nil {
		l.Phases.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
