package model

import (
	"sync"
	"time"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 5 * time.Second

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is the message currently held by the channel.
type Notification struct {
	Message  string
	Severity Severity
	Shown    time.Time
	Expiry   time.Time
}

// NotificationModel is a single-slot message surface. Show replaces whatever is
// displayed and restarts the dismiss timer; there is no queue.
type NotificationModel struct {
	mu      sync.Mutex
	ttl     time.Duration
	current Notification
	visible bool
	shows   uint64
	version uint64
	timer   *time.Timer
}

// NewNotificationModel returns a model dismissing after ttl (DefaultNotificationTTL
// when ttl is not positive).
func NewNotificationModel(ttl time.Duration) *NotificationModel {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationModel{ttl: ttl}
}

// Show displays message, replacing any current one.
func (m *NotificationModel) Show(message string, severity Severity) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl <= 0 {
		m.ttl = DefaultNotificationTTL
	}
	now := time.Now()
	m.shows++
	m.version++
	m.current = Notification{Message: message, Severity: severity, Shown: now, Expiry: now.Add(m.ttl)}
	m.visible = true
	if m.timer != nil {
		m.timer.Stop()
	}
	shown := m.shows
	m.timer = time.AfterFunc(m.ttl, func() { m.expire(shown) })
}

// Info shows an informational message.
func (m *NotificationModel) Info(message string) { m.Show(message, SeverityInfo) }

// Success shows a success message.
func (m *NotificationModel) Success(message string) { m.Show(message, SeveritySuccess) }

// Error shows an error message.
func (m *NotificationModel) Error(message string) { m.Show(message, SeverityError) }

// Hide dismisses the current message. Hiding an empty channel is a no-op.
func (m *NotificationModel) Hide() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.visible {
		m.visible = false
		m.version++
	}
}

// expire hides the message only if no newer Show happened since it was armed.
func (m *NotificationModel) expire(shown uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shown != m.shows || !m.visible {
		return
	}
	m.visible = false
	m.timer = nil
	m.version++
}

// Current returns the displayed message and whether one is visible.
func (m *NotificationModel) Current() (Notification, bool) {
	if m == nil {
		return Notification{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.visible
}

// Visible reports whether a message is displayed.
func (m *NotificationModel) Visible() bool {
	_, ok := m.Current()
	return ok
}

// Version increments on every show, hide and expiry.
func (m *NotificationModel) Version() uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}
