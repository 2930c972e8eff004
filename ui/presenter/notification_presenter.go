package presenter

import (
	"time"

	"github.com/soocke/dualcam-monitor/ui/model"
)

// NotificationView draws the single notification slot.
type NotificationView interface {
	ShowNotification(text string, severity model.Severity)
	HideNotification()
}

// NotificationPresenter mirrors the notification model into the view.
type NotificationPresenter struct {
	model   *model.NotificationModel
	view    NotificationView
	version uint64
}

func NewNotificationPresenter(m *model.NotificationModel, v NotificationView) *NotificationPresenter {
	return &NotificationPresenter{model: m, view: v}
}

// Tick redraws the slot when the model changed since the last tick.
func (p *NotificationPresenter) Tick(time.Time) {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	v := p.model.Version()
	if v == p.version {
		return
	}
	p.version = v
	if n, ok := p.model.Current(); ok {
		p.view.ShowNotification(n.Message, n.Severity)
		return
	}
	p.view.HideNotification()
}
