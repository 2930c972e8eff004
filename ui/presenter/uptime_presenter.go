package presenter

import (
	"time"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/format"
	"github.com/soocke/dualcam-monitor/ui/model"
)

// TextView displays plain text in a slot.
type TextView interface {
	SetText(slot Slot, text string)
}

// UptimePresenter advances the uptime model from the store and pushes changed
// durations to the view.
type UptimePresenter struct {
	uptime *model.UptimeModel
	source StateSource
	view   TextView
	shown  map[Slot]string
}

// NewUptimePresenter returns a new UptimePresenter.
func NewUptimePresenter(uptime *model.UptimeModel, source StateSource, view TextView) *UptimePresenter {
	return &UptimePresenter{uptime: uptime, source: source, view: view, shown: make(map[Slot]string)}
}

// Tick advances the model and updates slots whose text changed.
func (p *UptimePresenter) Tick(now time.Time) {
	if p == nil || p.uptime == nil || p.source == nil || p.view == nil {
		return
	}
	v := p.source.Get()
	for _, id := range monitor.CameraIDs {
		p.uptime.OnTick(id, v.Camera(id).Connected, now)
		session, total := p.uptime.Values(id)
		text := format.Duration(session) + " / " + format.Duration(total)
		slot := UptimeSlot(id)
		if p.shown[slot] != text {
			p.shown[slot] = text
			p.view.SetText(slot, text)
		}
	}
}
