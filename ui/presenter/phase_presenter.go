package presenter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// PhasePresenter receives action phase transitions and shows the items with an
// action in flight in the activity slot.
type PhasePresenter struct {
	view TextView

	mu      sync.Mutex
	phases  map[action.Item]action.Phase
	changed bool
	latest  string // last reflected text
}

func NewPhasePresenter(view TextView) *PhasePresenter {
	return &PhasePresenter{view: view, phases: make(map[action.Item]action.Phase), changed: true}
}

// OnPhase queues a transition from the action handler. It may be called from
// any goroutine; the latest phases are reflected on the next Tick.
func (p *PhasePresenter) OnPhase(item action.Item, _, next action.Phase) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if next == action.PhaseIdle {
		delete(p.phases, item)
	} else {
		p.phases[item] = next
	}
	p.changed = true
}

// Tick renders the queued phases when they changed.
func (p *PhasePresenter) Tick(time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if !p.changed {
		p.mu.Unlock()
		return
	}
	p.changed = false
	parts := lo.MapToSlice(p.phases, func(item action.Item, ph action.Phase) string {
		return fmt.Sprintf("%s (%s)", itemLabel(item), ph)
	})
	p.mu.Unlock()

	sort.Strings(parts)
	text := "Idle"
	if len(parts) > 0 {
		text = "Working: " + strings.Join(parts, ", ")
	}
	if text != p.latest {
		p.latest = text
		p.view.SetText(SlotActions, text)
	}
}

func itemLabel(item action.Item) string {
	if item.Kind == action.ItemCamera {
		return monitor.CameraID(item.ID).Label()
	}
	return "alarm " + item.ID
}
