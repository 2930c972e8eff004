package view

import (
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// readout is a titled value label bound to a slot.
type readout struct {
	slot  presenter.Slot
	title string
}

// readoutGroup grids titled value labels into a card frame and indexes the
// value labels by slot.
type readoutGroup struct {
	frame  *FrameWidget
	values map[presenter.Slot]*LabelWidget
}

// newReadoutGroup creates a card at (row, col) of parent. Each readout takes
// one row: title on the left, value on the right.
func newReadoutGroup(parent *FrameWidget, title string, row, col int, items []readout) *readoutGroup {
	pal := theme.CurrentPalette()
	g := &readoutGroup{values: make(map[presenter.Slot]*LabelWidget, len(items))}
	g.frame = parent.Frame(Borderwidth(1), Relief("groove"), Background(pal.Surface))
	Grid(g.frame, Row(row), Column(col), Sticky("nwe"), Padx("0.6m"), Pady("0.6m"))
	head := g.frame.Label(Txt(title), Anchor("w"), Background(pal.Surface), Foreground(pal.Primary))
	Grid(head, Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	for i, it := range items {
		lbl := g.frame.Label(Txt(it.title), Anchor("w"), Background(pal.Surface), Foreground(pal.TextMuted))
		Grid(lbl, Row(i+1), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.1m"))
		val := g.frame.Label(Txt("0"), Width(10), Anchor("e"), Background(pal.Surface), Foreground(pal.Text))
		Grid(val, Row(i+1), Column(1), Sticky("e"), Padx("0.4m"), Pady("0.1m"))
		g.values[it.slot] = val
	}
	return g
}

// setActive tints the card background while its value is live.
func (g *readoutGroup) setActive(on bool) {
	pal := theme.CurrentPalette()
	bg := pal.Surface
	if on {
		bg = pal.Active
	}
	g.frame.Configure(Background(bg))
}
