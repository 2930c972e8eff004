package view

import (
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

type alarmRowWidgets struct {
	frame     *FrameWidget
	correct   *ButtonWidget
	incorrect *ButtonWidget
}

// alarmList shows pending alarms keyed by id. Rows are created once per alarm
// and destroyed when the alarm leaves the list.
type alarmList struct {
	frame      *FrameWidget
	empty      *LabelWidget
	rows       map[string]*alarmRowWidgets
	controls   map[string]model.Control
	onEvaluate func(id string, correct bool)
}

func newAlarmList(parent *FrameWidget, row int, onEvaluate func(id string, correct bool)) *alarmList {
	pal := theme.CurrentPalette()
	l := &alarmList{
		rows:       make(map[string]*alarmRowWidgets),
		controls:   make(map[string]model.Control),
		onEvaluate: onEvaluate,
	}
	l.frame = parent.Frame(Borderwidth(1), Relief("sunken"), Background(pal.Surface))
	Grid(l.frame, Row(row), Column(0), Columnspan(3), Sticky("nsew"), Padx("0.6m"), Pady("0.6m"))
	l.empty = l.frame.Label(Txt(presenter.EmptyAlarmsText), Background(pal.Surface), Foreground(pal.TextMuted))
	Grid(l.empty, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return l
}

func (l *alarmList) set(rows []presenter.AlarmRow) {
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.ID] = true
	}
	for id, w := range l.rows {
		if !present[id] {
			Destroy(w.frame)
			delete(l.rows, id)
		}
	}
	for key := range l.controls {
		if id, ok := model.AlarmIDFromKey(key); ok && !present[id] {
			delete(l.controls, key)
		}
	}
	if len(rows) == 0 {
		l.empty.Configure(Txt(presenter.EmptyAlarmsText))
		return
	}
	l.empty.Configure(Txt(""))
	for i, r := range rows {
		w, ok := l.rows[r.ID]
		if !ok {
			w = l.newRow(r)
			l.rows[r.ID] = w
		}
		Grid(w.frame, Row(i+1), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.2m"))
	}
}

func (l *alarmList) newRow(r presenter.AlarmRow) *alarmRowWidgets {
	pal := theme.CurrentPalette()
	id := r.ID
	w := &alarmRowWidgets{}
	w.frame = l.frame.Frame(Borderwidth(1), Relief("groove"), Background(pal.Surface))
	cam := w.frame.Label(Txt(r.Camera), Width(9), Anchor("w"), Background(pal.Surface), Foreground(pal.Primary))
	Grid(cam, Row(0), Column(0), Sticky("w"), Padx("0.3m"))
	ts := w.frame.Label(Txt(r.Time), Width(19), Anchor("w"), Background(pal.Surface))
	Grid(ts, Row(0), Column(1), Sticky("w"), Padx("0.3m"))
	ref := r.ImageURL
	if ref == "" {
		ref = r.Filename
	}
	file := w.frame.Label(Txt(ref), Anchor("w"), Background(pal.Surface), Foreground(pal.TextMuted))
	Grid(file, Row(0), Column(2), Sticky("we"), Padx("0.3m"))
	w.correct = w.frame.Button(Txt(model.LabelCorrect), Background(pal.Accent), Foreground("white"),
		Command(func() { l.press(id, true) }))
	Grid(w.correct, Row(0), Column(3), Padx("0.2m"), Pady("0.2m"))
	w.incorrect = w.frame.Button(Txt(model.LabelIncorrect), Background(pal.Danger), Foreground("white"),
		Command(func() { l.press(id, false) }))
	Grid(w.incorrect, Row(0), Column(4), Padx("0.2m"), Pady("0.2m"))

	l.apply(model.CorrectKey(id), w.correct)
	l.apply(model.IncorrectKey(id), w.incorrect)
	return w
}

func (l *alarmList) press(id string, correct bool) {
	key := model.IncorrectKey(id)
	if correct {
		key = model.CorrectKey(id)
	}
	if c, ok := l.controls[key]; ok && !c.Enabled {
		return
	}
	if l.onEvaluate != nil {
		l.onEvaluate(id, correct)
	}
}

// setControl records c and applies it when the row exists. Keys of alarms
// without a row are dropped.
func (l *alarmList) setControl(key string, c model.Control) {
	if id, ok := model.AlarmIDFromKey(key); ok && l.rows[id] == nil {
		return
	}
	l.controls[key] = c
	for id, w := range l.rows {
		switch key {
		case model.CorrectKey(id):
			l.apply(key, w.correct)
		case model.IncorrectKey(id):
			l.apply(key, w.incorrect)
		}
	}
}

func (l *alarmList) apply(key string, b *ButtonWidget) {
	c, ok := l.controls[key]
	if !ok || b == nil {
		return
	}
	state := "normal"
	if !c.Enabled {
		state = "disabled"
	}
	b.Configure(Txt(c.Label), State(state))
}
