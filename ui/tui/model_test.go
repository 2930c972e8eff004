package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/domain/remote"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
)

type fakeActions struct {
	evaluated   []string
	connected   []monitor.CameraID
	disconnects []monitor.CameraID
	lastForm    action.ConnectionForm
}

func (f *fakeActions) Evaluate(id string, correct bool) {
	if correct {
		f.evaluated = append(f.evaluated, id+":correct")
		return
	}
	f.evaluated = append(f.evaluated, id+":incorrect")
}

func (f *fakeActions) Connect(id monitor.CameraID, form action.ConnectionForm) {
	f.connected = append(f.connected, id)
	f.lastForm = form
}

func (f *fakeActions) Disconnect(id monitor.CameraID) { f.disconnects = append(f.disconnects, id) }

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newFixture() (*monitor.Store, *model.ControlModel, *fakeActions, *Model) {
	store := monitor.NewStore(nil)
	controls := model.NewControlModel()
	acts := &fakeActions{}
	forms := map[monitor.CameraID]action.ConnectionForm{monitor.Camera1: {Address: "10.0.0.2", Port: "554"}}
	m := New("Monitor", acts, forms, nil)
	rec := presenter.NewReconciler(store, m, controls, presenter.ReconcilerConfig{})
	store.AddListener(rec.OnChange)
	m.SetLoop(presenter.NewLoop(rec, presenter.NewNotificationPresenter(model.NewNotificationModel(time.Hour), m), nil))
	m.Init()
	return store, controls, acts, m
}

func TestModel_RendersStateOnTick(t *testing.T) {
	store, _, _, m := newFixture()
	store.Apply(monitor.PartialFromCameraStatus(remote.CameraStatus{
		Camera1: remote.CameraStatusEntry{Connected: true, Processing: true, SegmentationArea: 500},
	}))
	m.Update(tickMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"processing", "disconnected", "500", "Disconnect"} {
		if !strings.Contains(out, want) {
			t.Fatalf("control view missing %q:\n%s", want, out)
		}
	}

	m.Update(keyPress("tab"))
	if out := m.View(); !strings.Contains(out, presenter.EmptyAlarmsText) {
		t.Fatalf("events view missing empty alarm text:\n%s", out)
	}
}

func TestModel_EvaluateSelectedAlarm(t *testing.T) {
	store, _, acts, m := newFixture()
	store.Apply(monitor.PartialFromAlarms(remote.AlarmList{Alarms: []remote.Alarm{
		{ID: "a1", CameraID: "camera1"},
		{ID: "a2", CameraID: "camera2"},
	}}))
	m.Update(tickMsg(time.Now()))

	m.Update(keyPress("y"))
	if len(acts.evaluated) != 0 {
		t.Fatalf("evaluation from control view should be ignored")
	}
	m.Update(keyPress("tab"))
	m.Update(keyPress("down"))
	m.Update(keyPress("n"))
	if len(acts.evaluated) != 1 || acts.evaluated[0] != "a2:incorrect" {
		t.Fatalf("unexpected evaluations: %v", acts.evaluated)
	}
}

func TestModel_CameraToggle(t *testing.T) {
	store, controls, acts, m := newFixture()
	m.Update(keyPress("1"))
	if len(acts.connected) != 1 || acts.lastForm.Address != "10.0.0.2" {
		t.Fatalf("expected connect with prefill, got %v %+v", acts.connected, acts.lastForm)
	}

	store.Apply(monitor.PartialFromCameraStatus(remote.CameraStatus{Camera2: remote.CameraStatusEntry{Connected: true}}))
	m.Update(tickMsg(time.Now()))
	m.Update(keyPress("2"))
	if len(acts.disconnects) != 1 || acts.disconnects[0] != monitor.Camera2 {
		t.Fatalf("expected disconnect of camera2, got %v", acts.disconnects)
	}

	controls.Lock(action.CameraItem(monitor.Camera1), action.CmdConnect)
	m.Update(tickMsg(time.Now()))
	m.Update(keyPress("1"))
	if len(acts.connected) != 1 {
		t.Fatalf("locked camera should ignore input, got %v", acts.connected)
	}
}

func TestModel_Quit(t *testing.T) {
	quit := 0
	m := New("Monitor", nil, nil, func() { quit++ })
	_, cmd := m.Update(keyPress("q"))
	if cmd == nil || quit != 1 || m.View() != "" {
		t.Fatalf("quit not handled: cmd=%v quit=%d", cmd, quit)
	}
}

func TestModel_ForgetsControlsOfRemovedAlarm(t *testing.T) {
	store, controls, _, m := newFixture()
	store.Apply(monitor.PartialFromAlarms(remote.AlarmList{Alarms: []remote.Alarm{{ID: "a1", CameraID: "camera1"}}}))
	m.Update(tickMsg(time.Now()))

	item := action.AlarmItem("a1")
	controls.Lock(item, action.CmdEvaluateCorrect)
	controls.Commit(item, action.CmdEvaluateCorrect)
	store.Apply(monitor.PartialFromAlarms(remote.AlarmList{}))
	m.Update(tickMsg(time.Now()))
	controls.Release(item)
	m.Update(tickMsg(time.Now()))

	if _, ok := m.controls[model.CorrectKey("a1")]; ok {
		t.Fatalf("controls of removed alarm kept: %v", m.controls)
	}
	m.SetControl(model.CorrectKey("a1"), model.Control{Visible: true})
	if _, ok := m.controls[model.CorrectKey("a1")]; ok {
		t.Fatalf("control without alarm row recorded")
	}
}

func TestModel_ShowsVideoOfConnectedCamera(t *testing.T) {
	_, _, _, m := newFixture()
	m.SetText(presenter.SlotCamera1Video, "http://host/video_feed/camera1")
	if out := m.View(); !strings.Contains(out, "http://host/video_feed/camera1") {
		t.Fatalf("video url missing:\n%s", out)
	}
}

func TestModel_KeyBindingsAndHelp(t *testing.T) {
	store, _, acts, m := newFixture()
	store.Apply(monitor.PartialFromAlarms(remote.AlarmList{Alarms: []remote.Alarm{
		{ID: "a1", CameraID: "camera1"},
		{ID: "a2", CameraID: "camera2"},
	}}))
	m.Update(tickMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"switch view", "connect/disconnect", "incorrect", "quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help line missing %q:\n%s", want, out)
		}
	}

	m.Update(keyPress("tab"))
	m.Update(keyPress("j"))
	m.Update(keyPress("k"))
	m.Update(keyPress("y"))
	if len(acts.evaluated) != 1 || acts.evaluated[0] != "a1:correct" {
		t.Fatalf("vim keys not bound: %v", acts.evaluated)
	}
	m.Update(keyPress("x"))
	if len(acts.evaluated) != 1 || len(acts.connected) != 0 {
		t.Fatalf("unbound key triggered an action")
	}
}
