package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const tick = 100 * time.Millisecond

// Handlers receive operator input. They are called on the Tk thread and must
// not block.
type Handlers struct {
	Connect    func(id monitor.CameraID, form action.ConnectionForm)
	Disconnect func(id monitor.CameraID)
	Evaluate   func(alarmID string, correct bool)
	Exit       func()
}

// Options configure the root window.
type Options struct {
	Title  string
	Width  int
	Height int
	Dark   bool
	Forms  map[monitor.CameraID]action.ConnectionForm
	Logger *slog.Logger
}

// RootView composes the control view, the events view and the notification bar.
// It implements presenter.Surface and presenter.NotificationView.
type RootView struct {
	opts Options

	cameras map[monitor.CameraID]*cameraPanel
	labels  map[presenter.Slot]*LabelWidget
	cards   map[presenter.Slot]*readoutGroup
	alarms  *alarmList
	notice  *LabelWidget

	afterID string
	tickFn  func()
	onExit  func()
}

var (
	_ presenter.Surface          = (*RootView)(nil)
	_ presenter.NotificationView = (*RootView)(nil)
)

func NewRootView(opts Options) *RootView {
	return &RootView{
		opts:    opts,
		cameras: make(map[monitor.CameraID]*cameraPanel),
		labels:  make(map[presenter.Slot]*LabelWidget),
		cards:   make(map[presenter.Slot]*readoutGroup),
	}
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	theme.SetDark(rv.opts.Dark)
	pal := theme.CurrentPalette()
	rv.onExit = h.Exit

	header := Label(Txt(rv.opts.Title), Anchor("w"), Background(pal.AppBg), Foreground(pal.Primary))
	Grid(header, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.6m"), Pady("0.4m"))

	// Control view: camera cards and the combined product.
	control := Frame(Background(pal.AppBg))
	Grid(control, Row(1), Column(0), Sticky("nwe"), Padx("0.4m"))
	for i, id := range monitor.CameraIDs {
		p := newCameraPanel(control, id, i, rv.opts.Forms[id], h.Connect, h.Disconnect)
		rv.cameras[id] = p
		rv.labels[presenter.IndicatorSlot(id)] = p.indicator
		rv.labels[presenter.UptimeSlot(id)] = p.uptime
		rv.labels[presenter.VideoSlot(id)] = p.video
	}
	rv.labels[presenter.SlotCamera1Area] = rv.cameras[monitor.Camera1].area
	rv.labels[presenter.SlotCamera2Area] = rv.cameras[monitor.Camera2].area
	product := rv.group(control, "Combined activity", 1, 0, []readout{
		{presenter.SlotAreaProduct, "Area product"},
	})
	Grid(product.frame, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.6m"), Pady("0.6m"))

	// Events view: segmentation readouts, formula, summary and the alarm list.
	events := Frame(Background(pal.AppBg))
	Grid(events, Row(1), Column(1), Sticky("nsew"), Padx("0.4m"))
	rv.cards[presenter.SlotCamera1Card] = rv.group(events, "Camera 1", 0, 0, []readout{
		{presenter.SlotSegCamera1Area, "Current area"},
	})
	rv.cards[presenter.SlotCamera2Card] = rv.group(events, "Camera 2", 0, 1, []readout{
		{presenter.SlotSegCamera2Area, "Current area"},
	})
	rv.cards[presenter.SlotProductCard] = rv.group(events, "Product", 0, 2, []readout{
		{presenter.SlotCurrentProduct, "Current"},
		{presenter.SlotMaxProduct, "Max"},
		{presenter.SlotAverageProduct, "Average"},
		{presenter.SlotTotalCalculations, "Calculations"},
		{presenter.SlotNonZeroProducts, "Non-zero"},
	})
	rv.group(events, "Camera 1 × Camera 2", 1, 0, []readout{
		{presenter.SlotFormulaCamera1, "Camera 1"},
		{presenter.SlotFormulaCamera2, "Camera 2"},
		{presenter.SlotFormulaResult, "= Product"},
	})
	rv.group(events, "Evaluation", 1, 1, []readout{
		{presenter.SlotTotalAlarms, "Total"},
		{presenter.SlotPendingAlarms, "Pending"},
		{presenter.SlotCorrectAlarms, "Correct"},
		{presenter.SlotIncorrectAlarms, "Incorrect"},
	})
	rv.group(events, "Quality", 1, 2, []readout{
		{presenter.SlotAccuracy, "Accuracy"},
		{presenter.SlotEvaluation, "Evaluated"},
		{presenter.SlotAlarmsTotalPending, "In queue"},
	})
	rv.alarms = newAlarmList(events, 2, h.Evaluate)

	rv.notice = Label(Txt(""), Anchor("w"), Background(pal.AppBg), Foreground(pal.Text))
	Grid(rv.notice, Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.6m"), Pady("0.4m"))
	actions := Label(Txt("Idle"), Anchor("w"), Background(pal.AppBg), Foreground(pal.TextMuted))
	Grid(actions, Row(3), Column(0), Sticky("w"), Padx("0.6m"), Pady("0.4m"))
	rv.labels[presenter.SlotActions] = actions
	exitBtn := Button(Txt("Exit"), Command(rv.exit))
	Grid(exitBtn, Row(3), Column(1), Sticky("e"), Padx("0.6m"), Pady("0.4m"))
}

func (rv *RootView) group(parent *FrameWidget, title string, row, col int, items []readout) *readoutGroup {
	g := newReadoutGroup(parent, title, row, col, items)
	for slot, lbl := range g.values {
		rv.labels[slot] = lbl
	}
	return g
}

// Run configures the window, starts the tick loop and blocks until the window
// is closed. tickFn runs on the Tk thread every 100ms.
func (rv *RootView) Run(tickFn func()) {
	rv.tickFn = tickFn
	App.WmTitle(rv.opts.Title)
	WmProtocol(App, "WM_DELETE_WINDOW", rv.exit)
	if rv.opts.Width > 0 && rv.opts.Height > 0 {
		WmGeometry(App, fmt.Sprintf("%dx%d+100+100", rv.opts.Width, rv.opts.Height))
	}
	rv.scheduleUpdate()
	App.Wait()
}

func (rv *RootView) scheduleUpdate() {
	// TclAfter keeps the update on Tk's event loop thread.
	rv.afterID = TclAfter(tick, func() { rv.update() })
}

func (rv *RootView) update() {
	if rv.tickFn != nil {
		func() {
			defer func() {
				if r := recover(); r != nil && rv.opts.Logger != nil {
					rv.opts.Logger.Error("ui tick panic", "error", r)
				}
			}()
			rv.tickFn()
		}()
	}
	rv.scheduleUpdate()
}

func (rv *RootView) exit() {
	if rv.afterID != "" {
		TclAfterCancel(rv.afterID)
	}
	if rv.onExit != nil {
		rv.onExit()
	}
	Destroy(App)
}

// SetText updates the label bound to slot.
func (rv *RootView) SetText(slot presenter.Slot, text string) {
	for _, id := range monitor.CameraIDs {
		if slot == presenter.IndicatorSlot(id) {
			if p := rv.cameras[id]; p != nil {
				p.setIndicator(text)
			}
			return
		}
	}
	if lbl := rv.labels[slot]; lbl != nil {
		lbl.Configure(Txt(text))
	}
}

// SetHighlight flashes the label bound to slot.
func (rv *RootView) SetHighlight(slot presenter.Slot, on bool) {
	lbl := rv.labels[slot]
	if lbl == nil {
		return
	}
	pal := theme.CurrentPalette()
	bg := pal.Surface
	if on {
		bg = pal.Highlight
	}
	lbl.Configure(Background(bg))
}

// SetActive tints an activity card.
func (rv *RootView) SetActive(slot presenter.Slot, on bool) {
	if g := rv.cards[slot]; g != nil {
		g.setActive(on)
	}
}

// SetAlarms replaces the alarm rows.
func (rv *RootView) SetAlarms(rows []presenter.AlarmRow) {
	if rv.alarms != nil {
		rv.alarms.set(rows)
	}
}

// SetControl applies a control presentation to its button.
func (rv *RootView) SetControl(key string, c model.Control) {
	for _, p := range rv.cameras {
		p.setControl(key, c)
	}
	if rv.alarms != nil {
		rv.alarms.setControl(key, c)
	}
}

// ShowNotification displays text in the notification bar.
func (rv *RootView) ShowNotification(text string, severity model.Severity) {
	if rv.notice == nil {
		return
	}
	rv.notice.Configure(Txt(text), Foreground(theme.SeverityColor(severity.String())))
}

// HideNotification clears the notification bar.
func (rv *RootView) HideNotification() {
	if rv.notice != nil {
		rv.notice.Configure(Txt(""))
	}
}
