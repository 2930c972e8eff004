// Package tui renders both operator views in the terminal with bubbletea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/theme"
)

const tickPeriod = 100 * time.Millisecond

type tickMsg time.Time

type viewID int

const (
	viewControl viewID = iota
	viewEvents
)

// Actions receives operator input. Implementations must not block.
type Actions interface {
	Evaluate(alarmID string, correct bool)
	Connect(id monitor.CameraID, form action.ConnectionForm)
	Disconnect(id monitor.CameraID)
}

// Model is the bubbletea model. It is also the render surface of the
// reconciler: every Surface call happens inside Update via the UI loop tick.
type Model struct {
	styles  theme.TerminalStyles
	help    help.Model
	title   string
	loop    *presenter.Loop
	actions Actions
	forms   map[monitor.CameraID]action.ConnectionForm
	onQuit  func()

	texts    map[presenter.Slot]string
	lit      map[presenter.Slot]bool
	active   map[presenter.Slot]bool
	alarms   []presenter.AlarmRow
	controls map[string]model.Control

	notice   string
	severity model.Severity
	noticeOn bool

	view     viewID
	selected int
	width    int
	quitting bool
}

var (
	_ tea.Model                  = (*Model)(nil)
	_ presenter.Surface          = (*Model)(nil)
	_ presenter.NotificationView = (*Model)(nil)
)

// New constructs a model. SetLoop must be called before the program starts.
func New(title string, actions Actions, forms map[monitor.CameraID]action.ConnectionForm, onQuit func()) *Model {
	return &Model{
		styles:   theme.Terminal(),
		help:     help.New(),
		title:    title,
		actions:  actions,
		forms:    forms,
		onQuit:   onQuit,
		texts:    make(map[presenter.Slot]string),
		lit:      make(map[presenter.Slot]bool),
		active:   make(map[presenter.Slot]bool),
		controls: make(map[string]model.Control),
	}
}

// SetLoop attaches the UI loop driven on every tick.
func (m *Model) SetLoop(l *presenter.Loop) { m.loop = l }

func tickCmd() tea.Cmd {
	return tea.Tick(tickPeriod, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	m.loop.Tick()
	return tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tickMsg:
		m.loop.Tick()
		if m.selected >= len(m.alarms) {
			m.selected = max(len(m.alarms)-1, 0)
		}
		return m, tickCmd()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		if m.onQuit != nil {
			m.onQuit()
		}
		return tea.Quit
	case key.Matches(msg, keys.SwitchView):
		if m.view == viewControl {
			m.view = viewEvents
		} else {
			m.view = viewControl
		}
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.alarms)-1 {
			m.selected++
		}
	case key.Matches(msg, keys.Correct):
		m.evaluateSelected(true)
	case key.Matches(msg, keys.Incorrect):
		m.evaluateSelected(false)
	case key.Matches(msg, keys.Camera1):
		m.toggleCamera(monitor.Camera1)
	case key.Matches(msg, keys.Camera2):
		m.toggleCamera(monitor.Camera2)
	}
	return nil
}

// evaluateSelected works on the events view only.
func (m *Model) evaluateSelected(correct bool) {
	if m.view != viewEvents || m.selected >= len(m.alarms) || m.actions == nil {
		return
	}
	id := m.alarms[m.selected].ID
	ck := model.IncorrectKey(id)
	if correct {
		ck = model.CorrectKey(id)
	}
	if c, ok := m.controls[ck]; !ok || c.Enabled {
		m.actions.Evaluate(id, correct)
	}
}

func (m *Model) toggleCamera(id monitor.CameraID) {
	if m.actions == nil {
		return
	}
	if d := m.controls[model.DisconnectKey(id)]; d.Visible {
		if d.Enabled {
			m.actions.Disconnect(id)
		}
		return
	}
	if c, ok := m.controls[model.ConnectKey(id)]; ok && !c.Enabled {
		return
	}
	m.actions.Connect(id, m.forms[id])
}

// Surface

func (m *Model) SetText(slot presenter.Slot, text string)  { m.texts[slot] = text }
func (m *Model) SetHighlight(slot presenter.Slot, on bool) { m.lit[slot] = on }
func (m *Model) SetActive(slot presenter.Slot, on bool)    { m.active[slot] = on }

// SetAlarms replaces the alarm rows and forgets controls of removed alarms.
func (m *Model) SetAlarms(rows []presenter.AlarmRow) {
	m.alarms = rows
	for k := range m.controls {
		if id, ok := model.AlarmIDFromKey(k); ok && !m.hasAlarm(id) {
			delete(m.controls, k)
		}
	}
}

// SetControl records c. Keys of alarms not in the list are dropped.
func (m *Model) SetControl(k string, c model.Control) {
	if id, ok := model.AlarmIDFromKey(k); ok && !m.hasAlarm(id) {
		return
	}
	m.controls[k] = c
}

func (m *Model) hasAlarm(id string) bool {
	for _, a := range m.alarms {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m *Model) ShowNotification(text string, severity model.Severity) {
	m.notice, m.severity, m.noticeOn = text, severity, true
}

func (m *Model) HideNotification() { m.noticeOn = false }

// View

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles
	var b strings.Builder
	tabs := []string{s.Tab.Render("Control"), s.Tab.Render("Events")}
	tabs[m.view] = s.ActiveTab.Render([]string{"Control", "Events"}[m.view])
	b.WriteString(s.Title.Render(m.title) + "  " + strings.Join(tabs, " ") + "\n\n")

	if m.view == viewControl {
		b.WriteString(m.controlView())
	} else {
		b.WriteString(m.eventsView())
	}
	b.WriteString("\n")
	if m.noticeOn {
		b.WriteString(s.Notice(m.severity.String(), m.notice) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render(m.texts[presenter.SlotActions]) + "\n")
	b.WriteString(s.Help.Render(m.help.View(keys)))
	return b.String()
}

func (m *Model) value(slot presenter.Slot) string {
	text := m.texts[slot]
	if text == "" {
		text = "0"
	}
	if m.lit[slot] {
		return m.styles.Highlight.Render(text)
	}
	return m.styles.Value.Render(text)
}

func (m *Model) line(label string, slot presenter.Slot) string {
	return m.styles.Label.Render(fmt.Sprintf("%-14s", label)) + m.value(slot)
}

func (m *Model) card(slot presenter.Slot, lines ...string) string {
	style := m.styles.Card
	if m.active[slot] {
		style = m.styles.Active
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) controlView() string {
	var cards []string
	for i, id := range monitor.CameraIDs {
		ind := m.texts[presenter.IndicatorSlot(id)]
		if ind == "" {
			ind = monitor.IndicatorDisconnected.String()
		}
		area := presenter.SlotCamera1Area
		if id == monitor.Camera2 {
			area = presenter.SlotCamera2Area
		}
		btn := m.controls[model.ConnectKey(id)]
		if d := m.controls[model.DisconnectKey(id)]; d.Visible {
			btn = d
		}
		label := btn.Label
		if label == "" {
			label = model.LabelConnect
		}
		if !btn.Enabled && btn.Label != "" {
			label = m.styles.Muted.Render(label)
		}
		video := m.texts[presenter.VideoSlot(id)]
		if video == "" {
			video = m.styles.Muted.Render("-")
		}
		form := m.forms[id]
		cards = append(cards, m.styles.Card.Render(strings.Join([]string{
			m.styles.Title.Render(id.Label()) + "  " + m.styles.Indicator(ind),
			m.line("Area", area),
			m.styles.Label.Render(fmt.Sprintf("%-14s", "Connected")) + m.texts[presenter.UptimeSlot(id)],
			m.styles.Label.Render(fmt.Sprintf("%-14s", "Video")) + video,
			m.styles.Muted.Render(fmt.Sprintf("%s:%s/%s", form.Address, form.Port, form.Stream)),
			fmt.Sprintf("[%d] %s", i+1, label),
		}, "\n")))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return row + "\n" + m.styles.Card.Render(m.line("Area product", presenter.SlotAreaProduct))
}

func (m *Model) eventsView() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card(presenter.SlotCamera1Card, m.line("Camera 1", presenter.SlotSegCamera1Area)),
		m.card(presenter.SlotCamera2Card, m.line("Camera 2", presenter.SlotSegCamera2Area)),
		m.card(presenter.SlotProductCard,
			m.line("Product", presenter.SlotCurrentProduct),
			m.line("Max", presenter.SlotMaxProduct),
			m.line("Average", presenter.SlotAverageProduct),
			m.line("Calculations", presenter.SlotTotalCalculations),
			m.line("Non-zero", presenter.SlotNonZeroProducts),
		),
	)
	formula := m.styles.Card.Render(m.value(presenter.SlotFormulaCamera1) + " × " +
		m.value(presenter.SlotFormulaCamera2) + " = " + m.value(presenter.SlotFormulaResult))
	summary := m.styles.Card.Render(strings.Join([]string{
		m.line("Total", presenter.SlotTotalAlarms),
		m.line("Pending", presenter.SlotPendingAlarms),
		m.line("Correct", presenter.SlotCorrectAlarms),
		m.line("Incorrect", presenter.SlotIncorrectAlarms),
		m.line("Accuracy", presenter.SlotAccuracy),
		m.line("Evaluated", presenter.SlotEvaluation),
	}, "\n"))

	var list strings.Builder
	list.WriteString(m.line("In queue", presenter.SlotAlarmsTotalPending) + "\n")
	if len(m.alarms) == 0 {
		list.WriteString(m.styles.Muted.Render(presenter.EmptyAlarmsText))
	}
	for i, a := range m.alarms {
		cursor := "  "
		line := fmt.Sprintf("%-9s %-19s %s", a.Camera, a.Time, a.Filename)
		if c, ok := m.controls[model.CorrectKey(a.ID)]; ok && (c.Loading || c.Fading) {
			line += "  " + c.Label
		}
		if i == m.selected {
			cursor = "> "
			line = m.styles.Selected.Render(line)
		}
		list.WriteString(cursor + line + "\n")
	}
	return top + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, formula, summary) + "\n" + list.String()
}

// Run starts the program and blocks until the operator quits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
