package view

import (
	"strings"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// cameraPanel is the connection card of one camera slot: status indicator,
// reported area, live video URL, connection form and a connect/disconnect button.
type cameraPanel struct {
	id        monitor.CameraID
	frame     *FrameWidget
	indicator *LabelWidget
	area      *LabelWidget
	uptime    *LabelWidget
	video     *LabelWidget
	button    *ButtonWidget
	fields    map[string]*TextWidget

	connect    model.Control
	disconnect model.Control

	onConnect    func(monitor.CameraID, action.ConnectionForm)
	onDisconnect func(monitor.CameraID)
}

var formRows = []struct{ id, label string }{
	{"address", "Address"},
	{"port", "Port"},
	{"username", "Username"},
	{"password", "Password"},
	{"stream", "Stream"},
}

func newCameraPanel(parent *FrameWidget, id monitor.CameraID, column int, form action.ConnectionForm,
	onConnect func(monitor.CameraID, action.ConnectionForm), onDisconnect func(monitor.CameraID)) *cameraPanel {
	p := &cameraPanel{
		id:           id,
		fields:       make(map[string]*TextWidget),
		connect:      model.Control{Label: model.LabelConnect, Enabled: true, Visible: true},
		disconnect:   model.Control{Label: model.LabelDisconnect, Enabled: true},
		onConnect:    onConnect,
		onDisconnect: onDisconnect,
	}
	pal := theme.CurrentPalette()
	p.frame = parent.Frame(Borderwidth(1), Relief("groove"), Background(pal.Surface))
	Grid(p.frame, Row(0), Column(column), Sticky("nwe"), Padx("0.6m"), Pady("0.6m"))

	title := p.frame.Label(Txt(id.Label()), Background(pal.Surface), Foreground(pal.Text))
	Grid(title, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	p.indicator = p.frame.Label(Txt("● disconnected"), Background(pal.Surface), Foreground(theme.IndicatorColor("disconnected")))
	Grid(p.indicator, Row(0), Column(1), Sticky("e"), Padx("0.4m"), Pady("0.3m"))

	areaLbl := p.frame.Label(Txt("Segmentation area"), Anchor("w"), Background(pal.Surface), Foreground(pal.TextMuted))
	Grid(areaLbl, Row(1), Column(0), Sticky("w"), Padx("0.4m"))
	p.area = p.frame.Label(Txt("0"), Width(10), Anchor("e"), Background(pal.Surface))
	Grid(p.area, Row(1), Column(1), Sticky("e"), Padx("0.4m"))
	upLbl := p.frame.Label(Txt("Connected (last / total)"), Anchor("w"), Background(pal.Surface), Foreground(pal.TextMuted))
	Grid(upLbl, Row(2), Column(0), Sticky("w"), Padx("0.4m"))
	p.uptime = p.frame.Label(Txt("00:00 / 00:00"), Anchor("e"), Background(pal.Surface))
	Grid(p.uptime, Row(2), Column(1), Sticky("e"), Padx("0.4m"))
	videoLbl := p.frame.Label(Txt("Live video"), Anchor("w"), Background(pal.Surface), Foreground(pal.TextMuted))
	Grid(videoLbl, Row(3), Column(0), Sticky("w"), Padx("0.4m"))
	p.video = p.frame.Label(Txt(""), Anchor("e"), Background(pal.Surface), Foreground(pal.Primary))
	Grid(p.video, Row(3), Column(1), Sticky("e"), Padx("0.4m"))

	values := map[string]string{
		"address":  form.Address,
		"port":     form.Port,
		"username": form.Username,
		"password": form.Password,
		"stream":   form.Stream,
	}
	row := 4
	for _, f := range formRows {
		lbl := p.frame.Label(Txt(f.label), Anchor("w"), Background(pal.Surface))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := p.frame.Text(Height(1), Width(22))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", values[f.id])
		p.fields[f.id] = w
		row++
	}
	p.button = p.frame.Button(Txt(model.LabelConnect), Background(pal.Primary), Foreground("white"), Command(p.press))
	Grid(p.button, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	return p
}

func (p *cameraPanel) text(id string) string {
	w := p.fields[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (p *cameraPanel) form() action.ConnectionForm {
	return action.ConnectionForm{
		Address:  p.text("address"),
		Port:     p.text("port"),
		Username: p.text("username"),
		Password: p.text("password"),
		Stream:   p.text("stream"),
	}
}

// press dispatches to whichever of connect/disconnect is currently shown.
func (p *cameraPanel) press() {
	if p.disconnect.Visible {
		if p.disconnect.Enabled && p.onDisconnect != nil {
			p.onDisconnect(p.id)
		}
		return
	}
	if p.connect.Enabled && p.onConnect != nil {
		p.onConnect(p.id, p.form())
	}
}

func (p *cameraPanel) setControl(key string, c model.Control) {
	switch key {
	case model.ConnectKey(p.id):
		p.connect = c
	case model.DisconnectKey(p.id):
		p.disconnect = c
	default:
		return
	}
	pal := theme.CurrentPalette()
	shown, bg := p.connect, pal.Primary
	if p.disconnect.Visible {
		shown, bg = p.disconnect, pal.Danger
	}
	state := "disabled"
	if shown.Enabled {
		state = "normal"
	}
	p.button.Configure(Txt(shown.Label), Background(bg), State(state))

	editable := "disabled"
	if !p.disconnect.Visible && shown.Enabled {
		editable = "normal"
	}
	for _, w := range p.fields {
		w.Configure(State(editable))
	}
}

func (p *cameraPanel) setIndicator(indicator string) {
	p.indicator.Configure(Txt("● "+indicator), Foreground(theme.IndicatorColor(indicator)))
}
