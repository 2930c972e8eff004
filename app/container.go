package app

import (
	"log/slog"

	"github.com/soocke/dualcam-monitor/config"
	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/domain/remote"
	"github.com/soocke/dualcam-monitor/ui/model"
	"github.com/soocke/dualcam-monitor/ui/presenter"
)

// Container assembles the client, state engine, models and presenters.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Client  *remote.Client
	Store   *monitor.Store
	Loop    *monitor.EventLoop
	Metrics *monitor.Metrics
	Poller  *monitor.Poller
	Actions *action.Handler

	Notifications *model.NotificationModel
	Controls      *model.ControlModel
	Uptime        *model.UptimeModel

	// Set by AttachSurface.
	Reconciler *presenter.Reconciler
	UILoop     *presenter.Loop
}

// BuildContainer constructs all components. Nothing is started besides the
// event loop goroutine.
func BuildContainer(cfg *config.Config, logger *slog.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Container{Config: cfg, Logger: logger}
	c.Client = remote.New(remote.ClientConfig{BaseURL: cfg.BaseURL, Timeout: cfg.RequestTimeout}, logger)
	c.Store = monitor.NewStore(logger)
	c.Loop = monitor.NewEventLoop(logger)
	c.Metrics = monitor.NewMetrics()
	c.Metrics.WatchStore(c.Store)
	c.Poller = monitor.NewPoller(c.Client, c.Store, c.Loop, c.Metrics, logger)

	c.Notifications = model.NewNotificationModel(cfg.NotificationTTL)
	c.Controls = model.NewControlModel()
	c.Uptime = model.NewUptimeModel()
	c.Actions = action.NewHandler(action.Deps{
		Client:       c.Client,
		State:        monitor.SerializedWriter{Loop: c.Loop, Store: c.Store},
		Refresher:    c.Poller,
		Controls:     c.Controls,
		Notifier:     c.Notifications,
		Metrics:      c.Metrics,
		Logger:       logger,
		RefreshDelay: cfg.EvaluateRefreshDelay,
	})
	return c
}

// AttachSurface creates the reconciler for surface and the UI tick loop. notes
// may be nil when the surface draws notifications itself.
func (c *Container) AttachSurface(surface presenter.Surface, notes presenter.NotificationView) *presenter.Loop {
	c.Reconciler = presenter.NewReconciler(c.Store, surface, c.Controls, presenter.ReconcilerConfig{
		HighlightDuration: c.Config.HighlightDuration,
		ImageURL:          c.Client.AlarmImageURL,
		VideoURL:          c.Client.VideoFeedURL,
		Logger:            c.Logger,
	})
	c.Store.AddListener(c.Reconciler.OnChange)
	var np *presenter.NotificationPresenter
	if notes != nil {
		np = presenter.NewNotificationPresenter(c.Notifications, notes)
	}
	c.UILoop = presenter.NewLoop(c.Reconciler, np, nil)
	c.UILoop.Uptime = presenter.NewUptimePresenter(c.Uptime, c.Store, surface)
	c.UILoop.Phases = presenter.NewPhasePresenter(surface)
	c.Actions.AddListener(c.UILoop.Phases.OnPhase)
	return c.UILoop
}

// ConnectionForm returns the configured connection prefill for a camera.
func (c *Container) ConnectionForm(id monitor.CameraID) action.ConnectionForm {
	cam := c.Config.Camera(string(id))
	return action.ConnectionForm{
		Address:  cam.Address,
		Port:     cam.Port,
		Username: cam.Username,
		Password: cam.Password,
		Stream:   cam.Stream,
	}
}
