package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/soocke/dualcam-monitor/debug"
	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// ActivityTaskName is the scheduler name of the activity check.
const ActivityTaskName = "activity_check"

// ErrAlreadyStarted is returned by a second Init.
var ErrAlreadyStarted = errors.New("app already started")

// App owns the running engine: scheduler tasks, the event loop and the optional
// metrics listener. It is constructed explicitly and torn down with Shutdown.
type App struct {
	*Container

	mu        sync.Mutex
	started   bool
	scheduler *monitor.Scheduler
	server    *http.Server
	metricsLn net.Listener
	shutdown  sync.Once
}

// New wraps a container.
func New(c *Container) *App {
	return &App{Container: c}
}

// Init starts polling, the activity check, the debug tasks and the metrics
// listener. Tasks stop when ctx is cancelled or Shutdown is called.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}
	a.started = true
	cfg := a.Config

	a.scheduler = monitor.NewScheduler(ctx, a.Logger, a.Metrics)
	err := a.Poller.Register(a.scheduler, monitor.Intervals{
		CameraStatus: cfg.Intervals.CameraStatus,
		Segmentation: cfg.Intervals.Segmentation,
		Alarms:       cfg.Intervals.Alarms,
	})
	if a.Reconciler != nil {
		err = errors.Join(err, a.scheduler.Schedule(ActivityTaskName, cfg.Intervals.Activity, a.Reconciler.CheckActivity))
	}
	err = errors.Join(err, a.scheduler.ScheduleTask(debug.ExportTask(a.Store, cfg.Intervals.Export, a.Logger)))
	if cfg.Debug {
		err = errors.Join(err, a.scheduler.ScheduleTask(debug.RuntimeTask(cfg.Intervals.RuntimeStats, a.Logger)))
	}
	if err != nil {
		a.scheduler.CancelAll()
		return fmt.Errorf("schedule tasks: %w", err)
	}

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			a.scheduler.CancelAll()
			return err
		}
	}
	if a.Logger != nil {
		a.Logger.Info("monitor started", "base_url", cfg.BaseURL, "tasks", len(a.scheduler.Tasks()))
	}
	return nil
}

func (a *App) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	a.metricsLn = ln
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && a.Logger != nil {
			a.Logger.Error("metrics server stopped", "error", err)
		}
	}()
	if a.Logger != nil {
		a.Logger.Info("metrics listening", "addr", ln.Addr().String())
	}
	return nil
}

// MetricsAddr returns the bound metrics address, or "" when not serving.
func (a *App) MetricsAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.metricsLn == nil {
		return ""
	}
	return a.metricsLn.Addr().String()
}

// Shutdown cancels every task exactly once, waits for in-flight firings, then
// stops the event loop and the metrics listener. Later calls are no-ops.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.shutdown.Do(func() {
		a.mu.Lock()
		sched, srv := a.scheduler, a.server
		a.mu.Unlock()
		if sched != nil {
			sched.CancelAll()
		}
		a.Loop.Close()
		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		if a.Logger != nil {
			a.Logger.Info("monitor stopped")
		}
	})
	return err
}

// DebugInfo is a point-in-time report of the engine.
type DebugInfo struct {
	Tasks        []monitor.TaskInfo        `json:"tasks"`
	Segmentation monitor.SegmentationStats `json:"segmentation"`
	Active       bool                      `json:"active"`
	Cameras      map[string]string         `json:"cameras"`
	LastApplied  map[string]uint64         `json:"last_applied"`
	Busy         []string                  `json:"busy"`
	Alarms       int                       `json:"alarms_loaded"`
	Polls        map[string]uint64         `json:"polls"`
	Notification string                    `json:"notification,omitempty"`
	Stopped      bool                      `json:"stopped"`
}

// DebugInfo reports task periods, segmentation data and activity.
func (a *App) DebugInfo() DebugInfo {
	a.mu.Lock()
	sched := a.scheduler
	a.mu.Unlock()

	v := a.Store.Get()
	info := DebugInfo{
		Segmentation: v.Stats,
		Active:       v.Stats.Camera1Area > 0 || v.Stats.Camera2Area > 0,
		Cameras:      make(map[string]string, len(monitor.CameraIDs)),
		LastApplied:  make(map[string]uint64),
		Busy:         lo.Map(a.Actions.Busy(), func(i action.Item, _ int) string { return i.String() }),
		Alarms:       len(v.Alarms.Items),
		Polls: map[string]uint64{
			"ok":     a.Metrics.PollsOK.Load(),
			"failed": a.Metrics.PollsFailed.Load(),
			"stale":  a.Metrics.StaleDiscarded.Load(),
		},
	}
	for _, id := range monitor.CameraIDs {
		info.Cameras[string(id)] = v.Camera(id).Indicator().String()
	}
	for _, k := range []monitor.DataKind{monitor.KindCameraStatus, monitor.KindSegmentation, monitor.KindAlarms} {
		info.LastApplied[k.String()] = a.Store.LastApplied(k)
	}
	if sched != nil {
		info.Tasks = sched.Tasks()
		info.Stopped = sched.Stopped()
	}
	if n, ok := a.Notifications.Current(); ok {
		info.Notification = n.Message
	}
	return info
}
