package presenter

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

// ActionRunner is the operator-action side of the action handler.
type ActionRunner interface {
	EvaluateAlarm(ctx context.Context, alarmID string, correct bool) error
	ConnectCamera(ctx context.Context, id monitor.CameraID, form action.ConnectionForm) error
	DisconnectCamera(ctx context.Context, id monitor.CameraID) error
}

// Dispatcher runs operator actions off the UI thread. Outcomes reach the
// operator through the notification model, so errors are only logged here.
type Dispatcher struct {
	ctx    context.Context
	runner ActionRunner
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(ctx context.Context, runner ActionRunner, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{ctx: ctx, runner: runner, logger: logger}
}

func (d *Dispatcher) Evaluate(alarmID string, correct bool) {
	d.run("evaluate", func(ctx context.Context) error { return d.runner.EvaluateAlarm(ctx, alarmID, correct) })
}

func (d *Dispatcher) Connect(id monitor.CameraID, form action.ConnectionForm) {
	d.run("connect", func(ctx context.Context) error { return d.runner.ConnectCamera(ctx, id, form) })
}

func (d *Dispatcher) Disconnect(id monitor.CameraID) {
	d.run("disconnect", func(ctx context.Context) error { return d.runner.DisconnectCamera(ctx, id) })
}

// Wait blocks until every dispatched action returned.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}

func (d *Dispatcher) run(name string, fn func(context.Context) error) {
	if d == nil || d.runner == nil || d.ctx.Err() != nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := fn(d.ctx)
		if err == nil || d.logger == nil {
			return
		}
		if errors.Is(err, action.ErrBusy) {
			d.logger.Debug("action ignored, item busy", "action", name)
			return
		}
		d.logger.Debug("action finished with error", "action", name, "error", err)
	}()
}
