package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/app"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

var (
	watchDuration  time.Duration
	watchDebugInfo bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the service headless and log every state change",
	Example: `  dualcam-monitor watch --log-format text
  dualcam-monitor watch --duration 1m --debug-info --metrics-addr :9090`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	watchCmd.Flags().BoolVar(&watchDebugInfo, "debug-info", false, "print the engine report as JSON on exit")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if watchDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchDuration)
		defer cancel()
	}

	c := app.BuildContainer(cfg, logger)
	c.Store.AddListener(func(ch monitor.Change) {
		logger.Info("state changed",
			"fields", lo.Map(ch.Fields, func(f monitor.Field, _ int) string { return string(f) }),
			"camera1", ch.State.Camera(monitor.Camera1).Indicator().String(),
			"camera2", ch.State.Camera(monitor.Camera2).Indicator().String(),
			"current_product", ch.State.Stats.CurrentProduct,
			"pending_alarms", len(ch.State.Alarms.Items),
		)
	})

	a := app.New(c)
	if err := a.Init(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	sctx, scancel := shutdownContext()
	defer scancel()
	err = a.Shutdown(sctx)
	if watchDebugInfo {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(a.DebugInfo()); encErr != nil {
			return encErr
		}
	}
	return err
}
