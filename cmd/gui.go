package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/app"
	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/view"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop monitor window",
	RunE:  runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func forms(c *app.Container) map[monitor.CameraID]action.ConnectionForm {
	out := make(map[monitor.CameraID]action.ConnectionForm, len(monitor.CameraIDs))
	for _, id := range monitor.CameraIDs {
		out[id] = c.ConnectionForm(id)
	}
	return out
}

func runGUI(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd, os.Stdout)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c := app.BuildContainer(cfg, logger)
	rv := view.NewRootView(view.Options{
		Title:  cfg.UI.Title,
		Width:  cfg.UI.Width,
		Height: cfg.UI.Height,
		Dark:   cfg.UI.Dark,
		Forms:  forms(c),
		Logger: logger,
	})
	loop := c.AttachSurface(rv, rv)
	dispatch := presenter.NewDispatcher(ctx, c.Actions, logger)

	a := app.New(c)
	if err := a.Init(ctx); err != nil {
		return err
	}
	rv.Build(view.Handlers{
		Connect:    dispatch.Connect,
		Disconnect: dispatch.Disconnect,
		Evaluate:   dispatch.Evaluate,
		Exit:       cancel,
	})
	rv.Run(loop.Tick)

	cancel()
	sctx, scancel := shutdownContext()
	defer scancel()
	err = a.Shutdown(sctx)
	dispatch.Wait()
	return err
}
