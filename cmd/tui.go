package cmd

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/app"
	"github.com/soocke/dualcam-monitor/ui/presenter"
	"github.com/soocke/dualcam-monitor/ui/tui"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the monitor in the terminal",
	Long: `Run both operator views in the terminal. Logs go to --log-file since the
screen is owned by the interface.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file (discarded when empty)")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	var w io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := tea.LogToFile(tuiLogFile, "")
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	cfg, logger, err := loadConfig(cmd, w)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c := app.BuildContainer(cfg, logger)
	dispatch := presenter.NewDispatcher(ctx, c.Actions, logger)
	m := tui.New(cfg.UI.Title, dispatch, forms(c), cancel)
	m.SetLoop(c.AttachSurface(m, m))

	a := app.New(c)
	if err := a.Init(ctx); err != nil {
		return err
	}
	runErr := tui.Run(m)

	cancel()
	sctx, scancel := shutdownContext()
	defer scancel()
	err = a.Shutdown(sctx)
	dispatch.Wait()
	if runErr != nil {
		return runErr
	}
	return err
}
