// Package cmd wires the command line: the desktop and terminal monitors, a
// headless watcher and one-shot queries against the analytics service.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/config"
)

const shutdownTimeout = 5 * time.Second

var (
	cfgFile     string
	jsonOutput  bool
	logLevel    string
	logFormat   string
	baseURL     string
	metricsAddr string
	debugMode   bool
)

// flagKeys maps persistent flags to configuration keys. Only flags set on the
// command line override the file and environment.
var flagKeys = map[string]string{
	"base-url":     "base_url",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"metrics-addr": "metrics_addr",
	"debug":        "debug",
}

var rootCmd = &cobra.Command{
	Use:   "dualcam-monitor",
	Short: "Operator console for the dual camera segmentation service",
	Long: `Monitor two camera streams processed by the segmentation service,
review pending alarms and connect or disconnect cameras.

Without a subcommand the desktop window is opened.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGUI,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dualcam-monitor.yaml)")
	pf.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "json", "log format (json, text)")
	pf.StringVar(&baseURL, "base-url", "", "analytics service base URL")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVar(&debugMode, "debug", false, "enable runtime statistics logging")
}

func overrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	out := make(map[string]any)
	for name, key := range flagKeys {
		if !flags.Changed(name) {
			continue
		}
		if name == "debug" {
			out[key] = debugMode
			continue
		}
		out[key] = flags.Lookup(name).Value.String()
	}
	return out
}

// loadConfig resolves configuration for cmd and builds a logger writing to w.
func loadConfig(cmd *cobra.Command, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile, overrides(cmd))
	if err != nil {
		return nil, nil, err
	}
	return cfg, NewLogger(w, cfg.LogLevel, cfg.LogFormat), nil
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}
