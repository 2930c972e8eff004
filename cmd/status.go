package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/domain/remote"
	"github.com/soocke/dualcam-monitor/ui/format"
)

// statusReport is the combined one-shot view of the service.
type statusReport struct {
	Cameras      remote.CameraStatus      `json:"cameras"`
	Segmentation remote.SegmentationStats `json:"segmentation"`
	Alarms       remote.AlarmList         `json:"alarms"`
	Statistics   remote.Statistics        `json:"statistics"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print camera, segmentation and alarm statistics once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		report, err := fetchStatus(cmd.Context(), client)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		printStatus(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func newClient(cmd *cobra.Command) (*remote.Client, error) {
	cfg, logger, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return nil, err
	}
	return remote.New(remote.ClientConfig{BaseURL: cfg.BaseURL, Timeout: cfg.RequestTimeout}, logger), nil
}

func fetchStatus(ctx context.Context, client *remote.Client) (statusReport, error) {
	var (
		r   statusReport
		err error
	)
	if r.Cameras, err = client.CameraStatus(ctx); err != nil {
		return r, fmt.Errorf("camera status: %w", err)
	}
	if r.Segmentation, err = client.SegmentationStats(ctx); err != nil {
		return r, fmt.Errorf("segmentation stats: %w", err)
	}
	if r.Alarms, err = client.ListAlarms(ctx); err != nil {
		return r, fmt.Errorf("alarms: %w", err)
	}
	if r.Statistics, err = client.Statistics(ctx); err != nil {
		return r, fmt.Errorf("statistics: %w", err)
	}
	return r, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatus(out io.Writer, r statusReport) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CAMERA\tSTATUS\tAREA")
	fmt.Fprintln(w, "------\t------\t----")
	for _, id := range monitor.CameraIDs {
		e, _ := r.Cameras.Camera(string(id))
		st := monitor.CameraState{Connected: e.Connected, Processing: e.Processing}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id.Label(), st.Indicator(), format.Count(e.SegmentationArea))
	}
	fmt.Fprintf(w, "Area product\t\t%s\n", format.Count(r.Cameras.AreaProduct))
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	s := r.Segmentation
	fmt.Fprintf(w, "Current product\t%s\t(%s × %s)\n", format.Count(s.CurrentProduct), format.Count(s.Camera1Area), format.Count(s.Camera2Area))
	fmt.Fprintf(w, "Max product\t%s\n", format.Count(s.MaxProduct))
	fmt.Fprintf(w, "Average product\t%s\n", format.Count(s.AverageProduct))
	fmt.Fprintf(w, "Calculations\t%s\t(%s non-zero)\n", format.Count(s.TotalCalculations), format.Count(s.NonZeroProducts))
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	st := r.Statistics
	fmt.Fprintf(w, "Alarms\t%s total\t%s pending\n", format.Count(st.TotalAlarms), format.Count(st.PendingAlarms))
	fmt.Fprintf(w, "Evaluated\t%s correct\t%s incorrect\n", format.Count(st.CorrectAlarms), format.Count(st.IncorrectAlarms))
	fmt.Fprintf(w, "Accuracy\t%s\t%s evaluated\n", format.Percent(st.AccuracyPercentage), format.Percent(st.EvaluationPercentage))
	w.Flush()
}
