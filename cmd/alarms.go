package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/ui/format"
)

var (
	alarmID        string
	alarmIncorrect bool
)

var alarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "List or evaluate pending alarms",
}

var alarmsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending alarms",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		list, err := client.ListAlarms(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}

		out := cmd.OutOrStdout()
		if len(list.Alarms) == 0 {
			fmt.Fprintln(out, "No pending alarms.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCAMERA\tTIME\tIMAGE")
		fmt.Fprintln(w, "--\t------\t----\t-----")
		for _, a := range list.Alarms {
			ts := a.Timestamp
			if t := monitor.ParseTimestamp(a.Timestamp); !t.IsZero() {
				ts = t.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, monitor.CameraID(a.CameraID).Label(), ts, client.AlarmImageURL(a.Filename))
		}
		w.Flush()
		fmt.Fprintf(out, "\n%s pending\n", format.Count(list.TotalPending))
		return nil
	},
}

var alarmsEvaluateCmd = &cobra.Command{
	Use:     "evaluate",
	Short:   "Mark an alarm as correct or incorrect",
	Example: `  dualcam-monitor alarms evaluate --id 3f2c9a --incorrect`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.EvaluateAlarm(cmd.Context(), alarmID, !alarmIncorrect)
		if err != nil {
			return err
		}
		verdict := "correct"
		if alarmIncorrect {
			verdict = "incorrect"
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alarm %s marked as %s.\n", alarmID, verdict)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alarmsCmd)
	alarmsCmd.AddCommand(alarmsListCmd)
	alarmsCmd.AddCommand(alarmsEvaluateCmd)

	alarmsEvaluateCmd.Flags().StringVar(&alarmID, "id", "", "ID of the alarm")
	alarmsEvaluateCmd.Flags().BoolVar(&alarmIncorrect, "incorrect", false, "mark the alarm as a false positive")
	_ = alarmsEvaluateCmd.MarkFlagRequired("id")
}
