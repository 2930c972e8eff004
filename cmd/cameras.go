package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soocke/dualcam-monitor/app"
	"github.com/soocke/dualcam-monitor/domain/action"
	"github.com/soocke/dualcam-monitor/domain/monitor"
)

var camForm action.ConnectionForm

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Connect or disconnect a camera slot",
}

var camerasConnectCmd = &cobra.Command{
	Use:   "connect camera1|camera2|1|2",
	Short: "Connect a camera stream to a slot",
	Long: `Connect an RTSP stream to a camera slot. Unset flags fall back to the
cameras section of the configuration.`,
	Example: `  dualcam-monitor cameras connect camera1 --address 192.168.1.64 --username admin --password secret`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cameraArg(args[0])
		if err != nil {
			return err
		}
		cfg, logger, err := loadConfig(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		c := app.BuildContainer(cfg, logger)
		defer c.Loop.Close()

		form := c.ConnectionForm(id)
		flags := cmd.Flags()
		for name, f := range map[string][2]*string{
			"address":  {&form.Address, &camForm.Address},
			"port":     {&form.Port, &camForm.Port},
			"username": {&form.Username, &camForm.Username},
			"password": {&form.Password, &camForm.Password},
			"stream":   {&form.Stream, &camForm.Stream},
		} {
			if flags.Changed(name) {
				*f[0] = *f[1]
			}
		}
		if err := c.Actions.ConnectCamera(cmd.Context(), id, form); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s connected.\n", id.Label())
		return nil
	},
}

var camerasDisconnectCmd = &cobra.Command{
	Use:   "disconnect camera1|camera2|1|2",
	Short: "Disconnect a camera slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cameraArg(args[0])
		if err != nil {
			return err
		}
		cfg, logger, err := loadConfig(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		c := app.BuildContainer(cfg, logger)
		defer c.Loop.Close()
		if err := c.Actions.DisconnectCamera(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s disconnected.\n", id.Label())
		return nil
	},
}

func cameraArg(s string) (monitor.CameraID, error) {
	id, ok := monitor.ParseCameraID(s)
	if !ok {
		return "", fmt.Errorf("unknown camera %q (want camera1 or camera2)", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(camerasCmd)
	camerasCmd.AddCommand(camerasConnectCmd)
	camerasCmd.AddCommand(camerasDisconnectCmd)

	f := camerasConnectCmd.Flags()
	f.StringVar(&camForm.Address, "address", "", "camera IP address or host name")
	f.StringVar(&camForm.Port, "port", "", "RTSP port")
	f.StringVar(&camForm.Username, "username", "", "RTSP user")
	f.StringVar(&camForm.Password, "password", "", "RTSP password")
	f.StringVar(&camForm.Stream, "stream", "", "stream path, e.g. Streaming/Channels/101")
}
