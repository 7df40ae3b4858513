package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmandrioli/piwifi-web/internal/logging"
	"github.com/dmandrioli/piwifi-web/pkg/channel"
	"github.com/dmandrioli/piwifi-web/pkg/device"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated device",
	Long: `Run a local device simulator that answers probe commands.

The simulator listens on the configured address and serves scan results
from a built-in network table, or from a YAML file when
device.networks_file is set. Useful for trying the client without
hardware:

  piwifi simulate -a 127.0.0.1:20000 &
  piwifi scan -a 127.0.0.1:20000`,
	Run: func(cmd *cobra.Command, args []string) {
		runSimulateCommand()
	},
}

func runSimulateCommand() {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}

	log := logging.New(cfg.Log)

	deviceCfg, err := cfg.DeviceConfig()
	if err != nil {
		exitWithError("failed to load device config", err)
	}

	notif, err := newNotificationChannel(cfg, true)
	if err != nil {
		exitWithError("failed to create channel", err)
	}

	d, err := device.New(deviceCfg, channel.New(cfg.Channel.Type, notif, log), log)
	if err != nil {
		exitWithError("failed to create device", err)
	}
	if err := d.Start(); err != nil {
		exitWithError("failed to start device", err)
	}

	fmt.Printf("device %s listening, press Ctrl-C to stop\n", deviceCfg.ID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	d.Shutdown()
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
