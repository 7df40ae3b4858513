package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmandrioli/piwifi-web/pkg/message"
	"github.com/dmandrioli/piwifi-web/pkg/probe"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <ssid>",
	Short: "Stream live signal strength for a network",
	Long: `Start signal monitoring for the given SSID and print each reading
as it arrives. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMonitorCommand(args[0])
	},
}

// signalPrinter prints readings as they arrive on the read goroutine
type signalPrinter struct {
	probe.BaseHandler
}

func (signalPrinter) OnSignal(msg *message.Signal) {
	if jsonOutput {
		printJSON(msg)
		return
	}
	ts := time.UnixMilli(msg.Timestamp).Format("15:04:05.000")
	fmt.Printf("%s  %4d dBm  %s\n", ts, msg.RSSI, rssiBar(msg.RSSI))
}

// rssiBar maps -90..-30 dBm onto a bar of up to 20 marks
func rssiBar(rssi int) string {
	n := (rssi + 90) / 3
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("#", n)
}

func runMonitorCommand(ssid string) {
	p, cleanup, err := connectProbe(signalPrinter{})
	if err != nil {
		exitWithError("failed to connect", err)
	}
	defer cleanup()

	started, err := p.StartMonitor(ssid)
	if err != nil {
		exitWithError("monitor failed", err)
	}
	fmt.Printf("monitoring %s, press Ctrl-C to stop\n", started.SSID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := p.StopMonitor(); err != nil {
		exitWithError("failed to stop monitor", err)
	}
	fmt.Println("monitor stopped")
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
