package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the device is reachable",
	Long: `Send a ping command and wait for the device to answer with pong.

The round trip covers the full path: command encoding, the transport,
fragment reassembly on both ends and message decoding.`,
	Run: func(cmd *cobra.Command, args []string) {
		runPingCommand()
	},
}

func runPingCommand() {
	p, cleanup, err := connectProbe(nil)
	if err != nil {
		exitWithError("failed to connect", err)
	}
	defer cleanup()

	start := time.Now()
	if err := p.Ping(); err != nil {
		exitWithError("ping failed", err)
	}
	fmt.Printf("pong in %s\n", time.Since(start).Round(time.Millisecond))
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
