package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List Wi-Fi networks visible to the device",
	Run: func(cmd *cobra.Command, args []string) {
		runScanCommand()
	},
}

func runScanCommand() {
	p, cleanup, err := connectProbe(nil)
	if err != nil {
		exitWithError("failed to connect", err)
	}
	defer cleanup()

	result, err := p.Scan()
	if err != nil {
		exitWithError("scan failed", err)
	}

	if jsonOutput {
		printJSON(result)
		return
	}

	if len(result.Networks) == 0 {
		fmt.Println("no networks found")
		return
	}

	fmt.Printf("%-24s %-8s %-10s %s\n", "SSID", "CHANNEL", "SECURITY", "RSSI")
	for _, n := range result.Networks {
		ssid := n.SSID
		if n.Hidden() {
			ssid = "<hidden>"
		}
		fmt.Printf("%-24s %-8d %-10s %d dBm\n", ssid, n.Channel, n.Security, n.RSSI)
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
