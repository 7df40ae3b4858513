package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Show channel congestion around the device",
	Long: `Ask the device how many networks it sees on each Wi-Fi channel.

The 2.4 GHz band covers channels 1-13, the 5 GHz band the UNII-1/2
channels 36-64.`,
	Run: func(cmd *cobra.Command, args []string) {
		runChannelsCommand()
	},
}

func runChannelsCommand() {
	p, cleanup, err := connectProbe(nil)
	if err != nil {
		exitWithError("failed to connect", err)
	}
	defer cleanup()

	survey, err := p.Channels()
	if err != nil {
		exitWithError("channel survey failed", err)
	}

	if jsonOutput {
		printJSON(survey)
		return
	}

	fmt.Println("2.4 GHz band:")
	printBand(survey.Band2G, func(i int) int { return i + 1 })
	fmt.Println("5 GHz band:")
	printBand(survey.Band5G, func(i int) int { return 36 + 4*i })
}

func printBand(counts []int, channelOf func(int) int) {
	for i, count := range counts {
		fmt.Printf("  ch %-3d %2d %s\n", channelOf(i), count, strings.Repeat("#", count))
	}
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}
