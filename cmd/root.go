// Package cmd implements the piwifi CLI commands using cobra.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile    string
	address       string
	transportType string
	logLevel      string
	jsonOutput    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "piwifi",
	Short: "Wi-Fi diagnostics for a remote piwifi device",
	Long: `piwifi talks to a remote Wi-Fi diagnostic device over a small framed
transport. Commands are fire and forget; the device answers with
notifications that are reassembled from fragments and decoded here.

The device end can be simulated locally:

  piwifi simulate -a 127.0.0.1:20000 &
  piwifi ping -a 127.0.0.1:20000`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path")
	rootCmd.PersistentFlags().StringVarP(&address, "address", "a", "",
		"device address (host:port)")
	rootCmd.PersistentFlags().StringVarP(&transportType, "transport", "t", "",
		"transport type: tcp, udp or quic")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "",
		"log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"print device responses as JSON")
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitWithError("failed to format result", err)
	}
	fmt.Println(string(data))
}
