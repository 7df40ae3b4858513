// Package main is the entry point for the piwifi diagnostic client.
package main

import (
	"fmt"
	"os"

	"github.com/dmandrioli/piwifi-web/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
