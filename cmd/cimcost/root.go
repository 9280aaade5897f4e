package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cimcost",
	Short: "cimcost estimates the cost of ReRAM compute-in-memory macros.",
	Long: `cimcost estimates the area, timing and energy of ReRAM ` +
		`compute-in-memory macros. It evaluates a single configuration, ` +
		`a mapped layer, or a sweep over topologies and ADC settings.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
