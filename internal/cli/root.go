// Package cli implements the cputemp command-line interface using
// Cobra. Running the bare command starts the applet; subcommands give a
// one-shot reading, a raw sensor dump, the history browser, and a CPU
// stress helper.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "cputemp",
	Short: "CPU temperature panel applet",
	Long: `cputemp shows the current CPU temperature in your terminal,
refreshed on a configurable interval, with Celsius/Fahrenheit toggling.

The value shown is picked from the full hardware sensor enumeration:
a canonical package sensor (Tctl, Package id 0, CPU Temperature) when
one reports, otherwise the hottest per-core sensor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApplet()
	},
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
