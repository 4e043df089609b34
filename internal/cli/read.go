package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gr3q/cputemp/internal/chart"
	"github.com/gr3q/cputemp/internal/config"
	"github.com/gr3q/cputemp/internal/cputemp"
	"github.com/gr3q/cputemp/internal/sensor"
)

var readFahrenheit bool

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the current CPU temperature once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		readings, err := sensor.ReadAll()
		if err != nil {
			return err
		}

		temp, ok := cputemp.Select(readings)
		if !ok {
			return errors.New("no usable CPU temperature sensor found")
		}

		fahrenheit := readFahrenheit
		if !cmd.Flags().Changed("fahrenheit") {
			if cfg, err := config.Load(); err == nil {
				fahrenheit = cfg.Fahrenheit
			}
		}

		fmt.Println(chart.FormatTemp(temp, fahrenheit))
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVarP(&readFahrenheit, "fahrenheit", "f", false, "print in Fahrenheit")
	rootCmd.AddCommand(readCmd)
}
