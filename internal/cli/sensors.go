package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gr3q/cputemp/internal/cputemp"
	"github.com/gr3q/cputemp/internal/sensor"
)

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "Dump the raw sensor enumeration",
	Long: `Dump every thermal sensor as enumerated right now, marking the one
the selection policy would display. A debugging aid for machines where
the applet shows "--" or an unexpected value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		readings, err := sensor.ReadAll()
		if err != nil {
			return err
		}

		selected := ""
		if sel, ok := cputemp.SelectReading(readings); ok {
			selected = sel.Key()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHIP\tCOMPONENT\tLABEL\tTEMP\tHIGH\tCRIT\t")
		for _, r := range readings {
			temp := "--"
			if r.HasTemp {
				temp = fmt.Sprintf("%.1f°C", r.Temp)
			}
			high, crit := "", ""
			if r.HasHigh {
				high = fmt.Sprintf("%.0f", r.High)
			}
			if r.HasCrit {
				crit = fmt.Sprintf("%.0f", r.Crit)
			}
			mark := ""
			if selected != "" && r.Key() == selected {
				mark = " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\t%s\t%s\t\n",
				r.Chip, sensor.FriendlyName(r.Chip), r.Label, temp, mark, high, crit)
		}
		w.Flush()

		if selected == "" {
			fmt.Println("\nno sensor matches the CPU selection policy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sensorsCmd)
}
