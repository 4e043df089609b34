package cli

import (
	"github.com/spf13/cobra"

	"github.com/gr3q/cputemp/internal/config"
	"github.com/gr3q/cputemp/internal/store"
	"github.com/gr3q/cputemp/internal/viewer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded temperature history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := store.Open(config.Home())
		if err != nil {
			return err
		}
		defer db.Close()

		return viewer.Run(db, cfg.Fahrenheit)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
