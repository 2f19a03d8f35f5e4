package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		d := a.stats.Snapshot()
		fmt.Printf("attempts: %d\n", d.TotalAttempts)
		fmt.Printf("failed:   %d\n", d.FailedAttempts)
		if top := d.TopReasons(statsTop); top != "" {
			fmt.Printf("top reasons: %s\n", top)
		}
		fmt.Printf("history entries: %d\n", len(a.history.Entries()))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "How many failure reasons to show")
	rootCmd.AddCommand(statsCmd)
}
