package cmd

import (
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish one post immediately",
	Long:  "Runs a single post cycle right now, ignoring the active-hours window.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.poster.Run(cmd.Context(), "manual", true)
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
}
