package commands

import (
	"fmt"

	"github.com/imaadfakier/spicychatdotai-scraper/tasks"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Lists the task names accepted by --only, in run order.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range tasks.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
