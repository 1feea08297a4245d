package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all study progress",
	Long: `Clear every topic, the running session, your streak and the dashboard
statistics. The selected branch is kept. Settings and paper work are not
touched; see "settings reset" and "pyq remove --cascade".

Export a backup first with "gatewise export progress".`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetAll bool

func init() {
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "Confirm that all progress should be cleared")
}

func runReset(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("reset")
	if err != nil {
		return err
	}
	if !resetAll {
		return trackCLIError("reset", fmt.Errorf("invalid invocation: refusing to clear progress without --all"))
	}

	w.Progress.ResetAllProgress()
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All progress cleared")
	return nil
}
