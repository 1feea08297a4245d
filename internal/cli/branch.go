package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/models"
)

var branchCmd = &cobra.Command{
	Use:   "branch [code]",
	Short: "Show or set your GATE branch",
	Long: `Show or set the GATE paper you are preparing for.

Codes are the official GATE paper codes (CS, EC, ME, DA, ...). Unknown
codes are accepted with a warning.`,
	Example: `  gatewise branch
  gatewise branch CS`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBranch,
}

func runBranch(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("branch")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if branch := w.Progress.CurrentBranch(); branch != "" {
			_, _ = fmt.Fprintf(out, "Current branch: %s\n", styles.title.Render(branch))
		} else {
			_, _ = fmt.Fprintln(out, "No branch selected. Set one with `gatewise branch <code>`.")
		}
		return nil
	}

	code := strings.ToUpper(strings.TrimSpace(args[0]))
	if code == "" {
		return trackCLIError("branch", fmt.Errorf("invalid branch code %q", args[0]))
	}
	if !models.IsKnownBranch(code) {
		_, _ = fmt.Fprintln(out, styles.warn.Render(fmt.Sprintf("Warning: %s is not an official GATE paper code", code)))
	}

	w.Progress.SetCurrentBranch(code)
	_, _ = fmt.Fprintf(out, "Branch set to %s\n", styles.title.Render(code))
	return nil
}
