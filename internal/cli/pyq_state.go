package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/pyq"
	"github.com/asteroid-belt/gatewise/internal/workspace"
)

var pyqSolveCmd = &cobra.Command{
	Use:   "solve <id>",
	Short: "Record an attempt at a paper",
	Long: `Record an attempt at a paper. The paper is marked solved and its attempt
count goes up by one. Pass --correct or --wrong to record a verdict; without
either the verdict is unknown.`,
	Example: `  gatewise pyq solve 2024-CS-CS1 --correct`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPyqSolve,
}

var pyqNoteCmd = &cobra.Command{
	Use:   "note <id>",
	Short: "Attach notes or time spent to a paper",
	Example: `  gatewise pyq note 2024-CS-CS1 --notes "Q17 trick question" --minutes 180`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPyqNote,
}

var pyqBookmarkCmd = &cobra.Command{
	Use:   "bookmark <id>",
	Short: "Toggle a bookmark on a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPyqBookmark,
}

var pyqFlagCmd = &cobra.Command{
	Use:   "flag [id]",
	Short: "Toggle the revision flag on a paper",
	Long: `Toggle the revision flag on a paper. With --clear every flag is removed
in one step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPyqFlag,
}

var (
	solveCorrect bool
	solveWrong   bool

	noteText    string
	noteMinutes int

	flagClear bool
)

func init() {
	pyqSolveCmd.Flags().BoolVar(&solveCorrect, "correct", false, "Your answers matched the key")
	pyqSolveCmd.Flags().BoolVar(&solveWrong, "wrong", false, "Your answers did not match the key")
	pyqSolveCmd.MarkFlagsMutuallyExclusive("correct", "wrong")

	pyqNoteCmd.Flags().StringVar(&noteText, "notes", "", "Notes to keep with the paper")
	pyqNoteCmd.Flags().IntVar(&noteMinutes, "minutes", 0, "Total minutes spent on the paper")

	pyqFlagCmd.Flags().BoolVar(&flagClear, "clear", false, "Remove the revision flag from every paper")

	pyqCmd.AddCommand(pyqSolveCmd)
	pyqCmd.AddCommand(pyqNoteCmd)
	pyqCmd.AddCommand(pyqBookmarkCmd)
	pyqCmd.AddCommand(pyqFlagCmd)
}

func requireItem(w *workspace.Workspace, cmdName, id string) (models.PyqItem, error) {
	item, ok := w.Pyq.Item(id)
	if !ok {
		return item, trackCLIError(cmdName, fmt.Errorf("paper %s not found", id))
	}
	return item, nil
}

func runPyqSolve(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq solve")
	if err != nil {
		return err
	}
	item, err := requireItem(w, "pyq solve", args[0])
	if err != nil {
		return err
	}

	var correct *bool
	verdict := "unknown"
	switch {
	case solveCorrect:
		correct, verdict = models.Ptr(true), "correct"
	case solveWrong:
		correct, verdict = models.Ptr(false), "wrong"
	}

	w.Pyq.MarkAsSolved(item.ID, correct)
	telemetryClient.TrackPyqSolved(item.Branch, verdict)

	st, _ := w.Pyq.UserState(item.ID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s solved (%s, attempt %d)\n",
		styles.good.Render("✓"), item.ID, verdict, st.Attempts)
	return nil
}

func runPyqNote(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq note")
	if err != nil {
		return err
	}
	item, err := requireItem(w, "pyq note", args[0])
	if err != nil {
		return err
	}

	var update models.PyqUserStateUpdate
	if cmd.Flags().Changed("notes") {
		update.Notes = models.Ptr(noteText)
	}
	if cmd.Flags().Changed("minutes") {
		update.TimeSpentMin = models.Ptr(noteMinutes)
	}
	if update.Notes == nil && update.TimeSpentMin == nil {
		return trackCLIError("pyq note", fmt.Errorf("invalid invocation: pass --notes or --minutes"))
	}

	w.Pyq.UpdateUserState(item.ID, update)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved notes for %s\n", item.ID)
	return nil
}

func runPyqBookmark(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq bookmark")
	if err != nil {
		return err
	}
	item, err := requireItem(w, "pyq bookmark", args[0])
	if err != nil {
		return err
	}

	if w.Pyq.ToggleBookmark(item.ID) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "★ %s bookmarked\n", item.ID)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "☆ %s bookmark removed\n", item.ID)
	}
	return nil
}

func runPyqFlag(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq flag")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flagClear {
		var changes []pyq.StateChange
		for id, st := range w.Pyq.Snapshot().UserStates {
			if st.FlaggedForRevision {
				changes = append(changes, pyq.StateChange{
					PyqID:  id,
					Update: models.PyqUserStateUpdate{FlaggedForRevision: models.Ptr(false)},
				})
			}
		}
		w.Pyq.BulkUpdateUserStates(changes)
		_, _ = fmt.Fprintf(out, "Cleared %d revision flag(s)\n", len(changes))
		return nil
	}

	if len(args) == 0 {
		return trackCLIError("pyq flag", fmt.Errorf("invalid invocation: pass a paper id or --clear"))
	}
	item, err := requireItem(w, "pyq flag", args[0])
	if err != nil {
		return err
	}

	if w.Pyq.ToggleFlagForRevision(item.ID) {
		_, _ = fmt.Fprintf(out, "⚑ %s flagged for revision\n", item.ID)
	} else {
		_, _ = fmt.Fprintf(out, "%s no longer flagged\n", item.ID)
	}
	return nil
}
