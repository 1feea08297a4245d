package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/models"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Track progress on syllabus topics",
	Long: `Track progress on syllabus topics.

Subcommands:
  start <id>     Mark a topic as in progress
  complete <id>  Mark a topic as completed
  revise <id>    Record a revision of a topic you have started
  reset <id>     Forget all progress on a topic
  set <id>       Update individual fields of a topic
  list           List every topic with progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var topicStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Mark a topic as in progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicStart,
}

var topicCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a topic as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicComplete,
}

var topicReviseCmd = &cobra.Command{
	Use:   "revise <id>",
	Short: "Record a revision of a topic",
	Long: `Record a revision of a topic. The topic's revision count goes up by one
and its status becomes "revised". Topics without any progress are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopicRevise,
}

var topicResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Forget all progress on a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicReset,
}

var topicSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update individual fields of a topic",
	Long: `Update individual fields of a topic. Only the flags you pass are changed.
Confidence is clamped to 1-5 and completion to 0-100.`,
	Example: `  gatewise topic set graphs --confidence 4 --percent 60
  gatewise topic set graphs --notes "redo Dijkstra proofs"`,
	Args: cobra.ExactArgs(1),
	RunE: runTopicSet,
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every topic with progress",
	Args:  cobra.NoArgs,
	RunE:  runTopicList,
}

var (
	topicStatus     string
	topicConfidence int
	topicPercent    int
	topicNotes      string
	topicMinutes    int
	topicBookmark   bool
)

func init() {
	topicSetCmd.Flags().StringVar(&topicStatus, "status", "", "Status: not-started, in-progress, completed or revised")
	topicSetCmd.Flags().IntVar(&topicConfidence, "confidence", 0, "Confidence from 1 to 5")
	topicSetCmd.Flags().IntVar(&topicPercent, "percent", 0, "Completion percentage from 0 to 100")
	topicSetCmd.Flags().StringVar(&topicNotes, "notes", "", "Free-form notes")
	topicSetCmd.Flags().IntVar(&topicMinutes, "minutes", 0, "Total minutes spent on the topic")
	topicSetCmd.Flags().BoolVar(&topicBookmark, "bookmark", false, "Bookmark the topic (--bookmark=false to clear)")

	topicCmd.AddCommand(topicStartCmd)
	topicCmd.AddCommand(topicCompleteCmd)
	topicCmd.AddCommand(topicReviseCmd)
	topicCmd.AddCommand(topicResetCmd)
	topicCmd.AddCommand(topicSetCmd)
	topicCmd.AddCommand(topicListCmd)
}

func runTopicStart(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic start")
	if err != nil {
		return err
	}
	w.Progress.MarkTopicInProgress(args[0])
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "▶ %s is in progress\n", args[0])
	return nil
}

func runTopicComplete(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic complete")
	if err != nil {
		return err
	}
	w.Progress.MarkTopicCompleted(args[0])

	completed := w.Progress.TotalTopicsCompleted()
	telemetryClient.TrackTopicCompleted(w.Progress.CurrentBranch(), completed)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s completed (%d topics done)\n",
		styles.good.Render("✓"), args[0], completed)
	return nil
}

func runTopicRevise(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic revise")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, ok := w.Progress.TopicProgress(args[0]); !ok {
		_, _ = fmt.Fprintf(out, "%s has no progress yet, nothing to revise.\n", args[0])
		return nil
	}
	w.Progress.MarkTopicRevised(args[0])

	p, _ := w.Progress.TopicProgress(args[0])
	_, _ = fmt.Fprintf(out, "↻ %s revised (%d revisions)\n", args[0], p.RevisionCount)
	return nil
}

func runTopicReset(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic reset")
	if err != nil {
		return err
	}
	w.Progress.ResetTopicProgress(args[0])
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Progress on %s cleared\n", args[0])
	return nil
}

func runTopicSet(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic set")
	if err != nil {
		return err
	}

	var update models.ProgressUpdate
	flags := cmd.Flags()
	if flags.Changed("status") {
		status := models.TopicStatus(strings.ToLower(topicStatus))
		if !status.Valid() {
			return trackCLIError("topic set", fmt.Errorf("invalid status %q (want not-started, in-progress, completed or revised)", topicStatus))
		}
		update.Status = &status
	}
	if flags.Changed("confidence") {
		update.Confidence = models.Ptr(topicConfidence)
	}
	if flags.Changed("percent") {
		update.CompletionPercentage = models.Ptr(topicPercent)
	}
	if flags.Changed("notes") {
		update.Notes = models.Ptr(topicNotes)
	}
	if flags.Changed("minutes") {
		update.TimeSpent = models.Ptr(topicMinutes)
	}
	if flags.Changed("bookmark") {
		update.Bookmarked = models.Ptr(topicBookmark)
	}
	if update == (models.ProgressUpdate{}) {
		return trackCLIError("topic set", fmt.Errorf("invalid invocation: pass at least one of --status, --confidence, --percent, --notes, --minutes or --bookmark"))
	}

	w.Progress.UpdateTopicProgress(args[0], update)

	p, _ := w.Progress.TopicProgress(args[0])
	printTopic(cmd.OutOrStdout(), p)
	return nil
}

func runTopicList(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("topic list")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	topics := w.Progress.Snapshot().UserProgress
	if len(topics) == 0 {
		_, _ = fmt.Fprintln(out, "No topics tracked yet. Start one with `gatewise topic start <id>`.")
		return nil
	}

	ids := make([]string, 0, len(topics))
	for id := range topics {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		printTopic(out, topics[id])
	}
	return nil
}

func printTopic(out io.Writer, p models.UserProgress) {
	mark := " "
	if p.Bookmarked {
		mark = "★"
	}
	_, _ = fmt.Fprintf(out, "%s %-28s %-12s %3d%%  confidence %d/5  %s  revisions %d\n",
		mark,
		p.TopicID,
		statusStyle(p.Status).Render(string(p.Status)),
		p.CompletionPercentage,
		p.Confidence,
		formatMinutes(p.TimeSpent),
		p.RevisionCount,
	)
	if p.Notes != "" {
		_, _ = fmt.Fprintf(out, "  %s\n", styles.muted.Render(p.Notes))
	}
}

func statusStyle(s models.TopicStatus) lipgloss.Style {
	switch s {
	case models.StatusCompleted:
		return styles.good
	case models.StatusRevised:
		return styles.title
	case models.StatusInProgress:
		return styles.warn
	default:
		return styles.muted
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
