package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/fetch"
	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/pyq"
	"github.com/asteroid-belt/gatewise/internal/workspace"
)

var pyqCmd = &cobra.Command{
	Use:   "pyq",
	Short: "Browse and work through previous-year question papers",
	Long: `Browse and work through previous-year question papers.

Subcommands:
  add <file.yaml>    Load papers from a catalog file
  list               List papers matching the saved filters
  view <grid|list>   Choose how papers are listed
  show <id>          Show one paper and your work on it
  solve <id>         Record an attempt
  note <id>          Attach notes or time spent
  bookmark <id>      Toggle a bookmark
  flag <id>          Toggle the revision flag
  remove <id>        Remove a paper from the catalog
  stats              Summarise your work
  download [ids...]  Download papers into the local cache
  uncache <id>       Delete a downloaded paper`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var pyqAddCmd = &cobra.Command{
	Use:   "add <file.yaml>",
	Short: "Load papers from a catalog file",
	Long: `Load papers from a YAML catalog. Papers with an id already in the catalog
are replaced. Ids default to year-branch-paperCode.

  papers:
    - year: 2024
      branch: CS
      paperCode: CS1
      officialPaperUrl: https://gate.iitk.ac.in/papers/cs1.pdf
      topics: [graphs, dp]`,
	Args: cobra.ExactArgs(1),
	RunE: runPyqAdd,
}

var pyqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers matching the saved filters",
	Long: `List papers. Filter flags are saved and apply to later listings until
they are changed or cleared with --clear.`,
	Example: `  gatewise pyq list --branch CS --year 2024
  gatewise pyq list --status not-started
  gatewise pyq list --clear`,
	Args: cobra.NoArgs,
	RunE: runPyqList,
}

var pyqViewCmd = &cobra.Command{
	Use:       "view <grid|list>",
	Short:     "Choose how papers are listed",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.ViewGrid), string(models.ViewList)},
	RunE:      runPyqView,
}

var pyqShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one paper and your work on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPyqShow,
}

var pyqRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a paper from the catalog",
	Long: `Remove a paper from the catalog. Your attempts and the cached file are
kept unless --cascade is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runPyqRemove,
}

var pyqStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise your work on the papers",
	Args:  cobra.NoArgs,
	RunE:  runPyqStats,
}

var (
	listYear       int
	listBranch     string
	listQuery      string
	listTopic      string
	listStatus     string
	listDifficulty string
	listSet        string
	listClear      bool

	removeCascade bool
)

func init() {
	pyqListCmd.Flags().IntVar(&listYear, "year", 0, "Only papers from this year (0 for any)")
	pyqListCmd.Flags().StringVar(&listBranch, "branch", "", "Only papers for this branch")
	pyqListCmd.Flags().StringVarP(&listQuery, "q", "q", "", "Free-text search over id, paper code, branch and topics")
	pyqListCmd.Flags().StringVar(&listTopic, "topic", "", "Only papers tagged with this topic")
	pyqListCmd.Flags().StringVar(&listStatus, "status", "", "Only papers in this state: not-started, in-progress, completed or revised")
	pyqListCmd.Flags().StringVar(&listDifficulty, "difficulty", "", "Only papers of this difficulty: easy, medium or hard")
	pyqListCmd.Flags().StringVar(&listSet, "set", "", "Only papers from this session (Shift1, Shift2, ...)")
	pyqListCmd.Flags().BoolVar(&listClear, "clear", false, "Clear saved filters before applying any given ones")

	pyqRemoveCmd.Flags().BoolVar(&removeCascade, "cascade", false, "Also delete your attempts and the cached file")

	pyqCmd.AddCommand(pyqAddCmd)
	pyqCmd.AddCommand(pyqListCmd)
	pyqCmd.AddCommand(pyqViewCmd)
	pyqCmd.AddCommand(pyqShowCmd)
	pyqCmd.AddCommand(pyqRemoveCmd)
	pyqCmd.AddCommand(pyqStatsCmd)
}

func runPyqAdd(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq add")
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return trackCLIError("pyq add", fmt.Errorf("open catalog: %w", err))
	}
	defer func() { _ = f.Close() }()

	items, err := pyq.LoadCatalog(f)
	if err != nil {
		return trackCLIError("pyq add", err)
	}

	w.Pyq.UpsertMany(items)
	t := now()
	w.Pyq.SetLastRefreshAt(t.UTC().Format(time.RFC3339))
	w.Pyq.SetLastUpdateCheck(t)
	w.Settings.SetLastUpdateCheck(t)
	telemetryClient.TrackCatalogImported(len(items))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Loaded %d paper(s), %d in catalog\n",
		styles.good.Render("✓"), len(items), len(w.Pyq.Items()))
	return nil
}

func runPyqList(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq list")
	if err != nil {
		return err
	}

	update, err := filtersFromFlags(cmd)
	if err != nil {
		return trackCLIError("pyq list", err)
	}
	if listClear {
		w.Pyq.ClearFilters()
	}
	if update != (models.FiltersUpdate{}) {
		w.Pyq.SetFilters(update)
	}

	out := cmd.OutOrStdout()
	items := w.Pyq.Filtered()
	if len(items) == 0 {
		if len(w.Pyq.Items()) == 0 {
			_, _ = fmt.Fprintln(out, "The catalog is empty. Load papers with `gatewise pyq add <file.yaml>`.")
		} else {
			_, _ = fmt.Fprintln(out, "No papers match the current filters. Use --clear to reset them.")
		}
		return nil
	}

	if w.Pyq.ViewMode() == models.ViewGrid {
		printPyqGrid(out, items)
	} else {
		for _, item := range items {
			printPyqLine(out, w, item)
		}
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", styles.muted.Render(fmt.Sprintf("%d of %d papers", len(items), len(w.Pyq.Items()))))
	return nil
}

func filtersFromFlags(cmd *cobra.Command) (models.FiltersUpdate, error) {
	var u models.FiltersUpdate
	flags := cmd.Flags()
	if flags.Changed("year") {
		u.Year = models.Ptr(listYear)
	}
	if flags.Changed("branch") {
		u.Branch = models.Ptr(strings.ToUpper(listBranch))
	}
	if flags.Changed("q") {
		u.Q = models.Ptr(listQuery)
	}
	if flags.Changed("topic") {
		u.Topic = models.Ptr(listTopic)
	}
	if flags.Changed("status") {
		status := models.TopicStatus(strings.ToLower(listStatus))
		if status != "" && !status.Valid() {
			return u, fmt.Errorf("invalid status %q", listStatus)
		}
		u.Status = &status
	}
	if flags.Changed("difficulty") {
		d := models.Difficulty(strings.ToLower(listDifficulty))
		switch d {
		case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return u, fmt.Errorf("invalid difficulty %q", listDifficulty)
		}
		u.Difficulty = &d
	}
	if flags.Changed("set") {
		u.Set = models.Ptr(listSet)
	}
	return u, nil
}

func printPyqLine(out io.Writer, w *workspace.Workspace, item models.PyqItem) {
	var marks []string
	if st, ok := w.Pyq.UserState(item.ID); ok {
		if st.Solved {
			switch {
			case st.Correct == nil:
				marks = append(marks, styles.good.Render("solved"))
			case *st.Correct:
				marks = append(marks, styles.good.Render("✓ correct"))
			default:
				marks = append(marks, styles.bad.Render("✗ wrong"))
			}
		} else if st.Attempts > 0 {
			marks = append(marks, styles.warn.Render("attempted"))
		}
		if st.Bookmarked {
			marks = append(marks, "★")
		}
		if st.FlaggedForRevision {
			marks = append(marks, styles.warn.Render("⚑ revise"))
		}
	}
	if w.Pyq.IsCached(item.ID) {
		marks = append(marks, styles.muted.Render("cached"))
	}

	_, _ = fmt.Fprintf(out, "%-18s %d  %-3s %-6s %-18s %s\n",
		item.ID, item.Year, item.Branch, item.PaperCode,
		styles.muted.Render(strings.Join(item.Topics, ",")),
		strings.Join(marks, "  "))
}

func printPyqGrid(out io.Writer, items []models.PyqItem) {
	const columns = 4
	for i, item := range items {
		_, _ = fmt.Fprintf(out, "%-20s", item.ID)
		if (i+1)%columns == 0 || i == len(items)-1 {
			_, _ = fmt.Fprintln(out)
		}
	}
}

func runPyqView(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq view")
	if err != nil {
		return err
	}
	mode := models.ViewMode(strings.ToLower(args[0]))
	if mode != models.ViewGrid && mode != models.ViewList {
		return trackCLIError("pyq view", fmt.Errorf("invalid view mode %q (want grid or list)", args[0]))
	}
	w.Pyq.SetViewMode(mode)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Papers will be listed as a %s\n", mode)
	return nil
}

func runPyqShow(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq show")
	if err != nil {
		return err
	}
	item, ok := w.Pyq.Item(args[0])
	if !ok {
		return trackCLIError("pyq show", fmt.Errorf("paper %s not found", args[0]))
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "%s\n", styles.title.Render(item.ID))
	_, _ = fmt.Fprintf(out, "  %s %d %s %s %s\n", styles.label.Render("Paper:"), item.Year, item.Branch, item.PaperCode, item.Session)
	_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Official:"), item.OfficialPaperURL)
	if item.OfficialAnswerKeyURL != "" {
		_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Answer key:"), item.OfficialAnswerKeyURL)
	}
	for _, m := range item.Mirrors {
		_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Mirror:"), m.Paper)
	}
	if len(item.Topics) > 0 {
		_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Topics:"), strings.Join(item.Topics, ", "))
	}
	if w.Pyq.IsCached(item.ID) {
		_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Cached:"), fetch.PaperPath(w.Paths.Papers, item.ID))
	}

	if st, ok := w.Pyq.UserState(item.ID); ok {
		verdict := "unknown"
		switch {
		case st.Correct == nil:
		case *st.Correct:
			verdict = "correct"
		default:
			verdict = "wrong"
		}
		_, _ = fmt.Fprintf(out, "  %s solved=%v verdict=%s attempts=%d bookmarked=%v flagged=%v\n",
			styles.label.Render("Your work:"), st.Solved, verdict, st.Attempts, st.Bookmarked, st.FlaggedForRevision)
		if st.TimeSpentMin > 0 {
			_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Time:"), formatMinutes(st.TimeSpentMin))
		}
		if st.Notes != "" {
			_, _ = fmt.Fprintf(out, "  %s %s\n", styles.label.Render("Notes:"), st.Notes)
		}
	}
	return nil
}

func runPyqRemove(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq remove")
	if err != nil {
		return err
	}
	id := args[0]
	if _, ok := w.Pyq.Item(id); !ok {
		return trackCLIError("pyq remove", fmt.Errorf("paper %s not found", id))
	}

	if !removeCascade {
		w.Pyq.RemoveItem(id)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the catalog\n", id)
		return nil
	}

	w.Pyq.BulkDelete([]string{id})
	if err := os.Remove(fetch.PaperPath(w.Paths.Papers, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return trackCLIError("pyq remove", fmt.Errorf("delete cached paper: %w", err))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s with its attempts and cached file\n", id)
	return nil
}

func runPyqStats(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("pyq stats")
	if err != nil {
		return err
	}
	st := w.Pyq.GetStatistics()
	out := cmd.OutOrStdout()

	bar := NewProgressBar(st.Total, 30)
	bar.Update(st.Solved, "solved")
	if line := bar.Render(); line != "" {
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = fmt.Fprintf(out, "%s %d\n", styles.label.Render("Papers:"), st.Total)
	_, _ = fmt.Fprintf(out, "%s %d\n", styles.label.Render("Solved:"), st.Solved)
	_, _ = fmt.Fprintf(out, "%s %.2f%%\n", styles.label.Render("Accuracy:"), st.Accuracy)
	_, _ = fmt.Fprintf(out, "%s %d\n", styles.label.Render("Bookmarked:"), st.Bookmarked)
	_, _ = fmt.Fprintf(out, "%s %d\n", styles.label.Render("Flagged:"), st.Flagged)
	_, _ = fmt.Fprintf(out, "%s %d\n", styles.label.Render("Cached:"), st.Cached)
	return nil
}
