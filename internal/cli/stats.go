package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/workspace"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your study dashboard",
	Long: `Show overall progress, time studied, your streak and the most
recent sessions.`,
	Example: `  gatewise stats
  gatewise stats --weekly-goal 25`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsWeeklyGoal int

func init() {
	statsCmd.Flags().IntVar(&statsWeeklyGoal, "weekly-goal", 0, "Set the weekly goal in hours before showing the dashboard")
}

func runStats(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("stats")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("weekly-goal") {
		w.Progress.SetWeeklyGoal(statsWeeklyGoal)
	}
	w.Progress.CalculateStatistics()

	renderDashboard(cmd.OutOrStdout(), w)
	return nil
}

func renderDashboard(out io.Writer, w *workspace.Workspace) {
	snap := w.Progress.Snapshot()
	stats := snap.Stats

	branch := snap.CurrentBranch
	if branch == "" {
		branch = "no branch"
	}
	_, _ = fmt.Fprintf(out, "%s %s\n\n", styles.title.Render("GATE preparation"), styles.muted.Render("("+branch+")"))

	bar := NewProgressBar(100, 30)
	scope := "tracked topics"
	if w.Config.Study.SyllabusTopics > 0 {
		scope = "syllabus"
	}
	bar.Update(stats.TotalProgress, fmt.Sprintf("%d%% of %s", stats.TotalProgress, scope))
	_, _ = fmt.Fprintln(out, bar.Render())
	_, _ = fmt.Fprintf(out, "%s %d of %d topics completed\n",
		styles.label.Render("Topics:"), stats.CompletedTopics, stats.TotalTopics)
	_, _ = fmt.Fprintf(out, "%s %s total, %s this week (goal %dh)\n",
		styles.label.Render("Time:"), formatMinutes(stats.TotalTimeStudied),
		formatMinutes(stats.WeeklyTimeStudied), stats.WeeklyGoal)
	_, _ = fmt.Fprintf(out, "%s %d day(s) 🔥  longest %d\n",
		styles.label.Render("Streak:"), snap.Streak.Current, snap.Streak.Longest)

	if !snap.Session.IsZero() {
		state := "running"
		if !snap.Session.IsActive {
			state = "paused"
		}
		_, _ = fmt.Fprintf(out, "%s %s (%s)\n", styles.label.Render("Session:"), snap.Session.TopicID, state)
	}

	if len(stats.RecentSessions) > 0 {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.title.Render("Recent sessions"))
		for _, r := range stats.RecentSessions {
			_, _ = fmt.Fprintf(out, "  %s  %-28s %s\n",
				styles.muted.Render(r.Date.Local().Format("Jan 02 15:04")), r.Topic, formatMinutes(r.Duration))
		}
	}

	if len(snap.WeeklyProgress) > 0 {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.title.Render("This week"))
		for _, d := range snap.WeeklyProgress {
			hours := int(d.HoursStudied + 0.5)
			_, _ = fmt.Fprintf(out, "  %-4s %s %.1fh\n", d.Date, styles.label.Render(strings.Repeat("▇", hours)), d.HoursStudied)
		}
	}

	if len(snap.SubjectProgress) > 0 {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.title.Render("Subjects"))
		for _, sp := range snap.SubjectProgress {
			sb := NewProgressBar(100, 20)
			sb.Update(sp.Progress, sp.Name)
			_, _ = fmt.Fprintf(out, "  %s\n", sb.Render())
		}
	}
}
