package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/models"
)

// now is the wall clock used to time sessions ended without an explicit length.
var now = time.Now

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start, pause and end study sessions",
	Long: `Start, pause and end study sessions.

Only one session runs at a time and it survives between invocations, so you
can start a session, close the terminal and end it later.

Subcommands:
  start <topic>     Start a session on a topic
  end [minutes]     End the session and credit the time
  pause             Pause the running session
  resume            Resume a paused session
  status            Show the current session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <topic>",
	Short: "Start a session on a topic",
	Long: `Start a study session on a topic. A session that is already running is
replaced without crediting its time.`,
	Example: `  gatewise session start graphs
  gatewise session start graphs --label "Graph algorithms"`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionStart,
}

var sessionEndCmd = &cobra.Command{
	Use:   "end [minutes]",
	Short: "End the session and credit the time",
	Long: `End the running session. The minutes studied are credited to the
session's topic (or --topic) and count towards your streak. When minutes is
omitted the time since the session started is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionEnd,
}

var sessionPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running session",
	Args:  cobra.NoArgs,
	RunE:  runSessionPause,
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused session",
	Args:  cobra.NoArgs,
	RunE:  runSessionResume,
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE:  runSessionStatus,
}

var (
	sessionLabel    string
	sessionEndTopic string
)

func init() {
	sessionStartCmd.Flags().StringVar(&sessionLabel, "label", "", "Display label for the recent-sessions list")
	sessionEndCmd.Flags().StringVar(&sessionEndTopic, "topic", "", "Credit the time to this topic instead of the session's")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionPauseCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("session start")
	if err != nil {
		return err
	}
	w.Progress.StartStudySession(models.SessionStart{
		TopicID:   args[0],
		Topic:     sessionLabel,
		StartTime: now(),
	})
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "▶ Studying %s. End with `gatewise session end`.\n", styles.title.Render(args[0]))
	return nil
}

func runSessionEnd(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("session end")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sess := w.Progress.Session()
	if !sess.IsActive || sess.StartTime == nil {
		_, _ = fmt.Fprintln(out, "No active session.")
		return nil
	}

	var minutes int
	if len(args) == 1 {
		minutes, err = strconv.Atoi(args[0])
		if err != nil || minutes < 0 {
			return trackCLIError("session end", fmt.Errorf("invalid minutes %q", args[0]))
		}
	} else {
		minutes = int(now().Sub(*sess.StartTime).Minutes())
	}

	w.Progress.EndStudySession(sessionEndTopic, minutes)

	streak := w.Progress.Streak()
	telemetryClient.TrackSessionEnded(minutes, streak.Current)

	topic := sess.TopicID
	if sessionEndTopic != "" {
		topic = sessionEndTopic
	}
	_, _ = fmt.Fprintf(out, "%s %s credited to %s. Streak: %d day(s) 🔥\n",
		styles.good.Render("✓"), formatMinutes(minutes), topic, streak.Current)
	return nil
}

func runSessionPause(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("session pause")
	if err != nil {
		return err
	}
	if w.Progress.Session().IsZero() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No session to pause.")
		return nil
	}
	w.Progress.PauseStudySession()
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "⏸ Session paused")
	return nil
}

func runSessionResume(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("session resume")
	if err != nil {
		return err
	}
	if w.Progress.Session().IsZero() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No session to resume.")
		return nil
	}
	w.Progress.ResumeStudySession()
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "▶ Session resumed")
	return nil
}

func runSessionStatus(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("session status")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sess := w.Progress.Session()
	switch {
	case sess.IsZero():
		_, _ = fmt.Fprintln(out, "No session.")
	case !sess.IsActive || sess.StartTime == nil:
		_, _ = fmt.Fprintf(out, "⏸ %s (paused)\n", sess.TopicID)
	default:
		elapsed := int(now().Sub(*sess.StartTime).Minutes())
		_, _ = fmt.Fprintf(out, "▶ %s for %s\n", sess.TopicID, formatMinutes(max(elapsed, 0)))
	}
	return nil
}
