// Package cli provides the command-line interface for gatewise.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/telemetry"
	"github.com/asteroid-belt/gatewise/internal/workspace"
	"github.com/asteroid-belt/gatewise/pkg/version"
)

var telemetryClient telemetry.Client

// ws is the open workspace every command reads and mutates.
var ws *workspace.Workspace

var commandStartTime time.Time

// errNoWorkspace is returned when a command runs before Execute wired a workspace.
var errNoWorkspace = errors.New("workspace not opened")

var rootCmd = &cobra.Command{
	Use:   "gatewise",
	Short: "GATE exam study tracker",
	Long: `GATE exam study tracker

Track syllabus topics, study sessions and streaks, and work through
previous-year question papers from the command line. All state is kept
locally under $XDG_DATA_HOME/gatewise (override with GATEWISE_HOME).
Set GATEWISE_SYLLABUS_TOPICS to the topic count of your branch syllabus to
measure overall progress against it.

Run without arguments to see your dashboard.

Telemetry:
  Telemetry is enabled by default, always anonymous, and will never track
  personal information, notes or topic names.

  Opt-out with:
  	GATEWISE_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runRoot,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "gatewise" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.CommandPath(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(pyqCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI with fang enhancements against an open workspace.
func Execute(ctx context.Context, w *workspace.Workspace, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc
	ws = w

	if ws != nil {
		applyTheme(ws.Settings.Theme())
		unsubscribe := ws.Settings.Subscribe(applyTheme)
		defer unsubscribe()

		telemetryClient.TrackAppStarted(ws.Config.Storage.Backend, ws.Progress.CurrentBranch() != "")
	}

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

func runRoot(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("gatewise")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if w.Settings.Snapshot().UI.ShowWelcomeModal {
		printWelcome(out)
		w.Settings.SetShowWelcomeModal(false)
		return nil
	}

	renderDashboard(out, w)
	return nil
}

func printWelcome(out io.Writer) {
	_, _ = fmt.Fprintln(out, styles.title.Render("Welcome to gatewise"))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Get started:")
	_, _ = fmt.Fprintln(out, "  gatewise branch CS               pick your GATE paper")
	_, _ = fmt.Fprintln(out, "  gatewise session start <topic>   start studying a topic")
	_, _ = fmt.Fprintln(out, "  gatewise pyq add papers.yaml     load a question paper catalog")
	_, _ = fmt.Fprintln(out, "  gatewise stats                   see how you are doing")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.muted.Render("This message is shown once. Run `gatewise --help` for every command."))
}

func workspaceOrErr(cmdName string) (*workspace.Workspace, error) {
	if ws == nil {
		return nil, trackCLIError(cmdName, errNoWorkspace)
	}
	return ws, nil
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "sqlite", "store closed", "workspace"):
		return "storage_error"
	case containsAny(errStr, "network", "timeout", "connection", "checksum"):
		return "network_error"
	case containsAny(errStr, "permission", "access denied"):
		return "permission_error"
	case containsAny(errStr, "not found", "does not exist", "not in catalog", "no such file"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format", "incompatible"):
		return "validation_error"
	case containsAny(errStr, "disabled"):
		return "disabled_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
