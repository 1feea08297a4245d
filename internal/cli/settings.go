package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change preferences",
	Long: `View and change preferences.

Subcommands:
  show                   Print every setting
  theme <mode>           Set the colour theme (light, dark or system)
  notify <on|off>        Turn notifications on or off
  study                  Change study preferences
  pyq                    Change paper catalog and cache preferences
  source add <origin>    Allow downloads from an extra mirror origin
  source remove <origin> Stop allowing a mirror origin
  reset                  Restore every default`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <light|dark|system>",
	Short:     "Set the colour theme",
	Long:      `Set the colour theme. "system" follows your terminal's background.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.ThemeLight), string(models.ThemeDark), string(models.ThemeSystem)},
	RunE:      runSettingsTheme,
}

var settingsNotifyCmd = &cobra.Command{
	Use:       "notify <on|off>",
	Short:     "Turn notifications on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runSettingsNotify,
}

var settingsStudyCmd = &cobra.Command{
	Use:     "study",
	Short:   "Change study preferences",
	Example: `  gatewise settings study --daily-goal 6 --break 10`,
	Args:    cobra.NoArgs,
	RunE:    runSettingsStudy,
}

var settingsPyqCmd = &cobra.Command{
	Use:     "pyq",
	Short:   "Change paper catalog and cache preferences",
	Example: `  gatewise settings pyq --cache=false`,
	Args:    cobra.NoArgs,
	RunE:    runSettingsPyq,
}

var settingsSourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage allowed mirror origins",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var settingsSourceAddCmd = &cobra.Command{
	Use:   "add <origin>",
	Short: "Allow downloads from an extra mirror origin",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSourceAdd,
}

var settingsSourceRemoveCmd = &cobra.Command{
	Use:   "remove <origin>",
	Short: "Stop allowing a mirror origin",
	Long:  `Stop allowing a mirror origin. The origin must match exactly as listed by settings show.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSourceRemove,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every default",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var (
	studyHours      int
	studyBreak      int
	studyRevision   int
	studyDailyGoal  int
	studyAnimations bool

	pyqAutoUpdate   bool
	pyqRefreshMonth int
	pyqCache        bool
)

func init() {
	settingsStudyCmd.Flags().IntVar(&studyHours, "hours", 0, "Default study hours per day")
	settingsStudyCmd.Flags().IntVar(&studyBreak, "break", 0, "Break length in minutes")
	settingsStudyCmd.Flags().IntVar(&studyRevision, "revision-interval", 0, "Days between revisions")
	settingsStudyCmd.Flags().IntVar(&studyDailyGoal, "daily-goal", 0, "Daily goal in hours")
	settingsStudyCmd.Flags().BoolVar(&studyAnimations, "animations", true, "Show animations")

	settingsPyqCmd.Flags().BoolVar(&pyqAutoUpdate, "auto-update", true, "Check for new papers every year")
	settingsPyqCmd.Flags().IntVar(&pyqRefreshMonth, "refresh-month", 0, "Month of the yearly catalog refresh (1-12)")
	settingsPyqCmd.Flags().BoolVar(&pyqCache, "cache", true, "Keep downloaded papers in the local cache")

	settingsSourceCmd.AddCommand(settingsSourceAddCmd)
	settingsSourceCmd.AddCommand(settingsSourceRemoveCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsNotifyCmd)
	settingsCmd.AddCommand(settingsStudyCmd)
	settingsCmd.AddCommand(settingsPyqCmd)
	settingsCmd.AddCommand(settingsSourceCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings show")
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), w.Settings.Snapshot())
	return nil
}

func printSettings(out io.Writer, snap settings.Snapshot) {
	onOff := func(b bool) string {
		if b {
			return styles.good.Render("on")
		}
		return styles.muted.Render("off")
	}
	section := func(name string) {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.title.Render(name))
	}
	row := func(name string, value any) {
		_, _ = fmt.Fprintf(out, "  %-24s %v\n", styles.label.Render(name), value)
	}

	_, _ = fmt.Fprintf(out, "%s %s\n", styles.label.Render("Theme:"), snap.Theme)

	n := snap.Notifications
	section("Notifications")
	row("enabled", onOff(n.Enabled))
	row("study reminders", onOff(n.Active(n.StudyReminders)))
	row("revision alerts", onOff(n.Active(n.RevisionAlerts)))
	row("mock test reminders", onOff(n.Active(n.MockTestReminders)))
	row("break notifications", onOff(n.Active(n.BreakTimeNotifications)))
	row("weekly reports", onOff(n.Active(n.WeeklyReports)))
	row("progress updates", onOff(n.Active(n.ProgressUpdates)))

	p := snap.StudyPreferences
	section("Study")
	row("default hours", p.DefaultStudyHours)
	row("break (min)", p.BreakDuration)
	row("revision interval (days)", p.RevisionInterval)
	row("daily goal (h)", p.DailyGoal)
	row("animations", onOff(p.ShowAnimations))

	q := snap.PyqSettings
	section("Papers")
	row("auto update", onOff(q.AutoUpdate))
	row("refresh month", q.YearlyRefreshMonth)
	row("cache", onOff(q.CacheEnabled))
	row("allowed sources", strings.Join(q.AllowedSources, "\n"+strings.Repeat(" ", 27)))

	if snap.UI.LastUpdateCheck != nil {
		section("Catalog")
		row("last checked", snap.UI.LastUpdateCheck.Local().Format("2006-01-02 15:04"))
	}
}

func runSettingsTheme(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings theme")
	if err != nil {
		return err
	}
	theme := models.Theme(strings.ToLower(args[0]))
	if !theme.Valid() {
		return trackCLIError("settings theme", fmt.Errorf("invalid theme %q (want light, dark or system)", args[0]))
	}

	w.Settings.SetTheme(theme)
	telemetryClient.TrackSettingsChanged("theme")

	resolved := settings.ResolveTheme(theme, systemPrefersDark())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s (rendering %s)\n", styles.title.Render(string(theme)), resolved)
	return nil
}

func runSettingsNotify(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings notify")
	if err != nil {
		return err
	}

	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		enabled = true
	case "off", "false", "no":
	default:
		return trackCLIError("settings notify", fmt.Errorf("invalid value %q (want on or off)", args[0]))
	}

	w.Settings.UpdateNotificationSettings(models.NotificationUpdate{Enabled: models.Ptr(enabled)})
	telemetryClient.TrackSettingsChanged("notifications")

	if enabled {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Notifications on")
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Notifications off")
	}
	return nil
}

func runSettingsStudy(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings study")
	if err != nil {
		return err
	}

	var update models.StudyPreferencesUpdate
	flags := cmd.Flags()
	if flags.Changed("hours") {
		update.DefaultStudyHours = models.Ptr(studyHours)
	}
	if flags.Changed("break") {
		update.BreakDuration = models.Ptr(studyBreak)
	}
	if flags.Changed("revision-interval") {
		update.RevisionInterval = models.Ptr(studyRevision)
	}
	if flags.Changed("daily-goal") {
		update.DailyGoal = models.Ptr(studyDailyGoal)
	}
	if flags.Changed("animations") {
		update.ShowAnimations = models.Ptr(studyAnimations)
	}
	if update == (models.StudyPreferencesUpdate{}) {
		return cmd.Help()
	}

	w.Settings.UpdateStudyPreferences(update)
	telemetryClient.TrackSettingsChanged("study_preferences")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Study preferences updated")
	return nil
}

func runSettingsPyq(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings pyq")
	if err != nil {
		return err
	}

	var update models.PyqSettingsUpdate
	changed := false
	flags := cmd.Flags()
	if flags.Changed("auto-update") {
		update.AutoUpdate = models.Ptr(pyqAutoUpdate)
		changed = true
	}
	if flags.Changed("refresh-month") {
		update.YearlyRefreshMonth = models.Ptr(pyqRefreshMonth)
		changed = true
	}
	if flags.Changed("cache") {
		update.CacheEnabled = models.Ptr(pyqCache)
		changed = true
	}
	if !changed {
		return cmd.Help()
	}

	w.Settings.UpdatePyqSettings(update)
	telemetryClient.TrackSettingsChanged("pyq_settings")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Paper preferences updated")
	return nil
}

func runSettingsSourceAdd(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings source add")
	if err != nil {
		return err
	}
	origin := strings.TrimSpace(args[0])
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return trackCLIError("settings source add", fmt.Errorf("invalid origin %q (want http:// or https://)", args[0]))
	}

	w.Settings.AddAllowedSource(origin)
	telemetryClient.TrackSettingsChanged("allowed_sources")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Allowed %s\n", origin)
	return nil
}

func runSettingsSourceRemove(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings source remove")
	if err != nil {
		return err
	}
	before := len(w.Settings.Snapshot().PyqSettings.AllowedSources)
	w.Settings.RemoveAllowedSource(args[0])
	removed := before - len(w.Settings.Snapshot().PyqSettings.AllowedSources)

	if removed == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s was not in the allowed sources\n", args[0])
		return nil
	}
	telemetryClient.TrackSettingsChanged("allowed_sources")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	w, err := workspaceOrErr("settings reset")
	if err != nil {
		return err
	}
	w.Settings.ResetToDefaults()
	telemetryClient.TrackSettingsChanged("reset")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Settings restored to defaults")
	return nil
}
