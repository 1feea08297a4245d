package models

import "time"

// Theme is the user's presentation preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// NotificationSettings are the notification toggles. Enabled gates the rest.
type NotificationSettings struct {
	Enabled                bool `json:"enabled"`
	StudyReminders         bool `json:"studyReminders"`
	RevisionAlerts         bool `json:"revisionAlerts"`
	MockTestReminders      bool `json:"mockTestReminders"`
	BreakTimeNotifications bool `json:"breakTimeNotifications"`
	WeeklyReports          bool `json:"weeklyReports"`
	ProgressUpdates        bool `json:"progressUpdates"`
}

// NotificationUpdate is a partial NotificationSettings.
type NotificationUpdate struct {
	Enabled                *bool
	StudyReminders         *bool
	RevisionAlerts         *bool
	MockTestReminders      *bool
	BreakTimeNotifications *bool
	WeeklyReports          *bool
	ProgressUpdates        *bool
}

// Apply merges u over n.
func (u NotificationUpdate) Apply(n NotificationSettings) NotificationSettings {
	setBool(&n.Enabled, u.Enabled)
	setBool(&n.StudyReminders, u.StudyReminders)
	setBool(&n.RevisionAlerts, u.RevisionAlerts)
	setBool(&n.MockTestReminders, u.MockTestReminders)
	setBool(&n.BreakTimeNotifications, u.BreakTimeNotifications)
	setBool(&n.WeeklyReports, u.WeeklyReports)
	setBool(&n.ProgressUpdates, u.ProgressUpdates)
	return n
}

// Active reports whether the named toggle is on and notifications are enabled.
func (n NotificationSettings) Active(toggle bool) bool {
	return n.Enabled && toggle
}

// StudyPreferences are the user's study goals.
type StudyPreferences struct {
	DefaultStudyHours int  `json:"defaultStudyHours"`
	BreakDuration     int  `json:"breakDuration"`     // minutes
	RevisionInterval  int  `json:"revisionInterval"`  // days
	DailyGoal         int  `json:"dailyGoal"`         // hours
	ShowAnimations    bool `json:"showAnimations"`
}

// StudyPreferencesUpdate is a partial StudyPreferences.
type StudyPreferencesUpdate struct {
	DefaultStudyHours *int
	BreakDuration     *int
	RevisionInterval  *int
	DailyGoal         *int
	ShowAnimations    *bool
}

// Apply merges u over p.
func (u StudyPreferencesUpdate) Apply(p StudyPreferences) StudyPreferences {
	setInt(&p.DefaultStudyHours, u.DefaultStudyHours)
	setInt(&p.BreakDuration, u.BreakDuration)
	setInt(&p.RevisionInterval, u.RevisionInterval)
	setInt(&p.DailyGoal, u.DailyGoal)
	setBool(&p.ShowAnimations, u.ShowAnimations)
	return p
}

// PyqSettings control the paper catalog and its cache.
type PyqSettings struct {
	AutoUpdate         bool     `json:"autoUpdate"`
	AllowedSources     []string `json:"allowedSources"`
	YearlyRefreshMonth int      `json:"yearlyRefreshMonth"` // 1-12
	CacheEnabled       bool     `json:"cacheEnabled"`
}

// PyqSettingsUpdate is a partial PyqSettings. A non-nil AllowedSources
// replaces the whole list.
type PyqSettingsUpdate struct {
	AutoUpdate         *bool
	AllowedSources     []string
	YearlyRefreshMonth *int
	CacheEnabled       *bool
}

// Apply merges u over p. The refresh month is clamped to 1-12.
func (u PyqSettingsUpdate) Apply(p PyqSettings) PyqSettings {
	setBool(&p.AutoUpdate, u.AutoUpdate)
	if u.AllowedSources != nil {
		p.AllowedSources = append([]string(nil), u.AllowedSources...)
	}
	if u.YearlyRefreshMonth != nil {
		p.YearlyRefreshMonth = clamp(*u.YearlyRefreshMonth, 1, 12)
	}
	setBool(&p.CacheEnabled, u.CacheEnabled)
	return p
}

// AppSettings is the full preference set.
type AppSettings struct {
	Theme            Theme                `json:"theme"`
	Notifications    NotificationSettings `json:"notifications"`
	StudyPreferences StudyPreferences     `json:"studyPreferences"`
	PyqSettings      PyqSettings          `json:"pyqSettings"`
}

// UIState holds transient interface flags that are still persisted.
type UIState struct {
	SidebarCollapsed bool       `json:"sidebarCollapsed"`
	ShowWelcomeModal bool       `json:"showWelcomeModal"`
	LastUpdateCheck  *time.Time `json:"lastUpdateCheck"`
}

// DefaultAllowedSources are the official GATE organising-institute origins.
var DefaultAllowedSources = []string{
	"https://gate.iitk.ac.in",
	"https://gate.iitm.ac.in",
	"https://gate.iitb.ac.in",
}

// DefaultAppSettings returns the first-run preference set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme: ThemeSystem,
		Notifications: NotificationSettings{
			Enabled:                true,
			StudyReminders:         true,
			RevisionAlerts:         true,
			MockTestReminders:      true,
			BreakTimeNotifications: true,
			WeeklyReports:          true,
			ProgressUpdates:        true,
		},
		StudyPreferences: StudyPreferences{
			DefaultStudyHours: 6,
			BreakDuration:     15,
			RevisionInterval:  7,
			DailyGoal:         4,
			ShowAnimations:    true,
		},
		PyqSettings: PyqSettings{
			AutoUpdate:         true,
			AllowedSources:     append([]string(nil), DefaultAllowedSources...),
			YearlyRefreshMonth: 3,
			CacheEnabled:       true,
		},
	}
}

// Clone returns a deep copy of s.
func (s AppSettings) Clone() AppSettings {
	s.PyqSettings.AllowedSources = append([]string(nil), s.PyqSettings.AllowedSources...)
	return s
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
