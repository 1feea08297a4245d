package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/storage"
	"github.com/asteroid-belt/gatewise/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory, *testutil.RecordingLogger) {
	t.Helper()

	kv := storage.NewMemory()
	logger := &testutil.RecordingLogger{}
	s, err := Open(kv, WithLogger(logger))
	require.NoError(t, err)
	return s, kv, logger
}

func TestOpen_FirstRunDefaults(t *testing.T) {
	s, _, _ := newTestStore(t)

	snap := s.Snapshot()
	assert.Equal(t, models.DefaultAppSettings(), snap.AppSettings)
	assert.True(t, snap.UI.ShowWelcomeModal, "first run shows onboarding")
	assert.False(t, snap.UI.SidebarCollapsed)
	assert.Nil(t, snap.UI.LastUpdateCheck)
	assert.Equal(t, models.ThemeSystem, s.Theme())
}

func TestResetToDefaults_ClearsInterfaceState(t *testing.T) {
	s, kv, _ := newTestStore(t)
	s.SetTheme(models.ThemeDark)
	s.ToggleNotifications()
	s.UpdateStudyPreferences(models.StudyPreferencesUpdate{DailyGoal: models.Ptr(9)})
	s.AddAllowedSource("https://example.org")
	s.SetSidebarCollapsed(true)
	s.SetLastUpdateCheck(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	s.ResetToDefaults()

	snap := s.Snapshot()
	assert.Equal(t, models.DefaultAppSettings(), snap.AppSettings)
	assert.Equal(t, models.UIState{}, snap.UI)

	reopened, err := Open(kv)
	require.NoError(t, err)
	assert.Equal(t, models.UIState{}, reopened.Snapshot().UI, "the cleared state is persisted")
}

func TestAllowedSources_ListSemantics(t *testing.T) {
	s, _, _ := newTestStore(t)
	const extra = "https://gate.iitr.ac.in"

	s.AddAllowedSource(extra)
	s.AddAllowedSource(extra)

	sources := s.Snapshot().PyqSettings.AllowedSources
	assert.Len(t, sources, len(models.DefaultAllowedSources)+2, "duplicates are kept")

	s.RemoveAllowedSource("https://gate.iitr.ac.in/")
	assert.Len(t, s.Snapshot().PyqSettings.AllowedSources, len(models.DefaultAllowedSources)+2,
		"removal matches the exact string")

	s.RemoveAllowedSource(extra)
	assert.Equal(t, models.DefaultAllowedSources, s.Snapshot().PyqSettings.AllowedSources)
}

func TestUpdates_MergePartials(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.UpdateNotificationSettings(models.NotificationUpdate{WeeklyReports: models.Ptr(false)})
	s.UpdateStudyPreferences(models.StudyPreferencesUpdate{BreakDuration: models.Ptr(10)})
	s.UpdatePyqSettings(models.PyqSettingsUpdate{
		CacheEnabled:       models.Ptr(false),
		YearlyRefreshMonth: models.Ptr(14),
	})

	snap := s.Snapshot()
	assert.False(t, snap.Notifications.WeeklyReports)
	assert.True(t, snap.Notifications.StudyReminders)
	assert.Equal(t, 10, snap.StudyPreferences.BreakDuration)
	assert.Equal(t, 6, snap.StudyPreferences.DefaultStudyHours)
	assert.False(t, snap.PyqSettings.CacheEnabled)
	assert.True(t, snap.PyqSettings.AutoUpdate)
	assert.Equal(t, 12, snap.PyqSettings.YearlyRefreshMonth)
	assert.Equal(t, models.DefaultAllowedSources, snap.PyqSettings.AllowedSources)
}

func TestToggles(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.ToggleNotifications()
	assert.False(t, s.Snapshot().Notifications.Enabled)
	assert.False(t, s.Snapshot().Notifications.Active(s.Snapshot().Notifications.StudyReminders))

	s.ToggleSidebar()
	s.ToggleSidebar()
	assert.False(t, s.Snapshot().UI.SidebarCollapsed)

	s.SetShowWelcomeModal(false)
	assert.False(t, s.Snapshot().UI.ShowWelcomeModal)
}

func TestSetTheme_NotifiesSubscribers(t *testing.T) {
	s, _, _ := newTestStore(t)

	var got []models.Theme
	unsubscribe := s.Subscribe(func(theme models.Theme) {
		got = append(got, theme)
		assert.Equal(t, theme, s.Theme(), "the store is updated before subscribers run")
	})

	s.SetTheme(models.ThemeDark)
	s.SetTheme(models.ThemeLight)
	s.ResetToDefaults()
	s.ResetToDefaults()

	assert.Equal(t, []models.Theme{models.ThemeDark, models.ThemeLight, models.ThemeSystem}, got)

	unsubscribe()
	s.SetTheme(models.ThemeDark)
	assert.Len(t, got, 3)
}

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		theme      models.Theme
		systemDark bool
		want       models.Theme
	}{
		{models.ThemeLight, true, models.ThemeLight},
		{models.ThemeDark, false, models.ThemeDark},
		{models.ThemeSystem, true, models.ThemeDark},
		{models.ThemeSystem, false, models.ThemeLight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveTheme(tt.theme, tt.systemDark), "%s dark=%v", tt.theme, tt.systemDark)
	}
}

func TestOpen_RestoresPersistedSettings(t *testing.T) {
	s, kv, _ := newTestStore(t)
	check := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	s.SetTheme(models.ThemeLight)
	s.AddAllowedSource("https://gate.iitg.ac.in")
	s.SetShowWelcomeModal(false)
	s.SetLastUpdateCheck(check)

	reopened, err := Open(kv)
	require.NoError(t, err)

	snap := reopened.Snapshot()
	assert.Equal(t, models.ThemeLight, snap.Theme)
	assert.Contains(t, snap.PyqSettings.AllowedSources, "https://gate.iitg.ac.in")
	assert.False(t, snap.UI.ShowWelcomeModal)
	require.NotNil(t, snap.UI.LastUpdateCheck)
	assert.True(t, snap.UI.LastUpdateCheck.Equal(check))
}

func TestOpen_PartialDocumentKeepsDefaults(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Put(models.DocSettings, []byte(`{"theme":"dark","studyPreferences":{"dailyGoal":2}}`)))

	s, err := Open(kv)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, models.ThemeDark, snap.Theme)
	assert.Equal(t, 2, snap.StudyPreferences.DailyGoal)
	assert.Equal(t, 15, snap.StudyPreferences.BreakDuration)
	assert.True(t, snap.Notifications.Enabled)
	assert.True(t, snap.UI.ShowWelcomeModal)
}

func TestOpen_CorruptedDocumentUsesDefaults(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Put(models.DocSettings, []byte(`{"theme":`)))
	logger := &testutil.RecordingLogger{}

	s, err := Open(kv, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, models.DefaultAppSettings(), s.Snapshot().AppSettings)
	assert.Equal(t, 1, logger.Count())
}

type brokenKV struct{ storage.Memory }

func (*brokenKV) Put(string, []byte) error { return errors.New("read-only filesystem") }

func TestPersistFailure_IsLogged(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	s, err := Open(&brokenKV{}, WithLogger(logger))
	require.NoError(t, err)

	s.SetTheme(models.ThemeDark)

	assert.Equal(t, models.ThemeDark, s.Theme())
	assert.Equal(t, 1, logger.Count())
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	s, _, _ := newTestStore(t)

	snap := s.Snapshot()
	snap.PyqSettings.AllowedSources[0] = "https://evil.example"

	assert.Equal(t, models.DefaultAllowedSources, s.Snapshot().PyqSettings.AllowedSources)
}
