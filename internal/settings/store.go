// Package settings implements the user preference store: theme,
// notifications, study preferences, PYQ source settings and a few persisted
// interface flags.
package settings

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/asteroid-belt/gatewise/internal/log"
	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/storage"
)

// Logger receives failures that are not returned to callers.
type Logger interface {
	Errorf(format string, args ...any)
}

// Store owns the settings. All methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	logger Logger

	settings models.AppSettings
	ui       models.UIState

	subMu       sync.Mutex
	subscribers map[int]func(models.Theme)
	nextSubID   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the global logger.
func WithLogger(l Logger) Option {
	return func(s *Store) { s.logger = l }
}

type document struct {
	Theme            models.Theme                `json:"theme"`
	Notifications    models.NotificationSettings `json:"notifications"`
	StudyPreferences models.StudyPreferences     `json:"studyPreferences"`
	PyqSettings      models.PyqSettings          `json:"pyqSettings"`
	SidebarCollapsed bool                        `json:"sidebarCollapsed"`
	ShowWelcomeModal bool                        `json:"showWelcomeModal"`
	LastUpdateCheck  *time.Time                  `json:"lastUpdateCheck"`
}

// Open creates a store and restores it from kv. Fields missing from the
// stored document keep their defaults.
func Open(kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:          kv,
		logger:      log.Default(),
		settings:    models.DefaultAppSettings(),
		ui:          models.UIState{ShowWelcomeModal: true},
		subscribers: make(map[int]func(models.Theme)),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(models.DocSettings)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return s, nil
	}

	doc := s.documentLocked()
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Errorf("settings document is corrupted, using defaults: %v", err)
		return s, nil
	}
	if !doc.Theme.Valid() {
		doc.Theme = models.ThemeSystem
	}
	if doc.PyqSettings.AllowedSources == nil {
		doc.PyqSettings.AllowedSources = []string{}
	}
	s.settings = models.AppSettings{
		Theme:            doc.Theme,
		Notifications:    doc.Notifications,
		StudyPreferences: doc.StudyPreferences,
		PyqSettings:      doc.PyqSettings,
	}
	s.ui = models.UIState{
		SidebarCollapsed: doc.SidebarCollapsed,
		ShowWelcomeModal: doc.ShowWelcomeModal,
		LastUpdateCheck:  doc.LastUpdateCheck,
	}
	return s, nil
}

func (s *Store) documentLocked() document {
	return document{
		Theme:            s.settings.Theme,
		Notifications:    s.settings.Notifications,
		StudyPreferences: s.settings.StudyPreferences,
		PyqSettings:      s.settings.PyqSettings,
		SidebarCollapsed: s.ui.SidebarCollapsed,
		ShowWelcomeModal: s.ui.ShowWelcomeModal,
		LastUpdateCheck:  s.ui.LastUpdateCheck,
	}
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(s.documentLocked())
	if err != nil {
		s.logger.Errorf("marshal settings: %v", err)
		return
	}
	if err := s.kv.Put(models.DocSettings, data); err != nil {
		s.logger.Errorf("persist settings: %v", err)
	}
}

// Snapshot is a point-in-time copy of the settings and interface flags.
type Snapshot struct {
	models.AppSettings
	UI models.UIState
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ui := s.ui
	if ui.LastUpdateCheck != nil {
		t := *ui.LastUpdateCheck
		ui.LastUpdateCheck = &t
	}
	return Snapshot{AppSettings: s.settings.Clone(), UI: ui}
}

// Theme returns the stored theme preference.
func (s *Store) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Theme
}

// SetTheme stores theme and notifies subscribers. Applying it to the
// interface is left to them; see ResolveTheme.
func (s *Store) SetTheme(theme models.Theme) {
	s.mu.Lock()
	s.settings.Theme = theme
	s.persistLocked()
	s.mu.Unlock()

	s.emit(theme)
}

// ToggleNotifications flips the master notification switch.
func (s *Store) ToggleNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Notifications.Enabled = !s.settings.Notifications.Enabled
	s.persistLocked()
}

// UpdateNotificationSettings merges update into the notification toggles.
func (s *Store) UpdateNotificationSettings(update models.NotificationUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Notifications = update.Apply(s.settings.Notifications)
	s.persistLocked()
}

// UpdateStudyPreferences merges update into the study preferences.
func (s *Store) UpdateStudyPreferences(update models.StudyPreferencesUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.StudyPreferences = update.Apply(s.settings.StudyPreferences)
	s.persistLocked()
}

// UpdatePyqSettings merges update into the PYQ settings.
func (s *Store) UpdatePyqSettings(update models.PyqSettingsUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.PyqSettings = update.Apply(s.settings.PyqSettings)
	s.persistLocked()
}

// AddAllowedSource appends origin to the allowed sources. Duplicates are kept.
func (s *Store) AddAllowedSource(origin string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.PyqSettings.AllowedSources = append(s.settings.PyqSettings.AllowedSources, origin)
	s.persistLocked()
}

// RemoveAllowedSource removes every entry equal to origin.
func (s *Store) RemoveAllowedSource(origin string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.PyqSettings.AllowedSources = slices.DeleteFunc(
		s.settings.PyqSettings.AllowedSources,
		func(src string) bool { return src == origin },
	)
	s.persistLocked()
}

// ToggleSidebar flips the sidebar state.
func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.SidebarCollapsed = !s.ui.SidebarCollapsed
	s.persistLocked()
}

// SetSidebarCollapsed sets the sidebar state.
func (s *Store) SetSidebarCollapsed(collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.SidebarCollapsed = collapsed
	s.persistLocked()
}

// SetShowWelcomeModal sets whether onboarding is shown.
func (s *Store) SetShowWelcomeModal(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.ShowWelcomeModal = show
	s.persistLocked()
}

// SetLastUpdateCheck records when updates were last checked for.
func (s *Store) SetLastUpdateCheck(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.LastUpdateCheck = &t
	s.persistLocked()
}

// ResetToDefaults restores every preference and clears the interface state.
// The welcome modal stays hidden so a reset does not replay onboarding.
func (s *Store) ResetToDefaults() {
	s.mu.Lock()
	prev := s.settings.Theme
	s.settings = models.DefaultAppSettings()
	s.ui = models.UIState{ShowWelcomeModal: false}
	s.persistLocked()
	theme := s.settings.Theme
	s.mu.Unlock()

	if theme != prev {
		s.emit(theme)
	}
}
