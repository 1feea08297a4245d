package progress

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/pkg/version"
)

// exportDocument is the user-facing backup format.
type exportDocument struct {
	UserProgress         map[string]models.UserProgress `json:"userProgress"`
	TotalTimeSpent       int                            `json:"totalTimeSpent"`
	TotalTopicsCompleted int                            `json:"totalTopicsCompleted"`
	CurrentStreak        int                            `json:"currentStreak"`
	LongestStreak        int                            `json:"longestStreak"`
	LastStudyDate        *time.Time                     `json:"lastStudyDate"`
	ExportDate           time.Time                      `json:"exportDate"`
	Version              string                         `json:"version,omitempty"`
}

// ExportProgress serializes the ledger and counters to JSON.
func (s *Store) ExportProgress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.Marshal(exportDocument{
		UserProgress:         s.userProgress,
		TotalTimeSpent:       s.totalTimeSpent,
		TotalTopicsCompleted: s.totalTopicsCompleted,
		CurrentStreak:        s.streak.Current,
		LongestStreak:        s.streak.Longest,
		LastStudyDate:        s.streak.LastStudyDate,
		ExportDate:           s.now().UTC(),
		Version:              version.Version,
	})
	if err != nil {
		s.logger.Errorf("export progress: %v", err)
		return ""
	}
	return string(data)
}

// ImportProgress replaces the ledger and counters with an exported document.
// Missing fields become zero or empty. The saved totals are kept as written;
// the dashboard counters are recomputed from the imported ledger. A malformed or incompatible document
// is logged and leaves the state untouched; ok reports whether it was applied.
func (s *Store) ImportProgress(data string) (ok bool) {
	var doc exportDocument
	if err := decodeObject(data, &doc); err != nil {
		s.logger.Errorf("Failed to import progress data: %v", err)
		return false
	}
	if !version.CanRead(doc.Version) {
		s.logger.Errorf("Failed to import progress data: written by newer version %s", doc.Version)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userProgress = doc.UserProgress
	if s.userProgress == nil {
		s.userProgress = make(map[string]models.UserProgress)
	}
	s.totalTimeSpent = doc.TotalTimeSpent
	s.totalTopicsCompleted = doc.TotalTopicsCompleted
	s.streak = models.Streak{
		Current:       doc.CurrentStreak,
		Longest:       doc.LongestStreak,
		LastStudyDate: doc.LastStudyDate,
	}
	s.refreshDashboardLocked()

	s.persistLocked()
	return true
}

// decodeObject unmarshals data, which must be a JSON object.
func decodeObject(data string, v any) error {
	if !strings.HasPrefix(strings.TrimSpace(data), "{") {
		return errors.New("backup is not a JSON object")
	}
	return json.Unmarshal([]byte(data), v)
}
