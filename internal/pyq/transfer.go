package pyq

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/pkg/version"
)

type exportDocument struct {
	Items       map[string]models.PyqItem      `json:"items"`
	UserStates  map[string]models.PyqUserState `json:"userStates"`
	CachedItems []string                       `json:"cachedItems"`
	ExportDate  time.Time                      `json:"exportDate"`
	Version     string                         `json:"version,omitempty"`
}

// ExportData serializes the catalog, user states and cache list to JSON.
func (s *Store) ExportData() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.Marshal(exportDocument{
		Items:       s.items,
		UserStates:  s.userStates,
		CachedItems: s.cached,
		ExportDate:  s.now().UTC(),
		Version:     version.Version,
	})
	if err != nil {
		s.logger.Errorf("export pyq: %v", err)
		return ""
	}
	return string(data)
}

// ImportData replaces the catalog, user states and cache list with an
// exported document. Missing sections become empty. A malformed or
// incompatible document is logged and leaves the state untouched.
func (s *Store) ImportData(data string) (ok bool) {
	var doc exportDocument
	if !strings.HasPrefix(strings.TrimSpace(data), "{") {
		s.logger.Errorf("Failed to import PYQ data: backup is not a JSON object")
		return false
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		s.logger.Errorf("Failed to import PYQ data: %v", err)
		return false
	}
	if !version.CanRead(doc.Version) {
		s.logger.Errorf("Failed to import PYQ data: written by newer version %s", doc.Version)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = doc.Items
	if s.items == nil {
		s.items = make(map[string]models.PyqItem)
	}
	s.userStates = doc.UserStates
	if s.userStates == nil {
		s.userStates = make(map[string]models.PyqUserState)
	}
	s.cached = doc.CachedItems
	if s.cached == nil {
		s.cached = []string{}
	}

	s.persistLocked()
	return true
}
