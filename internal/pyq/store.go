// Package pyq implements the previous-year-question store: the paper catalog,
// the user's per-paper state, browser filters and selection, and the
// download/cache bookkeeping.
package pyq

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
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

// Store owns the PYQ state. All methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	now    func() time.Time
	logger Logger

	items      map[string]models.PyqItem
	userStates map[string]models.PyqUserState
	filters    models.SearchFilters
	viewMode   models.ViewMode
	cached     []string

	lastRefreshAt   string
	lastUpdateCheck *time.Time

	// Transient, never persisted.
	selected []string
	queue    []string
	progress map[string]int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the global logger.
func WithLogger(l Logger) Option {
	return func(s *Store) { s.logger = l }
}

type document struct {
	Items           map[string]models.PyqItem      `json:"items"`
	UserStates      map[string]models.PyqUserState `json:"userStates"`
	Filters         models.SearchFilters           `json:"filters"`
	ViewMode        models.ViewMode                `json:"viewMode"`
	CachedItems     []string                       `json:"cachedItems"`
	LastRefreshAt   string                         `json:"lastRefreshAt,omitempty"`
	LastUpdateCheck *time.Time                     `json:"lastUpdateCheck"`
}

// Open creates a store and restores it from kv. A corrupted document is
// logged and replaced by defaults; only backend failures are returned.
func Open(kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:         kv,
		now:        time.Now,
		logger:     log.Default(),
		items:      make(map[string]models.PyqItem),
		userStates: make(map[string]models.PyqUserState),
		viewMode:   models.ViewGrid,
		cached:     []string{},
		selected:   []string{},
		queue:      []string{},
		progress:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(models.DocPyq)
	if err != nil {
		return nil, fmt.Errorf("load pyq: %w", err)
	}
	if !ok {
		return s, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Errorf("pyq document is corrupted, starting fresh: %v", err)
		return s, nil
	}
	if doc.Items != nil {
		s.items = doc.Items
	}
	if doc.UserStates != nil {
		s.userStates = doc.UserStates
	}
	s.filters = doc.Filters
	if doc.ViewMode != "" {
		s.viewMode = doc.ViewMode
	}
	if doc.CachedItems != nil {
		s.cached = doc.CachedItems
	}
	s.lastRefreshAt = doc.LastRefreshAt
	s.lastUpdateCheck = doc.LastUpdateCheck
	return s, nil
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(document{
		Items:           s.items,
		UserStates:      s.userStates,
		Filters:         s.filters,
		ViewMode:        s.viewMode,
		CachedItems:     s.cached,
		LastRefreshAt:   s.lastRefreshAt,
		LastUpdateCheck: s.lastUpdateCheck,
	})
	if err != nil {
		s.logger.Errorf("marshal pyq: %v", err)
		return
	}
	if err := s.kv.Put(models.DocPyq, data); err != nil {
		s.logger.Errorf("persist pyq: %v", err)
	}
}

// Snapshot is a point-in-time copy of the whole PYQ state.
type Snapshot struct {
	Items            map[string]models.PyqItem
	UserStates       map[string]models.PyqUserState
	Filters          models.SearchFilters
	SelectedItems    []string
	ViewMode         models.ViewMode
	DownloadQueue    []string
	DownloadProgress map[string]int
	CachedItems      []string
	LastRefreshAt    string
	LastUpdateCheck  *time.Time
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make(map[string]models.PyqItem, len(s.items))
	for id, item := range s.items {
		items[id] = item.Clone()
	}
	states := make(map[string]models.PyqUserState, len(s.userStates))
	for id, st := range s.userStates {
		states[id] = st.Clone()
	}
	var lastCheck *time.Time
	if s.lastUpdateCheck != nil {
		t := *s.lastUpdateCheck
		lastCheck = &t
	}

	return Snapshot{
		Items:            items,
		UserStates:       states,
		Filters:          s.filters,
		SelectedItems:    slices.Clone(s.selected),
		ViewMode:         s.viewMode,
		DownloadQueue:    slices.Clone(s.queue),
		DownloadProgress: maps.Clone(s.progress),
		CachedItems:      slices.Clone(s.cached),
		LastRefreshAt:    s.lastRefreshAt,
		LastUpdateCheck:  lastCheck,
	}
}

// Item returns the catalog entry for id.
func (s *Store) Item(id string) (models.PyqItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item.Clone(), ok
}

// Items returns the catalog sorted by year (newest first), then id.
func (s *Store) Items() []models.PyqItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(models.PyqItem) bool { return true })
}

// Filtered returns the catalog entries that match the current filters, in
// Items order.
func (s *Store) Filtered() []models.PyqItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedLocked(func(item models.PyqItem) bool {
		var state *models.PyqUserState
		if st, ok := s.userStates[item.ID]; ok {
			state = &st
		}
		return s.filters.Matches(item, state)
	})
}

func (s *Store) sortedLocked(keep func(models.PyqItem) bool) []models.PyqItem {
	out := make([]models.PyqItem, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpsertMany inserts or replaces each item by id. Last write wins.
func (s *Store) UpsertMany(items []models.PyqItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.upsertLocked(item)
	}
	s.persistLocked()
}

// UpsertOne inserts or replaces a single item.
func (s *Store) UpsertOne(item models.PyqItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(item)
	s.persistLocked()
}

func (s *Store) upsertLocked(item models.PyqItem) {
	if item.ID == "" {
		item.ID = models.PyqID(item.Year, item.Branch, item.PaperCode)
	}
	s.items[item.ID] = item.Clone()
}

// RemoveItem deletes the catalog entry only. The user state, cache and
// selection entries for id are kept.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	s.persistLocked()
}

// Filters returns the active browser filters.
func (s *Store) Filters() models.SearchFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters merges update into the active filters.
func (s *Store) SetFilters(update models.FiltersUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = update.Apply(s.filters)
	s.persistLocked()
}

// ClearFilters resets the filters to an empty query.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = models.SearchFilters{Q: ""}
	s.persistLocked()
}

// SetViewMode switches the browser layout.
func (s *Store) SetViewMode(mode models.ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = mode
	s.persistLocked()
}

// ViewMode returns the browser layout.
func (s *Store) ViewMode() models.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewMode
}

// SetLastRefreshAt records when the catalog was last refreshed (RFC 3339).
func (s *Store) SetLastRefreshAt(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRefreshAt = date
	s.persistLocked()
}

// SetLastUpdateCheck records when upstream was last checked for new papers.
func (s *Store) SetLastUpdateCheck(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUpdateCheck = &t
	s.persistLocked()
}
