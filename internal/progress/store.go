// Package progress implements the topic progress ledger: per-topic study
// records, the single active study session, the streak and the derived
// dashboard statistics. The store persists itself after every mutation.
package progress

import (
	"encoding/json"
	"fmt"
	"maps"
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

// Store owns the progress state. All methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	now    func() time.Time
	logger Logger

	currentBranch        string
	userProgress         map[string]models.UserProgress
	session              models.Session
	totalTimeSpent       int
	totalTopicsCompleted int
	streak               models.Streak
	stats                models.StudyStats
	syllabusSize         int

	weeklyProgress  []models.WeeklyProgress
	subjectProgress []models.SubjectProgress
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

// WithWeeklyProgress injects the per-weekday hours shown on the dashboard.
func WithWeeklyProgress(w []models.WeeklyProgress) Option {
	return func(s *Store) { s.weeklyProgress = append([]models.WeeklyProgress(nil), w...) }
}

// WithSubjectProgress injects the per-subject completion shown on the dashboard.
func WithSubjectProgress(sp []models.SubjectProgress) Option {
	return func(s *Store) { s.subjectProgress = append([]models.SubjectProgress(nil), sp...) }
}

// WithSyllabusSize sets the number of topics in the active syllabus, used as
// the denominator of the overall progress figure.
func WithSyllabusSize(n int) Option {
	return func(s *Store) { s.syllabusSize = n }
}

// DefaultWeeklyProgress is the dashboard's sample week.
var DefaultWeeklyProgress = []models.WeeklyProgress{
	{Date: "Mon", HoursStudied: 2},
	{Date: "Tue", HoursStudied: 3},
	{Date: "Wed", HoursStudied: 1},
	{Date: "Thu", HoursStudied: 4},
	{Date: "Fri", HoursStudied: 2},
	{Date: "Sat", HoursStudied: 5},
	{Date: "Sun", HoursStudied: 1},
}

// DefaultSubjectProgress is the dashboard's sample subject breakdown.
var DefaultSubjectProgress = []models.SubjectProgress{
	{Name: "Engineering Mathematics", Progress: 65},
	{Name: "Digital Logic", Progress: 80},
	{Name: "Computer Organization", Progress: 45},
	{Name: "Programming", Progress: 90},
	{Name: "Data Structures", Progress: 70},
}

// document is the persisted shape. currentSession and studyStats are kept so
// a session can span separate processes.
type document struct {
	CurrentBranch        string                         `json:"currentBranch"`
	UserProgress         map[string]models.UserProgress `json:"userProgress"`
	TotalTimeSpent       int                            `json:"totalTimeSpent"`
	TotalTopicsCompleted int                            `json:"totalTopicsCompleted"`
	CurrentStreak        int                            `json:"currentStreak"`
	LongestStreak        int                            `json:"longestStreak"`
	LastStudyDate        *time.Time                     `json:"lastStudyDate"`
	CurrentSession       *models.Session                `json:"currentSession,omitempty"`
	StudyStats           *models.StudyStats             `json:"studyStats,omitempty"`
}

// Open creates a store and restores it from kv. A corrupted document is
// logged and replaced by defaults; only backend failures are returned.
func Open(kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:              kv,
		now:             time.Now,
		logger:          log.Default(),
		userProgress:    make(map[string]models.UserProgress),
		stats:           newStudyStats(),
		weeklyProgress:  append([]models.WeeklyProgress(nil), DefaultWeeklyProgress...),
		subjectProgress: append([]models.SubjectProgress(nil), DefaultSubjectProgress...),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(models.DocProgress)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if ok {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Errorf("progress document is corrupted, starting fresh: %v", err)
		} else {
			s.restore(doc)
		}
	}
	return s, nil
}

func newStudyStats() models.StudyStats {
	return models.StudyStats{
		WeeklyGoal:     models.DefaultWeeklyGoal,
		RecentSessions: []models.RecentSession{},
	}
}

func (s *Store) restore(doc document) {
	s.currentBranch = doc.CurrentBranch
	if doc.UserProgress != nil {
		s.userProgress = doc.UserProgress
	}
	s.totalTimeSpent = doc.TotalTimeSpent
	s.totalTopicsCompleted = doc.TotalTopicsCompleted
	s.streak = models.Streak{
		Current:       doc.CurrentStreak,
		Longest:       doc.LongestStreak,
		LastStudyDate: doc.LastStudyDate,
	}
	if doc.CurrentSession != nil {
		s.session = *doc.CurrentSession
	}
	if doc.StudyStats != nil {
		s.stats = *doc.StudyStats
		if s.stats.RecentSessions == nil {
			s.stats.RecentSessions = []models.RecentSession{}
		}
	}
}

// persistLocked writes the document. Failures are logged, never returned:
// the in-memory state stays authoritative. Caller must hold the write lock.
func (s *Store) persistLocked() {
	session := s.session
	stats := s.stats
	doc := document{
		CurrentBranch:        s.currentBranch,
		UserProgress:         s.userProgress,
		TotalTimeSpent:       s.totalTimeSpent,
		TotalTopicsCompleted: s.totalTopicsCompleted,
		CurrentStreak:        s.streak.Current,
		LongestStreak:        s.streak.Longest,
		LastStudyDate:        s.streak.LastStudyDate,
		CurrentSession:       &session,
		StudyStats:           &stats,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Errorf("marshal progress: %v", err)
		return
	}
	if err := s.kv.Put(models.DocProgress, data); err != nil {
		s.logger.Errorf("persist progress: %v", err)
	}
}

// Snapshot is a point-in-time copy of the whole progress state.
type Snapshot struct {
	CurrentBranch        string
	UserProgress         map[string]models.UserProgress
	Session              models.Session
	TotalTimeSpent       int
	TotalTopicsCompleted int
	Streak               models.Streak
	Stats                models.StudyStats
	WeeklyProgress       []models.WeeklyProgress
	SubjectProgress      []models.SubjectProgress
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		CurrentBranch:        s.currentBranch,
		UserProgress:         maps.Clone(s.userProgress),
		Session:              cloneSession(s.session),
		TotalTimeSpent:       s.totalTimeSpent,
		TotalTopicsCompleted: s.totalTopicsCompleted,
		Streak:               cloneStreak(s.streak),
		Stats:                cloneStats(s.stats),
		WeeklyProgress:       append([]models.WeeklyProgress(nil), s.weeklyProgress...),
		SubjectProgress:      append([]models.SubjectProgress(nil), s.subjectProgress...),
	}
}

// CurrentBranch returns the selected branch code, or "" if none.
func (s *Store) CurrentBranch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentBranch
}

// TopicProgress returns the record for topicID.
func (s *Store) TopicProgress(topicID string) (models.UserProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.userProgress[topicID]
	return p, ok
}

// Session returns the active (or paused) session.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.session)
}

// Stats returns the dashboard statistics.
func (s *Store) Stats() models.StudyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStats(s.stats)
}

// Streak returns the study streak.
func (s *Store) Streak() models.Streak {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStreak(s.streak)
}

// WeeklyProgress returns the injected per-weekday hours.
func (s *Store) WeeklyProgress() []models.WeeklyProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WeeklyProgress(nil), s.weeklyProgress...)
}

// SubjectProgress returns the injected per-subject completion.
func (s *Store) SubjectProgress() []models.SubjectProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SubjectProgress(nil), s.subjectProgress...)
}

// SetCurrentBranch records the selected branch. Any code is accepted.
func (s *Store) SetCurrentBranch(branch string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentBranch = branch
	s.persistLocked()
}

func cloneSession(sess models.Session) models.Session {
	if sess.StartTime != nil {
		t := *sess.StartTime
		sess.StartTime = &t
	}
	return sess
}

func cloneStreak(st models.Streak) models.Streak {
	if st.LastStudyDate != nil {
		t := *st.LastStudyDate
		st.LastStudyDate = &t
	}
	return st
}

func cloneStats(st models.StudyStats) models.StudyStats {
	st.RecentSessions = append([]models.RecentSession{}, st.RecentSessions...)
	return st
}
