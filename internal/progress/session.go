package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/asteroid-belt/gatewise/internal/models"
)

// StartStudySession makes start the active session and records it at the
// front of the recent-sessions list. A session that is already running is
// replaced without being credited.
func (s *Store) StartStudySession(start models.SessionStart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if start.ID == "" {
		start.ID = uuid.New().String()
	}
	if start.StartTime.IsZero() {
		start.StartTime = s.now()
	}
	topicID := start.TopicID
	if topicID == "" {
		topicID = start.ID
	}
	label := start.Topic
	if label == "" {
		label = topicID
	}

	startTime := start.StartTime
	s.session = models.Session{
		TopicID:   topicID,
		StartTime: &startTime,
		IsActive:  true,
	}

	entry := models.RecentSession{
		ID:       start.ID,
		Topic:    label,
		Date:     start.StartTime,
		Duration: start.Duration,
		Progress: start.Progress,
	}
	recent := make([]models.RecentSession, 0, models.MaxRecentSessions)
	recent = append(recent, entry)
	for _, r := range s.stats.RecentSessions {
		if len(recent) == models.MaxRecentSessions {
			break
		}
		recent = append(recent, r)
	}
	s.stats.RecentSessions = recent

	s.persistLocked()
}

// EndStudySession credits duration minutes to topicID (the session's own
// topic when topicID is empty), adds it to the total and weekly counters,
// clears the session and updates the streak. It does nothing unless a
// session is active.
func (s *Store) EndStudySession(topicID string, duration int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsActive || s.session.StartTime == nil || s.session.TopicID == "" {
		return
	}
	if topicID == "" {
		topicID = s.session.TopicID
	}
	duration = max(duration, 0)

	current := s.userProgress[topicID].TimeSpent
	s.updateTopicLocked(topicID, models.ProgressUpdate{TimeSpent: models.Ptr(current + duration)})
	s.calculateLocked()

	s.stats.TotalTimeStudied += duration
	s.stats.WeeklyTimeStudied += duration
	s.session = models.Session{}

	s.updateStreakLocked()
	s.persistLocked()
}

// PauseStudySession marks the session inactive. Elapsed time is not tracked.
func (s *Store) PauseStudySession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.IsActive = false
	s.persistLocked()
}

// ResumeStudySession marks the session active again. The start time is kept.
func (s *Store) ResumeStudySession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.IsActive = true
	s.persistLocked()
}

// UpdateStreak advances the streak for a study day ending now.
//
//	no previous day  -> 1
//	same day         -> unchanged
//	next day         -> +1
//	any longer gap   -> 1
func (s *Store) UpdateStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateStreakLocked()
	s.persistLocked()
}

func (s *Store) updateStreakLocked() {
	today := s.now()

	if s.streak.LastStudyDate == nil {
		s.setStreakLocked(1, today)
		return
	}

	switch gap := dayGap(*s.streak.LastStudyDate, today); {
	case gap == 0:
		return
	case gap == 1:
		s.setStreakLocked(s.streak.Current+1, today)
	default:
		s.setStreakLocked(1, today)
	}
}

func (s *Store) setStreakLocked(current int, today time.Time) {
	if current > s.streak.Current {
		s.streak.Longest = max(s.streak.Longest, current)
	}
	s.streak.Current = current
	s.streak.LastStudyDate = &today
	s.stats.CurrentStreak = current
}

// dayGap counts calendar days from a to b in b's location.
func dayGap(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(db.Sub(da).Hours() / 24))
}
