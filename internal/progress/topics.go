package progress

import "github.com/asteroid-belt/gatewise/internal/models"

// UpdateTopicProgress merges update into the topic's record, creating it from
// defaults on first use. lastStudied is always stamped and the statistics
// are recomputed.
func (s *Store) UpdateTopicProgress(topicID string, update models.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateTopicLocked(topicID, update)
	s.calculateLocked()
	s.persistLocked()
}

func (s *Store) updateTopicLocked(topicID string, update models.ProgressUpdate) {
	now := s.now()
	existing, ok := s.userProgress[topicID]
	if !ok {
		existing = models.NewUserProgress(topicID, now)
	}
	updated := update.Apply(existing)
	updated.LastStudied = now
	s.userProgress[topicID] = updated
}

// MarkTopicCompleted sets the topic to completed with full confidence.
func (s *Store) MarkTopicCompleted(topicID string) {
	s.UpdateTopicProgress(topicID, models.ProgressUpdate{
		Status:     models.Ptr(models.StatusCompleted),
		Confidence: models.Ptr(models.MaxConfidence),
	})
}

// MarkTopicInProgress sets the topic to in-progress.
func (s *Store) MarkTopicInProgress(topicID string) {
	s.UpdateTopicProgress(topicID, models.ProgressUpdate{
		Status: models.Ptr(models.StatusInProgress),
	})
}

// MarkTopicRevised records a revision of an already tracked topic. Unknown
// topics are ignored. Statistics are not recomputed.
func (s *Store) MarkTopicRevised(topicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.userProgress[topicID]
	if !ok {
		return
	}
	existing.Status = models.StatusRevised
	existing.RevisionCount++
	existing.LastStudied = s.now()
	s.userProgress[topicID] = existing
	s.persistLocked()
}

// ResetTopicProgress deletes the topic's record and recomputes statistics.
func (s *Store) ResetTopicProgress(topicID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.userProgress, topicID)
	s.calculateLocked()
	s.persistLocked()
}

// ResetAllProgress clears the ledger, every counter and the active session.
// The branch and the injected weekly/subject data are kept.
func (s *Store) ResetAllProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userProgress = make(map[string]models.UserProgress)
	s.totalTimeSpent = 0
	s.totalTopicsCompleted = 0
	s.streak = models.Streak{}
	s.session = models.Session{}

	goal := s.stats.WeeklyGoal
	s.stats = newStudyStats()
	s.stats.WeeklyGoal = goal

	s.persistLocked()
}
