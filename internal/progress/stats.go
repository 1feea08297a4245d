package progress

import "github.com/asteroid-belt/gatewise/internal/models"

// CalculateStatistics rescans the whole ledger and recomputes the total time
// spent, the completed-topic count and the dashboard progress figures.
func (s *Store) CalculateStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calculateLocked()
	s.persistLocked()
}

func (s *Store) calculateLocked() {
	totalTime := 0
	for _, p := range s.userProgress {
		totalTime += p.TimeSpent
	}
	s.totalTimeSpent = totalTime
	s.totalTopicsCompleted = s.refreshDashboardLocked()
}

// refreshDashboardLocked recomputes the dashboard counters from the ledger
// and returns the completed-topic count.
func (s *Store) refreshDashboardLocked() int {
	completed := 0
	percentSum := 0
	for _, p := range s.userProgress {
		switch p.Status {
		case models.StatusCompleted:
			completed++
			percentSum += models.MaxCompletion
		case models.StatusRevised:
			percentSum += models.MaxCompletion
		default:
			percentSum += p.CompletionPercentage
		}
	}

	total := max(s.syllabusSize, len(s.userProgress))
	s.stats.CompletedTopics = completed
	s.stats.TotalTopics = total
	s.stats.TotalProgress = 0
	if total > 0 {
		s.stats.TotalProgress = (percentSum + total/2) / total
	}
	s.stats.CurrentStreak = s.streak.Current
	return completed
}

// SetWeeklyGoal sets the weekly study goal in hours. Non-positive values
// restore the default.
func (s *Store) SetWeeklyGoal(hours int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hours <= 0 {
		hours = models.DefaultWeeklyGoal
	}
	s.stats.WeeklyGoal = hours
	s.persistLocked()
}

// TotalTimeSpent returns the summed minutes across all topics.
func (s *Store) TotalTimeSpent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalTimeSpent
}

// TotalTopicsCompleted returns the number of topics with status completed.
func (s *Store) TotalTopicsCompleted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalTopicsCompleted
}
