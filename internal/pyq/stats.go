package pyq

import (
	"math"

	"github.com/asteroid-belt/gatewise/internal/models"
)

// GetStatistics summarises the catalog and user states. Accuracy is the
// share of solved papers answered correctly, in percent to two decimals, and
// 0 when nothing is solved.
func (s *Store) GetStatistics() models.PyqStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.PyqStatistics{
		Total:  len(s.items),
		Cached: len(s.cached),
	}
	correct := 0
	for _, st := range s.userStates {
		if st.Solved {
			stats.Solved++
		}
		if st.Bookmarked {
			stats.Bookmarked++
		}
		if st.FlaggedForRevision {
			stats.Flagged++
		}
		if st.IsCorrect() {
			correct++
		}
	}
	if stats.Solved > 0 {
		accuracy := float64(correct) / float64(stats.Solved) * 100
		stats.Accuracy = math.Round(accuracy*100) / 100
	}
	return stats
}
