package pyq

import "github.com/asteroid-belt/gatewise/internal/models"

// UserState returns the user's record for pyqID.
func (s *Store) UserState(pyqID string) (models.PyqUserState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.userStates[pyqID]
	return st.Clone(), ok
}

// UpdateUserState merges update into the record for pyqID, creating it from
// defaults first if needed. The catalog entry need not exist.
func (s *Store) UpdateUserState(pyqID string, update models.PyqUserStateUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userStates[pyqID] = update.Apply(s.stateLocked(pyqID))
	s.persistLocked()
}

// MarkAsSolved records an attempt: solved is set, the verdict stored (nil for
// unknown), attempts incremented and lastAttemptAt stamped.
func (s *Store) MarkAsSolved(pyqID string, correct *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(pyqID)
	now := s.now()
	s.userStates[pyqID] = models.PyqUserStateUpdate{
		Solved:        models.Ptr(true),
		Correct:       correct,
		ClearCorrect:  correct == nil,
		Attempts:      models.Ptr(st.Attempts + 1),
		LastAttemptAt: &now,
	}.Apply(st)
	s.persistLocked()
}

// ToggleBookmark flips the bookmark flag and returns the new value.
func (s *Store) ToggleBookmark(pyqID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(pyqID)
	st.Bookmarked = !st.Bookmarked
	s.userStates[pyqID] = st
	s.persistLocked()
	return st.Bookmarked
}

// ToggleFlagForRevision flips the revision flag and returns the new value.
func (s *Store) ToggleFlagForRevision(pyqID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(pyqID)
	st.FlaggedForRevision = !st.FlaggedForRevision
	s.userStates[pyqID] = st
	s.persistLocked()
	return st.FlaggedForRevision
}

// StateChange pairs a paper id with a partial update.
type StateChange struct {
	PyqID  string
	Update models.PyqUserStateUpdate
}

// BulkUpdateUserStates applies every change against the state as it was
// before the call. Changes in one batch do not see each other; for a repeated
// id the last change wins.
func (s *Store) BulkUpdateUserStates(changes []StateChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.userStates
	next := make(map[string]models.PyqUserState, len(base)+len(changes))
	for id, st := range base {
		next[id] = st
	}
	for _, c := range changes {
		existing, ok := base[c.PyqID]
		if !ok {
			existing = models.NewPyqUserState(c.PyqID)
		}
		next[c.PyqID] = c.Update.Apply(existing)
	}
	s.userStates = next
	s.persistLocked()
}

func (s *Store) stateLocked(pyqID string) models.PyqUserState {
	if st, ok := s.userStates[pyqID]; ok {
		return st
	}
	return models.NewPyqUserState(pyqID)
}
