package pyq

import (
	"slices"
	"sort"
)

// ToggleSelection adds id to the selection, or removes it if present.
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return
	}
	s.selected = append(s.selected, id)
}

// SelectAll selects every catalog id present now. Later upserts are not
// picked up until SelectAll is called again.
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s.selected = ids
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = []string{}
}

// Selected returns the selected ids in selection order.
func (s *Store) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// AddToDownloadQueue appends ids that are not already queued.
func (s *Store) AddToDownloadQueue(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = union(s.queue, ids...)
}

// BulkDownload queues ids for download.
func (s *Store) BulkDownload(ids []string) {
	s.AddToDownloadQueue(ids)
}

// RemoveFromDownloadQueue drops id from the queue along with its progress.
func (s *Store) RemoveFromDownloadQueue(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = slices.DeleteFunc(s.queue, func(q string) bool { return q == id })
	delete(s.progress, id)
}

// UpdateDownloadProgress records a 0-100 percentage for id.
func (s *Store) UpdateDownloadProgress(id string, percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[id] = min(max(percent, 0), 100)
}

// Queue returns the pending downloads in queue order.
func (s *Store) Queue() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.queue)
}

// Progress returns the download percentage for id.
func (s *Store) Progress(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[id]
	return p, ok
}

// MarkAsCached adds id to the cache list. Queue membership is not required.
func (s *Store) MarkAsCached(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = union(s.cached, id)
	s.persistLocked()
}

// RemoveFromCache drops id from the cache list.
func (s *Store) RemoveFromCache(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = slices.DeleteFunc(s.cached, func(c string) bool { return c == id })
	s.persistLocked()
}

// IsCached reports whether id is in the cache list.
func (s *Store) IsCached(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.cached, id)
}

// BulkDelete removes each id from the catalog, the user states, the cache
// and the selection.
func (s *Store) BulkDelete(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
		delete(s.items, id)
		delete(s.userStates, id)
	}
	gone := func(id string) bool { _, ok := drop[id]; return ok }
	s.cached = slices.DeleteFunc(s.cached, gone)
	s.selected = slices.DeleteFunc(s.selected, gone)
	s.persistLocked()
}

// union appends the ids not yet in list, preserving first-seen order.
func union(list []string, ids ...string) []string {
	seen := make(map[string]struct{}, len(list)+len(ids))
	for _, id := range list {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		list = append(list, id)
	}
	return list
}
