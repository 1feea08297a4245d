package settings

import "github.com/asteroid-belt/gatewise/internal/models"

// Subscribe registers fn to be called with the new theme after every theme
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.Theme)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// emit runs outside the state lock so subscribers may read the store.
func (s *Store) emit(theme models.Theme) {
	s.subMu.Lock()
	fns := make([]func(models.Theme), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(theme)
	}
}

// ResolveTheme turns a preference into the concrete theme to render.
// The system preference follows the platform's dark-mode signal.
func ResolveTheme(theme models.Theme, systemPrefersDark bool) models.Theme {
	switch theme {
	case models.ThemeLight, models.ThemeDark:
		return theme
	default:
		if systemPrefersDark {
			return models.ThemeDark
		}
		return models.ThemeLight
	}
}
