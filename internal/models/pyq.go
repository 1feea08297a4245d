package models

import (
	"fmt"
	"strings"
	"time"
)

// PyqSource describes where a paper entry came from.
type PyqSource string

const (
	SourceOfficial  PyqSource = "official"
	SourceMirror    PyqSource = "mirror"
	SourceCommunity PyqSource = "community"
)

// Difficulty is a coarse difficulty rating.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Mirror is a fallback location for a paper and its answer key.
type Mirror struct {
	Paper string `json:"paper,omitempty" yaml:"paper,omitempty"`
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
}

// PyqItem is a previous-year-question paper in the catalog.
type PyqItem struct {
	ID                   string     `json:"id" yaml:"id,omitempty"`
	Year                 int        `json:"year" yaml:"year"`
	Branch               string     `json:"branch" yaml:"branch"`
	PaperCode            string     `json:"paperCode" yaml:"paperCode"`
	Session              string     `json:"session,omitempty" yaml:"session,omitempty"` // Shift1, Shift2 or NA
	OfficialPaperURL     string     `json:"officialPaperUrl" yaml:"officialPaperUrl"`
	OfficialAnswerKeyURL string     `json:"officialAnswerKeyUrl" yaml:"officialAnswerKeyUrl"`
	Mirrors              []Mirror   `json:"mirrors" yaml:"mirrors,omitempty"`
	Topics               []string   `json:"topics" yaml:"topics,omitempty"`
	Marks                int        `json:"marks,omitempty" yaml:"marks,omitempty"`
	Difficulty           Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Source               PyqSource  `json:"source" yaml:"source,omitempty"`
	LastCheckedAt        string     `json:"lastCheckedAt" yaml:"lastCheckedAt,omitempty"` // RFC 3339
	Checksum             string     `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// PyqID builds the composite catalog id year-branch-paperCode.
func PyqID(year int, branch, paperCode string) string {
	return fmt.Sprintf("%d-%s-%s", year, branch, paperCode)
}

// HasTopic reports whether the item is tagged with topic (case-insensitive).
func (p PyqItem) HasTopic(topic string) bool {
	for _, t := range p.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}

// PyqUserState is the user's interaction record for one paper.
type PyqUserState struct {
	PyqID              string     `json:"pyqId"`
	Solved             bool       `json:"solved"`
	Correct            *bool      `json:"correct"` // nil means unknown
	Attempts           int        `json:"attempts"`
	Notes              string     `json:"notes,omitempty"`
	FlaggedForRevision bool       `json:"flaggedForRevision"`
	TimeSpentMin       int        `json:"timeSpentMin,omitempty"`
	LastAttemptAt      *time.Time `json:"lastAttemptAt,omitempty"`
	Bookmarked         bool       `json:"bookmarked"`
}

// NewPyqUserState returns the default record for pyqID.
func NewPyqUserState(pyqID string) PyqUserState {
	return PyqUserState{PyqID: pyqID}
}

// IsCorrect reports a solved-and-correct verdict.
func (s PyqUserState) IsCorrect() bool {
	return s.Solved && s.Correct != nil && *s.Correct
}

// PyqUserStateUpdate is a partial PyqUserState. Nil fields are left unchanged.
type PyqUserStateUpdate struct {
	Solved             *bool
	Correct            *bool
	ClearCorrect       bool // reset the verdict to unknown
	Attempts           *int
	Notes              *string
	FlaggedForRevision *bool
	TimeSpentMin       *int
	LastAttemptAt      *time.Time
	Bookmarked         *bool
}

// Apply merges u over s.
func (u PyqUserStateUpdate) Apply(s PyqUserState) PyqUserState {
	if u.Solved != nil {
		s.Solved = *u.Solved
	}
	if u.ClearCorrect {
		s.Correct = nil
	}
	if u.Correct != nil {
		s.Correct = cloneBool(u.Correct)
	}
	if u.Attempts != nil {
		s.Attempts = max(*u.Attempts, 0)
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.FlaggedForRevision != nil {
		s.FlaggedForRevision = *u.FlaggedForRevision
	}
	if u.TimeSpentMin != nil {
		s.TimeSpentMin = max(*u.TimeSpentMin, 0)
	}
	if u.LastAttemptAt != nil {
		t := *u.LastAttemptAt
		s.LastAttemptAt = &t
	}
	if u.Bookmarked != nil {
		s.Bookmarked = *u.Bookmarked
	}
	return s
}

// Clone returns a copy of s that shares no pointers with it.
func (s PyqUserState) Clone() PyqUserState {
	s.Correct = cloneBool(s.Correct)
	if s.LastAttemptAt != nil {
		t := *s.LastAttemptAt
		s.LastAttemptAt = &t
	}
	return s
}

// Clone returns a copy of p with its slices duplicated.
func (p PyqItem) Clone() PyqItem {
	p.Mirrors = append([]Mirror(nil), p.Mirrors...)
	p.Topics = append([]string(nil), p.Topics...)
	return p
}

// ViewMode is the browser layout.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// SearchFilters narrows the PYQ browser.
type SearchFilters struct {
	Branch     string      `json:"branch,omitempty"`
	Year       int         `json:"year,omitempty"`
	Topic      string      `json:"topic,omitempty"`
	Difficulty Difficulty  `json:"difficulty,omitempty"`
	Status     TopicStatus `json:"status,omitempty"`
	Set        string      `json:"set,omitempty"`
	Q          string      `json:"q"`
}

// FiltersUpdate is a partial SearchFilters. Nil fields are left unchanged.
type FiltersUpdate struct {
	Branch     *string
	Year       *int
	Topic      *string
	Difficulty *Difficulty
	Status     *TopicStatus
	Set        *string
	Q          *string
}

// Apply merges u over f.
func (u FiltersUpdate) Apply(f SearchFilters) SearchFilters {
	if u.Branch != nil {
		f.Branch = *u.Branch
	}
	if u.Year != nil {
		f.Year = *u.Year
	}
	if u.Topic != nil {
		f.Topic = *u.Topic
	}
	if u.Difficulty != nil {
		f.Difficulty = *u.Difficulty
	}
	if u.Status != nil {
		f.Status = *u.Status
	}
	if u.Set != nil {
		f.Set = *u.Set
	}
	if u.Q != nil {
		f.Q = *u.Q
	}
	return f
}

// Matches reports whether item passes every non-empty filter.
// Status is matched against the user state: "completed" means solved,
// "in-progress" means attempted but unsolved, "not-started" means untouched
// and "revised" means solved again after being flagged.
// The free-text query matches id, paper code, branch and topic tags.
func (f SearchFilters) Matches(item PyqItem, state *PyqUserState) bool {
	if f.Branch != "" && !strings.EqualFold(item.Branch, f.Branch) {
		return false
	}
	if f.Year != 0 && item.Year != f.Year {
		return false
	}
	if f.Topic != "" && !item.HasTopic(f.Topic) {
		return false
	}
	if f.Difficulty != "" && item.Difficulty != f.Difficulty {
		return false
	}
	if f.Set != "" && !strings.EqualFold(item.Session, f.Set) {
		return false
	}
	if f.Status != "" && pyqStatus(state) != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Q)); q != "" {
		haystack := strings.ToLower(strings.Join(append([]string{item.ID, item.PaperCode, item.Branch}, item.Topics...), " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func pyqStatus(state *PyqUserState) TopicStatus {
	switch {
	case state == nil:
		return StatusNotStarted
	case state.Solved && state.FlaggedForRevision && state.Attempts > 1:
		return StatusRevised
	case state.Solved:
		return StatusCompleted
	case state.Attempts > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// PyqStatistics summarises the catalog and the user's work on it.
type PyqStatistics struct {
	Total      int     `json:"total"`
	Solved     int     `json:"solved"`
	Bookmarked int     `json:"bookmarked"`
	Flagged    int     `json:"flagged"`
	Cached     int     `json:"cached"`
	Accuracy   float64 `json:"accuracy"`
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
