package models

import "time"

// TopicStatus is the study state of a single syllabus topic.
type TopicStatus string

const (
	StatusNotStarted TopicStatus = "not-started"
	StatusInProgress TopicStatus = "in-progress"
	StatusCompleted  TopicStatus = "completed"
	StatusRevised    TopicStatus = "revised"
)

// Valid reports whether s is one of the known topic statuses.
func (s TopicStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusRevised:
		return true
	}
	return false
}

// Confidence and completion bounds.
const (
	MinConfidence = 1
	MaxConfidence = 5
	MaxCompletion = 100
)

// UserProgress is the progress ledger entry for one topic.
type UserProgress struct {
	TopicID              string      `json:"topicId"`
	Status               TopicStatus `json:"status"`
	TimeSpent            int         `json:"timeSpent"` // minutes
	LastStudied          time.Time   `json:"lastStudied"`
	RevisionCount        int         `json:"revisionCount"`
	Confidence           int         `json:"confidence"`
	CompletionPercentage int         `json:"completionPercentage"`
	Notes                string      `json:"notes,omitempty"`
	Bookmarked           bool        `json:"bookmarked,omitempty"`
}

// NewUserProgress returns the default record a topic starts from.
func NewUserProgress(topicID string, now time.Time) UserProgress {
	return UserProgress{
		TopicID:     topicID,
		Status:      StatusNotStarted,
		LastStudied: now,
		Confidence:  MinConfidence,
	}
}

// ProgressUpdate is a partial UserProgress. Nil fields are left unchanged.
type ProgressUpdate struct {
	Status               *TopicStatus
	TimeSpent            *int
	RevisionCount        *int
	Confidence           *int
	CompletionPercentage *int
	Notes                *string
	Bookmarked           *bool
}

// Apply merges u over p. Confidence and completion are clamped to their ranges.
func (u ProgressUpdate) Apply(p UserProgress) UserProgress {
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.TimeSpent != nil {
		p.TimeSpent = max(*u.TimeSpent, 0)
	}
	if u.RevisionCount != nil {
		p.RevisionCount = max(*u.RevisionCount, 0)
	}
	if u.Confidence != nil {
		p.Confidence = clamp(*u.Confidence, MinConfidence, MaxConfidence)
	}
	if u.CompletionPercentage != nil {
		p.CompletionPercentage = clamp(*u.CompletionPercentage, 0, MaxCompletion)
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.Bookmarked != nil {
		p.Bookmarked = *u.Bookmarked
	}
	return p
}

// Session is the single active study session.
type Session struct {
	TopicID   string     `json:"topicId,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// IsZero reports whether no session has been started.
func (s Session) IsZero() bool {
	return s.TopicID == "" && s.StartTime == nil
}

// SessionStart describes a session being started.
type SessionStart struct {
	ID        string
	TopicID   string
	Topic     string // display label
	StartTime time.Time
	Duration  int
	Progress  int
}

// RecentSession is one entry of the recent-sessions list.
type RecentSession struct {
	ID       string    `json:"id"`
	Topic    string    `json:"topic"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"`
	Progress int       `json:"progress"`
}

// MaxRecentSessions caps StudyStats.RecentSessions.
const MaxRecentSessions = 5

// DefaultWeeklyGoal is the weekly goal in hours.
const DefaultWeeklyGoal = 20

// StudyStats holds derived counters shown on the dashboard.
type StudyStats struct {
	TotalProgress     int             `json:"totalProgress"`
	CompletedTopics   int             `json:"completedTopics"`
	TotalTopics       int             `json:"totalTopics"`
	TotalTimeStudied  int             `json:"totalTimeStudied"`
	WeeklyTimeStudied int             `json:"weeklyTimeStudied"`
	CurrentStreak     int             `json:"currentStreak"`
	WeeklyGoal        int             `json:"weeklyGoal"`
	RecentSessions    []RecentSession `json:"recentSessions"`
}

// Streak tracks consecutive study days.
type Streak struct {
	Current       int        `json:"currentStreak"`
	Longest       int        `json:"longestStreak"`
	LastStudyDate *time.Time `json:"lastStudyDate"`
}

// WeeklyProgress is hours studied on one weekday.
type WeeklyProgress struct {
	Date         string  `json:"date"`
	HoursStudied float64 `json:"hoursStudied"`
}

// SubjectProgress is the completion of one subject, 0-100.
type SubjectProgress struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Ptr returns a pointer to v. Handy for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
