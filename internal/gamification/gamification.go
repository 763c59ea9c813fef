// Package gamification tracks practice points, levels, day-based streaks and
// badges. State transitions are pure so they can be computed anywhere a
// rating is produced, client or server.
package gamification

import "time"

// Badge names awarded by Apply.
const (
	BadgeTopAnswer      = "Top Answer"
	BadgeCenturyPoints  = "Century Points"
	BadgeThreeDayStreak = "3-Day Streak"
)

const pointsPerLevel = 50

// State is the client-held gamification snapshot for one user.
type State struct {
	Points          int      `json:"points"`
	Level           int      `json:"level"`
	Streak          int      `json:"streak"`
	Badges          []string `json:"badges"`
	LastPracticedAt string   `json:"lastPracticedAt,omitempty"` // YYYY-MM-DD, empty before the first session
}

// Apply folds one evaluated answer into the state. Points grow by the rating,
// level is points/50 + 1, the streak counts consecutive practice days, and
// badges accumulate with set semantics. The input state is not mutated.
func Apply(current State, rating int, today time.Time) State {
	next := current
	next.Points = current.Points + rating
	next.Level = next.Points/pointsPerLevel + 1
	next.Streak = nextStreak(current, today)
	next.LastPracticedAt = dateString(today)
	next.Badges = nextBadges(current.Badges, rating, next.Points, current.Streak)
	return next
}

// nextStreak increments on a practice exactly one day after the last one,
// keeps the streak on a same-day practice, and resets to 1 otherwise.
func nextStreak(current State, today time.Time) int {
	if current.LastPracticedAt == "" {
		return 1
	}
	last, err := time.Parse("2006-01-02", current.LastPracticedAt)
	if err != nil {
		return 1
	}
	day, _ := time.Parse("2006-01-02", dateString(today))
	diffDays := int(day.Sub(last).Hours() / 24)
	switch diffDays {
	case 0:
		return current.Streak
	case 1:
		return current.Streak + 1
	default:
		return 1
	}
}

func nextBadges(badges []string, rating, points, streak int) []string {
	set := make(map[string]struct{}, len(badges))
	next := make([]string, 0, len(badges)+3)
	add := func(badge string) {
		if _, ok := set[badge]; ok {
			return
		}
		set[badge] = struct{}{}
		next = append(next, badge)
	}

	for _, badge := range badges {
		add(badge)
	}
	if rating >= 9 {
		add(BadgeTopAnswer)
	}
	if points >= 100 {
		add(BadgeCenturyPoints)
	}
	if streak >= 3 {
		add(BadgeThreeDayStreak)
	}
	return next
}

func dateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
