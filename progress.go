package lingua

import (
	"context"
	"fmt"
)

// User is the signed-in account.
type User struct {
	ID    string
	Email string
}

// Progress holds the usage counters stored for a user.
type Progress struct {
	UserID           string
	TotalLessons     int
	TotalWords       int
	TotalTimeSeconds int
	CurrentStreak    int
	LongestStreak    int
}

// Authenticator resolves the current user of the backend session.
type Authenticator interface {
	CurrentUser(ctx context.Context) (User, error)
}

// ProgressStore reads usage counters. It is read-only: counters are
// maintained by the backend.
type ProgressStore interface {
	Progress(ctx context.Context, userID string) (Progress, error)
}

// FormatPracticeTime renders seconds as "Xh Ym", or "Ym" under an hour.
func FormatPracticeTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// StreakPercent returns the current streak as a percentage of the longest
// streak. The denominator is at least 1.
func StreakPercent(p Progress) float64 {
	longest := max(p.LongestStreak, 1)
	return float64(p.CurrentStreak) / float64(longest) * 100
}
