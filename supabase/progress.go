package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/lingua"
)

// Progress reads the user_progress row for userID.
func (c *Client) Progress(ctx context.Context, userID string) (lingua.Progress, error) {
	if userID == "" {
		return lingua.Progress{}, fmt.Errorf("supabase: user id is required: %w", lingua.ErrValidation)
	}
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("select", "*")

	var rows []apiProgress
	if err := c.do(ctx, http.MethodGet, progressPath+"?"+q.Encode(), nil, &rows); err != nil {
		return lingua.Progress{}, err
	}
	if len(rows) == 0 {
		return lingua.Progress{}, fmt.Errorf("supabase: user %s: %w", userID, lingua.ErrNoProgress)
	}
	r := rows[0]
	return lingua.Progress{
		UserID:           r.UserID,
		TotalLessons:     r.TotalLessons,
		TotalWords:       r.TotalWords,
		TotalTimeSeconds: r.TotalTimeSeconds,
		CurrentStreak:    r.CurrentStreak,
		LongestStreak:    r.LongestStreak,
	}, nil
}
