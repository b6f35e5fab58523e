// Package supabase implements [lingua.Provider] on top of the hosted
// chat-tutor function, and reads the signed-in user and their progress
// through the auth and REST APIs.
//
// The chat function answers with newline-delimited "data:" frames that are
// decoded by package sse.
package supabase

const (
	defaultFunction = "chat-tutor"

	functionsPath = "/functions/v1/"
	userPath      = "/auth/v1/user"
	tokenPath     = "/auth/v1/token?grant_type=password"
	logoutPath    = "/auth/v1/logout"
	progressPath  = "/rest/v1/user_progress"

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 4 << 10
)

// apiRequest is the JSON body sent to the chat function.
type apiRequest struct {
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiError covers the error shapes returned by the function and by the
// auth and REST gateways.
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Error, e.ErrorDescription, e.Message, e.Msg} {
		if s != "" {
			return s
		}
	}
	return ""
}

type apiUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiSession struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in"`
	User         apiUser `json:"user"`
}

type apiProgress struct {
	UserID           string `json:"user_id"`
	TotalLessons     int    `json:"total_lessons"`
	TotalWords       int    `json:"total_words"`
	TotalTimeSeconds int    `json:"total_time_seconds"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
}
