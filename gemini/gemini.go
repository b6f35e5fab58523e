// Package gemini implements [lingua.Provider] for the Google Gemini API.
//
// It talks to Gemini directly through the google.golang.org/genai SDK,
// bypassing the hosted chat function. Streaming uses the SDK's iter.Seq2
// iterator, wrapped into the pull-based [lingua.Stream] interface.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 2048

	// defaultSystemPrompt stands in for the instructions the hosted
	// chat-tutor function applies server-side.
	defaultSystemPrompt = "You are a friendly, patient English tutor. " +
		"Answer in clear, natural English that is easy to read aloud. " +
		"Keep replies short, gently correct mistakes, and suggest one better way to phrase things when useful."
)
