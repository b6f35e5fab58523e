package lingua

import (
	"fmt"
	"strings"
)

// TutorGreeting is the first assistant message of every tutor transcript.
const TutorGreeting = "Hello! I'm your English tutor. Type your message below and I'll answer out loud. How can I help you practice today?"

// ParaphrasePrompt builds the single-message request for the paraphrase tool.
func ParaphrasePrompt(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("please enter text to paraphrase: %w", ErrValidation)
	}
	return "Paraphrase the following text professionally: " + text, nil
}

// FormulaPrompt builds the single-message request for the formula tool.
func FormulaPrompt(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("please describe the formula you need: %w", ErrValidation)
	}
	return fmt.Sprintf("Generate an Excel formula for: %s. Provide the formula and a brief explanation.", description), nil
}
