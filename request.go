package lingua

import "fmt"

// Request carries the full conversation sent as context for one turn.
type Request struct {
	Messages []Message
}

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must not be empty: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d has unknown role %q: %w", i, m.Role, ErrValidation)
		}
	}
	if last := r.Messages[len(r.Messages)-1]; last.Role != RoleUser {
		return fmt.Errorf("last message must be from the user, got %q: %w", last.Role, ErrValidation)
	}
	return nil
}
