package lingua

import (
	"context"
	"errors"
)

// OutcomeKind is the terminal state of one request.
type OutcomeKind int

const (
	OutcomeCompleted       OutcomeKind = iota // Sentinel seen or input ended cleanly.
	OutcomeTruncated                          // Input ended mid-payload; text is partial.
	OutcomeRateLimited                        // HTTP 429.
	OutcomeQuotaExceeded                      // HTTP 402.
	OutcomeTransportFailed                    // Network failure, other non-2xx, or no body.
	OutcomeDecodeStalled                      // No input within the idle timeout.
	OutcomeCancelled                          // Caller cancelled the context.
	OutcomeFailed                             // Any other failure, e.g. a malformed frame.
	OutcomeRejected                           // A turn was already in flight; nothing was sent.
)

// String returns a snake_case name suitable for logs and metric labels.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTruncated:
		return "truncated"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeQuotaExceeded:
		return "quota_exceeded"
	case OutcomeTransportFailed:
		return "transport_failed"
	case OutcomeDecodeStalled:
		return "decode_stalled"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the result of one request: exactly one per send.
// Text holds whatever assistant text was received, complete or partial.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// OK reports whether the outcome is a clean completion.
func (o Outcome) OK() bool { return o.Kind == OutcomeCompleted }

// Notice returns the user-facing title and description for the outcome.
// Completed outcomes return empty strings.
func (o Outcome) Notice() (title, description string) {
	switch o.Kind {
	case OutcomeCompleted:
		return "", ""
	case OutcomeRateLimited:
		return "Rate limit exceeded", "Please wait a moment before sending another message."
	case OutcomeQuotaExceeded:
		return "Payment required", "Please add funds to continue using the AI tutor."
	case OutcomeTruncated:
		return "Response cut off", "The reply ended unexpectedly. Please try again."
	case OutcomeDecodeStalled:
		return "No response", "The tutor stopped responding. Please try again."
	case OutcomeCancelled:
		return "Stopped", "The response was cancelled."
	case OutcomeRejected:
		return "Busy", "Please wait for the current response to finish."
	default:
		return "Error", "Failed to get response. Please try again."
	}
}

// ClassifyError maps an error from a Provider or Stream to an OutcomeKind.
// A nil error is a completion.
func ClassifyError(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrQuotaExceeded):
		return OutcomeQuotaExceeded
	case errors.Is(err, ErrDecodeStalled):
		return OutcomeDecodeStalled
	case errors.Is(err, ErrTruncated):
		return OutcomeTruncated
	case errors.Is(err, ErrTurnInFlight):
		return OutcomeRejected
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	case errors.Is(err, ErrTransportFailed):
		return OutcomeTransportFailed
	default:
		return OutcomeFailed
	}
}
