package lingua

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrTransportFailed indicates a network failure, a non-success status,
	// or a response without a body.
	ErrTransportFailed = errors.New("transport failed")

	// ErrRateLimited indicates the backend rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrQuotaExceeded indicates the backend rejected the request with 402.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrDecodeStalled indicates no input arrived within the idle timeout.
	ErrDecodeStalled = errors.New("decode stalled")

	// ErrTruncated indicates the input ended in the middle of a data payload.
	ErrTruncated = errors.New("stream truncated")

	// ErrMalformedFrame indicates a data payload that could never be
	// completed because a new frame started after it.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrPlaybackFailed indicates the speech collaborator reported an error.
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrTurnInFlight indicates a send was attempted while the previous
	// turn of the same transcript is still streaming.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrNotAuthenticated indicates there is no signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoProgress indicates the user has no usage record yet.
	ErrNoProgress = errors.New("no progress recorded")
)
