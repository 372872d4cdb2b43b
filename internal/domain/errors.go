package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionInFlight rejects a second submit while one is processing.
	ErrSubmissionInFlight = errors.New("a submission is already in flight for this session")

	// ErrSessionNotFound is returned by session stores for unknown IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session with a taken ID.
	ErrSessionExists = errors.New("session already exists")

	// ErrPersonaNotFound is returned when a persona id is not in the console state.
	ErrPersonaNotFound = errors.New("persona not found")

	// ErrStateNotFound is returned by state stores when nothing was persisted yet.
	ErrStateNotFound = errors.New("console state not found")

	// ErrUpstreamNotConfigured is returned when no generative upstream
	// credential is configured. The gateway maps it to a fixed 500.
	ErrUpstreamNotConfigured = errors.New("generative upstream is not configured: set LUMEN_GEMINI_API_KEY")
)

// UpstreamError carries the most specific failure detail available from the
// generative backend: the payload-provided message when present, otherwise
// the HTTP status.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream request failed with status %d", e.Status)
}

// FailureReason picks the error text to surface as a session's LastError:
// payload message, else status-derived message, else the raw error text.
func FailureReason(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Error()
	}
	return err.Error()
}
