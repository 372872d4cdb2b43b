package domain

// Message represents one entry in a session's timeline (user, assistant or system).
type Message struct {
	ID        MessageID
	Role      Role
	Text      string
	PersonaID PersonaID
	CreatedAt Timestamp

	// ConnectorContext lists the active connectors that were summarized into
	// the request that produced this message. Only set on assistant messages.
	ConnectorContext []string
}

// Session is the live conversation state of one open console instance.
// Messages are ordered oldest first and append-only, except for the hard
// reset performed by a persona switch.
type Session struct {
	ID              SessionID
	Messages        []*Message
	Status          SessionStatus
	ActivePersonaID PersonaID
	LastError       string
	CreatedAt       Timestamp
	UpdatedAt       Timestamp
}

// BeginRecording moves the session into recording. Allowed from idle and from
// error (a new user action always clears a prior error).
func (s *Session) BeginRecording() error {
	if s.Status == StatusProcessing {
		return ErrSubmissionInFlight
	}
	s.Status = StatusRecording
	s.LastError = ""
	return nil
}

// BeginProcessing marks a request as in flight. The session is a single-slot
// resource: a second submission while one is processing is rejected rather
// than raced.
func (s *Session) BeginProcessing() error {
	if s.Status == StatusProcessing {
		return ErrSubmissionInFlight
	}
	s.Status = StatusProcessing
	s.LastError = ""
	return nil
}

// CompleteProcessing folds a successful response back to idle.
func (s *Session) CompleteProcessing() {
	s.Status = StatusIdle
	s.LastError = ""
}

// Fail records a failure reason and parks the session in error. The session
// stays usable; the next user action is accepted normally.
func (s *Session) Fail(reason string) {
	s.Status = StatusError
	s.LastError = reason
}

// Idle returns the session to idle without touching the timeline. Used when a
// submission turns out to be empty (no text, no captured audio).
func (s *Session) Idle() {
	s.Status = StatusIdle
}

// Append adds a message to the timeline.
func (s *Session) Append(msg *Message) {
	s.Messages = append(s.Messages, msg)
}

// ResetTo discards the visible conversation and starts over with a single
// synthesized opener for the given persona. This is the persona-switch hard
// reset, not an append.
func (s *Session) ResetTo(personaID PersonaID, opener *Message) {
	s.ActivePersonaID = personaID
	s.Messages = []*Message{opener}
	s.Status = StatusIdle
	s.LastError = ""
}
