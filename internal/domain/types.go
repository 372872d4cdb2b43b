package domain

import "time"

type SessionID string
type MessageID string
type PersonaID string
type ConnectorID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// SessionStatus is the state the session state machine is currently in.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"       // waiting for user input
	StatusRecording  SessionStatus = "recording"  // an audio capture is open
	StatusProcessing SessionStatus = "processing" // a request is in flight
	StatusError      SessionStatus = "error"      // last interaction failed; advisory, not blocking
)

type ConnectorStatus string

const (
	ConnectorActive ConnectorStatus = "active"
	ConnectorPaused ConnectorStatus = "paused"
	ConnectorDraft  ConnectorStatus = "draft"
)

type Timestamp = time.Time
