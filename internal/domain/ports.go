package domain

import "context"

// HistoryEntry is the trimmed form of a message sent to the generative
// backend: role, text and the persona it was produced under.
type HistoryEntry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	PersonaID PersonaID `json:"personaId"`
}

// GenerateRequest is the full bundle the generative backend needs to frame a
// reply: resolved persona, optional literal text, optional transport-encoded
// audio, recent history, the connector list and the design profile.
type GenerateRequest struct {
	Persona     Persona
	Prompt      string
	AudioBase64 string
	History     []HistoryEntry
	Connectors  []ConnectorRef
	Design      DesignProfile
}

// GenerateResponse carries the generated text plus the raw upstream payload
// text before any placeholder substitution.
type GenerateResponse struct {
	Text string
	Raw  string
}

// GenerativeClient defines how the console talks to the generative model.
type GenerativeClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// DesignAdvisor asks the generative model for a palette suggestion
// constrained to the DesignSuggestion JSON schema.
type DesignAdvisor interface {
	SuggestPalette(ctx context.Context, profile DesignProfile) (*DesignSuggestion, error)
}

// SessionStore defines live session persistence. Sessions are per-console
// transient state, so in practice this is an in-memory store.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
}

// StateStore persists the single ConsoleState blob under one fixed key.
type StateStore interface {
	Load(ctx context.Context) (*ConsoleState, error)
	Save(ctx context.Context, state *ConsoleState) error
}

// AudioSource is the black-box microphone device. Opening it may prompt the
// user for permission and can therefore fail.
type AudioSource interface {
	Open(ctx context.Context) (AudioStream, error)
}

// AudioStream is one open capture stream. Read returns the next recorded
// chunk and io.EOF once the stream is drained; Close releases the underlying
// device handle and is safe to call more than once.
type AudioStream interface {
	Read() ([]byte, error)
	Close() error
}

// SpeechSink is the black-box speech synthesis facility. Invocations are
// fire-and-forget: a sink failure must never alter session state.
type SpeechSink interface {
	Speak(ctx context.Context, text string) error
}
