package domain

import "strings"

// Persona is a named configuration of tone, instructions and sample opening
// lines that shapes how generated responses are framed. Read-only input to
// the interaction service.
type Persona struct {
	ID                PersonaID `json:"id"`
	Name              string    `json:"name"`
	Tone              string    `json:"tone"`
	SystemInstruction string    `json:"system_instruction"`
	DefaultOpeners    []string  `json:"default_openers"`
}

// ConnectorRef points at an external integration. Connectors are never
// mutated by the console core; active ones are summarized into outbound
// requests.
type ConnectorRef struct {
	ID           ConnectorID     `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Status       ConnectorStatus `json:"status"`
	Capabilities []string        `json:"capabilities"`
}

// Summary formats the connector for injection into a request:
// "<name> · <up to 3 capabilities joined by comma>".
func (c ConnectorRef) Summary() string {
	caps := c.Capabilities
	if len(caps) > 3 {
		caps = caps[:3]
	}
	if len(caps) == 0 {
		return c.Name
	}
	return c.Name + " · " + strings.Join(caps, ", ")
}

// ActiveConnectorContext filters connectors to status=active and formats each
// with Summary. Order follows the input list.
func ActiveConnectorContext(connectors []ConnectorRef) []string {
	out := []string{}
	for _, c := range connectors {
		if c.Status == ConnectorActive {
			out = append(out, c.Summary())
		}
	}
	return out
}

// DesignProfile is the visual styling context passed through to the backend
// and separately evolvable via AI suggestion.
type DesignProfile struct {
	Accent       string  `json:"accent"`
	Background   string  `json:"background"`
	Surface      string  `json:"surface"`
	CornerRadius int     `json:"corner_radius"`
	Density      string  `json:"density"`
	FontScale    float64 `json:"font_scale"`
}

// DesignSuggestion is a generated palette proposal for the console.
type DesignSuggestion struct {
	Accent       string  `json:"accent"`
	Background   string  `json:"background"`
	Surface      string  `json:"surface"`
	CornerRadius int     `json:"cornerRadius"`
	Density      string  `json:"density"`
	FontScale    float64 `json:"fontScale"`
	Rationale    string  `json:"rationale"`
}

// ConsoleState is the single persisted blob: personas, connectors, design
// profile and the active persona selection. Read once at startup, written on
// every state change. Missing or corrupt data falls back to defaults.
type ConsoleState struct {
	Personas        []Persona      `json:"personas"`
	Connectors      []ConnectorRef `json:"connectors"`
	DesignProfile   DesignProfile  `json:"design_profile"`
	ActivePersonaID PersonaID      `json:"active_persona_id"`
}

// PersonaByID looks a persona up in the state. Returns nil when absent.
func (cs *ConsoleState) PersonaByID(id PersonaID) *Persona {
	for i := range cs.Personas {
		if cs.Personas[i].ID == id {
			return &cs.Personas[i]
		}
	}
	return nil
}

// DefaultOpenerFallback is used when a persona declares no default openers.
const DefaultOpenerFallback = "Hello. I'm listening — what would you like to explore?"

// DefaultConsoleState returns the built-in state used when nothing was
// persisted yet or the persisted blob cannot be decoded.
func DefaultConsoleState() *ConsoleState {
	return &ConsoleState{
		Personas: []Persona{
			{
				ID:   "aether",
				Name: "Aether",
				Tone: "calm",
				SystemInstruction: "You are Aether, a calm and precise voice assistant. " +
					"Answer briefly, in the user's language, and offer one concrete next step when it helps.",
				DefaultOpeners: []string{
					"Hi, I'm Aether. What are we working on today?",
					"Aether here. Where should we start?",
				},
			},
			{
				ID:   "ember",
				Name: "Ember",
				Tone: "playful",
				SystemInstruction: "You are Ember, an upbeat and playful voice assistant. " +
					"Keep answers light and encouraging without losing accuracy.",
				DefaultOpeners: []string{
					"Hey! Ember at your service — what's cooking?",
				},
			},
		},
		Connectors: []ConnectorRef{},
		DesignProfile: DesignProfile{
			Accent:       "#6c8cff",
			Background:   "#10131a",
			Surface:      "#1b2030",
			CornerRadius: 12,
			Density:      "comfortable",
			FontScale:    1.0,
		},
		ActivePersonaID: "aether",
	}
}
