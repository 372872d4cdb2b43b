package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/lumen-console/internal/app/audio"
	"github.com/PabloGalante/lumen-console/internal/app/design"
	"github.com/PabloGalante/lumen-console/internal/app/interaction"
	"github.com/PabloGalante/lumen-console/internal/domain"
	"github.com/PabloGalante/lumen-console/internal/observability"
)

type Server struct {
	interactions *interaction.Service
	designs      *design.Service
}

func NewServer(interactions *interaction.Service, designs *design.Service) http.Handler {
	s := &Server{
		interactions: interactions,
		designs:      designs,
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	// Stateless gateway surface
	mux.HandleFunc("/api/interact", s.handleInteract)
	mux.HandleFunc("/api/design-suggestion", s.handleDesignSuggestion)
	mux.HandleFunc("/api/state", s.handleState)

	// /sessions           → POST: open a console session
	// /sessions/{id}      → GET: session + timeline
	// /sessions/{id}/...  → messages, audio, persona, recording
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withMetrics, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type interactRequest struct {
	ModeID        string                `json:"modeId"`
	AudioBase64   string                `json:"audioBase64,omitempty"`
	Prompt        string                `json:"prompt,omitempty"`
	History       []domain.HistoryEntry `json:"history"`
	Connectors    []domain.ConnectorRef `json:"connectors"`
	DesignProfile domain.DesignProfile  `json:"designProfile"`
}

type interactResponse struct {
	Text             string   `json:"text"`
	ConnectorContext []string `json:"connectorContext"`
	Raw              string   `json:"raw,omitempty"`
}

type designSuggestionRequest struct {
	Profile domain.DesignProfile `json:"profile"`
}

type designSuggestionResponse struct {
	Suggestion domain.DesignSuggestion `json:"suggestion"`
	Source     string                  `json:"source"`
	Warning    string                  `json:"warning,omitempty"`
}

type messageResponse struct {
	ID               string    `json:"id"`
	Role             string    `json:"role"`
	Text             string    `json:"text"`
	PersonaID        string    `json:"persona_id"`
	CreatedAt        time.Time `json:"created_at"`
	ConnectorContext []string  `json:"connector_context,omitempty"`
}

type sessionResponse struct {
	ID              string            `json:"id"`
	Status          string            `json:"status"`
	ActivePersonaID string            `json:"active_persona_id"`
	LastError       string            `json:"last_error,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Messages        []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendAudioRequest struct {
	AudioBase64 string `json:"audio_base64"`
}

type selectPersonaRequest struct {
	PersonaID string `json:"persona_id"`
}

// ─────────────────────────────────────────────
// Gateway handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req interactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.ModeID == "" {
		badRequest(w, "modeId is required")
		return
	}

	out, err := s.interactions.Interact(r.Context(), interaction.InteractInput{
		PersonaID:   domain.PersonaID(req.ModeID),
		Prompt:      req.Prompt,
		AudioBase64: req.AudioBase64,
		History:     req.History,
		Connectors:  req.Connectors,
		Design:      req.DesignProfile,
	})
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, interactResponse{
		Text:             out.Text,
		ConnectorContext: out.ConnectorContext,
		Raw:              out.Raw,
	})
}

func (s *Server) handleDesignSuggestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req designSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	// Never fails: the service falls back to an on-device suggestion.
	out := s.designs.Suggest(r.Context(), req.Profile)

	writeJSON(w, http.StatusOK, designSuggestionResponse{
		Suggestion: out.Suggestion,
		Source:     string(out.Source),
		Warning:    out.Warning,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		state := s.interactions.State()
		writeJSON(w, http.StatusOK, state)
	case http.MethodPut:
		var state domain.ConsoleState
		if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		s.interactions.ReplaceState(r.Context(), state)
		writeJSON(w, http.StatusOK, s.interactions.State())
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Session routing
// ─────────────────────────────────────────────

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} plus /sessions/{id}/{messages|audio|persona|recording/...}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	// Every log line below this point carries the session id.
	r = r.WithContext(observability.WithSessionID(r.Context(), string(id)))

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetSession(w, r, id)
		return
	}

	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "messages":
		s.handleSendMessage(w, r, id)
	case len(parts) == 2 && parts[1] == "audio":
		s.handleSendAudio(w, r, id)
	case len(parts) == 2 && parts[1] == "persona":
		s.handleSelectPersona(w, r, id)
	case len(parts) == 3 && parts[1] == "recording" && parts[2] == "start":
		s.handleStartRecording(w, r, id)
	case len(parts) == 3 && parts[1] == "recording" && parts[2] == "stop":
		s.handleStopRecording(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Session handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	out, err := s.interactions.StartSession(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(out.Session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, err := s.interactions.GetSession(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.interactions.Submit(r.Context(), interaction.SubmitInput{
		SessionID: id,
		Text:      req.Text,
	})
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(out.Session))
}

func (s *Server) handleSendAudio(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	payload, err := decodeAudioField(req.AudioBase64)
	if err != nil {
		badRequest(w, "audio_base64 is not valid base64")
		return
	}

	out, err := s.interactions.Submit(r.Context(), interaction.SubmitInput{
		SessionID: id,
		Audio:     payload,
	})
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(out.Session))
}

func (s *Server) handleSelectPersona(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req selectPersonaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.PersonaID == "" {
		badRequest(w, "persona_id is required")
		return
	}

	session, err := s.interactions.SelectPersona(r.Context(), id, domain.PersonaID(req.PersonaID))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, err := s.interactions.StartRecording(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	out, err := s.interactions.StopRecording(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(out.Session))
}

func decodeAudioField(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	return audio.Decode(encoded)
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:               string(m.ID),
		Role:             string(m.Role),
		Text:             m.Text,
		PersonaID:        string(m.PersonaID),
		CreatedAt:        m.CreatedAt,
		ConnectorContext: m.ConnectorContext,
	}
}

func toSessionResponse(sess *domain.Session) sessionResponse {
	msgs := make([]messageResponse, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return sessionResponse{
		ID:              string(sess.ID),
		Status:          string(sess.Status),
		ActivePersonaID: string(sess.ActivePersonaID),
		LastError:       sess.LastError,
		CreatedAt:       sess.CreatedAt,
		UpdatedAt:       sess.UpdatedAt,
		Messages:        msgs,
	}
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

// writeGatewayError maps service errors to the {error} wire shape.
func writeGatewayError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var ue *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPersonaNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSubmissionInFlight):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamNotConfigured):
		status = http.StatusInternalServerError
	case errors.As(err, &ue):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
