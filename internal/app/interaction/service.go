package interaction

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/lumen-console/internal/app/audio"
	"github.com/PabloGalante/lumen-console/internal/domain"
	"github.com/PabloGalante/lumen-console/internal/metrics"
	"github.com/PabloGalante/lumen-console/internal/observability"
)

// historyLimit is how many trimmed messages accompany an outbound request,
// oldest first.
const historyLimit = 12

// placeholderReply substitutes a successful response that carried no usable
// text. A malformed-but-successful response is never treated as fatal.
const placeholderReply = "I don't have a good answer for that yet — could you rephrase it?"

// Service is the interaction orchestrator: it owns every session state
// transition, turns user input (typed text or a finished audio capture) into
// a request, and folds the response back into the session timeline.
type Service struct {
	llm      domain.GenerativeClient
	sessions domain.SessionStore
	states   domain.StateStore
	speech   domain.SpeechSink
	source   domain.AudioSource

	autoSpeak  bool
	minCapture time.Duration

	now  func() time.Time
	pick func(n int) int // uniform pick in [0,n); seam for deterministic tests

	// mu guards the console state, the open captures, and every session
	// status transition. Sessions come back from the store as live pointers,
	// so the single-slot guard is only safe when the check and the flip to
	// processing happen under the same lock.
	mu       sync.Mutex
	state    *domain.ConsoleState
	captures map[domain.SessionID]*audio.Capture
}

// Options tunes optional service behavior.
type Options struct {
	Speech     domain.SpeechSink
	Source     domain.AudioSource
	AutoSpeak  bool
	MinCapture time.Duration
	Now        func() time.Time
	Pick       func(n int) int
}

// NewService wires the orchestrator. The console state is loaded from the
// state store once; missing or corrupt data falls back to built-in defaults
// without surfacing an error.
func NewService(
	ctx context.Context,
	llm domain.GenerativeClient,
	sessions domain.SessionStore,
	states domain.StateStore,
	opts Options,
) *Service {
	log := observability.LoggerFromContext(ctx)

	state, err := states.Load(ctx)
	if err != nil || state == nil {
		if err != nil {
			log.Warn("could not load console state, using defaults", "error", err)
		}
		state = domain.DefaultConsoleState()
	}
	if state.PersonaByID(state.ActivePersonaID) == nil && len(state.Personas) > 0 {
		state.ActivePersonaID = state.Personas[0].ID
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pick := opts.Pick
	if pick == nil {
		pick = defaultPick
	}
	minCapture := opts.MinCapture
	if minCapture <= 0 {
		minCapture = audio.DefaultMinDuration
	}

	return &Service{
		llm:        llm,
		sessions:   sessions,
		states:     states,
		speech:     opts.Speech,
		source:     opts.Source,
		autoSpeak:  opts.AutoSpeak,
		minCapture: minCapture,
		now:        now,
		pick:       pick,
		state:      state,
		captures:   make(map[domain.SessionID]*audio.Capture),
	}
}

// ─────────────────────────────────────────────
// Console session lifecycle
// ─────────────────────────────────────────────

type StartSessionOutput struct {
	Session *domain.Session
}

// StartSession opens a new console session seeded with the active persona's
// synthesized opener.
func (s *Service) StartSession(ctx context.Context) (*StartSessionOutput, error) {
	now := s.now()

	s.mu.Lock()
	persona := s.state.PersonaByID(s.state.ActivePersonaID)
	s.mu.Unlock()
	if persona == nil {
		return nil, domain.ErrPersonaNotFound
	}

	session := &domain.Session{
		ID:              domain.SessionID(uuid.NewString()),
		ActivePersonaID: persona.ID,
		Status:          domain.StatusIdle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	session.Append(s.synthesizeOpener(persona, now))

	if err := s.sessions.CreateSession(session); err != nil {
		return nil, err
	}
	metrics.SessionsStarted.Inc()

	observability.LoggerFromContext(ctx).Info("console session started",
		"session_id", session.ID,
		"persona_id", persona.ID,
	)

	return &StartSessionOutput{Session: session}, nil
}

// GetSession returns the live session for rendering.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.sessions.GetSession(id)
}

// ─────────────────────────────────────────────
// Submit
// ─────────────────────────────────────────────

type SubmitInput struct {
	SessionID domain.SessionID
	Text      string
	Audio     []byte
}

type SubmitOutput struct {
	Session          *domain.Session
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}

// Submit runs one interaction: append the user message, call the generative
// backend, fold the reply back in. Exactly one of Text or Audio must be
// non-empty for a request to go out; an empty submission only resets the
// session status to idle. A submit while another is processing is rejected
// with domain.ErrSubmissionInFlight and leaves the session untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	session, err := s.sessions.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"persona_id", session.ActivePersonaID,
	)

	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.Audio) == 0 {
		s.mu.Lock()
		session.Idle()
		s.mu.Unlock()
		if err := s.sessions.UpdateSession(session); err != nil {
			return nil, err
		}
		log.Info("empty submission, nothing sent")
		return &SubmitOutput{Session: session}, nil
	}

	s.mu.Lock()
	if err := session.BeginProcessing(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	persona := s.state.PersonaByID(session.ActivePersonaID)
	connectors := append([]domain.ConnectorRef(nil), s.state.Connectors...)
	design := s.state.DesignProfile
	s.mu.Unlock()
	if persona == nil {
		s.mu.Lock()
		session.Fail("active persona is gone from the console state")
		s.mu.Unlock()
		_ = s.sessions.UpdateSession(session)
		return &SubmitOutput{Session: session}, nil
	}

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Role:      domain.RoleUser,
		Text:      text,
		PersonaID: persona.ID,
		CreatedAt: s.now(),
	}
	if userMsg.Text == "" {
		// Audio-only submission: synthesize a user-facing label.
		userMsg.Text = persona.Name + " · " + persona.Tone + " · voice capture"
	}
	s.mu.Lock()
	session.Append(userMsg)
	session.UpdatedAt = s.now()
	history := trimHistory(session.Messages)
	s.mu.Unlock()
	if err := s.sessions.UpdateSession(session); err != nil {
		return nil, err
	}

	req := domain.GenerateRequest{
		Persona:    *persona,
		Prompt:     text,
		History:    history,
		Connectors: connectors,
		Design:     design,
	}
	if len(in.Audio) > 0 {
		req.AudioBase64 = audio.Encode(in.Audio)
	}

	log.Info("dispatching interaction",
		"has_audio", len(in.Audio) > 0,
		"history_len", len(req.History),
	)

	var resp *domain.GenerateResponse
	if s.llm == nil {
		err = domain.ErrUpstreamNotConfigured
	} else {
		start := time.Now()
		resp, err = s.llm.Generate(ctx, req)
		metrics.InteractionLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		reason := domain.FailureReason(err)
		metrics.InteractionFailures.WithLabelValues("upstream").Inc()
		log.Error("interaction failed", "error", err)

		s.mu.Lock()
		session.Fail(reason)
		session.UpdatedAt = s.now()
		s.mu.Unlock()
		if uerr := s.sessions.UpdateSession(session); uerr != nil {
			return nil, uerr
		}
		return &SubmitOutput{Session: session, UserMessage: userMsg}, nil
	}

	replyText := strings.TrimSpace(resp.Text)
	if replyText == "" {
		log.Warn("upstream returned no usable text, substituting placeholder")
		replyText = placeholderReply
	}

	assistantMsg := &domain.Message{
		ID:               domain.MessageID(uuid.NewString()),
		Role:             domain.RoleAssistant,
		Text:             replyText,
		PersonaID:        persona.ID,
		CreatedAt:        s.now(),
		ConnectorContext: domain.ActiveConnectorContext(connectors),
	}
	s.mu.Lock()
	session.Append(assistantMsg)
	session.CompleteProcessing()
	session.UpdatedAt = s.now()
	s.mu.Unlock()
	if err := s.sessions.UpdateSession(session); err != nil {
		return nil, err
	}

	s.speakAsync(replyText)

	log.Info("interaction completed", "reply_len", len(replyText))

	return &SubmitOutput{
		Session:          session,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// speakAsync pushes the assistant text to the speech sink without blocking.
// The sink's outcome never feeds back into the state machine.
func (s *Service) speakAsync(text string) {
	if !s.autoSpeak || s.speech == nil {
		return
	}
	go func() {
		if err := s.speech.Speak(context.Background(), text); err != nil {
			observability.Logger().Warn("speech playback failed", "error", err)
		}
	}()
}

// ─────────────────────────────────────────────
// Persona switch
// ─────────────────────────────────────────────

// SelectPersona hard-resets the session to a single synthesized opener for
// the newly selected persona. Prior conversation is discarded, not archived.
func (s *Service) SelectPersona(ctx context.Context, sessionID domain.SessionID, personaID domain.PersonaID) (*domain.Session, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	persona := s.state.PersonaByID(personaID)
	if persona == nil {
		s.mu.Unlock()
		return nil, domain.ErrPersonaNotFound
	}
	s.state.ActivePersonaID = personaID
	stateCopy := *s.state
	session.ResetTo(personaID, s.synthesizeOpener(persona, s.now()))
	session.UpdatedAt = s.now()
	s.mu.Unlock()

	if err := s.sessions.UpdateSession(session); err != nil {
		return nil, err
	}

	s.persistState(ctx, &stateCopy)

	observability.LoggerFromContext(ctx).Info("persona selected",
		"session_id", session.ID,
		"persona_id", personaID,
	)

	return session, nil
}

// synthesizeOpener picks one of the persona's default openers uniformly at
// random, with a fixed fallback when the list is empty.
func (s *Service) synthesizeOpener(persona *domain.Persona, at time.Time) *domain.Message {
	text := domain.DefaultOpenerFallback
	if n := len(persona.DefaultOpeners); n > 0 {
		text = persona.DefaultOpeners[s.pick(n)]
	}
	return &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Role:      domain.RoleAssistant,
		Text:      text,
		PersonaID: persona.ID,
		CreatedAt: at,
	}
}

// ─────────────────────────────────────────────
// Recording
// ─────────────────────────────────────────────

// StartRecording opens an audio capture for the session. Device or
// permission failures park the session in error without starting a capture.
func (s *Service) StartRecording(ctx context.Context, sessionID domain.SessionID) (*domain.Session, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if session.Status == domain.StatusRecording {
		s.mu.Unlock()
		return session, nil
	}
	if err := session.BeginRecording(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if s.source == nil {
		s.mu.Lock()
		session.Fail("audio capture is not available on this console")
		s.mu.Unlock()
		_ = s.sessions.UpdateSession(session)
		return session, nil
	}

	capture, err := audio.Acquire(ctx, s.source, s.minCapture)
	if err != nil {
		metrics.InteractionFailures.WithLabelValues("device").Inc()
		log.Error("audio capture failed to start", "error", err)
		s.mu.Lock()
		session.Fail(domain.FailureReason(err))
		s.mu.Unlock()
		_ = s.sessions.UpdateSession(session)
		return session, nil
	}

	s.mu.Lock()
	s.captures[session.ID] = capture
	session.UpdatedAt = s.now()
	s.mu.Unlock()

	if err := s.sessions.UpdateSession(session); err != nil {
		capture.Release()
		return nil, err
	}

	log.Info("recording started")
	return session, nil
}

// StopRecording finalizes the capture. An empty payload returns the session
// to idle without appending a message or sending a request; a non-empty one
// flows through Submit as an audio submission.
func (s *Service) StopRecording(ctx context.Context, sessionID domain.SessionID) (*SubmitOutput, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	capture := s.captures[sessionID]
	delete(s.captures, sessionID)
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	if capture == nil {
		s.mu.Lock()
		session.Idle()
		s.mu.Unlock()
		if err := s.sessions.UpdateSession(session); err != nil {
			return nil, err
		}
		return &SubmitOutput{Session: session}, nil
	}

	payload, err := capture.Finalize()
	if err != nil {
		metrics.InteractionFailures.WithLabelValues("device").Inc()
		log.Error("finalizing capture failed", "error", err)
		s.mu.Lock()
		session.Fail(domain.FailureReason(err))
		session.UpdatedAt = s.now()
		s.mu.Unlock()
		if uerr := s.sessions.UpdateSession(session); uerr != nil {
			return nil, uerr
		}
		return &SubmitOutput{Session: session}, nil
	}

	if len(payload) == 0 {
		log.Info("capture was empty, nothing sent")
		s.mu.Lock()
		session.Idle()
		session.UpdatedAt = s.now()
		s.mu.Unlock()
		if err := s.sessions.UpdateSession(session); err != nil {
			return nil, err
		}
		return &SubmitOutput{Session: session}, nil
	}

	return s.Submit(ctx, SubmitInput{SessionID: sessionID, Audio: payload})
}

// ─────────────────────────────────────────────
// Gateway pass-through
// ─────────────────────────────────────────────

type InteractInput struct {
	PersonaID   domain.PersonaID
	Prompt      string
	AudioBase64 string
	History     []domain.HistoryEntry
	Connectors  []domain.ConnectorRef
	Design      domain.DesignProfile
}

type InteractOutput struct {
	Text             string
	ConnectorContext []string
	Raw              string
}

// Interact is the stateless gateway operation behind POST /api/interact: it
// resolves the persona, forwards the bundle upstream and shapes the reply.
// No session is involved; the caller owns its own history.
func (s *Service) Interact(ctx context.Context, in InteractInput) (*InteractOutput, error) {
	if s.llm == nil {
		return nil, domain.ErrUpstreamNotConfigured
	}

	s.mu.Lock()
	persona := s.state.PersonaByID(in.PersonaID)
	s.mu.Unlock()
	if persona == nil {
		return nil, domain.ErrPersonaNotFound
	}

	history := in.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	start := time.Now()
	resp, err := s.llm.Generate(ctx, domain.GenerateRequest{
		Persona:     *persona,
		Prompt:      in.Prompt,
		AudioBase64: in.AudioBase64,
		History:     history,
		Connectors:  in.Connectors,
		Design:      in.Design,
	})
	metrics.InteractionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InteractionFailures.WithLabelValues("upstream").Inc()
		return nil, err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = placeholderReply
	}

	return &InteractOutput{
		Text:             text,
		ConnectorContext: domain.ActiveConnectorContext(in.Connectors),
		Raw:              resp.Raw,
	}, nil
}

// ─────────────────────────────────────────────
// Console state
// ─────────────────────────────────────────────

// State returns a copy of the current console state.
func (s *Service) State() domain.ConsoleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// ReplaceState swaps the console state (personas, connectors, design
// profile, active persona) and persists it.
func (s *Service) ReplaceState(ctx context.Context, state domain.ConsoleState) {
	s.mu.Lock()
	s.state = &state
	stateCopy := state
	s.mu.Unlock()

	s.persistState(ctx, &stateCopy)
}

// persistState writes the blob through the state store. Persistence failures
// are logged and counted, never surfaced to the user.
func (s *Service) persistState(ctx context.Context, state *domain.ConsoleState) {
	if err := s.states.Save(ctx, state); err != nil {
		metrics.StateSaves.WithLabelValues("error").Inc()
		observability.LoggerFromContext(ctx).Warn("persisting console state failed", "error", err)
		return
	}
	metrics.StateSaves.WithLabelValues("ok").Inc()
}

func defaultPick(n int) int {
	return rand.Intn(n)
}

// trimHistory reduces the timeline to the most recent historyLimit entries,
// oldest first, each cut down to role, text and persona.
func trimHistory(messages []*domain.Message) []domain.HistoryEntry {
	start := 0
	if len(messages) > historyLimit {
		start = len(messages) - historyLimit
	}
	out := make([]domain.HistoryEntry, 0, len(messages)-start)
	for _, m := range messages[start:] {
		out = append(out, domain.HistoryEntry{
			Role:      m.Role,
			Text:      m.Text,
			PersonaID: m.PersonaID,
		})
	}
	return out
}
