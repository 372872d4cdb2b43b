package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/lumen-console/internal/domain"
)

func TestStateMachineTransitions(t *testing.T) {
	s := &domain.Session{Status: domain.StatusIdle}

	require.NoError(t, s.BeginRecording())
	assert.Equal(t, domain.StatusRecording, s.Status)

	require.NoError(t, s.BeginProcessing())
	assert.Equal(t, domain.StatusProcessing, s.Status)

	s.CompleteProcessing()
	assert.Equal(t, domain.StatusIdle, s.Status)

	require.NoError(t, s.BeginProcessing())
	s.Fail("boom")
	assert.Equal(t, domain.StatusError, s.Status)
	assert.Equal(t, "boom", s.LastError)

	// Error is advisory: the next user action is always accepted and
	// clears the recorded reason.
	require.NoError(t, s.BeginRecording())
	assert.Empty(t, s.LastError)
}

func TestProcessingIsSingleSlot(t *testing.T) {
	s := &domain.Session{Status: domain.StatusProcessing}

	assert.ErrorIs(t, s.BeginProcessing(), domain.ErrSubmissionInFlight)
	assert.ErrorIs(t, s.BeginRecording(), domain.ErrSubmissionInFlight)
	assert.Equal(t, domain.StatusProcessing, s.Status)
}

func TestResetToDiscardsTimeline(t *testing.T) {
	s := &domain.Session{
		Status:          domain.StatusError,
		LastError:       "old failure",
		ActivePersonaID: "aether",
		Messages: []*domain.Message{
			{ID: "1", Role: domain.RoleUser, Text: "hello"},
			{ID: "2", Role: domain.RoleAssistant, Text: "hi"},
		},
	}

	opener := &domain.Message{ID: "3", Role: domain.RoleAssistant, Text: "fresh start", PersonaID: "ember"}
	s.ResetTo("ember", opener)

	require.Len(t, s.Messages, 1)
	assert.Same(t, opener, s.Messages[0])
	assert.Equal(t, domain.PersonaID("ember"), s.ActivePersonaID)
	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Empty(t, s.LastError)
}

func TestConnectorSummary(t *testing.T) {
	c := domain.ConnectorRef{
		Name:         "Calendar",
		Capabilities: []string{"read", "write", "share", "sync"},
	}
	assert.Equal(t, "Calendar · read, write, share", c.Summary())

	bare := domain.ConnectorRef{Name: "Webhook"}
	assert.Equal(t, "Webhook", bare.Summary())
}

func TestActiveConnectorContext(t *testing.T) {
	connectors := []domain.ConnectorRef{
		{Name: "Calendar", Status: domain.ConnectorActive, Capabilities: []string{"read"}},
		{Name: "Mail", Status: domain.ConnectorPaused, Capabilities: []string{"send"}},
		{Name: "Notes", Status: domain.ConnectorDraft},
	}

	assert.Equal(t, []string{"Calendar · read"}, domain.ActiveConnectorContext(connectors))
	assert.Empty(t, domain.ActiveConnectorContext(nil))
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "upstream down", domain.FailureReason(&domain.UpstreamError{Status: 500, Message: "upstream down"}))
	assert.Equal(t, "upstream request failed with status 502", domain.FailureReason(&domain.UpstreamError{Status: 502}))
	assert.Equal(t, "dial tcp: refused", domain.FailureReason(errors.New("dial tcp: refused")))
}

func TestDefaultConsoleState(t *testing.T) {
	state := domain.DefaultConsoleState()

	require.NotEmpty(t, state.Personas)
	assert.NotNil(t, state.PersonaByID(state.ActivePersonaID))
	assert.Nil(t, state.PersonaByID("missing"))
}
