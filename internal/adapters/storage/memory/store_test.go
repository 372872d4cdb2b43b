package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "github.com/PabloGalante/lumen-console/internal/adapters/storage/memory"
	"github.com/PabloGalante/lumen-console/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := memstore.NewSessionStore()
	session := &domain.Session{ID: "s1", Status: domain.StatusIdle}

	require.NoError(t, store.CreateSession(session))
	assert.ErrorIs(t, store.CreateSession(session), domain.ErrSessionExists)

	got, err := store.GetSession("s1")
	require.NoError(t, err)
	assert.Same(t, session, got)

	session.Status = domain.StatusProcessing
	require.NoError(t, store.UpdateSession(session))

	_, err = store.GetSession("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, store.UpdateSession(&domain.Session{ID: "missing"}), domain.ErrSessionNotFound)
}

func TestStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStateStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	state := domain.DefaultConsoleState()
	state.ActivePersonaID = "ember"
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PersonaID("ember"), got.ActivePersonaID)
	assert.Len(t, got.Personas, len(state.Personas))
}
