package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/lumen-console/internal/adapters/http"
	"github.com/PabloGalante/lumen-console/internal/adapters/llm"
	memstore "github.com/PabloGalante/lumen-console/internal/adapters/storage/memory"
	"github.com/PabloGalante/lumen-console/internal/app/design"
	"github.com/PabloGalante/lumen-console/internal/app/interaction"
	"github.com/PabloGalante/lumen-console/internal/domain"
)

func newTestServer(t *testing.T, mock *llm.MockClient) http.Handler {
	t.Helper()

	var generative domain.GenerativeClient
	if mock != nil {
		generative = mock
	}

	svc := interaction.NewService(
		context.Background(),
		generative,
		memstore.NewSessionStore(),
		memstore.NewStateStore(),
		interaction.Options{Pick: func(n int) int { return 0 }},
	)
	return httpadapter.NewServer(svc, design.NewService(nil))
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestInteract(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = "hi there"
	srv := newTestServer(t, mock)

	w := doJSON(t, srv, http.MethodPost, "/api/interact", map[string]any{
		"modeId": "aether",
		"prompt": "hello",
		"connectors": []map[string]any{
			{"id": "c1", "name": "Calendar", "status": "active", "capabilities": []string{"read"}},
			{"id": "c2", "name": "Mail", "status": "paused", "capabilities": []string{"send"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "hi there", resp["text"])
	assert.Equal(t, []any{"Calendar · read"}, resp["connectorContext"])
}

func TestInteractRequiresModeID(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/api/interact", map[string]any{"prompt": "hi"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "modeId is required", resp["error"])
}

func TestInteractWithoutCredentialIsFixed500(t *testing.T) {
	srv := newTestServer(t, nil)

	w := doJSON(t, srv, http.MethodPost, "/api/interact", map[string]any{
		"modeId": "aether",
		"prompt": "hello",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeBody[map[string]string](t, w)
	assert.Contains(t, resp["error"], "not configured")
}

func TestInteractUpstreamErrorBody(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = &domain.UpstreamError{Status: 500, Message: "upstream down"}
	srv := newTestServer(t, mock)

	w := doJSON(t, srv, http.MethodPost, "/api/interact", map[string]any{
		"modeId": "aether",
		"prompt": "hello",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)

	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "upstream down", resp["error"])
}

func TestDesignSuggestionFallsBack(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodPost, "/api/design-suggestion", map[string]any{
		"profile": map[string]any{
			"accent":     "#6c8cff",
			"background": "#10131a",
			"surface":    "#1b2030",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "fallback", resp["source"])
	require.NotNil(t, resp["suggestion"])
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Reply = "hi there"
	srv := newTestServer(t, mock)

	// Open a console session.
	w := doJSON(t, srv, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeBody[map[string]any](t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "idle", created["status"])
	assert.Equal(t, "aether", created["active_persona_id"])

	// Send a message.
	w = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/messages", map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	afterSend := decodeBody[map[string]any](t, w)
	msgs, _ := afterSend["messages"].([]any)
	require.Len(t, msgs, 3) // opener, user, assistant

	last, _ := msgs[2].(map[string]any)
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "hi there", last["text"])

	// Switch persona: hard reset to a single opener.
	w = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/persona", map[string]string{"persona_id": "ember"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	afterSwitch := decodeBody[map[string]any](t, w)
	msgs, _ = afterSwitch["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ember", afterSwitch["active_persona_id"])

	// Fetch it back.
	w = doJSON(t, srv, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodGet, "/sessions/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStateRoundTrip(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	w := doJSON(t, srv, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[domain.ConsoleState](t, w)
	require.NotEmpty(t, state.Personas)

	state.Connectors = []domain.ConnectorRef{
		{ID: "c1", Name: "Calendar", Status: domain.ConnectorActive, Capabilities: []string{"read"}},
	}

	w = doJSON(t, srv, http.MethodPut, "/api/state", state)
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[domain.ConsoleState](t, w)
	require.Len(t, updated.Connectors, 1)
	assert.Equal(t, domain.ConnectorID("c1"), updated.Connectors[0].ID)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, llm.NewMockClient())

	req := httptest.NewRequest(http.MethodOptions, "/api/interact", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
