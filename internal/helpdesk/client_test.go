package helpdesk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/config"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	cfg := config.HelpdeskConfig{
		Subdomain: server.URL,
		Email:     "agent@acme.test",
		APIToken:  "api-token",
	}
	return NewClient(cfg, server.Client(), zap.NewNop())
}

func TestClient_UploadAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/uploads.json", r.URL.Path)
		assert.Equal(t, "broken mug.png", r.URL.Query().Get("filename"))
		assert.Equal(t, "filename=broken%20mug.png", r.URL.RawQuery)
		assert.Equal(t, "application/binary", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "agent@acme.test/token", user)
		assert.Equal(t, "api-token", pass)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"upload":{"token":"tok-123"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.UploadAttachment(context.Background(), "broken mug.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.True(t, resp.OK())

	token, err := ParseUploadToken(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestClient_CreateRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/requests.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "agent@acme.test/token", user)

		var raw map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		comment := raw["request"]["comment"].(map[string]any)
		_, hasUploads := comment["uploads"]
		assert.False(t, hasUploads)
		assert.Equal(t, "Broken item", raw["request"]["subject"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"request":{"id":1}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.CreateRequest(context.Background(), TicketRequest{Request: RequestBody{
		Subject:   "Broken item",
		Comment:   Comment{Body: "It arrived cracked"},
		Requester: Requester{Name: "Jane Doe", Email: "jane@example.com"},
	}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_NonSuccessIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Couldn't authenticate you"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.CreateRequest(context.Background(), TicketRequest{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "authenticate")
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateRequest(context.Background(), TicketRequest{})
	require.Error(t, err)
}

func TestParseUploadToken(t *testing.T) {
	_, err := ParseUploadToken([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseUploadToken([]byte(`{"upload":{}}`))
	require.ErrorIs(t, err, ErrMissingUploadToken)
}
