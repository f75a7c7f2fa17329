package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/config"
)

func newVerifier(server *httptest.Server) *Recaptcha {
	cfg := config.CaptchaConfig{SecretKey: "shh", VerifyURL: server.URL}
	return NewRecaptcha(cfg, server.Client(), zap.NewNop())
}

func TestRecaptcha_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostForm.Get("secret"))
		assert.Equal(t, "10.0.0.1", r.PostForm.Get("remoteip"))
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good" {
			_, _ = w.Write([]byte(`{"success":true,"hostname":"localhost"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	v := newVerifier(server)

	ok, err := v.Verify(context.Background(), "good", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(context.Background(), "bad", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecaptcha_EmptyTokenSkipsCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	ok, err := newVerifier(server).Verify(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)
}

func TestRecaptcha_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ok, err := newVerifier(server).Verify(context.Background(), "good", "")
	require.Error(t, err)
	assert.False(t, ok)
}
