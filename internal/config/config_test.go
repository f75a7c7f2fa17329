package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setHelpdeskEnv(t *testing.T) {
	t.Setenv("ZENDESK_SUBDOMAIN", "acme.zendesk.com")
	t.Setenv("ZENDESK_USER_EMAIL", "support@acme.test")
	t.Setenv("ZENDESK_API_TOKEN", "secret-token")
}

func TestLoad_Defaults(t *testing.T) {
	setHelpdeskEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("RECAPTCHA_SECRET_KEY", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")
	t.Setenv("HELPDESK_TIMEOUT_SECONDS", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "https://acme.zendesk.com", cfg.Helpdesk.BaseURL())
	assert.Equal(t, 30*time.Second, cfg.Helpdesk.Timeout())
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.False(t, cfg.Captcha.Enabled())
	assert.Equal(t, 10, cfg.RateLimit.PerMinute)
}

func TestLoad_PortFallback(t *testing.T) {
	setHelpdeskEnv(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8081", cfg.App.Addr())
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("ZENDESK_SUBDOMAIN", "acme.zendesk.com")
	t.Setenv("ZENDESK_USER_EMAIL", "")
	t.Setenv("ZENDESK_API_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZENDESK_USER_EMAIL")
	assert.Contains(t, err.Error(), "ZENDESK_API_TOKEN")
}

func TestLoad_CaptchaEnabled(t *testing.T) {
	setHelpdeskEnv(t)
	t.Setenv("RECAPTCHA_SITE_KEY", "site")
	t.Setenv("RECAPTCHA_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Captcha.Enabled())
	assert.Equal(t, "site", cfg.Captcha.SiteKey)
}

func TestHelpdeskConfig_BaseURLKeepsScheme(t *testing.T) {
	h := HelpdeskConfig{Subdomain: "http://127.0.0.1:9999/"}
	assert.Equal(t, "http://127.0.0.1:9999", h.BaseURL())
}
