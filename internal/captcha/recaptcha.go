package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/config"
)

// ResponseField is the form field the reCAPTCHA widget posts.
const ResponseField = "g-recaptcha-response"

// Verifier checks a CAPTCHA response token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Recaptcha verifies reCAPTCHA v2 tokens against the siteverify endpoint.
type Recaptcha struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRecaptcha builds a verifier from config.
func NewRecaptcha(cfg config.CaptchaConfig, httpClient *http.Client, logger *zap.Logger) *Recaptcha {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Recaptcha{
		secret:     cfg.SecretKey,
		verifyURL:  cfg.VerifyURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Verify returns false without a network call when token is empty.
func (r *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("siteverify: unexpected status %d", resp.StatusCode)
	}

	var parsed siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}
	if !parsed.Success {
		r.logger.Info("recaptcha rejected", zap.Strings("error_codes", parsed.ErrorCodes))
	}
	return parsed.Success, nil
}
