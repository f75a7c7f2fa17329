package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-gateway/internal/config"
)

const (
	uploadsPath  = "/api/v2/uploads.json"
	requestsPath = "/api/v2/requests.json"
)

// ErrMissingUploadToken is returned when a 2xx upload body carries no token.
var ErrMissingUploadToken = errors.New("upload response has no token")

// Client talks to the ticketing backend with API token basic auth.
type Client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client. A nil httpClient gets one with the configured timeout.
func NewClient(cfg config.HelpdeskConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	return &Client{
		baseURL:    cfg.BaseURL(),
		username:   cfg.Email + "/token",
		apiToken:   cfg.APIToken,
		httpClient: httpClient,
		logger:     logger.With(zap.String("component", "helpdesk_client")),
	}
}

// UploadAttachment posts raw file bytes. Non-2xx statuses are returned in Response, not as errors.
func (c *Client) UploadAttachment(ctx context.Context, filename string, content []byte) (Response, error) {
	endpoint := c.baseURL + uploadsPath + "?filename=" + escapeFilename(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return Response{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/binary")
	req.Header.Set("Accept", "application/json")
	return c.do(req, "upload")
}

// CreateRequest opens a ticket on behalf of the requester.
func (c *Client) CreateRequest(ctx context.Context, payload TicketRequest) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("marshal ticket request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+requestsPath, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending ticket request",
		zap.String("url", req.URL.String()),
		zap.String("username", c.username),
		zap.String("password", "***"),
		zap.ByteString("body", body),
	)
	return c.do(req, "create_request")
}

func (c *Client) do(req *http.Request, call string) (Response, error) {
	req.SetBasicAuth(c.username, c.apiToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", call, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, fmt.Errorf("%s: read response body: %w", call, err)
	}
	c.logger.Debug("backend responded",
		zap.String("call", call),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// escapeFilename percent-encodes spaces as %20 rather than '+'.
func escapeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// ParseUploadToken extracts upload.token from a successful upload body.
func ParseUploadToken(body []byte) (string, error) {
	var parsed UploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.Upload.Token == "" {
		return "", ErrMissingUploadToken
	}
	return parsed.Upload.Token, nil
}
