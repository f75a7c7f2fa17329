package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Ready(t *testing.T) {
	cases := []struct {
		name   string
		deps   map[string]Pinger
		status int
		body   string
	}{
		{name: "no dependencies", status: fiber.StatusOK, body: `"status":"ready"`},
		{
			name:   "all healthy",
			deps:   map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return nil })},
			status: fiber.StatusOK,
			body:   `"redis":"ok"`,
		},
		{
			name: "postgres down",
			deps: map[string]Pinger{
				"redis":    pingerFunc(func(context.Context) error { return nil }),
				"postgres": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			},
			status: fiber.StatusServiceUnavailable,
			body:   `"postgres":"connection refused"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			h := NewHealthHandler("helpdesk-gateway", "test", tc.deps)
			app.Get("/health/ready", h.Ready)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tc.body)
		})
	}
}

func TestHealthHandler_Live(t *testing.T) {
	app := fiber.New()
	app.Get("/health/live", NewHealthHandler("helpdesk-gateway", "1.2.3", nil).Live)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"version":"1.2.3"`)
}
