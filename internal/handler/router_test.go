//go:build unit

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		ping       error
		wantStatus int
		wantBody   string
	}{
		{name: "database reachable", wantStatus: http.StatusOK, wantBody: `{"database":"ok","status":"ok"}`},
		{name: "database down", ping: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable,
			wantBody: `{"database":"connection refused","status":"unavailable"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", healthCheck(pingerFunc(func(ctx context.Context) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tc.ping
			})))

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}
