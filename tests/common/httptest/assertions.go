//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	resdto "hotel-reservation/internal/handler/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrorBody is the envelope every failing endpoint answers with.
type ErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail map[string]any             `json:"detail"`
	Errors []resdto.LineErrorResponse `json:"errors"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON: %s", w.Body.String())
	}
}

// AssertErrorResponse checks status and message (substring, skipped when empty) and returns the body.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "Failed to decode error response JSON: %s", w.Body.String())
	if expectedMsg != "" {
		assert.Contains(t, body.Error.Message, expectedMsg)
	}
	return body
}

// AssertLineErrors expects a rejected cart reporting exactly the given lines, in order.
func AssertLineErrors(t *testing.T, w *httptest.ResponseRecorder, want ...resdto.LineErrorResponse) {
	t.Helper()

	body := AssertErrorResponse(t, w, http.StatusBadRequest, "Requested rooms are unavailable")
	assert.Equal(t, want, body.Errors)
}
