//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const idempotencyHeader = "Idempotency-Key"

// PerformRequest sends body as JSON; a non-empty authToken becomes a bearer header.
func PerformRequest(t *testing.T, router http.Handler, method, path string, body any, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var headers map[string]string
	if authToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + authToken}
	}
	return PerformRequestWithHeaders(t, router, method, path, body, headers)
}

func PerformRequestWithHeaders(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// PostCheckout submits a cart to POST /reservations under the given idempotency key.
func PostCheckout(t *testing.T, router http.Handler, key string, cart any) *httptest.ResponseRecorder {
	t.Helper()
	return PerformRequestWithHeaders(t, router, http.MethodPost, "/reservations", cart,
		map[string]string{idempotencyHeader: key})
}

// DecodeJSON fails the test when the body is not a T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "Failed to decode response body: %s", w.Body.String())
	return v
}
