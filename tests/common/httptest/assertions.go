//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errorBody mirrors httperr.Response on the wire.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail map[string]any `json:"detail"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target != nil && expectedStatus < 300 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "undecodable body: %s", w.Body.String())
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) {
	t.Helper()
	decodeError(t, w, expectedStatus, expectedMsg)
}

// AssertErrorDetail also checks the listed detail keys; keys not listed are ignored.
func AssertErrorDetail(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string, detail map[string]any) {
	t.Helper()
	body := decodeError(t, w, expectedStatus, expectedMsg)
	for k, want := range detail {
		assert.Equal(t, want, body.Detail[k], "detail.%s", k)
	}
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s", k)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) errorBody {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "undecodable error body: %s", w.Body.String())
	if expectedMsg != "" {
		assert.Contains(t, body.Error.Message, expectedMsg)
	}
	return body
}
