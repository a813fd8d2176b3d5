package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/shared/failure"
	"ofcoz/transport/http/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]int{"guests": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"guests": float64(2)}, decode(t, rec)["data"])
}

func TestWithError(t *testing.T) {
	t.Run("failure carries reason", func(t *testing.T) {
		rec := httptest.NewRecorder()

		response.WithError(rec, failure.SlotConflict("room 2 is taken"))

		body := decode(t, rec)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "room 2 is taken", body["error"])
		assert.NotEmpty(t, body["reason"])
	})

	t.Run("plain error is internal", func(t *testing.T) {
		rec := httptest.NewRecorder()

		response.WithError(rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWithJSON_UnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["message"])
}
