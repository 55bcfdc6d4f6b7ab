package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-user-server/handler"
	"github.com/stevemurr/simple-user-server/logging"
)

func TestRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestID(r.Context())
	})
	h := handler.Wrap(inner, logging.Nop(), []string{"*"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(handler.RequestIDHeader))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(handler.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(handler.RequestIDHeader))
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("wildcard", func(t *testing.T) {
		h := handler.Wrap(inner, logging.Nop(), []string{"*"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("allow list", func(t *testing.T) {
		h := handler.Wrap(inner, logging.Nop(), []string{"https://a.example"})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://a.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		h := handler.Wrap(inner, logging.Nop(), []string{"*"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/users/1", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestRecoverAndAccessLog(t *testing.T) {
	var logs bytes.Buffer
	log := logging.New(logging.Config{Format: logging.FormatJSON, Output: &logs})
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := handler.Wrap(inner, log, []string{"*"})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/users", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "panic serving request")
	assert.Contains(t, logs.String(), `"status":500`)
}
