package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/frotalog/frotalog/internal/middleware"
)

// serveLogged runs one request with the given status through the logger
// and returns the decoded log line, or nil when nothing was written.
func serveLogged(t *testing.T, level slog.Level, path string, status int) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))

	h := middleware.NewSlogLogger(logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{}`))
		}),
	)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	// Simulate what chimiddleware.RequestID does: inject a known ID into context.
	ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, "test-req-id")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, status, rec.Code)

	if buf.Len() == 0 {
		return nil
	}
	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	return logEntry
}

// TestSlogLogger_logsRequestFields verifies that the SlogLogger middleware
// writes a structured JSON log line containing method, path, status, size,
// duration, and the request ID placed in context by chi's RequestID middleware.
func TestSlogLogger_logsRequestFields(t *testing.T) {
	logEntry := serveLogged(t, slog.LevelInfo, "/api/departures", http.StatusCreated)

	require.NotNil(t, logEntry)
	require.Equal(t, "INFO", logEntry["level"])
	require.Equal(t, "POST", logEntry["method"])
	require.Equal(t, "/api/departures", logEntry["path"])
	require.EqualValues(t, http.StatusCreated, logEntry["status"])
	require.EqualValues(t, 2, logEntry["bytes"])
	require.Equal(t, "test-req-id", logEntry["request_id"])
	require.NotEmpty(t, logEntry["remote_addr"])
	require.NotNil(t, logEntry["duration_ms"])
}

func TestSlogLogger_levelFollowsStatus(t *testing.T) {
	require.Equal(t, "WARN", serveLogged(t, slog.LevelInfo, "/api/departures", http.StatusConflict)["level"])
	require.Equal(t, "ERROR", serveLogged(t, slog.LevelInfo, "/api/departures", http.StatusInternalServerError)["level"])
}

func TestSlogLogger_probesLogAtDebug(t *testing.T) {
	require.Nil(t, serveLogged(t, slog.LevelInfo, "/healthz", http.StatusOK), "hidden at info")
	require.Equal(t, "DEBUG", serveLogged(t, slog.LevelDebug, "/metrics", http.StatusOK)["level"])
	require.Equal(t, "ERROR", serveLogged(t, slog.LevelInfo, "/healthz", http.StatusServiceUnavailable)["level"])
}
