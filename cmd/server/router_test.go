package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/api"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/mocks"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
)

const testJWTSecret = "thisisasecretkeythatis32charslong!!"

// newTestApplication builds an application wired to an in-memory task
// store and a real HMAC token verifier, skipping database setup.
func newTestApplication(t *testing.T) (*application, *mocks.MockTaskStore) {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{Backend: config.BackendPostgres, URL: "unused"},
		Auth:     config.AuthConfig{JWTSecret: testJWTSecret},
	}

	verifier, err := auth.NewTokenVerifier(cfg.Auth)
	require.NoError(t, err)

	taskStore := mocks.NewMockTaskStore()
	app := &application{
		config:    cfg,
		logger:    slog.Default(),
		taskStore: taskStore,
		verifier:  verifier,
	}
	return app, taskStore
}

func signTestToken(t *testing.T, owner string) string {
	t.Helper()
	token, err := auth.Sign(testJWTSecret, owner, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])

	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err, "timestamp must be RFC3339")
}

func TestAPIBanner(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "message")
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "API endpoint not found", body["error"])
}

func TestTasksRequireAuthentication(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	t.Run("missing_header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		token, err := auth.Sign(testJWTSecret, "user-1", -time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthenticatedTaskLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()
	token := signTestToken(t, "user-1")

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// Create
	rec := do(http.MethodPost, "/api/tasks", map[string]any{"title": "Write report"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "user-1", created.UserID)

	// Read back
	rec = do(http.MethodGet, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Complete it
	rec = do(http.MethodPut, "/api/tasks/"+created.ID,
		map[string]any{"title": "Write report", "completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated api.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)

	// Another user's token cannot see it
	otherToken := signTestToken(t, "user-2")
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	otherRec := httptest.NewRecorder()
	router.ServeHTTP(otherRec, req)
	assert.Equal(t, http.StatusNotFound, otherRec.Code)

	// Delete
	rec = do(http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task deleted successfully")

	rec = do(http.MethodGet, "/api/tasks", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
