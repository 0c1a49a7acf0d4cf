package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// okHandler records the owner ID the middleware resolved.
func okHandler(gotOwner *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ := shared.OwnerID(r.Context())
		*gotOwner = owner
		w.WriteHeader(http.StatusOK)
	})
}

func newMiddleware(t *testing.T) *AuthMiddleware {
	t.Helper()
	verifier, err := auth.NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	return NewAuthMiddleware(verifier)
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid_token_sets_owner", func(t *testing.T) {
		m := newMiddleware(t)
		token, err := auth.Sign(testSecret, "user-42", time.Hour)
		require.NoError(t, err)

		var gotOwner string
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		m.Authenticate(okHandler(&gotOwner)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-42", gotOwner)
	})

	t.Run("missing_header", func(t *testing.T) {
		m := newMiddleware(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

		var gotOwner string
		m.Authenticate(okHandler(&gotOwner)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, gotOwner, "handler must not run without a token")
	})

	t.Run("malformed_header", func(t *testing.T) {
		m := newMiddleware(t)

		for _, header := range []string{"Bearer", "Basic abc", "Bearertoken"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.Header.Set("Authorization", header)

			var gotOwner string
			m.Authenticate(okHandler(&gotOwner)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		m := newMiddleware(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		var gotOwner string
		m.Authenticate(okHandler(&gotOwner)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid token", body.Error)
	})

	t.Run("expired_token", func(t *testing.T) {
		m := newMiddleware(t)
		token, err := auth.Sign(testSecret, "user-42", -24*time.Hour)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		var gotOwner string
		m.Authenticate(okHandler(&gotOwner)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Token expired", body.Error)
	})
}

func TestTraceMiddleware(t *testing.T) {
	var gotTraceID string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, gotTraceID, 32)
}
