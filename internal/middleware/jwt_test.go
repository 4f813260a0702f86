package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("jane")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "jane", claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestApplyJWTMiddleware(t *testing.T) {
	var gotUsername string
	handler := ApplyJWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, "/pins")

	// No Authorization header: rejected.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/pins", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid bearer token: passed through with the username in context.
	token, err := GenerateToken("jane")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/pins", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane", gotUsername)
}

func TestUnprotectedRoutesSkipAuth(t *testing.T) {
	handler := ApplyJWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "/health")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
