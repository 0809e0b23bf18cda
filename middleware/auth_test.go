package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func identityProbe(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := UserIDFromContext(r.Context()); ok {
			*got = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityResolvesBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var got string
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "user-42"))
	rec := httptest.NewRecorder()
	Identity(identityProbe(&got)).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", got)
}

func TestIdentityIgnoresBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var got string
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "user-42"))
	rec := httptest.NewRecorder()
	Identity(identityProbe(&got)).ServeHTTP(rec, r)

	// bad signature: the request passes through anonymously
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}

func TestIdentityIgnoresMissingHeader(t *testing.T) {
	var got string
	r := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	Identity(identityProbe(&got)).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}

func TestIdentityRejectsTokenWithoutSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var got string
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", ""))
	rec := httptest.NewRecorder()
	Identity(identityProbe(&got)).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())

	r = httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(WithUserID(r.Context(), "user-42"))
	rec = httptest.NewRecorder()
	handler(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
