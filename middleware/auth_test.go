package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	var seenUserID string
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/messages/rooms", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder, seenUserID
}

func TestAuthAcceptsValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"id": "alice"}, testSecret)

	recorder, userID := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", userID)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	recorder, _ := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"id": "alice"}, "other-secret")

	recorder, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRejectsTokenWithoutID(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "alice"}, testSecret)

	recorder, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
