package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kis-tradegw/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewService("kis-tradegw", []byte("secret"), time.Hour, string(hash))
}

func protectedEcho(svc *auth.Service) http.Handler {
	return WithAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := Subject(r)
		w.Write([]byte(sub))
	}))
}

func TestWithAuthMissingToken(t *testing.T) {
	h := protectedEcho(newAuthService(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthInvalidToken(t *testing.T) {
	h := protectedEcho(newAuthService(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthValidToken(t *testing.T) {
	svc := newAuthService(t)
	h := protectedEcho(svc)

	token, err := svc.Login("pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "operator", w.Body.String())
}

func TestWithAuthQueryToken(t *testing.T) {
	svc := newAuthService(t)
	h := protectedEcho(svc)

	token, err := svc.Login("pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
