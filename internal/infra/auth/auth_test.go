package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap/zaptest"
)

const cookieName = "shield.session-token"

var admin = &domain.User{ID: "usr-admin", Email: "admin@shield.local", Name: "Admin", Role: "admin"}

func newSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions("test-secret", time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewSessions_RequiresSecret(t *testing.T) {
	_, err := NewSessions("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSessions_IssueAndVerify(t *testing.T) {
	s := newSessions(t)
	token, exp, err := s.Issue(admin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "usr-admin", claims.UserID)
	assert.Equal(t, "admin@shield.local", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestSessions_RejectsBadTokens(t *testing.T) {
	s := newSessions(t)
	token, _, err := s.Issue(admin)
	require.NoError(t, err)

	other, err := NewSessions("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.VerifyToken(token)
	assert.Error(t, err, "foreign signature")

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.VerifyToken(token)
	assert.Error(t, err, "expired")

	_, err = s.VerifyToken("")
	assert.Error(t, err)

	// alg=none не принимается
	none := jwt.NewWithClaims(jwt.SigningMethodNone, &domain.SessionClaims{UserID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.VerifyToken(unsigned)
	assert.Error(t, err)
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(c.Email))
	})
}

func TestAPIMiddleware(t *testing.T) {
	s := newSessions(t)
	token, _, err := s.Issue(admin)
	require.NoError(t, err)
	mw := NewAPIMiddleware(s, cookieName, zaptest.NewLogger(t))(okHandler(t))

	t.Run("no token returns 401 json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin@shield.local", rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPageMiddleware_RedirectsToLogin(t *testing.T) {
	s := newSessions(t)
	mw := NewPageMiddleware(s, cookieName, zaptest.NewLogger(t))(okHandler(t))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/threats", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard%2Fthreats", rec.Header().Get("Location"))
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, "/login?redirect=%2Fdashboard", LoginRedirectURL("/dashboard"))
}
