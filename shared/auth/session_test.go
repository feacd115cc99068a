package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func newTestSessionManager(secure bool) *SessionManager {
	jwtAuth := NewJWTAuthenticator(testSecret, "becbilldesk-auth", "becbilldesk-auth")
	return NewSessionManager(jwtAuth, 7*24*time.Hour, secure)
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestSessionManager_Issue(t *testing.T) {
	sessions := newTestSessionManager(true)
	rec := httptest.NewRecorder()

	token, err := sessions.Issue(rec, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	userID, err := sessions.UserID(requestWithCookies(cookies))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionManager_Clear(t *testing.T) {
	sessions := newTestSessionManager(false)
	rec := httptest.NewRecorder()

	sessions.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionManager_UserID(t *testing.T) {
	sessions := newTestSessionManager(false)

	t.Run("missing cookie", func(t *testing.T) {
		_, err := sessions.UserID(requestWithCookies(nil))
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := sessions.UserID(requestWithCookies([]*http.Cookie{{Name: SessionCookieName, Value: "garbage"}}))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := NewSessionManager(NewJWTAuthenticator("other-secret", "becbilldesk-auth", "becbilldesk-auth"), time.Hour, false)
		rec := httptest.NewRecorder()
		_, err := other.Issue(rec, "user-1")
		require.NoError(t, err)

		_, err = sessions.UserID(requestWithCookies(rec.Result().Cookies()))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestSessionManager(false)
		expired.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		rec := httptest.NewRecorder()
		_, err := expired.Issue(rec, "user-1")
		require.NoError(t, err)

		_, err = sessions.UserID(requestWithCookies(rec.Result().Cookies()))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestJWTAuthenticator_RejectsWrongAudience(t *testing.T) {
	issuer := NewJWTAuthenticator(testSecret, "someone-else", "becbilldesk-auth")
	validator := NewJWTAuthenticator(testSecret, "becbilldesk-auth", "becbilldesk-auth")

	now := time.Now()
	token, err := issuer.GenerateToken(SessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "becbilldesk-auth",
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	_, err = validator.ValidateTokenWithClaims(token, &SessionClaims{})
	assert.Error(t, err)
}
