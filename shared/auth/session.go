package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

var (
	ErrNoSession      = errors.New("no session token provided")
	ErrInvalidSession = errors.New("invalid session token")
)

// SessionClaims are the claims embedded in a session token.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SessionManager issues and reads stateless session cookies.
type SessionManager struct {
	jwtAuth   JWTAuthenticator
	expiresIn time.Duration
	secure    bool
	now       func() time.Time
}

// NewSessionManager creates a SessionManager. Cookies are marked Secure when secure is true.
func NewSessionManager(jwtAuth JWTAuthenticator, expiresIn time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		jwtAuth:   jwtAuth,
		expiresIn: expiresIn,
		secure:    secure,
		now:       time.Now,
	}
}

// Issue signs a session token for the user and sets it as a cookie on w.
func (m *SessionManager) Issue(w http.ResponseWriter, userID string) (string, error) {
	now := m.now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{m.jwtAuth.Audience()},
		},
	}

	token, err := m.jwtAuth.GenerateToken(claims)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.expiresIn),
		MaxAge:   int(m.expiresIn.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})

	return token, nil
}

// Clear expires the session cookie on the client.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// UserID validates the session cookie of r and returns the user id it carries.
func (m *SessionManager) UserID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}

	var claims SessionClaims
	if _, err := m.jwtAuth.ValidateTokenWithClaims(cookie.Value, &claims); err != nil {
		return "", errors.Join(ErrInvalidSession, err)
	}

	if claims.UserID == "" {
		return "", ErrInvalidSession
	}

	return claims.UserID, nil
}
