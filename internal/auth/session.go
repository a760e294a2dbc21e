package auth

import (
	"fmt"
	"net/http"
	"time"
)

const SessionCookieName = "wishlist_session"

// Sessions binds the token manager to the session cookie.
type Sessions struct {
	tokens *TokenManager
	secure bool
}

func NewSessions(tokens *TokenManager, secureCookies bool) *Sessions {
	return &Sessions{tokens: tokens, secure: secureCookies}
}

// Start issues a session for userID and sets the cookie on w.
func (s *Sessions) Start(w http.ResponseWriter, userID int64) error {
	token, expiresAt, err := s.tokens.Issue(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(token, expiresAt, int(time.Until(expiresAt).Seconds())))
	return nil
}

// End expires the session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", time.Unix(0, 0), -1))
}

// UserID returns the user id of the session carried by r.
func (s *Sessions) UserID(r *http.Request) (int64, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return 0, fmt.Errorf("no session: %w", err)
	}
	return s.tokens.Parse(c.Value)
}

func (s *Sessions) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
