package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const sessionCookieName = "tuinue_session"

type principalRole string

const (
	roleDonor         principalRole = "donor"
	roleCharity       principalRole = "charity"
	roleAdministrator principalRole = "admin"
)

// issueSessionCookie signs an HS256 token for the principal and wraps it
// in an encrypted cookie value.
func (s *Service) issueSessionCookie(principalID string, role principalRole) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Subject(principalID).
		IssuedAt(now).
		Expiration(now.Add(time.Duration(s.config.SessionMaxAgeSec) * time.Second)).
		Claim("role", string(role)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.tokenKey))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	encrypted, err := s.cookie.Encode(sessionCookieName, string(signed))
	if err != nil {
		return "", fmt.Errorf("encrypt session token: %w", err)
	}

	return encrypted, nil
}

func (s *Service) parseSessionCookie(value string) (string, principalRole, error) {
	var signed string
	if err := s.cookie.Decode(sessionCookieName, value, &signed); err != nil {
		return "", "", fmt.Errorf("decrypt session token: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(signed),
		jwt.WithKey(jwa.HS256(), s.tokenKey),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", "", fmt.Errorf("parse session token: %w", err)
	}

	principalID, ok := token.Subject()
	if !ok || principalID == "" {
		return "", "", fmt.Errorf("no subject claim in session token")
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return "", "", fmt.Errorf("no role claim in session token: %w", err)
	}

	return principalID, principalRole(role), nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})
}

func (s *Service) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})
}
