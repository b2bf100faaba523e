package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyPrincipalID contextKey = "principal_id"
	contextKeyRole        contextKey = "role"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

func (s *Service) RequireDonor(next http.Handler) http.Handler {
	return s.requireRole(next, roleDonor)
}

func (s *Service) RequireCharity(next http.Handler) http.Handler {
	return s.requireRole(next, roleCharity)
}

func (s *Service) RequireAdministrator(next http.Handler) http.Handler {
	return s.requireRole(next, roleAdministrator)
}

// requireRole decrypts the session cookie, validates the token inside it
// and checks the role claim before admitting the request.
func (s *Service) requireRole(next http.Handler, role principalRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			s.logger.WithError(err).Debug("no session cookie found")
			s.writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		principalID, tokenRole, err := s.parseSessionCookie(cookie.Value)
		if err != nil {
			s.logger.WithError(err).Error("failed to validate session token")
			s.writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if tokenRole != role {
			s.writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyPrincipalID, principalID)
		ctx = context.WithValue(ctx, contextKeyRole, tokenRole)

		s.logger.WithFields(logrus.Fields{
			"principal_id": principalID,
			"role":         string(tokenRole),
		}).Debug("authenticated principal")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) principalIDFromContext(ctx context.Context) (string, bool) {
	principalID, ok := ctx.Value(contextKeyPrincipalID).(string)
	return principalID, ok
}
