package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/easytransfer/backend/internal/auth"
)

type contextKey string

const accountIDKey contextKey = "account_id"

// accountID returns the account id the auth middleware stored on the request
// context. The boolean is false on routes that skipped authentication.
func accountID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(accountIDKey).(int64)
	return id, ok
}

// Authenticate extracts the bearer token, verifies it, and injects the
// account id into the request context. The account identity is derived
// exclusively from the token subject, never from the request itself.
func Authenticate(v *auth.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respondWithError(w, http.StatusUnauthorized, "token not provided")
				return
			}

			accountID, err := v.AccountID(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs every request with method, path, remote address, status
// and latency.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", sw.status,
				"latency", time.Since(start).String(),
			}
			if sw.status >= 500 {
				logger.Error("server error", attrs...)
			} else {
				logger.Info("request completed", attrs...)
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}
