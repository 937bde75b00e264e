package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitpantry/coach/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// TokenVerifier resolves a bearer token to its session ID
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// SessionAuth requires a valid session bearer token and stores the session ID in the context
func SessionAuth(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, r, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, r, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			sessionID, err := verifier.Verify(parts[1])
			if err != nil {
				writeError(w, r, errors.NewUnauthorizedError("Invalid session token").WithCause(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// WithSessionID stores the session ID in ctx
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext extracts the authenticated session ID
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

func writeError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}
