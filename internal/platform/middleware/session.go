package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/httputil"
	"zenith/pkg/requestcontext"
)

// SessionTokenValidator resolves a bearer token to a wizard session id.
type SessionTokenValidator interface {
	SessionIDFromToken(token string) (uuid.UUID, error)
}

// RequireSession rejects requests without a valid session token. When the
// route carries a session id parameter it must match the token.
func RequireSession(validator SessionTokenValidator, routeParam func(*http.Request) string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token", "request_id", requestID)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}
			sessionID, err := validator.SessionIDFromToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}
			if routeParam != nil {
				if param := routeParam(r); param != "" && param != sessionID.String() {
					logger.WarnContext(ctx, "unauthorized access - session mismatch",
						"session_id", sessionID,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Token does not grant access to this session"))
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithSessionID(ctx, sessionID)))
		})
	}
}
