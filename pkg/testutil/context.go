package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"zenith/pkg/requestcontext"
)

// WithSessionID adds a wizard session ID to the request context, as the
// session middleware would after validating a token.
func WithSessionID(req *http.Request, sessionID uuid.UUID) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request clock.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
