package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zenith/internal/platform/middleware"
	"zenith/internal/session"
	"zenith/internal/territory/selection"
	"zenith/internal/wizard"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/httputil"
	"zenith/pkg/requestcontext"
)

// SessionService is the wizard session surface.
type SessionService interface {
	Open(ctx context.Context, platform string) (session.View, error)
	Close(id uuid.UUID, reason string) error
	View(ctx context.Context, id uuid.UUID) (session.View, error)
	Next(ctx context.Context, id uuid.UUID, in wizard.Input) (session.View, error)
	Back(ctx context.Context, id uuid.UUID) (session.View, error)
	OpenRegions(ctx context.Context, id uuid.UUID) (session.View, error)
	CloseRegions(ctx context.Context, id uuid.UUID) (session.View, error)
	RefreshTaken(ctx context.Context, id uuid.UUID) (session.View, error)
	ResetSelection(ctx context.Context, id uuid.UUID) (session.View, error)
	Toggle(ctx context.Context, id uuid.UUID, name string) (session.View, selection.Result, error)
}

// TokenService issues bearer tokens bound to one session.
type TokenService interface {
	GenerateSessionToken(sessionID uuid.UUID, platform string, expiresIn time.Duration) (string, error)
	SessionIDFromToken(token string) (uuid.UUID, error)
}

// WizardHandler serves /wizard/sessions.
type WizardHandler struct {
	sessions SessionService
	tokens   TokenService
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewWizardHandler(sessions SessionService, tokens TokenService, tokenTTL time.Duration, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{sessions: sessions, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

type toggleRequest struct {
	Name string `json:"name"`
}

func (h *WizardHandler) Register(r chi.Router) {
	r.Post("/wizard/sessions", h.handleOpen)
	r.Route("/wizard/sessions/{id}", func(r chi.Router) {
		r.Use(middleware.RequireSession(h.tokens, func(r *http.Request) string {
			return chi.URLParam(r, "id")
		}, h.logger))
		r.Get("/", h.handleView)
		r.Delete("/", h.handleClose)
		r.Post("/next", h.handleNext)
		r.Post("/back", h.simple(h.sessions.Back))
		r.Post("/regions/open", h.simple(h.sessions.OpenRegions))
		r.Post("/regions/close", h.simple(h.sessions.CloseRegions))
		r.Post("/regions/refresh", h.simple(h.sessions.RefreshTaken))
		r.Post("/regions/reset", h.simple(h.sessions.ResetSelection))
		r.Post("/regions/toggle", h.handleToggle)
	})
}

func (h *WizardHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform := middleware.Platform(requestcontext.UserAgent(ctx))

	view, err := h.sessions.Open(ctx, platform)
	if err != nil {
		h.fail(ctx, w, "open session", err)
		return
	}
	token, err := h.tokens.GenerateSessionToken(view.ID, platform, h.tokenTTL)
	if err != nil {
		_ = h.sessions.Close(view.ID, session.ReasonClosed)
		h.fail(ctx, w, "issue session token", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, OpenSessionResponse{
		SessionToken: token,
		ExpiresIn:    int64(h.tokenTTL.Seconds()),
		Session:      toSession(view),
	})
}

func (h *WizardHandler) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.sessions.View(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.fail(ctx, w, "view session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSession(view))
}

func (h *WizardHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.Close(requestcontext.SessionID(ctx), session.ReasonClosed); err != nil {
		h.fail(ctx, w, "close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WizardHandler) handleNext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, err := httputil.DecodeJSON[wizard.Input](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.respond(ctx, w, "advance wizard", func() (session.View, error) {
		return h.sessions.Next(ctx, requestcontext.SessionID(ctx), in)
	})
}

func (h *WizardHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[toggleRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "region name is required"))
		return
	}
	view, res, err := h.sessions.Toggle(ctx, requestcontext.SessionID(ctx), req.Name)
	if err != nil {
		h.fail(ctx, w, "toggle region", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToggleResponse{
		Queued:    res.Queued,
		Committed: res.Committed,
		Evicted:   res.Evicted,
		Session:   toSession(view),
	})
}

func (h *WizardHandler) simple(op func(context.Context, uuid.UUID) (session.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		h.respond(ctx, w, r.URL.Path, func() (session.View, error) {
			return op(ctx, requestcontext.SessionID(ctx))
		})
	}
}

func (h *WizardHandler) respond(ctx context.Context, w http.ResponseWriter, op string, fn func() (session.View, error)) {
	view, err := fn()
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSession(view))
}

func (h *WizardHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.CodeOf(err)
	level := slog.LevelInfo
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "wizard request failed",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", requestcontext.SessionID(ctx),
		"op", op,
		"code", code,
		"error", err,
	)
	httputil.WriteError(w, err)
}
