// Package handler serves the registry gateway protocol over a claim ledger.
package handler

import (
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zenith/internal/registry/models"
	"zenith/internal/registry/store"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/httputil"
	"zenith/pkg/platform/sentinel"
	"zenith/pkg/requestcontext"
)

// Handler exposes a Ledger as the registry gateway.
type Handler struct {
	ledger store.Ledger
	logger *slog.Logger
}

func New(ledger store.Ledger, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// Register mounts the gateway routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/regions/taken", h.handleTaken)
		r.Post("/regions/availability", h.handleAvailability)
		r.Post("/claims", h.handleClaim)
		r.Get("/projects", h.handleListProjects)
		r.Get("/projects/{name}", h.handleGetProject)
	})
}

func (h *Handler) handleTaken(w http.ResponseWriter, r *http.Request) {
	taken, err := h.ledger.Taken(r.Context())
	if err != nil {
		h.internal(w, r, "list taken regions", err)
		return
	}
	if taken == nil {
		taken = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.TakenResponse{Regions: taken})
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[models.AvailabilityRequest](r)
	if err != nil {
		h.writeGatewayError(w, http.StatusBadRequest, dErrors.CodeBadRequest, err.Error(), nil)
		return
	}
	if len(req.Regions) == 0 {
		h.writeGatewayError(w, http.StatusBadRequest, dErrors.CodeBadRequest, "regions are required", nil)
		return
	}
	taken, err := h.ledger.Taken(r.Context())
	if err != nil {
		h.internal(w, r, "list taken regions", err)
		return
	}
	conflicts := models.NewTakenSet(taken...).Intersect(req.Regions)
	if conflicts == nil {
		conflicts = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Taken:     conflicts,
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := httputil.DecodeJSON[models.ClaimBody](r)
	if err != nil {
		h.writeGatewayError(w, http.StatusBadRequest, dErrors.CodeBadRequest, err.Error(), nil)
		return
	}
	price, msg := validateClaim(body)
	if msg != "" {
		h.writeGatewayError(w, http.StatusBadRequest, dErrors.CodeBadRequest, msg, nil)
		return
	}
	if len(body.Regions) > 0 && price.Sign() == 0 {
		h.writeGatewayError(w, http.StatusPaymentRequired, dErrors.CodeTransactionRejected, "claim payment is required", nil)
		return
	}

	recordedAt := requestcontext.Now(ctx).UTC()
	project := models.Project{
		ClaimID:     body.ClaimID,
		Name:        body.Name,
		ProjectType: body.ProjectType,
		Regions:     body.Regions,
		PriceWei:    price.String(),
		RecordedAt:  recordedAt,
	}
	if err := h.ledger.Record(ctx, project); err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			h.logger.InfoContext(ctx, "claim rejected by ledger",
				"claim_id", body.ClaimID,
				"conflicts", conflict.Regions,
				"name_taken", conflict.NameTaken,
				"request_id", requestcontext.RequestID(ctx),
			)
			if conflict.NameTaken != "" {
				h.writeGatewayError(w, http.StatusConflict, dErrors.CodeConflict, conflict.Error(), nil)
				return
			}
			h.writeGatewayError(w, http.StatusConflict, dErrors.CodeRegionConflict, conflict.Error(), conflict.Regions)
			return
		}
		h.internal(w, r, "record claim", err)
		return
	}

	h.logger.InfoContext(ctx, "claim recorded",
		"claim_id", body.ClaimID,
		"name", body.Name,
		"regions", len(body.Regions),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, models.TransactionResult{
		ClaimID:    body.ClaimID,
		TxHash:     models.TxHash(body.ClaimID, body.Regions),
		RecordedAt: recordedAt,
	})
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ledger.List(r.Context())
	if err != nil {
		h.internal(w, r, "list projects", err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	httputil.WriteJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	project, err := h.ledger.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			h.writeGatewayError(w, http.StatusNotFound, dErrors.CodeNotFound, "project not found", nil)
			return
		}
		h.internal(w, r, "get project", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project)
}

func validateClaim(body models.ClaimBody) (*big.Int, string) {
	if body.ClaimID == uuid.Nil {
		return nil, "claim_id is required"
	}
	if body.Name == "" || body.ProjectType == "" {
		return nil, "name and project_type are required"
	}
	if len(body.RegionKeys) != len(body.Regions) {
		return nil, "region_keys must match regions"
	}
	seen := make(map[string]struct{}, len(body.Regions))
	for i, region := range body.Regions {
		if _, dup := seen[region]; dup {
			return nil, "duplicate region " + region
		}
		seen[region] = struct{}{}
		if models.RegionKey(region) != body.RegionKeys[i] {
			return nil, "region key mismatch for " + region
		}
	}
	price, ok := new(big.Int).SetString(body.PriceWei, 10)
	if !ok || price.Sign() < 0 {
		return nil, "price_wei must be a non-negative integer"
	}
	return price, ""
}

func (h *Handler) writeGatewayError(w http.ResponseWriter, status int, code dErrors.Code, msg string, regions []string) {
	httputil.WriteJSON(w, status, models.GatewayError{
		Error:       string(code),
		Description: msg,
		Regions:     regions,
	})
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), "registry gateway failure",
		"op", op,
		"error", err,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	h.writeGatewayError(w, http.StatusInternalServerError, dErrors.CodeInternal, "", nil)
}

// Router builds a standalone gateway router.
func Router(h *Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	h.Register(r)
	return r
}
