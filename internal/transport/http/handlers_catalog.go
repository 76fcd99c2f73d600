package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	registry "zenith/internal/registry/models"
	territory "zenith/internal/territory/models"
	"zenith/internal/territory/rules"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/httputil"
	pstrings "zenith/pkg/platform/strings"
	"zenith/pkg/requestcontext"
)

// Catalog is the read side of the region catalog.
type Catalog interface {
	All() []territory.Region
	ListByCategory(category territory.Category) []territory.Region
	Select(name string) (territory.SelectedRegion, error)
	Digest() string
}

// TakenReader is the opportunistic taken-set read.
type TakenReader interface {
	CachedTakenRegions(ctx context.Context) (registry.TakenSet, error)
}

// CatalogHandler serves the catalog, quotes and the taken set.
type CatalogHandler struct {
	catalog Catalog
	taken   TakenReader
	logger  *slog.Logger
}

func NewCatalogHandler(catalog Catalog, taken TakenReader, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, taken: taken, logger: logger}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/catalog/regions", h.handleRegions)
	r.Get("/catalog/taken", h.handleTaken)
	r.Post("/quote", h.handleQuote)
}

// handleRegions lists regions, optionally filtered by ?category= and
// annotated with ?taken=true.
func (h *CatalogHandler) handleRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regions := h.catalog.All()
	if c := r.URL.Query().Get("category"); c != "" {
		category, err := territory.ParseCategory(strings.ToUpper(c))
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
			return
		}
		regions = h.catalog.ListByCategory(category)
	}

	var taken registry.TakenSet
	if r.URL.Query().Get("taken") == "true" && h.taken != nil {
		var err error
		taken, err = h.taken.CachedTakenRegions(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "taken regions unavailable for catalog listing",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
	}

	resp := RegionsResponse{Digest: h.catalog.Digest(), Count: len(regions), Regions: make([]RegionResponse, 0, len(regions))}
	for _, reg := range regions {
		resp.Regions = append(resp.Regions, RegionResponse{
			Name:     reg.Name,
			Area:     reg.Area,
			Category: string(reg.Category),
			Active:   reg.Active,
			Taken:    taken.Has(reg.Name),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) handleTaken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taken, err := h.taken.CachedTakenRegions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "taken regions read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TakenResponse{Regions: taken.Names()})
}

// handleQuote validates and prices a candidate. Rule violations are part of
// the answer, not request errors; unknown names are.
func (h *CatalogHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[QuoteRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	candidate := make([]territory.SelectedRegion, 0, len(req.Regions))
	for _, name := range pstrings.DedupeAndTrim(req.Regions) {
		sel, err := h.catalog.Select(name)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		candidate = append(candidate, sel)
	}
	names := make([]string, len(candidate))
	for i, c := range candidate {
		names[i] = c.Name
	}
	quote := rules.Price(candidate)
	resp := QuoteResponse{
		Regions:    names,
		Valid:      true,
		TotalArea:  quote.TotalArea,
		TotalPrice: rules.RoundUSD(quote.TotalPrice),
	}
	if err := rules.Validate(candidate); err != nil {
		resp.Valid = false
		resp.Code = string(dErrors.CodeOf(err))
		resp.Reason = err.Error()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
