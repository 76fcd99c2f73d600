// Package service finalizes wizard submissions into registry claims.
//
// A claim is all or nothing: if any selected region is taken at submission
// time the whole claim fails and nothing is written. Area and price are
// re-derived from the catalog; the client's payload is never trusted for
// either.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"zenith/internal/claim/metrics"
	"zenith/internal/claim/models"
	"zenith/internal/claim/ports"
	"zenith/internal/events"
	registry "zenith/internal/registry/models"
	territory "zenith/internal/territory/models"
	"zenith/internal/territory/rules"
	"zenith/internal/wizard/fields"
	dErrors "zenith/pkg/domain-errors"
	pstrings "zenith/pkg/platform/strings"
	"zenith/pkg/requestcontext"
)

const authoritativeTimeout = 20 * time.Second

// TakenError lists the regions found claimed during the authoritative check.
type TakenError struct {
	Regions []string
}

func (e *TakenError) Error() string {
	return "regions already claimed: " + strings.Join(e.Regions, ", ")
}

// TakenRegions extracts the claimed regions from a submission error.
func TakenRegions(err error) []string {
	var te *TakenError
	if errors.As(err, &te) {
		return te.Regions
	}
	return nil
}

// Service is the claim submitter.
type Service struct {
	catalog      ports.Catalog
	availability ports.Availability
	price        ports.PriceFeed
	publisher    ports.Publisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
	newID        func() uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides claim and event id generation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

func New(catalog ports.Catalog, availability ports.Availability, price ports.PriceFeed, opts ...Option) (*Service, error) {
	if catalog == nil || availability == nil || price == nil {
		return nil, errors.New("catalog, availability and price feed are required")
	}
	s := &Service{
		catalog:      catalog,
		availability: availability,
		price:        price,
		publisher:    events.Nop{},
		tracer:       otel.Tracer("zenith/claim"),
		now:          time.Now,
		newID:        uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// quoted is a submission after catalog re-derivation.
type quoted struct {
	name    string
	regions []string
	quote   rules.Quote
}

// Submit runs the authoritative checks and records the claim.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "claim.Submit", trace.WithAttributes(
		attribute.String("claim.project_type", sub.ProjectType),
		attribute.Int("claim.regions", len(sub.Payload.Regions)),
	))
	defer span.End()

	start := s.now()
	receipt, err := s.submit(ctx, sub)
	if s.metrics != nil {
		s.metrics.ObserveSubmit(s.now().Sub(start))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim failed")
		code := dErrors.CodeOf(err)
		s.recordOutcome(string(code))
		s.logger.WarnContext(ctx, "claim submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sub.SessionID,
			"project_type", sub.ProjectType,
			"code", code,
			"error", err,
		)
		s.publish(ctx, events.Event{
			Type:        events.ClaimFailed,
			SessionID:   sub.SessionID,
			Name:        sub.Name(),
			ProjectType: sub.ProjectType,
			Regions:     sub.Payload.Regions,
			ErrorCode:   string(code),
		})
		return models.Receipt{}, err
	}

	span.SetAttributes(attribute.String("claim.id", receipt.ClaimID.String()))
	s.recordOutcome("recorded")
	if s.metrics != nil {
		s.metrics.ObserveClaimedArea(receipt.TotalArea)
	}
	s.logger.InfoContext(ctx, "claim recorded",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sub.SessionID,
		"claim_id", receipt.ClaimID,
		"regions", len(receipt.Regions),
		"tx_hash", receipt.TxHash,
	)
	s.publish(ctx, events.Event{
		Type:        events.ClaimSubmitted,
		ClaimID:     receipt.ClaimID,
		SessionID:   sub.SessionID,
		Name:        receipt.Name,
		ProjectType: sub.ProjectType,
		Regions:     receipt.Regions,
		TotalArea:   receipt.TotalArea,
		TotalPrice:  receipt.TotalPrice,
		PriceWei:    receipt.PriceWei.String(),
		TxHash:      receipt.TxHash,
	})
	return receipt, nil
}

func (s *Service) submit(ctx context.Context, sub models.Submission) (models.Receipt, error) {
	q, err := s.prepare(sub)
	if err != nil {
		return models.Receipt{}, err
	}

	unitPrice, wei, err := s.authorize(ctx, q)
	if err != nil {
		return models.Receipt{}, err
	}

	claimID := s.newID()
	result, err := s.availability.SubmitClaim(ctx, registry.ClaimRequest{
		ClaimID:     claimID,
		Name:        q.name,
		ProjectType: sub.ProjectType,
		Regions:     q.regions,
		PriceWei:    wei,
	})
	if err != nil {
		return models.Receipt{}, err
	}

	recordedAt := result.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	return models.Receipt{
		ClaimID:    claimID,
		TxHash:     result.TxHash,
		Name:       q.name,
		Regions:    q.regions,
		TotalArea:  q.quote.TotalArea,
		TotalPrice: q.quote.TotalPrice,
		UnitPrice:  unitPrice,
		PriceWei:   wei,
		RecordedAt: recordedAt,
	}, nil
}

// prepare re-derives the claim from the catalog and checks it against the
// selection rules and the boundary contract.
func (s *Service) prepare(sub models.Submission) (quoted, error) {
	name := strings.TrimSpace(sub.Name())
	if name == "" {
		return quoted{}, dErrors.New(dErrors.CodeValidation, "project name is required")
	}

	var selected []territory.SelectedRegion
	for _, n := range pstrings.DedupeAndTrim(sub.Payload.Regions) {
		region, err := s.catalog.Lookup(n)
		if err != nil {
			return quoted{}, err
		}
		if !region.Active {
			return quoted{}, dErrors.Newf(dErrors.CodeRegionUnavailable, "%s is not open for claims", region.Name)
		}
		selected = append(selected, region.Snapshot())
	}
	selected = rules.Dedupe(selected)

	if sub.ProjectType == fields.ProjectBlockchain && len(selected) == 0 {
		return quoted{}, dErrors.New(dErrors.CodeValidation, "blockchain claims need at least one region")
	}
	if err := rules.Validate(selected); err != nil {
		return quoted{}, err
	}

	quote := rules.Price(selected)
	if !sub.Payload.IsEmpty() && math.Abs(quote.TotalArea-sub.Payload.TotalArea) > 1e-6 {
		s.logger.Warn("submitted payload disagrees with catalog; using catalog values",
			"submitted_area", sub.Payload.TotalArea,
			"derived_area", quote.TotalArea,
		)
	}

	names := make([]string, len(selected))
	for i, r := range selected {
		names[i] = r.Name
	}
	boundary := models.BoundaryPayload{
		Name:          name,
		ProjectType:   sub.ProjectType,
		Regions:       names,
		TotalAreaKm2:  quote.TotalArea,
		TotalPriceUSD: quote.TotalPrice,
	}
	if err := ValidateBoundary(boundary); err != nil {
		return quoted{}, dErrors.Wrap(err, dErrors.CodeValidation, "claim payload does not match the submission contract")
	}
	return quoted{name: name, regions: names, quote: quote}, nil
}

// authorize runs the availability check and the price fetch in parallel.
// Claims without regions skip both and cost nothing.
func (s *Service) authorize(ctx context.Context, q quoted) (float64, *big.Int, error) {
	if len(q.regions) == 0 {
		return 0, new(big.Int), nil
	}

	ctx, cancel := context.WithTimeout(ctx, authoritativeTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var (
		conflicts []string
		unitPrice float64
	)
	g.Go(func() error {
		var err error
		conflicts, err = s.availability.Conflicts(gctx, q.regions)
		return err
	})
	g.Go(func() error {
		var err error
		unitPrice, err = s.price.CurrentUnitPrice(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		// A conflict found before the price failed still wins.
		if len(conflicts) > 0 {
			return 0, nil, takenErr(conflicts)
		}
		return 0, nil, err
	}
	if len(conflicts) > 0 {
		return 0, nil, takenErr(conflicts)
	}

	wei, err := ToWei(q.quote.TotalPrice, unitPrice)
	if err != nil {
		return 0, nil, err
	}
	return unitPrice, wei, nil
}

func takenErr(regions []string) error {
	return dErrors.Wrap(&TakenError{Regions: regions}, dErrors.CodeRegionUnavailable,
		fmt.Sprintf("already claimed: %s", strings.Join(regions, ", ")))
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ev.ID = s.newID()
	ev.OccurredAt = s.now()
	ev.RequestID = requestcontext.RequestID(ctx)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementPublishErrors()
		}
		s.logger.ErrorContext(ctx, "failed to publish claim event",
			"event_type", ev.Type,
			"claim_id", ev.ClaimID,
			"error", err,
		)
	}
}

func (s *Service) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementClaim(outcome)
	}
}
