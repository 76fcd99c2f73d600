// Package service implements the claim availability oracle in front of the
// external registry.
//
// Two reads are offered. CachedTakenRegions is opportunistic: it may serve a
// cached set and is used to pre-mark regions when a selection UI loads.
// TakenRegions, Conflicts and IsAvailable always go to the registry and are
// the only reads allowed to gate a claim submission. Conflicts checks just the
// claimed regions through the registry's availability call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"zenith/internal/registry/metrics"
	"zenith/internal/registry/models"
	"zenith/internal/registry/ports"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/circuit"
	"zenith/pkg/platform/sentinel"
)

const (
	defaultReadRetries  = 2
	defaultInitialDelay = 200 * time.Millisecond
	defaultMaxDelay     = 2 * time.Second
)

// Oracle answers "which regions are already claimed".
type Oracle struct {
	registry     ports.Registry
	cache        ports.TakenCache
	breaker      *circuit.Breaker
	group        singleflight.Group
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	readRetries  uint64
	initialDelay time.Duration
	maxDelay     time.Duration
}

type Option func(*Oracle)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Oracle) {
		o.metrics = m
	}
}

// WithCache enables the opportunistic read cache.
func WithCache(cache ports.TakenCache) Option {
	return func(o *Oracle) {
		o.cache = cache
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(o *Oracle) {
		if b != nil {
			o.breaker = b
		}
	}
}

// WithReadRetries bounds retries of a failed taken-region read.
func WithReadRetries(n uint64, initialDelay, maxDelay time.Duration) Option {
	return func(o *Oracle) {
		o.readRetries = n
		if initialDelay > 0 {
			o.initialDelay = initialDelay
		}
		if maxDelay > 0 {
			o.maxDelay = maxDelay
		}
	}
}

// New builds an oracle over registry.
func New(registry ports.Registry, opts ...Option) (*Oracle, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	o := &Oracle{
		registry:     registry,
		breaker:      circuit.New("registry", circuit.WithSuccessThreshold(1)),
		tracer:       otel.Tracer("zenith/registry"),
		readRetries:  defaultReadRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o, nil
}

// TakenRegions reads the taken set from the registry, bypassing the cache.
// The fresh result is written through to the cache.
func (o *Oracle) TakenRegions(ctx context.Context) (models.TakenSet, error) {
	ctx, span := o.tracer.Start(ctx, "registry.TakenRegions")
	defer span.End()

	taken, err := o.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "taken regions unavailable")
		return nil, err
	}
	span.SetAttributes(attribute.Int("registry.taken_count", len(taken)))

	if o.cache != nil {
		if err := o.cache.Set(ctx, taken); err != nil {
			o.logger.WarnContext(ctx, "failed to cache taken regions", "error", err)
		}
	}
	return taken, nil
}

// CachedTakenRegions serves the opportunistic read. Concurrent misses share
// one registry call. Results must not gate a submission.
func (o *Oracle) CachedTakenRegions(ctx context.Context) (models.TakenSet, error) {
	if o.cache != nil {
		start := time.Now()
		taken, err := o.cache.Get(ctx)
		switch {
		case err == nil:
			if o.metrics != nil {
				o.metrics.IncrementCacheHit()
				o.metrics.ObserveFetch("cache", time.Since(start))
			}
			return taken, nil
		case errors.Is(err, sentinel.ErrNotFound):
			if o.metrics != nil {
				o.metrics.IncrementCacheMiss()
			}
		default:
			o.logger.WarnContext(ctx, "taken region cache read failed", "error", err)
		}
	}

	v, err, _ := o.group.Do("taken", func() (any, error) {
		return o.TakenRegions(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(models.TakenSet), nil
}

// Conflicts asks the registry which of names are taken, sorted.
func (o *Oracle) Conflicts(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ctx, span := o.tracer.Start(ctx, "registry.Conflicts", trace.WithAttributes(
		attribute.Int("registry.checked", len(names)),
	))
	defer span.End()

	var res models.AvailabilityResponse
	err := o.read(ctx, "availability", func() error {
		var err error
		res, err = o.registry.Availability(ctx, names)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "availability unavailable")
		return nil, err
	}
	conflicts := models.NewTakenSet(res.Taken...).Intersect(names)
	span.SetAttributes(attribute.Int("registry.conflicts", len(conflicts)))
	return conflicts, nil
}

// IsAvailable reports whether none of names is taken, per a fresh read.
func (o *Oracle) IsAvailable(ctx context.Context, names []string) (bool, error) {
	conflicts, err := o.Conflicts(ctx, names)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// SubmitClaim forwards a claim transaction. It is never retried. A recorded
// claim invalidates the cached taken set.
func (o *Oracle) SubmitClaim(ctx context.Context, req models.ClaimRequest) (models.TransactionResult, error) {
	ctx, span := o.tracer.Start(ctx, "registry.SubmitClaim", trace.WithAttributes(
		attribute.String("claim.id", req.ClaimID.String()),
		attribute.Int("claim.regions", len(req.Regions)),
	))
	defer span.End()

	if !o.breaker.Allow() {
		err := dErrors.New(dErrors.CodeOracleUnavailable, "registry circuit is open")
		span.RecordError(err)
		return models.TransactionResult{}, err
	}

	result, err := o.registry.SubmitClaim(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim failed")
		if errors.Is(err, sentinel.ErrUnavailable) {
			o.recordFailure(ctx)
			o.recordClaim("unavailable")
			return models.TransactionResult{}, dErrors.Wrap(err, dErrors.CodeOracleUnavailable, "registry unreachable")
		}
		o.recordSuccess(ctx)
		o.recordClaim(string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeRegionConflict) {
			o.invalidate(ctx)
		}
		return models.TransactionResult{}, err
	}

	o.recordSuccess(ctx)
	o.recordClaim("recorded")
	o.invalidate(ctx)
	return result, nil
}

func (o *Oracle) fetch(ctx context.Context) (models.TakenSet, error) {
	var names []string
	err := o.read(ctx, "taken regions", func() error {
		var err error
		names, err = o.registry.TakenRegions(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.NewTakenSet(names...), nil
}

// read runs a registry read behind the breaker with bounded retries.
func (o *Oracle) read(ctx context.Context, what string, call func() error) error {
	if !o.breaker.Allow() {
		return dErrors.New(dErrors.CodeOracleUnavailable, "registry circuit is open")
	}

	start := time.Now()
	op := func() error {
		err := call()
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(o.newBackOff(), o.readRetries), ctx))
	if o.metrics != nil {
		o.metrics.ObserveFetch("registry", time.Since(start))
	}
	if err != nil {
		o.recordFailure(ctx)
		if o.metrics != nil {
			o.metrics.IncrementFetchFailures()
		}
		o.logger.ErrorContext(ctx, what+" read failed", "error", err)
		return dErrors.Wrap(err, dErrors.CodeOracleUnavailable, fmt.Sprintf("registry unreachable after %d retries", o.readRetries))
	}
	o.recordSuccess(ctx)
	return nil
}

func (o *Oracle) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.initialDelay
	b.MaxInterval = o.maxDelay
	b.MaxElapsedTime = 0
	return b
}

func (o *Oracle) invalidate(ctx context.Context) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Invalidate(ctx); err != nil {
		o.logger.WarnContext(ctx, "failed to invalidate taken region cache", "error", err)
	}
}

func (o *Oracle) recordFailure(ctx context.Context) {
	_, change := o.breaker.RecordFailure()
	if change.Opened {
		o.logger.WarnContext(ctx, "registry circuit opened", "breaker", o.breaker.Name())
		if o.metrics != nil {
			o.metrics.SetBreakerState(true)
		}
	}
}

func (o *Oracle) recordSuccess(ctx context.Context) {
	_, change := o.breaker.RecordSuccess()
	if change.Closed {
		o.logger.InfoContext(ctx, "registry circuit closed", "breaker", o.breaker.Name())
		if o.metrics != nil {
			o.metrics.SetBreakerState(false)
		}
	}
}

func (o *Oracle) recordClaim(outcome string) {
	if o.metrics != nil {
		o.metrics.IncrementClaim(outcome)
	}
}
