package priceindex

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"zenith/internal/priceindex/metrics"
	dErrors "zenith/pkg/domain-errors"
)

// MaxRetries caps how often a failed price fetch is retried. A Confirm step
// fails after that rather than using a stale or default price.
const MaxRetries = 3

// Retrying retries an underlying feed with exponential backoff.
type Retrying struct {
	feed    Feed
	retries uint64
	delay   time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type RetryOption func(*Retrying)

func WithLogger(logger *slog.Logger) RetryOption {
	return func(r *Retrying) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) RetryOption {
	return func(r *Retrying) {
		r.metrics = m
	}
}

// NewRetrying wraps feed. retries above MaxRetries are clamped.
func NewRetrying(feed Feed, retries uint64, delay time.Duration, opts ...RetryOption) *Retrying {
	if retries > MaxRetries {
		retries = MaxRetries
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	r := &Retrying{feed: feed, retries: retries, delay: delay}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *Retrying) CurrentUnitPrice(ctx context.Context) (float64, error) {
	var (
		price    float64
		attempts int
	)
	op := func() error {
		attempts++
		p, err := r.feed.CurrentUnitPrice(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			if attempts <= int(r.retries) {
				r.logger.WarnContext(ctx, "price fetch failed, retrying",
					"attempt", attempts,
					"remaining", int(r.retries)-attempts+1,
					"error", err,
				)
				if r.metrics != nil {
					r.metrics.IncrementRetries()
				}
			}
			return err
		}
		price = p
		return nil
	}

	start := time.Now()
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.retries), ctx))
	if r.metrics != nil {
		r.metrics.ObserveFetch(err == nil, time.Since(start))
	}
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) && de.Code == dErrors.CodePriceUnavailable {
			return 0, err
		}
		return 0, dErrors.Wrap(err, dErrors.CodePriceUnavailable, "failed to fetch current unit price")
	}
	return price, nil
}

func (r *Retrying) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.delay
	b.Multiplier = 1.5
	b.MaxInterval = 4 * r.delay
	b.MaxElapsedTime = 0
	return b
}
