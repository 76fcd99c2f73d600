package priceindex_test

//go:generate mockgen -source=feed.go -destination=mocks/mocks.go -package=mocks Feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"zenith/internal/platform/logger"
	"zenith/internal/priceindex"
	"zenith/internal/priceindex/metrics"
	"zenith/internal/priceindex/mocks"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/sentinel"
)

func TestStatic(t *testing.T) {
	p, err := priceindex.Static(3000).CurrentUnitPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p)

	_, err = priceindex.Static(0).CurrentUnitPrice(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodePriceUnavailable))
}

func TestHTTPFeed(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     float64
		wantCode dErrors.Code
		wantUnav bool
	}{
		{name: "price", status: http.StatusOK, body: `{"ethereum":{"usd":2500.5}}`, want: 2500.5},
		{name: "missing asset", status: http.StatusOK, body: `{"bitcoin":{"usd":1}}`, wantCode: dErrors.CodePriceUnavailable},
		{name: "zero price", status: http.StatusOK, body: `{"ethereum":{"usd":0}}`, wantCode: dErrors.CodePriceUnavailable},
		{name: "malformed", status: http.StatusOK, body: `not json`, wantCode: dErrors.CodePriceUnavailable},
		{name: "throttled", status: http.StatusTooManyRequests, body: `{}`, wantUnav: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantUnav: true},
		{name: "client error", status: http.StatusBadRequest, body: `{}`, wantCode: dErrors.CodePriceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/simple/price", r.URL.Path)
				assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
				assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			feed := priceindex.NewHTTPFeed(srv.URL, "ethereum", time.Second, priceindex.WithRateLimit(0))
			got, err := feed.CurrentUnitPrice(context.Background())
			switch {
			case tt.wantUnav:
				assert.ErrorIs(t, err, sentinel.ErrUnavailable)
			case tt.wantCode != "":
				assert.True(t, dErrors.HasCode(err, tt.wantCode), "got %v", err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHTTPFeedRateLimitHonoursContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"ethereum":{"usd":1}}`))
	}))
	defer srv.Close()

	feed := priceindex.NewHTTPFeed(srv.URL, "ethereum", time.Second, priceindex.WithRateLimit(1))
	_, err := feed.CurrentUnitPrice(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = feed.CurrentUnitPrice(ctx)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetrying(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockFeed(ctrl)
		m := metrics.NewWithRegisterer(prometheus.NewRegistry())
		gomock.InOrder(
			feed.EXPECT().CurrentUnitPrice(gomock.Any()).Return(0.0, sentinel.ErrUnavailable),
			feed.EXPECT().CurrentUnitPrice(gomock.Any()).Return(0.0, sentinel.ErrUnavailable),
			feed.EXPECT().CurrentUnitPrice(gomock.Any()).Return(1800.0, nil),
		)

		r := priceindex.NewRetrying(feed, 3, time.Millisecond, priceindex.WithLogger(logger.Discard()), priceindex.WithMetrics(m))
		p, err := r.CurrentUnitPrice(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1800.0, p)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.Retries))
	})

	t.Run("fails after three retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockFeed(ctrl)
		feed.EXPECT().CurrentUnitPrice(gomock.Any()).Return(0.0, fmt.Errorf("dial: %w", sentinel.ErrUnavailable)).Times(4)

		r := priceindex.NewRetrying(feed, 3, time.Millisecond, priceindex.WithLogger(logger.Discard()))
		_, err := r.CurrentUnitPrice(ctx)
		assert.Equal(t, dErrors.CodePriceUnavailable, dErrors.CodeOf(err))
	})

	t.Run("retries are clamped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockFeed(ctrl)
		feed.EXPECT().CurrentUnitPrice(gomock.Any()).Return(0.0, sentinel.ErrUnavailable).Times(priceindex.MaxRetries + 1)

		r := priceindex.NewRetrying(feed, 10, time.Millisecond, priceindex.WithLogger(logger.Discard()))
		_, err := r.CurrentUnitPrice(ctx)
		assert.Error(t, err)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockFeed(ctrl)
		cctx, cancel := context.WithCancel(ctx)
		feed.EXPECT().CurrentUnitPrice(gomock.Any()).DoAndReturn(func(context.Context) (float64, error) {
			cancel()
			return 0, context.Canceled
		}).Times(1)

		r := priceindex.NewRetrying(feed, 3, time.Millisecond, priceindex.WithLogger(logger.Discard()))
		_, err := r.CurrentUnitPrice(cctx)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePriceUnavailable))
	})
}
