package priceindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/sentinel"
)

const maxPriceBody = 64 << 10

// HTTPFeed reads a CoinGecko-style simple/price endpoint:
//
//	GET {base}/simple/price?ids={asset}&vs_currencies=usd -> {"{asset}":{"usd":1234.5}}
//
// Requests are rate limited client side since the public endpoint throttles
// aggressively.
type HTTPFeed struct {
	baseURL string
	asset   string
	http    *http.Client
	limiter *rate.Limiter
}

type HTTPOption func(*HTTPFeed)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFeed) {
		if c != nil {
			f.http = c
		}
	}
}

// WithRateLimit allows perMinute requests with a burst of one.
// Zero or negative disables limiting.
func WithRateLimit(perMinute int) HTTPOption {
	return func(f *HTTPFeed) {
		if perMinute <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

func NewHTTPFeed(baseURL, asset string, timeout time.Duration, opts ...HTTPOption) *HTTPFeed {
	f := &HTTPFeed{
		baseURL: strings.TrimRight(baseURL, "/"),
		asset:   asset,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CurrentUnitPrice performs one request. Transport and 5xx/429 failures wrap
// sentinel.ErrUnavailable so a retrying wrapper can tell them apart from a
// malformed answer.
func (f *HTTPFeed) CurrentUnitPrice(ctx context.Context) (float64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("price index rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("ids", f.asset)
	q.Set("vs_currencies", "usd")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("price index: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return 0, fmt.Errorf("price index returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, dErrors.Newf(dErrors.CodePriceUnavailable, "price index returned %d", resp.StatusCode)
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPriceBody)).Decode(&body); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodePriceUnavailable, "invalid price data received")
	}
	price, ok := body[f.asset]["usd"]
	if !ok || !usable(price) {
		return 0, dErrors.Newf(dErrors.CodePriceUnavailable, "no usable usd price for %s", f.asset)
	}
	return price, nil
}
