// Package priceindex provides the unit price of the registry's native asset
// in USD, used to convert a claim's USD price into the native unit.
package priceindex

import (
	"context"
	"math"

	dErrors "zenith/pkg/domain-errors"
)

// Feed returns the current USD price of one native unit.
// Implementations fail with price_unavailable when no usable price exists.
type Feed interface {
	CurrentUnitPrice(ctx context.Context) (float64, error)
}

// Static is a fixed price, for development and tests.
type Static float64

func (s Static) CurrentUnitPrice(_ context.Context) (float64, error) {
	if !usable(float64(s)) {
		return 0, dErrors.New(dErrors.CodePriceUnavailable, "static price is not configured")
	}
	return float64(s), nil
}

func usable(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
