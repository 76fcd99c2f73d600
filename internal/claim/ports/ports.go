package ports

import (
	"context"

	"zenith/internal/events"
	registry "zenith/internal/registry/models"
	territory "zenith/internal/territory/models"
)

// Availability is the authoritative side of the claim oracle.
type Availability interface {
	Conflicts(ctx context.Context, names []string) ([]string, error)
	SubmitClaim(ctx context.Context, req registry.ClaimRequest) (registry.TransactionResult, error)
}

// PriceFeed reports the USD price of one unit of the native currency.
type PriceFeed interface {
	CurrentUnitPrice(ctx context.Context) (float64, error)
}

// Catalog resolves region names to reference data.
type Catalog interface {
	Lookup(name string) (territory.Region, error)
}

// Publisher delivers claim lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
