package ports

import (
	"context"

	"zenith/internal/registry/models"
)

// Registry is the external claim registry: the source of truth for which
// regions are claimed, and the target of claim transactions.
//
// Adapters return coded errors for RegionConflict and TransactionRejected,
// and wrap sentinel.ErrUnavailable when the registry cannot be reached.
type Registry interface {
	TakenRegions(ctx context.Context) ([]string, error)
	Availability(ctx context.Context, regions []string) (models.AvailabilityResponse, error)
	SubmitClaim(ctx context.Context, req models.ClaimRequest) (models.TransactionResult, error)
}

// TakenCache holds the opportunistic taken-region read.
// Get returns sentinel.ErrNotFound when nothing fresh is cached.
type TakenCache interface {
	Get(ctx context.Context) (models.TakenSet, error)
	Set(ctx context.Context, taken models.TakenSet) error
	Invalidate(ctx context.Context) error
}
