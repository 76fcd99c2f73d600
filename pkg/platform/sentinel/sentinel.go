package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and external
// adapters return these (optionally wrapped) so services can translate them
// into domain errors.
//
//   - ErrNotFound: entry does not exist (or has expired) in a store or cache
//   - ErrConflict: a write collided with existing state, e.g. a region that
//     is already claimed in the ledger
//   - ErrRejected: the external party refused the operation
//   - ErrUnavailable: dependency temporarily unreachable
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrRejected    = errors.New("rejected")
	ErrUnavailable = errors.New("unavailable")
)
