// Package events publishes claim lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a claim lifecycle event.
type Type string

const (
	ClaimSubmitted Type = "claim.submitted"
	ClaimFailed    Type = "claim.failed"
)

// Event is one claim lifecycle fact. Key is the claim id.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	ClaimID     uuid.UUID `json:"claim_id"`
	SessionID   uuid.UUID `json:"session_id,omitempty"`
	Name        string    `json:"name"`
	ProjectType string    `json:"project_type"`
	Regions     []string  `json:"regions"`
	TotalArea   float64   `json:"total_area_km2"`
	TotalPrice  float64   `json:"total_price_usd"`
	PriceWei    string    `json:"price_wei,omitempty"`
	TxHash      string    `json:"tx_hash,omitempty"`
	ErrorCode   string    `json:"error_code,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery failures are reported, never retried
// by the publisher itself.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
