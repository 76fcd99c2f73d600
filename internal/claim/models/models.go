// Package models holds the claim submission types shared by the wizard and
// the claim service.
package models

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	territory "zenith/internal/territory/models"
)

// Submission is everything the wizard gathered by the Confirm step.
type Submission struct {
	SessionID   uuid.UUID
	ProjectType string
	Chain       string
	Fields      map[string]any
	Payload     territory.ClaimPayload
}

// Name is the project name field.
func (s Submission) Name() string {
	name, _ := s.Fields["name"].(string)
	return name
}

// Receipt is the result of a recorded claim.
type Receipt struct {
	ClaimID    uuid.UUID `json:"claim_id"`
	TxHash     string    `json:"tx_hash"`
	Name       string    `json:"name"`
	Regions    []string  `json:"regions"`
	TotalArea  float64   `json:"total_area_km2"`
	TotalPrice float64   `json:"total_price_usd"`
	UnitPrice  float64   `json:"unit_price_usd"`
	PriceWei   *big.Int  `json:"price_wei"`
	RecordedAt time.Time `json:"recorded_at"`
}

// BoundaryPayload is the stable submission shape handed to the registry side.
type BoundaryPayload struct {
	Name          string   `json:"name"`
	ProjectType   string   `json:"projectType"`
	Regions       []string `json:"regions"`
	TotalAreaKm2  float64  `json:"totalAreaKm2"`
	TotalPriceUSD float64  `json:"totalPriceUsd"`
}
