// Package rules implements the pure selection checks and pricing.
package rules

import (
	"math"

	"zenith/internal/territory/models"
	dErrors "zenith/pkg/domain-errors"
)

const (
	ReasonSovereignExclusive = "sovereign regions cannot be combined with others"
	ReasonAreaCapExceeded    = "non-sovereign selection exceeds area cap"
)

// Quote is the priced view of a candidate selection.
type Quote struct {
	TotalArea  float64 `json:"total_area_km2"`
	TotalPrice float64 `json:"total_price_usd"`
}

// Dedupe drops later occurrences of a name.
func Dedupe(candidate []models.SelectedRegion) []models.SelectedRegion {
	seen := make(map[string]struct{}, len(candidate))
	out := make([]models.SelectedRegion, 0, len(candidate))
	for _, r := range candidate {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Validate reports whether candidate is a legal combination. The empty
// candidate is valid. Rejections carry CodeSovereignExclusivity or
// CodeAreaLimitExceeded.
func Validate(candidate []models.SelectedRegion) error {
	regions := Dedupe(candidate)

	sovereign := 0
	var area float64
	for _, r := range regions {
		if r.Category == models.CategorySovereign {
			sovereign++
		}
		area += r.Area
	}

	if sovereign > 0 {
		if len(regions) != 1 {
			return dErrors.New(dErrors.CodeSovereignExclusivity, ReasonSovereignExclusive)
		}
		return nil
	}
	if area > models.AreaCapKm2 {
		return dErrors.New(dErrors.CodeAreaLimitExceeded, ReasonAreaCapExceeded)
	}
	return nil
}

// ValidateSelection validates a Selection value.
func ValidateSelection(s models.Selection) error {
	return Validate(s.Members())
}

// Price computes total area and USD price without rounding.
func Price(candidate []models.SelectedRegion) Quote {
	var area float64
	for _, r := range Dedupe(candidate) {
		area += r.Area
	}
	return Quote{TotalArea: area, TotalPrice: PriceForArea(area)}
}

// PriceForArea applies the flat rate to an area in km².
func PriceForArea(area float64) float64 {
	return (area / 1_000_000) * models.USDPerMillionKm2
}

// Payload derives the claim payload for a selection.
func Payload(s models.Selection) models.ClaimPayload {
	q := Price(s.Members())
	return models.ClaimPayload{
		Regions:    s.Names(),
		TotalArea:  q.TotalArea,
		TotalPrice: q.TotalPrice,
	}
}

// RoundUSD rounds to cents for display. Stored values stay unrounded.
func RoundUSD(v float64) float64 {
	return math.Round(v*100) / 100
}
