package models

import "github.com/google/uuid"

// Gateway protocol bodies shared by the HTTP client and the reference server.

type TakenResponse struct {
	Regions []string `json:"regions"`
}

type AvailabilityRequest struct {
	Regions []string `json:"regions"`
}

type AvailabilityResponse struct {
	Available bool     `json:"available"`
	Taken     []string `json:"taken"`
}

type ClaimBody struct {
	ClaimID     uuid.UUID `json:"claim_id"`
	Name        string    `json:"name"`
	ProjectType string    `json:"project_type"`
	Regions     []string  `json:"regions"`
	RegionKeys  []string  `json:"region_keys"`
	PriceWei    string    `json:"price_wei"`
}

type GatewayError struct {
	Error       string   `json:"error"`
	Description string   `json:"error_description,omitempty"`
	Regions     []string `json:"regions,omitempty"`
}
