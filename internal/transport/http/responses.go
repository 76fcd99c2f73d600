package httptransport

import (
	"time"

	claim "zenith/internal/claim/models"
	"zenith/internal/session"
	territory "zenith/internal/territory/models"
	"zenith/internal/territory/rules"
	"zenith/internal/wizard"
)

// PayloadResponse is a claim payload with the price rounded to cents.
type PayloadResponse struct {
	Regions    []string `json:"regions"`
	TotalArea  float64  `json:"total_area_km2"`
	TotalPrice float64  `json:"total_price_usd"`
}

func toPayload(p territory.ClaimPayload) PayloadResponse {
	regions := p.Regions
	if regions == nil {
		regions = []string{}
	}
	return PayloadResponse{
		Regions:    regions,
		TotalArea:  p.TotalArea,
		TotalPrice: rules.RoundUSD(p.TotalPrice),
	}
}

type FlagResponse struct {
	Region    string    `json:"region"`
	Code      string    `json:"code"`
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReceiptResponse struct {
	ClaimID    string    `json:"claim_id"`
	TxHash     string    `json:"tx_hash"`
	Name       string    `json:"name"`
	Regions    []string  `json:"regions"`
	TotalArea  float64   `json:"total_area_km2"`
	TotalPrice float64   `json:"total_price_usd"`
	UnitPrice  float64   `json:"unit_price_usd"`
	PriceWei   string    `json:"price_wei"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toReceipt(r *claim.Receipt) *ReceiptResponse {
	if r == nil {
		return nil
	}
	out := &ReceiptResponse{
		ClaimID:    r.ClaimID.String(),
		TxHash:     r.TxHash,
		Name:       r.Name,
		Regions:    r.Regions,
		TotalArea:  r.TotalArea,
		TotalPrice: rules.RoundUSD(r.TotalPrice),
		UnitPrice:  r.UnitPrice,
		RecordedAt: r.RecordedAt,
	}
	if r.PriceWei != nil {
		out.PriceWei = r.PriceWei.String()
	}
	return out
}

type WizardResponse struct {
	Step        wizard.Step      `json:"step"`
	Path        []wizard.Step    `json:"path"`
	ProjectType string           `json:"project_type,omitempty"`
	Chain       string           `json:"chain,omitempty"`
	Fields      map[string]any   `json:"fields,omitempty"`
	RegionsOpen bool             `json:"regions_open"`
	Receipt     *ReceiptResponse `json:"receipt,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
}

type SelectionResponse struct {
	Regions     []territory.SelectedRegion `json:"regions"`
	Payload     PayloadResponse            `json:"claim_payload"`
	Flag        *FlagResponse              `json:"flag,omitempty"`
	TakenLoaded bool                       `json:"taken_loaded"`
	TakenError  string                     `json:"taken_error,omitempty"`
	Pending     []string                   `json:"pending"`
}

// SessionResponse is the full session view returned by every wizard call.
type SessionResponse struct {
	ID        string            `json:"id"`
	OpenedAt  time.Time         `json:"opened_at"`
	Wizard    WizardResponse    `json:"wizard"`
	Selection SelectionResponse `json:"selection"`
}

func toSession(v session.View) SessionResponse {
	resp := SessionResponse{
		ID:       v.ID.String(),
		OpenedAt: v.OpenedAt,
		Wizard: WizardResponse{
			Step:        v.Wizard.Step,
			Path:        v.Wizard.Path,
			ProjectType: v.Wizard.ProjectType,
			Chain:       v.Wizard.Chain,
			Fields:      v.Wizard.Fields,
			RegionsOpen: v.Wizard.RegionsOpen,
			Receipt:     toReceipt(v.Wizard.Receipt),
			LastError:   v.Wizard.LastError,
		},
		Selection: SelectionResponse{
			Regions:     v.Selection,
			Payload:     toPayload(v.Payload),
			TakenLoaded: v.TakenLoaded,
			TakenError:  v.TakenError,
			Pending:     v.Pending,
		},
	}
	if resp.Selection.Regions == nil {
		resp.Selection.Regions = []territory.SelectedRegion{}
	}
	if v.Flag != nil {
		resp.Selection.Flag = &FlagResponse{
			Region:    v.Flag.Region,
			Code:      string(v.Flag.Code),
			Reason:    v.Flag.Reason,
			ExpiresAt: v.Flag.ExpiresAt,
		}
	}
	return resp
}

// OpenSessionResponse carries the bearer token for the new session.
type OpenSessionResponse struct {
	SessionToken string          `json:"session_token"`
	ExpiresIn    int64           `json:"expires_in"`
	Session      SessionResponse `json:"session"`
}

// ToggleResponse adds what the toggle did to the session view.
type ToggleResponse struct {
	Queued    bool            `json:"queued"`
	Committed bool            `json:"committed"`
	Evicted   []string        `json:"evicted,omitempty"`
	Session   SessionResponse `json:"session"`
}

type RegionResponse struct {
	Name     string  `json:"name"`
	Area     float64 `json:"area_km2"`
	Category string  `json:"category"`
	Active   bool    `json:"active"`
	Taken    bool    `json:"taken,omitempty"`
}

type RegionsResponse struct {
	Digest  string           `json:"digest"`
	Count   int              `json:"count"`
	Regions []RegionResponse `json:"regions"`
}

// QuoteRequest prices a candidate selection without a session.
type QuoteRequest struct {
	Regions []string `json:"regions"`
}

type QuoteResponse struct {
	Regions    []string `json:"regions"`
	Valid      bool     `json:"valid"`
	Code       string   `json:"code,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	TotalArea  float64  `json:"total_area_km2"`
	TotalPrice float64  `json:"total_price_usd"`
}

type TakenResponse struct {
	Regions []string `json:"regions"`
}
