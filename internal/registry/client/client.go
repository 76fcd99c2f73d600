// Package client talks to the registry gateway over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"zenith/internal/registry/models"
	dErrors "zenith/pkg/domain-errors"
	"zenith/pkg/platform/sentinel"
)

const maxResponseBytes = 4 << 20

// Client implements ports.Registry against the gateway protocol.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TakenRegions reads every claimed region name.
func (c *Client) TakenRegions(ctx context.Context) ([]string, error) {
	var out models.TakenResponse
	if err := c.do(ctx, http.MethodGet, "/v1/regions/taken", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Regions, nil
}

// Availability asks the registry which of regions are taken.
func (c *Client) Availability(ctx context.Context, regions []string) (models.AvailabilityResponse, error) {
	var out models.AvailabilityResponse
	err := c.do(ctx, http.MethodPost, "/v1/regions/availability", models.AvailabilityRequest{Regions: regions}, http.StatusOK, &out)
	return out, err
}

// SubmitClaim records a claim. Region keys are derived from the names so the
// registry can check integrity.
func (c *Client) SubmitClaim(ctx context.Context, req models.ClaimRequest) (models.TransactionResult, error) {
	price := "0"
	if req.PriceWei != nil {
		price = req.PriceWei.String()
	}
	body := models.ClaimBody{
		ClaimID:     req.ClaimID,
		Name:        req.Name,
		ProjectType: req.ProjectType,
		Regions:     req.Regions,
		RegionKeys:  models.RegionKeys(req.Regions),
		PriceWei:    price,
	}
	var out models.TransactionResult
	if err := c.do(ctx, http.MethodPost, "/v1/claims", body, http.StatusCreated, &out); err != nil {
		return models.TransactionResult{}, err
	}
	return out, nil
}

// Project fetches a recorded project by name.
func (c *Client) Project(ctx context.Context, name string) (models.Project, error) {
	var out models.Project
	err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(name), nil, http.StatusOK, &out)
	return out, err
}

// Projects lists recorded projects.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	err := c.do(ctx, http.MethodGet, "/v1/projects", nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	if resp.StatusCode != want {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var ge models.GatewayError
	_ = json.Unmarshal(raw, &ge)
	msg := ge.Description
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusConflict && ge.Error == string(dErrors.CodeRegionConflict):
		return dErrors.Wrap(&RegionConflictError{Regions: ge.Regions}, dErrors.CodeRegionConflict, msg)
	case status == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, msg)
	case status == http.StatusPaymentRequired || status == http.StatusForbidden:
		return dErrors.New(dErrors.CodeTransactionRejected, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, sentinel.ErrNotFound)
	case status == http.StatusBadRequest:
		return dErrors.New(dErrors.CodeBadRequest, msg)
	case status >= 500 || status == http.StatusTooManyRequests:
		return fmt.Errorf("registry returned %d: %w", status, sentinel.ErrUnavailable)
	default:
		return fmt.Errorf("registry returned unexpected status %d: %s", status, msg)
	}
}

// RegionConflictError lists regions the registry found already claimed.
type RegionConflictError struct {
	Regions []string
}

func (e *RegionConflictError) Error() string {
	return "regions already claimed: " + strings.Join(e.Regions, ", ")
}

func (e *RegionConflictError) Unwrap() error {
	return sentinel.ErrConflict
}

// ConflictingRegions extracts the regions from a region conflict, if any.
func ConflictingRegions(err error) []string {
	var rc *RegionConflictError
	if errors.As(err, &rc) {
		return rc.Regions
	}
	return nil
}
