package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"zenith/internal/platform/logger"
	"zenith/internal/registry/models"
	"zenith/internal/registry/store"
	"zenith/pkg/testutil"
)

func claimBody(name string, regions ...string) models.ClaimBody {
	price := "0"
	if len(regions) > 0 {
		price = "130585400000000"
	}
	return models.ClaimBody{
		ClaimID:     uuid.New(),
		Name:        name,
		ProjectType: "Blockchain",
		Regions:     regions,
		RegionKeys:  models.RegionKeys(regions),
		PriceWei:    price,
	}
}

func TestGateway(t *testing.T) {
	recordedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	router := Router(New(store.NewInMemoryLedger(), logger.Discard()))

	post := func(t *testing.T, path string, body any) *http.Request {
		return testutil.WithRequestTime(testutil.NewJSONRequest(t, http.MethodPost, path, body), recordedAt)
	}

	if !testutil.Given(t, "an empty ledger", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/regions/taken"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "regions", []any{})
	}) {
		return
	}

	if !testutil.When(t, "a claim is recorded", func(t *testing.T) {
		body := claimBody("Zenith", "Germany", "Poland")
		rr := testutil.DoRequest(router, post(t, "/v1/claims", body))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		res := testutil.UnmarshalResponse[models.TransactionResult](t, rr)
		assert.Equal(t, body.ClaimID, res.ClaimID)
		assert.Equal(t, models.TxHash(body.ClaimID, body.Regions), res.TxHash)
		assert.True(t, recordedAt.Equal(res.RecordedAt))
	}) {
		return
	}

	testutil.Then(t, "its regions are taken", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/regions/taken"))
		taken := testutil.UnmarshalResponse[models.TakenResponse](t, rr)
		assert.ElementsMatch(t, []string{"Germany", "Poland"}, taken.Regions)
	})

	testutil.And(t, "an availability check names only the taken region", func(t *testing.T) {
		rr := testutil.DoRequest(router, post(t, "/v1/regions/availability", models.AvailabilityRequest{Regions: []string{"Chad", "Poland"}}))
		avail := testutil.UnmarshalResponse[models.AvailabilityResponse](t, rr)
		assert.False(t, avail.Available)
		assert.Equal(t, []string{"Poland"}, avail.Taken)
	})

	testutil.And(t, "the project can be read back", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/projects/Zenith"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "price_wei", "130585400000000")

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/projects/Nobody"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("rejections", func(t *testing.T) {
		tampered := claimBody("Tampered", "Chad")
		tampered.RegionKeys = models.RegionKeys([]string{"Niger"})
		unpaid := claimBody("Unpaid", "Chad")
		unpaid.PriceWei = "0"

		tests := []struct {
			name   string
			body   any
			status int
			code   string
		}{
			{name: "region conflict", body: claimBody("Other", "Poland", "Chad"), status: http.StatusConflict, code: "region_conflict"},
			{name: "duplicate name", body: claimBody("Zenith", "Chad"), status: http.StatusConflict, code: "conflict"},
			{name: "tampered keys", body: tampered, status: http.StatusBadRequest, code: "bad_request"},
			{name: "unpaid", body: unpaid, status: http.StatusPaymentRequired, code: "transaction_rejected"},
			{name: "unknown field", body: map[string]any{"claim_id": uuid.New(), "extra": true}, status: http.StatusBadRequest, code: "bad_request"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := testutil.DoRequest(router, post(t, "/v1/claims", tt.body))
				testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
			})
		}

		rr := testutil.DoRequest(router, post(t, "/v1/claims", claimBody("Other", "Poland", "Chad")))
		assert.Equal(t, []string{"Poland"}, testutil.UnmarshalErrorResponse(t, rr).Regions)
	})

	t.Run("regions without payment are accepted when empty", func(t *testing.T) {
		rr := testutil.DoRequest(router, post(t, "/v1/claims", claimBody("Empty")))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})
}

type failingLedger struct{ store.Ledger }

func (failingLedger) Taken(context.Context) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestGatewayHidesInternalErrors(t *testing.T) {
	router := Router(New(failingLedger{}, logger.Discard()))
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/regions/taken"))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	resp := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "internal_error", resp.Error)
	assert.Empty(t, resp.Description)
}
