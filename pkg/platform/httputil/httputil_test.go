package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "zenith/pkg/domain-errors"
)

type fieldErr map[string]string

func (f fieldErr) Error() string                    { return "fields invalid" }
func (f fieldErr) FieldMessages() map[string]string { return f }

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "ledger insert failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		body := decodeBody(t, w)
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("region unavailable maps to conflict", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeRegionUnavailable, "region \"Luxembourg\" is already claimed"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}
		body := decodeBody(t, w)
		if body["error_description"] != "region \"Luxembourg\" is already claimed" {
			t.Fatalf("unexpected description %q", body["error_description"])
		}
	})

	t.Run("dependency outage maps to service unavailable", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodePriceUnavailable, "price index unreachable"))
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
		}
	})

	t.Run("field errors are listed", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := dErrors.Wrap(fieldErr{"name": "Name must be at least 2 characters"},
			dErrors.CodeFieldValidationFailed, "form has invalid fields")
		WriteError(w, err)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		body := decodeBody(t, w)
		fields, ok := body["fields"].(map[string]any)
		if !ok || fields["name"] != "Name must be at least 2 characters" {
			t.Fatalf("expected field message for name, got %v", body["fields"])
		}
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, http.ErrHandlerTimeout)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type toggle struct {
		Region string `json:"region"`
	}

	t.Run("decodes body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"region":"Chad"}`))
		v, err := DecodeJSON[toggle](r)
		if err != nil || v.Region != "Chad" {
			t.Fatalf("unexpected result %+v, %v", v, err)
		}
	})

	t.Run("empty body is zero value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		v, err := DecodeJSON[toggle](r)
		if err != nil || v.Region != "" {
			t.Fatalf("unexpected result %+v, %v", v, err)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"regions":["Chad"]}`))
		_, err := DecodeJSON[toggle](r)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad_request, got %v", err)
		}
	})
}
