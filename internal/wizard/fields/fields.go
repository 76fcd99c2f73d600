// Package fields validates registration form values. Each field type maps to
// one rule in a dispatch table, and each project type maps to a schema of
// fields.
package fields

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	dErrors "zenith/pkg/domain-errors"
)

// Type is a form field type.
type Type string

const (
	TypeText            Type = "text"
	TypeTextarea        Type = "textarea"
	TypeEmail           Type = "email"
	TypeURL             Type = "url"
	TypeSelect          Type = "select"
	TypeRadio           Type = "radio"
	TypeNumber          Type = "number"
	TypePositiveInteger Type = "positive-integer"
	TypeMultiselect     Type = "multiselect"
	TypeImage           Type = "image"
	TypeColor           Type = "color"
	TypeTokenSymbol     Type = "token-symbol"
	TypeRegions         Type = "regions"
)

const MaxImageBytes = 2 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
}

var (
	hexColor    = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	tokenSymbol = regexp.MustCompile(`^[A-Z0-9$]{1,7}$`)
	digits      = regexp.MustCompile(`^\d+$`)
)

// Field describes one form input.
type Field struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     Type     `json:"type"`
	Required bool     `json:"required"`
	MinLen   int      `json:"min_length,omitempty"`
	MaxLen   int      `json:"max_length,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Image is the metadata of an uploaded image. The content itself is stored
// elsewhere and referenced by CID.
type Image struct {
	CID         string `json:"cid"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Values holds submitted form values keyed by field id, as decoded from JSON.
type Values map[string]any

// Errors maps field ids to messages.
type Errors map[string]string

func (e Errors) Error() string {
	ids := make([]string, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+": "+e[id])
	}
	return strings.Join(parts, "; ")
}

// FieldMessages exposes the per-field map to transports.
func (e Errors) FieldMessages() map[string]string {
	return e
}

// rule checks a present value and returns its normalized form, or a
// message for the user.
type rule func(f Field, v any) (any, string)

var dispatch = map[Type]rule{
	TypeText:            checkText,
	TypeTextarea:        checkText,
	TypeEmail:           checkEmail,
	TypeURL:             checkURL,
	TypeSelect:          checkOption,
	TypeRadio:           checkOption,
	TypeNumber:          checkNumber,
	TypePositiveInteger: checkPositiveInteger,
	TypeMultiselect:     checkMultiselect,
	TypeImage:           checkImage,
	TypeColor:           checkColor,
	TypeTokenSymbol:     checkTokenSymbol,
	TypeRegions:         checkRegions,
}

// Check validates one value against f and returns the normalized value, or a
// non-empty message. A nil or empty value fails only for required fields.
func Check(f Field, v any) (any, string) {
	if isEmpty(v) {
		if f.Required {
			if f.Type == TypeRegions {
				return nil, "Please select at least one region"
			}
			return nil, fmt.Sprintf("%s is required", f.Label)
		}
		return nil, ""
	}
	fn, ok := dispatch[f.Type]
	if !ok {
		return nil, fmt.Sprintf("unsupported field type %q", f.Type)
	}
	return fn(f, v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func checkText(f Field, v any) (any, string) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Sprintf("%s must be text", f.Label)
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if f.MinLen > 0 && n < f.MinLen {
		return nil, fmt.Sprintf("%s must be at least %d characters", f.Label, f.MinLen)
	}
	if f.MaxLen > 0 && n > f.MaxLen {
		return nil, fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLen)
	}
	return s, ""
}

func checkEmail(_ Field, v any) (any, string) {
	s, _ := v.(string)
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return nil, "Please enter a valid email address"
	}
	return addr.Address, ""
}

func checkURL(_ Field, v any) (any, string) {
	s, _ := v.(string)
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "Please enter a valid URL"
	}
	return u.String(), ""
}

func checkOption(f Field, v any) (any, string) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Sprintf("%s must be one of the listed options", f.Label)
	}
	for _, opt := range f.Options {
		if s == opt {
			return s, ""
		}
	}
	return nil, fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", "))
}

func checkNumber(_ Field, v any) (any, string) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, "Please enter a valid number"
		}
		n = parsed
	default:
		return nil, "Please enter a valid number"
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, "Please enter a valid number"
	}
	if n < 0 {
		return nil, "Value must not be negative"
	}
	return n, ""
}

func checkPositiveInteger(_ Field, v any) (any, string) {
	var n int64
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt64 {
			return nil, "Please enter a valid number"
		}
		n = int64(t)
	case int:
		n = int64(t)
	case string:
		t = strings.TrimSpace(t)
		if !digits.MatchString(t) {
			return nil, "Please enter a valid number"
		}
		parsed, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, "Please enter a valid number"
		}
		n = parsed
	default:
		return nil, "Please enter a valid number"
	}
	if n <= 0 {
		return nil, "Value must be greater than 0"
	}
	return n, ""
}

func checkMultiselect(f Field, v any) (any, string) {
	items, ok := stringList(v)
	if !ok {
		return nil, fmt.Sprintf("%s must be a list", f.Label)
	}
	if len(items) == 0 {
		return nil, "Please select at least one network"
	}
	if len(f.Options) > 0 {
		for _, item := range items {
			if _, msg := checkOption(f, item); msg != "" {
				return nil, msg
			}
		}
	}
	return items, ""
}

func checkImage(_ Field, v any) (any, string) {
	var img Image
	switch t := v.(type) {
	case Image:
		img = t
	case map[string]any:
		img.CID, _ = t["cid"].(string)
		img.ContentType, _ = t["content_type"].(string)
		if size, ok := t["size"].(float64); ok {
			img.Size = int64(size)
		}
	default:
		return nil, "Please upload a logo"
	}
	if img.Size <= 0 {
		return nil, "Please upload a logo"
	}
	if img.Size > MaxImageBytes {
		return nil, "Logo must be less than 2MB"
	}
	if _, ok := allowedImageTypes[img.ContentType]; !ok {
		return nil, "Logo must be a valid image file (JPG, PNG, GIF, WEBP, or SVG)"
	}
	return img, ""
}

func checkColor(_ Field, v any) (any, string) {
	s, _ := v.(string)
	if !hexColor.MatchString(s) {
		return nil, "Please enter a valid hex color code"
	}
	return s, ""
}

func checkTokenSymbol(_ Field, v any) (any, string) {
	s, _ := v.(string)
	s = strings.ToUpper(strings.TrimSpace(s))
	if !tokenSymbol.MatchString(s) {
		return nil, "Token symbol must be 1-7 characters (letters, numbers, $ only)"
	}
	return s, ""
}

func checkRegions(_ Field, v any) (any, string) {
	items, ok := stringList(v)
	if !ok || len(items) == 0 {
		return nil, "Please select at least one region"
	}
	return items, ""
}

func stringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Validate checks values against every field in s and returns the normalized
// values. Unknown keys are dropped. On failure the error carries
// CodeFieldValidationFailed and wraps an Errors map.
func (s Schema) Validate(values Values) (Values, error) {
	out := make(Values, len(s.Fields))
	errs := Errors{}
	for _, f := range s.Fields {
		v, msg := Check(f, values[f.ID])
		if msg != "" {
			errs[f.ID] = msg
			continue
		}
		if v != nil {
			out[f.ID] = v
		}
	}
	if len(errs) > 0 {
		return nil, dErrors.Wrap(errs, dErrors.CodeFieldValidationFailed, "form has invalid fields")
	}
	return out, nil
}

// FieldErrors extracts the per-field messages from a validation error.
func FieldErrors(err error) Errors {
	var fe Errors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
