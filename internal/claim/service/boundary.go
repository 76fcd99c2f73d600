package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"zenith/internal/claim/models"
)

//go:embed payload.schema.json
var payloadSchemaJSON []byte

const payloadSchemaURL = "payload.schema.json"

var (
	payloadOnce   sync.Once
	payloadSchema *jsonschema.Schema
	payloadErr    error
)

func compiledPayloadSchema() (*jsonschema.Schema, error) {
	payloadOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(payloadSchemaURL, bytes.NewReader(payloadSchemaJSON)); err != nil {
			payloadErr = err
			return
		}
		payloadSchema, payloadErr = c.Compile(payloadSchemaURL)
	})
	return payloadSchema, payloadErr
}

// ValidateBoundary checks p against the submission contract the registry
// side consumes.
func ValidateBoundary(p models.BoundaryPayload) error {
	s, err := compiledPayloadSchema()
	if err != nil {
		return fmt.Errorf("compile payload schema: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
