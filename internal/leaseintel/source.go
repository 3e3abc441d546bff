// Package leaseintel reads per-property lease rollover data from the
// ApartmentIQ API or from an Elasticsearch index.
package leaseintel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apartmentiq-workers/internal/common/validation"
	"apartmentiq-workers/internal/dealscore"
)

var (
	ErrFetchFailed    = errors.New("LEASE_INTEL_FETCH_FAILED")
	ErrInvalidPayload = errors.New("INVALID_LEASE_INTEL")
	ErrSearchTimeout  = errors.New("SEARCH_TIMEOUT")
)

// Source fetches lease intelligence for a set of properties. Properties the
// source knows nothing about are simply absent from the result.
type Source interface {
	Name() string
	Fetch(ctx context.Context, propertyIDs []string) ([]dealscore.LeaseIntel, error)
}

// Only propertyId is required. Missing or null numbers decode as zero and
// are scored as zero; values of the wrong type reject the payload.
const payloadSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["propertyId"],
				"properties": {
					"propertyId": {"type": "string", "minLength": 1},
					"rolloverRiskScore": {"type": ["number", "null"]},
					"expiringNext30Days": {"type": ["integer", "null"]},
					"expiringNext90Days": {"type": ["integer", "null"]},
					"avgCurrentLease": {"type": ["number", "null"]},
					"marketRate": {"type": ["number", "null"]},
					"renewalRate": {"type": ["number", "null"]},
					"totalUnits": {"type": ["integer", "null"]}
				}
			}
		}
	}
}`

var schema = validation.MustCompile(payloadSchema)

// Payload is the envelope both sources produce: {"data": [...]}.
type Payload struct {
	Data []dealscore.LeaseIntel `json:"data"`
}

// DecodePayload validates raw against the lease intel schema and decodes it.
func DecodePayload(raw []byte) ([]dealscore.LeaseIntel, error) {
	res, err := schema.ValidateBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if verr := res.Err(); verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, verr)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p.Data, nil
}
