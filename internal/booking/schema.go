// Package booking implements the booking-flow core: reading the package
// field schema, validating section completeness against the field store,
// assembling the submission payload and orchestrating per-sku booking and
// save calls upstream.
package booking

import (
	"sort"

	"github.com/TourHive/booking-flow-backend/types"
)

// RequiredField describes one required field derived from the schema.
// Exactly one of CusType / TrafficType is set. SpecIndex is the position of
// the owning spec in the schema's traffics array — a positional identifier
// into the original schema, not a client-assigned id.
type RequiredField struct {
	CusType     string
	TrafficType string
	SpecIndex   int
	FieldID     string
}

// RequiredCustomFields returns the field ids required for the given
// customer type, in lexical order so reports are deterministic.
func RequiredCustomFields(schema *types.FieldSchema, cusType string) []string {
	if schema == nil {
		return nil
	}

	var out []string
	for fieldID, spec := range schema.Custom {
		if spec.Require && spec.AppliesTo(cusType) {
			out = append(out, fieldID)
		}
	}
	sort.Strings(out)
	return out
}

// RequiredTrafficFields walks the schema's traffics array by position and
// returns a descriptor for every required field of every spec whose traffic
// type is in trafficTypes. Field ids within a spec are emitted in lexical
// order; specs keep schema order.
func RequiredTrafficFields(schema *types.FieldSchema, trafficTypes []string) []RequiredField {
	if schema == nil {
		return nil
	}

	wanted := make(map[string]bool, len(trafficTypes))
	for _, tt := range trafficTypes {
		wanted[tt] = true
	}

	var out []RequiredField
	for specIndex, spec := range schema.Traffics {
		if !wanted[spec.TrafficType.TrafficTypeValue] {
			continue
		}

		fieldIDs := make([]string, 0, len(spec.Fields))
		for fieldID, field := range spec.Fields {
			if field.Require {
				fieldIDs = append(fieldIDs, fieldID)
			}
		}
		sort.Strings(fieldIDs)

		for _, fieldID := range fieldIDs {
			out = append(out, RequiredField{
				TrafficType: spec.TrafficType.TrafficTypeValue,
				SpecIndex:   specIndex,
				FieldID:     fieldID,
			})
		}
	}
	return out
}

// OccurrenceIndex returns the 0-based occurrence position of the spec at
// specIndex among schema specs sharing its traffic type: how many specs of
// the same type appear strictly before it. Used to map schema positions
// onto stored entries written without an explicit spec index, which appear
// in schema order.
func OccurrenceIndex(schema *types.FieldSchema, specIndex int) int {
	if schema == nil || specIndex < 0 || specIndex >= len(schema.Traffics) {
		return 0
	}

	target := schema.Traffics[specIndex].TrafficType.TrafficTypeValue
	occurrence := 0
	for i := 0; i < specIndex; i++ {
		if schema.Traffics[i].TrafficType.TrafficTypeValue == target {
			occurrence++
		}
	}
	return occurrence
}
