package booking

import (
	"fmt"
	"strings"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/types"
)

// Validator computes per-section missing-required-field reports by crossing
// the schema's required fields with the field store's current values. It is
// stateless per call and safe to re-invoke; construct one per request.
type Validator struct {
	schema *types.FieldSchema
	fields store.FieldStore
}

// NewValidator creates a validator over the given schema and field store.
func NewValidator(schema *types.FieldSchema, fields store.FieldStore) *Validator {
	return &Validator{schema: schema, fields: fields}
}

// IsFilled is the tolerant value-presence predicate: nil and
// whitespace-only strings are unfilled; everything else — including 0 and
// false — counts as a value.
func IsFilled(v store.FieldValue) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// missingLabel renders one entry of a MissingFieldReport.
func missingLabel(scope, fieldID string) string {
	return fmt.Sprintf("%s - %s", scope, fieldID)
}

// ValidateBuyerSection checks the always-present buyer scalars.
func (v *Validator) ValidateBuyerSection() []string {
	var missing []string
	for _, key := range []string{store.BuyerName, store.BuyerEmail, store.BuyerTel, store.BuyerCountry} {
		if strings.TrimSpace(v.fields.BuyerField(key)) == "" {
			missing = append(missing, missingLabel("buyer", key))
		}
	}
	return missing
}

// ValidateGuideLangSection checks the guide language choice when the schema
// asks for one.
func (v *Validator) ValidateGuideLangSection() []string {
	if v.schema == nil || v.schema.GuideLang == nil || !v.schema.GuideLang.Require {
		return nil
	}
	if strings.TrimSpace(v.fields.GuideLang()) == "" {
		return []string{missingLabel("guide_lang", "guide_lang")}
	}
	return nil
}

// ValidateCustomSection reports the required fields of a customer type that
// have no filled value. A customer type never written to reports every
// required field missing.
func (v *Validator) ValidateCustomSection(cusType string) []string {
	var missing []string
	for _, fieldID := range RequiredCustomFields(v.schema, cusType) {
		value, ok := v.fields.CustomField(cusType, fieldID)
		if !ok || !IsFilled(value) {
			missing = append(missing, missingLabel(cusType, fieldID))
		}
	}
	return missing
}

// ValidateTrafficSection reports unmet required fields across every schema
// spec of the given traffic types. Stored entries are located per spec via
// resolveTrafficEntry's three-tier fallback.
func (v *Validator) ValidateTrafficSection(trafficTypes []string) []string {
	required := RequiredTrafficFields(v.schema, trafficTypes)
	if len(required) == 0 {
		return nil
	}

	entries := v.fields.TrafficEntries()

	var missing []string
	for _, rf := range required {
		entry := resolveTrafficEntry(v.schema, entries, rf.TrafficType, rf.SpecIndex)
		if entry == nil || !IsFilled(entry.Fields[rf.FieldID]) {
			missing = append(missing, missingLabel(rf.TrafficType, rf.FieldID))
		}
	}
	return missing
}

// resolveTrafficEntry locates the stored entry for a schema spec position:
//
//  1. exact match on (trafficType, specIndex) when the entry carries one;
//  2. occurrence-order mapping: the spec's occurrence index among same-type
//     schema specs selects the stored entry at that position among
//     same-type stored entries (clients that never recorded spec_index
//     write entries in schema order);
//  3. first stored entry of that traffic type.
//
// Returns nil when no entry of the type exists at all.
func resolveTrafficEntry(schema *types.FieldSchema, entries []store.TrafficEntry, trafficType string, specIndex int) *store.TrafficEntry {
	var sameType []*store.TrafficEntry
	for i := range entries {
		if entries[i].TrafficType == trafficType {
			sameType = append(sameType, &entries[i])
		}
	}
	if len(sameType) == 0 {
		return nil
	}

	for _, e := range sameType {
		if e.HasSpecIndex() && e.SpecIndex == specIndex {
			return e
		}
	}

	if occ := OccurrenceIndex(schema, specIndex); occ < len(sameType) {
		return sameType[occ]
	}

	return sameType[0]
}

// sectionSpec declares one booking-form section: when it applies to a
// package and how to compute its missing fields.
type sectionSpec struct {
	ID      string
	Label   string
	Applies func(schema *types.FieldSchema) bool
	Check   func(v *Validator) []string
}

func customSection(id, label, cusType string) sectionSpec {
	return sectionSpec{
		ID:      id,
		Label:   label,
		Applies: func(s *types.FieldSchema) bool { return s != nil && s.HasCustomType(cusType) },
		Check:   func(v *Validator) []string { return v.ValidateCustomSection(cusType) },
	}
}

func trafficSection(id, label string, trafficTypes ...string) sectionSpec {
	return sectionSpec{
		ID:      id,
		Label:   label,
		Applies: func(s *types.FieldSchema) bool { return s != nil && s.HasTrafficType(trafficTypes...) },
		Check:   func(v *Validator) []string { return v.ValidateTrafficSection(trafficTypes) },
	}
}

// sections is the declarative section registry, resolved against a schema
// instead of a hardcoded per-section branch table. Order is presentation
// order in the booking form.
var sections = []sectionSpec{
	{
		ID:      "buyer",
		Label:   "Buyer info",
		Applies: func(*types.FieldSchema) bool { return true },
		Check:   func(v *Validator) []string { return v.ValidateBuyerSection() },
	},
	{
		ID:      "guide_lang",
		Label:   "Guide language",
		Applies: func(s *types.FieldSchema) bool { return s != nil && s.GuideLang != nil },
		Check:   func(v *Validator) []string { return v.ValidateGuideLangSection() },
	},
	customSection("cus_01", "Primary traveler", "cus_01"),
	customSection("cus_02", "Secondary traveler", "cus_02"),
	customSection("contact", "Contact", "contact"),
	customSection("send", "Lodging / delivery", "send"),
	trafficSection("flight", "Flight", "flight"),
	customSection("psg_qty", "Passenger quantity", "psg_qty"),
	trafficSection("rentcar", "Car rental", "rentcar_01", "rentcar_02", "rentcar_03"),
	trafficSection("pickup", "Pickup", "pickup_03", "pickup_04"),
	trafficSection("voucher", "Voucher", "voucher"),
}

// ValidateSection computes the missing-field report for one section.
// Unknown section ids and sections not applicable to the schema validate
// clean — a no-op, not an error.
func (v *Validator) ValidateSection(sectionID string) []string {
	for _, s := range sections {
		if s.ID != sectionID {
			continue
		}
		if !s.Applies(v.schema) {
			return nil
		}
		return s.Check(v)
	}
	return nil
}

// SectionStates resolves the registry against the schema and reports every
// applicable section's completeness, in presentation order.
func (v *Validator) SectionStates() []types.SectionState {
	var out []types.SectionState
	for _, s := range sections {
		if !s.Applies(v.schema) {
			continue
		}
		missing := s.Check(v)
		if missing == nil {
			missing = []string{}
		}
		out = append(out, types.SectionState{
			SectionID: s.ID,
			Label:     s.Label,
			Complete:  len(missing) == 0,
			Missing:   missing,
		})
	}
	return out
}

// ApplicableSections lists the section ids the registry resolves for a
// schema, in presentation order.
func ApplicableSections(schema *types.FieldSchema) []string {
	var out []string
	for _, s := range sections {
		if s.Applies(schema) {
			out = append(out, s.ID)
		}
	}
	return out
}
