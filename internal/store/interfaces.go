// Package store holds the mutable per-session state of an in-progress
// booking: the traveller's field entries, buyer scalars and guide language.
// State lives for the session only; there is no cross-restart persistence.
package store

// FieldValue is a user-entered field value: string, number or bool.
// Numeric 0 and boolean false are real values, not "empty".
type FieldValue = interface{}

// Buyer field keys. Buyer info lives outside the custom/traffic maps and is
// always validated, schema or not.
const (
	BuyerName    = "buyer_name"
	BuyerEmail   = "buyer_email"
	BuyerTel     = "buyer_tel"
	BuyerCountry = "buyer_country"
)

// TrafficEntry is one traffic-type instance the traveller has interacted
// with. SpecIndex correlates back to the schema's traffics array position
// when known; -1 means the writer never supplied one and matching falls
// back to occurrence order.
type TrafficEntry struct {
	TrafficType string
	SpecIndex   int
	Fields      map[string]FieldValue
}

// HasSpecIndex reports whether the entry was written with an explicit
// schema position.
func (e *TrafficEntry) HasSpecIndex() bool {
	return e.SpecIndex >= 0
}

// FieldStore is the key-value container backing one booking flow. A given
// (cusType, fieldID) or (trafficType, specIndex, fieldID) pair maps to at
// most one value; last write wins. Writes perform no validation — that is
// the Validator's job, lazily.
type FieldStore interface {
	// SetBuyerField upserts a buyer scalar (see Buyer* keys).
	SetBuyerField(key, value string)
	// BuyerField returns a buyer scalar, "" when unset.
	BuyerField(key string) string
	// BuyerFields returns a copy of all buyer scalars.
	BuyerFields() map[string]string

	// SetGuideLang records the chosen guide language code.
	SetGuideLang(code string)
	// GuideLang returns the chosen guide language code, "" when unset.
	GuideLang() string

	// SetCustomField upserts a field value for a customer type.
	SetCustomField(cusType, fieldID string, value FieldValue)
	// CustomField returns the stored value for (cusType, fieldID).
	CustomField(cusType, fieldID string) (FieldValue, bool)
	// CustomArray returns one map per customer type holding at least one
	// non-empty field, tagged with cus_type. Empty-string and nil values
	// are excluded; 0 and false survive.
	CustomArray() []map[string]FieldValue

	// SetTrafficField upserts a field on the traffic entry matching
	// (trafficType, specIndex). specIndex < 0 means the writer did not
	// supply one: the first entry of that type still lacking a spec index
	// is reused, otherwise a new entry is appended.
	SetTrafficField(trafficType, fieldID string, value FieldValue, specIndex int)
	// TrafficEntries returns the stored traffic entries in write order.
	TrafficEntries() []TrafficEntry

	// ResetAll drops every stored value.
	ResetAll()
}
