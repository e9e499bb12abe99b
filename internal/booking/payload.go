package booking

import (
	"fmt"
	"math"
	"strings"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/types"
)

// timeFieldKeys are the traffic fields normalized to HH:mm before hitting
// the wire.
var timeFieldKeys = []string{"s_time", "e_time", "arrival_time", "departure_time"}

// NormalizeTime zero-pads a picker-produced clock string to HH:mm. Ranges
// joined by "~" are padded side by side. Characters other than digits,
// colons and the range separator are stripped. No numeric range check is
// performed — the upstream accepts what the picker produced.
func NormalizeTime(s string) string {
	var cleaned strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' || r == '~' {
			cleaned.WriteRune(r)
		}
	}
	c := cleaned.String()
	if c == "" {
		return ""
	}

	if strings.Contains(c, "~") {
		parts := strings.Split(c, "~")
		for i, part := range parts {
			parts[i] = padClock(part)
		}
		return strings.Join(parts, "~")
	}
	return padClock(c)
}

// padClock pads each side of a single H:m value to two digits.
func padClock(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.SplitN(s, ":", 2)
	hour := pad2(parts[0])
	minute := "00"
	if len(parts) > 1 {
		minute = pad2(parts[1])
	}
	return hour + ":" + minute
}

func pad2(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// SanitizeTrafficEntry prepares one traffic entry for the wire: the
// internal spec_index key is removed, time fields are normalized, and keys
// holding nil or whitespace-only strings are dropped. Numeric 0 and boolean
// false survive. The input map is not mutated.
func SanitizeTrafficEntry(entry map[string]store.FieldValue) map[string]store.FieldValue {
	out := make(map[string]store.FieldValue, len(entry))
	for k, v := range entry {
		if k == "spec_index" {
			continue
		}
		if isTimeField(k) {
			if s, ok := v.(string); ok {
				v = NormalizeTime(s)
			}
		}
		if !IsFilled(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isTimeField(key string) bool {
	for _, k := range timeFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

// PayloadBuilder assembles submission payloads from a field store. Built
// fresh on every submit attempt; nothing is persisted client-side beyond
// the request.
type PayloadBuilder struct {
	fields store.FieldStore
}

// NewPayloadBuilder creates a builder over the given field store.
func NewPayloadBuilder(fields store.FieldStore) *PayloadBuilder {
	return &PayloadBuilder{fields: fields}
}

// Build assembles the flat submission payload: sanitized traffic entries,
// the custom array, guide language and buyer scalars from the store, with
// caller overrides applied last and authoritative. Top-level nil values
// are stripped.
func (b *PayloadBuilder) Build(overrides map[string]store.FieldValue) map[string]store.FieldValue {
	payload := make(map[string]store.FieldValue)

	for key, value := range b.fields.BuyerFields() {
		if strings.TrimSpace(value) != "" {
			payload[key] = value
		}
	}

	if gl := b.fields.GuideLang(); gl != "" {
		payload["guide_lang"] = gl
	}

	if custom := b.fields.CustomArray(); len(custom) > 0 {
		payload["custom"] = custom
	}

	var traffic []map[string]store.FieldValue
	for _, entry := range b.fields.TrafficEntries() {
		wire := make(map[string]store.FieldValue, len(entry.Fields)+2)
		wire["traffic_type"] = entry.TrafficType
		if entry.HasSpecIndex() {
			wire["spec_index"] = entry.SpecIndex
		}
		for k, v := range entry.Fields {
			wire[k] = v
		}

		sanitized := SanitizeTrafficEntry(wire)
		// An entry reduced to its traffic_type tag carries no data; drop it.
		if len(sanitized) <= 1 {
			continue
		}
		traffic = append(traffic, sanitized)
	}
	if len(traffic) > 0 {
		payload["traffic"] = traffic
	}

	for k, v := range overrides {
		payload[k] = v
	}

	for k, v := range payload {
		if v == nil {
			delete(payload, k)
		}
	}
	return payload
}

// ValidatePayload is the pre-submit guard: it flags the problems that must
// block submission before any network call. An empty result means the
// payload may be handed to the orchestrator.
func ValidatePayload(payload map[string]store.FieldValue) []string {
	var problems []string

	for _, key := range []string{"prod_no", "pkg_no", "item_no", "buyer_name", "buyer_email", "buyer_tel"} {
		if !IsFilled(payload[key]) {
			problems = append(problems, fmt.Sprintf("%s is required", key))
		}
	}

	skus, skuProblems := parseSkus(payload["skus"])
	problems = append(problems, skuProblems...)
	if len(skuProblems) == 0 && len(skus) == 0 {
		problems = append(problems, "skus must not be empty")
	}
	return problems
}

// parseSkus coerces the payload's skus value into typed skus, reporting
// malformed entries. Accepts typed skus and decoded-JSON shapes.
func parseSkus(v store.FieldValue) ([]types.Sku, []string) {
	if v == nil {
		return nil, []string{"skus must not be empty"}
	}

	var skus []types.Sku
	var problems []string

	appendEntry := func(i int, sku types.Sku, ok bool) {
		if !ok {
			problems = append(problems, fmt.Sprintf("skus[%d] is malformed", i))
			return
		}
		if strings.TrimSpace(sku.SkuID) == "" {
			problems = append(problems, fmt.Sprintf("skus[%d]: sku_id is required", i))
		}
		if math.IsNaN(sku.Qty) || math.IsInf(sku.Qty, 0) {
			problems = append(problems, fmt.Sprintf("skus[%d]: qty must be a finite number", i))
		}
		if math.IsNaN(sku.Price) || math.IsInf(sku.Price, 0) {
			problems = append(problems, fmt.Sprintf("skus[%d]: price must be a finite number", i))
		}
		skus = append(skus, sku)
	}

	switch list := v.(type) {
	case []types.Sku:
		for i, sku := range list {
			appendEntry(i, sku, true)
		}
	case []map[string]store.FieldValue:
		for i, m := range list {
			sku, ok := skuFromMap(m)
			appendEntry(i, sku, ok)
		}
	case []interface{}:
		for i, raw := range list {
			m, ok := raw.(map[string]interface{})
			if !ok {
				appendEntry(i, types.Sku{}, false)
				continue
			}
			sku, ok := skuFromMap(m)
			appendEntry(i, sku, ok)
		}
	default:
		return nil, []string{"skus is malformed"}
	}

	return skus, problems
}

func skuFromMap(m map[string]store.FieldValue) (types.Sku, bool) {
	sku := types.Sku{}
	if id, ok := m["sku_id"].(string); ok {
		sku.SkuID = id
	}
	if token, ok := m["spec_token"].(string); ok {
		sku.SpecToken = token
	}
	if name, ok := m["name"].(string); ok {
		sku.Name = name
	}

	qty, qtyOK := toFloat(m["qty"])
	price, priceOK := toFloat(m["price"])
	if !qtyOK || !priceOK {
		return sku, false
	}
	sku.Qty = qty
	sku.Price = price
	return sku, true
}

func toFloat(v store.FieldValue) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
