package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/google/uuid"
)

// passportFieldKeys identify custom fields carrying passport numbers, used
// when the booking response has no explicit passport list.
var passportFieldKeys = []string{"passport", "passport_no", "passport_number"}

// Orchestrator runs submission attempts: it splits multi-sku payloads into
// one booking+save cycle per distinct sku id and isolates failures so one
// item's error never aborts the others. Cycles run sequentially — save
// ordering stays deterministic and the booking endpoint is never fanned
// out against — at the cost of latency linear in sku count.
type Orchestrator struct {
	client APIClient
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator over the given upstream client.
func NewOrchestrator(client APIClient) *Orchestrator {
	return &Orchestrator{client: client, now: time.Now}
}

// ExtractSkuIDs pulls the distinct sku/spec identifiers present in the
// payload's skus and traffic entries, in order of first appearance. Each
// entry's identifier falls back through sku_id → spec_token → id.
func ExtractSkuIDs(payload map[string]store.FieldValue) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	collect := func(v store.FieldValue) {
		switch list := v.(type) {
		case []types.Sku:
			for _, s := range list {
				if s.SkuID != "" {
					add(s.SkuID)
				} else {
					add(s.SpecToken)
				}
			}
		case []map[string]store.FieldValue:
			for _, m := range list {
				add(entryToken(m))
			}
		case []interface{}:
			for _, raw := range list {
				if m, ok := raw.(map[string]interface{}); ok {
					add(entryToken(m))
				}
			}
		}
	}

	collect(payload["skus"])
	collect(payload["traffics"])
	collect(payload["traffic"])
	return ids
}

// entryToken resolves an entry's sku identifier: sku_id → spec_token → id.
func entryToken(m map[string]store.FieldValue) string {
	for _, key := range []string{"sku_id", "spec_token", "id"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Submit runs one submission attempt. Callers must have passed the payload
// through ValidatePayload first; the orchestrator assumes it is shippable.
// The returned outcome always carries one result per cycle so the caller
// can present mixed success and failure.
func (o *Orchestrator) Submit(ctx context.Context, payload map[string]store.FieldValue) *types.SubmitOutcome {
	log := logger.GetLogger()

	ids := ExtractSkuIDs(payload)
	var results []types.BookingResult

	if len(ids) <= 1 {
		skuID := ""
		if len(ids) == 1 {
			skuID = ids[0]
		}
		results = append(results, o.bookAndSaveOnce(ctx, payload, skuID))
	} else {
		log.Infow("Splitting submission per sku", "sku_count", len(ids))
		// Sequential on purpose: see the type comment.
		for _, skuID := range ids {
			sub := buildPayloadForSku(payload, skuID)
			results = append(results, o.bookAndSaveOnce(ctx, sub, skuID))
		}
	}

	outcome := &types.SubmitOutcome{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success && r.Error == "" {
			outcome.Succeeded++
		} else {
			outcome.Failed++
		}
	}
	log.Infow("Submission finished",
		"total", outcome.Total,
		"succeeded", outcome.Succeeded,
		"failed", outcome.Failed)
	return outcome
}

// buildPayloadForSku narrows a multi-sku payload down to one sku id: skus
// and traffic entries tagged with another id are dropped (untagged traffic
// entries apply to every sub-payload) and totals are recomputed from the
// filtered skus.
func buildPayloadForSku(payload map[string]store.FieldValue, skuID string) map[string]store.FieldValue {
	sub := make(map[string]store.FieldValue, len(payload))
	for k, v := range payload {
		sub[k] = v
	}

	skus, _ := parseSkus(payload["skus"])
	var kept []types.Sku
	total := 0.0
	for _, s := range skus {
		token := s.SkuID
		if token == "" {
			token = s.SpecToken
		}
		if token == skuID {
			kept = append(kept, s)
			total += s.Subtotal()
		}
	}
	sub["skus"] = kept
	sub["total"] = total
	sub["total_price"] = total

	for _, key := range []string{"traffics", "traffic"} {
		filtered := filterTaggedEntries(payload[key], skuID)
		if filtered != nil {
			sub[key] = filtered
		}
	}
	return sub
}

// filterTaggedEntries keeps entries tagged with skuID or carrying no tag at
// all. Returns nil when the value is absent or not a recognized list shape.
func filterTaggedEntries(v store.FieldValue, skuID string) []map[string]store.FieldValue {
	var entries []map[string]store.FieldValue
	switch list := v.(type) {
	case []map[string]store.FieldValue:
		entries = list
	case []interface{}:
		for _, raw := range list {
			if m, ok := raw.(map[string]interface{}); ok {
				entries = append(entries, m)
			}
		}
	default:
		return nil
	}

	var kept []map[string]store.FieldValue
	for _, m := range entries {
		token := entryToken(m)
		if token == "" || token == skuID {
			kept = append(kept, m)
		}
	}
	return kept
}

// bookAndSaveOnce runs one booking+save cycle. Every attempt, successful or
// not, produces exactly one save call: a transport-level booking failure is
// downgraded into a synthetic booking_error record so the failure is still
// recorded server-side rather than silently dropped. Save transport
// failures are surfaced in the result, never thrown.
func (o *Orchestrator) bookAndSaveOnce(ctx context.Context, payload map[string]store.FieldValue, skuID string) types.BookingResult {
	log := logger.GetLogger()

	resp, err := o.client.CreateBooking(ctx, payload)
	if err != nil {
		log.Errorw("Booking call failed, recording synthetic error record", "sku_id", skuID, "error", err)
		bookingCyclesTotal.WithLabelValues("transport_error").Inc()

		record := o.buildErrorRecord(payload)
		result := types.BookingResult{
			SkuID:   skuID,
			Success: false,
			Record:  record,
			Error:   err.Error(),
		}
		saveResp, saveErr := o.client.SaveBookingProduct(ctx, record)
		if saveErr != nil {
			log.Errorw("Save call failed after booking transport failure", "guid", record.GUID, "error", saveErr)
		} else {
			result.SaveResponse = saveResp
		}
		return result
	}

	body := resp.Body
	orderNo := stringOf(body["order_no"])
	resultCode := stringOf(body["result"])
	success := resp.StatusCode >= 200 && resp.StatusCode < 300 &&
		(orderNo != "" || resultCode == "success" || resultCode == "00")

	guid := stringOf(body["guid"])
	if guid == "" {
		guid = stringOf(body["booking_key"])
	}
	if guid == "" {
		guid = o.generateGUID()
	}

	skus, _ := parseSkus(payload["skus"])
	total := 0.0
	for _, s := range skus {
		total += s.Subtotal()
	}

	state := resultCode
	if state == "" {
		state = strconv.Itoa(resp.StatusCode)
	}

	record := &types.BookingRecord{
		GUID:         guid,
		ProdNo:       stringOf(payload["prod_no"]),
		PkgNo:        stringOf(payload["pkg_no"]),
		ItemNo:       stringOf(payload["item_no"]),
		OrderNo:      orderNo,
		BuyerName:    stringOf(payload["buyer_name"]),
		BuyerEmail:   stringOf(payload["buyer_email"]),
		BuyerTel:     stringOf(payload["buyer_tel"]),
		BuyerCountry: stringOf(payload["buyer_country"]),
		Skus:         skus,
		PassportList: extractPassportList(body, payload),
		Total:        total,
		TotalPrice:   total,
		State:        state,
		IsActive:     success,
		CreatedAt:    o.now().UTC().Format(time.RFC3339),
	}

	result := types.BookingResult{
		SkuID:           skuID,
		Success:         success,
		OrderNo:         orderNo,
		BookingResponse: body,
		Record:          record,
	}
	if !success {
		result.Error = bookingFailureMessage(resp.StatusCode, body)
		bookingCyclesTotal.WithLabelValues("rejected").Inc()
	} else {
		bookingCyclesTotal.WithLabelValues("booked").Inc()
	}

	saveResp, saveErr := o.client.SaveBookingProduct(ctx, record)
	if saveErr != nil {
		log.Errorw("Save call failed", "guid", record.GUID, "error", saveErr)
		result.SaveResponse = nil
		// A booking rejection recorded above stays first; the save failure
		// is appended, not substituted.
		if result.Error != "" {
			result.Error = result.Error + "; " + saveErr.Error()
		} else {
			result.Error = saveErr.Error()
		}
	} else {
		result.SaveResponse = saveResp
	}
	return result
}

// buildErrorRecord synthesizes the minimal record saved when the booking
// call never produced an HTTP response: buyer info, zero totals, inactive.
func (o *Orchestrator) buildErrorRecord(payload map[string]store.FieldValue) *types.BookingRecord {
	return &types.BookingRecord{
		GUID:         o.generateGUID(),
		ProdNo:       stringOf(payload["prod_no"]),
		PkgNo:        stringOf(payload["pkg_no"]),
		ItemNo:       stringOf(payload["item_no"]),
		BuyerName:    stringOf(payload["buyer_name"]),
		BuyerEmail:   stringOf(payload["buyer_email"]),
		BuyerTel:     stringOf(payload["buyer_tel"]),
		BuyerCountry: stringOf(payload["buyer_country"]),
		Skus:         []types.Sku{},
		PassportList: []string{},
		Total:        0,
		TotalPrice:   0,
		State:        "booking_error",
		IsActive:     false,
		CreatedAt:    o.now().UTC().Format(time.RFC3339),
	}
}

// generateGUID produces the fallback booking guid when the upstream
// supplies none: "g_" + base36 millisecond timestamp + "_" + random suffix.
func (o *Orchestrator) generateGUID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("g_%s_%s", strconv.FormatInt(o.now().UnixMilli(), 36), suffix)
}

// extractPassportList returns the booking response's explicit passportList
// when present, otherwise scans the payload's custom entries for
// passport-bearing field ids.
func extractPassportList(body map[string]interface{}, payload map[string]store.FieldValue) []string {
	if raw, ok := body["passportList"].([]interface{}); ok {
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s := stringOf(v); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var entries []map[string]store.FieldValue
	switch list := payload["custom"].(type) {
	case []map[string]store.FieldValue:
		entries = list
	case []interface{}:
		for _, raw := range list {
			if m, ok := raw.(map[string]interface{}); ok {
				entries = append(entries, m)
			}
		}
	}

	out := []string{}
	for _, entry := range entries {
		for _, key := range passportFieldKeys {
			if s := stringOf(entry[key]); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// bookingFailureMessage renders a failed booking response into a result
// error string, preferring the upstream's own message.
func bookingFailureMessage(status int, body map[string]interface{}) string {
	for _, key := range []string{"message", "error", "result"} {
		if s := stringOf(body[key]); s != "" {
			return fmt.Sprintf("booking rejected (status %d): %s", status, s)
		}
	}
	return fmt.Sprintf("booking rejected (status %d)", status)
}

// stringOf returns the value as a string when it is one, "" otherwise.
func stringOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
