package store

import (
	"strings"
	"sync"
)

// MemoryFieldStore is the in-memory FieldStore implementation. All methods
// are safe for concurrent use; handlers for the same session may be served
// from different goroutines.
type MemoryFieldStore struct {
	mu        sync.RWMutex
	buyer     map[string]string
	guideLang string
	custom    map[string]map[string]FieldValue
	cusOrder  []string
	traffic   []TrafficEntry
}

// NewMemoryFieldStore creates an empty field store.
func NewMemoryFieldStore() *MemoryFieldStore {
	return &MemoryFieldStore{
		buyer:  make(map[string]string),
		custom: make(map[string]map[string]FieldValue),
	}
}

var _ FieldStore = (*MemoryFieldStore)(nil)

func (s *MemoryFieldStore) SetBuyerField(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyer[key] = value
}

func (s *MemoryFieldStore) BuyerField(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buyer[key]
}

func (s *MemoryFieldStore) BuyerFields() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.buyer))
	for k, v := range s.buyer {
		out[k] = v
	}
	return out
}

func (s *MemoryFieldStore) SetGuideLang(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guideLang = code
}

func (s *MemoryFieldStore) GuideLang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guideLang
}

func (s *MemoryFieldStore) SetCustomField(cusType, fieldID string, value FieldValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.custom[cusType]
	if !ok {
		fields = make(map[string]FieldValue)
		s.custom[cusType] = fields
		s.cusOrder = append(s.cusOrder, cusType)
	}
	fields[fieldID] = value
}

func (s *MemoryFieldStore) CustomField(cusType, fieldID string) (FieldValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.custom[cusType]
	if !ok {
		return nil, false
	}
	v, ok := fields[fieldID]
	return v, ok
}

func (s *MemoryFieldStore) CustomArray() []map[string]FieldValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]map[string]FieldValue, 0, len(s.cusOrder))
	for _, cusType := range s.cusOrder {
		entry := map[string]FieldValue{"cus_type": cusType}
		for fieldID, v := range s.custom[cusType] {
			if isEmptyValue(v) {
				continue
			}
			entry[fieldID] = v
		}
		// Entries holding only the cus_type tag are all-empty; skip them.
		if len(entry) > 1 {
			out = append(out, entry)
		}
	}
	return out
}

func (s *MemoryFieldStore) SetTrafficField(trafficType, fieldID string, value FieldValue, specIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if specIndex >= 0 {
		// Exact (trafficType, specIndex) match or a fresh entry. Entries
		// written earlier without a spec index are never claimed for an
		// indexed write: by occurrence order they already stand in for a
		// schema position of their own, and merging would credit one leg's
		// fields to another.
		for i := range s.traffic {
			if s.traffic[i].TrafficType == trafficType && s.traffic[i].SpecIndex == specIndex {
				s.traffic[i].Fields[fieldID] = value
				return
			}
		}
	} else {
		for i := range s.traffic {
			if s.traffic[i].TrafficType == trafficType && !s.traffic[i].HasSpecIndex() {
				s.traffic[i].Fields[fieldID] = value
				return
			}
		}
	}

	s.traffic = append(s.traffic, TrafficEntry{
		TrafficType: trafficType,
		SpecIndex:   specIndex,
		Fields:      map[string]FieldValue{fieldID: value},
	})
}

func (s *MemoryFieldStore) TrafficEntries() []TrafficEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TrafficEntry, len(s.traffic))
	for i, e := range s.traffic {
		fields := make(map[string]FieldValue, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		out[i] = TrafficEntry{TrafficType: e.TrafficType, SpecIndex: e.SpecIndex, Fields: fields}
	}
	return out
}

func (s *MemoryFieldStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyer = make(map[string]string)
	s.guideLang = ""
	s.custom = make(map[string]map[string]FieldValue)
	s.cusOrder = nil
	s.traffic = nil
}

// isEmptyValue reports whether a value should be excluded from the custom
// array: nil or a whitespace-only string. 0 and false are kept.
func isEmptyValue(v FieldValue) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
