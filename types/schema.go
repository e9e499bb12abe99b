package types

import (
	"encoding/json"
	"strings"
)

// The upstream catalog transmits required-field flags as the literal strings
// "true"/"false". They are decoded into real booleans here, at the wire
// boundary, so nothing downstream re-parses strings.

// FieldOption is one selectable option for a list-backed field.
type FieldOption struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// CustomFieldSpec describes a single customer field in the package schema:
// which customer types it applies to and whether it is required.
type CustomFieldSpec struct {
	Use        []string      `json:"use"`
	IsRequire  string        `json:"is_require"`
	ListOption []FieldOption `json:"list_option,omitempty"`

	// Require is the decoded IsRequire flag, set during unmarshalling.
	Require bool `json:"-"`
}

func (s *CustomFieldSpec) UnmarshalJSON(b []byte) error {
	type alias CustomFieldSpec
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = CustomFieldSpec(a)
	s.Require = ParseRequireFlag(s.IsRequire)
	return nil
}

// AppliesTo reports whether this field applies to the given customer type.
func (s *CustomFieldSpec) AppliesTo(cusType string) bool {
	for _, u := range s.Use {
		if u == cusType {
			return true
		}
	}
	return false
}

// TrafficFieldSpec describes a single field inside a traffic spec entry.
type TrafficFieldSpec struct {
	IsRequire  string          `json:"is_require"`
	ListOption []FieldOption   `json:"list_option,omitempty"`
	Location   json.RawMessage `json:"location,omitempty"`

	Require bool `json:"-"`
}

func (s *TrafficFieldSpec) UnmarshalJSON(b []byte) error {
	type alias TrafficFieldSpec
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = TrafficFieldSpec(a)
	s.Require = ParseRequireFlag(s.IsRequire)
	return nil
}

// TrafficTypeTag carries the traffic type identifier of a spec entry.
type TrafficTypeTag struct {
	TrafficTypeValue string `json:"traffic_type_value"`
}

// TrafficSpec is one entry of the schema's traffics array. On the wire every
// key except "traffic_type" is a field spec; those land in Fields. Two specs
// may share the same traffic type value (e.g. two rentcar_01 legs) and are
// distinguished only by their position in the array, which must stay stable
// for the lifetime of a session.
type TrafficSpec struct {
	TrafficType TrafficTypeTag
	Fields      map[string]TrafficFieldSpec
}

func (s *TrafficSpec) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.Fields = make(map[string]TrafficFieldSpec, len(raw))
	for key, val := range raw {
		if key == "traffic_type" {
			if err := json.Unmarshal(val, &s.TrafficType); err != nil {
				return err
			}
			continue
		}
		var field TrafficFieldSpec
		if err := json.Unmarshal(val, &field); err != nil {
			return err
		}
		s.Fields[key] = field
	}
	return nil
}

func (s TrafficSpec) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Fields)+1)
	out["traffic_type"] = s.TrafficType
	for key, field := range s.Fields {
		out[key] = field
	}
	return json.Marshal(out)
}

// GuideLangSpec describes the optional guide-language field.
type GuideLangSpec struct {
	IsRequire  string        `json:"is_require"`
	ListOption []FieldOption `json:"list_option,omitempty"`

	Require bool `json:"-"`
}

func (s *GuideLangSpec) UnmarshalJSON(b []byte) error {
	type alias GuideLangSpec
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = GuideLangSpec(a)
	s.Require = ParseRequireFlag(s.IsRequire)
	return nil
}

// FieldSchema is the server-supplied description of which booking fields
// exist and are required for a package, per customer type and traffic type.
type FieldSchema struct {
	Custom    map[string]CustomFieldSpec `json:"custom,omitempty"`
	Traffics  []TrafficSpec              `json:"traffics,omitempty"`
	GuideLang *GuideLangSpec             `json:"guide_lang,omitempty"`
}

// HasTrafficType reports whether any traffic spec carries one of the given
// traffic type values.
func (s *FieldSchema) HasTrafficType(trafficTypes ...string) bool {
	for _, spec := range s.Traffics {
		for _, tt := range trafficTypes {
			if spec.TrafficType.TrafficTypeValue == tt {
				return true
			}
		}
	}
	return false
}

// HasCustomType reports whether any custom field applies to the given
// customer type.
func (s *FieldSchema) HasCustomType(cusType string) bool {
	for _, spec := range s.Custom {
		if spec.AppliesTo(cusType) {
			return true
		}
	}
	return false
}

// ParseRequireFlag interprets the upstream's string-typed require flag.
// Comparison is case-insensitive against the literal "true"; anything else,
// including absence, means not required.
func ParseRequireFlag(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "true")
}
