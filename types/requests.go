package types

// SessionCreateRequest opens a booking session for a package.
type SessionCreateRequest struct {
	ProdNo string `json:"prod_no" binding:"required"`
	PkgNo  string `json:"pkg_no" binding:"required"`
	ItemNo string `json:"item_no" binding:"required"`
}

// BuyerUpdateRequest sets buyer scalars and the guide language. Fields left
// out of the request are untouched; present fields overwrite, blank included.
type BuyerUpdateRequest struct {
	BuyerName    *string `json:"buyer_name"`
	BuyerEmail   *string `json:"buyer_email"`
	BuyerTel     *string `json:"buyer_tel"`
	BuyerCountry *string `json:"buyer_country"`
	GuideLang    *string `json:"guide_lang"`
}

// CustomUpdateRequest writes fields of one customer type.
type CustomUpdateRequest struct {
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// TrafficUpdateRequest writes fields of one traffic entry. SpecIndex pins
// the entry to a schema spec position; when omitted the entry is matched
// positionally at validation time.
type TrafficUpdateRequest struct {
	SpecIndex *int                   `json:"spec_index"`
	Fields    map[string]interface{} `json:"fields" binding:"required"`
}

// SubmitRequest triggers a submission attempt for the session's package.
// Overrides are merged into the built payload last and win over stored
// field state.
type SubmitRequest struct {
	Skus      []Sku                  `json:"skus"`
	Overrides map[string]interface{} `json:"overrides"`
}

// SessionResponse describes a booking session to the client.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	ProdNo    string         `json:"prod_no"`
	PkgNo     string         `json:"pkg_no"`
	ItemNo    string         `json:"item_no"`
	CreatedAt string         `json:"created_at"`
	Sections  []SectionState `json:"sections"`
	Schema    *FieldSchema   `json:"schema,omitempty"`
}

// SectionValidationResponse is the missing-field report for one section.
type SectionValidationResponse struct {
	SectionID string   `json:"section_id"`
	Complete  bool     `json:"complete"`
	Missing   []string `json:"missing"`
}
