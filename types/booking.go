package types

// Sku is one bookable unit (adult ticket, child ticket, car class) with its
// own price and quantity. Multi-sku orders are split into independent
// booking calls, one per distinct sku id.
type Sku struct {
	SkuID     string  `json:"sku_id"`
	SpecToken string  `json:"spec_token,omitempty"`
	Name      string  `json:"name,omitempty"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

// Subtotal returns price * qty for this sku.
func (s Sku) Subtotal() float64 {
	return s.Price * s.Qty
}

// BookingRecord is the snapshot persisted upstream after every booking
// attempt, successful or not. Immutable after construction; sent to the
// save endpoint exactly once per booking cycle.
type BookingRecord struct {
	GUID         string   `json:"guid"`
	ProdNo       string   `json:"prod_no,omitempty"`
	PkgNo        string   `json:"pkg_no,omitempty"`
	ItemNo       string   `json:"item_no,omitempty"`
	OrderNo      string   `json:"order_no,omitempty"`
	BuyerName    string   `json:"buyer_name,omitempty"`
	BuyerEmail   string   `json:"buyer_email,omitempty"`
	BuyerTel     string   `json:"buyer_tel,omitempty"`
	BuyerCountry string   `json:"buyer_country,omitempty"`
	Skus         []Sku    `json:"skus"`
	PassportList []string `json:"passportList"`
	Total        float64  `json:"total"`
	TotalPrice   float64  `json:"total_price"`
	State        string   `json:"state"`
	IsActive     bool     `json:"isActive"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// BookingResult is the outcome of one booking+save cycle. In a multi-sku
// submission there is one result per distinct sku id, in submission order.
type BookingResult struct {
	SkuID           string                 `json:"sku_id,omitempty"`
	Success         bool                   `json:"success"`
	OrderNo         string                 `json:"order_no,omitempty"`
	BookingResponse map[string]interface{} `json:"booking_response,omitempty"`
	SaveResponse    map[string]interface{} `json:"save_response,omitempty"`
	Record          *BookingRecord         `json:"record,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

// SubmitOutcome aggregates the results of a submission attempt so callers
// can present partial success per item.
type SubmitOutcome struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Results   []BookingResult `json:"results"`
}

// SectionState reports the completeness of one booking-form section for UI
// gating: collapsed-section badges and CTA enablement.
type SectionState struct {
	SectionID string   `json:"section_id"`
	Label     string   `json:"label"`
	Complete  bool     `json:"complete"`
	Missing   []string `json:"missing"`
}
