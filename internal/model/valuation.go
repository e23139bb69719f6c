package model

// ValuationPerspective distinguishes the two parallel valuation views.
type ValuationPerspective string

const (
	// PerspectiveExternal is the conservative, lender-facing view priced on
	// geography-keyed cap rates.
	PerspectiveExternal ValuationPerspective = "external"
	// PerspectiveInternal is the execution view priced on asset-type cap
	// rates reflecting operational upside.
	PerspectiveInternal ValuationPerspective = "internal"
)

// ValuationView is one cap-rate valuation of a facility. Low value pairs
// with the high cap rate and vice versa; the two views of a facility are
// always produced together from the same NOI.
type ValuationView struct {
	Perspective ValuationPerspective `json:"perspective"`
	NOI         float64              `json:"noi"`
	CapRateLow  float64              `json:"cap_rate_low"`
	CapRateBase float64              `json:"cap_rate_base"`
	CapRateHigh float64              `json:"cap_rate_high"`
	ValueLow    float64              `json:"value_low"`
	ValueBase   float64              `json:"value_base"`
	ValueHigh   float64              `json:"value_high"`
	PricePerBed float64              `json:"price_per_bed"`
	MarketTier  string               `json:"market_tier,omitempty"` // region or asset-tier annotation
}

// CapExEstimate breaks out estimated capital needs by urgency.
type CapExEstimate struct {
	Immediate   float64 `json:"immediate"`
	Deferred    float64 `json:"deferred"`
	Competitive float64 `json:"competitive"`
	Total       float64 `json:"total"`
	PerBed      float64 `json:"per_bed"`
}

// ReimbursementUpside estimates achievable annual revenue from closing the
// gap between current and state-target reimbursement rates.
type ReimbursementUpside struct {
	MedicaidGapPPD float64 `json:"medicaid_gap_ppd"`
	MedicareGapPPD float64 `json:"medicare_gap_ppd"`
	AnnualUpside   float64 `json:"annual_upside"`
	NOIImpact      float64 `json:"noi_impact"`
}
