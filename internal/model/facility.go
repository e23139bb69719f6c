package model

// RawLine is one extracted {label, amount} pair from a source document.
type RawLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// FacilityRecord is one facility's raw extraction from one source document.
// The document-ingestion layer owns parsing; this core only ever sees data
// already shaped like this.
type FacilityRecord struct {
	FacilityName string  `json:"facility_name"`
	Source       string  `json:"source"` // originating document identifier
	AssetType    string  `json:"asset_type"`
	State        string  `json:"state,omitempty"`
	Beds         int     `json:"beds"`
	PatientDays  float64 `json:"patient_days"`
	Period       Period  `json:"period"`
	RevenueLines []RawLine `json:"revenue_lines"`
	ExpenseLines []RawLine `json:"expense_lines"`

	// Operational figures benchmarked alongside the financial metrics when
	// the source documents carry them (star ratings, turnover, deficiencies).
	OperationalMetrics map[string]float64 `json:"operational_metrics,omitempty"`

	// Building profile for the CapEx estimator.
	BuildingAge         int `json:"building_age,omitempty"`
	YearsSinceRenovation int `json:"years_since_renovation,omitempty"`
}
