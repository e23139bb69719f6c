package model

// AdjustmentCategory tags the normalization step an adjustment came from.
type AdjustmentCategory string

const (
	AdjustAnnualization AdjustmentCategory = "annualization"
	AdjustManagementFee AdjustmentCategory = "management_fee"
	AdjustAgencyLabor   AdjustmentCategory = "agency_labor"
	AdjustReserves      AdjustmentCategory = "capital_reserves"
)

// NormalizationAdjustment records one normalization step. The ordered
// sequence of adjustments is the audit trail from original to normalized
// statement; replaying the same sequence against the same original must
// reproduce the same normalized statement.
type NormalizationAdjustment struct {
	Category       AdjustmentCategory `json:"category"`
	Description    string             `json:"description"`
	OriginalAmount float64            `json:"original_amount"`
	AdjustedAmount float64            `json:"adjusted_amount"`
	Delta          float64            `json:"delta"`
	Reason         string             `json:"reason"`
}
