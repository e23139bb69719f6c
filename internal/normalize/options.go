// Package normalize turns raw facility extractions into consistent,
// comparable financial statements with an auditable adjustment trail.
package normalize

// Options governs which normalization steps run. Percent values are in
// percentage points (5 means 5%).
type Options struct {
	NormalizeManagementFee     bool    `json:"normalize_management_fee" mapstructure:"normalize_management_fee"`
	TargetManagementFeePercent float64 `json:"target_management_fee_percent" mapstructure:"target_management_fee_percent"`
	NormalizeAgency            bool    `json:"normalize_agency" mapstructure:"normalize_agency"`
	TargetAgencyPercent        float64 `json:"target_agency_percent" mapstructure:"target_agency_percent"`
	AddReserves                bool    `json:"add_reserves" mapstructure:"add_reserves"`
	ReservePercent             float64 `json:"reserve_percent" mapstructure:"reserve_percent"`
	Annualize                  bool    `json:"annualize" mapstructure:"annualize"`
}

// DefaultOptions returns the standard underwriting configuration: 5%
// management fee, 3% agency target, 3% capital reserve, annualization on.
func DefaultOptions() Options {
	return Options{
		NormalizeManagementFee:     true,
		TargetManagementFeePercent: 5,
		NormalizeAgency:            true,
		TargetAgencyPercent:        3,
		AddReserves:                true,
		ReservePercent:             3,
		Annualize:                  true,
	}
}

// withDefaults fills zero-valued targets with the documented defaults so a
// partially specified Options behaves predictably.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TargetManagementFeePercent == 0 {
		o.TargetManagementFeePercent = d.TargetManagementFeePercent
	}
	if o.TargetAgencyPercent == 0 {
		o.TargetAgencyPercent = d.TargetAgencyPercent
	}
	if o.ReservePercent == 0 {
		o.ReservePercent = d.ReservePercent
	}
	return o
}
