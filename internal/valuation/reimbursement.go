package valuation

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/underwrite-cli/internal/model"
)

//go:embed reimbursement.yaml
var defaultReimbursementYAML []byte

// achievabilityFactor discounts the gross rate gap for the realistic share
// an operator captures through case-mix and rate-appeal work.
const achievabilityFactor = 0.75

// RateTargets are the per-patient-day reimbursement rates a competent
// operator should reach in a state.
type RateTargets struct {
	MedicaidTargetPPD float64 `yaml:"medicaid_target_ppd" json:"medicaid_target_ppd"`
	MedicareTargetPPD float64 `yaml:"medicare_target_ppd" json:"medicare_target_ppd"`
}

// ReimbursementTables maps states to rate targets with a national fallback.
type ReimbursementTables struct {
	state    map[string]RateTargets
	national RateTargets
}

// LoadDefaultReimbursementRates parses the embedded rate-target tables.
func LoadDefaultReimbursementRates() (*ReimbursementTables, error) {
	var doc struct {
		States   map[string]RateTargets `yaml:"states"`
		National RateTargets            `yaml:"national"`
	}
	if err := yaml.Unmarshal(defaultReimbursementYAML, &doc); err != nil {
		return nil, eris.Wrap(err, "valuation: parse embedded reimbursement rates")
	}
	if doc.National.MedicaidTargetPPD <= 0 {
		return nil, eris.New("valuation: national reimbursement targets are missing")
	}
	t := &ReimbursementTables{
		state:    make(map[string]RateTargets, len(doc.States)),
		national: doc.National,
	}
	for k, v := range doc.States {
		t.state[strings.ToUpper(k)] = v
	}
	return t, nil
}

// Targets returns the state's rate targets, or the national fallback.
func (t *ReimbursementTables) Targets(state string) RateTargets {
	if v, ok := t.state[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return v
	}
	return t.national
}

// EstimateUpside sizes the annual reimbursement opportunity for a SNF from
// its observed per-day rates. Observed rates come from the facility's
// operational metrics ("medicaid_rate_ppd", "medicare_rate_ppd"); without
// them the upside is zero rather than guessed. Payer days default to the
// payer's revenue share of total patient days when not reported.
func (t *ReimbursementTables) EstimateUpside(s model.FinancialStatement, ops map[string]float64) model.ReimbursementUpside {
	if !strings.EqualFold(s.AssetType, "SNF") {
		return model.ReimbursementUpside{}
	}
	targets := t.Targets(s.State)

	medicaidDays := payerDays(s, ops, "medicaid_days", "medicaid")
	medicareDays := payerDays(s, ops, "medicare_days", "medicare")

	var up model.ReimbursementUpside
	if rate, ok := ops["medicaid_rate_ppd"]; ok && rate > 0 && targets.MedicaidTargetPPD > rate {
		up.MedicaidGapPPD = targets.MedicaidTargetPPD - rate
		up.AnnualUpside += up.MedicaidGapPPD * medicaidDays
	}
	if rate, ok := ops["medicare_rate_ppd"]; ok && rate > 0 && targets.MedicareTargetPPD > rate {
		up.MedicareGapPPD = targets.MedicareTargetPPD - rate
		up.AnnualUpside += up.MedicareGapPPD * medicareDays
	}
	up.NOIImpact = up.AnnualUpside * achievabilityFactor
	return up
}

// payerDays resolves a payer's annual patient days: reported figure first,
// then the payer's revenue share applied to total days.
func payerDays(s model.FinancialStatement, ops map[string]float64, key, category string) float64 {
	if d, ok := ops[key]; ok && d > 0 {
		return d
	}
	if s.Metrics.TotalNetRevenue <= 0 {
		return 0
	}
	share := s.RevenueAmount(category) / s.Metrics.TotalNetRevenue
	return s.PatientDays * share
}
