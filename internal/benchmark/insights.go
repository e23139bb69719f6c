package benchmark

import (
	"fmt"
	"sort"

	"github.com/sells-group/underwrite-cli/internal/model"
)

const maxInsights = 5

// recommendations are canned remediation notes keyed by metric name.
var recommendations = map[string]string{
	"noi_margin":           "Rebase the expense structure against regional peers; margin recovery typically starts with labor and supply contracts.",
	"ebitdar_margin":       "Review payer mix and therapy contract terms to lift pre-rent earnings.",
	"labor_cost_percent":   "Audit schedules against census and rebalance skill mix; overtime and premium shifts are the usual drivers.",
	"agency_labor_percent": "Stand up an in-house float pool and retention bonuses to unwind agency dependence.",
	"expense_ppd":          "Benchmark department-level PPD spend and renegotiate the top vendor contracts.",
	"occupancy_percent":    "Invest in hospital-liaison referral development; sub-median census is the largest value lever.",
	"revenue_ppd":          "Reassess Medicaid case-mix documentation and managed-care rates for under-billing.",
	"revenue_per_bed":      "Evaluate bed licensure vs in-service count; idle licensed beds dilute per-bed economics.",
	"star_rating":          "Target the survey-domain measures dragging the composite; star recovery compounds into census.",
	"deficiency_count":     "Institute mock-survey rounds ahead of the annual recertification window.",
	"rehospitalization_rate": "Tighten transitional-care protocols with the discharging hospitals.",
	"nursing_hours_ppd":    "Staff to acuity rather than census; low hours invite survey and liability exposure.",
	"rn_hours_ppd":         "Shift LPN hours toward RN coverage on high-acuity units.",
	"turnover_rate":        "Exit-interview data and wage-scale compression reviews pay back fastest on turnover.",
}

// buildInsights fills the report's strengths, weaknesses, and
// recommendations from its comparisons: top five strong metrics and top
// five weak metrics, each weakness paired with a canned recommendation
// when one exists.
func buildInsights(r *model.FacilityBenchmarkReport) {
	strong := make([]model.BenchmarkComparison, 0, len(r.Comparisons))
	weak := make([]model.BenchmarkComparison, 0, len(r.Comparisons))
	for _, cmp := range r.Comparisons {
		switch cmp.Rating {
		case model.RatingExcellent, model.RatingGood:
			strong = append(strong, cmp)
		case model.RatingPoor, model.RatingBelowAverage:
			weak = append(weak, cmp)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].Percentile > strong[j].Percentile })
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Percentile < weak[j].Percentile })

	for i, cmp := range strong {
		if i == maxInsights {
			break
		}
		r.Strengths = append(r.Strengths,
			fmt.Sprintf("%s at the %.0fth percentile (%.1f vs median %.1f)",
				cmp.Metric, cmp.Percentile, cmp.Actual, cmp.Median))
	}
	for i, cmp := range weak {
		if i == maxInsights {
			break
		}
		r.Weaknesses = append(r.Weaknesses,
			fmt.Sprintf("%s at the %.0fth percentile (%.1f vs median %.1f)",
				cmp.Metric, cmp.Percentile, cmp.Actual, cmp.Median))
		if rec, ok := recommendations[cmp.Metric]; ok {
			r.Recommendations = append(r.Recommendations, rec)
		}
	}
}
