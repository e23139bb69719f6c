package benchmark

import (
	"strings"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// Category weights for the overall score. Metrics whose category cannot be
// determined fall back to 0.25.
const (
	weightFinancial   = 0.35
	weightOperational = 0.30
	weightQuality     = 0.20
	weightStaffing    = 0.15
	weightFallback    = 0.25
)

// Comparator evaluates facility metrics against benchmark tables.
type Comparator struct {
	tables *Tables
}

// NewComparator wraps the given tables.
func NewComparator(tables *Tables) *Comparator {
	return &Comparator{tables: tables}
}

// MetricsFromStatement extracts the benchmarkable financial metrics from a
// normalized statement.
func MetricsFromStatement(s model.FinancialStatement) map[string]float64 {
	m := s.Metrics
	out := map[string]float64{
		"noi_margin":           m.NOIMargin,
		"ebitdar_margin":       m.EBITDARMargin,
		"revenue_ppd":          m.RevenuePPD,
		"expense_ppd":          m.ExpensePPD,
		"labor_cost_percent":   m.LaborCostPercent,
		"agency_labor_percent": m.AgencyLaborPercent,
		"occupancy_percent":    m.OccupancyPercent,
		"revenue_per_bed":      m.RevenuePerBed,
	}
	if m.TotalNetRevenue > 0 {
		out["medicare_mix_percent"] = s.RevenueAmount("medicare") / m.TotalNetRevenue * 100
	}
	return out
}

// Compare rates the statement's metrics, plus any extra operational values
// supplied by the caller, against the asset type's benchmark set. Metrics
// the set does not track are skipped; an unknown asset type is an error.
func (c *Comparator) Compare(s model.FinancialStatement, extra map[string]float64) (*model.FacilityBenchmarkReport, error) {
	set, err := c.tables.Set(s.AssetType)
	if err != nil {
		return nil, err
	}

	values := MetricsFromStatement(s)
	for k, v := range extra {
		values[k] = v
	}

	report := &model.FacilityBenchmarkReport{
		FacilityName: s.FacilityName,
		AssetType:    set.AssetType,
	}

	var weightedSum, totalWeight float64
	for i := range set.Benchmarks {
		b := &set.Benchmarks[i]
		actual, ok := values[b.Metric]
		if !ok {
			continue
		}
		cmp := compareOne(actual, b)
		report.Comparisons = append(report.Comparisons, cmp)

		w := categoryWeight(cmp.Category)
		weightedSum += w * cmp.Percentile
		totalWeight += w
	}

	if totalWeight > 0 {
		report.OverallPercentile = weightedSum / totalWeight
	}
	report.OverallRating = ratingFor(report.OverallPercentile)
	buildInsights(report)
	return report, nil
}

// compareOne evaluates a single metric against its benchmark.
func compareOne(actual float64, b *model.Benchmark) model.BenchmarkComparison {
	pct := interpolatePercentile(actual, b)
	if b.LowerIsBetter {
		pct = 100 - pct
	}
	category := b.Category
	if category == "" {
		category = inferCategory(b.Metric)
	}
	cmp := model.BenchmarkComparison{
		Metric:     b.Metric,
		Category:   category,
		Actual:     actual,
		Median:     b.P50,
		Percentile: pct,
		Rating:     ratingFor(pct),
		Variance:   actual - b.P50,
	}
	if b.P50 != 0 {
		cmp.VariancePercent = (actual - b.P50) / b.P50 * 100
	}
	return cmp
}

// interpolatePercentile maps a value onto 0-100 by piecewise-linear
// interpolation between the anchor percentiles. Below p10 scales linearly
// from zero; above p90 extrapolates on the p75-p90 slope, capped at 100.
func interpolatePercentile(v float64, b *model.Benchmark) float64 {
	anchors := []struct {
		value float64
		pct   float64
	}{
		{b.P10, 10}, {b.P25, 25}, {b.P50, 50}, {b.P75, 75}, {b.P90, 90},
	}

	if v <= anchors[0].value {
		if anchors[0].value == 0 {
			return 0
		}
		p := v / anchors[0].value * 10
		if p < 0 {
			return 0
		}
		return p
	}

	for i := 1; i < len(anchors); i++ {
		lo, hi := anchors[i-1], anchors[i]
		if v <= hi.value {
			if hi.value == lo.value {
				return hi.pct
			}
			return lo.pct + (v-lo.value)/(hi.value-lo.value)*(hi.pct-lo.pct)
		}
	}

	// beyond p90: extrapolate on the p75-p90 slope
	p75, p90 := anchors[3], anchors[4]
	if p90.value == p75.value {
		return 100
	}
	slope := (p90.pct - p75.pct) / (p90.value - p75.value)
	p := p90.pct + (v-p90.value)*slope
	if p > 100 {
		return 100
	}
	return p
}

func ratingFor(percentile float64) model.Rating {
	switch {
	case percentile >= 75:
		return model.RatingExcellent
	case percentile >= 55:
		return model.RatingGood
	case percentile >= 35:
		return model.RatingAverage
	case percentile >= 15:
		return model.RatingBelowAverage
	default:
		return model.RatingPoor
	}
}

func categoryWeight(category string) float64 {
	switch category {
	case "financial":
		return weightFinancial
	case "operational":
		return weightOperational
	case "quality":
		return weightQuality
	case "staffing":
		return weightStaffing
	default:
		return weightFallback
	}
}

// inferCategory guesses a metric's category from its name when the table
// does not declare one.
func inferCategory(metric string) string {
	m := strings.ToLower(metric)
	switch {
	case strings.Contains(m, "margin") || strings.Contains(m, "noi") ||
		strings.Contains(m, "ebitdar") || strings.Contains(m, "expense") ||
		strings.Contains(m, "revenue"):
		return "financial"
	case strings.Contains(m, "occupancy") || strings.Contains(m, "census") ||
		strings.Contains(m, "mix"):
		return "operational"
	case strings.Contains(m, "star") || strings.Contains(m, "deficien") ||
		strings.Contains(m, "survey") || strings.Contains(m, "rehospital"):
		return "quality"
	case strings.Contains(m, "turnover") || strings.Contains(m, "hours") ||
		strings.Contains(m, "staff") || strings.Contains(m, "agency"):
		return "staffing"
	default:
		return ""
	}
}
