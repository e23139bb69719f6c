package model

// Rating is the qualitative bucket assigned to a benchmark percentile.
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingAverage      Rating = "average"
	RatingBelowAverage Rating = "below_average"
	RatingPoor         Rating = "poor"
)

// Benchmark is a named metric's distribution for one asset type: percentile
// anchors plus a mean. Static reference data.
type Benchmark struct {
	Metric        string  `json:"metric" yaml:"metric"`
	Category      string  `json:"category" yaml:"category"` // financial | operational | quality | staffing
	LowerIsBetter bool    `json:"lower_is_better,omitempty" yaml:"lower_is_better"`
	P10           float64 `json:"p10" yaml:"p10"`
	P25           float64 `json:"p25" yaml:"p25"`
	P50           float64 `json:"p50" yaml:"p50"`
	P75           float64 `json:"p75" yaml:"p75"`
	P90           float64 `json:"p90" yaml:"p90"`
	Mean          float64 `json:"mean" yaml:"mean"`
}

// BenchmarkComparison is one metric evaluated against its benchmark.
type BenchmarkComparison struct {
	Metric          string  `json:"metric"`
	Category        string  `json:"category"`
	Actual          float64 `json:"actual"`
	Median          float64 `json:"median"`
	Percentile      float64 `json:"percentile"` // 0-100, direction-adjusted
	Rating          Rating  `json:"rating"`
	Variance        float64 `json:"variance"`         // actual - median
	VariancePercent float64 `json:"variance_percent"` // vs median
}

// FacilityBenchmarkReport aggregates a facility's benchmark comparisons with
// an overall weighted score and generated insights.
type FacilityBenchmarkReport struct {
	FacilityName      string                `json:"facility_name"`
	AssetType         string                `json:"asset_type"`
	Comparisons       []BenchmarkComparison `json:"comparisons"`
	OverallPercentile float64               `json:"overall_percentile"`
	OverallRating     Rating                `json:"overall_rating"`
	Strengths         []string              `json:"strengths,omitempty"`
	Weaknesses        []string              `json:"weaknesses,omitempty"`
	Recommendations   []string              `json:"recommendations,omitempty"`
}
