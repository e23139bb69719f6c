package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/underwrite-cli/internal/model"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	rates, err := LoadDefaultCapRates()
	require.NoError(t, err)
	return NewEngine(rates)
}

func TestValue_PairedViews(t *testing.T) {
	e := testEngine(t)

	pv, err := e.Value(1_000_000, "SNF", "OH", 100)
	require.NoError(t, err)

	assert.Equal(t, model.PerspectiveExternal, pv.External.Perspective)
	assert.Equal(t, model.PerspectiveInternal, pv.Internal.Perspective)
	assert.Equal(t, pv.External.NOI, pv.Internal.NOI)

	// internal SNF band 11.5/12.5/13.5
	assert.InDelta(t, 1_000_000/0.135, pv.Internal.ValueLow, 1)
	assert.InDelta(t, 1_000_000/0.125, pv.Internal.ValueBase, 1)
	assert.InDelta(t, 1_000_000/0.115, pv.Internal.ValueHigh, 1)
	assert.InDelta(t, pv.Internal.ValueBase/100, pv.Internal.PricePerBed, 1e-6)
	assert.Equal(t, "SNF", pv.Internal.MarketTier)

	// external OH band 12.5/13.5/14.5, tertiary market
	assert.InDelta(t, 1_000_000/0.145, pv.External.ValueLow, 1)
	assert.Equal(t, "tertiary", pv.External.MarketTier)
}

func TestValue_InversionHolds(t *testing.T) {
	e := testEngine(t)

	for _, assetType := range []string{"SNF", "ALF", "ILF", "HOSPICE"} {
		pv, err := e.Value(750_000, assetType, "TX", 80)
		require.NoError(t, err)
		for _, v := range []model.ValuationView{pv.External, pv.Internal} {
			assert.Less(t, v.CapRateLow, v.CapRateBase, assetType)
			assert.Less(t, v.CapRateBase, v.CapRateHigh, assetType)
			// low value pairs with the high rate
			assert.Less(t, v.ValueLow, v.ValueBase, assetType)
			assert.Less(t, v.ValueBase, v.ValueHigh, assetType)
		}
	}
}

func TestValue_UnmappedStateFallsBackToNational(t *testing.T) {
	e := testEngine(t)

	pv, err := e.Value(500_000, "ALF", "WY", 60)
	require.NoError(t, err)
	assert.Equal(t, "national", pv.External.MarketTier)
	assert.InDelta(t, 13.0, pv.External.CapRateBase, 1e-9)
}

func TestValue_UnknownAssetType(t *testing.T) {
	e := testEngine(t)

	_, err := e.Value(500_000, "CASINO", "OH", 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown asset type")

	_, err = e.Value(500_000, "", "OH", 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assetType is required")
}

func TestValue_NonPositiveNOI(t *testing.T) {
	e := testEngine(t)

	pv, err := e.Value(-250_000, "SNF", "OH", 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pv.Internal.ValueBase)
	assert.Equal(t, 0.0, pv.Internal.PricePerBed)
	assert.Equal(t, -250_000.0, pv.Internal.NOI)
}

func TestValue_ZeroBeds(t *testing.T) {
	e := testEngine(t)

	pv, err := e.Value(1_000_000, "SNF", "OH", 0)
	require.NoError(t, err)
	assert.Greater(t, pv.Internal.ValueBase, 0.0)
	assert.Equal(t, 0.0, pv.Internal.PricePerBed)
}

func TestNewCapRateTables_Validation(t *testing.T) {
	good := Band{Low: 10, Base: 11, High: 12}
	national := StateBand{Band: good, Tier: "national"}

	_, err := NewCapRateTables(nil, nil, national)
	require.Error(t, err)

	_, err = NewCapRateTables(map[string]Band{"SNF": {Low: 12, Base: 11, High: 10}}, nil, national)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cap-rate band")

	_, err = NewCapRateTables(map[string]Band{"SNF": good}, nil, StateBand{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "national")
}

func TestEstimateCapEx_StepTiers(t *testing.T) {
	tests := []struct {
		name       string
		age, renov int
		wantPerBed float64
	}{
		{"new building", 5, 0, 0},
		{"age 10", 10, 0, 2000 + 3000 + 2500},      // deferred + competitive + immediate(10)
		{"age 18 renovated 3y ago", 18, 3, 4000 + 3000}, // recent renovation zeroes immediate
		{"age 35 never renovated", 35, 0, 8000 + 12000 + 10000},
		{"age 25 renovated 12y ago", 25, 12, 2500 + 7500 + 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCapEx(tt.age, tt.renov, 100)
			assert.InDelta(t, tt.wantPerBed, got.PerBed, 1e-9)
			assert.InDelta(t, tt.wantPerBed*100, got.Total, 1e-9)
			assert.InDelta(t, got.Total, got.Immediate+got.Deferred+got.Competitive, 1e-9)
		})
	}
}

func TestEstimateCapEx_ZeroAndNegativeInputs(t *testing.T) {
	got := EstimateCapEx(-5, -3, -10)
	assert.Equal(t, model.CapExEstimate{}, got)
}

func snfStatement() model.FinancialStatement {
	return model.FinancialStatement{
		FacilityName: "Maple Grove Care Center",
		AssetType:    "SNF",
		State:        "OH",
		Beds:         100,
		PatientDays:  30000,
		Revenue: []model.LineItem{
			{AccountCode: "rev_medicaid", Category: "medicaid", Amount: 5_000_000},
			{AccountCode: "rev_medicare_a", Category: "medicare", Amount: 4_000_000},
			{AccountCode: "rev_private", Category: "private", Amount: 1_000_000},
		},
		Metrics: model.StatementMetrics{TotalNetRevenue: 10_000_000},
	}
}

func TestReimbursementUpside(t *testing.T) {
	tables, err := LoadDefaultReimbursementRates()
	require.NoError(t, err)

	ops := map[string]float64{
		"medicaid_rate_ppd": 220, // OH target 240 -> $20/day gap
		"medicaid_days":     15000,
		"medicare_rate_ppd": 600, // above target, no gap
	}
	up := tables.EstimateUpside(snfStatement(), ops)

	assert.InDelta(t, 20, up.MedicaidGapPPD, 1e-9)
	assert.Equal(t, 0.0, up.MedicareGapPPD)
	assert.InDelta(t, 20*15000, up.AnnualUpside, 1e-6)
	assert.InDelta(t, up.AnnualUpside*0.75, up.NOIImpact, 1e-6)
}

func TestReimbursementUpside_DaysDefaultToRevenueShare(t *testing.T) {
	tables, err := LoadDefaultReimbursementRates()
	require.NoError(t, err)

	up := tables.EstimateUpside(snfStatement(), map[string]float64{"medicaid_rate_ppd": 230})
	// medicaid share is 50% of revenue -> 15000 days
	assert.InDelta(t, 10*15000, up.AnnualUpside, 1e-6)
}

func TestReimbursementUpside_NonSNFAndMissingRates(t *testing.T) {
	tables, err := LoadDefaultReimbursementRates()
	require.NoError(t, err)

	s := snfStatement()
	s.AssetType = "ALF"
	assert.Equal(t, model.ReimbursementUpside{}, tables.EstimateUpside(s, map[string]float64{"medicaid_rate_ppd": 100}))

	// no observed rates -> zero upside, never guessed
	assert.Equal(t, model.ReimbursementUpside{}, tables.EstimateUpside(snfStatement(), nil))
}
