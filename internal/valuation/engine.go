package valuation

import (
	"strings"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// PairedValuation is the two views of one facility computed from the same
// NOI in the same call; they are never produced independently.
type PairedValuation struct {
	External model.ValuationView `json:"external"`
	Internal model.ValuationView `json:"internal"`
}

// Engine computes cap-rate valuations from immutable rate tables and is
// safe for concurrent use.
type Engine struct {
	rates *CapRateTables
}

// NewEngine wraps the given rate tables.
func NewEngine(rates *CapRateTables) *Engine {
	return &Engine{rates: rates}
}

// Value prices the facility under both perspectives. The external view uses
// the state's lender band (national fallback); the internal view uses the
// asset type's execution band. An unknown asset type is an error; an
// unmapped state is not.
func (e *Engine) Value(noi float64, assetType, state string, beds int) (*PairedValuation, error) {
	internalBand, err := e.rates.AssetTypeBand(assetType)
	if err != nil {
		return nil, err
	}
	externalBand := e.rates.StateBand(state)

	return &PairedValuation{
		External: buildView(model.PerspectiveExternal, noi, externalBand.Band, beds, externalBand.Tier),
		Internal: buildView(model.PerspectiveInternal, noi, internalBand, beds, strings.ToUpper(assetType)),
	}, nil
}

// buildView applies the band to NOI. A lower cap rate capitalizes into a
// higher value, so the low value divides by the high rate and the high
// value by the low rate; that inversion is load-bearing.
func buildView(p model.ValuationPerspective, noi float64, band Band, beds int, tier string) model.ValuationView {
	v := model.ValuationView{
		Perspective: p,
		NOI:         noi,
		CapRateLow:  band.Low,
		CapRateBase: band.Base,
		CapRateHigh: band.High,
		MarketTier:  tier,
	}
	if noi > 0 {
		v.ValueLow = noi / (band.High / 100)
		v.ValueBase = noi / (band.Base / 100)
		v.ValueHigh = noi / (band.Low / 100)
	}
	if beds > 0 {
		v.PricePerBed = v.ValueBase / float64(beds)
	}
	return v
}
