// Package valuation prices facilities from normalized NOI via paired
// cap-rate views and estimates capital needs and reimbursement upside.
package valuation

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed caprates.yaml
var defaultRatesYAML []byte

// Band is a cap-rate band in percentage points, low < base < high.
type Band struct {
	Low  float64 `yaml:"low" json:"low"`
	Base float64 `yaml:"base" json:"base"`
	High float64 `yaml:"high" json:"high"`
}

func (b Band) valid() bool {
	return b.Low > 0 && b.Low < b.Base && b.Base < b.High
}

// StateBand is a geography-keyed band with its market-tier annotation.
type StateBand struct {
	Band `yaml:",inline"`
	Tier string `yaml:"tier" json:"tier"`
}

// CapRateTables holds both rate surfaces: asset-type bands for the internal
// execution view and state bands (with a national fallback) for the
// external lender view. Immutable after load.
type CapRateTables struct {
	assetType map[string]Band
	state     map[string]StateBand
	national  StateBand
}

type rateDoc struct {
	AssetTypes map[string]Band      `yaml:"asset_types"`
	States     map[string]StateBand `yaml:"states"`
	National   StateBand            `yaml:"national"`
}

// LoadDefaultCapRates parses the embedded cap-rate tables.
func LoadDefaultCapRates() (*CapRateTables, error) {
	var doc rateDoc
	if err := yaml.Unmarshal(defaultRatesYAML, &doc); err != nil {
		return nil, eris.Wrap(err, "valuation: parse embedded cap rates")
	}
	return NewCapRateTables(doc.AssetTypes, doc.States, doc.National)
}

// NewCapRateTables validates and indexes explicit rate tables.
func NewCapRateTables(byAssetType map[string]Band, byState map[string]StateBand, national StateBand) (*CapRateTables, error) {
	if len(byAssetType) == 0 {
		return nil, eris.New("valuation: no asset-type cap rates configured")
	}
	if !national.valid() {
		return nil, eris.New("valuation: national fallback cap-rate band is invalid")
	}
	t := &CapRateTables{
		assetType: make(map[string]Band, len(byAssetType)),
		state:     make(map[string]StateBand, len(byState)),
		national:  national,
	}
	for k, b := range byAssetType {
		if !b.valid() {
			return nil, eris.Errorf("valuation: invalid cap-rate band for asset type %q", k)
		}
		t.assetType[strings.ToUpper(k)] = b
	}
	for k, b := range byState {
		if !b.valid() {
			return nil, eris.Errorf("valuation: invalid cap-rate band for state %q", k)
		}
		t.state[strings.ToUpper(k)] = b
	}
	return t, nil
}

// AssetTypeBand returns the execution-view band for an asset type; unknown
// asset types are a configuration fault.
func (t *CapRateTables) AssetTypeBand(assetType string) (Band, error) {
	if assetType == "" {
		return Band{}, eris.New("valuation: assetType is required")
	}
	b, ok := t.assetType[strings.ToUpper(assetType)]
	if !ok {
		return Band{}, eris.Errorf("valuation: unknown asset type %q", assetType)
	}
	return b, nil
}

// StateBand returns the lender-view band for a state, falling back to the
// national band when the state is unmapped.
func (t *CapRateTables) StateBand(state string) StateBand {
	if b, ok := t.state[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return b
	}
	return t.national
}
