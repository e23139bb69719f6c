// Package benchmark rates a facility's normalized metrics against
// percentile distributions for its asset type.
package benchmark

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/underwrite-cli/internal/model"
)

//go:embed benchmarks.yaml
var defaultTablesYAML []byte

// Set is the benchmark table for one asset type. Order is preserved so
// report output is deterministic.
type Set struct {
	AssetType  string
	Benchmarks []model.Benchmark
	byMetric   map[string]*model.Benchmark
}

// Tables holds the benchmark sets for every supported asset type. Loaded
// once at startup, read-only afterwards.
type Tables struct {
	sets map[string]*Set
}

// LoadDefaultTables parses the embedded benchmark tables.
func LoadDefaultTables() (*Tables, error) {
	var doc struct {
		AssetTypes map[string][]model.Benchmark `yaml:"asset_types"`
	}
	if err := yaml.Unmarshal(defaultTablesYAML, &doc); err != nil {
		return nil, eris.Wrap(err, "benchmark: parse embedded tables")
	}
	return NewTables(doc.AssetTypes)
}

// NewTables indexes explicit benchmark sets keyed by asset type.
func NewTables(byAssetType map[string][]model.Benchmark) (*Tables, error) {
	if len(byAssetType) == 0 {
		return nil, eris.New("benchmark: no benchmark sets configured")
	}
	t := &Tables{sets: make(map[string]*Set, len(byAssetType))}
	for assetType, benchmarks := range byAssetType {
		if len(benchmarks) == 0 {
			return nil, eris.Errorf("benchmark: asset type %q has an empty benchmark set", assetType)
		}
		set := &Set{
			AssetType:  assetType,
			Benchmarks: benchmarks,
			byMetric:   make(map[string]*model.Benchmark, len(benchmarks)),
		}
		for i := range set.Benchmarks {
			b := &set.Benchmarks[i]
			set.byMetric[b.Metric] = b
		}
		t.sets[strings.ToUpper(assetType)] = set
	}
	return t, nil
}

// Set returns the benchmark set for an asset type, or an error naming the
// missing field; an unknown asset type is a configuration fault, not a
// data-quality issue.
func (t *Tables) Set(assetType string) (*Set, error) {
	if assetType == "" {
		return nil, eris.New("benchmark: assetType is required")
	}
	set, ok := t.sets[strings.ToUpper(assetType)]
	if !ok {
		return nil, eris.Errorf("benchmark: unknown asset type %q", assetType)
	}
	return set, nil
}

// Metric returns one benchmark from the set, or nil when the set does not
// track it.
func (s *Set) Metric(name string) *model.Benchmark {
	return s.byMetric[name]
}
