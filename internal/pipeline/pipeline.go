// Package pipeline composes the underwriting core: reconcile, normalize,
// benchmark, and value a deal's facilities in one pass.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/underwrite-cli/internal/benchmark"
	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
	"github.com/sells-group/underwrite-cli/internal/normalize"
	"github.com/sells-group/underwrite-cli/internal/reconcile"
	"github.com/sells-group/underwrite-cli/internal/review"
	"github.com/sells-group/underwrite-cli/internal/valuation"
)

// Deal is a caller-supplied bundle of facility extractions to underwrite
// together. Multiple records for the same facility trigger reconciliation.
type Deal struct {
	Name    string                 `json:"name"`
	Records []model.FacilityRecord `json:"records"`
}

// FacilityResult is the full underwriting picture for one facility.
type FacilityResult struct {
	FacilityName  string                          `json:"facility_name"`
	Original      model.FinancialStatement        `json:"original"`
	Normalized    model.FinancialStatement        `json:"normalized"`
	Adjustments   []model.NormalizationAdjustment `json:"adjustments"`
	Benchmark     *model.FacilityBenchmarkReport  `json:"benchmark"`
	Valuation     *valuation.PairedValuation      `json:"valuation"`
	CapEx         model.CapExEstimate             `json:"capex"`
	Reimbursement model.ReimbursementUpside       `json:"reimbursement"`
	Review        *review.Session                 `json:"review,omitempty"`
}

// DealResult aggregates facility results with the deal's reconciliation
// outcome.
type DealResult struct {
	Deal            string            `json:"deal"`
	Facilities      []*FacilityResult `json:"facilities"`
	Conflicts       []model.Conflict  `json:"conflicts,omitempty"`
	ValidationScore float64           `json:"validation_score"`
}

// Underwriter wires the core components over shared immutable reference
// data. Safe for concurrent use across facilities.
type Underwriter struct {
	chart      *coa.Chart
	normalizer *normalize.Normalizer
	comparator *benchmark.Comparator
	engine     *valuation.Engine
	reimb      *valuation.ReimbursementTables
	reconciler *reconcile.Reconciler
	opts       normalize.Options
}

// NewUnderwriter assembles an Underwriter from explicit reference data.
func NewUnderwriter(
	chart *coa.Chart,
	tables *benchmark.Tables,
	rates *valuation.CapRateTables,
	reimb *valuation.ReimbursementTables,
	opts normalize.Options,
) (*Underwriter, error) {
	normalizer, err := normalize.NewNormalizer(chart)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		return nil, eris.New("pipeline: benchmark tables are required")
	}
	if rates == nil {
		return nil, eris.New("pipeline: cap-rate tables are required")
	}
	if reimb == nil {
		return nil, eris.New("pipeline: reimbursement tables are required")
	}
	return &Underwriter{
		chart:      chart,
		normalizer: normalizer,
		comparator: benchmark.NewComparator(tables),
		engine:     valuation.NewEngine(rates),
		reimb:      reimb,
		reconciler: reconcile.NewReconciler(),
		opts:       opts,
	}, nil
}

// NewDefaultUnderwriter loads every embedded reference table.
func NewDefaultUnderwriter(opts normalize.Options) (*Underwriter, error) {
	chart, err := coa.LoadDefaultChart()
	if err != nil {
		return nil, err
	}
	tables, err := benchmark.LoadDefaultTables()
	if err != nil {
		return nil, err
	}
	rates, err := valuation.LoadDefaultCapRates()
	if err != nil {
		return nil, err
	}
	reimb, err := valuation.LoadDefaultReimbursementRates()
	if err != nil {
		return nil, err
	}
	return NewUnderwriter(chart, tables, rates, reimb, opts)
}

// Chart exposes the chart of accounts for callers that drive the matcher
// or review flows directly.
func (u *Underwriter) Chart() *coa.Chart { return u.chart }

// UnderwriteDeal reconciles the deal's records, collapses each facility to
// one merged record, and underwrites them all. Pending conflicts do not
// block the run; the base record's values carry through and the conflict
// list tells the caller what still needs a decision.
func (u *Underwriter) UnderwriteDeal(deal Deal) (*DealResult, error) {
	if len(deal.Records) == 0 {
		return nil, eris.Errorf("pipeline: deal %q has no facility records", deal.Name)
	}

	rec := u.reconciler.Reconcile(deal.Records)
	if rec.ValidationScore < 100 {
		zap.L().Warn("pipeline: unresolved conflicts, underwriting on base-record values",
			zap.String("deal", deal.Name),
			zap.Float64("validation_score", rec.ValidationScore),
		)
	}
	merged := u.reconciler.Merge(deal.Records, rec.Conflicts)

	result := &DealResult{
		Deal:            deal.Name,
		Conflicts:       rec.Conflicts,
		ValidationScore: rec.ValidationScore,
	}
	for _, m := range merged {
		fr, err := u.UnderwriteFacility(m)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: underwrite %q", m.FacilityName)
		}
		result.Facilities = append(result.Facilities, fr)
	}
	return result, nil
}

// UnderwriteFacility runs one facility through normalize, benchmark, and
// both valuation views as a single atomic unit.
func (u *Underwriter) UnderwriteFacility(rec model.FacilityRecord) (*FacilityResult, error) {
	norm, err := u.normalizer.Normalize(rec, u.opts)
	if err != nil {
		return nil, err
	}

	report, err := u.comparator.Compare(norm.Normalized, rec.OperationalMetrics)
	if err != nil {
		return nil, err
	}

	paired, err := u.engine.Value(norm.Normalized.Metrics.NOI, rec.AssetType, rec.State, norm.Normalized.Beds)
	if err != nil {
		return nil, err
	}

	fr := &FacilityResult{
		FacilityName:  rec.FacilityName,
		Original:      norm.Original,
		Normalized:    norm.Normalized,
		Adjustments:   norm.Adjustments,
		Benchmark:     report,
		Valuation:     paired,
		CapEx:         valuation.EstimateCapEx(rec.BuildingAge, rec.YearsSinceRenovation, norm.Normalized.Beds),
		Reimbursement: u.reimb.EstimateUpside(norm.Normalized, rec.OperationalMetrics),
	}

	if len(norm.Unmapped) > 0 {
		items := make([]review.Item, len(norm.Unmapped))
		for i, un := range norm.Unmapped {
			items[i] = review.Item{Mapping: un.Mapping, Amount: un.Amount}
		}
		fr.Review = review.NewSession(u.chart, items)
	}

	zap.L().Info("pipeline: facility underwritten",
		zap.String("facility", rec.FacilityName),
		zap.Float64("noi", fr.Normalized.Metrics.NOI),
		zap.Float64("overall_percentile", fr.Benchmark.OverallPercentile),
	)
	return fr, nil
}

// UnderwritePortfolio runs many independent facilities concurrently. The
// core shares only immutable reference data, so per-facility runs need no
// coordination; results come back in input order.
func (u *Underwriter) UnderwritePortfolio(ctx context.Context, records []model.FacilityRecord, concurrency int) ([]*FacilityResult, error) {
	if concurrency < 1 {
		concurrency = 4
	}
	results := make([]*FacilityResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := u.UnderwriteFacility(rec)
			if err != nil {
				return eris.Wrapf(err, "pipeline: underwrite %q", rec.FacilityName)
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
