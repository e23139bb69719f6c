package normalize

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

// UnmappedLine is a raw line the matcher could not classify, routed to
// manual review. Its amount has already been folded into the catch-all
// account so statement totals still reconcile.
type UnmappedLine struct {
	Mapping model.LineItemMapping `json:"mapping"`
	Amount  float64               `json:"amount"`
	Side    model.AccountType     `json:"side"`
}

// Result pairs the as-extracted statement with its normalized counterpart
// and the adjustment trail between them.
type Result struct {
	Original    model.FinancialStatement        `json:"original"`
	Normalized  model.FinancialStatement        `json:"normalized"`
	Adjustments []model.NormalizationAdjustment `json:"adjustments"`
	Unmapped    []UnmappedLine                  `json:"unmapped,omitempty"`
}

// Normalizer builds normalized financial statements from raw facility
// records. It holds only immutable reference data and is safe for
// concurrent use.
type Normalizer struct {
	chart   *coa.Chart
	matcher *coa.Matcher
}

// NewNormalizer creates a Normalizer over the given chart.
func NewNormalizer(chart *coa.Chart) (*Normalizer, error) {
	if chart == nil || len(chart.Accounts) == 0 {
		return nil, eris.New("normalize: chart of accounts is required")
	}
	if chart.OtherRevenue() == nil || chart.OtherExpense() == nil {
		return nil, eris.New("normalize: chart is missing catch-all accounts")
	}
	return &Normalizer{chart: chart, matcher: coa.NewMatcher(chart)}, nil
}

// Normalize maps the record's raw lines onto the chart, builds the original
// statement, applies the configured adjustment steps, and recomputes all
// derived metrics. Statements are never mutated in place; each step
// produces a new value.
func (n *Normalizer) Normalize(rec model.FacilityRecord, opts Options) (*Result, error) {
	if rec.AssetType == "" {
		return nil, eris.New("normalize: assetType is required")
	}
	opts = opts.withDefaults()

	original, unmapped := n.buildOriginal(rec)

	normalized := original
	var adjustments []model.NormalizationAdjustment

	steps := []stepFunc{
		annualizeStep,
		managementFeeStep(n.chart),
		agencyLaborStep(n.chart),
		reserveStep(n.chart),
	}
	for _, step := range steps {
		next, adj := step(normalized, opts)
		if adj != nil {
			adjustments = append(adjustments, *adj)
		}
		normalized = Recompute(next)
	}

	if len(unmapped) > 0 {
		zap.L().Debug("normalize: unmapped lines routed to review",
			zap.String("facility", rec.FacilityName),
			zap.Int("count", len(unmapped)),
		)
	}

	return &Result{
		Original:    original,
		Normalized:  normalized,
		Adjustments: adjustments,
		Unmapped:    unmapped,
	}, nil
}

// buildOriginal matches every raw line, aggregates amounts by account, and
// derives the as-extracted statement. Unmapped amounts roll into the
// catch-all accounts so totals always reconcile.
func (n *Normalizer) buildOriginal(rec model.FacilityRecord) (model.FinancialStatement, []UnmappedLine) {
	amounts := make(map[string]float64)
	var unmapped []UnmappedLine

	ingest := func(lines []model.RawLine, side model.AccountType) {
		for _, raw := range lines {
			amount := sanitizeAmount(raw.Amount)
			mapping := n.matcher.Match(raw.Label)
			switch {
			case mapping.Mapped():
				amounts[mapping.Account.Code] += amount
			case side == model.AccountTypeRevenue:
				amounts[n.chart.OtherRevenue().Code] += amount
				unmapped = append(unmapped, UnmappedLine{Mapping: mapping, Amount: amount, Side: side})
			default:
				amounts[n.chart.OtherExpense().Code] += amount
				unmapped = append(unmapped, UnmappedLine{Mapping: mapping, Amount: amount, Side: side})
			}
		}
	}
	ingest(rec.RevenueLines, model.AccountTypeRevenue)
	ingest(rec.ExpenseLines, model.AccountTypeExpense)

	beds := rec.Beds
	if beds < 0 {
		beds = 0
	}
	days := sanitizeAmount(rec.PatientDays)
	if days < 0 {
		days = 0
	}
	months := sanitizeAmount(rec.Period.Months)
	if months <= 0 {
		months = 12
	}
	period := rec.Period
	period.Months = months

	stmt := model.FinancialStatement{
		FacilityName: rec.FacilityName,
		AssetType:    rec.AssetType,
		State:        rec.State,
		Period:       period,
		Beds:         beds,
		PatientDays:  days,
		Revenue:      n.buildLines(amounts, model.AccountTypeRevenue),
		Expenses:     n.buildLines(amounts, model.AccountTypeExpense),
	}
	return Recompute(stmt), unmapped
}

// buildLines materializes aggregated amounts as line items in chart order.
func (n *Normalizer) buildLines(amounts map[string]float64, side model.AccountType) []model.LineItem {
	var lines []model.LineItem
	for i := range n.chart.Accounts {
		a := &n.chart.Accounts[i]
		if a.Type != side {
			continue
		}
		amount, ok := amounts[a.Code]
		if !ok {
			continue
		}
		lines = append(lines, model.LineItem{
			AccountCode: a.Code,
			AccountName: a.Name,
			Category:    a.Category,
			Labor:       a.Labor,
			Operating:   a.Operating,
			Amount:      amount,
		})
	}
	return lines
}

// upsertExpense returns a copy of lines with the given account's amount
// set, inserting a new line in chart order when absent.
func upsertExpense(chart *coa.Chart, lines []model.LineItem, code string, amount float64) []model.LineItem {
	for i, li := range lines {
		if li.AccountCode == code {
			out := make([]model.LineItem, len(lines))
			copy(out, lines)
			out[i].Amount = amount
			return out
		}
	}
	a := chart.ByCode(code)
	out := make([]model.LineItem, len(lines), len(lines)+1)
	copy(out, lines)
	out = append(out, model.LineItem{
		AccountCode: a.Code,
		AccountName: a.Name,
		Category:    a.Category,
		Labor:       a.Labor,
		Operating:   a.Operating,
		Amount:      amount,
	})
	order := make(map[string]int, len(chart.Accounts))
	for i := range chart.Accounts {
		order[chart.Accounts[i].Code] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].AccountCode] < order[out[j].AccountCode]
	})
	return out
}
