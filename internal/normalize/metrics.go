package normalize

import (
	"math"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// safeDiv divides, returning 0 for zero or non-finite denominators. Zero
// revenue, zero beds, or zero patient days must never produce NaN ratios.
func safeDiv(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// safePct is safeDiv expressed in percentage points.
func safePct(num, den float64) float64 {
	return safeDiv(num, den) * 100
}

// sanitizeAmount clamps malformed numeric input to zero.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Recompute derives every per-line figure and the metrics block from the
// statement's line amounts. It is a pure function and idempotent: running
// it on an already-recomputed statement changes nothing, because every
// derived field is a function of the amounts alone.
func Recompute(s model.FinancialStatement) model.FinancialStatement {
	out := s.Clone()

	var totalRevenue float64
	for _, li := range out.Revenue {
		totalRevenue += li.Amount
	}

	var opex, labor, nonLabor float64
	for _, li := range out.Expenses {
		if !li.Operating {
			continue
		}
		opex += li.Amount
		if li.Labor {
			labor += li.Amount
		} else {
			nonLabor += li.Amount
		}
	}

	beds := float64(out.Beds)
	days := out.PatientDays
	for i := range out.Revenue {
		li := &out.Revenue[i]
		li.PercentOfRevenue = safePct(li.Amount, totalRevenue)
		li.PerBed = safeDiv(li.Amount, beds)
		li.PerPatientDay = safeDiv(li.Amount, days)
	}
	for i := range out.Expenses {
		li := &out.Expenses[i]
		li.PercentOfRevenue = safePct(li.Amount, totalRevenue)
		li.PerBed = safeDiv(li.Amount, beds)
		li.PerPatientDay = safeDiv(li.Amount, days)
	}

	rent := out.ExpenseAmount("rent")
	dep := out.ExpenseAmount("depreciation")
	amort := out.ExpenseAmount("amortization")
	interest := out.ExpenseAmount("interest")
	agency := out.ExpenseAmount("agency_labor")
	nursing := out.ExpenseAmount("nursing_labor")

	noi := totalRevenue - opex
	ebitdar := noi + rent
	ebitda := ebitdar - rent + dep + amort
	netIncome := ebitda - dep - amort - interest

	availableDays := beds * 365 * safeDiv(out.Period.Months, 12)

	out.Metrics = model.StatementMetrics{
		TotalNetRevenue:       totalRevenue,
		TotalOperatingExpense: opex,
		TotalLaborExpense:     labor,
		TotalNonLaborExpense:  nonLabor,
		NOI:                   noi,
		NOIMargin:             safePct(noi, totalRevenue),
		EBITDAR:               ebitdar,
		EBITDARMargin:         safePct(ebitdar, totalRevenue),
		EBITDA:                ebitda,
		EBITDAMargin:          safePct(ebitda, totalRevenue),
		NetIncome:             netIncome,
		NetIncomeMargin:       safePct(netIncome, totalRevenue),
		LaborCostPercent:      safePct(labor, totalRevenue),
		AgencyLaborPercent:    safePct(agency, agency+nursing),
		RevenuePerBed:         safeDiv(totalRevenue, beds),
		RevenuePPD:            safeDiv(totalRevenue, days),
		ExpensePerBed:         safeDiv(opex, beds),
		ExpensePPD:            safeDiv(opex, days),
		OccupancyPercent:      safePct(days, availableDays),
	}
	return out
}
