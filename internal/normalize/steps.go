package normalize

import (
	"fmt"
	"math"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/model"
)

// agencyConversionFactor converts excess agency spend into equivalent
// regular wages; agency staffing costs roughly 30% more for the same hours.
const agencyConversionFactor = 0.7

// agencyTolerancePoints is how far above target agency utilization may sit
// before the normalizer intervenes.
const agencyTolerancePoints = 2.0

// managementFeeTolerancePoints is the band around the target fee percent
// inside which an existing fee is left alone.
const managementFeeTolerancePoints = 1.0

type stepFunc func(model.FinancialStatement, Options) (model.FinancialStatement, *model.NormalizationAdjustment)

func totalRevenue(s model.FinancialStatement) float64 {
	var total float64
	for _, li := range s.Revenue {
		total += li.Amount
	}
	return total
}

// annualizeStep scales a partial-period statement to a 12-month basis.
func annualizeStep(s model.FinancialStatement, opts Options) (model.FinancialStatement, *model.NormalizationAdjustment) {
	months := s.Period.Months
	if !opts.Annualize || months <= 0 || months == 12 {
		return s, nil
	}
	factor := 12 / months

	before := totalRevenue(s)
	out := s.Clone()
	for i := range out.Revenue {
		out.Revenue[i].Amount *= factor
	}
	for i := range out.Expenses {
		out.Expenses[i].Amount *= factor
	}
	out.PatientDays *= factor
	out.Period.Months = 12

	return out, &model.NormalizationAdjustment{
		Category:       model.AdjustAnnualization,
		Description:    fmt.Sprintf("Annualized %.3g-month period", months),
		OriginalAmount: before,
		AdjustedAmount: before * factor,
		Delta:          before*factor - before,
		Reason:         fmt.Sprintf("scaled all amounts and patient days by %.4f (12/%.3g months)", factor, months),
	}
}

// managementFeeStep normalizes the management fee to the target percent of
// net revenue: synthesized when absent, replaced when more than one point
// off target, left alone otherwise.
func managementFeeStep(chart *coa.Chart) stepFunc {
	return func(s model.FinancialStatement, opts Options) (model.FinancialStatement, *model.NormalizationAdjustment) {
		if !opts.NormalizeManagementFee {
			return s, nil
		}
		netRevenue := totalRevenue(s)
		if netRevenue <= 0 {
			return s, nil
		}

		targetPct := opts.TargetManagementFeePercent
		targetAmount := targetPct / 100 * netRevenue
		current := s.ExpenseAmount("management_fee")
		hasLine := false
		for _, li := range s.Expenses {
			if li.Category == "management_fee" {
				hasLine = true
				break
			}
		}

		if hasLine {
			currentPct := safePct(current, netRevenue)
			if math.Abs(currentPct-targetPct) <= managementFeeTolerancePoints {
				return s, nil
			}
			out := s.Clone()
			out.Expenses = upsertExpense(chart, out.Expenses, "exp_mgmt_fee", targetAmount)
			return out, &model.NormalizationAdjustment{
				Category:       model.AdjustManagementFee,
				Description:    "Reset management fee to market rate",
				OriginalAmount: current,
				AdjustedAmount: targetAmount,
				Delta:          targetAmount - current,
				Reason:         fmt.Sprintf("reported fee was %.1f%% of net revenue vs %.1f%% target", currentPct, targetPct),
			}
		}

		out := s.Clone()
		out.Expenses = upsertExpense(chart, out.Expenses, "exp_mgmt_fee", targetAmount)
		return out, &model.NormalizationAdjustment{
			Category:       model.AdjustManagementFee,
			Description:    "Added market management fee",
			OriginalAmount: 0,
			AdjustedAmount: targetAmount,
			Delta:          targetAmount,
			Reason:         fmt.Sprintf("no management fee reported; imputed %.1f%% of net revenue", targetPct),
		}
	}
}

// agencyLaborStep converts excess agency nursing spend into equivalent
// regular wages when agency utilization exceeds target plus tolerance.
func agencyLaborStep(chart *coa.Chart) stepFunc {
	return func(s model.FinancialStatement, opts Options) (model.FinancialStatement, *model.NormalizationAdjustment) {
		if !opts.NormalizeAgency {
			return s, nil
		}
		agency := s.ExpenseAmount("agency_labor")
		wages := s.ExpenseAmount("nursing_labor")
		totalNursing := agency + wages
		if totalNursing <= 0 {
			return s, nil
		}

		agencyPct := safePct(agency, totalNursing)
		targetPct := opts.TargetAgencyPercent
		if agencyPct <= targetPct+agencyTolerancePoints {
			return s, nil
		}

		targetAgency := targetPct / 100 * totalNursing
		excess := agency - targetAgency
		newAgency := targetAgency
		newWages := wages + excess*agencyConversionFactor

		out := s.Clone()
		out.Expenses = upsertExpense(chart, out.Expenses, "exp_agency_nursing", newAgency)
		out.Expenses = upsertExpense(chart, out.Expenses, "exp_nursing_wages", newWages)

		return out, &model.NormalizationAdjustment{
			Category:       model.AdjustAgencyLabor,
			Description:    "Converted excess agency nursing to staff wages",
			OriginalAmount: totalNursing,
			AdjustedAmount: newAgency + newWages,
			Delta:          -excess * (1 - agencyConversionFactor),
			Reason: fmt.Sprintf("agency was %.1f%% of nursing labor vs %.1f%% target; excess shifted at a %.1f conversion factor",
				agencyPct, targetPct, agencyConversionFactor),
		}
	}
}

// reserveStep layers a capital expenditure reserve onto the statement.
func reserveStep(chart *coa.Chart) stepFunc {
	return func(s model.FinancialStatement, opts Options) (model.FinancialStatement, *model.NormalizationAdjustment) {
		if !opts.AddReserves {
			return s, nil
		}
		netRevenue := totalRevenue(s)
		reserve := opts.ReservePercent / 100 * netRevenue
		if reserve <= 0 {
			return s, nil
		}
		existing := s.ExpenseAmount("reserve")

		out := s.Clone()
		out.Expenses = upsertExpense(chart, out.Expenses, "exp_capital_reserve", existing+reserve)
		return out, &model.NormalizationAdjustment{
			Category:       model.AdjustReserves,
			Description:    "Added capital expenditure reserve",
			OriginalAmount: existing,
			AdjustedAmount: existing + reserve,
			Delta:          reserve,
			Reason:         fmt.Sprintf("reserve at %.1f%% of net revenue", opts.ReservePercent),
		}
	}
}
