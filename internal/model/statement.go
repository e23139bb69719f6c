package model

// Period describes the reporting window a statement covers.
type Period struct {
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	Months      float64 `json:"months"`
	IsAudited   bool    `json:"is_audited,omitempty"`
	IsProjected bool    `json:"is_projected,omitempty"`
}

// LineItem is one categorized revenue or expense line with its derived
// per-basis figures.
type LineItem struct {
	AccountCode      string  `json:"account_code"`
	AccountName      string  `json:"account_name"`
	Category         string  `json:"category"`
	Labor            bool    `json:"labor,omitempty"`
	Operating        bool    `json:"operating"`
	Amount           float64 `json:"amount"`
	PercentOfRevenue float64 `json:"percent_of_revenue"`
	PerBed           float64 `json:"per_bed"`
	PerPatientDay    float64 `json:"per_patient_day"`
}

// StatementMetrics is the derived profitability block of a statement.
//
// The expense ledger folds rent, depreciation, and amortization into
// operating expense (interest is the only non-operating line), so:
//
//	NOI       = totalNetRevenue - totalOperatingExpense
//	EBITDAR   = NOI + rent
//	EBITDA    = EBITDAR - rent + depreciation + amortization
//	NetIncome = EBITDA - depreciation - amortization - interest
type StatementMetrics struct {
	TotalNetRevenue       float64 `json:"total_net_revenue"`
	TotalOperatingExpense float64 `json:"total_operating_expense"`
	TotalLaborExpense     float64 `json:"total_labor_expense"`
	TotalNonLaborExpense  float64 `json:"total_non_labor_expense"`
	NOI                   float64 `json:"noi"`
	NOIMargin             float64 `json:"noi_margin"`
	EBITDAR               float64 `json:"ebitdar"`
	EBITDARMargin         float64 `json:"ebitdar_margin"`
	EBITDA                float64 `json:"ebitda"`
	EBITDAMargin          float64 `json:"ebitda_margin"`
	NetIncome             float64 `json:"net_income"`
	NetIncomeMargin       float64 `json:"net_income_margin"`
	LaborCostPercent      float64 `json:"labor_cost_percent"`
	AgencyLaborPercent    float64 `json:"agency_labor_percent"`
	RevenuePerBed         float64 `json:"revenue_per_bed"`
	RevenuePPD            float64 `json:"revenue_ppd"`
	ExpensePerBed         float64 `json:"expense_per_bed"`
	ExpensePPD            float64 `json:"expense_ppd"`
	OccupancyPercent      float64 `json:"occupancy_percent"`
}

// FinancialStatement is one facility, one period. Statements are immutable
// once produced: normalization steps build new statements so the original
// and normalized versions can coexist and be diffed.
type FinancialStatement struct {
	FacilityName string           `json:"facility_name"`
	AssetType    string           `json:"asset_type"`
	State        string           `json:"state,omitempty"`
	Period       Period           `json:"period"`
	Beds         int              `json:"beds"`
	PatientDays  float64          `json:"patient_days"`
	Revenue      []LineItem       `json:"revenue"`
	Expenses     []LineItem       `json:"expenses"`
	Metrics      StatementMetrics `json:"metrics"`
}

// Clone returns a deep copy the caller may modify without touching the
// receiver.
func (s FinancialStatement) Clone() FinancialStatement {
	out := s
	out.Revenue = make([]LineItem, len(s.Revenue))
	copy(out.Revenue, s.Revenue)
	out.Expenses = make([]LineItem, len(s.Expenses))
	copy(out.Expenses, s.Expenses)
	return out
}

// ExpenseAmount sums expense lines in the given category.
func (s FinancialStatement) ExpenseAmount(category string) float64 {
	var total float64
	for _, li := range s.Expenses {
		if li.Category == category {
			total += li.Amount
		}
	}
	return total
}

// RevenueAmount sums revenue lines in the given category.
func (s FinancialStatement) RevenueAmount(category string) float64 {
	var total float64
	for _, li := range s.Revenue {
		if li.Category == category {
			total += li.Amount
		}
	}
	return total
}
