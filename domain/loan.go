package domain

// LoanTerms describes a fixed-rate home loan as submitted from the mortgage form.
type LoanTerms struct {
	HomePrice                    float64 `json:"homePrice"`
	DownPayment                  float64 `json:"downPayment"`
	LoanTermYears                int     `json:"loanTermYears"`
	AnnualInterestRatePercent    float64 `json:"annualInterestRatePercent"`
	AnnualPropertyTaxRatePercent float64 `json:"annualPropertyTaxRatePercent"`
	AnnualInsuranceRatePercent   float64 `json:"annualInsuranceRatePercent"`
}

// Principal is the financed amount. It is never negative.
func (t LoanTerms) Principal() float64 {
	p := t.HomePrice - t.DownPayment
	if p < 0 {
		return 0
	}
	return p
}

// MonthlyRate converts the annual percentage into a per-period fraction.
func (t LoanTerms) MonthlyRate() float64 {
	return t.AnnualInterestRatePercent / 100 / 12
}

// TotalPeriods is the number of monthly payments over the loan term.
func (t LoanTerms) TotalPeriods() int {
	if t.LoanTermYears <= 0 {
		return 0
	}
	return t.LoanTermYears * 12
}

type AmortizationRow struct {
	Period                int     `json:"period"`
	PaymentAmount         float64 `json:"paymentAmount"`
	InterestPortion       float64 `json:"interestPortion"`
	PrincipalPortion      float64 `json:"principalPortion"`
	RemainingBalanceAfter float64 `json:"remainingBalanceAfter"`
}

type MortgageSummary struct {
	Principal        float64 `json:"principal"`
	TotalPeriods     int     `json:"totalPeriods"`
	MonthlyPI        float64 `json:"monthlyPI"`
	MonthlyTax       float64 `json:"monthlyTax"`
	MonthlyInsurance float64 `json:"monthlyInsurance"`
	TotalMonthly     float64 `json:"totalMonthly"`
	TotalInterest    float64 `json:"totalInterest"`
	TotalCost        float64 `json:"totalCost"`
}

// MortgageRequest is the body accepted by the calculate endpoint.
type MortgageRequest struct {
	LoanTerms
	ScheduleMonths int `json:"scheduleMonths,omitempty"`
}

type MortgageResult struct {
	Summary  MortgageSummary   `json:"summary"`
	Schedule []AmortizationRow `json:"schedule"`
}

type ScheduleResult struct {
	Summary  MortgageSummary   `json:"summary"`
	Schedule []AmortizationRow `json:"schedule"`
}
