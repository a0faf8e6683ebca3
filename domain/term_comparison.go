package domain

// TermComparisonRequest prices the same purchase over several loan terms.
// An empty TermsYears compares the standard 10/15/20/25/30 year terms.
type TermComparisonRequest struct {
	LoanTerms
	TermsYears []int `json:"termsYears,omitempty"`
}

type TermOption struct {
	TermYears     int     `json:"termYears"`
	MonthlyPI     float64 `json:"monthlyPI"`
	TotalMonthly  float64 `json:"totalMonthly"`
	TotalInterest float64 `json:"totalInterest"`
	TotalCost     float64 `json:"totalCost"`
}

type TermComparisonResult struct {
	Options                  []TermOption `json:"options"`
	LowestMonthlyTermYears   int          `json:"lowestMonthlyTermYears"`
	LowestTotalCostTermYears int          `json:"lowestTotalCostTermYears"`
}
