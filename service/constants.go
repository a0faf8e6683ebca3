package service

const (
	MaxHomePrice          = 1_000_000_000.0 // 1 billion
	MaxInterestRate       = 1000.0          // 1000% per year
	MaxEscrowRate         = 100.0           // tax or insurance, % of price per year
	MaxLoanTermYears      = 50
	MinLoanTermYears      = 1
	MonthsPerYear         = 12
	BalanceTolerance      = 0.01 // residual balance treated as fully repaid
	DefaultScheduleMonths = 12

	MaxSizeSqm      = 100_000.0
	MinYearBuilt    = 1800
	ComparableCount = 3

	MaxCompareTerms = 10 // upper bound on terms evaluated by CompareTerms
)

// StandardTermsYears are the loan terms offered in the mortgage form.
var StandardTermsYears = []int{10, 15, 20, 25, 30}
