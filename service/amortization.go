package service

import (
	"math"

	"homecalc/domain"
)

// ComputeMonthlyPayment returns the fixed principal+interest payment that repays
// principal over totalPeriods at monthlyRate:
//
//	M = P * r(1+r)^n / ((1+r)^n - 1)
//
// A zero rate degrades to P/n. The result is never negative, NaN or Inf.
func ComputeMonthlyPayment(principal, monthlyRate float64, totalPeriods int) float64 {
	if principal <= 0 || totalPeriods <= 0 || !isFinite(principal) || !isFinite(monthlyRate) {
		return 0
	}

	n := float64(totalPeriods)
	if monthlyRate == 0 {
		return nonNegative(principal / n)
	}

	growth := math.Pow(1+monthlyRate, n)
	if growth == 1 {
		// rate too small to register in float64
		return nonNegative(principal / n)
	}
	if math.IsInf(growth, 1) {
		// limit of the formula as (1+r)^n grows without bound
		return nonNegative(principal * monthlyRate)
	}
	payment := principal * (monthlyRate * growth) / (growth - 1)
	return nonNegative(payment)
}

// BuildAmortizationSchedule projects the first periods rows of a schedule.
// The principal portion of a row never exceeds the balance it repays, and a
// residual below BalanceTolerance after a payment is cleared to zero, so a
// full-length schedule always ends at a zero balance.
func BuildAmortizationSchedule(principal, monthlyRate, payment float64, periods int) []domain.AmortizationRow {
	if periods <= 0 {
		return nil
	}

	balance := nonNegative(principal)
	rate := finiteOrZero(monthlyRate)
	payment = nonNegative(payment)

	rows := make([]domain.AmortizationRow, 0, periods)
	for period := 1; period <= periods; period++ {
		interest := finiteOrZero(balance * rate)
		principalPortion := payment - interest
		if principalPortion > balance {
			principalPortion = balance
		}
		if principalPortion < 0 {
			// payment does not cover interest; nothing is repaid this period
			principalPortion = 0
		}

		balance -= principalPortion
		if balance < BalanceTolerance {
			principalPortion += balance
			balance = 0
		}

		rows = append(rows, domain.AmortizationRow{
			Period:                period,
			PaymentAmount:         payment,
			InterestPortion:       interest,
			PrincipalPortion:      principalPortion,
			RemainingBalanceAfter: balance,
		})
	}
	return rows
}

// ComputeSummary derives the monthly cost breakdown and lifetime totals of a loan.
// Degenerate terms yield zeros rather than NaN or Inf.
func ComputeSummary(terms domain.LoanTerms) domain.MortgageSummary {
	principal := nonNegative(terms.Principal())
	n := terms.TotalPeriods()

	monthlyPI := ComputeMonthlyPayment(principal, terms.MonthlyRate(), n)
	monthlyTax := nonNegative(terms.HomePrice * terms.AnnualPropertyTaxRatePercent / 100 / MonthsPerYear)
	monthlyInsurance := nonNegative(terms.HomePrice * terms.AnnualInsuranceRatePercent / 100 / MonthsPerYear)
	totalMonthly := monthlyPI + monthlyTax + monthlyInsurance

	periods := float64(n)
	return domain.MortgageSummary{
		Principal:        principal,
		TotalPeriods:     n,
		MonthlyPI:        monthlyPI,
		MonthlyTax:       monthlyTax,
		MonthlyInsurance: monthlyInsurance,
		TotalMonthly:     totalMonthly,
		TotalInterest:    nonNegative(monthlyPI*periods - principal),
		TotalCost:        finiteOrZero(totalMonthly*periods + finiteOrZero(terms.DownPayment)),
	}
}
