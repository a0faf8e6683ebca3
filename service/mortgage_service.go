package service

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"homecalc/domain"
	"homecalc/repository"
)

type MortgageService struct {
	history *HistoryService
	cache   resultCache
	logger  logrus.FieldLogger
}

// NewMortgageService creates a MortgageService. cache may be nil to disable
// result caching.
func NewMortgageService(
	history *HistoryService,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger logrus.FieldLogger,
) *MortgageService {
	return &MortgageService{
		history: history,
		cache:   resultCache{cache: cache, ttl: cacheTTL, logger: logger},
		logger:  logger,
	}
}

// ValidateLoanTerms rejects terms the calculators would silently clamp.
func ValidateLoanTerms(t domain.LoanTerms) error {
	if !isFinite(t.HomePrice) || t.HomePrice <= 0 {
		return invalidf("home price must be positive")
	}
	if t.HomePrice > MaxHomePrice {
		return invalidf("home price exceeds the maximum of %.2f", MaxHomePrice)
	}
	if !isFinite(t.DownPayment) || t.DownPayment < 0 {
		return invalidf("down payment must not be negative")
	}
	if t.DownPayment > t.HomePrice {
		return invalidf("down payment exceeds home price")
	}
	if t.LoanTermYears < MinLoanTermYears {
		return invalidf("loan term must be at least %d year", MinLoanTermYears)
	}
	if t.LoanTermYears > MaxLoanTermYears {
		return invalidf("loan term exceeds the maximum of %d years", MaxLoanTermYears)
	}
	if !isFinite(t.AnnualInterestRatePercent) || t.AnnualInterestRatePercent < 0 {
		return invalidf("interest rate must not be negative")
	}
	if t.AnnualInterestRatePercent > MaxInterestRate {
		return invalidf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if !isFinite(t.AnnualPropertyTaxRatePercent) || t.AnnualPropertyTaxRatePercent < 0 ||
		t.AnnualPropertyTaxRatePercent > MaxEscrowRate {
		return invalidf("property tax rate must be between 0 and %.0f%%", MaxEscrowRate)
	}
	if !isFinite(t.AnnualInsuranceRatePercent) || t.AnnualInsuranceRatePercent < 0 ||
		t.AnnualInsuranceRatePercent > MaxEscrowRate {
		return invalidf("insurance rate must be between 0 and %.0f%%", MaxEscrowRate)
	}
	return nil
}

// Calculate returns the cost summary and the first ScheduleMonths rows of the
// amortization schedule (12 when unset).
func (s *MortgageService) Calculate(
	ctx context.Context,
	req domain.MortgageRequest,
) (domain.MortgageResult, error) {

	if err := ValidateLoanTerms(req.LoanTerms); err != nil {
		return domain.MortgageResult{}, err
	}
	if req.ScheduleMonths < 0 {
		return domain.MortgageResult{}, invalidf("schedule months must not be negative")
	}

	months := req.ScheduleMonths
	if months == 0 {
		months = DefaultScheduleMonths
	}
	if total := req.TotalPeriods(); months > total {
		months = total
	}

	key, err := cacheKey("mortgage", domain.MortgageRequest{LoanTerms: req.LoanTerms, ScheduleMonths: months})
	if err != nil {
		s.logger.WithError(err).Warn("failed to derive cache key")
	}

	var result domain.MortgageResult
	if s.cache.load(ctx, key, &result) {
		s.logger.WithField("cache_key", key).Debug("mortgage cache hit")
	} else {
		summary := ComputeSummary(req.LoanTerms)
		rows := BuildAmortizationSchedule(summary.Principal, req.MonthlyRate(), summary.MonthlyPI, months)

		result = domain.MortgageResult{
			Summary:  roundSummary(summary),
			Schedule: roundRows(rows),
		}
		s.cache.store(ctx, key, result)
	}

	s.history.Record(ctx, domain.KindMortgage, req, result)
	return result, nil
}

// Schedule returns the summary and the full amortization schedule.
func (s *MortgageService) Schedule(
	ctx context.Context,
	terms domain.LoanTerms,
) (domain.ScheduleResult, error) {

	if err := ValidateLoanTerms(terms); err != nil {
		return domain.ScheduleResult{}, err
	}

	key, err := cacheKey("schedule", terms)
	if err != nil {
		s.logger.WithError(err).Warn("failed to derive cache key")
	}

	var result domain.ScheduleResult
	if !s.cache.load(ctx, key, &result) {
		summary := ComputeSummary(terms)
		rows := BuildAmortizationSchedule(summary.Principal, terms.MonthlyRate(), summary.MonthlyPI, summary.TotalPeriods)
		result = domain.ScheduleResult{
			Summary:  roundSummary(summary),
			Schedule: roundRows(rows),
		}
		s.cache.store(ctx, key, result)
	}

	s.history.Record(ctx, domain.KindSchedule, terms, result.Summary)
	return result, nil
}

// CompareTerms prices the same purchase over several loan terms and points out
// the term with the lowest monthly outlay and the one with the lowest lifetime cost.
func (s *MortgageService) CompareTerms(
	ctx context.Context,
	req domain.TermComparisonRequest,
) (domain.TermComparisonResult, error) {

	terms := req.TermsYears
	if len(terms) == 0 {
		terms = StandardTermsYears
	}
	if len(terms) > MaxCompareTerms {
		return domain.TermComparisonResult{}, invalidf("at most %d terms can be compared", MaxCompareTerms)
	}

	seen := make(map[int]bool, len(terms))
	options := make([]domain.TermOption, 0, len(terms))
	for _, years := range terms {
		if seen[years] {
			return domain.TermComparisonResult{}, invalidf("duplicate term %d", years)
		}
		seen[years] = true

		loan := req.LoanTerms
		loan.LoanTermYears = years
		if err := ValidateLoanTerms(loan); err != nil {
			return domain.TermComparisonResult{}, err
		}

		summary := ComputeSummary(loan)
		options = append(options, domain.TermOption{
			TermYears:     years,
			MonthlyPI:     roundMoney(summary.MonthlyPI),
			TotalMonthly:  roundMoney(summary.TotalMonthly),
			TotalInterest: roundMoney(summary.TotalInterest),
			TotalCost:     roundMoney(summary.TotalCost),
		})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].TermYears < options[j].TermYears
	})

	result := domain.TermComparisonResult{Options: options}
	lowestMonthly, lowestCost := options[0], options[0]
	for _, o := range options[1:] {
		if o.TotalMonthly < lowestMonthly.TotalMonthly {
			lowestMonthly = o
		}
		if o.TotalCost < lowestCost.TotalCost {
			lowestCost = o
		}
	}
	result.LowestMonthlyTermYears = lowestMonthly.TermYears
	result.LowestTotalCostTermYears = lowestCost.TermYears

	s.history.Record(ctx, domain.KindTermComparison, req, result)
	return result, nil
}

func roundSummary(s domain.MortgageSummary) domain.MortgageSummary {
	return domain.MortgageSummary{
		Principal:        roundMoney(s.Principal),
		TotalPeriods:     s.TotalPeriods,
		MonthlyPI:        roundMoney(s.MonthlyPI),
		MonthlyTax:       roundMoney(s.MonthlyTax),
		MonthlyInsurance: roundMoney(s.MonthlyInsurance),
		TotalMonthly:     roundMoney(s.TotalMonthly),
		TotalInterest:    roundMoney(s.TotalInterest),
		TotalCost:        roundMoney(s.TotalCost),
	}
}

func roundRows(rows []domain.AmortizationRow) []domain.AmortizationRow {
	out := make([]domain.AmortizationRow, len(rows))
	for i, r := range rows {
		out[i] = domain.AmortizationRow{
			Period:                r.Period,
			PaymentAmount:         roundMoney(r.PaymentAmount),
			InterestPortion:       roundMoney(r.InterestPortion),
			PrincipalPortion:      roundMoney(r.PrincipalPortion),
			RemainingBalanceAfter: roundMoney(r.RemainingBalanceAfter),
		}
	}
	return out
}
