package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"homecalc/domain"
)

// maxYearsAhead allows off-plan properties that complete shortly.
const maxYearsAhead = 2

type ValuationService struct {
	estimator *Estimator
	history   *HistoryService
	logger    logrus.FieldLogger
}

func NewValuationService(estimator *Estimator, history *HistoryService, logger logrus.FieldLogger) *ValuationService {
	return &ValuationService{estimator: estimator, history: history, logger: logger}
}

// NormalizeValuationInput trims and canonicalizes enum casing, then validates.
func (s *ValuationService) NormalizeValuationInput(in domain.ValuationInput) (domain.ValuationInput, error) {
	in.Neighborhood = strings.TrimSpace(in.Neighborhood)
	in.PropertyType = in.PropertyType.Normalize()
	in.Condition = in.Condition.Normalize()

	if in.Neighborhood == "" {
		return in, invalidf("neighborhood is required")
	}
	if !in.PropertyType.IsValid() {
		return in, invalidf("property type must be one of HOUSE, APARTMENT, CONDO, TOWNHOUSE")
	}
	if !in.Condition.IsValid() {
		return in, invalidf("condition must be one of excellent, good, fair, poor")
	}
	if !isFinite(in.SizeSqm) || in.SizeSqm <= 0 {
		return in, invalidf("size must be positive")
	}
	if in.SizeSqm > MaxSizeSqm {
		return in, invalidf("size exceeds the maximum of %.0f sqm", MaxSizeSqm)
	}
	latest := s.estimator.now().Year() + maxYearsAhead
	if in.YearBuilt < MinYearBuilt || in.YearBuilt > latest {
		return in, invalidf("year built must be between %d and %d", MinYearBuilt, latest)
	}
	return in, nil
}

// Estimate values a property. An unknown neighborhood is not an error: the
// default base rate is used and the result is flagged.
func (s *ValuationService) Estimate(ctx context.Context, input domain.ValuationInput) (domain.ValuationResult, error) {
	in, err := s.NormalizeValuationInput(input)
	if err != nil {
		return domain.ValuationResult{}, err
	}

	result := s.estimator.EstimateValue(in)
	if result.NeighborhoodFallback {
		s.logger.WithField("neighborhood", in.Neighborhood).Info("unknown neighborhood, using default base rate")
	}

	result.PricePerSqm = roundMoney(result.PricePerSqm)
	result.LowEstimate = roundMoney(result.LowEstimate)
	result.HighEstimate = roundMoney(result.HighEstimate)

	s.history.Record(ctx, domain.KindValuation, in, result)
	return result, nil
}

// Neighborhoods lists the rate table, for populating form choices.
func (s *ValuationService) Neighborhoods() []domain.NeighborhoodRate {
	return s.estimator.Tables().NeighborhoodList()
}
