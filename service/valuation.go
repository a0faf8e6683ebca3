package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"homecalc/domain"
)

// RandomSource supplies the randomness used to synthesize comparables.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// globalRandom uses the package-level math/rand/v2 generator.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

const (
	comparableSpread = 0.15 // max size/price perturbation of a comparable
	comparableJitter = 0.05 // extra price noise on top of the size perturbation
	sqmPerBedroom    = 50.0
)

var comparableRecency = [ComparableCount]string{"2 weeks ago", "1 month ago", "6 weeks ago"}

// Estimator values properties from a neighborhood rate table and a fixed
// chain of multiplicative adjustments. It is safe for concurrent use.
type Estimator struct {
	tables MarketTables
	now    func() time.Time

	mu  sync.Mutex // guards rng
	rng RandomSource
}

// NewEstimator builds an Estimator. A nil rng uses math/rand/v2 and a nil now
// uses time.Now.
func NewEstimator(tables MarketTables, rng RandomSource, now func() time.Time) *Estimator {
	if rng == nil {
		rng = globalRandom{}
	}
	if now == nil {
		now = time.Now
	}
	return &Estimator{tables: tables, rng: rng, now: now}
}

func (e *Estimator) Tables() MarketTables {
	return e.tables
}

// PricePerSqm applies the adjustment chain to the neighborhood base rate:
// property type, condition, amenities, then age band. It also reports the
// rate row used and whether it was the default fallback.
func (e *Estimator) PricePerSqm(input domain.ValuationInput) (float64, domain.NeighborhoodRate, bool) {
	rate, found := e.tables.Lookup(input.Neighborhood)

	price := rate.AvgPricePerSqm
	price *= multiplierOr(e.tables.PropertyTypes, input.PropertyType.Normalize())
	price *= multiplierOr(e.tables.Conditions, input.Condition.Normalize())

	a := e.tables.Amenities
	if input.HasPool {
		price *= a.Pool
	}
	if input.HasGarage {
		price *= a.Garage
	}
	if input.HasGarden {
		price *= a.Garden
	}
	if input.RecentRenovations {
		price *= a.RecentRenovations
	}

	age := e.now().Year() - input.YearBuilt
	price *= e.tables.ageMultiplier(age)

	return nonNegative(price), rate, !found
}

func multiplierOr[K comparable](table map[K]float64, key K) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

// EstimateValue returns a point estimate, a fixed-width band around it and a
// set of synthetic comparables. Unknown neighborhoods use the default rate
// and a stable trend.
func (e *Estimator) EstimateValue(input domain.ValuationInput) domain.ValuationResult {
	pricePerSqm, rate, fallback := e.PricePerSqm(input)

	estimated := nonNegative(math.Round(pricePerSqm * nonNegative(input.SizeSqm)))
	variance := estimated * e.tables.BandWidth

	trend, trendPercent := rate.Trend, rate.TrendPercent
	if fallback {
		trend, trendPercent = domain.TrendStable, 0
	}

	return domain.ValuationResult{
		EstimatedValue:       estimated,
		LowEstimate:          estimated - variance,
		HighEstimate:         estimated + variance,
		PricePerSqm:          pricePerSqm,
		MarketTrend:          trend,
		TrendPercent:         trendPercent,
		NeighborhoodFallback: fallback,
		Comparables:          e.SynthesizeComparables(input, estimated),
	}
}

// SynthesizeComparables generates illustrative sales near estimatedValue.
// They are not looked up from any sales record. Each record draws one
// perturbation that scales both its size and its price, so a larger
// comparable is also a pricier one.
func (e *Estimator) SynthesizeComparables(input domain.ValuationInput, estimatedValue float64) []domain.Comparable {
	area := displayNeighborhood(e.tables, input.Neighborhood)
	size := nonNegative(input.SizeSqm)

	e.mu.Lock()
	defer e.mu.Unlock()

	comps := make([]domain.Comparable, 0, ComparableCount)
	for i := 0; i < ComparableCount; i++ {
		factor := 1 + (e.rng.Float64()*2-1)*comparableSpread
		jitter := 1 + (e.rng.Float64()*2-1)*comparableJitter

		compSize := math.Max(1, math.Round(size*factor))
		bedrooms := max(1, int(math.Round(compSize/sqmPerBedroom))+e.rng.IntN(3)-1)
		bathrooms := max(1, bedrooms-1+e.rng.IntN(2))

		comps = append(comps, domain.Comparable{
			Address:   fmt.Sprintf("Plot %d, %s", 100+e.rng.IntN(900), area),
			Price:     math.Round(estimatedValue * factor * jitter),
			Bedrooms:  bedrooms,
			Bathrooms: bathrooms,
			SizeSqm:   compSize,
			SoldAgo:   comparableRecency[i],
			Synthetic: true,
		})
	}
	return comps
}

func displayNeighborhood(tables MarketTables, name string) string {
	if rate, ok := tables.Lookup(name); ok {
		return rate.Name
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return "Unlisted area"
}
