package service

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecalc/domain"
)

// stubRandom returns fixed draws so comparables are fully predictable.
type stubRandom struct {
	f float64
	n int
}

func (s stubRandom) Float64() float64 { return s.f }
func (s stubRandom) IntN(int) int     { return s.n }

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func newTestEstimator(rng RandomSource) *Estimator {
	return NewEstimator(DefaultMarketTables(), rng, fixedClock(2025))
}

func scenarioB() domain.ValuationInput {
	return domain.ValuationInput{
		Neighborhood: "Kabulonga",
		PropertyType: domain.PropertyHouse,
		SizeSqm:      200,
		YearBuilt:    2010,
		Condition:    domain.ConditionGood,
	}
}

func TestEstimateValue_ScenarioB(t *testing.T) {
	e := newTestEstimator(rand.New(rand.NewPCG(1, 2)))

	res := e.EstimateValue(scenarioB())

	assert.InDelta(t, 8925.0, res.PricePerSqm, 1e-6)
	assert.Equal(t, 1_785_000.0, res.EstimatedValue)
	assert.InDelta(t, 1_606_500.0, res.LowEstimate, 1e-6)
	assert.InDelta(t, 1_963_500.0, res.HighEstimate, 1e-6)
	assert.Equal(t, domain.TrendUp, res.MarketTrend)
	assert.Equal(t, 5.2, res.TrendPercent)
	assert.False(t, res.NeighborhoodFallback)
	assert.Len(t, res.Comparables, ComparableCount)
}

func TestEstimateValue_UnknownNeighborhoodFallsBack(t *testing.T) {
	e := newTestEstimator(stubRandom{f: 0.5})
	in := scenarioB()
	in.Neighborhood = "Atlantis"

	res := e.EstimateValue(in)

	tables := DefaultMarketTables()
	assert.True(t, res.NeighborhoodFallback)
	assert.Equal(t, domain.TrendStable, res.MarketTrend)
	assert.Equal(t, 0.0, res.TrendPercent)
	assert.InDelta(t, tables.Default.AvgPricePerSqm*1.05, res.PricePerSqm, 1e-6)
	for _, c := range res.Comparables {
		assert.True(t, strings.HasSuffix(c.Address, "Atlantis"), c.Address)
	}
}

func TestEstimateValue_NeighborhoodLookupIgnoresCase(t *testing.T) {
	e := newTestEstimator(stubRandom{f: 0.5})
	in := scenarioB()
	in.Neighborhood = "  kabulonga "

	res := e.EstimateValue(in)
	assert.False(t, res.NeighborhoodFallback)
	assert.InDelta(t, 8925.0, res.PricePerSqm, 1e-6)
}

func TestPricePerSqm_AdjustmentChain(t *testing.T) {
	e := newTestEstimator(stubRandom{f: 0.5})
	tables := DefaultMarketTables()
	base := 8500.0 * tables.Conditions[domain.ConditionGood]

	tests := []struct {
		name     string
		mutate   func(in *domain.ValuationInput)
		expected float64
	}{
		{"baseline", func(in *domain.ValuationInput) {}, base},
		{"apartment", func(in *domain.ValuationInput) { in.PropertyType = domain.PropertyApartment }, base * 0.85},
		{"condo", func(in *domain.ValuationInput) { in.PropertyType = domain.PropertyCondo }, base * 0.90},
		{"townhouse", func(in *domain.ValuationInput) { in.PropertyType = domain.PropertyTownhouse }, base * 0.95},
		{"lowercase type", func(in *domain.ValuationInput) { in.PropertyType = "townhouse" }, base * 0.95},
		{"excellent", func(in *domain.ValuationInput) { in.Condition = domain.ConditionExcellent }, 8500 * 1.15},
		{"fair", func(in *domain.ValuationInput) { in.Condition = domain.ConditionFair }, 8500 * 0.95},
		{"poor", func(in *domain.ValuationInput) { in.Condition = domain.ConditionPoor }, 8500 * 0.85},
		{"pool", func(in *domain.ValuationInput) { in.HasPool = true }, base * 1.08},
		{"garage", func(in *domain.ValuationInput) { in.HasGarage = true }, base * 1.05},
		{"garden", func(in *domain.ValuationInput) { in.HasGarden = true }, base * 1.03},
		{"renovated", func(in *domain.ValuationInput) { in.RecentRenovations = true }, base * 1.10},
		{"all amenities", func(in *domain.ValuationInput) {
			in.HasPool, in.HasGarage, in.HasGarden, in.RecentRenovations = true, true, true, true
		}, base * 1.08 * 1.05 * 1.03 * 1.10},
		{"new build", func(in *domain.ValuationInput) { in.YearBuilt = 2023 }, base * 1.10},
		{"age 5", func(in *domain.ValuationInput) { in.YearBuilt = 2020 }, base},
		{"age 20", func(in *domain.ValuationInput) { in.YearBuilt = 2005 }, base},
		{"age 21", func(in *domain.ValuationInput) { in.YearBuilt = 2004 }, base * 0.95},
		{"age 31", func(in *domain.ValuationInput) { in.YearBuilt = 1994 }, base * 0.85},
		{"very old", func(in *domain.ValuationInput) { in.YearBuilt = 1900 }, base * 0.85},
		{"future year", func(in *domain.ValuationInput) { in.YearBuilt = 2026 }, base * 1.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenarioB()
			tt.mutate(&in)
			got, _, fallback := e.PricePerSqm(in)
			assert.False(t, fallback)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestEstimateValue_BandOrderingAndSymmetry(t *testing.T) {
	e := newTestEstimator(rand.New(rand.NewPCG(7, 7)))
	neighborhoods := []string{"Kabulonga", "Chelstone", "Olympia", "Nowhere"}
	sizes := []float64{1, 45.5, 200, 1234.56}

	for _, n := range neighborhoods {
		for _, size := range sizes {
			in := scenarioB()
			in.Neighborhood = n
			in.SizeSqm = size
			in.HasPool = size > 100

			res := e.EstimateValue(in)
			assert.LessOrEqual(t, res.LowEstimate, res.EstimatedValue)
			assert.LessOrEqual(t, res.EstimatedValue, res.HighEstimate)
			assert.InDelta(t, res.HighEstimate-res.EstimatedValue, res.EstimatedValue-res.LowEstimate, 1e-6)
			assert.InDelta(t, res.EstimatedValue*0.10, res.HighEstimate-res.EstimatedValue, 1e-6)
		}
	}
}

func TestEstimateValue_ConfigurableBandWidth(t *testing.T) {
	tables := DefaultMarketTables()
	tables.BandWidth = 0.25
	e := NewEstimator(tables, stubRandom{f: 0.5}, fixedClock(2025))

	res := e.EstimateValue(scenarioB())
	assert.InDelta(t, 1_785_000*0.75, res.LowEstimate, 1e-6)
	assert.InDelta(t, 1_785_000*1.25, res.HighEstimate, 1e-6)
}

func TestSynthesizeComparables_Stubbed(t *testing.T) {
	e := newTestEstimator(stubRandom{f: 0.5, n: 0})

	comps := e.SynthesizeComparables(scenarioB(), 1_785_000)
	require.Len(t, comps, 3)

	labels := []string{"2 weeks ago", "1 month ago", "6 weeks ago"}
	for i, c := range comps {
		assert.Equal(t, labels[i], c.SoldAgo)
		assert.True(t, c.Synthetic)
		assert.Equal(t, 1_785_000.0, c.Price)
		assert.Equal(t, 200.0, c.SizeSqm)
		assert.Equal(t, 3, c.Bedrooms)
		assert.Equal(t, 2, c.Bathrooms)
		assert.Equal(t, "Plot 100, Kabulonga", c.Address)
	}
}

func TestSynthesizeComparables_PriceTracksSize(t *testing.T) {
	in := scenarioB()
	const estimate = 1_785_000.0

	for seed := uint64(0); seed < 50; seed++ {
		e := newTestEstimator(rand.New(rand.NewPCG(seed, seed+1)))
		for _, c := range e.SynthesizeComparables(in, estimate) {
			sizeRatio := c.SizeSqm / in.SizeSqm
			priceRatio := c.Price / estimate

			assert.True(t, c.Synthetic)
			assert.InDelta(t, 1.0, sizeRatio, 0.16, "seed %d", seed)
			assert.InDelta(t, 1.0, priceRatio/sizeRatio, 0.06, "seed %d", seed)
			assert.GreaterOrEqual(t, c.Bedrooms, 1)
			assert.GreaterOrEqual(t, c.Bathrooms, 1)
			assert.LessOrEqual(t, c.Bathrooms, c.Bedrooms)
		}
	}
}

func TestSynthesizeComparables_TinyProperty(t *testing.T) {
	e := newTestEstimator(stubRandom{f: 0, n: 0})
	in := scenarioB()
	in.SizeSqm = 1

	for _, c := range e.SynthesizeComparables(in, 8925) {
		assert.Equal(t, 1.0, c.SizeSqm)
		assert.Equal(t, 1, c.Bedrooms)
		assert.Equal(t, 1, c.Bathrooms)
	}
}

func TestEstimator_ConcurrentUse(t *testing.T) {
	e := newTestEstimator(rand.New(rand.NewPCG(3, 4)))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := e.EstimateValue(scenarioB())
			assert.Equal(t, 1_785_000.0, res.EstimatedValue)
			assert.Len(t, res.Comparables, ComparableCount)
		}()
	}
	wg.Wait()
}

func TestNewEstimator_Defaults(t *testing.T) {
	e := NewEstimator(DefaultMarketTables(), nil, nil)
	res := e.EstimateValue(scenarioB())
	assert.Greater(t, res.EstimatedValue, 0.0)
	assert.Len(t, res.Comparables, ComparableCount)
}
