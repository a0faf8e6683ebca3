package service

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"homecalc/domain"
)

// AgeBand applies Multiplier to properties whose age falls in [MinAge, MaxAge).
// MaxAge 0 means the band has no upper bound.
type AgeBand struct {
	MinAge     int     `yaml:"min_age" json:"minAge"`
	MaxAge     int     `yaml:"max_age" json:"maxAge"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

func (b AgeBand) contains(age int) bool {
	return age >= b.MinAge && (b.MaxAge == 0 || age < b.MaxAge)
}

type AmenityMultipliers struct {
	Pool              float64 `yaml:"pool"`
	Garage            float64 `yaml:"garage"`
	Garden            float64 `yaml:"garden"`
	RecentRenovations float64 `yaml:"recent_renovations"`
}

// MarketTables holds every rate and adjustment factor the estimator reads.
// Tables are treated as immutable once handed to an Estimator.
type MarketTables struct {
	Default       domain.NeighborhoodRate
	Neighborhoods map[string]domain.NeighborhoodRate // keyed by neighborhoodKey(name)
	PropertyTypes map[domain.PropertyType]float64
	Conditions    map[domain.Condition]float64
	Amenities     AmenityMultipliers
	AgeBands      []AgeBand
	// BandWidth is the fraction added and subtracted around the estimate. It is a
	// fixed presentation band, not a statistical confidence interval.
	BandWidth float64
}

func neighborhoodKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the rate for name, or the default rate and false when the
// neighborhood is not in the table.
func (t MarketTables) Lookup(name string) (domain.NeighborhoodRate, bool) {
	if rate, ok := t.Neighborhoods[neighborhoodKey(name)]; ok {
		return rate, true
	}
	return t.Default, false
}

// NeighborhoodList returns the table rows sorted by name.
func (t MarketTables) NeighborhoodList() []domain.NeighborhoodRate {
	out := make([]domain.NeighborhoodRate, 0, len(t.Neighborhoods))
	for _, rate := range t.Neighborhoods {
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t MarketTables) ageMultiplier(age int) float64 {
	if age < 0 {
		age = 0
	}
	for _, band := range t.AgeBands {
		if band.contains(age) {
			return band.Multiplier
		}
	}
	return 1.0
}

// positiveFinite rejects zero, negatives, NaN and ±Inf.
func positiveFinite(v float64) bool {
	return isFinite(v) && v > 0
}

func (t MarketTables) Validate() error {
	if !positiveFinite(t.Default.AvgPricePerSqm) {
		return errors.New("default price per sqm must be positive")
	}
	if t.Default.Trend != domain.TrendStable {
		return errors.New("default trend must be stable")
	}
	for key, rate := range t.Neighborhoods {
		if !positiveFinite(rate.AvgPricePerSqm) {
			return fmt.Errorf("neighborhood %q: price per sqm must be positive", key)
		}
		if !isFinite(rate.TrendPercent) {
			return fmt.Errorf("neighborhood %q: trend percent must be finite", key)
		}
		if !rate.Trend.IsValid() {
			return fmt.Errorf("neighborhood %q: unknown trend %q", key, rate.Trend)
		}
	}
	for pt, m := range t.PropertyTypes {
		if !pt.IsValid() || !positiveFinite(m) {
			return fmt.Errorf("property type %q: invalid multiplier %v", pt, m)
		}
	}
	for c, m := range t.Conditions {
		if !c.IsValid() || !positiveFinite(m) {
			return fmt.Errorf("condition %q: invalid multiplier %v", c, m)
		}
	}
	a := t.Amenities
	if !positiveFinite(a.Pool) || !positiveFinite(a.Garage) || !positiveFinite(a.Garden) || !positiveFinite(a.RecentRenovations) {
		return errors.New("amenity multipliers must be positive")
	}
	for i, band := range t.AgeBands {
		if !positiveFinite(band.Multiplier) {
			return fmt.Errorf("age band %d: multiplier must be positive", i)
		}
		if band.MaxAge != 0 && band.MaxAge <= band.MinAge {
			return fmt.Errorf("age band %d: max_age must exceed min_age", i)
		}
		if i == 0 {
			continue
		}
		prev := t.AgeBands[i-1]
		if band.MinAge < prev.MinAge {
			return fmt.Errorf("age band %d: bands must be sorted by min_age", i)
		}
		if prev.MaxAge == 0 || band.MinAge < prev.MaxAge {
			return fmt.Errorf("age band %d: overlaps the previous band", i)
		}
	}
	if !(t.BandWidth > 0 && t.BandWidth < 1) {
		return errors.New("band width must be in (0, 1)")
	}
	return nil
}

// DefaultMarketTables returns the built-in Lusaka rate table. The age bands and
// multipliers are demo values, not figures validated against market data.
func DefaultMarketTables() MarketTables {
	rates := []domain.NeighborhoodRate{
		{Name: "Kabulonga", AvgPricePerSqm: 8500, Trend: domain.TrendUp, TrendPercent: 5.2},
		{Name: "Rhodes Park", AvgPricePerSqm: 9200, Trend: domain.TrendUp, TrendPercent: 4.1},
		{Name: "Leopards Hill", AvgPricePerSqm: 9000, Trend: domain.TrendUp, TrendPercent: 4.8},
		{Name: "Ibex Hill", AvgPricePerSqm: 7800, Trend: domain.TrendUp, TrendPercent: 6.0},
		{Name: "Woodlands", AvgPricePerSqm: 7200, Trend: domain.TrendUp, TrendPercent: 3.5},
		{Name: "Roma", AvgPricePerSqm: 6800, Trend: domain.TrendStable, TrendPercent: 1.2},
		{Name: "Olympia", AvgPricePerSqm: 6500, Trend: domain.TrendDown, TrendPercent: -1.2},
		{Name: "Kalundu", AvgPricePerSqm: 6200, Trend: domain.TrendStable, TrendPercent: 1.5},
		{Name: "Avondale", AvgPricePerSqm: 5600, Trend: domain.TrendUp, TrendPercent: 2.4},
		{Name: "Meanwood", AvgPricePerSqm: 5200, Trend: domain.TrendUp, TrendPercent: 7.5},
		{Name: "Chelstone", AvgPricePerSqm: 3800, Trend: domain.TrendStable, TrendPercent: 0.8},
	}

	neighborhoods := make(map[string]domain.NeighborhoodRate, len(rates))
	for _, r := range rates {
		neighborhoods[neighborhoodKey(r.Name)] = r
	}

	return MarketTables{
		Default: domain.NeighborhoodRate{
			Name:           "default",
			AvgPricePerSqm: 5000,
			Trend:          domain.TrendStable,
		},
		Neighborhoods: neighborhoods,
		PropertyTypes: map[domain.PropertyType]float64{
			domain.PropertyHouse:     1.00,
			domain.PropertyTownhouse: 0.95,
			domain.PropertyCondo:     0.90,
			domain.PropertyApartment: 0.85,
		},
		Conditions: map[domain.Condition]float64{
			domain.ConditionExcellent: 1.15,
			domain.ConditionGood:      1.05,
			domain.ConditionFair:      0.95,
			domain.ConditionPoor:      0.85,
		},
		Amenities: AmenityMultipliers{
			Pool:              1.08,
			Garage:            1.05,
			Garden:            1.03,
			RecentRenovations: 1.10,
		},
		AgeBands: []AgeBand{
			{MinAge: 0, MaxAge: 5, Multiplier: 1.10},
			{MinAge: 5, MaxAge: 21, Multiplier: 1.00},
			{MinAge: 21, MaxAge: 31, Multiplier: 0.95},
			{MinAge: 31, Multiplier: 0.85},
		},
		BandWidth: 0.10,
	}
}

// marketTablesFile is the YAML layout of a rate table file.
type marketTablesFile struct {
	Default       *domain.NeighborhoodRate  `yaml:"default"`
	Neighborhoods []domain.NeighborhoodRate `yaml:"neighborhoods"`
	PropertyTypes map[string]float64        `yaml:"property_types"`
	Conditions    map[string]float64        `yaml:"conditions"`
	Amenities     *AmenityMultipliers       `yaml:"amenities"`
	AgeBands      []AgeBand                 `yaml:"age_bands"`
	BandWidth     *float64                  `yaml:"band_width"`
}

// LoadMarketTables reads a YAML rate table. Sections missing from the file keep
// the built-in defaults; a neighborhoods section replaces the default list.
func LoadMarketTables(path string) (MarketTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MarketTables{}, fmt.Errorf("read market tables: %w", err)
	}
	return ParseMarketTables(data)
}

func ParseMarketTables(data []byte) (MarketTables, error) {
	var file marketTablesFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return MarketTables{}, fmt.Errorf("parse market tables: %w", err)
	}

	tables := DefaultMarketTables()

	if file.Default != nil {
		tables.Default = *file.Default
		if tables.Default.Name == "" {
			tables.Default.Name = "default"
		}
		if tables.Default.Trend == "" {
			tables.Default.Trend = domain.TrendStable
		}
	}
	if len(file.Neighborhoods) > 0 {
		tables.Neighborhoods = make(map[string]domain.NeighborhoodRate, len(file.Neighborhoods))
		for _, r := range file.Neighborhoods {
			key := neighborhoodKey(r.Name)
			if key == "" {
				return MarketTables{}, errors.New("neighborhood name must not be empty")
			}
			if _, dup := tables.Neighborhoods[key]; dup {
				return MarketTables{}, fmt.Errorf("duplicate neighborhood %q", r.Name)
			}
			if r.Trend == "" {
				r.Trend = domain.TrendStable
			}
			tables.Neighborhoods[key] = r
		}
	}
	for name, m := range file.PropertyTypes {
		tables.PropertyTypes[domain.PropertyType(name).Normalize()] = m
	}
	for name, m := range file.Conditions {
		tables.Conditions[domain.Condition(name).Normalize()] = m
	}
	if a := file.Amenities; a != nil {
		if a.Pool != 0 {
			tables.Amenities.Pool = a.Pool
		}
		if a.Garage != 0 {
			tables.Amenities.Garage = a.Garage
		}
		if a.Garden != 0 {
			tables.Amenities.Garden = a.Garden
		}
		if a.RecentRenovations != 0 {
			tables.Amenities.RecentRenovations = a.RecentRenovations
		}
	}
	if len(file.AgeBands) > 0 {
		tables.AgeBands = file.AgeBands
	}
	if file.BandWidth != nil {
		tables.BandWidth = *file.BandWidth
	}

	if err := tables.Validate(); err != nil {
		return MarketTables{}, fmt.Errorf("invalid market tables: %w", err)
	}
	return tables, nil
}
