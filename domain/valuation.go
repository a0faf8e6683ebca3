package domain

import "strings"

type PropertyType string

const (
	PropertyHouse     PropertyType = "HOUSE"
	PropertyApartment PropertyType = "APARTMENT"
	PropertyCondo     PropertyType = "CONDO"
	PropertyTownhouse PropertyType = "TOWNHOUSE"
)

// ValidPropertyTypes is the set of accepted property types.
var ValidPropertyTypes = []PropertyType{PropertyHouse, PropertyApartment, PropertyCondo, PropertyTownhouse}

// IsValid checks if a property type is recognized.
func (p PropertyType) IsValid() bool {
	for _, v := range ValidPropertyTypes {
		if p == v {
			return true
		}
	}
	return false
}

// Normalize upper-cases the value so "house" and "HOUSE" are the same type.
func (p PropertyType) Normalize() PropertyType {
	return PropertyType(strings.ToUpper(strings.TrimSpace(string(p))))
}

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

var ValidConditions = []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}

func (c Condition) IsValid() bool {
	for _, v := range ValidConditions {
		if c == v {
			return true
		}
	}
	return false
}

func (c Condition) Normalize() Condition {
	return Condition(strings.ToLower(strings.TrimSpace(string(c))))
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

func (t Trend) IsValid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

type ValuationInput struct {
	Neighborhood      string       `json:"neighborhood"`
	PropertyType      PropertyType `json:"propertyType"`
	SizeSqm           float64      `json:"sizeSqm"`
	YearBuilt         int          `json:"yearBuilt"`
	Condition         Condition    `json:"condition"`
	HasPool           bool         `json:"hasPool"`
	HasGarage         bool         `json:"hasGarage"`
	HasGarden         bool         `json:"hasGarden"`
	RecentRenovations bool         `json:"recentRenovations"`
}

// Comparable is a generated sale used for display next to an estimate.
// It never comes from real transaction data; Synthetic is always true.
type Comparable struct {
	Address   string  `json:"address"`
	Price     float64 `json:"price"`
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	SizeSqm   float64 `json:"sizeSqm"`
	SoldAgo   string  `json:"soldAgo"`
	Synthetic bool    `json:"synthetic"`
}

type ValuationResult struct {
	EstimatedValue       float64      `json:"estimatedValue"`
	LowEstimate          float64      `json:"lowEstimate"`
	HighEstimate         float64      `json:"highEstimate"`
	PricePerSqm          float64      `json:"pricePerSqm"`
	MarketTrend          Trend        `json:"marketTrend"`
	TrendPercent         float64      `json:"trendPercent"`
	NeighborhoodFallback bool         `json:"neighborhoodFallback"`
	Comparables          []Comparable `json:"comparables"`
}

// NeighborhoodRate is one row of a market rate table.
type NeighborhoodRate struct {
	Name           string  `json:"name" yaml:"name"`
	AvgPricePerSqm float64 `json:"avgPricePerSqm" yaml:"avg_price_per_sqm"`
	Trend          Trend   `json:"trend" yaml:"trend"`
	TrendPercent   float64 `json:"trendPercent" yaml:"trend_percent"`
}
