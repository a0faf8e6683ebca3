package domain

import (
	"encoding/json"
	"time"
)

type CalculationKind string

const (
	KindMortgage       CalculationKind = "mortgage"
	KindSchedule       CalculationKind = "schedule"
	KindTermComparison CalculationKind = "term_comparison"
	KindValuation      CalculationKind = "valuation"
)

// CalculationRecord is a saved calculator invocation. Input and Result hold the
// JSON documents of the request and the response.
type CalculationRecord struct {
	ID        string          `json:"id"`
	Kind      CalculationKind `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
