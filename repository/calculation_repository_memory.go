package repository

import (
	"context"
	"sync"

	"homecalc/domain"
)

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
// It keeps at most maxRecords entries, dropping the oldest first.
type CalculationRepositoryMemory struct {
	mu         sync.RWMutex
	data       []domain.CalculationRecord
	maxRecords int
	closed     bool
}

// NewCalculationRepositoryMemory creates a new in-memory calculation repository.
func NewCalculationRepositoryMemory(maxRecords int) *CalculationRepositoryMemory {
	if maxRecords <= 0 {
		maxRecords = DefaultHistoryLimit
	}
	return &CalculationRepositoryMemory{
		data:       []domain.CalculationRecord{},
		maxRecords: maxRecords,
	}
}

// Save stores the calculation record in memory.
func (r *CalculationRepositoryMemory) Save(
	_ context.Context,
	record domain.CalculationRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	r.data = append(r.data, record)
	if len(r.data) > r.maxRecords {
		r.data = r.data[len(r.data)-r.maxRecords:]
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *CalculationRepositoryMemory) Recent(
	_ context.Context,
	limit int,
) ([]domain.CalculationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrStoreClosed
	}

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}

	out := make([]domain.CalculationRecord, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

func (r *CalculationRepositoryMemory) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
