package repository

import (
	"context"
	"errors"

	"homecalc/domain"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("calculation store closed")

type CalculationRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
	Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
	Close() error
}
