package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homecalc/domain"
	"homecalc/repository"
)

const (
	DefaultHistoryPage = 20
	MaxHistoryPage     = 100
)

// HistoryService saves calculator invocations and lists recent ones.
type HistoryService struct {
	repo   repository.CalculationRepository
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewHistoryService(repo repository.CalculationRepository, logger logrus.FieldLogger) *HistoryService {
	return &HistoryService{repo: repo, logger: logger, now: time.Now}
}

// Record saves one calculation. Failures are logged and swallowed: history is
// not part of the calculation contract.
func (h *HistoryService) Record(ctx context.Context, kind domain.CalculationKind, input, result any) string {
	id := uuid.New().String()
	log := h.logger.WithFields(logrus.Fields{"calculation_id": id, "kind": kind})

	inputJSON, err := json.Marshal(input)
	if err != nil {
		log.WithError(err).Warn("failed to encode calculation input")
		return ""
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Warn("failed to encode calculation result")
		return ""
	}

	record := domain.CalculationRecord{
		ID:        id,
		Kind:      kind,
		Input:     inputJSON,
		Result:    resultJSON,
		CreatedAt: h.now().UTC(),
	}
	if err := h.repo.Save(ctx, record); err != nil {
		log.WithError(err).Warn("failed to save calculation")
		return ""
	}

	log.Debug("calculation saved")
	return id
}

// Recent lists the newest calculations. A zero limit uses DefaultHistoryPage.
func (h *HistoryService) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit == 0 {
		limit = DefaultHistoryPage
	}
	if limit < 0 || limit > MaxHistoryPage {
		return nil, invalidf("limit must be between 1 and %d", MaxHistoryPage)
	}

	records, err := h.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return records, nil
}
