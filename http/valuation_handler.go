package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"homecalc/domain"
	"homecalc/service"
)

type ValuationHandler struct {
	service      *service.ValuationService
	logger       logrus.FieldLogger
	maxBodyBytes int64
}

func NewValuationHandler(service *service.ValuationService, logger logrus.FieldLogger, maxBodyBytes int64) *ValuationHandler {
	return &ValuationHandler{service: service, logger: logger, maxBodyBytes: maxBodyBytes}
}

func (h *ValuationHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var input domain.ValuationInput
	if !decodeJSONBody(w, r, h.maxBodyBytes, &input) {
		return
	}

	result, err := h.service.Estimate(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *ValuationHandler) Neighborhoods(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.service.Neighborhoods())
}
