package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"homecalc/domain"
	"homecalc/service"
)

type MortgageHandler struct {
	service      *service.MortgageService
	logger       logrus.FieldLogger
	maxBodyBytes int64
}

func NewMortgageHandler(service *service.MortgageService, logger logrus.FieldLogger, maxBodyBytes int64) *MortgageHandler {
	return &MortgageHandler{service: service, logger: logger, maxBodyBytes: maxBodyBytes}
}

func (h *MortgageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.MortgageRequest
	if !decodeJSONBody(w, r, h.maxBodyBytes, &req) {
		return
	}

	result, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *MortgageHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var terms domain.LoanTerms
	if !decodeJSONBody(w, r, h.maxBodyBytes, &terms) {
		return
	}

	result, err := h.service.Schedule(r.Context(), terms)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *MortgageHandler) CompareTerms(w http.ResponseWriter, r *http.Request) {
	var req domain.TermComparisonRequest
	if !decodeJSONBody(w, r, h.maxBodyBytes, &req) {
		return
	}

	result, err := h.service.CompareTerms(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
