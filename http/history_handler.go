package http

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"homecalc/service"
)

type HistoryHandler struct {
	service *service.HistoryService
	logger  logrus.FieldLogger
}

func NewHistoryHandler(service *service.HistoryService, logger logrus.FieldLogger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: logger}
}

// Recent serves GET /calculations?limit=N.
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, records)
}
