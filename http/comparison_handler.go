package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
	"fund-projection/service"
)

type ComparisonHandler struct {
	service *service.ComparisonService
	log     logrus.FieldLogger
}

func NewComparisonHandler(service *service.ComparisonService, log logrus.FieldLogger) *ComparisonHandler {
	return &ComparisonHandler{service: service, log: log}
}

func (h *ComparisonHandler) CompareTiers(w http.ResponseWriter, r *http.Request) {
	var params domain.SimulationParameters
	if !decodeJSON(w, r, h.log, &params) {
		return
	}

	result, err := h.service.CompareTiers(r.Context(), params, wantsExplanation(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
