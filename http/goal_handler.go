package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
	"fund-projection/service"
)

type GoalHandler struct {
	service *service.GoalService
	log     logrus.FieldLogger
}

func NewGoalHandler(service *service.GoalService, log logrus.FieldLogger) *GoalHandler {
	return &GoalHandler{service: service, log: log}
}

func (h *GoalHandler) RecommendDeposit(w http.ResponseWriter, r *http.Request) {
	var input domain.GoalInput
	if !decodeJSON(w, r, h.log, &input) {
		return
	}
	input.VarianceTier = normalizeTier(input.VarianceTier)

	result, err := h.service.RecommendDeposit(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}
