package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"fund-projection/domain"
	"fund-projection/report"
	"fund-projection/service"
)

type ProjectionHandler struct {
	service   *service.ProjectionService
	explainer *service.ExplanationService
	money     report.MoneyFormatter
	log       logrus.FieldLogger
}

func NewProjectionHandler(
	service *service.ProjectionService,
	explainer *service.ExplanationService,
	money report.MoneyFormatter,
	log logrus.FieldLogger,
) *ProjectionHandler {
	return &ProjectionHandler{service: service, explainer: explainer, money: money, log: log}
}

// CalculateProjection returns the monthly series and both summaries. A
// validation failure still answers in the same shape, with empty records,
// zero summaries and the message in "error".
func (h *ProjectionHandler) CalculateProjection(w http.ResponseWriter, r *http.Request) {
	var params domain.SimulationParameters
	if !decodeJSON(w, r, h.log, &params) {
		return
	}
	params.VarianceTier = normalizeTier(params.VarianceTier)

	result, err := h.service.CalculateProjection(r.Context(), params)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidParameters) {
			writeServiceError(w, h.log, err)
			return
		}
		writeJSON(w, h.log, http.StatusBadRequest, domain.ProjectionResponse{
			SimulationResult: domain.SimulationResult{Records: []domain.MonthlyRecord{}},
			Error:            err.Error(),
		})
		return
	}

	response := domain.ProjectionResponse{SimulationResult: result}
	if wantsExplanation(r) && h.explainer != nil {
		response.Explanation = h.explainer.ExplainProjection(r.Context(), params, result)
	}
	writeJSON(w, h.log, http.StatusOK, response)
}

// Report renders the projection as a PDF.
func (h *ProjectionHandler) Report(w http.ResponseWriter, r *http.Request) {
	var params domain.SimulationParameters
	if !decodeJSON(w, r, h.log, &params) {
		return
	}
	params.VarianceTier = normalizeTier(params.VarianceTier)

	result, err := h.service.CalculateProjection(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	pdf, err := report.GenerateProjectionPDF(params, result, h.money)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="projection.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	if _, err := w.Write(pdf); err != nil {
		h.log.WithError(err).Warn("error writing report")
	}
}

// Shocks lists the scripted market events, optionally for one tier.
func (h *ProjectionHandler) Shocks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	windows := service.ShockSchedule()
	if raw := r.URL.Query().Get("tier"); raw != "" {
		tier, ok := domain.ParseVarianceTier(raw)
		if !ok {
			http.Error(w, "unknown variance tier", http.StatusBadRequest)
			return
		}
		windows = service.ShockScheduleForTier(tier)
	}
	writeJSON(w, h.log, http.StatusOK, windows)
}

// History lists recent calculations, newest first.
func (h *ProjectionHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	history := h.service.History(limit)
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	writeJSON(w, h.log, http.StatusOK, history)
}
