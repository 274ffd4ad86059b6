package handler

import (
	"log/slog"
	"net/http"

	"github.com/rosterly/backend/internal/service"
)

// CalculatorHandler exposes the savings calculator.
type CalculatorHandler struct {
	calculatorService service.CalculatorService
}

func NewCalculatorHandler(calculatorService service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: calculatorService}
}

// Calculate handles POST /api/calculator/savings. Every field is optional;
// omitted fields take the industry default and out-of-range values are clamped.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req service.CalculationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	calc, err := h.calculatorService.Calculate(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		slog.Error("calculation failed", "industry", req.Industry, "error", err)
		writeError(w, http.StatusInternalServerError, "calculation_failed")
		return
	}

	writeJSON(w, http.StatusOK, calc)
}
