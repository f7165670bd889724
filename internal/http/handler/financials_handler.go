package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/service"
)

type FinancialsHandler struct {
	financialsService *service.FinancialsService
	logger            *zap.Logger
}

func NewFinancialsHandler(financialsService *service.FinancialsService, logger *zap.Logger) *FinancialsHandler {
	return &FinancialsHandler{
		financialsService: financialsService,
		logger:            logger,
	}
}

// Summary godoc
// @Summary Monthly financial summary
// @Description Revenue, fixed costs, profit and change against the previous month. Defaults to the current month.
// @Tags Financials
// @Produce json
// @Param month query int false "Month (1-12), requires year"
// @Param year query int false "Year, requires month"
// @Success 200 {object} domain.MonthlySummaryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/summary [get]
func (h *FinancialsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var result *domain.MonthlySummaryDTO
	var err error

	monthParam := r.URL.Query().Get("month")
	yearParam := r.URL.Query().Get("year")
	if monthParam != "" || yearParam != "" {
		month, merr := strconv.Atoi(monthParam)
		year, yerr := strconv.Atoi(yearParam)
		if merr != nil || yerr != nil || month < 1 || month > 12 || year < 1 {
			respondWithError(w, http.StatusBadRequest, "month and year must be given together as numbers")
			return
		}
		ref := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		result, err = h.financialsService.MonthlySummaryFor(r.Context(), userCtx, ref)
	} else {
		result, err = h.financialsService.MonthlySummary(r.Context(), userCtx)
	}
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view financials")
			return
		}
		h.logger.Error("failed to build monthly summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Trend godoc
// @Summary Twelve month trend
// @Description Revenue and profit for the trailing twelve months, oldest first
// @Tags Financials
// @Produce json
// @Success 200 {array} domain.TrendPointDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/trend [get]
func (h *FinancialsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.financialsService.Trend(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view financials")
			return
		}
		h.logger.Error("failed to build trend", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build trend")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListFixedCosts godoc
// @Summary List fixed costs
// @Tags Financials
// @Produce json
// @Success 200 {array} domain.FixedCostItemDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/fixed-costs [get]
func (h *FinancialsHandler) ListFixedCosts(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.financialsService.ListFixedCosts(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view financials")
			return
		}
		h.logger.Error("failed to list fixed costs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list fixed costs")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateFixedCost godoc
// @Summary Create fixed cost
// @Tags Financials
// @Accept json
// @Produce json
// @Param request body domain.CreateFixedCostItemRequest true "Fixed cost data"
// @Success 201 {object} domain.FixedCostItemDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/fixed-costs [post]
func (h *FinancialsHandler) CreateFixedCost(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateFixedCostItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.financialsService.CreateFixedCost(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit financials")
			return
		}
		h.logger.Error("failed to create fixed cost", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create fixed cost")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// UpdateFixedCost godoc
// @Summary Update fixed cost
// @Tags Financials
// @Accept json
// @Produce json
// @Param id path string true "Fixed cost ID"
// @Param request body domain.UpdateFixedCostItemRequest true "Fixed cost data"
// @Success 200 {object} domain.FixedCostItemDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/fixed-costs/{id} [put]
func (h *FinancialsHandler) UpdateFixedCost(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid fixed cost ID")
		return
	}

	var req domain.UpdateFixedCostItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.financialsService.UpdateFixedCost(r.Context(), userCtx, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit financials")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Fixed cost not found")
			return
		}
		h.logger.Error("failed to update fixed cost", zap.Error(err), zap.String("fixed_cost_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update fixed cost")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteFixedCost godoc
// @Summary Delete fixed cost
// @Tags Financials
// @Param id path string true "Fixed cost ID"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/fixed-costs/{id} [delete]
func (h *FinancialsHandler) DeleteFixedCost(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid fixed cost ID")
		return
	}

	if err := h.financialsService.DeleteFixedCost(r.Context(), userCtx, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit financials")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Fixed cost not found")
			return
		}
		h.logger.Error("failed to delete fixed cost", zap.Error(err), zap.String("fixed_cost_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete fixed cost")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// GetSettings godoc
// @Summary Pricing settings
// @Description Stored fixed cost contribution percentage and the default profit markup
// @Tags Financials
// @Produce json
// @Success 200 {object} domain.FinanceSettingsDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/settings [get]
func (h *FinancialsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.financialsService.GetSettings(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view financials")
			return
		}
		h.logger.Error("failed to load finance settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UpdateSettings godoc
// @Summary Update pricing settings
// @Tags Financials
// @Accept json
// @Produce json
// @Param request body domain.UpdateFinanceSettingsRequest true "Settings"
// @Success 200 {object} domain.FinanceSettingsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /financials/settings [put]
func (h *FinancialsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.UpdateFinanceSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.financialsService.UpdateSettings(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit financials")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "Contribution percentage must not be negative")
			return
		}
		h.logger.Error("failed to update finance settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
