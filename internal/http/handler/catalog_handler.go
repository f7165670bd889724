package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// Cost items

// ListItems godoc
// @Summary List cost items
// @Description Get the cost item catalog, optionally filtered by category or name
// @Tags Catalog
// @Produce json
// @Param categoryId query string false "Filter by category ID"
// @Param search query string false "Search by name"
// @Success 200 {array} domain.CostItemDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items [get]
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		categoryID = &id
	}

	result, err := h.catalogService.ListItems(r.Context(), userCtx, categoryID, r.URL.Query().Get("search"))
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view items")
			return
		}
		h.logger.Error("failed to list cost items", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetItem godoc
// @Summary Get cost item
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} domain.CostItemDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [get]
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	result, err := h.catalogService.GetItem(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view items")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.Error("failed to get cost item", zap.Error(err), zap.String("item_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get item")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateItem godoc
// @Summary Create cost item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CreateCostItemRequest true "Item data"
// @Success 201 {object} domain.CostItemDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items [post]
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateCostItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.catalogService.CreateItem(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to create items")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("failed to create cost item", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// UpdateItem godoc
// @Summary Update cost item
// @Description Change a cost item's name, unit, price or category. Price changes reprice every open quotation that references the item.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body domain.UpdateCostItemRequest true "Item data"
// @Success 200 {object} domain.CostItemDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [put]
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req domain.UpdateCostItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.catalogService.UpdateItem(r.Context(), userCtx, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit items")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.Error("failed to update cost item", zap.Error(err), zap.String("item_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteItem godoc
// @Summary Delete cost item
// @Description Remove a catalog entry. Quotation lines that still reference it price at zero.
// @Tags Catalog
// @Param id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/{id} [delete]
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.catalogService.DeleteItem(r.Context(), userCtx, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to delete items")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.Error("failed to delete cost item", zap.Error(err), zap.String("item_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Categories

// ListCategories godoc
// @Summary List item categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.ItemCategoryDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.catalogService.ListCategories(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view items")
			return
		}
		h.logger.Error("failed to list item categories", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateCategory godoc
// @Summary Create item category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CreateItemCategoryRequest true "Category data"
// @Success 201 {object} domain.ItemCategoryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/categories [post]
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateItemCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.catalogService.CreateCategory(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to create categories")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A category with that name already exists")
			return
		}
		h.logger.Error("failed to create item category", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// UpdateCategory godoc
// @Summary Update item category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body domain.UpdateItemCategoryRequest true "Category data"
// @Success 200 {object} domain.ItemCategoryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req domain.UpdateItemCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.catalogService.UpdateCategory(r.Context(), userCtx, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit categories")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "A category with that name already exists")
			return
		}
		h.logger.Error("failed to update item category", zap.Error(err), zap.String("category_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteCategory godoc
// @Summary Delete item category
// @Description Remove a category. Refused while any cost item still belongs to it.
// @Tags Catalog
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /items/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), userCtx, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to delete categories")
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryInUse) {
			respondWithError(w, http.StatusConflict, "Category still has items")
			return
		}
		h.logger.Error("failed to delete item category", zap.Error(err), zap.String("category_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
