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

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.userService.List(r.Context(), userCtx)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view users")
			return
		}
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.userService.GetByID(r.Context(), userCtx, id)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to view users")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to get user", zap.Error(err), zap.String("user_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create a user
// @Description Create an account. Permissions default to the role's matrix when omitted.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "User data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.userService.Create(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to create users")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email address is already in use")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Update godoc
// @Summary Update a user
// @Description Replace an account's fields. A role change without explicit permissions resets them to the new role's defaults.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body domain.UpdateUserRequest true "User data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.userService.Update(r.Context(), userCtx, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to edit users")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email address is already in use")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "Unknown role")
			return
		}
		h.logger.Error("failed to update user", zap.Error(err), zap.String("user_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a user
// @Description Remove an account. Self-deletion is refused, as is deleting a user who still owns jobs.
// @Tags Users
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(r.Context(), userCtx, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions to delete users")
			return
		}
		if errors.Is(err, service.ErrSelfDelete) {
			respondWithError(w, http.StatusConflict, "You cannot delete your own account")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "User still owns jobs")
			return
		}
		h.logger.Error("failed to delete user", zap.Error(err), zap.String("user_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
