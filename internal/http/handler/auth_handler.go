package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a signed bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me godoc
// @Summary Current user
// @Description Get the authenticated user's own account
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	result, err := h.userService.Me(r.Context(), userCtx)
	if err != nil {
		h.logger.Error("failed to load current user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Change own name, email and optionally password. Requires the current password; a wrong one rejects the whole update.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), userCtx, &req)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			respondWithError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email address is already in use")
			return
		}
		h.logger.Error("failed to update profile", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
