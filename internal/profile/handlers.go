//internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
	log     *logger.Logger
}

// NewHandler creates a new profile handler
func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// CreateProfile handles POST /profile
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := utils.TelegramIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.CreateProfile(r.Context(), telegramID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create profile")
		return
	}

	utils.SuccessResponse(w, p, http.StatusCreated)
}

// GetMyProfile handles GET /profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := utils.TelegramIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	p, err := h.service.GetMyProfile(r.Context(), telegramID)
	if err != nil {
		h.writeError(w, err, "Failed to get profile")
		return
	}

	utils.SuccessResponse(w, p, http.StatusOK)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := utils.TelegramIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), telegramID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update profile")
		return
	}

	utils.SuccessResponse(w, p, http.StatusOK)
}

// GetUserProfile handles GET /users/{id}. Contact details stay hidden.
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	p, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get profile")
		return
	}

	utils.SuccessResponse(w, ToPublic(p), http.StatusOK)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var invalidErr *InvalidProfileError
	switch {
	case errors.As(err, &invalidErr):
		utils.ErrorResponse(w, invalidErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrProfileNotFound):
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, ErrProfileExists):
		utils.ErrorResponse(w, "Profile already exists", http.StatusConflict)
	default:
		h.log.Error(fallback, "error", err)
		utils.ErrorResponse(w, fallback, http.StatusInternalServerError)
	}
}
