// internal/auth/handlers.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
)

// Handler holds dependencies for auth endpoints
type Handler struct {
	service Service
	log     *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes registers the public auth routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	auth := router.PathPrefix("/api/v1/auth").Subrouter()
	auth.HandleFunc("/telegram", h.TelegramAuth).Methods("POST")
}

// TelegramAuth handles POST /auth/telegram
func (h *Handler) TelegramAuth(w http.ResponseWriter, r *http.Request) {
	var req TelegramAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInitData), errors.Is(err, ErrInitDataExpired):
			utils.ErrorResponse(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, ErrDevLoginDisabled):
			utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
		default:
			h.log.Error("telegram sign in failed", "error", err)
			utils.ErrorResponse(w, "Failed to sign in", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}
