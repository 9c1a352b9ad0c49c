package listing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// Handler handles listing HTTP requests
type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// GetNearby handles GET /listings
func (h *Handler) GetNearby(w http.ResponseWriter, r *http.Request) {
	telegramID, ok := utils.TelegramIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.service.Nearby(r.Context(), telegramID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.ErrorResponse(w, "Create a profile first", http.StatusNotFound)
			return
		}
		h.log.Error("nearby listings failed", "error", err)
		utils.ErrorResponse(w, "Failed to get listings", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

// GetListing handles GET /listings/{id}
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	l, err := h.service.GetListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			utils.ErrorResponse(w, "Listing not found", http.StatusNotFound)
			return
		}
		h.log.Error("get listing failed", "listing_id", id, "error", err)
		utils.ErrorResponse(w, "Failed to get listing", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, l, http.StatusOK)
}

// RegisterRoutes registers listing routes on the authenticated API subrouter
func RegisterRoutes(api *mux.Router, handler *Handler) {
	api.HandleFunc("/listings", handler.GetNearby).Methods("GET")
	api.HandleFunc("/listings/{id}", handler.GetListing).Methods("GET")
}
