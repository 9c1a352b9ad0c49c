package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
	"github.com/imadgeboyega/roommate-finder/internal/geo"
	"github.com/imadgeboyega/roommate-finder/internal/models"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
)

// Service is what the handlers need from the engine
type Service interface {
	Like(ctx context.Context, actorID, targetID uuid.UUID, targetType models.TargetType) (*LikeResult, error)
	ComputeCandidates(ctx context.Context, userID uuid.UUID) ([]*models.UserProfile, error)
	ComputeMatches(ctx context.Context, userID uuid.UUID) ([]*models.UserProfile, error)
	ComputeLikedListings(ctx context.Context, userID uuid.UUID) ([]*models.Listing, error)
}

// ProfileFinder resolves the requesting user
type ProfileFinder interface {
	GetMyProfile(ctx context.Context, telegramID int64) (*models.UserProfile, error)
}

// Handler handles like, candidate and match requests
type Handler struct {
	service  Service
	profiles ProfileFinder
	stations geo.StationLookup
	hub      *Hub
	log      *logger.Logger
}

// NewHandler creates a matching handler. hub may be nil, which disables /ws.
func NewHandler(service Service, profiles ProfileFinder, stations geo.StationLookup, hub *Hub, log *logger.Logger) *Handler {
	return &Handler{service: service, profiles: profiles, stations: stations, hub: hub, log: log}
}

// currentUser resolves the caller's profile or writes the error response
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*models.UserProfile, bool) {
	telegramID, ok := utils.TelegramIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	me, err := h.profiles.GetMyProfile(r.Context(), telegramID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.ErrorResponse(w, "Create a profile first", http.StatusNotFound)
			return nil, false
		}
		h.log.Error("resolve profile failed", "telegram_id", telegramID, "error", err)
		utils.ErrorResponse(w, "Failed to resolve profile", http.StatusInternalServerError)
		return nil, false
	}
	return me, true
}

// Like handles POST /likes
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	me, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Like(r.Context(), me.ID, req.TargetID, models.TargetType(req.TargetType))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTargetType), errors.Is(err, ErrCannotLikeSelf):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrTargetNotFound):
			utils.ErrorResponse(w, "Target not found", http.StatusNotFound)
		case errors.Is(err, ErrDuplicateLike):
			utils.ErrorResponse(w, "Already liked", http.StatusConflict)
		case errors.Is(err, ErrRateLimited):
			utils.ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
		default:
			h.log.Error("like failed", "actor_id", me.ID, "target_id", req.TargetID, "error", err)
			utils.ErrorResponse(w, "Failed to like", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, LikeResponse{LikeID: result.Like.ID, IsMatch: result.IsMatch}, http.StatusCreated)
}

// GetCandidates handles GET /candidates. With ?nearby=true the list is
// narrowed to users within both search radii and with overlapping budgets.
func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	me, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	nearby := false
	if v := r.URL.Query().Get("nearby"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			utils.ErrorResponse(w, "Invalid nearby flag", http.StatusBadRequest)
			return
		}
		nearby = b
	}

	candidates, err := h.service.ComputeCandidates(r.Context(), me.ID)
	if err != nil {
		h.log.Error("candidates failed", "profile_id", me.ID, "error", err)
		utils.ErrorResponse(w, "Failed to get candidates", http.StatusInternalServerError)
		return
	}
	if nearby {
		candidates = geo.FilterCandidates(r.Context(), h.stations, candidates, me)
	}

	utils.SuccessResponse(w, CandidatesResponse{
		Candidates: profile.ToPublicList(candidates),
		Count:      len(candidates),
	}, http.StatusOK)
}

// GetMatches handles GET /matches
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	me, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	matches, err := h.service.ComputeMatches(r.Context(), me.ID)
	if err != nil {
		h.log.Error("matches failed", "profile_id", me.ID, "error", err)
		utils.ErrorResponse(w, "Failed to get matches", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, MatchesResponse{Matches: matches, Count: len(matches)}, http.StatusOK)
}

// GetLikedListings handles GET /likes/listings
func (h *Handler) GetLikedListings(w http.ResponseWriter, r *http.Request) {
	me, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	listings, err := h.service.ComputeLikedListings(r.Context(), me.ID)
	if err != nil {
		h.log.Error("liked listings failed", "profile_id", me.ID, "error", err)
		utils.ErrorResponse(w, "Failed to get liked listings", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, LikedListingsResponse{Listings: listings, Count: len(listings)}, http.StatusOK)
}

// WebSocket handles GET /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		utils.ErrorResponse(w, "Realtime updates are disabled", http.StatusNotFound)
		return
	}
	me, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	h.hub.ServeWS(w, r, me.ID)
}
