package matching

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers matching routes on the authenticated API subrouter
func RegisterRoutes(api *mux.Router, handler *Handler) {
	api.HandleFunc("/likes", handler.Like).Methods("POST")
	api.HandleFunc("/likes/listings", handler.GetLikedListings).Methods("GET")
	api.HandleFunc("/candidates", handler.GetCandidates).Methods("GET")
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
}

// RegisterWebSocket registers /ws behind authenticate
func RegisterWebSocket(router *mux.Router, handler *Handler, authenticate mux.MiddlewareFunc) {
	router.Handle("/ws", authenticate(http.HandlerFunc(handler.WebSocket))).Methods("GET")
}
