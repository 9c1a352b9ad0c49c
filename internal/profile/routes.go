package profile

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers profile routes on the authenticated API subrouter
func RegisterRoutes(api *mux.Router, handler *Handler) {
	api.HandleFunc("/profile", handler.CreateProfile).Methods("POST")
	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/users/{id}", handler.GetUserProfile).Methods("GET")
}
