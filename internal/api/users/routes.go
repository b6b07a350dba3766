package users

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the auth/user endpoints under /api/auth.
func RegisterRoutes(r *mux.Router, handler *UserHandler) {
	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/register", handler.Register).Methods(http.MethodPost)
	sub.HandleFunc("/login", handler.Login).Methods(http.MethodPost)
	sub.HandleFunc("/setavatar/{id}", handler.SetAvatar).Methods(http.MethodPost)
	sub.HandleFunc("/allusers/{id}", handler.AllUsers).Methods(http.MethodGet)
}
