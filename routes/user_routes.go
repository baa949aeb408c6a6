package routes

import (
	"net/http"

	"campuslink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes wires profile lookup and the connection lifecycle.
func RegisterUserRoutes(r *mux.Router, connections *controllers.ConnectionController, profiles *controllers.UserProfileController, auth func(http.Handler) http.Handler) {
	users := r.PathPrefix("/api/users").Subrouter()
	users.Use(auth)

	users.HandleFunc("/me/requests", connections.HandleGetRequests).Methods("GET")
	users.HandleFunc("/{id}/connect", connections.HandleConnect).Methods("POST")
	users.HandleFunc("/{id}/accept", connections.HandleAccept).Methods("POST")
	users.HandleFunc("/{id}/decline", connections.HandleDecline).Methods("POST")
	users.HandleFunc("/{id}", profiles.HandleGetUser).Methods("GET")
}
