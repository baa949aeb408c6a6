package routes

import (
	"net/http"

	"campuslink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes wires the messaging endpoints. Static paths are
// registered before the dynamic {roomId} match.
func RegisterChatRoutes(r *mux.Router, controller *controllers.ChatController, auth func(http.Handler) http.Handler) {
	chat := r.PathPrefix("/api/messages").Subrouter()
	chat.Use(auth)

	chat.HandleFunc("/intro/{userId}", controller.HandleSendIntro).Methods("POST")
	chat.HandleFunc("/rooms", controller.HandleGetRooms).Methods("GET")
	chat.HandleFunc("/read", controller.HandleMarkRead).Methods("POST")
	chat.HandleFunc("/status/{roomId}", controller.HandleGetStatus).Methods("GET")
	chat.HandleFunc("/clear/{roomId}", controller.HandleClearChat).Methods("DELETE")
	chat.HandleFunc("/{roomId}", controller.HandleGetHistory).Methods("GET")
}
