package messages

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the message endpoints under /api/messages.
func RegisterRoutes(r *mux.Router, handler *MessageHandler) {
	sub := r.PathPrefix("/api/messages").Subrouter()
	sub.HandleFunc("/addmsg", handler.AddMessage).Methods(http.MethodPost)
	sub.HandleFunc("/getmsg", handler.GetMessages).Methods(http.MethodPost)
	sub.HandleFunc("/deletemessages", handler.DeleteMessages).Methods(http.MethodDelete)
	sub.HandleFunc("/voice", handler.AddVoiceMessage).Methods(http.MethodPost)
}
