package otp

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the OTP endpoints under /api/otp.
func RegisterRoutes(r *mux.Router, handler *OTPHandler) {
	sub := r.PathPrefix("/api/otp").Subrouter()
	sub.HandleFunc("/send-otp", handler.SendOTP).Methods(http.MethodPost)
	sub.HandleFunc("/verify-otp", handler.VerifyOTP).Methods(http.MethodPost)
}
