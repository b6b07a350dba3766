package otp

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/mail"
	"github.com/chatnest/chatnest-server/internal/metrics"
	"github.com/chatnest/chatnest-server/internal/storage"
)

// OTPHandler issues and verifies one-time email codes.
type OTPHandler struct {
	Store  storage.OTPStore
	Sender mail.Sender
	Logger zerolog.Logger
}

func (h *OTPHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error().Err(err).Msg("response write failed")
	}
}

func (h *OTPHandler) fail(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// generateCode returns a random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendOTP issues a fresh code for an email address and mails it out.
func (h *OTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.fail(w, http.StatusBadRequest, "Email is required.")
		return
	}

	code, err := generateCode()
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "Failed to send OTP.")
		return
	}

	if err := h.Store.Put(r.Context(), req.Email, code); err != nil {
		h.Logger.Error().Err(err).Msg("otp store failed")
		h.fail(w, http.StatusInternalServerError, "Failed to send OTP.")
		return
	}

	if err := h.Sender.SendOTP(req.Email, code); err != nil {
		h.Logger.Error().Err(err).Str("email", req.Email).Msg("otp mail failed")
		h.fail(w, http.StatusInternalServerError, "Failed to send OTP.")
		return
	}

	metrics.OTPsIssued.Inc()
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent successfully."})
}

// VerifyOTP checks a submitted code. Codes are single use: a match
// consumes the code, a mismatch leaves it for another attempt until the
// TTL runs out.
func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.Store.Get(r.Context(), req.Email)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if code == "" {
		h.fail(w, http.StatusBadRequest, "No OTP found.")
		return
	}
	if code != req.OTP {
		h.fail(w, http.StatusBadRequest, "Invalid OTP.")
		return
	}

	if err := h.Store.Delete(r.Context(), req.Email); err != nil {
		h.Logger.Warn().Err(err).Msg("otp delete failed")
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OTP verified."})
}
