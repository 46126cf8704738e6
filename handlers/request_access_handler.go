package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"trolleyseal/middleware"
	"trolleyseal/utils"

	"go.uber.org/zap"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9 ._-]{1,100}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	staffPattern    = regexp.MustCompile(`^[A-Za-z0-9-]{1,50}$`)
)

// RequestAccessHandler relays account requests from staff without logins
// to the admin mailbox. It sits outside the auth middleware.
type RequestAccessHandler struct {
	Mailer  *utils.Mailer
	Limiter *middleware.RateLimiter
	Log     *zap.Logger
}

// Request handles POST /api/request-access. Requests are rate limited per
// email address so a stuck scanner or an abusive client cannot flood the
// admin mailbox.
func (h *RequestAccessHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ApiResponse{
			Success: false,
			Message: "Invalid request method",
		})
		return
	}

	var req utils.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.StaffNumber = strings.TrimSpace(req.StaffNumber)

	if msg := validateAccountRequest(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: msg,
		})
		return
	}

	allowed, retryAfter := h.Limiter.Allow(req.Email)
	if !allowed {
		h.Log.Warn("account request rate limited", zap.String("email", req.Email))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter/time.Second)+1))
		writeJSON(w, http.StatusTooManyRequests, ApiResponse{
			Success: false,
			Message: "Too many requests for this email, try again later",
		})
		return
	}

	if err := h.Mailer.SendAccountRequest(req); err != nil {
		h.Log.Error("account request relay failed",
			zap.String("email", req.Email), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, ApiResponse{
			Success: false,
			Message: "Failed to send account request, try again later",
		})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Account request sent. An administrator will contact you.",
	})
}

func validateAccountRequest(req utils.AccountRequest) string {
	if req.Username == "" || !usernamePattern.MatchString(req.Username) {
		return "Username is required and may only contain letters, digits, spaces, dots, underscores and hyphens"
	}
	if req.Email == "" || len(req.Email) > 255 || !emailPattern.MatchString(req.Email) {
		return "A valid email address is required"
	}
	if req.StaffNumber == "" || !staffPattern.MatchString(req.StaffNumber) {
		return "Staff number is required and may only contain letters, digits and hyphens"
	}
	return ""
}
