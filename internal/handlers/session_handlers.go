package handlers

import (
	"encoding/json"
	"net/http"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/middleware"
	"pin-drop/internal/models"
)

// LoginRequest represents a request to open a device session
type LoginRequest struct {
	Passcode string `json:"passcode"`
}

// LoginResponse represents a response to a login request
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// HandleSessionLogin verifies the device passcode and issues a session
// token. With no passcode configured any login succeeds.
func (s *Server) HandleSessionLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetProfileActor(), &actors.VerifyPasscodeMsg{Passcode: req.Passcode}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to verify passcode", http.StatusInternalServerError)
			return
		}

		if ok, _ := result.(bool); !ok {
			http.Error(w, "Invalid passcode", http.StatusUnauthorized)
			return
		}

		profileFuture := s.Context.RequestFuture(s.Engine.GetProfileActor(), &actors.GetProfileMsg{}, s.RequestTimeout)
		profileResult, err := profileFuture.Result()
		if err != nil {
			http.Error(w, "Failed to get profile", http.StatusInternalServerError)
			return
		}
		profile, _ := profileResult.(models.Profile)

		token, err := middleware.GenerateToken(profile.Username)
		if err != nil {
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, LoginResponse{Token: token, Username: profile.Username})
	}
}
