package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/models"
	"pin-drop/internal/utils"
)

// UpdateProfileRequest carries the editable profile fields. Omitted fields
// are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Username    *string `json:"username"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email"`
}

// PasscodeRequest sets or clears the optional device passcode
type PasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// HandleProfile handles viewer profile reads and edits
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			future := s.Context.RequestFuture(s.Engine.GetProfileActor(), &actors.GetProfileMsg{}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to get profile", http.StatusInternalServerError)
				return
			}
			writeJSON(w, result)

		case http.MethodPut:
			var req UpdateProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			// Apply each provided field through its own message so the
			// actor's per-field rules (re-slugging, normalization) run.
			var profile models.Profile
			apply := func(msg interface{}) bool {
				future := s.Context.RequestFuture(s.Engine.GetProfileActor(), msg, s.RequestTimeout)
				result, err := future.Result()
				if err != nil {
					http.Error(w, fmt.Sprintf("Failed to update profile: %v", err), http.StatusInternalServerError)
					return false
				}
				if appErr, ok := result.(*utils.AppError); ok {
					writeAppError(w, appErr)
					return false
				}
				if p, ok := result.(models.Profile); ok {
					profile = p
				}
				return true
			}

			if req.DisplayName != nil && !apply(&actors.SetDisplayNameMsg{Name: *req.DisplayName}) {
				return
			}
			if req.Username != nil && !apply(&actors.SetUsernameMsg{Username: *req.Username}) {
				return
			}
			if req.Bio != nil && !apply(&actors.SetBioMsg{Bio: *req.Bio}) {
				return
			}
			if req.Email != nil && !apply(&actors.SetEmailMsg{Email: *req.Email}) {
				return
			}

			if profile.Username == "" {
				// Nothing was provided; answer with current state.
				future := s.Context.RequestFuture(s.Engine.GetProfileActor(), &actors.GetProfileMsg{}, s.RequestTimeout)
				result, err := future.Result()
				if err != nil {
					http.Error(w, "Failed to get profile", http.StatusInternalServerError)
					return
				}
				if p, ok := result.(models.Profile); ok {
					profile = p
				}
			}

			writeJSON(w, profile)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePasscode sets or clears the device passcode gating session login
func (s *Server) HandlePasscode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req PasscodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetProfileActor(), &actors.SetPasscodeMsg{Passcode: req.Passcode}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to set passcode: %v", err), http.StatusInternalServerError)
			return
		}

		if appErr, ok := result.(*utils.AppError); ok {
			writeAppError(w, appErr)
			return
		}

		writeJSON(w, map[string]interface{}{"updated": result})
	}
}
