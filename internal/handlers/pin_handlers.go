package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/models"
	"pin-drop/internal/schema"
	"pin-drop/internal/utils"
	"pin-drop/internal/visibility"
)

// UpdatePinRequest represents a shallow-merge edit of an existing pin.
// Omitted fields are left untouched.
type UpdatePinRequest struct {
	ID          string            `json:"id"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Photos      []string          `json:"photos"`
	Categories  []models.Category `json:"categories"`
	Coords      *models.Coords    `json:"coords"`
	Privacy     *models.Privacy   `json:"privacy"`
}

// LikeRequest represents a request to toggle the viewer's like on a pin
type LikeRequest struct {
	ID string `json:"id"`
}

// CommentRequest represents a request to add a comment to a pin
type CommentRequest struct {
	PinID string `json:"pinId"`
	User  string `json:"user"`
	Text  string `json:"text"`
}

// HandlePin handles single-pin operations: create, fetch, edit, delete
func (s *Server) HandlePin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			// Create a new pin. The body is the raw client shape; the actor
			// validates it and fills in id/title/createdAt defaults.
			var raw schema.RawPin
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.AddPinMsg{Raw: raw}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to create pin: %v", err), http.StatusInternalServerError)
				return
			}

			if appErr, ok := result.(*utils.AppError); ok {
				writeAppError(w, appErr)
				return
			}

			writeJSON(w, result)

		case http.MethodGet:
			pinID := r.URL.Query().Get("id")
			if pinID == "" {
				http.Error(w, "Pin ID required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.GetPinMsg{ID: pinID}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to get pin: %v", err), http.StatusInternalServerError)
				return
			}

			if appErr, ok := result.(*utils.AppError); ok {
				writeAppError(w, appErr)
				return
			}

			writeJSON(w, result)

		case http.MethodPut:
			var req UpdatePinRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if req.ID == "" {
				http.Error(w, "Pin ID required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.UpdatePinMsg{
				ID: req.ID,
				Changes: actors.PinChanges{
					Title:       req.Title,
					Description: req.Description,
					Photos:      req.Photos,
					Categories:  req.Categories,
					Coords:      req.Coords,
					Privacy:     req.Privacy,
				},
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to update pin: %v", err), http.StatusInternalServerError)
				return
			}

			writeJSON(w, map[string]interface{}{"updated": result})

		case http.MethodDelete:
			pinID := r.URL.Query().Get("id")
			if pinID == "" {
				http.Error(w, "Pin ID required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.RemovePinMsg{ID: pinID}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to remove pin: %v", err), http.StatusInternalServerError)
				return
			}

			writeJSON(w, map[string]interface{}{"removed": result})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePins lists pins visible to the viewer, most recent first. Optional
// query parameters: scope (all|private|friends|public|following) and search.
// DELETE clears the whole store.
func (s *Server) HandlePins() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			scope := visibility.Scope(r.URL.Query().Get("scope"))
			if scope == "" {
				scope = visibility.ScopeAll
			}
			if !visibility.ValidScope(scope) {
				http.Error(w, "Unknown scope", http.StatusBadRequest)
				return
			}
			search := r.URL.Query().Get("search")

			view, err := s.socialView()
			if err != nil {
				http.Error(w, "Failed to resolve viewer", http.StatusInternalServerError)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.ListPinsMsg{}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to list pins", http.StatusInternalServerError)
				return
			}
			pins, ok := result.([]models.Pin)
			if !ok {
				http.Error(w, "Failed to list pins", http.StatusInternalServerError)
				return
			}

			visible := visibility.FilterVisible(pins, view.Me, view.Following, scope, search)
			if visible == nil {
				visible = []models.Pin{}
			}
			writeJSON(w, visible)

		case http.MethodDelete:
			future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.ClearPinsMsg{}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to clear pins", http.StatusInternalServerError)
				return
			}
			writeJSON(w, map[string]interface{}{"cleared": result})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleLike toggles the viewer's like on a pin
func (s *Server) HandleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			http.Error(w, "Pin ID required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.ToggleLikeMsg{ID: req.ID}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to toggle like: %v", err), http.StatusInternalServerError)
			return
		}

		if found, ok := result.(bool); ok && !found {
			http.Error(w, "Pin not found", http.StatusNotFound)
			return
		}

		writeJSON(w, result)
	}
}

// HandleComment adds a comment to a pin. An empty user falls back to the
// viewer's username.
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.PinID == "" {
			http.Error(w, "Pin ID required", http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, "Comment text required", http.StatusBadRequest)
			return
		}

		if req.User == "" {
			view, err := s.socialView()
			if err != nil {
				http.Error(w, "Failed to resolve viewer", http.StatusInternalServerError)
				return
			}
			req.User = view.Me
		}

		future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.AddCommentMsg{
			PinID: req.PinID,
			User:  req.User,
			Text:  req.Text,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to add comment: %v", err), http.StatusInternalServerError)
			return
		}

		if found, ok := result.(bool); ok && !found {
			http.Error(w, "Pin not found", http.StatusNotFound)
			return
		}

		writeJSON(w, result)
	}
}
