package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/utils"
)

// FollowRequest represents a follow or unfollow action
type FollowRequest struct {
	Username string `json:"username"`
}

// HandleFollow handles follow state operations: POST follows, DELETE
// unfollows, GET answers whether the viewer follows the given username.
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			username := r.URL.Query().Get("username")
			if username == "" {
				http.Error(w, "Username required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.IsFollowingMsg{Username: username}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to get follow state", http.StatusInternalServerError)
				return
			}
			writeJSON(w, map[string]interface{}{"username": username, "following": result})

		case http.MethodPost:
			var req FollowRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.FollowMsg{Username: req.Username}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to follow: %v", err), http.StatusInternalServerError)
				return
			}

			if appErr, ok := result.(*utils.AppError); ok {
				writeAppError(w, appErr)
				return
			}

			writeJSON(w, map[string]interface{}{"following": result})

		case http.MethodDelete:
			var req FollowRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.UnfollowMsg{Username: req.Username}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to unfollow: %v", err), http.StatusInternalServerError)
				return
			}

			writeJSON(w, map[string]interface{}{"unfollowed": result})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleFollowers returns the follower list and count for a user
func (s *Server) HandleFollowers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "Username required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.GetFollowersMsg{Username: username}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get followers", http.StatusInternalServerError)
			return
		}

		followers, ok := result.([]string)
		if !ok {
			http.Error(w, "Failed to get followers", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{
			"username":  username,
			"followers": followers,
			"count":     len(followers),
		})
	}
}

// HandleFollowing returns who a user follows. An empty username means the
// local viewer.
func (s *Server) HandleFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		username := r.URL.Query().Get("username")

		future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.GetFollowingMsg{Username: username}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get following", http.StatusInternalServerError)
			return
		}

		following, ok := result.([]string)
		if !ok {
			http.Error(w, "Failed to get following", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{
			"username":  username,
			"following": following,
			"count":     len(following),
		})
	}
}

// HandleUsers returns the discoverable user roster
func (s *Server) HandleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.ListUsersMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		writeJSON(w, result)
	}
}
