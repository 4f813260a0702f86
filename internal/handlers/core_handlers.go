package handlers

import (
	"net/http"
	"strconv"
	"time"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/models"
	"pin-drop/internal/visibility"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetPinActor(), &actors.GetCountsMsg{}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to get pin count", http.StatusInternalServerError)
			return
		}
		pinCount := result.(int)

		flushes, flushFailures, dropped := s.Metrics.FlushStats()

		writeJSON(w, map[string]interface{}{
			"status":          "healthy",
			"pin_count":       pinCount,
			"flushes":         flushes,
			"flush_failures":  flushFailures,
			"dropped_records": dropped,
			"uptime_seconds":  int64(s.Metrics.Uptime().Seconds()),
			"server_time":     time.Now(),
		})
	}
}

// HandleExplore computes the social feed: pins of followed users plus public
// pins by others, ranked by hotness. Optional query parameters: search,
// radius (miles), lat, lng.
func (s *Server) HandleExplore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		opts := visibility.ExploreOptions{
			Query: r.URL.Query().Get("search"),
		}

		if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
			radius, err := strconv.ParseFloat(radiusStr, 64)
			if err != nil || radius < 0 {
				http.Error(w, "Invalid radius", http.StatusBadRequest)
				return
			}
			opts.RadiusMiles = &radius
		}

		latStr := r.URL.Query().Get("lat")
		lngStr := r.URL.Query().Get("lng")
		if latStr != "" && lngStr != "" {
			lat, errLat := strconv.ParseFloat(latStr, 64)
			lng, errLng := strconv.ParseFloat(lngStr, 64)
			if errLat != nil || errLng != nil {
				http.Error(w, "Invalid coordinates", http.StatusBadRequest)
				return
			}
			opts.Location = &models.Coords{Latitude: lat, Longitude: lng}
		}

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

		feed := visibility.Explore(pins, view.Me, view.Following, opts, time.Now())
		if feed == nil {
			feed = []models.Pin{}
		}
		writeJSON(w, feed)
	}
}
