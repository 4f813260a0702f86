package handlers

import (
	"net/http"
	"strconv"

	"pin-drop/internal/engine/actors"
)

// HandleGeocode resolves a coordinate to a display city. Results are cached
// per grid cell; an empty city means nothing resolved.
func (s *Server) HandleGeocode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		latStr := r.URL.Query().Get("lat")
		lngStr := r.URL.Query().Get("lng")
		if latStr == "" || lngStr == "" {
			http.Error(w, "lat and lng required", http.StatusBadRequest)
			return
		}

		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			http.Error(w, "Invalid coordinates", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetGeocodeActor(), &actors.ResolveCityMsg{Lat: lat, Lng: lng}, s.RequestTimeout)
		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to resolve location", http.StatusInternalServerError)
			return
		}

		city, _ := result.(string)
		writeJSON(w, map[string]string{"city": city})
	}
}
