package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// cityCenters anchor the random walk: pins land in a jittered cloud around
// one of these so geocode lookups and radius filters have real clusters to
// chew on.
var cityCenters = []struct {
	Name string
	Lat  float64
	Lng  float64
}{
	{"San Francisco", 37.7749, -122.4194},
	{"New York", 40.7128, -74.0060},
	{"London", 51.5074, -0.1278},
	{"Tokyo", 35.6762, 139.6503},
	{"Lisbon", 38.7223, -9.1393},
}

var pinCategories = []string{"art", "cafe", "study", "smoke", "landmark", "nature", "other"}

var pinPrivacies = []string{"private", "friends", "public"}

var pinTitles = []string{
	"Hidden rooftop", "Quiet corner", "Best espresso", "Mural wall",
	"Sunset spot", "Late night ramen", "Bookshop nook", "River bench",
}

var commentLines = []string{
	"Love this spot", "Adding to my list", "Was just here!", "Underrated",
	"The view is unreal", "Good call", "Meeting here next week",
}

func (s *Simulator) SimulateActivities(ctx context.Context) error {
	log.Printf("Starting activities simulation...")

	// Pins first; likes and comments need targets.
	pinsAvailable := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulatePins(ctx, pinsAvailable)
	}()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.RLock()
				if len(s.pinIDs) >= 3 {
					s.mu.RUnlock()
					close(pinsAvailable)
					return
				}
				s.mu.RUnlock()
			}
		}
	}()

	startAfterPins := func(name string, run func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case <-pinsAvailable:
				log.Printf("Starting %s after pins available...", name)
				run(ctx)
			}
		}()
	}

	startAfterPins("likes", s.simulateLikes)
	startAfterPins("comments", s.simulateComments)
	startAfterPins("explore", s.simulateExplore)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateFollows(ctx)
	}()

	wg.Wait()
	return nil
}

// chance converts an actions-per-hour frequency into a per-tick probability
// for a 500ms tick.
func chance(perHour float64) bool {
	return rand.Float64() < perHour/3600.0/2.0
}

func (s *Simulator) simulatePins(ctx context.Context, pinsAvailable chan struct{}) {
	log.Printf("Starting pin simulation...")

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !chance(s.config.PinFrequency) {
				continue
			}

			city := cityCenters[rand.Intn(len(cityCenters))]
			lat := city.Lat + (rand.Float64()-0.5)*0.05
			lng := city.Lng + (rand.Float64()-0.5)*0.05

			data := map[string]interface{}{
				"title":       pinTitles[rand.Intn(len(pinTitles))],
				"description": fmt.Sprintf("Dropped near %s at %s", city.Name, time.Now().Format(time.RFC3339)),
				"coords":      map[string]float64{"latitude": lat, "longitude": lng},
				"categories":  []string{pinCategories[rand.Intn(len(pinCategories))]},
				"privacy":     pinPrivacies[rand.Intn(len(pinPrivacies))],
			}

			resp, err := s.makeRequest("POST", "/pin", data)
			if err != nil {
				log.Printf("Failed to drop pin: %v", err)
				continue
			}

			var pin struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(resp, &pin); err != nil || pin.ID == "" {
				log.Printf("Unexpected pin response: %s", string(resp))
				continue
			}

			s.mu.Lock()
			s.pinIDs = append(s.pinIDs, pin.ID)
			s.mu.Unlock()

			s.stats.mu.Lock()
			s.stats.TotalPins++
			total := s.stats.TotalPins
			s.stats.mu.Unlock()

			log.Printf("Dropped pin %s near %s (Total: %d)", pin.ID, city.Name, total)

			// Occasionally resolve the drop location like the map screen does.
			if chance(s.config.GeocodeFrequency) {
				s.makeRequest("GET", fmt.Sprintf("/geocode?lat=%f&lng=%f", lat, lng), nil)
			}
		}
	}
}

func (s *Simulator) simulateLikes(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !chance(s.config.LikeFrequency) {
				continue
			}

			pinID, ok := s.randomPinID()
			if !ok {
				continue
			}

			if _, err := s.makeRequest("POST", "/pin/like", map[string]string{"id": pinID}); err != nil {
				log.Printf("Failed to toggle like: %v", err)
				continue
			}

			s.stats.mu.Lock()
			s.stats.TotalLikes++
			s.stats.mu.Unlock()
		}
	}
}

func (s *Simulator) simulateComments(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !chance(s.config.CommentFrequency) {
				continue
			}

			pinID, ok := s.randomPinID()
			if !ok {
				continue
			}

			data := map[string]string{
				"pinId": pinID,
				"text":  commentLines[rand.Intn(len(commentLines))],
			}
			if _, err := s.makeRequest("POST", "/pin/comment", data); err != nil {
				log.Printf("Failed to add comment: %v", err)
				continue
			}

			s.stats.mu.Lock()
			s.stats.TotalComments++
			total := s.stats.TotalComments
			s.stats.mu.Unlock()

			log.Printf("Commented on pin %s (Total: %d)", pinID, total)
		}
	}
}

func (s *Simulator) simulateFollows(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !chance(s.config.FollowFrequency) {
				continue
			}

			s.mu.Lock()
			if len(s.roster) == 0 {
				s.mu.Unlock()
				continue
			}
			target := s.roster[rand.Intn(len(s.roster))]
			following := s.followed[target]
			s.mu.Unlock()

			var err error
			if following {
				_, err = s.makeRequest("DELETE", "/follow", map[string]string{"username": target})
			} else {
				_, err = s.makeRequest("POST", "/follow", map[string]string{"username": target})
			}
			if err != nil {
				log.Printf("Failed to change follow state for %s: %v", target, err)
				continue
			}

			s.mu.Lock()
			s.followed[target] = !following
			s.mu.Unlock()

			s.stats.mu.Lock()
			s.stats.TotalFollows++
			s.stats.mu.Unlock()

			log.Printf("Follow state flipped for %s (now following: %v)", target, !following)
		}
	}
}

func (s *Simulator) simulateExplore(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !chance(s.config.ExploreFrequency) {
				continue
			}

			endpoint := "/explore"
			// Half the queries add a radius filter around a random city.
			if rand.Float64() < 0.5 {
				city := cityCenters[rand.Intn(len(cityCenters))]
				endpoint = fmt.Sprintf("/explore?radius=25&lat=%f&lng=%f", city.Lat, city.Lng)
			}

			if _, err := s.makeRequest("GET", endpoint, nil); err != nil {
				log.Printf("Explore query failed: %v", err)
				continue
			}

			s.stats.mu.Lock()
			s.stats.TotalExplores++
			s.stats.mu.Unlock()
		}
	}
}

func (s *Simulator) randomPinID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.pinIDs) == 0 {
		return "", false
	}
	return s.pinIDs[rand.Intn(len(s.pinIDs))], true
}
