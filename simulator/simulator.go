package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// SimConfig tunes the load the simulator drives against a running engine.
// Frequencies are actions per hour.
type SimConfig struct {
	SimulationTime   time.Duration
	PinFrequency     float64
	LikeFrequency    float64
	CommentFrequency float64
	FollowFrequency  float64
	ExploreFrequency float64
	GeocodeFrequency float64
	EngineURL        string
}

// SimulationStats aggregates request metrics across all activity loops.
type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	AverageLatency   time.Duration
	TotalPins        int
	TotalLikes       int
	TotalComments    int
	TotalFollows     int
	TotalExplores    int
	RequestLatencies []time.Duration
}

// Simulator drives a single roaming device against the pin API: dropping
// pins around city centers, liking and commenting, following roster users
// and refreshing the explore feed.
type Simulator struct {
	config SimConfig
	stats  *SimulationStats
	client *http.Client

	mu       sync.RWMutex
	token    string
	pinIDs   []string
	roster   []string
	followed map[string]bool
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		followed: make(map[string]bool),
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

// initialize opens a session, then loads the discoverable roster and any
// pins already in the store so likes and comments have targets from the
// first tick.
func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Opening session...")
	resp, err := s.makeRequest("POST", "/session/login", map[string]string{"passcode": ""})
	if err != nil {
		return fmt.Errorf("login failed: %v", err)
	}

	var session struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(resp, &session); err != nil || session.Token == "" {
		return fmt.Errorf("unexpected login response: %s", string(resp))
	}

	s.mu.Lock()
	s.token = session.Token
	s.mu.Unlock()
	log.Printf("Session opened as %s", session.Username)

	log.Printf("Loading user roster...")
	resp, err = s.makeRequest("GET", "/users", nil)
	if err != nil {
		return fmt.Errorf("failed to load roster: %v", err)
	}

	var users []struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(resp, &users); err != nil {
		return fmt.Errorf("failed to parse roster: %v", err)
	}

	s.mu.Lock()
	for _, u := range users {
		s.roster = append(s.roster, u.Username)
	}
	s.mu.Unlock()

	log.Printf("Loading existing pins...")
	resp, err = s.makeRequest("GET", "/pins", nil)
	if err != nil {
		return fmt.Errorf("failed to load pins: %v", err)
	}

	var pins []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &pins); err != nil {
		return fmt.Errorf("failed to parse pins: %v", err)
	}

	s.mu.Lock()
	for _, p := range pins {
		s.pinIDs = append(s.pinIDs, p.ID)
	}
	s.mu.Unlock()

	log.Printf("Initialized with %d roster users and %d existing pins", len(users), len(pins))
	return nil
}

// makeRequest issues one JSON request against the engine and records its
// latency.
func (s *Simulator) makeRequest(method, endpoint string, data interface{}) ([]byte, error) {
	var body []byte
	var err error

	if data != nil {
		body, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, s.config.EngineURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	s.mu.RLock()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.RUnlock()

	start := time.Now()
	resp, err := s.client.Do(req)
	s.recordRequestMetrics(start, err)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *Simulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)

	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	log.Printf("Starting metrics collection...")
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			elapsed := time.Since(s.stats.StartTime)
			requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()
			successRate := 0.0
			if s.stats.TotalRequests > 0 {
				successRate = float64(s.stats.SuccessRequests) / float64(s.stats.TotalRequests) * 100
			}

			log.Printf("\nSimulation Metrics (%.1f seconds elapsed):", elapsed.Seconds())
			log.Printf("- Request Rate: %.2f req/sec", requestRate)
			log.Printf("- Success Rate: %.1f%%", successRate)
			log.Printf("- Average Latency: %v", s.stats.AverageLatency)
			log.Printf("- Total Pins Dropped: %d", s.stats.TotalPins)
			log.Printf("- Total Likes: %d", s.stats.TotalLikes)
			log.Printf("- Total Comments: %d", s.stats.TotalComments)
			log.Printf("- Total Follow Changes: %d", s.stats.TotalFollows)
			log.Printf("- Total Explore Queries: %d", s.stats.TotalExplores)
			log.Printf("- Failed Requests: %d", s.stats.FailedRequests)

			s.stats.mu.RUnlock()
		}
	}
}

// SimulationMetrics holds the final metrics of a run
type SimulationMetrics struct {
	TotalPins         int
	TotalLikes        int
	TotalComments     int
	TotalFollows      int
	TotalExplores     int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

// GetMetrics returns the current simulation metrics
func (s *Simulator) GetMetrics() SimulationMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()

	return SimulationMetrics{
		TotalPins:         s.stats.TotalPins,
		TotalLikes:        s.stats.TotalLikes,
		TotalComments:     s.stats.TotalComments,
		TotalFollows:      s.stats.TotalFollows,
		TotalExplores:     s.stats.TotalExplores,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: requestRate,
	}
}
