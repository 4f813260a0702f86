package main

import (
	"context"
	"log"
	"time"

	"pin-drop/simulator"
)

func main() {
	config := simulator.SimConfig{
		SimulationTime:   10 * time.Minute,
		PinFrequency:     400.0,
		LikeFrequency:    900.0,
		CommentFrequency: 300.0,
		FollowFrequency:  120.0,
		ExploreFrequency: 600.0,
		GeocodeFrequency: 1800.0,
		EngineURL:        "http://localhost:8080",
	}

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Pin frequency: %.2f pins/hour", config.PinFrequency)
	log.Printf("- Like frequency: %.2f likes/hour", config.LikeFrequency)
	log.Printf("- Comment frequency: %.2f comments/hour", config.CommentFrequency)
	log.Printf("- Follow frequency: %.2f changes/hour", config.FollowFrequency)
	log.Printf("- Explore frequency: %.2f queries/hour", config.ExploreFrequency)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total pins dropped: %d", metrics.TotalPins)
	log.Printf("- Total likes: %d", metrics.TotalLikes)
	log.Printf("- Total comments: %d", metrics.TotalComments)
	log.Printf("- Total follow changes: %d", metrics.TotalFollows)
	log.Printf("- Average latency: %v", metrics.AverageLatency)
	log.Printf("- Error count: %d", metrics.ErrorCount)
}
