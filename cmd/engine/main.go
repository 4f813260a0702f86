package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"pin-drop/internal/config"
	"pin-drop/internal/engine"
	"pin-drop/internal/engine/actors"
	"pin-drop/internal/geocode"
	"pin-drop/internal/handlers"
	"pin-drop/internal/middleware"
	"pin-drop/internal/mock"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
	"pin-drop/internal/websocket"
)

// backend is what every storage flavor provides: the pin snapshot plus the
// namespaced KV blobs for profile, social graph and geocode cache.
type backend interface {
	storage.Snapshotter
	storage.KV
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := utils.NewMetricsCollector()
	middleware.SetSecret(cfg.SessionSecret)

	store, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Close(ctx)
	}()

	var resolver geocode.Resolver
	if cfg.Geocode.EndpointURL != "" {
		resolver = geocode.NewHTTPResolver(cfg.Geocode.EndpointURL)
	} else {
		log.Println("GEOCODER_URL not set; reverse geocoding serves cached entries only")
	}

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	pinEngine := engine.NewEngine(system, metrics, engine.Deps{
		Snapshot:        store,
		KV:              store,
		FlushDebounce:   cfg.Storage.FlushDebounce,
		Resolver:        resolver,
		GeocodeCacheMax: cfg.Geocode.CacheMax,
		Seed:            mock.Users(),
		Notifier:        hub,
	})

	server := handlers.NewServer(system, system.Root, pinEngine, metrics, hub)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)

	mux := http.NewServeMux()
	route := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(handler, path), corsConfig))
	}

	route("/health", server.HandleHealth())
	route("/session/login", server.HandleSessionLogin())
	route("/pin", server.HandlePin())
	route("/pins", server.HandlePins())
	route("/pin/like", server.HandleLike())
	route("/pin/comment", server.HandleComment())
	route("/explore", server.HandleExplore())
	route("/profile", server.HandleProfile())
	route("/profile/passcode", server.HandlePasscode())
	route("/follow", server.HandleFollow())
	route("/followers", server.HandleFollowers())
	route("/following", server.HandleFollowing())
	route("/users", server.HandleUsers())
	route("/geocode", server.HandleGeocode())
	mux.HandleFunc("/ws", server.HandleWebSocket())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("Starting server on %s (storage: %s)", serverAddr, cfg.Storage.Type)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Shut the actors down before the process exits so a pending debounced
	// flush lands on disk.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	// Wait for the pin actor so its final flush completes before Close.
	if err := system.Root.StopFuture(pinEngine.GetPinActor()).Wait(); err != nil {
		log.Printf("Pin actor stop error: %v", err)
	}
	system.Root.Stop(pinEngine.GetSocialActor())
	system.Root.Stop(pinEngine.GetGeocodeActor())
	system.Root.Stop(pinEngine.GetProfileActor())
	system.Shutdown()
}

// openStorage selects the persistence backend. "none" runs fully in-memory
// for platforms without a usable storage location.
func openStorage(cfg *config.StorageConfig) (backend, error) {
	switch cfg.Type {
	case "file":
		return storage.NewFileStore(cfg.DataDir)
	case "mongo":
		return storage.NewMongoStore(cfg.MongoURI)
	case "none":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

var _ actors.Notifier = (*websocket.Hub)(nil)
