package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"pin-drop/internal/engine"
	"pin-drop/internal/engine/actors"
	"pin-drop/internal/utils"
	"pin-drop/internal/websocket"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	engine *engine.Engine,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         engine,
		Metrics:        metrics,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// writeJSON writes a JSON response with the appropriate content type
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeAppError maps an application error to its HTTP status
func writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
}

// socialView fetches the viewer identity and following set in one round trip.
func (s *Server) socialView() (*actors.SocialView, error) {
	future := s.Context.RequestFuture(s.Engine.GetSocialActor(), &actors.GetSocialViewMsg{}, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, err
	}
	view, ok := result.(*actors.SocialView)
	if !ok {
		return nil, utils.NewActorTimeoutError("SocialActor")
	}
	return view, nil
}
