package engine

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"pin-drop/internal/engine/actors"
	"pin-drop/internal/geocode"
	"pin-drop/internal/mock"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
)

// Deps carries everything the actors need: persistence backends, the
// reverse-geocode resolver, the seed roster and the change-event sink.
type Deps struct {
	Snapshot        storage.Snapshotter
	KV              storage.KV
	FlushDebounce   time.Duration
	Resolver        geocode.Resolver
	GeocodeCacheMax int
	Seed            []mock.SeedUser
	Notifier        actors.Notifier
}

// Engine coordinates communication between the store actors. Each actor
// exclusively owns its slice of state; everything else reaches that state
// through the PIDs exposed here.
type Engine struct {
	pinActor     *actor.PID
	profileActor *actor.PID
	socialActor  *actor.PID
	geocodeActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, deps Deps) *Engine {
	context := system.Root

	// The profile actor comes first: the social actor resolves the viewer
	// identity through it.
	profileProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewProfileActor(deps.KV)
	})
	profilePID := context.Spawn(profileProps)

	pinProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPinActor(deps.Snapshot, deps.FlushDebounce, deps.Seed, deps.Notifier, metrics)
	})
	pinPID := context.Spawn(pinProps)

	socialProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewSocialActor(deps.KV, profilePID, deps.Seed, deps.Notifier)
	})
	socialPID := context.Spawn(socialProps)

	geocodeProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewGeocodeActor(deps.Resolver, deps.KV, deps.GeocodeCacheMax)
	})
	geocodePID := context.Spawn(geocodeProps)

	return &Engine{
		pinActor:     pinPID,
		profileActor: profilePID,
		socialActor:  socialPID,
		geocodeActor: geocodePID,
	}
}

// GetPinActor returns the PID of the pin store actor
func (e *Engine) GetPinActor() *actor.PID {
	return e.pinActor
}

// GetProfileActor returns the PID of the profile actor
func (e *Engine) GetProfileActor() *actor.PID {
	return e.profileActor
}

// GetSocialActor returns the PID of the social graph actor
func (e *Engine) GetSocialActor() *actor.PID {
	return e.socialActor
}

// GetGeocodeActor returns the PID of the geocode cache actor
func (e *Engine) GetGeocodeActor() *actor.PID {
	return e.geocodeActor
}
