package actors

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"

	"pin-drop/internal/flush"
	"pin-drop/internal/mock"
	"pin-drop/internal/models"
	"pin-drop/internal/schema"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
)

// Message types for pin operations
type (
	AddPinMsg struct {
		Raw schema.RawPin
	}

	// UpdatePinMsg shallow-merges the provided changes into the matching
	// record. Nil fields are left untouched. The merged result is not
	// re-validated.
	UpdatePinMsg struct {
		ID      string
		Changes PinChanges
	}

	RemovePinMsg struct {
		ID string
	}

	GetPinMsg struct {
		ID string
	}

	ListPinsMsg struct{}

	AddCommentMsg struct {
		PinID string
		User  string
		Text  string
	}

	ToggleLikeMsg struct {
		ID string
	}

	ClearPinsMsg struct{}

	GetCountsMsg struct{}

	// flushPinsMsg is sent by the debouncer back onto the actor's own
	// mailbox so the snapshot is taken from actor-owned state.
	flushPinsMsg struct{}
)

// PinChanges is the shallow-merge payload for UpdatePinMsg.
type PinChanges struct {
	Title       *string
	Description *string
	Photos      []string
	Categories  []models.Category
	Coords      *models.Coords
	Privacy     *models.Privacy
}

// PinActor owns the in-memory pin list (newest-first) and is the sole
// writer of pin records. Every mutation schedules a debounced snapshot
// flush; hydration, migration and mock seeding run once at start.
type PinActor struct {
	pins      []models.Pin
	store     storage.Snapshotter
	debounce  time.Duration
	debouncer *flush.Debouncer
	seed      []mock.SeedUser
	notifier  Notifier
	metrics   *utils.MetricsCollector
}

// NewPinActor creates a PinActor persisting through store. A nil notifier
// disables change events.
func NewPinActor(store storage.Snapshotter, debounce time.Duration, seed []mock.SeedUser, notifier Notifier, metrics *utils.MetricsCollector) actor.Actor {
	return &PinActor{
		pins:     make([]models.Pin, 0),
		store:    store,
		debounce: debounce,
		seed:     seed,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (a *PinActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.hydrate(ctx)

	case *actor.Stopping:
		// A flush scheduled through the mailbox would be dropped once the
		// actor stops, so run any pending write inline.
		if a.debouncer != nil && a.debouncer.Pending() {
			a.debouncer.Cancel()
			a.flushNow()
		}

	case *AddPinMsg:
		a.handleAddPin(ctx, msg)
	case *UpdatePinMsg:
		a.handleUpdatePin(ctx, msg)
	case *RemovePinMsg:
		a.handleRemovePin(ctx, msg)
	case *GetPinMsg:
		a.handleGetPin(ctx, msg)
	case *ListPinsMsg:
		pins := make([]models.Pin, len(a.pins))
		copy(pins, a.pins)
		ctx.Respond(pins)
	case *AddCommentMsg:
		a.handleAddComment(ctx, msg)
	case *ToggleLikeMsg:
		a.handleToggleLike(ctx, msg)
	case *ClearPinsMsg:
		a.pins = a.pins[:0]
		a.scheduleFlush()
		a.publish("pins.cleared", nil)
		ctx.Respond(true)
	case *GetCountsMsg:
		ctx.Respond(len(a.pins))
	case *flushPinsMsg:
		a.flushNow()
	}
}

// hydrate loads the persisted snapshot, migrates it, drops records that
// fail validation, and seeds from the mock roster when nothing survives.
// Storage failures are swallowed: the store degrades to seeded state.
func (a *PinActor) hydrate(ctx actor.Context) {
	if a.store != nil {
		snap, err := a.store.Load(context.Background())
		if err != nil {
			log.Printf("PinActor: snapshot load failed, continuing without persisted state: %v", err)
		} else if snap != nil {
			// Unknown or missing versions are read like the current one;
			// per-record validation decides what survives.
			if snap.Version != storage.SnapshotVersion {
				log.Printf("PinActor: migrating snapshot version %d -> %d", snap.Version, storage.SnapshotVersion)
			}
			dropped := 0
			for _, raw := range snap.Pins {
				pin, err := schema.ParsePinJSON(raw)
				if err != nil {
					dropped++
					continue
				}
				a.pins = append(a.pins, pin)
			}
			if dropped > 0 {
				log.Printf("PinActor: dropped %d invalid persisted records", dropped)
				a.metrics.AddDroppedRecords(dropped)
			}
		}
	}

	if len(a.pins) == 0 {
		a.seedFromMock()
	}

	// Debounced writes go back through the mailbox so the flush always
	// serializes actor-owned state.
	system := ctx.ActorSystem()
	self := ctx.Self()
	a.debouncer = flush.NewDebouncer(a.debounce, func() {
		system.Root.Send(self, &flushPinsMsg{})
	})

	log.Printf("PinActor started with %d pins", len(a.pins))
}

func (a *PinActor) seedFromMock() {
	for _, user := range a.seed {
		for _, sp := range user.Pins {
			pin, err := schema.ParsePin(sp.Raw())
			if err != nil {
				continue
			}
			a.pins = append(a.pins, pin)
		}
	}
	sort.SliceStable(a.pins, func(i, j int) bool {
		return a.pins[i].CreatedAt > a.pins[j].CreatedAt
	})
	log.Printf("PinActor: seeded %d pins from mock roster", len(a.pins))
}

func (a *PinActor) handleAddPin(ctx actor.Context, msg *AddPinMsg) {
	startTime := time.Now()

	raw := msg.Raw
	if raw.ID == nil || *raw.ID == "" {
		id := uuid.NewString()
		raw.ID = &id
	}
	if raw.Title == nil {
		title := "Untitled Pin"
		raw.Title = &title
	}
	if raw.CreatedAt == nil {
		now := float64(time.Now().UnixMilli())
		raw.CreatedAt = &now
	}

	pin, err := schema.ParsePin(raw)
	if err != nil {
		ctx.Respond(utils.NewAppError(utils.ErrValidation, err.Error(), err))
		return
	}

	// Most-recent-first ordering: new pins go to the head.
	a.pins = append([]models.Pin{pin}, a.pins...)
	a.scheduleFlush()
	a.publish("pin.created", pin)

	a.metrics.AddOperationLatency("add_pin", time.Since(startTime))
	ctx.Respond(pin)
}

func (a *PinActor) handleUpdatePin(ctx actor.Context, msg *UpdatePinMsg) {
	startTime := time.Now()

	i := a.find(msg.ID)
	if i < 0 {
		// Missing ids are silent no-ops, not errors.
		ctx.Respond(false)
		return
	}

	p := &a.pins[i]
	if msg.Changes.Title != nil {
		p.Title = *msg.Changes.Title
	}
	if msg.Changes.Description != nil {
		p.Description = *msg.Changes.Description
	}
	if msg.Changes.Photos != nil {
		p.Photos = msg.Changes.Photos
	}
	if msg.Changes.Categories != nil {
		p.Categories = msg.Changes.Categories
	}
	if msg.Changes.Coords != nil {
		p.Coords = *msg.Changes.Coords
	}
	if msg.Changes.Privacy != nil {
		p.Privacy = *msg.Changes.Privacy
	}

	a.scheduleFlush()
	a.publish("pin.updated", *p)

	a.metrics.AddOperationLatency("update_pin", time.Since(startTime))
	ctx.Respond(true)
}

func (a *PinActor) handleRemovePin(ctx actor.Context, msg *RemovePinMsg) {
	i := a.find(msg.ID)
	if i < 0 {
		ctx.Respond(false)
		return
	}
	a.pins = append(a.pins[:i], a.pins[i+1:]...)
	a.scheduleFlush()
	a.publish("pin.deleted", msg.ID)
	ctx.Respond(true)
}

func (a *PinActor) handleGetPin(ctx actor.Context, msg *GetPinMsg) {
	if i := a.find(msg.ID); i >= 0 {
		ctx.Respond(a.pins[i])
		return
	}
	ctx.Respond(utils.NewPinNotFoundError(msg.ID))
}

func (a *PinActor) handleAddComment(ctx actor.Context, msg *AddCommentMsg) {
	startTime := time.Now()

	i := a.find(msg.PinID)
	if i < 0 {
		ctx.Respond(false)
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		User:      msg.User,
		Text:      msg.Text,
		CreatedAt: time.Now().UnixMilli(),
	}
	// Comment lists stay newest-first by construction.
	a.pins[i].Comments = append([]models.Comment{comment}, a.pins[i].Comments...)

	a.scheduleFlush()
	a.publish("pin.commented", a.pins[i])

	a.metrics.AddOperationLatency("add_comment", time.Since(startTime))
	ctx.Respond(comment)
}

func (a *PinActor) handleToggleLike(ctx actor.Context, msg *ToggleLikeMsg) {
	startTime := time.Now()

	i := a.find(msg.ID)
	if i < 0 {
		ctx.Respond(false)
		return
	}

	p := &a.pins[i]
	if p.MyLiked {
		p.MyLiked = false
		if p.LikesCount > 0 {
			p.LikesCount--
		}
	} else {
		p.MyLiked = true
		p.LikesCount++
	}

	a.scheduleFlush()
	a.publish("pin.liked", *p)

	a.metrics.AddOperationLatency("toggle_like", time.Since(startTime))
	ctx.Respond(*p)
}

func (a *PinActor) find(id string) int {
	for i := range a.pins {
		if a.pins[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *PinActor) scheduleFlush() {
	if a.store == nil || a.debouncer == nil {
		return
	}
	a.debouncer.Schedule()
}

// flushNow serializes the full pin list, overwriting the previous snapshot.
// Write failures are logged and swallowed: persistence is best-effort.
func (a *PinActor) flushNow() {
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.store.Save(ctx, a.pins); err != nil {
		log.Printf("PinActor: snapshot write failed: %v", err)
		a.metrics.IncrementFlushFailures()
		return
	}
	a.metrics.IncrementFlushes()
}

func (a *PinActor) publish(event string, payload interface{}) {
	if a.notifier == nil {
		return
	}
	a.notifier.Publish(event, payload)
}
