package actors

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"

	"pin-drop/internal/mock"
	"pin-drop/internal/models"
	"pin-drop/internal/schema"
	"pin-drop/internal/storage"
	"pin-drop/internal/utils"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func spawnPinActor(t *testing.T, store storage.Snapshotter, debounce time.Duration, seed []mock.SeedUser) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPinActor(store, debounce, seed, nil, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func validRawPin() schema.RawPin {
	return schema.RawPin{
		Coords: &schema.RawCoords{Latitude: f64Ptr(37.77), Longitude: f64Ptr(-122.41)},
	}
}

func TestPinActorAddAppliesDefaults(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	pin, ok := result.(models.Pin)
	assert.True(t, ok, "expected a pin, got %T", result)
	assert.NotEmpty(t, pin.ID)
	assert.Equal(t, "Untitled Pin", pin.Title)
	assert.Equal(t, models.PrivacyPrivate, pin.Privacy)
	assert.Equal(t, "me", pin.Owner)
	assert.NotZero(t, pin.CreatedAt)
}

func TestPinActorAddRejectsInvalidRecord(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: schema.RawPin{}}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok, "expected an AppError, got %T", result)
	assert.Equal(t, utils.ErrValidation, appErr.Code)
}

func TestPinActorNewestFirst(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	for _, title := range []string{"first", "second", "third"} {
		raw := validRawPin()
		raw.Title = strPtr(title)
		future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: raw}, 5*time.Second)
		_, err := future.Result()
		assert.NoError(t, err)
	}

	future := system.Root.RequestFuture(pid, &ListPinsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	pins := result.([]models.Pin)
	assert.Len(t, pins, 3)
	assert.Equal(t, "third", pins[0].Title)
	assert.Equal(t, "first", pins[2].Title)
}

func TestPinActorToggleLike(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	pin := result.(models.Pin)

	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	liked := result.(models.Pin)
	assert.True(t, liked.MyLiked)
	assert.Equal(t, 1, liked.LikesCount)

	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	unliked := result.(models.Pin)
	assert.False(t, unliked.MyLiked)
	assert.Equal(t, 0, unliked.LikesCount)

	// Unknown ids are silent no-ops.
	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{ID: "nope"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, false, result)
}

func TestPinActorLikeCountNeverNegative(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	// A liked record whose count is already zero stays at zero on unlike.
	id := "seeded"
	raw := validRawPin()
	raw.ID = &id
	raw.CreatedAt = f64Ptr(1700000000000)
	liked := true
	raw.MyLiked = &liked

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: raw}, 5*time.Second)
	_, err := future.Result()
	assert.NoError(t, err)

	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{ID: id}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	pin := result.(models.Pin)
	assert.False(t, pin.MyLiked)
	assert.Equal(t, 0, pin.LikesCount)
}

func TestPinActorComments(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	pin := result.(models.Pin)

	for _, text := range []string{"first", "second"} {
		future = system.Root.RequestFuture(pid, &AddCommentMsg{PinID: pin.ID, User: "sam", Text: text}, 5*time.Second)
		result, err = future.Result()
		assert.NoError(t, err)
		comment, ok := result.(models.Comment)
		assert.True(t, ok)
		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, text, comment.Text)
	}

	future = system.Root.RequestFuture(pid, &GetPinMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	got := result.(models.Pin)
	assert.Len(t, got.Comments, 2)
	// Newest comment first.
	assert.Equal(t, "second", got.Comments[0].Text)

	// Commenting on a missing pin is a silent no-op.
	future = system.Root.RequestFuture(pid, &AddCommentMsg{PinID: "nope", User: "sam", Text: "x"}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, false, result)
}

func TestPinActorUpdateAndRemove(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	pin := result.(models.Pin)

	newTitle := "Renamed"
	newPrivacy := models.PrivacyPublic
	future = system.Root.RequestFuture(pid, &UpdatePinMsg{
		ID:      pin.ID,
		Changes: PinChanges{Title: &newTitle, Privacy: &newPrivacy},
	}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &GetPinMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	updated := result.(models.Pin)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.PrivacyPublic, updated.Privacy)
	// Untouched fields survive the merge.
	assert.Equal(t, pin.Coords, updated.Coords)

	// Updating a missing pin is a silent no-op.
	future = system.Root.RequestFuture(pid, &UpdatePinMsg{ID: "nope", Changes: PinChanges{Title: &newTitle}}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, false, result)

	future = system.Root.RequestFuture(pid, &RemovePinMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &GetPinMsg{ID: pin.ID}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrPinNotFound, appErr.Code)
}

func TestPinActorClear(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
	_, err := future.Result()
	assert.NoError(t, err)

	future = system.Root.RequestFuture(pid, &ClearPinsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.Equal(t, true, result)

	future = system.Root.RequestFuture(pid, &GetCountsMsg{}, 5*time.Second)
	result, err = future.Result()
	assert.NoError(t, err)
	assert.Equal(t, 0, result)
}

func TestPinActorHydrationDropsInvalidRecords(t *testing.T) {
	store := storage.NewMemoryStore()

	valid := json.RawMessage(`{"id":"ok","coords":{"latitude":1,"longitude":2},"createdAt":1700000000000}`)
	missingCoords := json.RawMessage(`{"id":"bad","createdAt":1700000000000}`)
	store.SetSnapshot(&storage.Snapshot{
		Version: storage.SnapshotVersion,
		Pins:    []json.RawMessage{valid, missingCoords},
	})

	system, pid := spawnPinActor(t, store, 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &ListPinsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	pins := result.([]models.Pin)
	assert.Len(t, pins, 1)
	assert.Equal(t, "ok", pins[0].ID)
}

func TestPinActorHydrationAcceptsUnknownVersion(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetSnapshot(&storage.Snapshot{
		Version: 99,
		Pins:    []json.RawMessage{json.RawMessage(`{"id":"ok","coords":{"latitude":1,"longitude":2},"createdAt":1700000000000}`)},
	})

	system, pid := spawnPinActor(t, store, 10*time.Millisecond, nil)

	future := system.Root.RequestFuture(pid, &GetCountsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestPinActorSeedsWhenEmpty(t *testing.T) {
	system, pid := spawnPinActor(t, storage.NewMemoryStore(), 10*time.Millisecond, mock.Users())

	future := system.Root.RequestFuture(pid, &ListPinsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	pins := result.([]models.Pin)
	assert.NotEmpty(t, pins)
	for i := 1; i < len(pins); i++ {
		assert.GreaterOrEqual(t, pins[i-1].CreatedAt, pins[i].CreatedAt)
	}
}

func TestPinActorSkipsSeedWhenSnapshotHasPins(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetSnapshot(&storage.Snapshot{
		Version: storage.SnapshotVersion,
		Pins:    []json.RawMessage{json.RawMessage(`{"id":"persisted","coords":{"latitude":1,"longitude":2},"createdAt":1700000000000}`)},
	})

	system, pid := spawnPinActor(t, store, 10*time.Millisecond, mock.Users())

	future := system.Root.RequestFuture(pid, &ListPinsMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)

	pins := result.([]models.Pin)
	assert.Len(t, pins, 1)
	assert.Equal(t, "persisted", pins[0].ID)
}

func TestPinActorDebouncedFlushCoalesces(t *testing.T) {
	store := storage.NewMemoryStore()
	system, pid := spawnPinActor(t, store, 100*time.Millisecond, nil)

	// A burst of mutations within the debounce window lands as one write.
	for i := 0; i < 5; i++ {
		future := system.Root.RequestFuture(pid, &AddPinMsg{Raw: validRawPin()}, 5*time.Second)
		_, err := future.Result()
		assert.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return store.Saves() == 1
	}, 2*time.Second, 20*time.Millisecond)

	snap, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, snap.Pins, 5)
}
