package actors

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"

	"pin-drop/internal/models"
	"pin-drop/internal/storage"
)

// fakeResolver counts lookups and serves a swappable entry.
type fakeResolver struct {
	calls int32
	entry atomic.Value // models.GeoEntry
}

func newFakeResolver(entry models.GeoEntry) *fakeResolver {
	r := &fakeResolver{}
	r.entry.Store(entry)
	return r
}

func (r *fakeResolver) ReverseGeocode(ctx context.Context, lat, lng float64) (models.GeoEntry, error) {
	atomic.AddInt32(&r.calls, 1)
	return r.entry.Load().(models.GeoEntry), nil
}

func (r *fakeResolver) Calls() int32 {
	return atomic.LoadInt32(&r.calls)
}

func spawnGeocodeActor(t *testing.T, resolver *fakeResolver, kv storage.KV, max int) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGeocodeActor(resolver, kv, max)
	})
	return system, system.Root.Spawn(props)
}

func resolveCity(t *testing.T, system *actor.ActorSystem, pid *actor.PID, lat, lng float64) string {
	t.Helper()
	future := system.Root.RequestFuture(pid, &ResolveCityMsg{Lat: lat, Lng: lng}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	city, ok := result.(string)
	assert.True(t, ok)
	return city
}

func TestGridKey(t *testing.T) {
	assert.Equal(t, "37.776,-122.419", GridKey(37.77649, -122.41949))
	// Nearby coordinates share a cell.
	assert.Equal(t, GridKey(37.7761, -122.4192), GridKey(37.7764, -122.4189))
}

func TestGeocodeActorCachesPerCell(t *testing.T) {
	resolver := newFakeResolver(models.GeoEntry{City: "San Francisco", CountryCode: "US"})
	system, pid := spawnGeocodeActor(t, resolver, nil, 0)

	city := resolveCity(t, system, pid, 37.7761, -122.4192)
	assert.Equal(t, "San Francisco, US", city)
	assert.Equal(t, int32(1), resolver.Calls())

	// Same grid cell: served from cache, no second lookup.
	city = resolveCity(t, system, pid, 37.7764, -122.4189)
	assert.Equal(t, "San Francisco, US", city)
	assert.Equal(t, int32(1), resolver.Calls())

	// A different cell triggers a fresh lookup.
	resolveCity(t, system, pid, 40.7128, -74.0060)
	assert.Equal(t, int32(2), resolver.Calls())
}

func TestGeocodeActorRetriesEmptyResults(t *testing.T) {
	resolver := newFakeResolver(models.GeoEntry{})
	system, pid := spawnGeocodeActor(t, resolver, nil, 0)

	city := resolveCity(t, system, pid, 37.7761, -122.4192)
	assert.Equal(t, "", city)
	assert.Equal(t, int32(1), resolver.Calls())

	// An empty cached entry does not satisfy the next lookup.
	resolver.entry.Store(models.GeoEntry{City: "San Francisco", CountryCode: "US"})
	city = resolveCity(t, system, pid, 37.7761, -122.4192)
	assert.Equal(t, "San Francisco, US", city)
	assert.Equal(t, int32(2), resolver.Calls())
}

func TestGeocodeActorWithoutResolver(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGeocodeActor(nil, nil, 0)
	})
	pid := system.Root.Spawn(props)

	city := resolveCity(t, system, pid, 37.7761, -122.4192)
	assert.Equal(t, "", city)
}

func TestGeocodeActorEvictsOldestBeyondBound(t *testing.T) {
	resolver := newFakeResolver(models.GeoEntry{City: "Somewhere", CountryCode: "XX"})
	system, pid := spawnGeocodeActor(t, resolver, nil, 2)

	coords := [][2]float64{
		{37.0, -122.0},
		{38.0, -122.0},
		{39.0, -122.0},
		{40.0, -122.0},
	}
	for _, c := range coords {
		resolveCity(t, system, pid, c[0], c[1])
	}

	future := system.Root.RequestFuture(pid, &CacheSizeMsg{}, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	assert.LessOrEqual(t, result.(int), 2)
}

func TestGeocodeActorPersistsCache(t *testing.T) {
	kv := storage.NewMemoryStore()
	resolver := newFakeResolver(models.GeoEntry{City: "Lisbon", CountryCode: "PT"})

	system, pid := spawnGeocodeActor(t, resolver, kv, 0)
	resolveCity(t, system, pid, 38.7223, -9.1393)

	// A fresh actor over the same store serves the entry without a lookup.
	system2, pid2 := spawnGeocodeActor(t, resolver, kv, 0)
	city := resolveCity(t, system2, pid2, 38.7223, -9.1393)
	assert.Equal(t, "Lisbon, PT", city)
	assert.Equal(t, int32(1), resolver.Calls())
}
