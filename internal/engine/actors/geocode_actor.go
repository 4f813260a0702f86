package actors

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"pin-drop/internal/geocode"
	"pin-drop/internal/models"
	"pin-drop/internal/storage"
)

// Message types for geocode operations
type (
	// ResolveCityMsg answers with the display string for the coordinate's
	// grid cell, or "" when nothing resolved.
	ResolveCityMsg struct {
		Lat float64
		Lng float64
	}

	CacheSizeMsg struct{}
)

// GridKey rounds a coordinate to the 3-decimal (~111m) grid used to key the
// geocode cache, so nearby lookups share one entry.
func GridKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lng)
}

// GeocodeActor memoizes reverse-geocode lookups per grid cell. Entries are
// persisted on every upsert and the cache is bounded: once it exceeds max,
// the entries with the oldest UpdatedAt are evicted. Place names for a cell
// change rarely, so eviction only matters under heavy roaming.
type GeocodeActor struct {
	cache    map[string]models.GeoEntry
	max      int
	resolver geocode.Resolver
	kv       storage.KV
}

// NewGeocodeActor creates a geocode cache actor. A nil resolver disables
// lookups; only previously persisted entries are served. max <= 0 picks a
// sane default bound.
func NewGeocodeActor(resolver geocode.Resolver, kv storage.KV, max int) actor.Actor {
	if max <= 0 {
		max = 2048
	}
	return &GeocodeActor{
		cache:    make(map[string]models.GeoEntry),
		max:      max,
		resolver: resolver,
		kv:       kv,
	}
}

func (a *GeocodeActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.load()

	case *ResolveCityMsg:
		ctx.Respond(a.resolveCity(msg.Lat, msg.Lng))

	case *CacheSizeMsg:
		ctx.Respond(len(a.cache))
	}
}

func (a *GeocodeActor) resolveCity(lat, lng float64) string {
	key := GridKey(lat, lng)

	// An entry that resolved to nothing does not satisfy a lookup; the
	// source retries those, and so do we.
	if entry, ok := a.cache[key]; ok {
		if disp := entry.CityDisplay(); disp != "" {
			return disp
		}
	}

	if a.resolver == nil {
		return ""
	}

	lookupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := a.resolver.ReverseGeocode(lookupCtx, lat, lng)
	if err != nil {
		log.Printf("GeocodeActor: lookup failed for %s: %v", key, err)
		return ""
	}
	if entry.UpdatedAt == 0 {
		entry.UpdatedAt = time.Now().UnixMilli()
	}

	// Store the result even when every field is empty: the upsert records
	// the attempt timestamp.
	a.cache[key] = entry
	a.evict()
	a.persist()

	return entry.CityDisplay()
}

// evict drops the oldest entries until the cache is back under its bound.
func (a *GeocodeActor) evict() {
	for len(a.cache) > a.max {
		oldestKey := ""
		oldestAt := int64(0)
		for k, e := range a.cache {
			if oldestKey == "" || e.UpdatedAt < oldestAt {
				oldestKey = k
				oldestAt = e.UpdatedAt
			}
		}
		delete(a.cache, oldestKey)
	}
}

type persistedGeocache struct {
	Cache map[string]models.GeoEntry `json:"cache"`
}

func (a *GeocodeActor) load() {
	if a.kv == nil {
		return
	}
	blob, err := a.kv.Get(context.Background(), storage.NamespaceGeocache)
	if err != nil {
		log.Printf("GeocodeActor: cache load failed, starting empty: %v", err)
		return
	}
	if blob == nil {
		return
	}
	var p persistedGeocache
	if err := json.Unmarshal(blob, &p); err != nil {
		log.Printf("GeocodeActor: malformed cache blob, starting empty: %v", err)
		return
	}
	if p.Cache != nil {
		a.cache = p.Cache
		a.evict()
	}
}

func (a *GeocodeActor) persist() {
	if a.kv == nil {
		return
	}
	blob, err := json.Marshal(persistedGeocache{Cache: a.cache})
	if err != nil {
		return
	}
	if err := a.kv.Put(context.Background(), storage.NamespaceGeocache, blob); err != nil {
		log.Printf("GeocodeActor: cache write failed: %v", err)
	}
}
