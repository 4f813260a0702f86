// Package storage persists the engine's state: a single versioned JSON
// snapshot for the pin list, plus namespaced key-value blobs for the
// smaller stores (profile, social graph, geocode cache, theme).
package storage

import (
	"context"
	"encoding/json"

	"pin-drop/internal/models"
)

// SnapshotVersion is the current on-disk pin snapshot version. Loading
// treats unknown or missing versions identically to the current one
// (best-effort forward compatibility); per-record validation filters out
// whatever does not survive.
const SnapshotVersion = 1

// Well-known KV namespaces.
const (
	NamespaceProfile  = "pindrop-profile"
	NamespaceSocial   = "pindrop-social"
	NamespaceGeocache = "pindrop-geocache"
	NamespaceTheme    = "pindrop-theme"
)

// Snapshot is the persisted pin document: { version, pins[] }. Pins stay
// raw so hydration can validate record-by-record and drop only the bad ones.
type Snapshot struct {
	Version int               `json:"version"`
	Pins    []json.RawMessage `json:"pins"`
}

// Snapshotter reads and rewrites the full pin snapshot. Save overwrites any
// previous content; there is no separate index and no compaction.
type Snapshotter interface {
	// Load returns the persisted snapshot, or (nil, nil) when nothing has
	// been persisted yet.
	Load(ctx context.Context) (*Snapshot, error)
	// Save serializes the full pin list, replacing the previous snapshot.
	Save(ctx context.Context, pins []models.Pin) error
	Close(ctx context.Context) error
}

// KV stores one JSON blob per namespace. Get returns (nil, nil) when the
// namespace has never been written.
type KV interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Put(ctx context.Context, namespace string, blob []byte) error
}

// EncodeSnapshot marshals pins into the persisted snapshot document.
func EncodeSnapshot(pins []models.Pin) (*Snapshot, error) {
	snap := &Snapshot{
		Version: SnapshotVersion,
		Pins:    make([]json.RawMessage, 0, len(pins)),
	}
	for _, p := range pins {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		snap.Pins = append(snap.Pins, data)
	}
	return snap, nil
}
