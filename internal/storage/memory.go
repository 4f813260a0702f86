package storage

import (
	"context"
	"sync"

	"pin-drop/internal/models"
)

// MemoryStore keeps snapshots and blobs in process memory. It backs
// STORAGE_TYPE=none (persistence skipped, seeding only) and doubles as the
// test store, where Saves() exposes how many flushes actually happened.
type MemoryStore struct {
	mu    sync.Mutex
	snap  *Snapshot
	blobs map[string][]byte
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, pins []models.Pin) error {
	snap, err := EncodeSnapshot(pins)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.saves++
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blobs[namespace], nil
}

func (s *MemoryStore) Put(ctx context.Context, namespace string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	s.blobs[namespace] = cp
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Saves reports how many snapshot writes have completed.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// SetSnapshot pre-loads a snapshot, standing in for previously persisted
// state in tests.
func (s *MemoryStore) SetSnapshot(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
