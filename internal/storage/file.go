package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"pin-drop/internal/models"
)

const pinsFileName = "pins.json"

// FileStore keeps the pin snapshot and KV blobs as JSON files under a
// per-device data directory. Writes go through a temp file and rename so a
// crash mid-flush never truncates the previous snapshot.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, pinsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pin snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse pin snapshot: %w", err)
	}
	return &snap, nil
}

func (s *FileStore) Save(ctx context.Context, pins []models.Pin) error {
	snap, err := EncodeSnapshot(pins)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.writeAtomic(pinsFileName, data)
}

func (s *FileStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, namespace+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s blob: %w", namespace, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, namespace string, blob []byte) error {
	return s.writeAtomic(namespace+".json", blob)
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
