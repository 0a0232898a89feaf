package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// snapshotFile is the on-disk layout of a saved state.
type snapshotFile struct {
	Timestamp time.Time `json:"timestamp"`
	State     StateData `json:"state"`
}

// Snapshot persists the store state to a zstd-compressed JSON file.
type Snapshot struct {
	filePath string
	mu       sync.Mutex
	logger   Logger
}

// NewSnapshot creates a snapshot bound to filePath.
func NewSnapshot(filePath string, logger Logger) *Snapshot {
	return &Snapshot{
		filePath: filePath,
		logger:   logger,
	}
}

// Load reads the saved state.
// Returns false without error when no snapshot exists yet.
func (s *Snapshot) Load() (StateData, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.filePath)
	if os.IsNotExist(err) {
		s.logger.Printf("Snapshot: no snapshot found at %s", s.filePath)
		return StateData{}, false, nil
	}
	if err != nil {
		return StateData{}, false, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return StateData{}, false, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer dec.Close()

	var file snapshotFile
	if err := json.NewDecoder(dec).Decode(&file); err != nil {
		return StateData{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.logger.Printf("Snapshot: loaded %s (age: %v, posts: %d)",
		s.filePath, time.Since(file.Timestamp).Round(time.Second), len(file.State.AllPosts))

	return file.State, true, nil
}

// Save writes data, replacing any previous snapshot atomically.
func (s *Snapshot) Save(data StateData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := writeCompressed(tempFile, snapshotFile{Timestamp: time.Now(), State: data}); err != nil {
		os.Remove(tempFile)
		return err
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	s.logger.Printf("Snapshot: saved %s (posts: %d)", s.filePath, len(data.AllPosts))
	return nil
}

// Clear removes the snapshot file.
func (s *Snapshot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

func writeCompressed(path string, file snapshotFile) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to open zstd stream: %w", err)
	}

	if err := json.NewEncoder(enc).Encode(file); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return f.Sync()
}
