// Package jsonstore provides a JSON file-based implementation of the
// persistence sink.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ryoseto/quadra/internal/domain"
)

// Store implements domain.Persistence using a single JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path. The file does not need
// to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// SaveAll persists the full snapshot, replacing any previous one.
func (s *Store) SaveAll(snap domain.Snapshot) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return s.write(snap)
}

// LoadAll restores the last persisted snapshot. Returns a zero snapshot if
// nothing has been persisted yet.
func (s *Store) LoadAll() (domain.Snapshot, error) {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer s.releaseLock(lock)

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read store file: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse store file: %w", err)
	}
	return snap, nil
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) write(snap domain.Snapshot) error {
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements Persistence.
var _ domain.Persistence = (*Store)(nil)
