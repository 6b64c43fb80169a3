// Package gitstore provides a Git plumbing-based implementation of the
// persistence sink. Snapshots are stored as YAML blobs under a dedicated
// ref namespace, so the board travels with the repository without touching
// any branch.
package gitstore

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/ryoseto/quadra/internal/domain"
)

// Store implements domain.Persistence using Git refs and blobs.
//
// Data structure:
//
//	refs/<namespace>/snapshot → blob (snapshot YAML)
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "quadra"
	mu        sync.RWMutex
}

// New creates a new Store for the repository at repoPath.
func New(repoPath, namespace string) (*Store, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return &Store{repo: repo, namespace: namespace}, nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return &Store{repo: repo, namespace: namespace}
}

// snapshotRef returns the ref name for the snapshot blob.
func (s *Store) snapshotRef() plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/" + s.namespace + "/snapshot")
}

// SaveAll persists the full snapshot, replacing any previous one.
func (s *Store) SaveAll(snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.snapshotRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set snapshot ref: %w", err)
	}
	return nil
}

// LoadAll restores the last persisted snapshot. Returns a zero snapshot if
// the ref does not exist yet.
func (s *Store) LoadAll() (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.snapshotRef(), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("get snapshot ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// writeBlob stores raw data as a blob object.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads raw data from a blob object.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data := make([]byte, blob.Size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// Ensure Store implements Persistence.
var _ domain.Persistence = (*Store)(nil)
