package gitstore

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryoseto/quadra/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	return NewWithRepo(repo, "quadra")
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	snap := domain.Snapshot{
		Tasks:  []*domain.Task{{ID: "t-1", Kind: domain.KindStandard, Quadrant: 1, Title: "x"}},
		Tags:   []*domain.Tag{{ID: "g-1", Name: "work"}},
		NextID: 2,
	}
	require.NoError(t, s.SaveAll(snap))

	got, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "t-1", got.Tasks[0].ID)
	assert.Equal(t, "x", got.Tasks[0].Title)
	assert.Equal(t, 2, got.NextID)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveAll(domain.Snapshot{
		Tasks: []*domain.Task{{ID: "t-1", Quadrant: 1}}, NextID: 2,
	}))
	require.NoError(t, s.SaveAll(domain.Snapshot{NextID: 3}))

	got, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Equal(t, 3, got.NextID)
}

func TestStore_LoadWithoutSnapshotRef(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Zero(t, got.NextID)
}
