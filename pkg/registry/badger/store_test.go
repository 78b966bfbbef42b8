package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
	storetesting "github.com/fileledger/fileledger/pkg/registry/testing"
)

func newTestStore(t *testing.T, maxFiles uint64, clock registry.Clock) *BadgerStore {
	t.Helper()

	store, err := New(context.Background(), Config{
		DBPath:             t.TempDir(),
		AdminAccount:       storetesting.AdminAccount,
		MaxFilesPerAccount: maxFiles,
		Clock:              clock,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(test *testing.T) (registry.Store, *registry.ManualClock) {
			clock := registry.NewManualClock(1)
			return newTestStore(test, 0, clock), clock
		},
		NewStoreWithLimit: func(test *testing.T, maxFiles uint64) registry.Store {
			return newTestStore(test, maxFiles, registry.NewManualClock(1))
		},
	}

	suite.Run(t)
}

// TestBadgerStore_PersistsAcrossReopen verifies records, sequence state, and
// aggregates survive a close and reopen of the same database directory.
func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clock := registry.NewManualClock(100)

	config := Config{
		DBPath:       dir,
		AdminAccount: storetesting.AdminAccount,
		Clock:        clock,
	}

	store, err := New(ctx, config)
	require.NoError(t, err)

	id, err := store.Upload(ctx, storetesting.DefaultUpload("alice"))
	require.NoError(t, err)
	require.NoError(t, store.GrantAccess(ctx, "alice", id, "bob", true, nil))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, config)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	file, tags, err := reopened.GetFileInfo(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, registry.AccountID("alice"), file.Owner)
	assert.Equal(t, storetesting.DefaultUpload("alice").Tags, tags)

	ok, err := reopened.HasWriteAccess(ctx, "bob", id)
	require.NoError(t, err)
	assert.True(t, ok)

	m, err := reopened.GetStorageMetrics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.FileCount)

	// The sequence must continue where it left off.
	next, err := reopened.Upload(ctx, storetesting.DefaultUpload("bob"))
	require.NoError(t, err)
	assert.Equal(t, id+1, next)
}
