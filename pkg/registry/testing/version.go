package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunVersionTests(test *testing.T) {
	test.Run("VersionHistory_ContiguousAscending", suite.TestVersionHistory_ContiguousAscending)
	test.Run("VersionHistory_MissingFile", suite.TestVersionHistory_MissingFile)
	test.Run("VersionHistory_ImmutableCopy", suite.TestVersionHistory_ImmutableCopy)
	test.Run("GetVersion_ReturnsEntry", suite.TestGetVersion_ReturnsEntry)
	test.Run("GetVersion_MissingVersion", suite.TestGetVersion_MissingVersion)
}

// TestVersionHistory_ContiguousAscending verifies the history is a gapless
// ascending run from 1 and the record's current version matches its head.
func (suite *StoreTestSuite) TestVersionHistory_ContiguousAscending(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	for i := 0; i < 3; i++ {
		_, err = store.UpdateContent(ctx, "alice", id, Fingerprint(byte('b'+i)), uint64(100*(i+1)), fmt.Sprintf("revision %d", i+2))
		require.NoError(test, err)
	}

	history, err := store.GetVersionHistory(ctx, "alice", id)
	require.NoError(test, err)
	require.Len(test, history, 4)

	for i, entry := range history {
		assert.Equal(test, uint32(i+1), entry.Version)
		assert.Equal(test, id, entry.FileID)
	}

	file, _, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, history[len(history)-1].Version, file.CurrentVersion)
}

// TestVersionHistory_MissingFile verifies history lookups against unknown
// files fail with FileNotFound.
func (suite *StoreTestSuite) TestVersionHistory_MissingFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	_, err := store.GetVersionHistory(ctx, "alice", 13)
	requireCode(test, err, registry.ErrFileNotFound)
}

// TestVersionHistory_ImmutableCopy verifies mutating a returned history does
// not leak into the store.
func (suite *StoreTestSuite) TestVersionHistory_ImmutableCopy(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	history, err := store.GetVersionHistory(ctx, "alice", id)
	require.NoError(test, err)
	history[0].Note = "tampered"

	fresh, err := store.GetVersionHistory(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, registry.InitialUploadNote, fresh[0].Note)
}

// TestGetVersion_ReturnsEntry verifies single-version lookups, including old
// versions after later updates.
func (suite *StoreTestSuite) TestGetVersion_ReturnsEntry(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "alice", id, Fingerprint('b'), 2000, "second pass")
	require.NoError(test, err)

	first, err := store.GetVersion(ctx, "alice", id, 1)
	require.NoError(test, err)
	assert.Equal(test, params.Fingerprint, first.Fingerprint)
	assert.Equal(test, params.Size, first.Size)

	second, err := store.GetVersion(ctx, "alice", id, 2)
	require.NoError(test, err)
	assert.Equal(test, Fingerprint('b'), second.Fingerprint)
}

// TestGetVersion_MissingVersion verifies out-of-range versions on an existing
// file fail with FileNotFound.
func (suite *StoreTestSuite) TestGetVersion_MissingVersion(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	_, err = store.GetVersion(ctx, "alice", id, 0)
	requireCode(test, err, registry.ErrFileNotFound)

	_, err = store.GetVersion(ctx, "alice", id, 2)
	requireCode(test, err, registry.ErrFileNotFound)

	_, err = store.GetVersion(ctx, "alice", 99, 1)
	requireCode(test, err, registry.ErrFileNotFound)
}
