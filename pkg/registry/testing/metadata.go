package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunMetadataTests(test *testing.T) {
	test.Run("UpdateMetadata_PartialPatch", suite.TestUpdateMetadata_PartialPatch)
	test.Run("UpdateMetadata_ReplacesTagsWholesale", suite.TestUpdateMetadata_ReplacesTagsWholesale)
	test.Run("UpdateMetadata_ClearsTags", suite.TestUpdateMetadata_ClearsTags)
	test.Run("UpdateMetadata_EmptyPatch", suite.TestUpdateMetadata_EmptyPatch)
	test.Run("UpdateMetadata_OwnerOnly", suite.TestUpdateMetadata_OwnerOnly)
	test.Run("UpdateMetadata_LeavesContentStateAlone", suite.TestUpdateMetadata_LeavesContentStateAlone)
	test.Run("UpdateMetadata_MissingFile", suite.TestUpdateMetadata_MissingFile)
}

func strPtr(s string) *string { return &s }

// TestUpdateMetadata_PartialPatch verifies absent fields are left unchanged.
func (suite *StoreTestSuite) TestUpdateMetadata_PartialPatch(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.UpdateMetadata(ctx, "alice", id, registry.RecordPatch{Name: strPtr("renamed.pdf")})
	require.NoError(test, err)

	file, tags, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, "renamed.pdf", file.Name)
	assert.Equal(test, params.Description, file.Description)
	assert.Equal(test, params.Tags, tags)
}

// TestUpdateMetadata_ReplacesTagsWholesale verifies a present tag list never
// merges with the previous set.
func (suite *StoreTestSuite) TestUpdateMetadata_ReplacesTagsWholesale(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	replacement := []string{"archive"}
	err = store.UpdateMetadata(ctx, "alice", id, registry.RecordPatch{Tags: &replacement})
	require.NoError(test, err)

	_, tags, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, []string{"archive"}, tags)
}

// TestUpdateMetadata_ClearsTags verifies an explicitly empty tag list clears
// the set, which is different from omitting the field.
func (suite *StoreTestSuite) TestUpdateMetadata_ClearsTags(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	empty := []string{}
	err = store.UpdateMetadata(ctx, "alice", id, registry.RecordPatch{Tags: &empty})
	require.NoError(test, err)

	_, tags, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Empty(test, tags)
}

// TestUpdateMetadata_EmptyPatch verifies an empty patch succeeds and changes
// nothing observable.
func (suite *StoreTestSuite) TestUpdateMetadata_EmptyPatch(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.UpdateMetadata(ctx, "alice", id, registry.RecordPatch{})
	require.NoError(test, err)

	file, tags, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, params.Name, file.Name)
	assert.Equal(test, params.Description, file.Description)
	assert.Equal(test, params.Tags, tags)
}

// TestUpdateMetadata_OwnerOnly verifies even write grantees cannot edit
// metadata.
func (suite *StoreTestSuite) TestUpdateMetadata_OwnerOnly(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, nil)
	require.NoError(test, err)

	err = store.UpdateMetadata(ctx, "bob", id, registry.RecordPatch{Name: strPtr("hijacked")})
	requireCode(test, err, registry.ErrAccessDenied)
}

// TestUpdateMetadata_LeavesContentStateAlone verifies metadata edits never
// touch fingerprint, size, version history, or byte aggregates.
func (suite *StoreTestSuite) TestUpdateMetadata_LeavesContentStateAlone(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	params := DefaultUpload("alice")
	params.Size = 777
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	clock.Set(200)
	err = store.UpdateMetadata(ctx, "alice", id, registry.RecordPatch{Description: strPtr("new words")})
	require.NoError(test, err)

	file, _, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, uint32(1), file.CurrentVersion)
	assert.Equal(test, params.Fingerprint, file.Fingerprint)
	assert.Equal(test, uint64(777), file.Size)
	assert.Equal(test, registry.LogicalTime(100), file.ModifiedAt, "metadata edits do not touch ModifiedAt")

	history, err := store.GetVersionHistory(ctx, "alice", id)
	require.NoError(test, err)
	assert.Len(test, history, 1)

	m, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(777), m.StorageBytes)
}

// TestUpdateMetadata_MissingFile verifies edits against unknown files fail
// with FileNotFound.
func (suite *StoreTestSuite) TestUpdateMetadata_MissingFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	err := store.UpdateMetadata(ctx, "alice", 42, registry.RecordPatch{Name: strPtr("ghost")})
	requireCode(test, err, registry.ErrFileNotFound)
}
