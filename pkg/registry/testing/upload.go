package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunUploadTests(test *testing.T) {
	test.Run("Upload_AssignsSequentialIDs", suite.TestUpload_AssignsSequentialIDs)
	test.Run("Upload_RecordsMetadata", suite.TestUpload_RecordsMetadata)
	test.Run("Upload_CreatesInitialVersion", suite.TestUpload_CreatesInitialVersion)
	test.Run("Upload_UpdatesOwnerMetrics", suite.TestUpload_UpdatesOwnerMetrics)
	test.Run("Upload_RejectsInvalidParameters", suite.TestUpload_RejectsInvalidParameters)
	test.Run("Upload_RejectsAdministratorOwner", suite.TestUpload_RejectsAdministratorOwner)
	test.Run("Upload_EnforcesFileCountQuota", suite.TestUpload_EnforcesFileCountQuota)
	test.Run("Upload_QuotaIsPerAccount", suite.TestUpload_QuotaIsPerAccount)
}

// TestUpload_AssignsSequentialIDs verifies that file IDs form a dense
// sequence starting at 1, across different owners.
func (suite *StoreTestSuite) TestUpload_AssignsSequentialIDs(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	first, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)
	second, err := store.Upload(ctx, DefaultUpload("bob"))
	require.NoError(test, err)
	third, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	assert.Equal(test, registry.FileID(1), first)
	assert.Equal(test, registry.FileID(2), second)
	assert.Equal(test, registry.FileID(3), third)
}

// TestUpload_RecordsMetadata verifies the created record and tag set.
func (suite *StoreTestSuite) TestUpload_RecordsMetadata(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(500)

	params := DefaultUpload("alice")
	params.Private = true
	params.Encrypted = true

	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	file, tags, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)

	assert.Equal(test, id, file.ID)
	assert.Equal(test, registry.AccountID("alice"), file.Owner)
	assert.Equal(test, params.Name, file.Name)
	assert.Equal(test, params.Fingerprint, file.Fingerprint)
	assert.Equal(test, params.Size, file.Size)
	assert.Equal(test, params.MIMEType, file.MIMEType)
	assert.Equal(test, params.Description, file.Description)
	assert.True(test, file.Private)
	assert.True(test, file.Encrypted)
	assert.Equal(test, uint32(1), file.CurrentVersion)
	assert.Equal(test, registry.LogicalTime(500), file.CreatedAt)
	assert.Equal(test, registry.LogicalTime(500), file.ModifiedAt)
	assert.Equal(test, params.Tags, tags)
}

// TestUpload_CreatesInitialVersion verifies that version 1 is written
// atomically with the record.
func (suite *StoreTestSuite) TestUpload_CreatesInitialVersion(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(42)

	params := DefaultUpload("alice")
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	history, err := store.GetVersionHistory(ctx, "alice", id)
	require.NoError(test, err)
	require.Len(test, history, 1)

	initial := history[0]
	assert.Equal(test, id, initial.FileID)
	assert.Equal(test, uint32(1), initial.Version)
	assert.Equal(test, params.Fingerprint, initial.Fingerprint)
	assert.Equal(test, params.Size, initial.Size)
	assert.Equal(test, registry.AccountID("alice"), initial.ChangedBy)
	assert.Equal(test, registry.LogicalTime(42), initial.ChangedAt)
	assert.Equal(test, registry.InitialUploadNote, initial.Note)
}

// TestUpload_UpdatesOwnerMetrics verifies lazy metric creation and
// aggregation across uploads.
func (suite *StoreTestSuite) TestUpload_UpdatesOwnerMetrics(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(10)

	first := DefaultUpload("alice")
	first.Size = 100
	_, err := store.Upload(ctx, first)
	require.NoError(test, err)

	clock.Set(20)
	second := DefaultUpload("alice")
	second.Size = 250
	_, err = store.Upload(ctx, second)
	require.NoError(test, err)

	m, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(2), m.FileCount)
	assert.Equal(test, uint64(350), m.StorageBytes)
	assert.Equal(test, registry.LogicalTime(20), m.LastActivity)
}

// TestUpload_RejectsInvalidParameters verifies input validation failures
// leave the store untouched.
func (suite *StoreTestSuite) TestUpload_RejectsInvalidParameters(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Fingerprint = "too-short"

	_, err := store.Upload(ctx, params)
	requireCode(test, err, registry.ErrInvalidParameters)

	m, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Zero(test, m.FileCount)
}

// TestUpload_RejectsAdministratorOwner verifies the designated administrator
// cannot own files.
func (suite *StoreTestSuite) TestUpload_RejectsAdministratorOwner(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	_, err := store.Upload(ctx, DefaultUpload(AdminAccount))
	requireCode(test, err, registry.ErrInvalidParameters)
}

// TestUpload_EnforcesFileCountQuota verifies the per-account file limit and
// that a rejected upload does not consume a file ID.
func (suite *StoreTestSuite) TestUpload_EnforcesFileCountQuota(test *testing.T) {
	store := suite.NewStoreWithLimit(test, 2)
	ctx := context.Background()

	_, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)
	_, err = store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	_, err = store.Upload(ctx, DefaultUpload("alice"))
	requireCode(test, err, registry.ErrStorageExceeded)

	// The failed upload must not leave a gap in the sequence.
	id, err := store.Upload(ctx, DefaultUpload("bob"))
	require.NoError(test, err)
	assert.Equal(test, registry.FileID(3), id)
}

// TestUpload_QuotaIsPerAccount verifies one account hitting its limit does
// not affect others.
func (suite *StoreTestSuite) TestUpload_QuotaIsPerAccount(test *testing.T) {
	store := suite.NewStoreWithLimit(test, 1)
	ctx := context.Background()

	_, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)
	_, err = store.Upload(ctx, DefaultUpload("alice"))
	requireCode(test, err, registry.ErrStorageExceeded)

	_, err = store.Upload(ctx, DefaultUpload("bob"))
	require.NoError(test, err)
}
