package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunContentTests(test *testing.T) {
	test.Run("UpdateContent_ByOwner", suite.TestUpdateContent_ByOwner)
	test.Run("UpdateContent_AdjustsStorageBytes", suite.TestUpdateContent_AdjustsStorageBytes)
	test.Run("UpdateContent_ByWriteGrantee", suite.TestUpdateContent_ByWriteGrantee)
	test.Run("UpdateContent_DeniedForReadGrantee", suite.TestUpdateContent_DeniedForReadGrantee)
	test.Run("UpdateContent_DeniedForStranger", suite.TestUpdateContent_DeniedForStranger)
	test.Run("UpdateContent_DeniedAfterExpiry", suite.TestUpdateContent_DeniedAfterExpiry)
	test.Run("UpdateContent_MissingFile", suite.TestUpdateContent_MissingFile)
	test.Run("UpdateContent_RejectsInvalidNote", suite.TestUpdateContent_RejectsInvalidNote)
}

// TestUpdateContent_ByOwner verifies the record mutation and the appended
// version entry.
func (suite *StoreTestSuite) TestUpdateContent_ByOwner(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	clock.Set(200)
	newVersion, err := store.UpdateContent(ctx, "alice", id, Fingerprint('b'), 2048, "reworked layout")
	require.NoError(test, err)
	assert.Equal(test, uint32(2), newVersion)

	file, _, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, uint32(2), file.CurrentVersion)
	assert.Equal(test, Fingerprint('b'), file.Fingerprint)
	assert.Equal(test, uint64(2048), file.Size)
	assert.Equal(test, registry.LogicalTime(100), file.CreatedAt)
	assert.Equal(test, registry.LogicalTime(200), file.ModifiedAt)

	version, err := store.GetVersion(ctx, "alice", id, 2)
	require.NoError(test, err)
	assert.Equal(test, Fingerprint('b'), version.Fingerprint)
	assert.Equal(test, uint64(2048), version.Size)
	assert.Equal(test, registry.AccountID("alice"), version.ChangedBy)
	assert.Equal(test, registry.LogicalTime(200), version.ChangedAt)
	assert.Equal(test, "reworked layout", version.Note)
}

// TestUpdateContent_AdjustsStorageBytes verifies the owner byte aggregates
// follow content growth and shrinkage.
func (suite *StoreTestSuite) TestUpdateContent_AdjustsStorageBytes(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Size = 1000
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "alice", id, Fingerprint('b'), 4000, "expanded")
	require.NoError(test, err)

	m, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(4000), m.StorageBytes)

	_, err = store.UpdateContent(ctx, "alice", id, Fingerprint('c'), 500, "trimmed")
	require.NoError(test, err)

	m, err = store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(500), m.StorageBytes)
	assert.Equal(test, uint64(1), m.FileCount)
}

// TestUpdateContent_ByWriteGrantee verifies write grants authorize content
// updates and the grantee is recorded as the change author, while byte
// accounting stays with the owner.
func (suite *StoreTestSuite) TestUpdateContent_ByWriteGrantee(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Size = 1000
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, nil)
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "bob", id, Fingerprint('b'), 3000, "fixed data")
	require.NoError(test, err)

	version, err := store.GetVersion(ctx, "alice", id, 2)
	require.NoError(test, err)
	assert.Equal(test, registry.AccountID("bob"), version.ChangedBy)

	owner, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(3000), owner.StorageBytes)

	grantee, err := store.GetStorageMetrics(ctx, "bob")
	require.NoError(test, err)
	assert.Zero(test, grantee.StorageBytes)
}

// TestUpdateContent_DeniedForReadGrantee verifies a read-only grant does not
// authorize content updates.
func (suite *StoreTestSuite) TestUpdateContent_DeniedForReadGrantee(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, nil)
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "bob", id, Fingerprint('b'), 10, "attempt")
	requireCode(test, err, registry.ErrAccessDenied)
}

// TestUpdateContent_DeniedForStranger verifies accounts with no grant are
// rejected and nothing changes.
func (suite *StoreTestSuite) TestUpdateContent_DeniedForStranger(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "mallory", id, Fingerprint('b'), 10, "attempt")
	requireCode(test, err, registry.ErrAccessDenied)

	file, _, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, uint32(1), file.CurrentVersion)
	assert.Equal(test, Fingerprint('a'), file.Fingerprint)
}

// TestUpdateContent_DeniedAfterExpiry verifies a write grant stops
// authorizing updates once the clock reaches its expiry.
func (suite *StoreTestSuite) TestUpdateContent_DeniedAfterExpiry(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, logicalTime(150))
	require.NoError(test, err)

	clock.Set(149)
	_, err = store.UpdateContent(ctx, "bob", id, Fingerprint('b'), 10, "in time")
	require.NoError(test, err)

	clock.Set(150)
	_, err = store.UpdateContent(ctx, "bob", id, Fingerprint('c'), 10, "too late")
	requireCode(test, err, registry.ErrAccessDenied)
}

// TestUpdateContent_MissingFile verifies updates against unknown files fail
// with FileNotFound.
func (suite *StoreTestSuite) TestUpdateContent_MissingFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	_, err := store.UpdateContent(ctx, "alice", 99, Fingerprint('b'), 10, "nothing here")
	requireCode(test, err, registry.ErrFileNotFound)
}

// TestUpdateContent_RejectsInvalidNote verifies the change note follows
// description rules.
func (suite *StoreTestSuite) TestUpdateContent_RejectsInvalidNote(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "alice", id, Fingerprint('b'), 10, "")
	requireCode(test, err, registry.ErrInvalidParameters)

	file, _, err := store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
	assert.Equal(test, uint32(1), file.CurrentVersion)
}
