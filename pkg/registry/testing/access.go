package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunAccessTests(test *testing.T) {
	test.Run("ReadAccess_PublicFile", suite.TestReadAccess_PublicFile)
	test.Run("ReadAccess_PrivateFile", suite.TestReadAccess_PrivateFile)
	test.Run("ReadAccess_Grant", suite.TestReadAccess_Grant)
	test.Run("WriteAccess_Grant", suite.TestWriteAccess_Grant)
	test.Run("WriteAccess_IgnoresOwnership", suite.TestWriteAccess_IgnoresOwnership)
	test.Run("Grant_ExpiryBoundary", suite.TestGrant_ExpiryBoundary)
	test.Run("Grant_ReplacedWholesale", suite.TestGrant_ReplacedWholesale)
	test.Run("Grant_OwnerOnly", suite.TestGrant_OwnerOnly)
	test.Run("Grant_RejectsInvalidTargets", suite.TestGrant_RejectsInvalidTargets)
	test.Run("Grant_RejectsPastExpiry", suite.TestGrant_RejectsPastExpiry)
	test.Run("Access_MissingFile", suite.TestAccess_MissingFile)
	test.Run("Queries_GatedByReadAccess", suite.TestQueries_GatedByReadAccess)
	test.Run("Queries_GrantConfersRead", suite.TestQueries_GrantConfersRead)
}

// TestReadAccess_PublicFile verifies non-private files are readable by
// anyone, including accounts the store has never seen.
func (suite *StoreTestSuite) TestReadAccess_PublicFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	for _, account := range []registry.AccountID{"alice", "bob", "nobody-special"} {
		ok, err := store.HasReadAccess(ctx, account, id)
		require.NoError(test, err)
		assert.True(test, ok, "account %s should read a public file", account)
	}
}

// TestReadAccess_PrivateFile verifies private files are visible only to the
// owner absent grants.
func (suite *StoreTestSuite) TestReadAccess_PrivateFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	ok, err := store.HasReadAccess(ctx, "alice", id)
	require.NoError(test, err)
	assert.True(test, ok)

	ok, err = store.HasReadAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok)
}

// TestReadAccess_Grant verifies every grant confers read, regardless of the
// write flag.
func (suite *StoreTestSuite) TestReadAccess_Grant(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, nil)
	require.NoError(test, err)

	ok, err := store.HasReadAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.True(test, ok)
}

// TestWriteAccess_Grant verifies the write flag controls write access.
func (suite *StoreTestSuite) TestWriteAccess_Grant(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, nil)
	require.NoError(test, err)
	err = store.GrantAccess(ctx, "alice", id, "carol", true, nil)
	require.NoError(test, err)

	ok, err := store.HasWriteAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok, "read-only grant must not confer write")

	ok, err = store.HasWriteAccess(ctx, "carol", id)
	require.NoError(test, err)
	assert.True(test, ok)
}

// TestWriteAccess_IgnoresOwnership verifies the write probe answers only
// about grants; the owner reports false without one.
func (suite *StoreTestSuite) TestWriteAccess_IgnoresOwnership(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	ok, err := store.HasWriteAccess(ctx, "alice", id)
	require.NoError(test, err)
	assert.False(test, ok)
}

// TestGrant_ExpiryBoundary verifies a grant is in effect strictly before its
// expiry tick and out of effect at it.
func (suite *StoreTestSuite) TestGrant_ExpiryBoundary(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, logicalTime(200))
	require.NoError(test, err)

	clock.Set(199)
	ok, err := store.HasReadAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.True(test, ok)
	ok, err = store.HasWriteAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.True(test, ok)

	clock.Set(200)
	ok, err = store.HasReadAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok, "grant is out of effect at its exact expiry tick")
	ok, err = store.HasWriteAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok)
}

// TestGrant_ReplacedWholesale verifies a re-grant never merges with the
// previous entry: both the write flag and the expiry are overwritten.
func (suite *StoreTestSuite) TestGrant_ReplacedWholesale(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	// Perpetual write grant, then downgraded to an expiring read grant.
	err = store.GrantAccess(ctx, "alice", id, "bob", true, nil)
	require.NoError(test, err)
	err = store.GrantAccess(ctx, "alice", id, "bob", false, logicalTime(150))
	require.NoError(test, err)

	ok, err := store.HasWriteAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok, "re-grant dropped the write flag")

	clock.Set(150)
	ok, err = store.HasReadAccess(ctx, "bob", id)
	require.NoError(test, err)
	assert.False(test, ok, "re-grant replaced the perpetual expiry")
}

// TestGrant_OwnerOnly verifies grantees cannot re-share access, and that a
// denied grant leaves no permission entry behind.
func (suite *StoreTestSuite) TestGrant_OwnerOnly(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, nil)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "bob", id, "carol", false, nil)
	requireCode(test, err, registry.ErrAccessDenied)

	ok, err := store.HasReadAccess(ctx, "carol", id)
	require.NoError(test, err)
	assert.False(test, ok, "denied grant must not confer read access")

	ok, err = store.HasWriteAccess(ctx, "carol", id)
	require.NoError(test, err)
	assert.False(test, ok, "denied grant must not confer write access")
}

// TestGrant_RejectsInvalidTargets verifies the owner, the administrator, and
// the empty account are not grantable.
func (suite *StoreTestSuite) TestGrant_RejectsInvalidTargets(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "alice", false, nil)
	requireCode(test, err, registry.ErrInvalidParameters)

	err = store.GrantAccess(ctx, "alice", id, AdminAccount, false, nil)
	requireCode(test, err, registry.ErrInvalidParameters)

	err = store.GrantAccess(ctx, "alice", id, "", false, nil)
	requireCode(test, err, registry.ErrInvalidParameters)
}

// TestGrant_RejectsPastExpiry verifies expiries at or before now are rejected
// at grant time.
func (suite *StoreTestSuite) TestGrant_RejectsPastExpiry(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, logicalTime(100))
	requireCode(test, err, registry.ErrInvalidParameters)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, logicalTime(50))
	requireCode(test, err, registry.ErrInvalidParameters)
}

// TestQueries_GatedByReadAccess verifies metadata and history queries answer
// AccessDenied to accounts without read access on a private file, while the
// same queries on a public file answer anyone.
func (suite *StoreTestSuite) TestQueries_GatedByReadAccess(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	params := DefaultUpload("alice")
	params.Private = true
	private, err := store.Upload(ctx, params)
	require.NoError(test, err)

	public, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	_, _, err = store.GetFileInfo(ctx, "mallory", private)
	requireCode(test, err, registry.ErrAccessDenied)

	_, err = store.GetVersionHistory(ctx, "mallory", private)
	requireCode(test, err, registry.ErrAccessDenied)

	_, err = store.GetVersion(ctx, "mallory", private, 1)
	requireCode(test, err, registry.ErrAccessDenied)

	file, _, err := store.GetFileInfo(ctx, "mallory", public)
	require.NoError(test, err)
	assert.Equal(test, public, file.ID)

	history, err := store.GetVersionHistory(ctx, "mallory", public)
	require.NoError(test, err)
	assert.Len(test, history, 1)
}

// TestQueries_GrantConfersRead verifies an unexpired grant opens metadata and
// history queries on a private file, and its expiry closes them again.
func (suite *StoreTestSuite) TestQueries_GrantConfersRead(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	params := DefaultUpload("alice")
	params.Private = true
	id, err := store.Upload(ctx, params)
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", false, logicalTime(200))
	require.NoError(test, err)

	file, _, err := store.GetFileInfo(ctx, "bob", id)
	require.NoError(test, err)
	assert.Equal(test, id, file.ID)

	version, err := store.GetVersion(ctx, "bob", id, 1)
	require.NoError(test, err)
	assert.Equal(test, uint32(1), version.Version)

	clock.Set(200)
	_, _, err = store.GetFileInfo(ctx, "bob", id)
	requireCode(test, err, registry.ErrAccessDenied)

	_, err = store.GetVersionHistory(ctx, "bob", id)
	requireCode(test, err, registry.ErrAccessDenied)
}

// TestAccess_MissingFile verifies access probes against unknown files fail
// with FileNotFound rather than answering false.
func (suite *StoreTestSuite) TestAccess_MissingFile(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	_, err := store.HasReadAccess(ctx, "alice", 7)
	requireCode(test, err, registry.ErrFileNotFound)

	_, err = store.HasWriteAccess(ctx, "alice", 7)
	requireCode(test, err, registry.ErrFileNotFound)

	err = store.GrantAccess(ctx, "alice", 7, "bob", false, nil)
	requireCode(test, err, registry.ErrFileNotFound)
}
