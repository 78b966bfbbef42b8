package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunQuotaTests(test *testing.T) {
	test.Run("StorageMetrics_UnknownAccount", suite.TestStorageMetrics_UnknownAccount)
	test.Run("StorageMetrics_PerAccountIsolation", suite.TestStorageMetrics_PerAccountIsolation)
	test.Run("StorageMetrics_LastActivity", suite.TestStorageMetrics_LastActivity)
	test.Run("StorageMetrics_RejectsEmptyAccount", suite.TestStorageMetrics_RejectsEmptyAccount)
}

// TestStorageMetrics_UnknownAccount verifies accounts that never uploaded
// yield all-zero metrics rather than an error.
func (suite *StoreTestSuite) TestStorageMetrics_UnknownAccount(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	m, err := store.GetStorageMetrics(ctx, "ghost")
	require.NoError(test, err)
	assert.Equal(test, registry.AccountID("ghost"), m.Account)
	assert.Zero(test, m.FileCount)
	assert.Zero(test, m.StorageBytes)
	assert.Zero(test, m.LastActivity)
}

// TestStorageMetrics_PerAccountIsolation verifies aggregates never bleed
// between accounts.
func (suite *StoreTestSuite) TestStorageMetrics_PerAccountIsolation(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	alice := DefaultUpload("alice")
	alice.Size = 100
	_, err := store.Upload(ctx, alice)
	require.NoError(test, err)

	bob := DefaultUpload("bob")
	bob.Size = 900
	_, err = store.Upload(ctx, bob)
	require.NoError(test, err)

	aliceMetrics, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, uint64(1), aliceMetrics.FileCount)
	assert.Equal(test, uint64(100), aliceMetrics.StorageBytes)

	bobMetrics, err := store.GetStorageMetrics(ctx, "bob")
	require.NoError(test, err)
	assert.Equal(test, uint64(1), bobMetrics.FileCount)
	assert.Equal(test, uint64(900), bobMetrics.StorageBytes)
}

// TestStorageMetrics_LastActivity verifies last activity follows the owner's
// quota-affecting operations, including updates made by grantees.
func (suite *StoreTestSuite) TestStorageMetrics_LastActivity(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(10)

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", id, "bob", true, nil)
	require.NoError(test, err)

	clock.Set(30)
	_, err = store.UpdateContent(ctx, "bob", id, Fingerprint('b'), 10, "grantee update")
	require.NoError(test, err)

	m, err := store.GetStorageMetrics(ctx, "alice")
	require.NoError(test, err)
	assert.Equal(test, registry.LogicalTime(30), m.LastActivity)
}

// TestStorageMetrics_RejectsEmptyAccount verifies the empty account is
// invalid input.
func (suite *StoreTestSuite) TestStorageMetrics_RejectsEmptyAccount(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	_, err := store.GetStorageMetrics(ctx, "")
	requireCode(test, err, registry.ErrInvalidParameters)
}
