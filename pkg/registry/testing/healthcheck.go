package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func (suite *StoreTestSuite) RunHealthcheckTests(test *testing.T) {
	test.Run("Healthcheck_Success", suite.TestHealthcheck_Success)
	test.Run("Close_Succeeds", suite.TestClose_Succeeds)
	test.Run("Operations_RejectCancelledContext", suite.TestOperations_RejectCancelledContext)
	test.Run("Close_BlocksFurtherOperations", suite.TestClose_BlocksFurtherOperations)
}

// TestHealthcheck_Success verifies that a healthy store passes health checks.
func (suite *StoreTestSuite) TestHealthcheck_Success(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	err := store.Healthcheck(ctx)
	require.NoError(test, err, "Healthy store should pass health check")
}

// TestClose_Succeeds verifies stores shut down cleanly.
func (suite *StoreTestSuite) TestClose_Succeeds(test *testing.T) {
	store, _ := suite.NewStore(test)

	_, err := store.Upload(context.Background(), DefaultUpload("alice"))
	require.NoError(test, err)

	require.NoError(test, store.Close())
}

// TestOperations_RejectCancelledContext verifies every operation checks its
// context before touching store state.
func (suite *StoreTestSuite) TestOperations_RejectCancelledContext(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = store.Upload(cancelled, DefaultUpload("alice"))
	require.ErrorIs(test, err, context.Canceled)

	_, err = store.UpdateContent(cancelled, "alice", id, Fingerprint('b'), 2048, "revised")
	require.ErrorIs(test, err, context.Canceled)

	err = store.GrantAccess(cancelled, "alice", id, "bob", false, nil)
	require.ErrorIs(test, err, context.Canceled)

	_, _, err = store.GetFileInfo(cancelled, "alice", id)
	require.ErrorIs(test, err, context.Canceled)

	err = store.Healthcheck(cancelled)
	require.ErrorIs(test, err, context.Canceled)

	// A live context is unaffected.
	_, _, err = store.GetFileInfo(ctx, "alice", id)
	require.NoError(test, err)
}

// TestClose_BlocksFurtherOperations verifies a closed store returns errors
// instead of serving.
func (suite *StoreTestSuite) TestClose_BlocksFurtherOperations(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	id, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)

	require.NoError(test, store.Close())

	_, err = store.Upload(ctx, DefaultUpload("alice"))
	require.Error(test, err)

	_, _, err = store.GetFileInfo(ctx, "alice", id)
	require.Error(test, err)

	require.Error(test, store.Healthcheck(ctx))
}
