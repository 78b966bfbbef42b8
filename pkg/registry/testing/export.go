package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func (suite *StoreTestSuite) RunExportTests(test *testing.T) {
	test.Run("Export_Empty", suite.TestExport_Empty)
	test.Run("Export_CompleteState", suite.TestExport_CompleteState)
}

// TestExport_Empty verifies exporting a fresh store yields an empty dump.
func (suite *StoreTestSuite) TestExport_Empty(test *testing.T) {
	store, _ := suite.NewStore(test)
	ctx := context.Background()

	export, err := store.Export(ctx)
	require.NoError(test, err)
	assert.Empty(test, export.Files)
	assert.Empty(test, export.Versions)
	assert.Empty(test, export.Grants)
	assert.Empty(test, export.Metrics)
}

// TestExport_CompleteState verifies the dump carries every record kind in
// deterministic order.
func (suite *StoreTestSuite) TestExport_CompleteState(test *testing.T) {
	store, clock := suite.NewStore(test)
	ctx := context.Background()
	clock.Set(100)

	first, err := store.Upload(ctx, DefaultUpload("alice"))
	require.NoError(test, err)
	second, err := store.Upload(ctx, DefaultUpload("bob"))
	require.NoError(test, err)

	_, err = store.UpdateContent(ctx, "alice", first, Fingerprint('b'), 2000, "revised")
	require.NoError(test, err)

	err = store.GrantAccess(ctx, "alice", first, "carol", true, logicalTime(900))
	require.NoError(test, err)
	err = store.GrantAccess(ctx, "alice", first, "bob", false, nil)
	require.NoError(test, err)

	export, err := store.Export(ctx)
	require.NoError(test, err)

	require.Len(test, export.Files, 2)
	assert.Equal(test, first, export.Files[0].ID)
	assert.Equal(test, second, export.Files[1].ID)

	require.Len(test, export.Versions, 3)
	assert.Equal(test, first, export.Versions[0].FileID)
	assert.Equal(test, uint32(1), export.Versions[0].Version)
	assert.Equal(test, uint32(2), export.Versions[1].Version)
	assert.Equal(test, second, export.Versions[2].FileID)

	require.Len(test, export.Grants, 2)
	assert.Equal(test, registry.AccountID("bob"), export.Grants[0].Grantee)
	assert.Equal(test, registry.AccountID("carol"), export.Grants[1].Grantee)
	assert.True(test, export.Grants[1].Write)
	require.NotNil(test, export.Grants[1].ExpiresAt)
	assert.Equal(test, registry.LogicalTime(900), *export.Grants[1].ExpiresAt)

	require.Len(test, export.Metrics, 2)
	assert.Equal(test, registry.AccountID("alice"), export.Metrics[0].Account)
	assert.Equal(test, registry.AccountID("bob"), export.Metrics[1].Account)

	assert.Equal(test, DefaultUpload("alice").Tags, export.Tags[first])
}
