package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
	"github.com/fileledger/fileledger/pkg/registry/memory"
	storetesting "github.com/fileledger/fileledger/pkg/registry/testing"
)

func TestWriter_WritesSnapshotToFSSink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := memory.New(memory.Config{Clock: registry.NewManualClock(100)})
	defer func() { _ = store.Close() }()

	id, err := store.Upload(ctx, storetesting.DefaultUpload("alice"))
	require.NoError(t, err)
	require.NoError(t, store.GrantAccess(ctx, "alice", id, "bob", true, nil))

	sink, err := NewFSSink(dir)
	require.NoError(t, err)

	key, err := NewWriter(store, sink).Write(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	raw, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.NotEmpty(t, snap.ID)
	require.NotNil(t, snap.State)
	require.Len(t, snap.State.Files, 1)
	assert.Equal(t, registry.AccountID("alice"), snap.State.Files[0].Owner)
	require.Len(t, snap.State.Grants, 1)
	assert.Equal(t, registry.AccountID("bob"), snap.State.Grants[0].Grantee)
	require.Len(t, snap.State.Versions, 1)
	assert.Equal(t, registry.InitialUploadNote, snap.State.Versions[0].Note)
}

func TestFSSink_RequiresPath(t *testing.T) {
	_, err := NewFSSink("")
	require.Error(t, err)
}

func TestFSSink_OverwritesExistingKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sink, err := NewFSSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.Put(ctx, "snap.json", strings.NewReader("first")))
	require.NoError(t, sink.Put(ctx, "snap.json", strings.NewReader("second")))

	raw, err := os.ReadFile(filepath.Join(dir, "snap.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))
}
