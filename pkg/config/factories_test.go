package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

func TestCreateStore_Memory(t *testing.T) {
	ctx := context.Background()

	store, err := CreateStore(ctx, &RegistryConfig{
		Type:         "memory",
		AdminAccount: "admin",
	}, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.Upload(ctx, registry.UploadParams{
		Owner:       "alice",
		Name:        "file.bin",
		Fingerprint: testFingerprint,
		Size:        10,
		Description: "factory smoke test",
	})
	require.NoError(t, err)
	assert.Equal(t, registry.FileID(1), id)
}

func TestCreateStore_Badger(t *testing.T) {
	ctx := context.Background()

	store, err := CreateStore(ctx, &RegistryConfig{
		Type:   "badger",
		Badger: map[string]any{"path": t.TempDir()},
	}, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Healthcheck(ctx))
}

func TestCreateStore_BadgerRequiresPath(t *testing.T) {
	_, err := CreateStore(context.Background(), &RegistryConfig{Type: "badger"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestCreateStore_UnknownType(t *testing.T) {
	_, err := CreateStore(context.Background(), &RegistryConfig{Type: "postgres"}, nil)
	require.Error(t, err)
}

func TestCreateSnapshotSink_FS(t *testing.T) {
	sink, err := CreateSnapshotSink(context.Background(), &SnapshotConfig{
		Sink: "fs",
		FS:   map[string]any{"path": t.TempDir()},
	})
	require.NoError(t, err)
	assert.NotNil(t, sink)
}

func TestCreateSnapshotSink_UnknownSink(t *testing.T) {
	_, err := CreateSnapshotSink(context.Background(), &SnapshotConfig{Sink: "ftp"})
	require.Error(t, err)
}

// testFingerprint is a syntactically valid fingerprint for factory tests.
const testFingerprint = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
