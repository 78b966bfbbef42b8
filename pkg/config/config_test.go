package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfigFile marshals the given document to YAML in a temp directory and
// returns its path.
func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()

	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, map[string]any{})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "memory", cfg.Registry.Type)
	assert.Equal(t, "fs", cfg.Snapshot.Sink)
	assert.Equal(t, "./snapshots", cfg.Snapshot.FS["path"])
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"logging": map[string]any{
			"level":  "debug",
			"format": "json",
		},
		"registry": map[string]any{
			"type":                  "badger",
			"admin_account":         "root",
			"max_files_per_account": 50,
			"badger": map[string]any{
				"path": "/var/lib/fileledger",
			},
		},
		"snapshot": map[string]any{
			"sink": "s3",
			"s3": map[string]any{
				"bucket": "fileledger-snapshots",
				"region": "eu-west-1",
			},
		},
		"metrics": map[string]any{
			"enabled": true,
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level, "level is normalized to uppercase")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "badger", cfg.Registry.Type)
	assert.Equal(t, "root", cfg.Registry.AdminAccount)
	assert.Equal(t, uint64(50), cfg.Registry.MaxFilesPerAccount)
	assert.Equal(t, "/var/lib/fileledger", cfg.Registry.Badger["path"])
	assert.Equal(t, "s3", cfg.Snapshot.Sink)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"logging": map[string]any{
			"level": "info",
		},
	})

	t.Setenv("FILELEDGER_LOGGING_LEVEL", "ERROR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
}

func TestLoad_RejectsInvalidLevel(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"logging": map[string]any{
			"level": "verbose",
		},
	})

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsBadgerWithoutPath(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"registry": map[string]any{
			"type": "badger",
		},
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestLoad_RejectsS3SinkWithoutBucket(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"snapshot": map[string]any{
			"sink": "s3",
			"s3": map[string]any{
				"region": "eu-west-1",
			},
		},
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	// Point the default search path at an empty directory.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Registry.Type)
}
