package config

import "strings"

// ApplyDefaults fills in default values for any unset configuration fields.
//
// Called after unmarshaling and before validation, so a minimal (or missing)
// config file still yields a fully populated, valid configuration.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	// Normalize so validation and the logger see one casing.
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if cfg.Registry.Type == "" {
		cfg.Registry.Type = "memory"
	}

	if cfg.Snapshot.Sink == "" {
		cfg.Snapshot.Sink = "fs"
	}
	if cfg.Snapshot.FS == nil {
		cfg.Snapshot.FS = map[string]any{"path": "./snapshots"}
	}
}
