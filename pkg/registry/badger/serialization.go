package badger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Serialization Strategy
// ======================
//
// BadgerDB stores raw bytes, so records are serialized before storage:
//
// 1. JSON Encoding (Complex Types)
//    - File records, tag sets, version entries, grants, storage aggregates
//    - Human-readable, flexible schema evolution, easy debugging
//
// 2. Binary Encoding (Simple Types)
//    - The FileID sequence counter (uint64, big-endian)
//    - Compact and fast; the schema will not change

func encodeFileRecord(record *registry.FileRecord) ([]byte, error) {
	bytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file record: %w", err)
	}
	return bytes, nil
}

func decodeFileRecord(bytes []byte) (*registry.FileRecord, error) {
	var record registry.FileRecord
	if err := json.Unmarshal(bytes, &record); err != nil {
		return nil, fmt.Errorf("failed to decode file record: %w", err)
	}
	return &record, nil
}

func encodeTags(tags []string) ([]byte, error) {
	bytes, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return bytes, nil
}

func decodeTags(bytes []byte) ([]string, error) {
	var tags []string
	if err := json.Unmarshal(bytes, &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

func encodeVersion(version *registry.VersionRecord) ([]byte, error) {
	bytes, err := json.Marshal(version)
	if err != nil {
		return nil, fmt.Errorf("failed to encode version record: %w", err)
	}
	return bytes, nil
}

func decodeVersion(bytes []byte) (*registry.VersionRecord, error) {
	var version registry.VersionRecord
	if err := json.Unmarshal(bytes, &version); err != nil {
		return nil, fmt.Errorf("failed to decode version record: %w", err)
	}
	return &version, nil
}

func encodeGrant(entry *registry.PermissionEntry) ([]byte, error) {
	bytes, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permission entry: %w", err)
	}
	return bytes, nil
}

func decodeGrant(bytes []byte) (*registry.PermissionEntry, error) {
	var entry registry.PermissionEntry
	if err := json.Unmarshal(bytes, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode permission entry: %w", err)
	}
	return &entry, nil
}

func encodeMetrics(metrics *registry.StorageMetrics) ([]byte, error) {
	bytes, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode storage metrics: %w", err)
	}
	return bytes, nil
}

func decodeMetrics(bytes []byte) (*registry.StorageMetrics, error) {
	var metrics registry.StorageMetrics
	if err := json.Unmarshal(bytes, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode storage metrics: %w", err)
	}
	return &metrics, nil
}

// encodeUint64 encodes a counter as 8 big-endian bytes.
func encodeUint64(value uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, value)
	return bytes
}

// decodeUint64 decodes an 8-byte big-endian counter.
func decodeUint64(bytes []byte) (uint64, error) {
	if len(bytes) != 8 {
		return 0, fmt.Errorf("invalid counter encoding: expected 8 bytes, got %d", len(bytes))
	}
	return binary.BigEndian.Uint64(bytes), nil
}
