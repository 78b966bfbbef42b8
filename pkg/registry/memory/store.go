// Package memory implements the registry Store with in-memory storage.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fileledger/fileledger/pkg/metrics"
	"github.com/fileledger/fileledger/pkg/registry"
)

// MemoryStore implements registry.Store using in-memory maps.
//
// This implementation provides a fully functional metadata registry backed by
// in-memory data structures. It is suitable for:
//   - Testing and development environments
//   - Ephemeral registries where persistence is not required
//   - Embedding into hosts that handle persistence externally
//
// Thread Safety:
// All operations are protected by a single read-write mutex, making the store
// safe for concurrent access from multiple goroutines. Queries take a read
// lock, mutations take a write lock, so every logical operation observes and
// produces a consistent state and nothing half-applied is ever visible.
//
// Storage Model:
//
// Five maps hold the complete registry state, keyed by the identifiers the
// operations use:
//
//  1. files: FileID → primary file record.
//  2. tags: FileID → current tag set (replaced wholesale on edit).
//  3. versions: FileID → append-only version history. The slice index is
//     version-1, which makes the contiguity of version numbers structural.
//  4. grants: FileID → grantee → permission entry. One entry per pair,
//     replaced wholesale on re-grant. Expiry is evaluated at check time.
//  5. accounts: AccountID → storage aggregates, created lazily on first
//     upload.
//
// nextID carries the dense FileID sequence; it only moves forward and is
// consumed under the write lock, so IDs are unique and gapless.
type MemoryStore struct {
	mu sync.RWMutex

	files    map[registry.FileID]*registry.FileRecord
	tags     map[registry.FileID][]string
	versions map[registry.FileID][]registry.VersionRecord
	grants   map[registry.FileID]map[registry.AccountID]*registry.PermissionEntry
	accounts map[registry.AccountID]*registry.StorageMetrics

	// nextID is the next FileID to allocate, starting at 1.
	nextID registry.FileID

	// closed is set by Close; every operation rejects afterwards.
	closed bool

	maxFilesPerAccount uint64
	clock              registry.Clock
	validator          *registry.Validator
	metrics            metrics.StoreMetrics
}

// errClosed is returned by every operation after Close.
var errClosed = registry.NewStoreError(registry.ErrUnknown, "store is closed")

// Config contains configuration for creating a memory store.
type Config struct {
	// AdminAccount names the designated administrator, excluded from file
	// ownership and grants. Empty disables the rule.
	AdminAccount registry.AccountID

	// MaxFilesPerAccount is the per-account file count quota.
	// 0 applies registry.DefaultMaxFilesPerAccount.
	MaxFilesPerAccount uint64

	// Clock supplies logical time. nil applies registry.SystemClock.
	Clock registry.Clock

	// Metrics receives operation observations. nil disables collection.
	Metrics metrics.StoreMetrics
}

// New creates a new in-memory registry store.
//
// The returned store is immediately ready for use and safe for concurrent
// access from multiple goroutines.
func New(config Config) *MemoryStore {
	if config.MaxFilesPerAccount == 0 {
		config.MaxFilesPerAccount = registry.DefaultMaxFilesPerAccount
	}
	if config.Clock == nil {
		config.Clock = registry.SystemClock{}
	}
	if config.Metrics == nil {
		config.Metrics = metrics.Noop()
	}

	return &MemoryStore{
		files:              make(map[registry.FileID]*registry.FileRecord),
		tags:               make(map[registry.FileID][]string),
		versions:           make(map[registry.FileID][]registry.VersionRecord),
		grants:             make(map[registry.FileID]map[registry.AccountID]*registry.PermissionEntry),
		accounts:           make(map[registry.AccountID]*registry.StorageMetrics),
		nextID:             1,
		maxFilesPerAccount: config.MaxFilesPerAccount,
		clock:              config.Clock,
		validator:          registry.NewValidator(config.AdminAccount),
		metrics:            config.Metrics,
	}
}

// Healthcheck reports whether the store can serve operations.
func (s *MemoryStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errClosed
	}
	return nil
}

// Close releases the store's state. Further operations return an error.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.files = nil
	s.tags = nil
	s.versions = nil
	s.grants = nil
	s.accounts = nil
	return nil
}

// record reports one completed operation to the metrics sink. Used with defer
// and a named error return so the outcome label is accurate.
func (s *MemoryStore) record(operation string, start time.Time, err error) {
	s.metrics.RecordOperation(operation, time.Since(start), err)
}

// getFile returns the live record for id or a not-found error.
// Must be called with the lock held (read or write).
func (s *MemoryStore) getFile(id registry.FileID) (*registry.FileRecord, error) {
	file, exists := s.files[id]
	if !exists {
		return nil, registry.NewStoreErrorf(registry.ErrFileNotFound, "file %d not found", id)
	}
	return file, nil
}
