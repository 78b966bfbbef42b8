// Package badger implements the registry Store on BadgerDB.
package badger

import (
	"context"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/fileledger/fileledger/pkg/metrics"
	"github.com/fileledger/fileledger/pkg/registry"
)

// BadgerStore implements registry.Store using BadgerDB for persistence.
//
// This implementation provides a persistent metadata registry backed by
// BadgerDB, a fast embedded key-value store. It is suitable for:
//   - Production environments requiring persistence across restarts
//   - Systems where metadata must survive host crashes
//   - Multi-GB registries with millions of version entries
//
// Thread Safety:
// Every logical operation runs inside a single BadgerDB transaction, guarded
// by a store-level read-write mutex. The transaction gives atomicity and
// crash consistency; the mutex serializes read-modify-write operations so the
// ID sequence and the storage aggregates never race. Queries take the read
// lock and a View transaction.
//
// Storage Model:
// The store uses namespaced, zero-padded keys (see keys.go) so lexicographic
// order matches numeric order, with JSON values for records and a big-endian
// counter for the FileID sequence.
type BadgerStore struct {
	// db is the BadgerDB database handle
	db *badger.DB

	// mu serializes logical operations. BadgerDB transactions protect each
	// operation's writes, the mutex protects the read-modify-write sequences
	// spanning multiple keys (sequence counter, aggregates).
	mu sync.RWMutex

	maxFilesPerAccount uint64
	clock              registry.Clock
	validator          *registry.Validator
	metrics            metrics.StoreMetrics

	closeOnce sync.Once
	closeErr  error
}

// Config contains configuration for creating a BadgerDB registry store.
type Config struct {
	// DBPath is the directory where BadgerDB stores its files.
	// Ignored when BadgerOptions is set.
	DBPath string

	// BadgerOptions overrides the database options entirely when non-nil.
	// Useful for tests (in-memory mode) and advanced tuning.
	BadgerOptions *badger.Options

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

// New creates a new BadgerDB-backed registry store.
//
// The database is opened (and created if missing) at config.DBPath, and the
// FileID sequence is seeded on first use. The returned store is ready for
// concurrent use.
func New(ctx context.Context, config Config) (*BadgerStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts badger.Options
	if config.BadgerOptions != nil {
		opts = *config.BadgerOptions
	} else {
		opts = badger.DefaultOptions(config.DBPath)

		// Metadata records are small and read-heavy; compression overhead
		// is not worth it and badger's own logging is too chatty at INFO.
		opts = opts.WithLoggingLevel(badger.WARNING)
		opts = opts.WithCompression(options.None)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", config.DBPath, err)
	}

	if config.MaxFilesPerAccount == 0 {
		config.MaxFilesPerAccount = registry.DefaultMaxFilesPerAccount
	}
	if config.Clock == nil {
		config.Clock = registry.SystemClock{}
	}
	if config.Metrics == nil {
		config.Metrics = metrics.Noop()
	}

	store := &BadgerStore{
		db:                 db,
		maxFilesPerAccount: config.MaxFilesPerAccount,
		clock:              config.Clock,
		validator:          registry.NewValidator(config.AdminAccount),
		metrics:            config.Metrics,
	}

	if err := store.initializeSequence(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize file id sequence: %w", err)
	}

	return store, nil
}

// initializeSequence seeds the FileID counter at 1 if it does not exist yet,
// so the sequence persists across restarts.
func (s *BadgerStore) initializeSequence() error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keySequence())
		if err == badger.ErrKeyNotFound {
			return txn.Set(keySequence(), encodeUint64(1))
		}
		return err
	})
}

// Healthcheck verifies the database is reachable with an empty read
// transaction.
func (s *BadgerStore) Healthcheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		// BadgerDB returns an error here if it is closed or corrupted.
		return nil
	})
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	return nil
}

// Close flushes and closes the database. Safe to call more than once.
func (s *BadgerStore) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// record reports one completed operation to the metrics sink.
func (s *BadgerStore) record(operation string, start time.Time, err error) {
	s.metrics.RecordOperation(operation, time.Since(start), err)
}

// getFileTxn reads a file record inside a transaction, mapping a missing key
// to the registry's not-found error.
func getFileTxn(txn *badger.Txn, id registry.FileID) (*registry.FileRecord, error) {
	item, err := txn.Get(keyFile(id))
	if err == badger.ErrKeyNotFound {
		return nil, registry.NewStoreErrorf(registry.ErrFileNotFound, "file %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %d: %w", id, err)
	}

	var record *registry.FileRecord
	err = item.Value(func(val []byte) error {
		record, err = decodeFileRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// getGrantTxn reads the permission entry for (id, account), returning nil
// without error when no grant exists.
func getGrantTxn(txn *badger.Txn, id registry.FileID, account registry.AccountID) (*registry.PermissionEntry, error) {
	item, err := txn.Get(keyGrant(id, account))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read grant for file %d: %w", id, err)
	}

	var entry *registry.PermissionEntry
	err = item.Value(func(val []byte) error {
		entry, err = decodeGrant(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// getMetricsTxn reads an account's storage aggregates, returning a zeroed
// struct when the account is unknown.
func getMetricsTxn(txn *badger.Txn, account registry.AccountID) (*registry.StorageMetrics, error) {
	item, err := txn.Get(keyMetrics(account))
	if err == badger.ErrKeyNotFound {
		return &registry.StorageMetrics{Account: account}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage metrics for %s: %w", account, err)
	}

	var m *registry.StorageMetrics
	err = item.Value(func(val []byte) error {
		m, err = decodeMetrics(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// setMetricsTxn writes an account's storage aggregates.
func setMetricsTxn(txn *badger.Txn, m *registry.StorageMetrics) error {
	encoded, err := encodeMetrics(m)
	if err != nil {
		return err
	}
	return txn.Set(keyMetrics(m.Account), encoded)
}
