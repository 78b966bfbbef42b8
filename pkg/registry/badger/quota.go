package badger

import (
	"context"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fileledger/fileledger/internal/logger"
	"github.com/fileledger/fileledger/pkg/registry"
)

// GetStorageMetrics returns the account's storage aggregates. Unknown
// accounts yield all-zero metrics, not an error.
func (s *BadgerStore) GetStorageMetrics(ctx context.Context, account registry.AccountID) (_ *registry.StorageMetrics, err error) {
	start := time.Now()
	defer func() { s.record("GetStorageMetrics", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if err = s.validator.ValidateAccount(account); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var m *registry.StorageMetrics

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = getMetricsTxn(txn, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// chargeBytesTxn moves an owner's byte usage from a previous content size to
// a new one inside the caller's transaction. A decrement that would drive
// usage below zero is clamped to zero, logged, and counted; it indicates an
// accounting inconsistency but never blocks the operation.
func (s *BadgerStore) chargeBytesTxn(txn *badger.Txn, owner registry.AccountID, previousSize, newSize uint64, now registry.LogicalTime) error {
	m, err := getMetricsTxn(txn, owner)
	if err != nil {
		return err
	}

	if previousSize > m.StorageBytes {
		logger.Warn("storage bytes for account %s clamped to zero: tracked %d, releasing %d",
			owner, m.StorageBytes, previousSize)
		s.metrics.RecordQuotaClamp(string(owner))
		m.StorageBytes = 0
	} else {
		m.StorageBytes -= previousSize
	}

	m.StorageBytes += newSize
	m.LastActivity = now

	return setMetricsTxn(txn, m)
}
