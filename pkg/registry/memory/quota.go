package memory

import (
	"context"
	"time"

	"github.com/fileledger/fileledger/internal/logger"
	"github.com/fileledger/fileledger/pkg/registry"
)

// GetStorageMetrics returns a copy of the account's storage aggregates.
// Unknown accounts yield all-zero metrics, not an error.
func (s *MemoryStore) GetStorageMetrics(ctx context.Context, account registry.AccountID) (_ *registry.StorageMetrics, err error) {
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

	if s.closed {
		return nil, errClosed
	}

	if existing := s.accounts[account]; existing != nil {
		m := *existing
		return &m, nil
	}

	return &registry.StorageMetrics{Account: account}, nil
}

// account returns the live aggregates for an account, creating a zeroed entry
// on first use. Must be called with the write lock held.
func (s *MemoryStore) account(id registry.AccountID) *registry.StorageMetrics {
	m := s.accounts[id]
	if m == nil {
		m = &registry.StorageMetrics{Account: id}
		s.accounts[id] = m
	}
	return m
}

// chargeBytes moves an owner's byte usage from a previous content size to a
// new one. A decrement that would drive usage below zero is clamped to zero,
// logged, and counted; it indicates an accounting inconsistency but never
// blocks the operation. Must be called with the write lock held.
func (s *MemoryStore) chargeBytes(owner registry.AccountID, previousSize, newSize uint64, now registry.LogicalTime) {
	m := s.account(owner)

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
}
