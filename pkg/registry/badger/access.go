package badger

import (
	"context"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fileledger/fileledger/pkg/registry"
)

// GrantAccess writes the permission entry for (id, grantee), replacing any
// previous entry for the pair. Owner only.
func (s *BadgerStore) GrantAccess(ctx context.Context, initiator registry.AccountID, id registry.FileID, grantee registry.AccountID, write bool, expiresAt *registry.LogicalTime) (err error) {
	start := time.Now()
	defer func() { s.record("GrantAccess", start, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	now := s.clock.Now()

	if err = s.validator.ValidateGrant(initiator, id, grantee, expiresAt, now); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		file, err := getFileTxn(txn, id)
		if err != nil {
			return err
		}

		if initiator != file.Owner {
			return registry.NewStoreErrorf(registry.ErrAccessDenied,
				"account %s is not the owner of file %d", initiator, id)
		}

		if grantee == file.Owner {
			return registry.NewStoreError(registry.ErrInvalidParameters,
				"owner already has full access and cannot be a grantee")
		}

		entry := &registry.PermissionEntry{
			FileID:    id,
			Grantee:   grantee,
			Read:      true,
			Write:     write,
			GrantedAt: now,
		}
		if expiresAt != nil {
			expiry := *expiresAt
			entry.ExpiresAt = &expiry
		}

		encoded, err := encodeGrant(entry)
		if err != nil {
			return err
		}
		return txn.Set(keyGrant(id, grantee), encoded)
	})
}

// HasReadAccess reports whether account may read the file's metadata.
func (s *BadgerStore) HasReadAccess(ctx context.Context, account registry.AccountID, id registry.FileID) (_ bool, err error) {
	start := time.Now()
	defer func() { s.record("HasReadAccess", start, err) }()

	if err = ctx.Err(); err != nil {
		return false, err
	}

	if err = s.validator.ValidateAccount(account); err != nil {
		return false, err
	}
	if err = s.validator.ValidateFileID(id); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var allowed bool

	err = s.db.View(func(txn *badger.Txn) error {
		file, err := getFileTxn(txn, id)
		if err != nil {
			return err
		}

		allowed, err = s.readAccessValidTxn(txn, file, account)
		return err
	})
	if err != nil {
		return false, err
	}

	return allowed, nil
}

// readAccessValidTxn reports whether account may read the file's metadata:
// the owner always can, anyone can when the file is not private, and
// grantees can while their entry is unexpired.
func (s *BadgerStore) readAccessValidTxn(txn *badger.Txn, file *registry.FileRecord, account registry.AccountID) (bool, error) {
	if account == file.Owner || !file.Private {
		return true, nil
	}

	grant, err := getGrantTxn(txn, file.ID, account)
	if err != nil {
		return false, err
	}
	return grant != nil && grant.ValidAt(s.clock.Now()), nil
}

// authorizeReadTxn converts a failed read-access check into ErrAccessDenied.
func (s *BadgerStore) authorizeReadTxn(txn *badger.Txn, file *registry.FileRecord, account registry.AccountID) error {
	allowed, err := s.readAccessValidTxn(txn, file, account)
	if err != nil {
		return err
	}
	if !allowed {
		return registry.NewStoreErrorf(registry.ErrAccessDenied,
			"account %s cannot read file %d", account, file.ID)
	}
	return nil
}

// HasWriteAccess reports whether account holds an unexpired write grant on
// the file. Ownership is not consulted.
func (s *BadgerStore) HasWriteAccess(ctx context.Context, account registry.AccountID, id registry.FileID) (_ bool, err error) {
	start := time.Now()
	defer func() { s.record("HasWriteAccess", start, err) }()

	if err = ctx.Err(); err != nil {
		return false, err
	}

	if err = s.validator.ValidateAccount(account); err != nil {
		return false, err
	}
	if err = s.validator.ValidateFileID(id); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var allowed bool

	err = s.db.View(func(txn *badger.Txn) error {
		if _, err := getFileTxn(txn, id); err != nil {
			return err
		}

		grant, err := getGrantTxn(txn, id, account)
		if err != nil {
			return err
		}
		allowed = grant != nil && grant.Write && grant.ValidAt(s.clock.Now())
		return nil
	})
	if err != nil {
		return false, err
	}

	return allowed, nil
}
