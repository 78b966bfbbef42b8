package badger

import (
	"context"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fileledger/fileledger/pkg/registry"
)

// GetVersionHistory returns the file's complete version history. The
// initiator must have read access to the file.
//
// Version keys are zero-padded, so a prefix scan yields the entries already
// in ascending version order.
func (s *BadgerStore) GetVersionHistory(ctx context.Context, initiator registry.AccountID, id registry.FileID) (_ []registry.VersionRecord, err error) {
	start := time.Now()
	defer func() { s.record("GetVersionHistory", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if err = s.validator.ValidateAccount(initiator); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateFileID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []registry.VersionRecord

	err = s.db.View(func(txn *badger.Txn) error {
		file, err := getFileTxn(txn, id)
		if err != nil {
			return err
		}
		if err := s.authorizeReadTxn(txn, file, initiator); err != nil {
			return err
		}
		history = make([]registry.VersionRecord, 0, file.CurrentVersion)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyVersionPrefix(id)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				version, err := decodeVersion(val)
				if err != nil {
					return err
				}
				history = append(history, *version)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// GetVersion returns a single version history entry. A missing version on an
// existing file is ErrFileNotFound, same as a missing file. The initiator
// must have read access to the file.
func (s *BadgerStore) GetVersion(ctx context.Context, initiator registry.AccountID, id registry.FileID, version uint32) (_ *registry.VersionRecord, err error) {
	start := time.Now()
	defer func() { s.record("GetVersion", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if err = s.validator.ValidateAccount(initiator); err != nil {
		return nil, err
	}
	if err = s.validator.ValidateFileID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry *registry.VersionRecord

	err = s.db.View(func(txn *badger.Txn) error {
		file, err := getFileTxn(txn, id)
		if err != nil {
			return err
		}
		if err := s.authorizeReadTxn(txn, file, initiator); err != nil {
			return err
		}

		item, err := txn.Get(keyVersion(id, version))
		if err == badger.ErrKeyNotFound {
			return registry.NewStoreErrorf(registry.ErrFileNotFound,
				"version %d of file %d not found", version, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			entry, err = decodeVersion(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}
