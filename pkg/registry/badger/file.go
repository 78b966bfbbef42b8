package badger

import (
	"context"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Upload creates a new file record, its version 1 entry, tag set, and owner
// aggregates in one transaction. The FileID counter is read and bumped inside
// the same transaction, after validation and the quota check, so the sequence
// stays dense even across failed uploads and crashes.
func (s *BadgerStore) Upload(ctx context.Context, params registry.UploadParams) (_ registry.FileID, err error) {
	start := time.Now()
	defer func() { s.record("Upload", start, err) }()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	if err = s.validator.ValidateUpload(params); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id registry.FileID

	err = s.db.Update(func(txn *badger.Txn) error {
		owner, err := getMetricsTxn(txn, params.Owner)
		if err != nil {
			return err
		}
		if owner.FileCount >= s.maxFilesPerAccount {
			return registry.NewStoreErrorf(registry.ErrStorageExceeded,
				"account %s holds %d files, limit is %d", params.Owner, owner.FileCount, s.maxFilesPerAccount)
		}

		next, err := nextIDTxn(txn)
		if err != nil {
			return err
		}
		id = next

		now := s.clock.Now()

		record := &registry.FileRecord{
			ID:             id,
			Owner:          params.Owner,
			Name:           params.Name,
			Fingerprint:    params.Fingerprint,
			Size:           params.Size,
			CreatedAt:      now,
			ModifiedAt:     now,
			MIMEType:       params.MIMEType,
			Description:    params.Description,
			Private:        params.Private,
			Encrypted:      params.Encrypted,
			CurrentVersion: 1,
		}
		encoded, err := encodeFileRecord(record)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFile(id), encoded); err != nil {
			return err
		}

		tags := params.Tags
		if tags == nil {
			tags = []string{}
		}
		encodedTags, err := encodeTags(tags)
		if err != nil {
			return err
		}
		if err := txn.Set(keyTags(id), encodedTags); err != nil {
			return err
		}

		initial := &registry.VersionRecord{
			FileID:      id,
			Version:     1,
			Fingerprint: params.Fingerprint,
			Size:        params.Size,
			ChangedBy:   params.Owner,
			ChangedAt:   now,
			Note:        registry.InitialUploadNote,
		}
		encodedVersion, err := encodeVersion(initial)
		if err != nil {
			return err
		}
		if err := txn.Set(keyVersion(id, 1), encodedVersion); err != nil {
			return err
		}

		owner.FileCount++
		owner.StorageBytes += params.Size
		owner.LastActivity = now
		return setMetricsTxn(txn, owner)
	})
	if err != nil {
		return 0, err
	}

	// IDs are dense and records are never deleted, so the last assigned ID
	// is also the record count.
	s.metrics.SetTrackedFiles(int64(id))

	return id, nil
}

// nextIDTxn reads the sequence counter and bumps it, returning the allocated
// FileID.
func nextIDTxn(txn *badger.Txn) (registry.FileID, error) {
	item, err := txn.Get(keySequence())
	if err != nil {
		return 0, err
	}

	var next uint64
	err = item.Value(func(val []byte) error {
		next, err = decodeUint64(val)
		return err
	})
	if err != nil {
		return 0, err
	}

	if err := txn.Set(keySequence(), encodeUint64(next+1)); err != nil {
		return 0, err
	}
	return registry.FileID(next), nil
}

// UpdateContent records a new content version and returns its version
// number: record mutation, appended version entry, and owner byte aggregates
// all commit in one transaction.
func (s *BadgerStore) UpdateContent(ctx context.Context, initiator registry.AccountID, id registry.FileID, fingerprint string, size uint64, note string) (_ uint32, err error) {
	start := time.Now()
	defer func() { s.record("UpdateContent", start, err) }()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	if err = s.validator.ValidateContentUpdate(initiator, id, fingerprint, size, note); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var newVersion uint32

	err = s.db.Update(func(txn *badger.Txn) error {
		file, err := getFileTxn(txn, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()

		if initiator != file.Owner {
			grant, err := getGrantTxn(txn, id, initiator)
			if err != nil {
				return err
			}
			if grant == nil || !grant.Write || !grant.ValidAt(now) {
				return registry.NewStoreErrorf(registry.ErrAccessDenied,
					"account %s cannot modify file %d", initiator, id)
			}
		}

		previousSize := file.Size

		file.CurrentVersion++
		file.Fingerprint = fingerprint
		file.Size = size
		file.ModifiedAt = now
		newVersion = file.CurrentVersion

		encoded, err := encodeFileRecord(file)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFile(id), encoded); err != nil {
			return err
		}

		version := &registry.VersionRecord{
			FileID:      id,
			Version:     file.CurrentVersion,
			Fingerprint: fingerprint,
			Size:        size,
			ChangedBy:   initiator,
			ChangedAt:   now,
			Note:        note,
		}
		encodedVersion, err := encodeVersion(version)
		if err != nil {
			return err
		}
		if err := txn.Set(keyVersion(id, file.CurrentVersion), encodedVersion); err != nil {
			return err
		}

		return s.chargeBytesTxn(txn, file.Owner, previousSize, size, now)
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

// UpdateMetadata applies a partial edit to name, description, or tags.
// Owner only.
func (s *BadgerStore) UpdateMetadata(ctx context.Context, initiator registry.AccountID, id registry.FileID, patch registry.RecordPatch) (err error) {
	start := time.Now()
	defer func() { s.record("UpdateMetadata", start, err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = s.validator.ValidatePatch(initiator, id, patch); err != nil {
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

		if patch.Name != nil {
			file.Name = *patch.Name
		}
		if patch.Description != nil {
			file.Description = *patch.Description
		}

		if patch.Name != nil || patch.Description != nil {
			encoded, err := encodeFileRecord(file)
			if err != nil {
				return err
			}
			if err := txn.Set(keyFile(id), encoded); err != nil {
				return err
			}
		}

		if patch.Tags != nil {
			encodedTags, err := encodeTags(*patch.Tags)
			if err != nil {
				return err
			}
			if err := txn.Set(keyTags(id), encodedTags); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetFileInfo returns the file record and its current tag set. The initiator
// must have read access to the file.
func (s *BadgerStore) GetFileInfo(ctx context.Context, initiator registry.AccountID, id registry.FileID) (_ *registry.FileRecord, _ []string, err error) {
	start := time.Now()
	defer func() { s.record("GetFileInfo", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err = s.validator.ValidateAccount(initiator); err != nil {
		return nil, nil, err
	}
	if err = s.validator.ValidateFileID(id); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		file *registry.FileRecord
		tags []string
	)

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		file, err = getFileTxn(txn, id)
		if err != nil {
			return err
		}

		if err := s.authorizeReadTxn(txn, file, initiator); err != nil {
			return err
		}

		item, err := txn.Get(keyTags(id))
		if err == badger.ErrKeyNotFound {
			tags = []string{}
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tags, err = decodeTags(val)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return file, tags, nil
}
