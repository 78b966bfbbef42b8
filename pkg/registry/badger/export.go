package badger

import (
	"context"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Export returns a deterministic point-in-time dump of the complete registry
// state. All record kinds are read in one View transaction, so the dump is a
// consistent snapshot. Keys are zero-padded, so plain prefix scans already
// deliver files and versions in ID order and grants in (file, grantee) order.
func (s *BadgerStore) Export(ctx context.Context) (_ *registry.Export, err error) {
	start := time.Now()
	defer func() { s.record("Export", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	export := &registry.Export{
		Files:    []registry.FileRecord{},
		Tags:     map[registry.FileID][]string{},
		Versions: []registry.VersionRecord{},
		Grants:   []registry.PermissionEntry{},
		Metrics:  []registry.StorageMetrics{},
	}

	err = s.db.View(func(txn *badger.Txn) error {
		if err := scanPrefix(txn, prefixFile, func(val []byte) error {
			file, err := decodeFileRecord(val)
			if err != nil {
				return err
			}
			export.Files = append(export.Files, *file)
			return nil
		}); err != nil {
			return err
		}

		// Tag keys carry the padded file ID; rather than parse it back out,
		// walk the exported files and point-read each tag set.
		for _, file := range export.Files {
			item, err := txn.Get(keyTags(file.ID))
			if err == badger.ErrKeyNotFound {
				export.Tags[file.ID] = []string{}
				continue
			}
			if err != nil {
				return err
			}
			id := file.ID
			if err := item.Value(func(val []byte) error {
				tags, err := decodeTags(val)
				if err != nil {
					return err
				}
				export.Tags[id] = tags
				return nil
			}); err != nil {
				return err
			}
		}

		if err := scanPrefix(txn, prefixVersion, func(val []byte) error {
			version, err := decodeVersion(val)
			if err != nil {
				return err
			}
			export.Versions = append(export.Versions, *version)
			return nil
		}); err != nil {
			return err
		}

		if err := scanPrefix(txn, prefixGrant, func(val []byte) error {
			grant, err := decodeGrant(val)
			if err != nil {
				return err
			}
			export.Grants = append(export.Grants, *grant)
			return nil
		}); err != nil {
			return err
		}

		return scanPrefix(txn, prefixMetrics, func(val []byte) error {
			m, err := decodeMetrics(val)
			if err != nil {
				return err
			}
			export.Metrics = append(export.Metrics, *m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return export, nil
}

// scanPrefix iterates every value under a key prefix in lexicographic order.
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
