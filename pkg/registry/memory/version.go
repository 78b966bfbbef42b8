package memory

import (
	"context"
	"time"

	"github.com/fileledger/fileledger/pkg/registry"
)

// GetVersionHistory returns a copy of the file's complete version history,
// ordered by ascending version number. The initiator must have read access
// to the file.
func (s *MemoryStore) GetVersionHistory(ctx context.Context, initiator registry.AccountID, id registry.FileID) (_ []registry.VersionRecord, err error) {
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

	if s.closed {
		return nil, errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return nil, err
	}

	if err = s.authorizeRead(file, initiator); err != nil {
		return nil, err
	}

	// The slice is stored ascending; index i holds version i+1.
	history := make([]registry.VersionRecord, len(s.versions[id]))
	copy(history, s.versions[id])
	return history, nil
}

// GetVersion returns a single version history entry. A missing version on an
// existing file is ErrFileNotFound, same as a missing file. The initiator
// must have read access to the file.
func (s *MemoryStore) GetVersion(ctx context.Context, initiator registry.AccountID, id registry.FileID, version uint32) (_ *registry.VersionRecord, err error) {
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

	if s.closed {
		return nil, errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return nil, err
	}

	if err = s.authorizeRead(file, initiator); err != nil {
		return nil, err
	}

	history := s.versions[id]
	if version == 0 || uint64(version) > uint64(len(history)) {
		err = registry.NewStoreErrorf(registry.ErrFileNotFound,
			"version %d of file %d not found", version, id)
		return nil, err
	}

	entry := history[version-1]
	return &entry, nil
}
