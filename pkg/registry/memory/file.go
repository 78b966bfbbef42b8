package memory

import (
	"context"
	"time"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Upload creates a new file record together with its version 1 entry, tag
// set, and owner storage aggregates.
//
// The FileID is allocated and consumed under the write lock, so the sequence
// stays dense even when an upload fails validation or quota: those checks run
// before allocation.
func (s *MemoryStore) Upload(ctx context.Context, params registry.UploadParams) (_ registry.FileID, err error) {
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

	if s.closed {
		return 0, errClosed
	}

	if owned := s.accounts[params.Owner]; owned != nil && owned.FileCount >= s.maxFilesPerAccount {
		err = registry.NewStoreErrorf(registry.ErrStorageExceeded,
			"account %s holds %d files, limit is %d", params.Owner, owned.FileCount, s.maxFilesPerAccount)
		return 0, err
	}

	now := s.clock.Now()

	id := s.nextID
	s.nextID++

	s.files[id] = &registry.FileRecord{
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

	s.tags[id] = copyTags(params.Tags)

	s.versions[id] = []registry.VersionRecord{{
		FileID:      id,
		Version:     1,
		Fingerprint: params.Fingerprint,
		Size:        params.Size,
		ChangedBy:   params.Owner,
		ChangedAt:   now,
		Note:        registry.InitialUploadNote,
	}}

	owner := s.account(params.Owner)
	owner.FileCount++
	owner.StorageBytes += params.Size
	owner.LastActivity = now

	s.metrics.SetTrackedFiles(int64(len(s.files)))

	return id, nil
}

// UpdateContent records a new content version for the file and returns its
// version number.
//
// Authorized for the owner and for holders of an unexpired write grant. The
// record, the appended version entry, and the owner's byte aggregates all
// change under one write lock acquisition.
func (s *MemoryStore) UpdateContent(ctx context.Context, initiator registry.AccountID, id registry.FileID, fingerprint string, size uint64, note string) (_ uint32, err error) {
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

	if s.closed {
		return 0, errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()

	if initiator != file.Owner && !s.writeGrantValid(id, initiator, now) {
		err = registry.NewStoreErrorf(registry.ErrAccessDenied,
			"account %s cannot modify file %d", initiator, id)
		return 0, err
	}

	previousSize := file.Size

	file.CurrentVersion++
	file.Fingerprint = fingerprint
	file.Size = size
	file.ModifiedAt = now

	s.versions[id] = append(s.versions[id], registry.VersionRecord{
		FileID:      id,
		Version:     file.CurrentVersion,
		Fingerprint: fingerprint,
		Size:        size,
		ChangedBy:   initiator,
		ChangedAt:   now,
		Note:        note,
	})

	s.chargeBytes(file.Owner, previousSize, size, now)

	return file.CurrentVersion, nil
}

// UpdateMetadata applies a partial edit to name, description, or tags.
// Owner only. Content state, version history, and aggregates are untouched.
func (s *MemoryStore) UpdateMetadata(ctx context.Context, initiator registry.AccountID, id registry.FileID, patch registry.RecordPatch) (err error) {
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

	if s.closed {
		return errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return err
	}

	if initiator != file.Owner {
		err = registry.NewStoreErrorf(registry.ErrAccessDenied,
			"account %s is not the owner of file %d", initiator, id)
		return err
	}

	if patch.Name != nil {
		file.Name = *patch.Name
	}
	if patch.Description != nil {
		file.Description = *patch.Description
	}
	if patch.Tags != nil {
		s.tags[id] = copyTags(*patch.Tags)
	}

	return nil
}

// GetFileInfo returns a copy of the file record and its current tag set.
// The initiator must have read access to the file.
func (s *MemoryStore) GetFileInfo(ctx context.Context, initiator registry.AccountID, id registry.FileID) (_ *registry.FileRecord, _ []string, err error) {
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

	if s.closed {
		return nil, nil, errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return nil, nil, err
	}

	if err = s.authorizeRead(file, initiator); err != nil {
		return nil, nil, err
	}

	// Return copies so callers cannot mutate store state.
	fileCopy := *file
	return &fileCopy, copyTags(s.tags[id]), nil
}

// copyTags clones a tag slice. A nil or empty input yields an empty non-nil
// slice so stored tag sets are always present.
func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
