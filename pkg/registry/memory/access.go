package memory

import (
	"context"
	"time"

	"github.com/fileledger/fileledger/pkg/registry"
)

// GrantAccess writes the permission entry for (id, grantee), replacing any
// previous entry for the pair. Owner only. Every grant confers read; write
// and expiry follow the arguments.
func (s *MemoryStore) GrantAccess(ctx context.Context, initiator registry.AccountID, id registry.FileID, grantee registry.AccountID, write bool, expiresAt *registry.LogicalTime) (err error) {
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

	if grantee == file.Owner {
		err = registry.NewStoreError(registry.ErrInvalidParameters,
			"owner already has full access and cannot be a grantee")
		return err
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

	fileGrants := s.grants[id]
	if fileGrants == nil {
		fileGrants = make(map[registry.AccountID]*registry.PermissionEntry)
		s.grants[id] = fileGrants
	}
	fileGrants[grantee] = entry

	return nil
}

// HasReadAccess reports whether account may read the file's metadata: true
// for the owner, for anyone when the file is not private, and for holders of
// an unexpired grant.
func (s *MemoryStore) HasReadAccess(ctx context.Context, account registry.AccountID, id registry.FileID) (_ bool, err error) {
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

	if s.closed {
		return false, errClosed
	}

	file, err := s.getFile(id)
	if err != nil {
		return false, err
	}

	return s.readAccessValid(file, account), nil
}

// HasWriteAccess reports whether account holds an unexpired write grant on
// the file. Ownership is not consulted; callers needing owner-or-writer
// semantics check ownership separately.
func (s *MemoryStore) HasWriteAccess(ctx context.Context, account registry.AccountID, id registry.FileID) (_ bool, err error) {
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

	if s.closed {
		return false, errClosed
	}

	if _, err = s.getFile(id); err != nil {
		return false, err
	}

	return s.writeGrantValid(id, account, s.clock.Now()), nil
}

// writeGrantValid reports whether account holds a write grant on id that is
// in effect at the given time. Must be called with the lock held.
func (s *MemoryStore) writeGrantValid(id registry.FileID, account registry.AccountID, now registry.LogicalTime) bool {
	entry := s.grants[id][account]
	return entry != nil && entry.Write && entry.ValidAt(now)
}

// readAccessValid reports whether account may read the file's metadata: the
// owner always can, anyone can when the file is not private, and grantees
// can while their entry is unexpired. Must be called with the lock held.
func (s *MemoryStore) readAccessValid(file *registry.FileRecord, account registry.AccountID) bool {
	if account == file.Owner || !file.Private {
		return true
	}
	entry := s.grants[file.ID][account]
	return entry != nil && entry.ValidAt(s.clock.Now())
}

// authorizeRead converts a failed read-access check into ErrAccessDenied.
// Must be called with the lock held.
func (s *MemoryStore) authorizeRead(file *registry.FileRecord, account registry.AccountID) error {
	if !s.readAccessValid(file, account) {
		return registry.NewStoreErrorf(registry.ErrAccessDenied,
			"account %s cannot read file %d", account, file.ID)
	}
	return nil
}
