package registry

import "context"

// Store is the storage-agnostic interface for the file metadata registry.
//
// A Store tracks ownership, versioned content fingerprints, time-scoped
// access grants, tags, and per-account storage aggregates for files whose
// bytes live outside the system. It never touches content: fingerprints and
// sizes are recorded verbatim from the caller.
//
// Contract shared by all implementations:
//
//   - Each operation is atomic. Either every record it touches is updated or
//     none is; no operation ever observes another half-applied.
//   - Errors are *StoreError values classified by ErrorCode.
//   - Records are never deleted. FileIDs form a dense sequence from 1 and
//     version histories are contiguous, append-only runs from 1.
//   - Expiry of access grants is evaluated against the store's Clock at the
//     moment of each check, never at grant time.
//
// Implementations: memory.MemoryStore (map-based, for tests and embedding),
// badger.BadgerStore (persistent, transaction-per-operation).
type Store interface {
	// Upload creates a new file record owned by params.Owner, together with
	// its version 1 history entry, tag set, and updated owner storage
	// aggregates, all atomically. Returns the assigned FileID.
	//
	// Fails with ErrInvalidParameters when inputs are malformed or the owner
	// is the designated administrator, and with ErrStorageExceeded when the
	// owner already holds the maximum number of files.
	Upload(ctx context.Context, params UploadParams) (FileID, error)

	// UpdateContent records a new content version for the file: it replaces
	// the record's fingerprint and size, bumps CurrentVersion by one, appends
	// the matching version history entry, and adjusts the owner's storage
	// aggregates, all atomically.
	//
	// Authorized for the owner and for accounts holding an unexpired write
	// grant; everyone else gets ErrAccessDenied. The note is recorded on the
	// new version entry. Returns the version number just written.
	UpdateContent(ctx context.Context, initiator AccountID, id FileID, fingerprint string, size uint64, note string) (uint32, error)

	// UpdateMetadata applies a partial edit to the file's name, description,
	// or tag set. Owner only. Absent patch fields are left unchanged; a
	// present tag list replaces the previous set wholesale. Content state,
	// version history, and storage aggregates are untouched.
	UpdateMetadata(ctx context.Context, initiator AccountID, id FileID, patch RecordPatch) error

	// GrantAccess writes the permission entry for (id, grantee), replacing
	// any previous entry for that pair wholesale. Owner only; the owner and
	// the designated administrator cannot be grantees. Every grant confers
	// read; write and expiry follow the arguments. A nil expiresAt means the
	// grant never expires; a non-nil value must be strictly in the future.
	GrantAccess(ctx context.Context, initiator AccountID, id FileID, grantee AccountID, write bool, expiresAt *LogicalTime) error

	// HasReadAccess reports whether the account may read the file's metadata:
	// true for the owner, for anyone when the file is not private, and for
	// holders of an unexpired grant.
	HasReadAccess(ctx context.Context, account AccountID, id FileID) (bool, error)

	// HasWriteAccess reports whether the account holds an unexpired write
	// grant on the file. Ownership is deliberately not consulted; callers
	// that need owner-or-writer semantics check ownership separately.
	HasWriteAccess(ctx context.Context, account AccountID, id FileID) (bool, error)

	// GetFileInfo returns the file record and its current tag set. The
	// initiator must have read access to the file (see HasReadAccess);
	// everyone else gets ErrAccessDenied.
	GetFileInfo(ctx context.Context, initiator AccountID, id FileID) (*FileRecord, []string, error)

	// GetVersionHistory returns the file's complete version history ordered
	// by ascending version number. Gated by read access like GetFileInfo.
	GetVersionHistory(ctx context.Context, initiator AccountID, id FileID) ([]VersionRecord, error)

	// GetVersion returns a single version history entry. Gated by read access
	// like GetFileInfo. A missing version on an existing file fails with
	// ErrFileNotFound.
	GetVersion(ctx context.Context, initiator AccountID, id FileID, version uint32) (*VersionRecord, error)

	// GetStorageMetrics returns the account's storage aggregates. Unknown
	// accounts yield all-zero metrics, not an error.
	GetStorageMetrics(ctx context.Context, account AccountID) (*StorageMetrics, error)

	// Export returns a deterministic point-in-time dump of the complete
	// registry state for snapshot tooling.
	Export(ctx context.Context) (*Export, error)

	// Healthcheck verifies that the underlying storage is reachable.
	Healthcheck(ctx context.Context) error

	// Close releases the store's resources. The store is unusable afterwards.
	Close() error
}
