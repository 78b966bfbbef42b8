package registry

// AccountID identifies the principal initiating an operation.
//
// The registry treats identities as opaque strings supplied by the host
// environment. It never parses or derives meaning from them beyond equality
// comparison and the designated-administrator rule enforced by the Validator.
type AccountID string

// FileID identifies a file metadata record.
//
// IDs form a dense, monotonically increasing sequence starting at 1. They are
// allocated atomically with record creation and never reused. FileID 0 is
// invalid and rejected by validation.
type FileID uint64

// LogicalTime is a point on the host-supplied logical clock.
//
// The registry never interprets logical time as wall time; it only compares
// values. The host guarantees the clock is monotonically non-decreasing, which
// makes expiry checks stable regardless of operation ordering.
type LogicalTime uint64

// Registry-wide limits. These mirror the input-shape rules enforced by the
// Validator; they are exported so hosts can surface them to callers without
// round-tripping an InvalidParameters error.
const (
	// MaxNameLength is the maximum display name length in characters.
	MaxNameLength = 64

	// MaxDescriptionLength is the maximum description and change-note length.
	MaxDescriptionLength = 256

	// MaxMIMETypeLength is the maximum MIME type length.
	MaxMIMETypeLength = 32

	// FingerprintLength is the exact required length of a content fingerprint
	// (a fixed-width hash representation; the registry does not verify it).
	FingerprintLength = 64

	// MaxTagCount is the maximum number of tags per file.
	MaxTagCount = 10

	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 32

	// MaxContentSize is the maximum recorded content size in bytes (1 GiB).
	MaxContentSize = 1 << 30

	// DefaultMaxFilesPerAccount is the per-account file count quota applied
	// when a store is created without an explicit limit.
	DefaultMaxFilesPerAccount = 100
)

// InitialUploadNote is the change note recorded on version 1 of every file.
const InitialUploadNote = "Initial file upload"

// FileRecord is the primary metadata record for a file.
//
// One record exists per FileID. Records are created by Upload, mutated by
// UpdateContent and UpdateMetadata, and never deleted. Owner is immutable
// after creation.
type FileRecord struct {
	// ID is the dense sequential file identifier.
	ID FileID `json:"id"`

	// Owner is the account that uploaded the file. Immutable.
	Owner AccountID `json:"owner"`

	// Name is the display name (1-64 characters).
	Name string `json:"name"`

	// Fingerprint is the fixed-width content hash string (exactly 64 chars).
	// The registry records it verbatim; correctness is the caller's concern.
	Fingerprint string `json:"fingerprint"`

	// Size is the recorded content size in bytes (at most 1 GiB).
	Size uint64 `json:"size"`

	// CreatedAt is the logical time of upload.
	CreatedAt LogicalTime `json:"created_at"`

	// ModifiedAt is the logical time of the last content update. Metadata
	// edits do not touch it.
	ModifiedAt LogicalTime `json:"modified_at"`

	// MIMEType is the declared media type (at most 32 characters, may be empty).
	MIMEType string `json:"mime_type"`

	// Description is free text (1-256 characters).
	Description string `json:"description"`

	// Private controls read visibility: non-private files are readable by
	// anyone, private files only by the owner and unexpired grantees.
	Private bool `json:"private"`

	// Encrypted records whether the off-system content is encrypted.
	// Informational only; the registry performs no cryptography.
	Encrypted bool `json:"encrypted"`

	// CurrentVersion starts at 1 and increases by exactly 1 per content
	// update. It always equals the highest stored version number.
	CurrentVersion uint32 `json:"current_version"`
}

// PermissionEntry is the stored access grant for one (file, grantee) pair.
//
// Entries are created only by the file's owner and replaced wholesale on
// re-grant: a new grant never merges with a previous one. The owner has
// implicit full access and never appears as a grantee.
//
// Entry existence does not imply validity: expiry must be evaluated against
// the current logical clock on every access check (see ValidAt).
type PermissionEntry struct {
	// FileID is the file this entry applies to.
	FileID FileID `json:"file_id"`

	// Grantee is the account receiving access.
	Grantee AccountID `json:"grantee"`

	// Read is always true for a stored entry; every grant confers read.
	Read bool `json:"read"`

	// Write is true when the grant also confers content-update access.
	Write bool `json:"write"`

	// GrantedAt is the logical time the grant was (last) written.
	GrantedAt LogicalTime `json:"granted_at"`

	// ExpiresAt, when non-nil, bounds the grant: it is valid strictly before
	// this time and invalid at or after it.
	ExpiresAt *LogicalTime `json:"expires_at,omitempty"`
}

// ValidAt reports whether the entry is in effect at the given logical time.
func (e *PermissionEntry) ValidAt(now LogicalTime) bool {
	return e.ExpiresAt == nil || *e.ExpiresAt > now
}

// VersionRecord is one immutable entry in a file's append-only version history.
//
// Version 1 is written atomically with file creation; each content update
// appends exactly one record numbered current_version + 1. Records are never
// updated or deleted, so the set for a file is always a contiguous run from 1.
type VersionRecord struct {
	// FileID is the file this version belongs to.
	FileID FileID `json:"file_id"`

	// Version is the sequential version number, starting at 1.
	Version uint32 `json:"version"`

	// Fingerprint is the content hash recorded at this version.
	Fingerprint string `json:"fingerprint"`

	// Size is the content size recorded at this version.
	Size uint64 `json:"size"`

	// ChangedBy is the principal that made the change (owner or write grantee).
	ChangedBy AccountID `json:"changed_by"`

	// ChangedAt is the logical time of the change.
	ChangedAt LogicalTime `json:"changed_at"`

	// Note is the free-text change note (1-256 characters).
	Note string `json:"note"`
}

// StorageMetrics holds per-account storage aggregates.
//
// Metrics are created lazily on an account's first successful upload; for
// unknown accounts queries return all-zero metrics rather than an error.
// FileCount only ever increments; no delete operation exists.
type StorageMetrics struct {
	// Account is the owning account.
	Account AccountID `json:"account"`

	// FileCount is the number of files the account currently owns.
	FileCount uint64 `json:"file_count"`

	// StorageBytes is the sum of content sizes across all owned files.
	// Maintained atomically with the record mutation that changes it.
	StorageBytes uint64 `json:"storage_bytes"`

	// LastActivity is the logical time of the account's last quota-affecting
	// operation.
	LastActivity LogicalTime `json:"last_activity"`
}

// RecordPatch describes a partial metadata edit.
//
// Each field is optional: nil means "leave unchanged". The patch is applied
// field-by-field against the existing record, producing a new record value;
// it never touches fingerprint, size, version, or quota state. Tags, when
// present, replace the previous tag set wholesale.
type RecordPatch struct {
	Name        *string   `validate:"omitempty,min=1,max=64"`
	Description *string   `validate:"omitempty,min=1,max=256"`
	Tags        *[]string `validate:"omitempty,max=10,dive,max=32"`
}

// Empty reports whether the patch carries no fields. Applying an empty patch
// succeeds and changes nothing observable.
func (p *RecordPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Tags == nil
}

// UploadParams carries the inputs of a file creation.
//
// The validate tags encode the pure input-shape rules; contextual rules
// (administrator exclusion, quota) are enforced separately.
type UploadParams struct {
	Owner       AccountID `validate:"required"`
	Name        string    `validate:"min=1,max=64"`
	Fingerprint string    `validate:"len=64"`
	Size        uint64    `validate:"lte=1073741824"`
	MIMEType    string    `validate:"max=32"`
	Description string    `validate:"min=1,max=256"`
	Private     bool
	Encrypted   bool
	Tags        []string `validate:"max=10,dive,max=32"`
}

// Export is a point-in-time dump of the complete registry state, consumed by
// snapshot tooling. Files and versions are ordered ascending; grants and
// metrics are ordered by their natural keys so exports are deterministic.
type Export struct {
	Files    []FileRecord        `json:"files"`
	Tags     map[FileID][]string `json:"tags"`
	Versions []VersionRecord     `json:"versions"`
	Grants   []PermissionEntry   `json:"grants"`
	Metrics  []StorageMetrics    `json:"metrics"`
}
