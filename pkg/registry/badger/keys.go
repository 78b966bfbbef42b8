package badger

import (
	"fmt"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so we use prefixed keys to organize the
// registry's record kinds into logical namespaces. This design:
//   - Prevents key collisions between record kinds
//   - Enables efficient range scans (all versions of a file, all grants)
//   - Makes the database structure self-documenting
//   - Supports future extensions without schema changes
//
// File IDs are zero-padded to 20 digits (the width of the largest uint64) so
// lexicographic key order matches numeric ID order, which keeps range scans
// and full exports naturally sorted. Version numbers get 10 digits for the
// same reason.
//
// Key Namespace Prefixes:
//
// Record Kind          Prefix   Key Format                      Value Type
// ==========================================================================
// File Records         "f:"     f:<id20>                        FileRecord (JSON)
// Tag Sets             "t:"     t:<id20>                        []string (JSON)
// Version History      "v:"     v:<id20>:<version10>            VersionRecord (JSON)
// Access Grants        "g:"     g:<id20>:<grantee>              PermissionEntry (JSON)
// Storage Aggregates   "q:"     q:<account>                     StorageMetrics (JSON)
// ID Sequence          "seq:"   seq:file                        uint64 (big-endian)
//
// Key Design Rationale:
//
// 1. File Records (f:)
//    - One entry per file, point lookup by ID: O(1)
//    - Full-registry scans iterate the prefix in ID order
//
// 2. Tag Sets (t:)
//    - Kept separate from the record so wholesale tag replacement is a
//      single-key write
//
// 3. Version History (v:)
//    - One entry per version, never updated or deleted
//    - Range scan from "v:<id20>:" yields the history in ascending order
//
// 4. Access Grants (g:)
//    - One entry per (file, grantee) pair, replaced wholesale on re-grant
//    - Point lookup for access checks; range scan per file for export
//
// 5. Storage Aggregates (q:)
//    - One entry per account, created lazily on first upload
//
// 6. ID Sequence (seq:)
//    - Singleton counter holding the next FileID to allocate
//    - Read and bumped inside the upload transaction, so the sequence stays
//      dense even across crashes

const (
	// prefixFile is the key prefix for file records
	prefixFile = "f:"

	// prefixTags is the key prefix for tag sets
	prefixTags = "t:"

	// prefixVersion is the key prefix for version history entries
	prefixVersion = "v:"

	// prefixGrant is the key prefix for access grants
	prefixGrant = "g:"

	// prefixMetrics is the key prefix for per-account storage aggregates
	prefixMetrics = "q:"
)

// keySequence is the singleton key holding the next FileID.
func keySequence() []byte {
	return []byte("seq:file")
}

// keyFile generates a key for a file record.
//
// Format: "f:<id20>"
// Example: "f:00000000000000000042"
func keyFile(id registry.FileID) []byte {
	return fmt.Appendf(nil, "%s%020d", prefixFile, id)
}

// keyTags generates a key for a file's tag set.
func keyTags(id registry.FileID) []byte {
	return fmt.Appendf(nil, "%s%020d", prefixTags, id)
}

// keyVersion generates a key for one version history entry.
//
// Format: "v:<id20>:<version10>"
// Example: "v:00000000000000000042:0000000003"
func keyVersion(id registry.FileID, version uint32) []byte {
	return fmt.Appendf(nil, "%s%020d:%010d", prefixVersion, id, version)
}

// keyVersionPrefix generates the scan prefix for a file's version history.
func keyVersionPrefix(id registry.FileID) []byte {
	return fmt.Appendf(nil, "%s%020d:", prefixVersion, id)
}

// keyGrant generates a key for one (file, grantee) access grant.
//
// Format: "g:<id20>:<grantee>"
// Example: "g:00000000000000000042:bob"
func keyGrant(id registry.FileID, grantee registry.AccountID) []byte {
	return fmt.Appendf(nil, "%s%020d:%s", prefixGrant, id, grantee)
}

// keyGrantPrefix generates the scan prefix for a file's grants.
func keyGrantPrefix(id registry.FileID) []byte {
	return fmt.Appendf(nil, "%s%020d:", prefixGrant, id)
}

// keyMetrics generates a key for an account's storage aggregates.
func keyMetrics(account registry.AccountID) []byte {
	return fmt.Appendf(nil, "%s%s", prefixMetrics, account)
}
