package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Fingerprint builds a syntactically valid content fingerprint from a single
// repeated character, so tests can tell fingerprints apart at a glance.
func Fingerprint(ch byte) string {
	return strings.Repeat(string(ch), registry.FingerprintLength)
}

// DefaultUpload returns valid upload parameters owned by the given account.
func DefaultUpload(owner registry.AccountID) registry.UploadParams {
	return registry.UploadParams{
		Owner:       owner,
		Name:        "report.pdf",
		Fingerprint: Fingerprint('a'),
		Size:        1024,
		MIMEType:    "application/pdf",
		Description: "Quarterly report",
		Tags:        []string{"reports", "q3"},
	}
}

// requireCode asserts that err is a *registry.StoreError with the given code.
func requireCode(test *testing.T, err error, code registry.ErrorCode) {
	test.Helper()
	require.Error(test, err)
	storeErr, ok := err.(*registry.StoreError)
	require.True(test, ok, "expected *registry.StoreError, got %T: %v", err, err)
	require.Equal(test, code, storeErr.Code, "unexpected error code in %v", err)
}

// logicalTime returns a pointer to a LogicalTime literal, for expiries.
func logicalTime(t registry.LogicalTime) *registry.LogicalTime {
	return &t
}
