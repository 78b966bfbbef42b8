// Package testing provides a reusable conformance suite for registry Store
// implementations.
package testing

import (
	"testing"

	"github.com/fileledger/fileledger/pkg/registry"
)

// StoreTestSuite is a comprehensive test suite for Store implementations.
// It tests the interface contract, not implementation details, making it
// reusable across different implementations (memory, badger, etc.).
type StoreTestSuite struct {
	// NewStore is a factory function that creates a fresh Store instance for
	// each test, configured with AdminAccount and driven by the returned
	// manual clock. This ensures test isolation.
	NewStore func(test *testing.T) (registry.Store, *registry.ManualClock)

	// NewStoreWithLimit creates a fresh Store with the given per-account file
	// count quota, for quota enforcement tests.
	NewStoreWithLimit func(test *testing.T, maxFiles uint64) registry.Store
}

// AdminAccount is the designated administrator the factories must configure.
const AdminAccount = registry.AccountID("admin")

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(test *testing.T) {
	test.Run("Upload", suite.RunUploadTests)
	test.Run("Content", suite.RunContentTests)
	test.Run("Metadata", suite.RunMetadataTests)
	test.Run("Access", suite.RunAccessTests)
	test.Run("Version", suite.RunVersionTests)
	test.Run("Quota", suite.RunQuotaTests)
	test.Run("Export", suite.RunExportTests)
	test.Run("Healthcheck", suite.RunHealthcheckTests)
}
