package memory

import (
	"testing"

	"github.com/fileledger/fileledger/pkg/registry"
	storetesting "github.com/fileledger/fileledger/pkg/registry/testing"
)

func TestMemoryStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(test *testing.T) (registry.Store, *registry.ManualClock) {
			clock := registry.NewManualClock(1)
			store := New(Config{
				AdminAccount: storetesting.AdminAccount,
				Clock:        clock,
			})
			test.Cleanup(func() { _ = store.Close() })
			return store, clock
		},
		NewStoreWithLimit: func(test *testing.T, maxFiles uint64) registry.Store {
			store := New(Config{
				AdminAccount:       storetesting.AdminAccount,
				MaxFilesPerAccount: maxFiles,
				Clock:              registry.NewManualClock(1),
			})
			test.Cleanup(func() { _ = store.Close() })
			return store
		},
	}

	suite.Run(t)
}
