package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fileledger/fileledger/pkg/registry"
)

// Export returns a deterministic point-in-time dump of the complete registry
// state. Files and versions are ordered ascending by identifier, grants by
// (file, grantee), metrics by account, so repeated exports of the same state
// are byte-identical once serialized.
func (s *MemoryStore) Export(ctx context.Context) (_ *registry.Export, err error) {
	start := time.Now()
	defer func() { s.record("Export", start, err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}

	export := &registry.Export{
		Files:    make([]registry.FileRecord, 0, len(s.files)),
		Tags:     make(map[registry.FileID][]string, len(s.tags)),
		Versions: make([]registry.VersionRecord, 0, len(s.versions)),
		Grants:   make([]registry.PermissionEntry, 0),
		Metrics:  make([]registry.StorageMetrics, 0, len(s.accounts)),
	}

	for _, file := range s.files {
		export.Files = append(export.Files, *file)
	}
	sort.Slice(export.Files, func(i, j int) bool {
		return export.Files[i].ID < export.Files[j].ID
	})

	for id, tags := range s.tags {
		export.Tags[id] = copyTags(tags)
	}

	// File IDs are dense, so walking the sorted files yields versions in
	// (file, version) order without a second sort.
	for _, file := range export.Files {
		export.Versions = append(export.Versions, s.versions[file.ID]...)
	}

	for _, file := range export.Files {
		fileGrants := s.grants[file.ID]
		grantees := make([]string, 0, len(fileGrants))
		for grantee := range fileGrants {
			grantees = append(grantees, string(grantee))
		}
		sort.Strings(grantees)
		for _, grantee := range grantees {
			export.Grants = append(export.Grants, *fileGrants[registry.AccountID(grantee)])
		}
	}

	accounts := make([]string, 0, len(s.accounts))
	for account := range s.accounts {
		accounts = append(accounts, string(account))
	}
	sort.Strings(accounts)
	for _, account := range accounts {
		export.Metrics = append(export.Metrics, *s.accounts[registry.AccountID(account)])
	}

	return export, nil
}
