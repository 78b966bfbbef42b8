package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSSink stores snapshots as files in a local directory.
type FSSink struct {
	root string
}

// NewFSSink creates a filesystem sink rooted at the given directory, creating
// it if necessary.
func NewFSSink(root string) (*FSSink, error) {
	if root == "" {
		return nil, fmt.Errorf("snapshot directory path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory %s: %w", root, err)
	}
	return &FSSink{root: root}, nil
}

// Put writes the snapshot to a temporary file and renames it into place, so a
// crash mid-write never leaves a truncated snapshot under the final name.
func (s *FSSink) Put(ctx context.Context, key string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	final := filepath.Join(s.root, key)

	tmp, err := os.CreateTemp(s.root, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("failed to finalize snapshot %s: %w", final, err)
	}
	return nil
}
