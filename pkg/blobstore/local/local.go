// Package local stores content as plain files under a root directory.
//
// It backs the upload API in deployments where the content root is a
// mounted volume watched by the ingestion daemon, instead of an object
// bucket.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opsberry/deskfab/pkg/platform"
)

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

var _ platform.BlobStore = &Store{}

func (s *Store) Put(ctx context.Context, key string, contentType string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !filepath.IsLocal(key) {
		return fmt.Errorf("key escapes the content root: %s", key)
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare %s: %w", key, err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
