package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opsberry/deskfab/pkg/blobstore/local"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("it writes the body under the root, creating folders", func(t *testing.T) {
		root := t.TempDir()
		testee := local.New(root)

		if err := testee.Put(ctx, "hr/policy.pdf", "application/pdf", []byte("fake pdf")); err != nil {
			t.Fatal(err)
		}

		got, err := os.ReadFile(filepath.Join(root, "hr", "policy.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "fake pdf" {
			t.Errorf("unmatch content: %s", string(got))
		}
	})

	t.Run("it rejects keys escaping the root", func(t *testing.T) {
		root := t.TempDir()
		testee := local.New(root)

		for _, key := range []string{"../outside.pdf", "hr/../../outside.pdf", "/etc/passwd"} {
			if err := testee.Put(ctx, key, "", []byte("x")); err == nil {
				t.Errorf("key %s should be rejected", key)
			}
		}
	})

	t.Run("it overwrites an existing file", func(t *testing.T) {
		root := t.TempDir()
		testee := local.New(root)

		if err := testee.Put(ctx, "training/guide.pdf", "", []byte("v1")); err != nil {
			t.Fatal(err)
		}
		if err := testee.Put(ctx, "training/guide.pdf", "", []byte("v2")); err != nil {
			t.Fatal(err)
		}

		got, err := os.ReadFile(filepath.Join(root, "training", "guide.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "v2" {
			t.Errorf("unmatch content: %s", string(got))
		}
	})
}
