package filewatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opsberry/deskfab/pkg/utils/filewatch"
)

func TestUntilModifyContext(t *testing.T) {
	t.Run("it cancels when the file is written", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "config.yaml")
		if err := os.WriteFile(target, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		if err := os.WriteFile(target, []byte("a: 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		select {
		case <-ctx.Done():
		case <-time.After(3 * time.Second):
			t.Error("context is not canceled")
		}
	})

	t.Run("it does not cancel for nothing", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "config.yaml")
		if err := os.WriteFile(target, []byte("a: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		select {
		case <-ctx.Done():
			t.Error("context is canceled: ", context.Cause(ctx))
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestWatchTree(t *testing.T) {
	t.Run("it reports created files relative to the root", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "hr"), 0o755); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events, err := filewatch.WatchTree(ctx, root)
		if err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(
			filepath.Join(root, "hr", "policy.pdf"), []byte("fake pdf"), 0o644,
		); err != nil {
			t.Fatal(err)
		}

		timeout := time.After(3 * time.Second)
		for {
			select {
			case key := <-events:
				if key == "hr/policy.pdf" {
					return
				}
			case <-timeout:
				t.Fatal("no event for hr/policy.pdf")
			}
		}
	})

	t.Run("it follows folders created after the watch began", func(t *testing.T) {
		root := t.TempDir()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events, err := filewatch.WatchTree(ctx, root)
		if err != nil {
			t.Fatal(err)
		}

		if err := os.MkdirAll(filepath.Join(root, "training"), 0o755); err != nil {
			t.Fatal(err)
		}
		// give the watcher a beat to pick the new folder up
		time.Sleep(200 * time.Millisecond)
		if err := os.WriteFile(
			filepath.Join(root, "training", "guide.docx"), []byte("fake doc"), 0o644,
		); err != nil {
			t.Fatal(err)
		}

		timeout := time.After(3 * time.Second)
		for {
			select {
			case key := <-events:
				if key == "training/guide.docx" {
					return
				}
			case <-timeout:
				t.Fatal("no event for training/guide.docx")
			}
		}
	})
}
