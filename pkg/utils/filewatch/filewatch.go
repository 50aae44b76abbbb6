// Package filewatch observes the filesystem with fsnotify.
package filewatch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context which is canceled when any of
// the target files is written, created, removed or renamed.
//
// Returns the derived context and its cancel function. The watcher is
// released when either the context ends or cancel is called.
func UntilModifyContext(ctx context.Context, targetFilePath ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op))
			}
		}
	}()

	for _, f := range targetFilePath {
		if err := w.Add(f); err != nil {
			cancel(err)
			return nil, nil, err
		}
	}
	return cctx, func() { cancel(nil) }, nil
}

// WatchTree streams paths of files created or written anywhere under
// root, relative to root with "/" separators. Directories appearing
// later are picked up too.
//
// The channel is closed when ctx ends.
func WatchTree(ctx context.Context, root string) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	addAll := func(dir string) error {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	}
	if err := addAll(root); err != nil {
		w.Close()
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}

				info, err := os.Stat(event.Name)
				if err != nil {
					continue
				}
				if info.IsDir() {
					// watch new folders as they appear
					if err := addAll(event.Name); err != nil {
						continue
					}
					continue
				}

				rel, err := filepath.Rel(root, event.Name)
				if err != nil {
					continue
				}
				select {
				case out <- filepath.ToSlash(rel):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
