package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// BindFile is the cross-context bridge: it persists every store change to a
// JSON file and folds external writes of that file back into the store, so
// another gateway process (or another browser context behind one) sees the
// same selection.
//
// Delivery is best-effort in both directions. The bridge runs until ctx is
// done or the returned cancel is called.
func BindFile(ctx context.Context, store *Store, path string) (func(), error) {
	// an existing file seeds the store before watching starts
	if raw, err := os.ReadFile(path); err == nil {
		var sel Selection
		if json.Unmarshal(raw, &sel) == nil {
			store.Set(sel)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory: the file may not exist yet, and editors/other
	// processes often replace rather than rewrite it
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	cctx, cancel := context.WithCancel(ctx)

	unsubscribe := store.Subscribe(func(sel Selection) {
		raw, err := json.Marshal(sel)
		if err != nil {
			return
		}
		_ = os.WriteFile(path, raw, 0644)
	})

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
				if event.Name != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				raw, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				var sel Selection
				if json.Unmarshal(raw, &sel) != nil {
					continue
				}
				store.Set(sel)
			case <-w.Errors:
				// watch errors only degrade propagation; the store stays usable
			}
		}
	}()

	return func() {
		unsubscribe()
		cancel()
	}, nil
}
