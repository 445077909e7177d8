package registry

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// Watch invokes onPromote with the new current version whenever the CURRENT
// pointer file changes, refreshing the cache first. Promotions come from an
// external training pipeline process, so polling per request is replaced by
// one inotify watch on the registry root. Watch blocks until done is closed
// or the watcher fails.
func (r *Registry) Watch(done <-chan struct{}, onPromote func(version string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create registry watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(r.root); err != nil {
		return fmt.Errorf("failed to watch registry directory: %w", err)
	}

	currentPath := filepath.Join(r.root, currentFile)
	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != currentPath {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			version, err := r.Refresh()
			if err != nil {
				common.LogError(err, "registry current pointer unreadable after change", common.Fields{
					"path": currentPath,
				})
				continue
			}
			onPromote(version)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			common.LogError(err, "registry watcher error", common.Fields{"dir": r.root})
		}
	}
}
