package appointment

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// BlobWatcher watches the persisted blob on disk so the UI can reload when
// another process rewrites it. Events are debounced because a single save can
// produce several filesystem notifications.
type BlobWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	mu       sync.Mutex
	pending  *time.Timer
	done     chan struct{}
}

// NewBlobWatcher watches the blob store's base directory and invokes onChange
// after writes to the appointments blob settle.
func NewBlobWatcher(basePath string, onChange func()) (*BlobWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(basePath); err != nil {
		watcher.Close()
		return nil, err
	}

	bw := &BlobWatcher{
		watcher:  watcher,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go bw.watch()
	return bw, nil
}

func (bw *BlobWatcher) watch() {
	for {
		select {
		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Base(event.Name) != BlobKey {
				continue
			}

			bw.mu.Lock()
			if bw.pending != nil {
				bw.pending.Stop()
			}
			bw.pending = time.AfterFunc(100*time.Millisecond, func() {
				if bw.onChange != nil {
					bw.onChange()
				}
			})
			bw.mu.Unlock()

		case _, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching after transient errors.

		case <-bw.done:
			return
		}
	}
}

func (bw *BlobWatcher) Close() error {
	close(bw.done)
	bw.mu.Lock()
	if bw.pending != nil {
		bw.pending.Stop()
	}
	bw.mu.Unlock()
	return bw.watcher.Close()
}
