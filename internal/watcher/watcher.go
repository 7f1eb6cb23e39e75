// Package watcher watches the thing database for changes made by other
// processes and publishes debounced notifications.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/pubsub"
)

// Watcher monitors the database file and publishes an UpdatedEvent after
// each burst of writes settles.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dbPath    string
	debounce  time.Duration
	changes   *pubsub.Broker[struct{}]
	done      chan struct{}
	stopOnce  sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	DBPath      string
	DebounceDur time.Duration
}

// DefaultConfig returns the defaults for dbPath.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:      dbPath,
		DebounceDur: 1 * time.Second,
	}
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dbPath:    cfg.DBPath,
		debounce:  cfg.DebounceDur,
		changes:   pubsub.NewBroker[struct{}](),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the database directory.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.dbPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "watching database", "path", w.dbPath, "debounce", w.debounce)

	go w.loop()
	return nil
}

// Subscribe returns a channel of change notifications for the lifetime of ctx.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[struct{}] {
	return w.changes.Subscribe(ctx)
}

// Forward calls fn for every change notification until ctx is done.
func (w *Watcher) Forward(ctx context.Context, fn func(context.Context)) {
	ch := w.Subscribe(ctx)
	go func() {
		for range ch {
			fn(ctx)
		}
	}()
}

// Stop terminates the watcher and closes every subscription. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.changes.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				log.Debug(log.CatWatcher, "database changed", "path", w.dbPath)
				w.changes.Publish(pubsub.UpdatedEvent, struct{}{})
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.dbPath)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports writes to the database or its WAL file. Create
// counts because the WAL file is recreated after a checkpoint.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	db := filepath.Base(w.dbPath)
	return base == db || base == db+"-wal"
}

// Invalidator drops cached state that may be stale after an external change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Notifier re-publishes an external change to in-process observers.
type Notifier interface {
	NotifyExternal()
}

// Bridge connects the watcher to the store: every notification invalidates
// cache and then notifies n. Either may be nil.
func Bridge(ctx context.Context, w *Watcher, cache Invalidator, n Notifier) {
	w.Forward(ctx, func(ctx context.Context) {
		if cache != nil {
			cache.Invalidate(ctx)
		}
		if n != nil {
			n.NotifyExternal()
		}
	})
}
