package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/nguyentantai21042004/dirwatch/internal/diff"
	"github.com/nguyentantai21042004/dirwatch/internal/logger"
	"github.com/nguyentantai21042004/dirwatch/internal/notify"
	"github.com/nguyentantai21042004/dirwatch/internal/snapshot"
)

type implWatcher struct {
	id           string
	logger       logger.Logger
	builder      *snapshot.Builder
	publisher    notify.Publisher
	interval     time.Duration
	skipExisting bool
	now          func() time.Time

	mu    sync.Mutex
	dir   string
	state State
	stop  chan struct{}

	// Owned by the goroutine running Start.
	tracked     diff.State
	primed      bool
	fingerprint uint64
}

func (w *implWatcher) SetDirectory(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Watching {
		return ErrAlreadyWatching
	}
	w.dir = path
	return nil
}

func (w *implWatcher) Directory() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

func (w *implWatcher) Subscribe(l notify.Listener) {
	w.publisher.Subscribe(l)
}

func (w *implWatcher) Unsubscribe(l notify.Listener) bool {
	return w.publisher.Unsubscribe(l)
}

func (w *implWatcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start validates the directory and runs poll cycles until Stop is called
// (returns nil) or ctx is done (returns ctx.Err()). The tracked state starts
// empty on every call.
func (w *implWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.state == Watching {
		w.mu.Unlock()
		return ErrAlreadyWatching
	}
	dir := w.dir
	if err := snapshot.ValidateDir(dir); err != nil {
		w.mu.Unlock()
		w.logger.Error(ctx, "Invalid directory: %v", err)
		return fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}
	stop := make(chan struct{})
	w.stop = stop
	w.state = Watching
	w.tracked = diff.State{}
	w.primed = false
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.state = Stopped
		w.stop = nil
		w.mu.Unlock()
	}()

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	w.logger.Info(ctx, "Watching directory: %s (every %s)", dir, w.interval)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Watcher cancelled: %s", dir)
			return ctx.Err()
		case <-stop:
			w.logger.Info(ctx, "Watcher stopped: %s", dir)
			return nil
		default:
		}

		w.runCycle(ctx, dir)

		timer.Reset(w.interval)
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Watcher cancelled: %s", dir)
			return ctx.Err()
		case <-stop:
			w.logger.Info(ctx, "Watcher stopped: %s", dir)
			return nil
		case <-timer.C:
		}
	}
}

// Stop asks a running Start to return. It is safe to call from any goroutine
// and more than once.
func (w *implWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop == nil {
		return nil
	}
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	return nil
}

// runCycle snapshots dir, diffs it against the tracked state and publishes
// the resulting events in order.
func (w *implWatcher) runCycle(ctx context.Context, dir string) []diff.Event {
	snap, err := w.builder.Build(ctx, dir)
	if err != nil {
		if ctx.Err() != nil {
			// A half-read listing would look like mass deletion.
			return nil
		}
		w.logger.Warn(ctx, "Listing %s failed, treating as empty: %v", dir, err)
	}
	for _, name := range snap.Skipped {
		w.logger.Debug(ctx, "Skipped %s: entry vanished during listing", name)
	}

	fingerprint := snap.Fingerprint()
	if !w.primed && w.skipExisting {
		w.tracked = diff.Seed(snap)
		w.primed = true
		w.fingerprint = fingerprint
		w.logger.Info(ctx, "Tracking %d existing entries", snap.Len())
		return nil
	}
	w.primed = true

	events, next := diff.Diff(w.tracked, snap, w.now())
	w.tracked = next

	for _, ev := range events {
		w.publisher.Publish(ctx, ev)
	}

	if fingerprint == w.fingerprint && len(events) == 0 {
		w.logger.Debug(ctx, "No changes (%d entries)", snap.Len())
	} else {
		w.logger.Debug(ctx, "Cycle complete: %d entries, %d events", snap.Len(), len(events))
	}
	w.fingerprint = fingerprint

	return events
}
