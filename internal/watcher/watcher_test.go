package watcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyentantai21042004/dirwatch/internal/diff"
	"github.com/nguyentantai21042004/dirwatch/internal/logger"
)

var fixedNow = time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)

type chanListener struct {
	ch chan string
}

func newChanListener() *chanListener {
	return &chanListener{ch: make(chan string, 64)}
}

func (c *chanListener) Notify(message string) error {
	select {
	case c.ch <- message:
	default:
	}
	return nil
}

func (c *chanListener) drain() []string {
	var out []string
	for {
		select {
		case m := <-c.ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func newTestWatcher(t *testing.T, opts Options) *implWatcher {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logger.NewWithWriter("error", io.Discard)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w.(*implWatcher)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func kinds(events []diff.Event) []string {
	var out []string
	for _, ev := range events {
		s := ev.Kind.String() + " " + ev.Name
		if ev.NewName != "" {
			s += " " + ev.NewName
		}
		out = append(out, s)
	}
	return out
}

func TestStartInvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")

	for _, path := range []string{"", filepath.Join(dir, "missing"), file} {
		w := newTestWatcher(t, Options{Directory: path})

		err := w.Start(context.Background())
		if !errors.Is(err, ErrInvalidDirectory) {
			t.Errorf("Start(%q) error = %v, want ErrInvalidDirectory", path, err)
		}
		if w.State() != Stopped {
			t.Errorf("Start(%q) left state %v", path, w.State())
		}
	}
}

func TestNewRejectsBadIgnorePattern(t *testing.T) {
	if _, err := New(Options{Ignore: []string{"a["}}); err == nil {
		t.Error("New() expected error for malformed ignore pattern")
	}
}

func TestRunCycleLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	listener := newChanListener()
	w := newTestWatcher(t, Options{Directory: dir})
	w.Subscribe(listener)

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	base := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

	// cycle 1: empty directory
	if events := w.runCycle(ctx, dir); len(events) != 0 {
		t.Fatalf("empty dir produced %v", kinds(events))
	}

	// cycle 2: add
	writeFile(t, a, "0123456789")
	if err := os.Chtimes(a, base, base); err != nil {
		t.Fatal(err)
	}
	assertKinds(t, w.runCycle(ctx, dir), "added a.txt")

	// unchanged
	assertKinds(t, w.runCycle(ctx, dir))

	// modify: same size, new mtime
	writeFile(t, a, "9876543210")
	touched := base.Add(time.Hour)
	if err := os.Chtimes(a, touched, touched); err != nil {
		t.Fatal(err)
	}
	assertKinds(t, w.runCycle(ctx, dir), "modified a.txt")

	// size change with the mtime held still
	writeFile(t, a, "short")
	if err := os.Chtimes(a, touched, touched); err != nil {
		t.Fatal(err)
	}
	assertKinds(t, w.runCycle(ctx, dir), "size_changed a.txt")

	// rename
	if err := os.Rename(a, b); err != nil {
		t.Fatal(err)
	}
	assertKinds(t, w.runCycle(ctx, dir), "renamed a.txt b.txt")

	// delete
	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	assertKinds(t, w.runCycle(ctx, dir), "deleted b.txt")

	want := []string{
		"[03:04:05 PM] File added: a.txt",
		"[03:04:05 PM] File modified: a.txt",
		"[03:04:05 PM] File size changed: a.txt",
		"[03:04:05 PM] File renamed: a.txt -> b.txt",
		"[03:04:05 PM] File deleted: b.txt",
	}
	if diff := cmp.Diff(want, listener.drain()); diff != "" {
		t.Errorf("published messages (-want +got):\n%s", diff)
	}
}

func TestRunCycleSkipExisting(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.txt"), "old")

	w := newTestWatcher(t, Options{Directory: dir, SkipExisting: true})

	assertKinds(t, w.runCycle(ctx, dir))

	writeFile(t, filepath.Join(dir, "new.txt"), "new")
	assertKinds(t, w.runCycle(ctx, dir), "added new.txt")
}

func TestRunCycleIgnore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "k")
	writeFile(t, filepath.Join(dir, "notes.swp"), "s")

	w := newTestWatcher(t, Options{Directory: dir, Ignore: []string{"*.swp"}})

	assertKinds(t, w.runCycle(ctx, dir), "added keep.txt")
}

func TestRunCycleCancelledKeepsState(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	w := newTestWatcher(t, Options{Directory: dir})
	assertKinds(t, w.runCycle(context.Background(), dir), "added a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if events := w.runCycle(ctx, dir); len(events) != 0 {
		t.Fatalf("cancelled cycle produced %v", kinds(events))
	}
	if _, ok := w.tracked["a.txt"]; !ok {
		t.Error("cancelled cycle dropped tracked state")
	}
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	listener := newChanListener()
	w := newTestWatcher(t, Options{Directory: dir, Interval: 10 * time.Millisecond})
	w.Subscribe(listener)

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	waitFor(t, func() bool { return w.State() == Watching })

	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Start() error = %v, want ErrAlreadyWatching", err)
	}
	if err := w.SetDirectory(t.TempDir()); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("SetDirectory() while watching error = %v, want ErrAlreadyWatching", err)
	}

	writeFile(t, filepath.Join(dir, "a.txt"), "hello")

	select {
	case msg := <-listener.ch:
		if !strings.HasSuffix(msg, "File added: a.txt") {
			t.Errorf("unexpected message %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for add event")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Stop")
	}
	if w.State() != Stopped {
		t.Errorf("State() = %v after Stop", w.State())
	}
}

func TestStartContextCancel(t *testing.T) {
	w := newTestWatcher(t, Options{Directory: t.TempDir(), Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	waitFor(t, func() bool { return w.State() == Watching })
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() ignored context cancellation during the wait")
	}
}

func TestSetDirectory(t *testing.T) {
	w := newTestWatcher(t, Options{})
	dir := t.TempDir()

	if err := w.SetDirectory(dir); err != nil {
		t.Fatalf("SetDirectory() error = %v", err)
	}
	if w.Directory() != dir {
		t.Errorf("Directory() = %q, want %q", w.Directory(), dir)
	}
}

func TestUnsubscribe(t *testing.T) {
	dir := t.TempDir()
	listener := newChanListener()
	w := newTestWatcher(t, Options{Directory: dir})
	w.Subscribe(listener)

	if !w.Unsubscribe(listener) {
		t.Fatal("Unsubscribe() = false")
	}

	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	w.runCycle(context.Background(), dir)
	if got := listener.drain(); len(got) != 0 {
		t.Errorf("unsubscribed listener received %v", got)
	}
}

func TestStateString(t *testing.T) {
	if Stopped.String() != "stopped" || Watching.String() != "watching" {
		t.Errorf("unexpected state names %q, %q", Stopped, Watching)
	}
}

func assertKinds(t *testing.T, events []diff.Event, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, kinds(events)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
