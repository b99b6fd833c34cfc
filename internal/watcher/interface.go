package watcher

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/dirwatch/internal/notify"
)

var (
	// ErrInvalidDirectory is returned by Start when the configured path is
	// missing or not a directory.
	ErrInvalidDirectory = errors.New("invalid directory")
	// ErrAlreadyWatching is returned when a running watcher is started again
	// or re-pointed at another directory.
	ErrAlreadyWatching = errors.New("watcher already running")
)

// State is the lifecycle state of a Watcher
type State int

const (
	Stopped State = iota
	Watching
)

func (s State) String() string {
	switch s {
	case Watching:
		return "watching"
	default:
		return "stopped"
	}
}

// Watcher polls one directory and publishes every classified change
type Watcher interface {
	SetDirectory(path string) error
	Directory() string
	Subscribe(l notify.Listener)
	Unsubscribe(l notify.Listener) bool
	// Start blocks until Stop is called or ctx is done.
	Start(ctx context.Context) error
	Stop() error
	State() State
}
