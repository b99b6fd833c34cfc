package watcher

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/dirwatch/internal/diff"
	"github.com/nguyentantai21042004/dirwatch/internal/logger"
	"github.com/nguyentantai21042004/dirwatch/internal/notify"
	"github.com/nguyentantai21042004/dirwatch/internal/snapshot"
)

const defaultInterval = 3 * time.Second

// Options configures a Watcher
type Options struct {
	Directory string
	Interval  time.Duration
	Ignore    []string
	// SkipExisting seeds the first cycle silently instead of reporting every
	// entry already present as added.
	SkipExisting bool
	Logger       logger.Logger
	Publisher    notify.Publisher
	Now          func() time.Time
}

// New creates a stopped Watcher
func New(opts Options) (Watcher, error) {
	builder, err := snapshot.New(snapshot.Options{Ignore: opts.Ignore})
	if err != nil {
		return nil, fmt.Errorf("create snapshot builder: %w", err)
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("info")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	id := uuid.NewString()
	log := opts.Logger.With("watcher", id)

	publisher := opts.Publisher
	if publisher == nil {
		publisher = notify.New(log)
	}

	return &implWatcher{
		id:           id,
		logger:       log,
		builder:      builder,
		publisher:    publisher,
		interval:     opts.Interval,
		skipExisting: opts.SkipExisting,
		now:          opts.Now,
		dir:          opts.Directory,
		tracked:      diff.State{},
	}, nil
}
