package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/nguyentantai21042004/dirwatch/internal/config"
	"github.com/nguyentantai21042004/dirwatch/internal/logger"
	"github.com/nguyentantai21042004/dirwatch/internal/notify"
	"github.com/nguyentantai21042004/dirwatch/internal/watcher"
	"github.com/nguyentantai21042004/dirwatch/pkg/executor"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type rootFlags struct {
	config       string
	interval     time.Duration
	logLevel     string
	ignore       []string
	skipExisting bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "dirwatch [directory...]",
		Short: "Report files added, deleted, modified, resized or renamed in a directory",
		Long: `Polls each directory on a fixed interval, compares the listing with the
previous one and prints one line per change.

Only the immediate children of a directory are watched. Renames are detected
by matching creation time and size, so a moved file is never reported as a
delete followed by an add.

Directories given as arguments replace the ones in the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "",
		"Path to a YAML config file")
	cmd.Flags().DurationVar(&flags.interval, "interval", config.DefaultInterval,
		"Time between two polls")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil,
		"Glob of entry names to ignore (repeatable)")
	cmd.Flags().BoolVar(&flags.skipExisting, "skip-existing", false,
		"Do not report entries already present at startup")

	return cmd
}

// loadConfig layers the config file, positional directories and explicitly
// set flags, then validates the result.
func loadConfig(cmd *cobra.Command, flags rootFlags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if flags.config != "" {
		var err error
		if cfg, err = config.Read(flags.config); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.Watch.Directories = args
	}
	if cmd.Flags().Changed("interval") {
		cfg.Watch.Interval = flags.interval
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("ignore") {
		cfg.Watch.Ignore = append(cfg.Watch.Ignore, flags.ignore...)
	}
	if cmd.Flags().Changed("skip-existing") {
		reportExisting := !flags.skipExisting
		cfg.Watch.ReportExisting = &reportExisting
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// run starts one watcher per directory and blocks until all of them return.
// A directory that cannot be watched cancels the others.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "dirwatch (%s/%s)", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Directories: %d, interval: %s", len(cfg.Watch.Directories), cfg.Watch.Interval)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	exec := executor.New()
	g, gctx := errgroup.WithContext(ctx)

	for _, dir := range cfg.Watch.Directories {
		w, err := watcher.New(watcher.Options{
			Directory:    dir,
			Interval:     cfg.Watch.Interval,
			Ignore:       cfg.Watch.Ignore,
			SkipExisting: !cfg.ShouldReportExisting(),
			Logger:       log,
		})
		if err != nil {
			return fmt.Errorf("create watcher for %s: %w", dir, err)
		}

		for _, name := range cfg.Listeners.Console {
			w.Subscribe(notify.NewConsole(name, stdout))
		}
		for _, hook := range cfg.Listeners.Commands {
			w.Subscribe(notify.NewCommand(notify.CommandOptions{
				Name:    hook.Name,
				Command: hook.Command,
				Args:    hook.Args,
				Dir:     hook.Dir,
				Timeout: hook.Timeout,
			}, exec))
		}

		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		log.Error(ctx, "Watcher error: %v", err)
	}
	log.Info(ctx, "dirwatch stopped")
	return err
}
