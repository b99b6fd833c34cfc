package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nguyentantai21042004/dirwatch/internal/identity"
)

// ErrNotDirectory is returned by ValidateDir when the path cannot be watched.
var ErrNotDirectory = errors.New("not a directory")

// Options configures a Builder.
type Options struct {
	// Ignore holds doublestar patterns matched against entry names.
	Ignore []string
}

// Builder produces snapshots of a single directory level.
type Builder struct {
	ignore []string
}

// New validates the ignore patterns and returns a Builder.
func New(opts Options) (*Builder, error) {
	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return &Builder{ignore: append([]string(nil), opts.Ignore...)}, nil
}

// Build lists dir without recursing. A directory that cannot be read yields
// an empty snapshot together with the listing error; entries that disappear
// between listing and stat are skipped.
func (b *Builder) Build(ctx context.Context, dir string) (Snapshot, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return FromEntries(), fmt.Errorf("read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	var skipped []string
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return FromEntries(), err
		}

		name := de.Name()
		if b.ignored(name) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			skipped = append(skipped, name)
			continue
		}

		size := info.Size()
		if size < 0 {
			size = 0
		}
		entries = append(entries, Entry{
			Name:     name,
			Size:     uint64(size),
			ModTime:  info.ModTime(),
			Identity: identity.Of(filepath.Join(dir, name), info),
		})
	}

	snap := FromEntries(entries...)
	snap.Skipped = skipped
	return snap, nil
}

func (b *Builder) ignored(name string) bool {
	for _, pattern := range b.ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ValidateDir checks that path exists and is a directory.
func ValidateDir(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", ErrNotDirectory)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrNotDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return nil
}
