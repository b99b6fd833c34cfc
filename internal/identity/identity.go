// Package identity derives a best-effort correlation key for a directory entry
// from its metadata. The key survives a rename but not a change in size, and it
// is never derived from file contents.
package identity

import (
	"io/fs"
	"strconv"
	"time"
)

// ID is an opaque identity string. Two entries with equal IDs are assumed to be
// the same file.
type ID string

// Of returns the identity of the entry at path. It prefers the creation time
// reported by the filesystem and degrades to size plus modification time when
// that is unavailable. It never fails.
func Of(path string, info fs.FileInfo) ID {
	if info == nil {
		return ""
	}
	if created, ok := creationTime(path, info); ok {
		return Primary(created, info.Size())
	}
	return Fallback(info.Size(), info.ModTime())
}

// Primary formats the creation-time based identity.
func Primary(created time.Time, size int64) ID {
	return ID(created.UTC().Format(time.RFC3339Nano) + "_" + strconv.FormatInt(size, 10))
}

// Fallback formats the size and mtime based identity.
func Fallback(size int64, modTime time.Time) ID {
	return ID(strconv.FormatInt(size, 10) + "_" + strconv.FormatInt(modTime.UnixNano(), 10))
}
