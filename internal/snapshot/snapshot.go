// Package snapshot lists the immediate entries of a directory and indexes them
// by name and by identity for one poll cycle.
package snapshot

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/nguyentantai21042004/dirwatch/internal/identity"
)

// Entry is one directory child as observed during a cycle.
type Entry struct {
	Name     string
	Size     uint64
	ModTime  time.Time
	Identity identity.ID
}

// Snapshot is an immutable view of a directory listing. Entries keep the
// enumeration order; when two entries share an identity the later one owns it.
type Snapshot struct {
	Entries []Entry
	// Skipped lists names that vanished or could not be stat'ed while listing.
	Skipped []string

	names      map[string]int
	byIdentity map[identity.ID]string
}

// FromEntries indexes entries in the given order. Names are expected to be
// unique, as they are in a real directory.
func FromEntries(entries ...Entry) Snapshot {
	s := Snapshot{
		Entries:    entries,
		names:      make(map[string]int, len(entries)),
		byIdentity: make(map[identity.ID]string, len(entries)),
	}
	for i, e := range entries {
		s.names[e.Name] = i
		s.byIdentity[e.Identity] = e.Name
	}
	return s
}

// Len returns the number of entries.
func (s Snapshot) Len() int {
	return len(s.Entries)
}

// Has reports whether name is present.
func (s Snapshot) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Lookup returns the entry called name.
func (s Snapshot) Lookup(name string) (Entry, bool) {
	i, ok := s.names[name]
	if !ok {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// NameOf returns the name currently holding id.
func (s Snapshot) NameOf(id identity.ID) (string, bool) {
	name, ok := s.byIdentity[id]
	return name, ok
}

// Fingerprint hashes the ordered listing. Equal fingerprints mean nothing a
// diff looks at has changed.
func (s Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, e := range s.Entries {
		_, _ = h.WriteString(e.Name)
		_, _ = h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], e.Size)
		_, _ = h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(e.ModTime.UnixNano()))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(string(e.Identity))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
