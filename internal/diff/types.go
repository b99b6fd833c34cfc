package diff

import (
	"sort"
	"time"

	"github.com/nguyentantai21042004/dirwatch/internal/identity"
)

// Kind classifies a change.
type Kind int

const (
	Added Kind = iota + 1
	Deleted
	Modified
	SizeChanged
	Renamed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	case SizeChanged:
		return "size_changed"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// TrackedEntry is what the engine remembers about one name.
type TrackedEntry struct {
	Name     string
	Size     uint64
	ModTime  time.Time
	Identity identity.ID
}

// State maps names to their tracked entries as of the end of a cycle.
type State map[string]TrackedEntry

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for name, entry := range s {
		out[name] = entry
	}
	return out
}

// Names returns the tracked names in lexical order.
func (s State) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Event is a single classified change. NewName is only set for Renamed.
type Event struct {
	Kind    Kind
	Time    time.Time
	Name    string
	NewName string
}
