// Package diff classifies the differences between the tracked state of the
// previous poll cycle and a fresh directory snapshot.
package diff

import (
	"time"

	"github.com/nguyentantai21042004/dirwatch/internal/snapshot"
)

type rename struct {
	from string
	to   string
}

// Seed builds a tracked state from snap without producing events.
func Seed(snap snapshot.Snapshot) State {
	state := make(State, snap.Len())
	for _, e := range snap.Entries {
		state[e.Name] = track(e)
	}
	return state
}

// Diff compares prev with snap and returns the ordered change events together
// with the new tracked state. prev is not modified.
//
// Phases run in a fixed order: renames are detected and applied first, then
// additions and in-place changes, then deletions. Every name appears in at most
// one event per call.
func Diff(prev State, snap snapshot.Snapshot, now time.Time) ([]Event, State) {
	state := prev.Clone()
	oldNames := prev.Names()

	// Collect every rename before touching state. A target can only be claimed
	// once; a second candidate falls through to deletion below.
	var renames []rename
	targets := make(map[string]bool)
	for _, name := range oldNames {
		if snap.Has(name) {
			continue
		}
		to, ok := snap.NameOf(prev[name].Identity)
		if !ok || to == name || targets[to] {
			continue
		}
		targets[to] = true
		renames = append(renames, rename{from: name, to: to})
	}

	var events []Event
	renamed := make(map[string]bool, len(renames))
	for _, r := range renames {
		entry := state[r.from]
		delete(state, r.from)
		entry.Name = r.to
		state[r.to] = entry
		renamed[r.from] = true
		events = append(events, Event{Kind: Renamed, Time: now, Name: r.from, NewName: r.to})
	}

	for _, cur := range snap.Entries {
		if targets[cur.Name] {
			continue
		}

		tracked, ok := state[cur.Name]
		switch {
		case !ok:
			state[cur.Name] = track(cur)
			events = append(events, Event{Kind: Added, Time: now, Name: cur.Name})
		case !tracked.ModTime.Equal(cur.ModTime):
			// mtime wins over size so a touch is still reported.
			state[cur.Name] = track(cur)
			events = append(events, Event{Kind: Modified, Time: now, Name: cur.Name})
		case tracked.Size != cur.Size:
			state[cur.Name] = track(cur)
			events = append(events, Event{Kind: SizeChanged, Time: now, Name: cur.Name})
		case tracked.Identity != cur.Identity:
			// Replaced in place with identical size and mtime: not reported,
			// but later renames must correlate against the new identity.
			tracked.Identity = cur.Identity
			state[cur.Name] = tracked
		}
	}

	for _, name := range oldNames {
		if snap.Has(name) || renamed[name] {
			continue
		}
		delete(state, name)
		events = append(events, Event{Kind: Deleted, Time: now, Name: name})
	}

	return events, state
}

func track(e snapshot.Entry) TrackedEntry {
	return TrackedEntry{
		Name:     e.Name,
		Size:     e.Size,
		ModTime:  e.ModTime,
		Identity: e.Identity,
	}
}
