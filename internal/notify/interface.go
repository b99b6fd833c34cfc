package notify

import (
	"context"

	"github.com/nguyentantai21042004/dirwatch/internal/diff"
)

// Listener receives formatted change messages. A returned error is logged by
// the publisher and never stops delivery to other listeners.
type Listener interface {
	Notify(message string) error
}

// Publisher fans change events out to listeners in registration order.
type Publisher interface {
	Subscribe(l Listener)
	// Unsubscribe removes the earliest registration of l and reports whether
	// one was found. Listeners are matched with ==, so use pointer types.
	Unsubscribe(l Listener) bool
	Publish(ctx context.Context, ev diff.Event) int
	Len() int
}
