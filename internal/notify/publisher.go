package notify

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/dirwatch/internal/diff"
)

// Subscribe appends l to the delivery list.
func (p *implPublisher) Subscribe(l Listener) {
	if l == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()
}

func (p *implPublisher) Unsubscribe(l Listener) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, registered := range p.listeners {
		if sameListener(registered, l) {
			p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (p *implPublisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

// Publish formats ev once and hands it to every listener synchronously. It
// returns the number of listeners that accepted the message. Listeners
// registered while a publish is in flight only see later events.
func (p *implPublisher) Publish(ctx context.Context, ev diff.Event) int {
	p.mu.RLock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.RUnlock()

	message := Format(ev)
	delivered := 0
	for _, l := range listeners {
		if err := deliver(l, message); err != nil {
			p.logger.Warn(ctx, "Listener failed on %q: %v", message, err)
			continue
		}
		delivered++
	}
	return delivered
}

func deliver(l Listener, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.Notify(message)
}

// sameListener compares without panicking on non-comparable dynamic types.
func sameListener(a, b Listener) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
