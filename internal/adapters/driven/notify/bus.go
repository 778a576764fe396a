// Package notify delivers store failure notifications to whoever
// presents them: the CLI's stderr, the TUI status line, the MCP server's
// log. It implements driven.Notifier.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Ensure Bus implements the interface.
var _ driven.Notifier = (*Bus)(nil)

// Bus fans notifications out to subscribers. Notify never blocks: a
// subscriber whose buffer is full misses the notification.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan domain.Notification
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan domain.Notification)}
}

// Subscribe returns a channel of notifications and a func that
// unsubscribes and closes it.
func (b *Bus) Subscribe(buffer int) (<-chan domain.Notification, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan domain.Notification, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Notify delivers n to every subscriber without blocking.
func (b *Bus) Notify(n domain.Notification) {
	logger.Debug("notification: %s", n)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
			logger.Warn("dropped notification for slow subscriber: %s", n)
		}
	}
}

// Close closes every subscriber channel. Later notifications are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Drain writes every notification from ch to w, one per line, until ch
// is closed.
func Drain(ch <-chan domain.Notification, w io.Writer) {
	for n := range ch {
		fmt.Fprintf(w, "error: %s\n", n)
	}
}
