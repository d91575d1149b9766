package events

import (
	"sync"

	"github.com/kobzarvs/qprompt/internal/logger"
	"github.com/kobzarvs/qprompt/internal/prompt"
)

// Handler receives a notification on the goroutine that emitted it.
type Handler func(n prompt.Notification)

type subscription struct {
	id int
	fn Handler
}

// Bus is the shared notification target. Notify calls every handler
// subscribed to the notification name, in subscription order, before returning.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers fn for name and returns a function that removes it.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	return func() { b.unsubscribe(name, id) }
}

func (b *Bus) unsubscribe(name string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Notify(n prompt.Notification) {
	b.mu.RLock()
	subs := b.subs[n.Name]
	handlers := make([]Handler, len(subs))
	for i, s := range subs {
		handlers[i] = s.fn
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		logger.Debug("notification without listeners", "name", n.Name)
		return
	}
	for _, fn := range handlers {
		fn(n)
	}
}
