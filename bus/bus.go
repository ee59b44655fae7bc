package bus

import (
	"sync"

	"github.com/lselden/midistate/message"
)

type Listener func(message.Event)

// Bus hands decoded events to listeners one at a time, in arrival order.
// Publish holds the lock for the whole delivery, so events from concurrent
// sources are still observed fully serialized downstream.
type Bus struct {
	mu        sync.Mutex
	listeners []Listener
}

func New() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

func (b *Bus) Publish(ev message.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.listeners {
		l(ev)
	}
}
