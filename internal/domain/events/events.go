// Package events provides the in-process change-notification bus. Services
// publish an EntityChanged after each committed mutation; UI state or other
// subscribers consume them instead of polling the store.
package events

import "sync"

// Kind identifies the collection an event belongs to.
type Kind string

const (
	KindInsight      Kind = "insight"
	KindCategory     Kind = "category"
	KindRelationship Kind = "relationship"
	KindSetting      Kind = "setting"
)

// Op is the mutation that happened.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// EntityChanged describes a committed mutation. For cascading deletes one
// event is published per removed record.
type EntityChanged struct {
	Kind Kind
	Op   Op
	ID   string
}

// Bus fans out EntityChanged events to subscribers. Publishing never blocks:
// a subscriber whose buffer is full misses the event and should re-list the
// collection on next read.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	ch    chan EntityChanged
	kinds map[Kind]bool // nil means all kinds
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers a subscriber for the given kinds (all kinds when none
// are named). The returned cancel func removes the subscription and closes
// the channel.
func (b *Bus) Subscribe(buffer int, kinds ...Kind) (<-chan EntityChanged, func()) {
	if buffer < 1 {
		buffer = 1
	}

	var kindSet map[Kind]bool
	if len(kinds) > 0 {
		kindSet = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			kindSet[k] = true
		}
	}

	ch := make(chan EntityChanged, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscription{ch: ch, kinds: kindSet}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every matching subscriber.
func (b *Bus) Publish(ev EntityChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.kinds != nil && !sub.kinds[ev.Kind] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
