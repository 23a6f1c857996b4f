package store

import (
	"context"
	"sync"
)

// Collection names a table whose changes can be observed.
type Collection int

const (
	CollectionMembers Collection = iota
	CollectionPayments
)

func (c Collection) String() string {
	switch c {
	case CollectionMembers:
		return "members"
	case CollectionPayments:
		return "payments"
	default:
		return "unknown"
	}
}

// Feed fans out change notifications to subscribers. Notifications are
// coalesced: each subscriber holds at most one pending signal, so a slow
// reader recomputes once from the latest state instead of replaying every
// write.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	collections map[Collection]struct{}
	ch          chan struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscription)}
}

// Subscribe returns a channel that receives a signal right away and then
// after every change to any of the given collections. The channel is closed
// once ctx is done.
func (f *Feed) Subscribe(ctx context.Context, collections ...Collection) <-chan struct{} {
	sub := &subscription{
		collections: make(map[Collection]struct{}, len(collections)),
		ch:          make(chan struct{}, 1),
	}
	for _, c := range collections {
		sub.collections[c] = struct{}{}
	}
	sub.ch <- struct{}{}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(sub.ch)
		f.mu.Unlock()
	}()

	return sub.ch
}

// Publish notifies subscribers interested in c. It never blocks.
func (f *Feed) Publish(c Collection) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if _, ok := sub.collections[c]; !ok {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
