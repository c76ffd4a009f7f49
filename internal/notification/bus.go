package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category classifies a notice for the frontend's filter tabs.
type Category string

const (
	CategoryReservation Category = "reservation"
	CategoryCleaning    Category = "cleaning"
	CategoryStock       Category = "stock"
	CategorySystem      Category = "system"
)

// Notice is one in-app notification entry.
type Notice struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	PropertyID string    `json:"propertyId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}

// Bus keeps recent notices in memory and fans them out to subscribers.
// It is not durable; the web push path covers delivery while the app
// is closed.
type Bus struct {
	mu      sync.RWMutex
	notices []Notice
	subs    map[int]chan Notice
	nextSub int
	limit   int
}

// NewBus creates a bus retaining at most limit notices.
func NewBus(limit int) *Bus {
	if limit <= 0 {
		limit = 200
	}
	return &Bus{
		subs:  make(map[int]chan Notice),
		limit: limit,
	}
}

// Publish records a notice and delivers it to every subscriber. Missing
// ID, timestamp and read state are filled in.
func (b *Bus) Publish(n Notice) Notice {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	n.Read = false

	b.mu.Lock()
	b.notices = append(b.notices, n)
	if len(b.notices) > b.limit {
		b.notices = b.notices[len(b.notices)-b.limit:]
	}
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default: // slow subscriber, drop
		}
	}
	b.mu.Unlock()

	return n
}

// Subscribe returns a channel of future notices and a cancel function.
func (b *Bus) Subscribe() (<-chan Notice, func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	ch := make(chan Notice, 16)
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// List returns the retained notices, newest first.
func (b *Bus) List() []Notice {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Notice, len(b.notices))
	for i, n := range b.notices {
		out[len(b.notices)-1-i] = n
	}
	return out
}

// MarkRead flags one notice as read. Returns false if the ID is unknown.
func (b *Bus) MarkRead(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.notices {
		if b.notices[i].ID == id {
			b.notices[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flags every retained notice as read.
func (b *Bus) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.notices {
		b.notices[i].Read = true
	}
}
