// Package notify implements the subscription contract over the watch-log
// store: a reader registers once and is re-notified whenever the public
// record set changes, until it explicitly tears the registration down.
// Delivery is best-effort; a slow subscriber drops events rather than
// blocking the writer.
package notify

import (
	"sync"
	"time"

	"reelog/internal/models"

	"github.com/google/uuid"
)

// Event says the public activity set changed; subscribers re-fetch rather
// than trusting the event payload as the row's current state.
type Event struct {
	LogID    int64             `json:"log_id"`
	TMDBID   int64             `json:"tmdb_id"`
	LoggedAt time.Time         `json:"logged_at"`
	Kind     string            `json:"kind"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const KindActivityLogged = "activity_logged"

type subscriber struct {
	id string
	ch chan Event
}

// Hub manages all feed subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[string]*subscriber),
		buffer: buffer,
	}
}

// Subscribe registers a new reader and returns its id and event channel.
// The channel is closed by Unsubscribe.
func (h *Hub) Subscribe() (string, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		id: uuid.New().String(),
		ch: make(chan Event, h.buffer),
	}
	h.subs[sub.id] = sub
	return sub.id, sub.ch
}

// Unsubscribe tears down a registration and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// ActivityLogged implements service.ActivityNotifier. Only publicly visible
// logs reach feed subscribers.
func (h *Hub) ActivityLogged(log *models.WatchLog) {
	if log.Visibility != models.VisibilityPublic {
		return
	}

	event := Event{
		LogID:    log.ID,
		TMDBID:   log.TMDBID,
		LoggedAt: time.Now().UTC(),
		Kind:     KindActivityLogged,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			// subscriber is not draining; drop instead of blocking
		}
	}
}

// SubscriberCount reports active registrations.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
