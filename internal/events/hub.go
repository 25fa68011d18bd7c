package events

import "sync"

// subscriberBuffer absorbs one full search lifecycle burst per session
// (started, geocode_resolved, completed) from a handful of concurrent
// sessions before a subscriber counts as slow.
const subscriberBuffer = 16

// Hub fans events out to SSE subscribers. A subscriber that cannot keep
// up loses events rather than blocking a running search; the messages
// are refresh hints, not state.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

// Dropped reports how many events were lost to slow subscribers since
// start, for the health endpoint.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
