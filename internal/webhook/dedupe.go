package webhook

import (
	"sync"
	"time"
)

// reviewDeduper drops redeliveries of the same review within a TTL.
// GitHub retries webhook deliveries, and one review must trigger one
// run.
type reviewDeduper struct {
	mu      sync.Mutex
	entries map[int64]time.Time
	ttl     time.Duration
}

func newReviewDeduper(ttl time.Duration) *reviewDeduper {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &reviewDeduper{
		entries: make(map[int64]time.Time),
		ttl:     ttl,
	}
}

// markIfNew returns true if the review ID has not been seen recently.
// When it returns true, the ID is recorded with an expiry timestamp.
func (d *reviewDeduper) markIfNew(id int64) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for key, expiry := range d.entries {
		if now.After(expiry) {
			delete(d.entries, key)
		}
	}

	if expiry, ok := d.entries[id]; ok && now.Before(expiry) {
		return false
	}

	d.entries[id] = now.Add(d.ttl)
	return true
}

// forget drops id so a redelivery can retry after a rejected enqueue.
func (d *reviewDeduper) forget(id int64) {
	d.mu.Lock()
	delete(d.entries, id)
	d.mu.Unlock()
}
