package stats

import (
	"maps"
	"sync"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// Thread-safe tally of download outcomes for one run
type Tracker struct {
	counts    map[media.Category]int
	failed    []string
	succeeded []string
	mu        sync.Mutex
}

func New() *Tracker {
	return &Tracker{
		counts: make(map[media.Category]int),
	}
}

// Counts are not deduplicated: recording the same id twice counts twice.
func (t *Tracker) RecordSuccess(c media.Category, itemID string) {
	t.mu.Lock()
	t.counts[c]++
	t.succeeded = append(t.succeeded, itemID)
	t.mu.Unlock()
}

func (t *Tracker) RecordFailure(c media.Category, itemID string) {
	t.mu.Lock()
	t.counts[c]++
	t.failed = append(t.failed, itemID)
	t.mu.Unlock()
}

// Count returns the number of outcomes recorded for c, zero if none.
func (t *Tracker) Count(c media.Category) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[c]
}

func (t *Tracker) HasFailures() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.failed) > 0
}

// Summary is a point in time copy of a Tracker.
type Summary struct {
	Counts    map[media.Category]int
	Failed    []string
	Succeeded []string
}

func (s Summary) Total() int { return len(s.Failed) + len(s.Succeeded) }

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Summary{
		Counts:    maps.Clone(t.counts),
		Failed:    append([]string(nil), t.failed...),
		Succeeded: append([]string(nil), t.succeeded...),
	}
}
