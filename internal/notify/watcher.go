// internal/notify/watcher.go
//
// Edge-triggered winner detection.
// A Watcher compares each observed set of totals with the previous one and
// reports the first key whose transition satisfies its Crossing. Repeats for
// the same key inside the debounce window are swallowed, so several
// observers reacting to one change produce a single notification.

package notify

import (
	"sync"
	"time"
)

// Crossing decides whether moving from prev to cur is a win.
type Crossing func(prev, cur int) bool

// CrossedAtLeast fires when a total climbs from below target to target or more.
func CrossedAtLeast(target int) Crossing {
	return func(prev, cur int) bool { return prev < target && cur >= target }
}

// ReachedExactly fires when a total climbs from below ceiling to exactly ceiling.
func ReachedExactly(ceiling int) Crossing {
	return func(prev, cur int) bool { return prev < ceiling && cur == ceiling }
}

// Total is one key's current value, in display order.
type Total struct {
	Key   string
	Value int
}

// Watcher is safe for concurrent use.
type Watcher struct {
	mu       sync.Mutex
	crossing Crossing
	window   time.Duration
	now      func() time.Time

	prev    map[string]int
	lastKey string
	lastAt  time.Time
}

// NewWatcher builds a Watcher that suppresses re-fires of the same key
// within window.
func NewWatcher(crossing Crossing, window time.Duration) *Watcher {
	return &Watcher{
		crossing: crossing,
		window:   window,
		now:      time.Now,
		prev:     map[string]int{},
	}
}

// WithClock replaces the time source.
func (w *Watcher) WithClock(now func() time.Time) *Watcher {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
	return w
}

// Prime records totals as the baseline without firing.
func (w *Watcher) Prime(totals []Total) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prev = snapshot(totals)
}

// Observe records totals and returns the winning key, if any.
// Keys missing from the previous observation start at zero.
func (w *Watcher) Observe(totals []Total) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	winner := ""
	for _, t := range totals {
		if w.crossing(w.prev[t.Key], t.Value) {
			winner = t.Key
			break
		}
	}
	w.prev = snapshot(totals)
	if winner == "" {
		return "", false
	}

	now := w.now()
	if winner == w.lastKey && now.Sub(w.lastAt) < w.window {
		return "", false
	}
	w.lastKey, w.lastAt = winner, now
	return winner, true
}

func snapshot(totals []Total) map[string]int {
	m := make(map[string]int, len(totals))
	for _, t := range totals {
		m[t.Key] = t.Value
	}
	return m
}
