package searcher

import "time"

type Clock func() time.Time

// deadline is polled by the search. Once it has expired it stays expired,
// even if the clock goes backwards.
type deadline struct {
	now     Clock
	end     time.Time
	expired bool
}

func newDeadline(now Clock, budget time.Duration) *deadline {
	return &deadline{now: now, end: now().Add(budget)}
}

func (d *deadline) Exceeded() bool {
	if !d.expired && !d.now().Before(d.end) {
		d.expired = true
	}
	return d.expired
}
