package page

import "time"

// Rotation cycles through a page set, advancing at most one page per Tick.
type Rotation struct {
	kinds    []Kind
	interval time.Duration
	index    int
	last     time.Time
}

// NewRotation starts at the first page of kinds, with now as the last switch.
// An empty set rotates through the base pages.
func NewRotation(kinds []Kind, interval time.Duration, now time.Time) *Rotation {
	if len(kinds) == 0 {
		kinds = Set(false)
	}
	return &Rotation{
		kinds:    append([]Kind(nil), kinds...),
		interval: interval,
		last:     now,
	}
}

// Tick advances to the next page when interval passed since the last switch. It returns
// the current page and whether it changed.
func (r *Rotation) Tick(now time.Time) (Kind, bool) {
	if now.Sub(r.last) < r.interval {
		return r.kinds[r.index], false
	}
	r.index = (r.index + 1) % len(r.kinds)
	r.last = now
	return r.kinds[r.index], true
}

// Current is the page being shown.
func (r *Rotation) Current() Kind {
	return r.kinds[r.index]
}

// Index is the position of the current page, starting at 0.
func (r *Rotation) Index() int {
	return r.index
}

// Len is the number of pages in the rotation.
func (r *Rotation) Len() int {
	return len(r.kinds)
}
