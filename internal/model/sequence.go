package model

import "sync/atomic"

// SequenceGenerator hands out sequence numbers for events sharing the same
// millisecond. Numbers wrap around after MaxSequence.
type SequenceGenerator struct {
	next uint64
}

// NewSequenceGenerator returns a generator whose first number is seed
// truncated to the sequence range.
func NewSequenceGenerator(seed int32) *SequenceGenerator {
	return &SequenceGenerator{next: uint64(seed)}
}

// Next returns the next sequence number.
func (g *SequenceGenerator) Next() int32 {
	if g == nil {
		return 0
	}
	return int32((atomic.AddUint64(&g.next, 1) - 1) & MaxSequence)
}

// Stamp sets the time of o to millis and assigns it the next sequence.
func (g *SequenceGenerator) Stamp(o *OrderBase, millis int64) {
	o.SetTime(millis)
	// Next is always within range.
	_ = o.SetSequence(g.Next())
}
