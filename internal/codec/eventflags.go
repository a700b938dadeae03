package codec

import (
	"math"
	"strconv"
	"strings"

	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// EventFlags is the transactional and snapshot metadata of an indexed event.
// Only single event consistency is checked here; interpreting a sequence of
// flagged events is left to the consumer.
type EventFlags uint32

const (
	TxPending     EventFlags = 0x01
	RemoveEvent   EventFlags = 0x02
	SnapshotBegin EventFlags = 0x04
	SnapshotEnd   EventFlags = 0x08
	SnapshotSnip  EventFlags = 0x10
	SnapshotMode  EventFlags = 0x40

	// RemoveSymbol is a transport level flag. It is only known for rendering.
	RemoveSymbol EventFlags = 0x80
)

var eventFlagNames = [...]struct {
	flag EventFlags
	name string
}{
	{TxPending, "TX_PENDING"},
	{RemoveEvent, "REMOVE_EVENT"},
	{SnapshotBegin, "SNAPSHOT_BEGIN"},
	{SnapshotEnd, "SNAPSHOT_END"},
	{SnapshotSnip, "SNAPSHOT_SNIP"},
	{SnapshotMode, "SNAPSHOT_MODE"},
	{RemoveSymbol, "REMOVE_SYMBOL"},
}

const knownEventFlags = TxPending | RemoveEvent | SnapshotBegin | SnapshotEnd | SnapshotSnip | SnapshotMode | RemoveSymbol

func (f EventFlags) Has(flag EventFlags) bool {
	return f&flag != 0
}

func (f EventFlags) Set(flag EventFlags) EventFlags {
	return f | flag
}

func (f EventFlags) Clear(flag EventFlags) EventFlags {
	return f &^ flag
}

// With sets or clears flag depending on on.
func (f EventFlags) With(flag EventFlags, on bool) EventFlags {
	if on {
		return f.Set(flag)
	}
	return f.Clear(flag)
}

func (f EventFlags) IsTxPending() bool     { return f.Has(TxPending) }
func (f EventFlags) IsRemoveEvent() bool   { return f.Has(RemoveEvent) }
func (f EventFlags) IsSnapshotBegin() bool { return f.Has(SnapshotBegin) }
func (f EventFlags) IsSnapshotEnd() bool   { return f.Has(SnapshotEnd) }
func (f EventFlags) IsSnapshotSnip() bool  { return f.Has(SnapshotSnip) }
func (f EventFlags) IsSnapshotMode() bool  { return f.Has(SnapshotMode) }

// Unknown returns the bits that have no name.
func (f EventFlags) Unknown() EventFlags {
	return f &^ knownEventFlags
}

// AppendString appends comma separated flag names; unknown bits are
// appended last in hex.
func (f EventFlags) AppendString(buf []byte) []byte {
	start := len(buf)
	for _, n := range eventFlagNames {
		if !f.Has(n.flag) {
			continue
		}
		if len(buf) > start {
			buf = append(buf, ',')
		}
		buf = append(buf, n.name...)
	}

	if unknown := f.Unknown(); unknown != 0 {
		if len(buf) > start {
			buf = append(buf, ',')
		}
		buf = append(buf, "0x"...)
		buf = strconv.AppendUint(buf, uint64(unknown), 16)
	}
	return buf
}

func (f EventFlags) String() string {
	if f == 0 {
		return ""
	}
	return string(f.AppendString(make([]byte, 0, 32)))
}

// ParseEventFlags parses the output of EventFlags.String: flag names and hex
// numbers separated by commas, or a single number in Go literal syntax.
func ParseEventFlags(s string) (EventFlags, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseUint(s, 0, 32); err == nil {
		return EventFlags(v), nil
	}

	var flags EventFlags
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if v, err := strconv.ParseUint(strings.ToLower(part), 0, 32); err == nil {
			flags |= EventFlags(v)
			continue
		}
		flag, ok := eventFlagByName(part)
		if !ok {
			return 0, errors.Wrapf(exception.ErrInvalidInput, "unknown event flag: %q", part)
		}
		flags |= flag
	}
	return flags, nil
}

func eventFlagByName(name string) (EventFlags, bool) {
	for _, n := range eventFlagNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}

// ValidateEventFlags checks that a snapshot end or snip marker sits on an
// index with a zero sub-index.
//
// A snapshot is published in strictly descending index order, the first
// event flagged SnapshotBegin and the last one carrying a zero sub-index.
// SnapshotEnd is optional because a receiver infers it from that last event.
// Ordering spans many events and is not checked here.
func ValidateEventFlags(flags EventFlags, index Index) error {
	if (flags.IsSnapshotEnd() || flags.IsSnapshotSnip()) && !index.IsSnapshotTerminator() {
		return errors.Wrapf(exception.ErrInconsistentSnapshotTerminator, "flags: %s, index: %s", flags, index)
	}
	return nil
}

// IsOrderRemoval reports whether an order family event of the given size
// removes the order it indexes.
func IsOrderRemoval(size float64) bool {
	return size == 0 || math.IsNaN(size)
}

// ValidateOrderEvent validates an order family event. Order removal is
// carried by the size, so a RemoveEvent flag on a live size is rejected.
func ValidateOrderEvent(flags EventFlags, index Index, size float64) error {
	if err := ValidateEventFlags(flags, index); err != nil {
		return err
	}
	if flags.IsRemoveEvent() && !IsOrderRemoval(size) {
		return errors.Wrapf(exception.ErrInconsistentRemoval, "flags: %s, index: %s, size: %g", flags, index, size)
	}
	return nil
}
