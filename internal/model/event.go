// Package model holds the order family and market maker events built on the
// codec words.
package model

import (
	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
)

// IndexedEvent is an event that belongs to a snapshot keyed by index.
type IndexedEvent interface {
	EventFlags() codec.EventFlags
	Index() codec.Index
}

// OrderEvent is implemented by every order family event.
type OrderEvent interface {
	IndexedEvent
	Kind() enum.EventKind
	SourceID() int32
	Validate() error
}

var (
	_ OrderEvent   = (*Order)(nil)
	_ OrderEvent   = (*AnalyticOrder)(nil)
	_ OrderEvent   = (*OtcMarketsOrder)(nil)
	_ OrderEvent   = (*SpreadOrder)(nil)
	_ IndexedEvent = (*MarketMaker)(nil)
)

// ValidateIndexed checks e with its own Validate when it has one, and checks
// only the snapshot flags against the index otherwise.
func ValidateIndexed(e IndexedEvent) error {
	if v, ok := e.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return codec.ValidateEventFlags(e.EventFlags(), e.Index())
}
