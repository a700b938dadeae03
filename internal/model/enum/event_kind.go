package enum

import (
	"strconv"
	"strings"
)

// EventKind is an order family event type that a source may publish.
type EventKind uint8

const (
	_event_kind_beg EventKind = iota
	EventKindOrder
	EventKindAnalyticOrder
	EventKindOtcMarketsOrder
	EventKindSpreadOrder
	_event_kind_end
)

var eventKindNames = [_event_kind_end]string{
	EventKindOrder:           "Order",
	EventKindAnalyticOrder:   "AnalyticOrder",
	EventKindOtcMarketsOrder: "OtcMarketsOrder",
	EventKindSpreadOrder:     "SpreadOrder",
}

func (k EventKind) IsAvailable() bool {
	return k > _event_kind_beg && k < _event_kind_end
}

func (k EventKind) String() string {
	if !k.IsAvailable() {
		return "EventKind(" + strconv.Itoa(int(k)) + ")"
	}
	return eventKindNames[k]
}

// EventKinds returns every available kind in declaration order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, 0, _event_kind_end-1)
	for k := _event_kind_beg + 1; k < _event_kind_end; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseEventKind accepts the type name in any case, with or without the
// "Order" suffix ("order", "analytic", "OtcMarketsOrder", "otcmarkets", "spread").
func ParseEventKind(s string) (EventKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return _event_kind_beg, false
	}
	for k := _event_kind_beg + 1; k < _event_kind_end; k++ {
		name := strings.ToLower(eventKindNames[k])
		if s == name || s == strings.TrimSuffix(name, "order") {
			return k, true
		}
	}
	return _event_kind_beg, false
}
