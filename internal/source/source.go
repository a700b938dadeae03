package source

import (
	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// PublishFlags tells which order event kinds a source publishes directly.
type PublishFlags uint8

const (
	PublishOrder PublishFlags = 1 << iota
	PublishAnalyticOrder
	PublishOtcMarketsOrder
	PublishSpreadOrder
	// FullOrderBook marks a source that carries the full order book.
	// It needs at least one publish bit.
	FullOrderBook
)

const publishableMask = PublishOrder | PublishAnalyticOrder | PublishOtcMarketsOrder | PublishSpreadOrder

var publishFlagNames = [...]struct {
	flag PublishFlags
	name string
}{
	{PublishOrder, "ORDER"},
	{PublishAnalyticOrder, "ANALYTIC_ORDER"},
	{PublishOtcMarketsOrder, "OTC_MARKETS_ORDER"},
	{PublishSpreadOrder, "SPREAD_ORDER"},
	{FullOrderBook, "FULL_ORDER_BOOK"},
}

// PublishFlagOf returns the publish bit of kind.
func PublishFlagOf(kind enum.EventKind) (PublishFlags, error) {
	switch kind {
	case enum.EventKindOrder:
		return PublishOrder, nil
	case enum.EventKindAnalyticOrder:
		return PublishAnalyticOrder, nil
	case enum.EventKindOtcMarketsOrder:
		return PublishOtcMarketsOrder, nil
	case enum.EventKindSpreadOrder:
		return PublishSpreadOrder, nil
	default:
		return 0, errors.Wrapf(exception.ErrInvalidEventKind, "kind: %s", kind)
	}
}

func (f PublishFlags) Has(flag PublishFlags) bool {
	return f&flag == flag
}

// Validate rejects undefined bits and FullOrderBook without any publish bit.
func (f PublishFlags) Validate() error {
	if f&^(publishableMask|FullOrderBook) != 0 {
		return errors.Wrapf(exception.ErrInvalidFlagCombination, "undefined bits: %#x", uint8(f))
	}
	if f.Has(FullOrderBook) && f&publishableMask == 0 {
		return errors.Wrapf(exception.ErrInvalidFlagCombination, "flags: %s", f)
	}
	return nil
}

func (f PublishFlags) String() string {
	buf := make([]byte, 0, 48)
	for _, n := range publishFlagNames {
		if !f.Has(n.flag) {
			continue
		}
		if len(buf) != 0 {
			buf = append(buf, '|')
		}
		buf = append(buf, n.name...)
	}
	return string(buf)
}

// Source is an interned origin of order book data. Sources are immutable.
type Source struct {
	id      int32
	name    string
	flags   PublishFlags
	builtin bool
}

func newTransient(id int32, name string) *Source {
	return &Source{id: id, name: name}
}

func (s *Source) ID() int32 {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) PublishFlags() PublishFlags {
	return s.flags
}

// IsBuiltin reports whether s was registered up front. Builtin sources are
// never evicted.
func (s *Source) IsBuiltin() bool {
	return s.builtin
}

func (s *Source) IsSpecial() bool {
	return codec.IsSpecialSourceID(s.id)
}

// IsPublishable reports whether events of kind may be published directly
// with this source. Unknown kinds are never publishable.
func (s *Source) IsPublishable(kind enum.EventKind) bool {
	flag, err := PublishFlagOf(kind)
	if err != nil {
		return false
	}
	return s.flags.Has(flag)
}

func (s *Source) IsFullOrderBook() bool {
	return s.flags.Has(FullOrderBook)
}

// Equal compares sources by id; transient duplicates of one id are equal.
func (s *Source) Equal(other *Source) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.id == other.id
}

func (s *Source) String() string {
	return s.name
}

// IsSpecialSourceID reports whether id is one of the synthetic sources 1..9.
func IsSpecialSourceID(id int32) bool {
	return codec.IsSpecialSourceID(id)
}

func isAlnum(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// ComposeID packs a 1 to 4 character alphanumeric name big-endian into an id.
func ComposeID(name string) (int32, error) {
	n := len(name)
	if n == 0 || n > 4 {
		return 0, errors.Wrapf(exception.ErrInvalidSourceName, "name must contain from 1 to 4 characters: %q", name)
	}

	var id int32
	for i := 0; i < n; i++ {
		c := name[i]
		if !isAlnum(c) {
			return 0, errors.Wrapf(exception.ErrInvalidSourceName, "name must contain only alphanumeric characters: %q", name)
		}
		id = id<<8 | int32(c)
	}
	return id, nil
}

// DecodeName is the inverse of ComposeID. Leading zero bytes are skipped.
func DecodeName(id int32) (string, error) {
	if id == 0 {
		return "", errors.Wrapf(exception.ErrInvalidSourceID, "id: %d", id)
	}

	var buf [4]byte
	n := 0
	for shift := 24; shift >= 0; shift -= 8 {
		if id>>shift == 0 {
			continue
		}
		c := byte(id >> shift)
		if !isAlnum(c) {
			return "", errors.Wrapf(exception.ErrInvalidSourceID, "id %#x decodes to a non-alphanumeric character", uint32(id))
		}
		buf[n] = c
		n++
	}
	return string(buf[:n]), nil
}
