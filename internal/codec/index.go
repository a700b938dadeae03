package codec

import (
	"math"
	"strconv"

	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// Index is the 64-bit per-symbol key of an indexed event. It is never negative.
//
// Order family layout:
//
//	special source: [source id:16][exchange:16][sub-index:32]
//	generic source: [source id:32][sub-index:32]
//
// Market maker layout:
//
//	[unused:16][exchange:16][market maker short string:32]
type Index int64

const (
	specialSourceShift = 48
	genericSourceShift = 32
	exchangeShift      = 32

	exchangeMask     = 0xFFFF
	subIndexMask     = math.MaxUint32
	marketMakerMask  = math.MaxUint32
	lowerSpecialMask = 1<<specialSourceShift - 1

	// MaxSubIndex is the largest sub-index a publisher may assign.
	MaxSubIndex = math.MaxInt32
)

const (
	// MinSpecialSourceID and MaxSpecialSourceID bound the synthetic sources
	// derived from other event types.
	MinSpecialSourceID int32 = 1
	MaxSpecialSourceID int32 = 9
)

// IsSpecialSourceID reports whether id belongs to a synthetic source.
func IsSpecialSourceID(id int32) bool {
	return id >= MinSpecialSourceID && id <= MaxSpecialSourceID
}

// OrderIndexParts is the decomposed form of an order family index.
type OrderIndexParts struct {
	SourceID int32
	Special  bool
	Exchange uint16
	SubIndex int64
}

// ComposeOrderIndex builds an order family index. Exchange is only carried by
// special sources; pass 0 for "no exchange".
func ComposeOrderIndex(sourceID int32, special bool, exchange uint16, subIndex int64) (Index, error) {
	if special != IsSpecialSourceID(sourceID) {
		return 0, errors.Wrapf(exception.ErrInvalidSourceClassification, "source id: %d, special: %t", sourceID, special)
	}
	if subIndex < 0 {
		return 0, errors.Wrapf(exception.ErrNegativeIndex, "sub-index: %d", subIndex)
	}
	if subIndex > MaxSubIndex {
		return 0, errors.Wrapf(exception.ErrIndexOutOfRange, "sub-index: %d, max: %d", subIndex, MaxSubIndex)
	}

	if special {
		return Index(int64(sourceID)<<specialSourceShift | int64(exchange)<<exchangeShift | subIndex), nil
	}

	if exchange != 0 {
		return 0, errors.Wrapf(exception.ErrInvalidSourceClassification, "generic source id %d cannot carry exchange %d", sourceID, exchange)
	}
	if sourceID < 0 {
		return 0, errors.Wrapf(exception.ErrNegativeIndex, "source id: %d", sourceID)
	}
	if overlapsSpecial(sourceID) {
		return 0, errors.Wrapf(exception.ErrInvalidSourceClassification, "generic source id %#x reads as a special source", sourceID)
	}
	return Index(int64(sourceID)<<genericSourceShift | subIndex), nil
}

// DecomposeOrderIndex splits an order family index into its parts.
func DecomposeOrderIndex(index Index) (OrderIndexParts, error) {
	if index < 0 {
		return OrderIndexParts{}, errors.Wrapf(exception.ErrNegativeIndex, "index: %s", index)
	}

	parts := OrderIndexParts{SubIndex: index.SubIndex()}
	if id := int32(index >> specialSourceShift); IsSpecialSourceID(id) {
		parts.SourceID = id
		parts.Special = true
		parts.Exchange = uint16(GetBits(int64(index), exchangeMask, exchangeShift))
		return parts, nil
	}

	parts.SourceID = int32(index >> genericSourceShift)
	return parts, nil
}

// WithOrderSource moves index to another source. The sub-index bits are kept
// as they are; the exchange bits survive only a special to special move.
func WithOrderSource(index Index, sourceID int32) (Index, error) {
	if index < 0 {
		return 0, errors.Wrapf(exception.ErrNegativeIndex, "index: %s", index)
	}

	sub := int64(index) & subIndexMask
	if IsSpecialSourceID(sourceID) {
		lower := sub
		if index.HasSpecialSource() {
			lower = int64(index) & lowerSpecialMask
		}
		return Index(int64(sourceID)<<specialSourceShift | lower), nil
	}

	if sourceID < 0 {
		return 0, errors.Wrapf(exception.ErrNegativeIndex, "source id: %d", sourceID)
	}
	if overlapsSpecial(sourceID) {
		return 0, errors.Wrapf(exception.ErrInvalidSourceClassification, "generic source id %#x reads as a special source", sourceID)
	}
	return Index(int64(sourceID)<<genericSourceShift | sub), nil
}

// overlapsSpecial reports whether a generic id would land in the special
// source bits of an index. No name composes to such an id.
func overlapsSpecial(sourceID int32) bool {
	return IsSpecialSourceID(sourceID >> (specialSourceShift - genericSourceShift))
}

// ComposeMarketMakerIndex places exchange at bits 32-47 and the short string
// encoded market maker id at bits 0-31.
func ComposeMarketMakerIndex(exchange uint16, marketMaker uint64) (Index, error) {
	if marketMaker > marketMakerMask {
		return 0, errors.Wrapf(exception.ErrInvalidInput, "market maker code does not fit 32 bits: %#x", marketMaker)
	}
	return Index(int64(exchange)<<exchangeShift | int64(marketMaker)), nil
}

// DecomposeMarketMakerIndex is the inverse of ComposeMarketMakerIndex.
func DecomposeMarketMakerIndex(index Index) (exchange uint16, marketMaker uint64) {
	exchange = uint16(GetBits(int64(index), exchangeMask, exchangeShift))
	marketMaker = uint64(index) & marketMakerMask
	return exchange, marketMaker
}

// SubIndex returns the low 32 bits.
func (index Index) SubIndex() int64 {
	return int64(index) & subIndexMask
}

// HasSpecialSource reports whether bits 48-63 hold a special source id.
func (index Index) HasSpecialSource() bool {
	return IsSpecialSourceID(int32(index >> specialSourceShift))
}

// OrderSourceID returns the source id of an order family index.
func (index Index) OrderSourceID() int32 {
	if index.HasSpecialSource() {
		return int32(index >> specialSourceShift)
	}
	return int32(index >> genericSourceShift)
}

// IsSnapshotTerminator reports whether index may close a snapshot.
func (index Index) IsSnapshotTerminator() bool {
	return index.SubIndex() == 0
}

func (index Index) AppendString(buf []byte) []byte {
	buf = append(buf, "0x"...)
	return strconv.AppendUint(buf, uint64(index), 16)
}

func (index Index) String() string {
	return string(index.AppendString(make([]byte, 0, 18)))
}
