package model

import (
	"math"
	"strconv"

	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/internal/source"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// MaxSequence is the largest sequence number that fits the time sequence word.
const MaxSequence = 1<<22 - 1

// flags word layout
const (
	actionMask    int32 = 0x0f
	actionShift         = 11
	exchangeMask  int32 = 0x7f
	exchangeShift       = 4
	sideMask      int32 = 3
	sideShift           = 2
	scopeMask     int32 = 3
	scopeShift          = 0
)

// time sequence word layout
const (
	secondsShift = 32
	millisShift  = 22
	millisMask   = 0x3ff
)

// OrderBase carries the fields shared by every order family event. Prices
// and sizes are NaN when unknown.
type OrderBase struct {
	EventSymbol  string
	EventTime    int64
	TimeNanoPart int32
	ActionTime   int64
	OrderID      int64
	AuxOrderID   int64
	Price        float64
	Size         float64
	ExecutedSize float64
	Count        int64
	TradeID      int64
	TradePrice   float64
	TradeSize    float64

	eventFlags   codec.EventFlags
	index        codec.Index
	timeSequence int64
	flags        int32
}

// NewOrderBase returns an order base for symbol with unknown prices and sizes.
func NewOrderBase(symbol string) OrderBase {
	nan := math.NaN()
	return OrderBase{
		EventSymbol:  symbol,
		Price:        nan,
		Size:         nan,
		ExecutedSize: nan,
		TradePrice:   nan,
		TradeSize:    nan,
	}
}

func (o *OrderBase) EventFlags() codec.EventFlags {
	return o.eventFlags
}

func (o *OrderBase) SetEventFlags(flags codec.EventFlags) {
	o.eventFlags = flags
}

func (o *OrderBase) Index() codec.Index {
	return o.index
}

// SetIndex replaces the whole index, source bits included.
func (o *OrderBase) SetIndex(index codec.Index) error {
	if index < 0 {
		return errors.Wrapf(exception.ErrNegativeIndex, "index: %d", int64(index))
	}
	o.index = index
	return nil
}

// SourceID returns the source id packed in the index.
func (o *OrderBase) SourceID() int32 {
	return o.index.OrderSourceID()
}

// Source resolves the source of the event through reg.
func (o *OrderBase) Source(reg *source.Registry) (*source.Source, error) {
	if reg == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "source registry")
	}
	return reg.BySourceID(o.SourceID())
}

// SetSource moves the index to src, keeping the sub-index.
func (o *OrderBase) SetSource(src *source.Source) error {
	if src == nil {
		return errors.Wrap(exception.ErrNilInstance, "source")
	}
	index, err := codec.WithOrderSource(o.index, src.ID())
	if err != nil {
		return err
	}
	o.index = index
	return nil
}

func (o *OrderBase) TimeSequence() int64 {
	return o.timeSequence
}

func (o *OrderBase) SetTimeSequence(ts int64) {
	o.timeSequence = ts
}

// Time returns the event time in milliseconds since epoch.
func (o *OrderBase) Time() int64 {
	return (o.timeSequence>>secondsShift)*1000 + (o.timeSequence>>millisShift)&millisMask
}

// SetTime sets the time in milliseconds since epoch and keeps the sequence.
func (o *OrderBase) SetTime(millis int64) {
	seconds := floorDiv(millis, 1000)
	o.timeSequence = int64(int32(seconds))<<secondsShift |
		floorMod(millis, 1000)<<millisShift |
		int64(o.Sequence())
}

func (o *OrderBase) Sequence() int32 {
	return int32(o.timeSequence & MaxSequence)
}

func (o *OrderBase) SetSequence(sequence int32) error {
	if sequence < 0 || sequence > MaxSequence {
		return errors.Wrapf(exception.ErrSequenceOutOfRange, "sequence: %d", sequence)
	}
	o.timeSequence = o.timeSequence&^MaxSequence | int64(sequence)
	return nil
}

// TimeNanos returns the time in nanoseconds including the nano part.
func (o *OrderBase) TimeNanos() int64 {
	return o.Time()*1_000_000 + int64(o.TimeNanoPart)
}

func (o *OrderBase) SetTimeNanos(nanos int64) {
	o.SetTime(floorDiv(nanos, 1_000_000))
	o.TimeNanoPart = int32(floorMod(nanos, 1_000_000))
}

func (o *OrderBase) Action() enum.OrderAction {
	return enum.OrderAction(codec.GetBits(o.flags, actionMask, actionShift))
}

func (o *OrderBase) SetAction(action enum.OrderAction) error {
	if !action.IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "action: %s", action)
	}
	o.flags = codec.SetBits(o.flags, actionMask, actionShift, int32(action))
	return nil
}

// ExchangeCode returns the 7-bit ASCII exchange code, 0 when absent.
func (o *OrderBase) ExchangeCode() byte {
	return byte(codec.GetBits(o.flags, exchangeMask, exchangeShift))
}

func (o *OrderBase) SetExchangeCode(code byte) error {
	if int32(code) > exchangeMask {
		return errors.Wrapf(exception.ErrInvalidExchangeCode, "exchange code: %#x", code)
	}
	o.flags = codec.SetBits(o.flags, exchangeMask, exchangeShift, int32(code))
	return nil
}

func (o *OrderBase) Side() enum.Side {
	return enum.Side(codec.GetBits(o.flags, sideMask, sideShift))
}

func (o *OrderBase) SetSide(side enum.Side) error {
	if !side.IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "side: %s", side)
	}
	o.flags = codec.SetBits(o.flags, sideMask, sideShift, int32(side))
	return nil
}

func (o *OrderBase) Scope() enum.Scope {
	return enum.Scope(codec.GetBits(o.flags, scopeMask, scopeShift))
}

func (o *OrderBase) SetScope(scope enum.Scope) error {
	if !scope.IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "scope: %s", scope)
	}
	o.flags = codec.SetBits(o.flags, scopeMask, scopeShift, int32(scope))
	return nil
}

// Flags returns the packed scope, side, exchange and action word.
func (o *OrderBase) Flags() int32 {
	return o.flags
}

func (o *OrderBase) SetFlags(flags int32) {
	o.flags = flags
}

// HasSize reports whether the order is live, i.e. its size is neither zero
// nor NaN.
func (o *OrderBase) HasSize() bool {
	return !codec.IsOrderRemoval(o.Size)
}

// Validate checks the event flags against the index and the size, and the
// packed enums against their ranges.
func (o *OrderBase) Validate() error {
	if err := codec.ValidateOrderEvent(o.eventFlags, o.index, o.Size); err != nil {
		return err
	}
	if !o.Side().IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "side: %s", o.Side())
	}
	if !o.Action().IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "action: %s", o.Action())
	}
	return nil
}

func (o *OrderBase) appendFields(buf []byte) []byte {
	buf = append(buf, o.EventSymbol...)
	buf = appendField(buf, "eventTime")
	buf = appendMillis(buf, o.EventTime)
	buf = appendField(buf, "source")
	buf = append(buf, source.Label(o.SourceID())...)
	buf = appendField(buf, "eventFlags")
	buf = append(buf, "0x"...)
	buf = strconv.AppendUint(buf, uint64(o.eventFlags), 16)
	buf = appendField(buf, "index")
	buf = o.index.AppendString(buf)
	buf = appendField(buf, "time")
	buf = appendMillis(buf, o.Time())
	buf = appendField(buf, "sequence")
	buf = strconv.AppendInt(buf, int64(o.Sequence()), 10)
	buf = appendField(buf, "timeNanoPart")
	buf = strconv.AppendInt(buf, int64(o.TimeNanoPart), 10)
	buf = appendField(buf, "action")
	buf = append(buf, o.Action().String()...)
	buf = appendField(buf, "actionTime")
	buf = appendMillis(buf, o.ActionTime)
	buf = appendField(buf, "orderId")
	buf = strconv.AppendInt(buf, o.OrderID, 10)
	buf = appendField(buf, "auxOrderId")
	buf = strconv.AppendInt(buf, o.AuxOrderID, 10)
	buf = appendField(buf, "price")
	buf = appendFloat(buf, o.Price)
	buf = appendField(buf, "size")
	buf = appendFloat(buf, o.Size)
	buf = appendField(buf, "executedSize")
	buf = appendFloat(buf, o.ExecutedSize)
	buf = appendField(buf, "count")
	buf = strconv.AppendInt(buf, o.Count, 10)
	buf = appendField(buf, "exchange")
	buf = appendChar(buf, uint16(o.ExchangeCode()))
	buf = appendField(buf, "side")
	buf = append(buf, o.Side().String()...)
	buf = appendField(buf, "scope")
	buf = append(buf, o.Scope().String()...)
	buf = appendField(buf, "tradeId")
	buf = strconv.AppendInt(buf, o.TradeID, 10)
	buf = appendField(buf, "tradePrice")
	buf = appendFloat(buf, o.TradePrice)
	buf = appendField(buf, "tradeSize")
	buf = appendFloat(buf, o.TradeSize)
	return buf
}
