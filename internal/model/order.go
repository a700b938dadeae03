package model

import (
	"math"
	"strconv"

	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// Order is an order book entry of a single source.
type Order struct {
	OrderBase
	MarketMaker string
}

func NewOrder(symbol string) *Order {
	return &Order{OrderBase: NewOrderBase(symbol)}
}

func (o *Order) Kind() enum.EventKind {
	return enum.EventKindOrder
}

func (o *Order) appendFields(buf []byte) []byte {
	buf = o.OrderBase.appendFields(buf)
	buf = appendField(buf, "marketMaker")
	buf = append(buf, '\'')
	buf = append(buf, o.MarketMaker...)
	return append(buf, '\'')
}

func (o *Order) String() string {
	return wrapFields("Order", o.appendFields)
}

// iceberg flags word layout
const (
	icebergTypeMask  int32 = 3
	icebergTypeShift       = 0
)

// AnalyticOrder is an order extended with iceberg analytics.
type AnalyticOrder struct {
	Order
	IcebergPeakSize     float64
	IcebergHiddenSize   float64
	IcebergExecutedSize float64

	icebergFlags int32
}

func NewAnalyticOrder(symbol string) *AnalyticOrder {
	nan := math.NaN()
	return &AnalyticOrder{
		Order:               Order{OrderBase: NewOrderBase(symbol)},
		IcebergPeakSize:     nan,
		IcebergHiddenSize:   nan,
		IcebergExecutedSize: nan,
	}
}

func (o *AnalyticOrder) Kind() enum.EventKind {
	return enum.EventKindAnalyticOrder
}

func (o *AnalyticOrder) IcebergType() enum.IcebergType {
	return enum.IcebergType(codec.GetBits(o.icebergFlags, icebergTypeMask, icebergTypeShift))
}

func (o *AnalyticOrder) SetIcebergType(t enum.IcebergType) error {
	if !t.IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "iceberg type: %s", t)
	}
	o.icebergFlags = codec.SetBits(o.icebergFlags, icebergTypeMask, icebergTypeShift, int32(t))
	return nil
}

func (o *AnalyticOrder) IcebergFlags() int32 {
	return o.icebergFlags
}

func (o *AnalyticOrder) SetIcebergFlags(flags int32) {
	o.icebergFlags = flags
}

func (o *AnalyticOrder) String() string {
	return wrapFields("AnalyticOrder", func(buf []byte) []byte {
		buf = o.Order.appendFields(buf)
		buf = appendField(buf, "icebergPeakSize")
		buf = appendFloat(buf, o.IcebergPeakSize)
		buf = appendField(buf, "icebergHiddenSize")
		buf = appendFloat(buf, o.IcebergHiddenSize)
		buf = appendField(buf, "icebergExecutedSize")
		buf = appendFloat(buf, o.IcebergExecutedSize)
		buf = appendField(buf, "icebergType")
		return append(buf, o.IcebergType().String()...)
	})
}

// OTC Markets flags word layout
const (
	OtcOpen           int32 = 1 << 0
	OtcUnsolicited    int32 = 1 << 1
	otcPriceTypeMask  int32 = 3
	otcPriceTypeShift       = 2
	OtcSaturated      int32 = 1 << 4
	OtcAutoExecution  int32 = 1 << 5
	OtcNmsConditional int32 = 1 << 6
)

// OtcMarketsOrder is an order of the OTC Markets quotation service.
type OtcMarketsOrder struct {
	Order
	QuoteAccessPayment int32

	otcMarketsFlags int32
}

func NewOtcMarketsOrder(symbol string) *OtcMarketsOrder {
	return &OtcMarketsOrder{Order: Order{OrderBase: NewOrderBase(symbol)}}
}

func (o *OtcMarketsOrder) Kind() enum.EventKind {
	return enum.EventKindOtcMarketsOrder
}

func (o *OtcMarketsOrder) hasFlag(flag int32) bool {
	return o.otcMarketsFlags&flag != 0
}

func (o *OtcMarketsOrder) setFlag(flag int32, on bool) {
	if on {
		o.otcMarketsFlags |= flag
	} else {
		o.otcMarketsFlags &^= flag
	}
}

func (o *OtcMarketsOrder) IsOpen() bool               { return o.hasFlag(OtcOpen) }
func (o *OtcMarketsOrder) SetOpen(on bool)            { o.setFlag(OtcOpen, on) }
func (o *OtcMarketsOrder) IsUnsolicited() bool        { return o.hasFlag(OtcUnsolicited) }
func (o *OtcMarketsOrder) SetUnsolicited(on bool)     { o.setFlag(OtcUnsolicited, on) }
func (o *OtcMarketsOrder) IsSaturated() bool          { return o.hasFlag(OtcSaturated) }
func (o *OtcMarketsOrder) SetSaturated(on bool)       { o.setFlag(OtcSaturated, on) }
func (o *OtcMarketsOrder) IsAutoExecution() bool      { return o.hasFlag(OtcAutoExecution) }
func (o *OtcMarketsOrder) SetAutoExecution(on bool)   { o.setFlag(OtcAutoExecution, on) }
func (o *OtcMarketsOrder) IsNmsConditional() bool     { return o.hasFlag(OtcNmsConditional) }
func (o *OtcMarketsOrder) SetNmsConditional(on bool)  { o.setFlag(OtcNmsConditional, on) }
func (o *OtcMarketsOrder) OtcMarketsFlags() int32     { return o.otcMarketsFlags }
func (o *OtcMarketsOrder) SetOtcMarketsFlags(f int32) { o.otcMarketsFlags = f }

func (o *OtcMarketsOrder) PriceType() enum.OtcMarketsPriceType {
	return enum.OtcMarketsPriceType(codec.GetBits(o.otcMarketsFlags, otcPriceTypeMask, otcPriceTypeShift))
}

func (o *OtcMarketsOrder) SetPriceType(t enum.OtcMarketsPriceType) error {
	if !t.IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "otc markets price type: %s", t)
	}
	o.otcMarketsFlags = codec.SetBits(o.otcMarketsFlags, otcPriceTypeMask, otcPriceTypeShift, int32(t))
	return nil
}

func (o *OtcMarketsOrder) Validate() error {
	if err := o.Order.Validate(); err != nil {
		return err
	}
	if !o.PriceType().IsAvailable() {
		return errors.Wrapf(exception.ErrArgumentUnsupported, "otc markets price type: %s", o.PriceType())
	}
	return nil
}

func (o *OtcMarketsOrder) String() string {
	return wrapFields("OtcMarketsOrder", func(buf []byte) []byte {
		buf = o.Order.appendFields(buf)
		buf = appendField(buf, "QAP")
		buf = strconv.AppendInt(buf, int64(o.QuoteAccessPayment), 10)
		buf = appendField(buf, "open")
		buf = strconv.AppendBool(buf, o.IsOpen())
		buf = appendField(buf, "unsolicited")
		buf = strconv.AppendBool(buf, o.IsUnsolicited())
		buf = appendField(buf, "priceType")
		buf = append(buf, o.PriceType().String()...)
		buf = appendField(buf, "saturated")
		buf = strconv.AppendBool(buf, o.IsSaturated())
		buf = appendField(buf, "autoEx")
		buf = strconv.AppendBool(buf, o.IsAutoExecution())
		buf = appendField(buf, "NMS")
		return strconv.AppendBool(buf, o.IsNmsConditional())
	})
}

// SpreadOrder is an order of a multi-leg spread.
type SpreadOrder struct {
	OrderBase
	SpreadSymbol string
}

func NewSpreadOrder(symbol string) *SpreadOrder {
	return &SpreadOrder{OrderBase: NewOrderBase(symbol)}
}

func (o *SpreadOrder) Kind() enum.EventKind {
	return enum.EventKindSpreadOrder
}

func (o *SpreadOrder) String() string {
	return wrapFields("SpreadOrder", func(buf []byte) []byte {
		buf = o.OrderBase.appendFields(buf)
		buf = appendField(buf, "spreadSymbol")
		buf = append(buf, '\'')
		buf = append(buf, o.SpreadSymbol...)
		return append(buf, '\'')
	})
}

func wrapFields(name string, fields func([]byte) []byte) string {
	buf := make([]byte, 0, 512)
	buf = append(buf, name...)
	buf = append(buf, '{')
	buf = fields(buf)
	buf = append(buf, '}')
	return string(buf)
}
