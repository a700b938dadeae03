package model

import (
	"math"
	"strconv"

	"mdcodec/internal/codec"
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// MarketMaker is the bid and ask quote of one market maker on one exchange.
// The index packs the exchange code and the market maker id.
type MarketMaker struct {
	EventSymbol string
	EventTime   int64
	BidTime     int64
	BidPrice    float64
	BidSize     float64
	BidCount    int64
	AskTime     int64
	AskPrice    float64
	AskSize     float64
	AskCount    int64

	eventFlags codec.EventFlags
	index      codec.Index
}

func NewMarketMaker(symbol string) *MarketMaker {
	nan := math.NaN()
	return &MarketMaker{
		EventSymbol: symbol,
		BidPrice:    nan,
		BidSize:     nan,
		AskPrice:    nan,
		AskSize:     nan,
	}
}

func (m *MarketMaker) EventFlags() codec.EventFlags {
	return m.eventFlags
}

func (m *MarketMaker) SetEventFlags(flags codec.EventFlags) {
	m.eventFlags = flags
}

func (m *MarketMaker) Index() codec.Index {
	return m.index
}

func (m *MarketMaker) SetIndex(index codec.Index) error {
	if index < 0 {
		return errors.Wrapf(exception.ErrNegativeIndex, "index: %d", int64(index))
	}
	m.index = index
	return nil
}

// Time is the latest of the bid and ask times.
func (m *MarketMaker) Time() int64 {
	return max(m.BidTime, m.AskTime)
}

func (m *MarketMaker) ExchangeCode() uint16 {
	exchange, _ := codec.DecomposeMarketMakerIndex(m.index)
	return exchange
}

func (m *MarketMaker) SetExchangeCode(code uint16) {
	_, mmid := codec.DecomposeMarketMakerIndex(m.index)
	// mmid came out of the index, it always fits.
	m.index, _ = codec.ComposeMarketMakerIndex(code, mmid)
}

// MarketMaker returns the market maker id, empty when absent.
func (m *MarketMaker) MarketMaker() string {
	_, mmid := codec.DecomposeMarketMakerIndex(m.index)
	name, _ := codec.DecodeShortString(mmid)
	return name
}

// SetMarketMaker encodes name into the low 32 bits of the index. Names longer
// than 4 bytes do not fit.
func (m *MarketMaker) SetMarketMaker(name string) error {
	code, err := codec.EncodeShortString(name)
	if err != nil {
		return err
	}
	index, err := codec.ComposeMarketMakerIndex(m.ExchangeCode(), code)
	if err != nil {
		return errors.Wrapf(err, "market maker: %q", name)
	}
	m.index = index
	return nil
}

func (m *MarketMaker) Validate() error {
	return codec.ValidateEventFlags(m.eventFlags, m.index)
}

func (m *MarketMaker) String() string {
	return wrapFields("MarketMaker", func(buf []byte) []byte {
		buf = append(buf, m.EventSymbol...)
		buf = appendField(buf, "eventTime")
		buf = appendMillis(buf, m.EventTime)
		buf = appendField(buf, "source")
		buf = append(buf, "DEFAULT"...)
		buf = appendField(buf, "eventFlags")
		buf = append(buf, "0x"...)
		buf = strconv.AppendUint(buf, uint64(m.eventFlags), 16)
		buf = appendField(buf, "index")
		buf = m.index.AppendString(buf)
		buf = appendField(buf, "time")
		buf = appendMillis(buf, m.Time())
		buf = appendField(buf, "exchange")
		buf = appendChar(buf, m.ExchangeCode())
		buf = appendField(buf, "marketMaker")
		buf = append(buf, '\'')
		buf = append(buf, m.MarketMaker()...)
		buf = append(buf, '\'')
		buf = appendField(buf, "bidTime")
		buf = appendMillis(buf, m.BidTime)
		buf = appendField(buf, "bidPrice")
		buf = appendFloat(buf, m.BidPrice)
		buf = appendField(buf, "bidSize")
		buf = appendFloat(buf, m.BidSize)
		buf = appendField(buf, "bidCount")
		buf = strconv.AppendInt(buf, m.BidCount, 10)
		buf = appendField(buf, "askTime")
		buf = appendMillis(buf, m.AskTime)
		buf = appendField(buf, "askPrice")
		buf = appendFloat(buf, m.AskPrice)
		buf = appendField(buf, "askSize")
		buf = appendFloat(buf, m.AskSize)
		buf = appendField(buf, "askCount")
		return strconv.AppendInt(buf, m.AskCount, 10)
	})
}
