package model

import (
	"math"
	"testing"

	"mdcodec/internal/codec"
	"mdcodec/internal/model/enum"
	"mdcodec/internal/source"
	"mdcodec/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"
)

func TestNewOrderBaseDefaults(t *testing.T) {
	o := NewOrderBase("AAPL")
	assert.Equal(t, "AAPL", o.EventSymbol)
	assert.True(t, math.IsNaN(o.Price))
	assert.True(t, math.IsNaN(o.Size))
	assert.False(t, o.HasSize())
	assert.Equal(t, enum.OrderActionUndefined, o.Action())
	assert.Equal(t, enum.SideUndefined, o.Side())
	assert.Equal(t, enum.ScopeComposite, o.Scope())
	assert.Zero(t, o.Index())
}

func TestOrderBaseTimeSequence(t *testing.T) {
	testCases := []struct {
		desc     string
		millis   int64
		sequence int32
	}{
		{"zero", 0, 0},
		{"now", 1_700_000_000_123, 17},
		{"max sequence", 1_700_000_000_999, MaxSequence},
		{"before epoch", -1_500, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			o := NewOrderBase("X")
			require.NoError(t, o.SetSequence(tc.sequence))
			o.SetTime(tc.millis)
			assert.Equal(t, tc.millis, o.Time())
			assert.Equal(t, tc.sequence, o.Sequence())

			require.NoError(t, o.SetSequence(1))
			assert.Equal(t, tc.millis, o.Time())
		})
	}

	o := NewOrderBase("X")
	o.SetTime(1_700_000_000_123)
	assert.Equal(t, int64(1_700_000_000)<<32|int64(123)<<22, o.TimeSequence())

	require.True(t, errors.Is(o.SetSequence(-1), exception.ErrSequenceOutOfRange))
	require.True(t, errors.Is(o.SetSequence(MaxSequence+1), exception.ErrSequenceOutOfRange))
}

func TestOrderBaseTimeNanos(t *testing.T) {
	o := NewOrderBase("X")
	o.SetTimeNanos(1_700_000_000_123_456_789)
	assert.Equal(t, int64(1_700_000_000_123), o.Time())
	assert.Equal(t, int32(456_789), o.TimeNanoPart)
	assert.Equal(t, int64(1_700_000_000_123_456_789), o.TimeNanos())
}

func TestOrderBaseFlagsWord(t *testing.T) {
	o := NewOrderBase("X")
	require.NoError(t, o.SetScope(enum.ScopeOrder))
	require.NoError(t, o.SetSide(enum.SideSell))
	require.NoError(t, o.SetExchangeCode('Q'))
	require.NoError(t, o.SetAction(enum.OrderActionBust))

	assert.Equal(t, int32(3|2<<2|'Q'<<4|8<<11), o.Flags())
	assert.Equal(t, enum.ScopeOrder, o.Scope())
	assert.Equal(t, enum.SideSell, o.Side())
	assert.Equal(t, byte('Q'), o.ExchangeCode())
	assert.Equal(t, enum.OrderActionBust, o.Action())

	require.NoError(t, o.SetSide(enum.SideBuy))
	assert.Equal(t, enum.SideBuy, o.Side())
	assert.Equal(t, byte('Q'), o.ExchangeCode())
	assert.Equal(t, enum.OrderActionBust, o.Action())

	require.True(t, errors.Is(o.SetExchangeCode(0x80), exception.ErrInvalidExchangeCode))
	require.True(t, errors.Is(o.SetSide(enum.Side(3)), exception.ErrArgumentUnsupported))
	require.True(t, errors.Is(o.SetAction(enum.OrderAction(9)), exception.ErrArgumentUnsupported))
	require.True(t, errors.Is(o.SetScope(enum.Scope(4)), exception.ErrArgumentUnsupported))
}

func TestOrderBaseSource(t *testing.T) {
	reg := source.NewRegistry()
	ntv, err := reg.ByName("NTV")
	require.NoError(t, err)
	agg, err := reg.BySourceID(source.AggregateBidID)
	require.NoError(t, err)

	o := NewOrderBase("X")
	index, err := codec.ComposeOrderIndex(source.AggregateBidID, true, 'Q', 42)
	require.NoError(t, err)
	require.NoError(t, o.SetIndex(index))

	got, err := o.Source(reg)
	require.NoError(t, err)
	assert.Same(t, agg, got)

	require.NoError(t, o.SetSource(ntv))
	got, err = o.Source(reg)
	require.NoError(t, err)
	assert.Same(t, ntv, got)
	assert.Equal(t, int64(42), o.Index().SubIndex())

	parts, err := codec.DecomposeOrderIndex(o.Index())
	require.NoError(t, err)
	assert.Zero(t, parts.Exchange)

	_, err = o.Source(nil)
	require.True(t, errors.Is(err, exception.ErrNilInstance))
	require.True(t, errors.Is(o.SetSource(nil), exception.ErrNilInstance))
	require.True(t, errors.Is(o.SetIndex(-1), exception.ErrNegativeIndex))
}

func TestOrderBaseValidate(t *testing.T) {
	testCases := []struct {
		desc     string
		flags    codec.EventFlags
		index    codec.Index
		size     float64
		expected error
	}{
		{"live order", codec.SnapshotBegin, 5, 100, nil},
		{"removal with nan size", codec.RemoveEvent, 5, math.NaN(), nil},
		{"removal with zero size", codec.RemoveEvent | codec.TxPending, 5, 0, nil},
		{"removal with live size", codec.RemoveEvent, 5, 1, exception.ErrInconsistentRemoval},
		{"snapshot end on zero sub-index", codec.SnapshotEnd, 0x4E5456_00000000, 0, nil},
		{"snapshot end on nonzero sub-index", codec.SnapshotEnd, 1, 0, exception.ErrInconsistentSnapshotTerminator},
		{"snapshot snip on nonzero sub-index", codec.SnapshotSnip, 7, 0, exception.ErrInconsistentSnapshotTerminator},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			o := NewOrder("X")
			o.SetEventFlags(tc.flags)
			require.NoError(t, o.SetIndex(tc.index))
			o.Size = tc.size

			err := o.Validate()
			if tc.expected == nil {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, tc.expected))
			}
			assert.Equal(t, err == nil, ValidateIndexed(o) == nil)
		})
	}

	o := NewOrder("X")
	o.SetFlags(3 << 2)
	require.True(t, errors.Is(o.Validate(), exception.ErrArgumentUnsupported))
}

func TestOrderBaseString(t *testing.T) {
	o := NewOrder("IBM")
	index, err := codec.ComposeOrderIndex(0x4E5456, false, 0, 0x10)
	require.NoError(t, err)
	require.NoError(t, o.SetIndex(index))
	o.SetEventFlags(codec.SnapshotBegin)
	o.SetTime(1_700_000_000_123)
	require.NoError(t, o.SetSide(enum.SideBuy))
	require.NoError(t, o.SetExchangeCode('Q'))
	o.Price = 12.5
	o.Size = 100
	o.MarketMaker = "NSDQ"

	s := o.String()
	assert.Contains(t, s, "Order{IBM, eventTime=0, source=NTV, eventFlags=0x4, index=0x4e545600000010")
	assert.Contains(t, s, "time=20231114-221320.123")
	assert.Contains(t, s, "price=12.5, size=100, executedSize=NaN")
	assert.Contains(t, s, "exchange=Q, side=BUY, scope=COMPOSITE")
	assert.Contains(t, s, "marketMaker='NSDQ'}")
}

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator(MaxSequence - 1)
	assert.Equal(t, int32(MaxSequence-1), g.Next())
	assert.Equal(t, int32(MaxSequence), g.Next())
	assert.Equal(t, int32(0), g.Next())

	o := NewOrderBase("X")
	g.Stamp(&o, 1_000)
	assert.Equal(t, int64(1_000), o.Time())
	assert.Equal(t, int32(1), o.Sequence())

	var nilGen *SequenceGenerator
	assert.Zero(t, nilGen.Next())
}
