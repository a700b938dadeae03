package source

import (
	"fmt"
	"sync"
	"testing"

	"mdcodec/internal/model/enum"
	"mdcodec/internal/obs"
	"mdcodec/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/pkg/sys"
)

func mustID(t *testing.T, name string) int32 {
	t.Helper()
	id, err := ComposeID(name)
	require.NoError(t, err)
	return id
}

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	def, err := r.BySourceID(DefaultID)
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", def.Name())
	assert.True(t, def.IsBuiltin())
	assert.True(t, def.IsFullOrderBook())
	for _, kind := range enum.EventKinds() {
		assert.True(t, def.IsPublishable(kind), kind.String())
	}

	ntv, err := r.ByName("NTV")
	require.NoError(t, err)
	assert.Equal(t, mustID(t, "NTV"), ntv.ID())
	assert.True(t, ntv.IsBuiltin())

	byID, err := r.BySourceID(ntv.ID())
	require.NoError(t, err)
	assert.Same(t, ntv, byID)

	agg, err := r.BySourceID(AggregateAskID)
	require.NoError(t, err)
	assert.Equal(t, "AGGREGATE_ASK", agg.Name())
	assert.True(t, agg.IsSpecial())
	assert.Zero(t, agg.PublishFlags())

	assert.Len(t, r.Builtins(), len(BuiltinSources()))
	assert.Equal(t, len(BuiltinSources()), r.Len())
}

func TestRegistryIsSpecial(t *testing.T) {
	r := NewRegistry()
	for id := int32(1); id <= 9; id++ {
		assert.True(t, r.IsSpecial(id))
	}
	assert.False(t, r.IsSpecial(0))
	assert.False(t, r.IsSpecial(10))
	assert.False(t, r.IsSpecial(-1))
	assert.False(t, r.IsSpecial(mustID(t, "NTV")))
}

func TestRegistryTransientLookup(t *testing.T) {
	r := NewRegistry()
	id := mustID(t, "ZQ9")

	first, err := r.BySourceID(id)
	require.NoError(t, err)
	assert.Equal(t, "ZQ9", first.Name())
	assert.Zero(t, first.PublishFlags())
	assert.False(t, first.IsBuiltin())

	for _, name := range []string{"AB", "CD", "EF"} {
		_, err := r.ByName(name)
		require.NoError(t, err)
	}
	_, err = r.BySourceID(mustID(t, "XYZ"))
	require.NoError(t, err)

	second, err := r.BySourceID(id)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, first.PublishFlags(), second.PublishFlags())

	byName, err := r.ByName("ZQ9")
	require.NoError(t, err)
	assert.True(t, byName.Equal(first))
}

func TestRegistryLookupErrors(t *testing.T) {
	empty := NewRegistry(WithoutBuiltins())

	_, err := empty.BySourceID(0)
	require.True(t, errors.Is(err, exception.ErrInvalidSourceID))
	_, err = empty.BySourceID(CompositeBidID)
	require.True(t, errors.Is(err, exception.ErrInvalidSourceID))
	_, err = empty.BySourceID(0x41004200)
	require.True(t, errors.Is(err, exception.ErrInvalidSourceID))

	for _, name := range []string{"", "ABCDE", "A_B"} {
		_, err = empty.ByName(name)
		require.True(t, errors.Is(err, exception.ErrInvalidSourceName), name)
	}
	assert.Zero(t, empty.Len())
}

func TestRegisterBuiltinErrors(t *testing.T) {
	testCases := []struct {
		desc     string
		id       int32
		name     string
		flags    PublishFlags
		expected error
	}{
		{"full order book alone", mustID(t, "FOB"), "FOB", FullOrderBook, exception.ErrInvalidFlagCombination},
		{"duplicate id", mustID(t, "NTV"), "NTV", PublishOrder, exception.ErrDuplicateID},
		{"duplicate special id", CompositeID, "COMPOSITE2", 0, exception.ErrDuplicateID},
		{"name too long", 0x7FFF, "DEFAULT", 0, exception.ErrInvalidSourceName},
		{"negative id", -1, "NEG", 0, exception.ErrInvalidSourceID},
		{"reserved id", 15, "X", 0, exception.ErrInvalidSourceID},
		{"id does not match name", mustID(t, "AAA"), "BBB", 0, exception.ErrInvalidSourceID},
		{"invalid name", 0x41414141, "AA-A", 0, exception.ErrInvalidSourceName},
		{"unnamed special", 4, "", 0, exception.ErrInvalidSourceName},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			r := NewRegistry()
			_, err := r.RegisterBuiltin(tc.id, tc.name, tc.flags)
			require.True(t, errors.Is(err, tc.expected))
		})
	}
}

func TestRegisterBuiltinDuplicateName(t *testing.T) {
	r := NewRegistry(WithoutBuiltins())
	_, err := r.RegisterBuiltin(CompositeBidID, "BID", 0)
	require.NoError(t, err)

	_, err = r.RegisterBuiltin(CompositeAskID, "BID", 0)
	require.True(t, errors.Is(err, exception.ErrDuplicateName))

	_, err = r.BySourceID(CompositeAskID)
	require.True(t, errors.Is(err, exception.ErrInvalidSourceID), "failed registration must not leave a trace")
}

func TestRegisterBuiltinUpgradesTransient(t *testing.T) {
	r := NewRegistry(WithoutBuiltins())
	id := mustID(t, "QQQ")

	transient, err := r.BySourceID(id)
	require.NoError(t, err)
	require.False(t, transient.IsBuiltin())

	builtin, err := r.RegisterBuiltin(id, "QQQ", PublishOrder)
	require.NoError(t, err)

	got, err := r.BySourceID(id)
	require.NoError(t, err)
	assert.Same(t, builtin, got)
	assert.Equal(t, 1, r.Len())

	assert.Zero(t, r.Trim())
	got, err = r.ByName("QQQ")
	require.NoError(t, err)
	assert.Same(t, builtin, got)
}

func TestPublishableView(t *testing.T) {
	r := NewRegistry()

	view, err := r.Publishable(enum.EventKindOrder)
	require.NoError(t, err)

	var expected []*Source
	for _, src := range r.Builtins() {
		if src.PublishFlags().Has(PublishOrder) {
			expected = append(expected, src)
		}
	}
	require.Equal(t, expected, view.Slice())
	assert.Equal(t, "DEFAULT", view.At(0).Name())

	late, err := r.RegisterBuiltin(mustID(t, "LATE"), "LATE", PublishOrder|PublishSpreadOrder)
	require.NoError(t, err)
	assert.Equal(t, len(expected)+1, view.Len())
	assert.Same(t, late, view.At(view.Len()-1))
	assert.True(t, view.Contains(late))

	spread, err := r.Publishable(enum.EventKindSpreadOrder)
	require.NoError(t, err)
	names := make([]string, 0, spread.Len())
	for src := range spread.All() {
		names = append(names, src.Name())
	}
	assert.Equal(t, []string{"DEFAULT", "ISE", "LATE"}, names)

	otc, err := r.Publishable(enum.EventKindOtcMarketsOrder)
	require.NoError(t, err)
	assert.False(t, otc.Contains(late))

	transient, err := r.ByName("TRN")
	require.NoError(t, err)
	assert.False(t, view.Contains(transient))

	_, err = r.Publishable(enum.EventKind(0))
	require.True(t, errors.Is(err, exception.ErrInvalidEventKind))
}

func TestFullOrderBookView(t *testing.T) {
	r := NewRegistry()
	names := make([]string, 0)
	for src := range r.FullOrderBook().All() {
		names = append(names, src.Name())
		assert.NoError(t, src.PublishFlags().Validate())
	}
	assert.Equal(t, []string{"DEFAULT", "NTV", "EDX", "NUAM"}, names)
}

func TestSoftCapacity(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, builtinCapacityFactor*len(BuiltinSources()), r.SoftCapacity())

	empty := NewRegistry(WithoutBuiltins())
	assert.Equal(t, DefaultBaseCapacity, empty.SoftCapacity())

	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("B%03d", i)
		_, err := empty.RegisterBuiltin(mustID(t, name), name, PublishOrder)
		require.NoError(t, err)
	}
	assert.Equal(t, 120, empty.SoftCapacity())
}

func TestTrimKeepsBuiltins(t *testing.T) {
	metrics := obs.NewRegistryMetrics()
	r := NewRegistry(WithoutBuiltins(), WithBaseCapacity(10), WithMetrics(metrics))

	keep, err := r.RegisterBuiltin(mustID(t, "KEEP"), "KEEP", PublishOrder)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		_, err := r.BySourceID(mustID(t, fmt.Sprintf("T%03d", i)))
		require.NoError(t, err)
		require.LessOrEqual(t, r.Len(), r.SoftCapacity())
	}

	got, err := r.BySourceID(keep.ID())
	require.NoError(t, err)
	assert.Same(t, keep, got)

	r.Trim()
	assert.Equal(t, 1, r.Len())

	s := metrics.Snapshot()
	assert.Equal(t, uint64(1), s.Builtins)
	assert.Equal(t, uint64(50), s.Synthesized)
	assert.Equal(t, uint64(50), s.Evicted)
	assert.NotZero(t, s.Trims)
	assert.NotZero(t, s.Hits)
}

func TestRegistryConcurrentLookup(t *testing.T) {
	r := NewRegistry(WithBaseCapacity(16))
	names := make([]string, 64)
	for i := range names {
		names[i] = fmt.Sprintf("C%03d", i)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				name := names[(g*7+i)%len(names)]
				var (
					src *Source
					err error
				)
				if i%2 == 0 {
					src, err = r.ByName(name)
				} else {
					id, _ := ComposeID(name)
					src, err = r.BySourceID(id)
				}
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, name, src.Name())
			}
		}(g)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			name := fmt.Sprintf("P%03d", i)
			id, _ := ComposeID(name)
			_, err := r.RegisterBuiltin(id, name, PublishOrder)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	for _, b := range r.Builtins() {
		got, err := r.BySourceID(b.ID())
		require.NoError(t, err)
		require.True(t, got.IsBuiltin(), b.Name())
	}
}

func TestCachedLookupMemory(t *testing.T) {
	r := NewRegistry()
	id := mustID(t, "NTV")
	alloc, bytes := sys.MeasureMem(func() {
		for i := 0; i < 1000; i++ {
			_, _ = r.BySourceID(id)
		}
	})
	t.Logf("cached lookups: alloc %d, bytes %d", alloc, bytes)
}
