package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventKind(t *testing.T) {
	testCases := []struct {
		desc     string
		input    string
		expected EventKind
		ok       bool
	}{
		{"order", "order", EventKindOrder, true},
		{"type name", "AnalyticOrder", EventKindAnalyticOrder, true},
		{"short otc", "otcmarkets", EventKindOtcMarketsOrder, true},
		{"short spread", " Spread ", EventKindSpreadOrder, true},
		{"empty", "", 0, false},
		{"unknown", "quote", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			kind, ok := ParseEventKind(tc.input)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.expected, kind)
				assert.True(t, kind.IsAvailable())
			}
		})
	}
}

func TestEventKinds(t *testing.T) {
	assert.Equal(t, []EventKind{
		EventKindOrder,
		EventKindAnalyticOrder,
		EventKindOtcMarketsOrder,
		EventKindSpreadOrder,
	}, EventKinds())
	assert.False(t, EventKind(0).IsAvailable())
	assert.Equal(t, "EventKind(9)", EventKind(9).String())
	assert.Equal(t, "SpreadOrder", EventKindSpreadOrder.String())
}
