package codec

import (
	"testing"

	"mdcodec/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"
)

func TestShortStringRoundTrip(t *testing.T) {
	testCases := []struct {
		desc     string
		input    string
		code     uint64
		expected string
	}{
		{"single", "A", 0x41, "A"},
		{"market maker", "NTV", 0x4E5456, "NTV"},
		{"full width", "ABCDEFGH", 0x4142434445464748, "ABCDEFGH"},
		{"latin-1", "été", 0xE974E9, "été"},
		{"nul is skipped", "A\x00B", 0x4142, "AB"},
		{"nul does not extend capacity", "\x00BCDEFGH", 0x42434445464748, "BCDEFGH"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			code, err := EncodeShortString(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.code, code)

			decoded, ok := DecodeShortString(code)
			require.True(t, ok)
			assert.Equal(t, tc.expected, decoded)
		})
	}
}

func TestShortStringEmpty(t *testing.T) {
	code, err := EncodeShortString("")
	require.NoError(t, err)
	assert.Zero(t, code)

	code, err = EncodeShortString("\x00\x00")
	require.NoError(t, err)
	assert.Zero(t, code)

	s, ok := DecodeShortString(0)
	assert.False(t, ok)
	assert.Empty(t, s)
}

func TestShortStringInvalid(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{"too long", "ABCDEFGHI"},
		{"nul counts against length", "ABCDEFGH\x00"},
		{"outside latin-1", "€"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := EncodeShortString(tc.input)
			require.True(t, errors.Is(err, exception.ErrInvalidInput))
		})
	}
}

func TestMustEncodeShortStringPanics(t *testing.T) {
	assert.Equal(t, uint64(0x4E5456), MustEncodeShortString("NTV"))
	assert.Panics(t, func() { MustEncodeShortString("TOOLONGNAME") })
}
