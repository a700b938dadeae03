package codec

import (
	"mdcodec/pkg/exception"

	"github.com/yanun0323/errors"
)

// MaxShortStringLen is the number of characters a short string can hold.
const MaxShortStringLen = 8

// EncodeShortString packs s into an uint64, one byte per character, first
// character in the most significant used byte. NUL characters are skipped but
// still count against MaxShortStringLen. An empty string encodes to 0.
func EncodeShortString(s string) (uint64, error) {
	var (
		code  uint64
		count int
	)
	for _, char := range s {
		count++
		if count > MaxShortStringLen {
			return 0, errors.Wrapf(exception.ErrInvalidInput, "short string is longer than %d characters: %q", MaxShortStringLen, s)
		}
		if char > 0xFF {
			return 0, errors.Wrapf(exception.ErrInvalidInput, "short string character out of range: %U", char)
		}
		if char == 0 {
			continue
		}
		code = code<<8 | uint64(char)
	}
	return code, nil
}

// MustEncodeShortString is like EncodeShortString but panics on error.
// It is meant for tables of constants.
func MustEncodeShortString(s string) uint64 {
	code, err := EncodeShortString(s)
	if err != nil {
		panic(err)
	}
	return code
}

// DecodeShortString unpacks a code produced by EncodeShortString.
// It reports false for 0. Zero bytes are skipped, so NUL characters of the
// encoded string do not come back.
func DecodeShortString(code uint64) (string, bool) {
	if code == 0 {
		return "", false
	}

	var buf [MaxShortStringLen]rune
	n := len(buf)
	for ; code != 0; code >>= 8 {
		if b := byte(code); b != 0 {
			n--
			buf[n] = rune(b)
		}
	}
	return string(buf[n:]), true
}
