package model

import (
	"math"
	"strconv"
	"time"
)

// timeLayout renders event times as yyyyMMdd-HHmmss.SSS in UTC.
const timeLayout = "20060102-150405.000"

func appendMillis(buf []byte, millis int64) []byte {
	if millis == 0 {
		return append(buf, '0')
	}
	return time.UnixMilli(millis).UTC().AppendFormat(buf, timeLayout)
}

func appendFloat(buf []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(buf, "NaN"...)
	}
	return strconv.AppendFloat(buf, v, 'g', -1, 64)
}

// appendChar renders an exchange code: the character itself when printable,
// \0 for the absent code and a \u escape otherwise.
func appendChar(buf []byte, c uint16) []byte {
	switch {
	case c == 0:
		return append(buf, `\0`...)
	case c >= 0x20 && c < 0x7f:
		return append(buf, byte(c))
	default:
		buf = append(buf, `\u`...)
		for shift := 12; shift >= 0; shift -= 4 {
			buf = append(buf, "0123456789abcdef"[(c>>shift)&0xf])
		}
		return buf
	}
}

func appendField(buf []byte, name string) []byte {
	buf = append(buf, ", "...)
	buf = append(buf, name...)
	return append(buf, '=')
}

// floorDiv and floorMod split millis into seconds and millis like integer
// division toward negative infinity.
func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func floorMod(x, y int64) int64 {
	return x - floorDiv(x, y)*y
}
