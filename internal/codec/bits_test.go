package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	var word uint32
	word = SetBits(word, 0x7f, 4, uint32('Q'))
	word = SetBits(word, 3, 2, 2)
	word = SetBits(word, 3, 0, 1)

	assert.Equal(t, uint32('Q'), GetBits(word, 0x7f, 4))
	assert.Equal(t, uint32(2), GetBits(word, 3, 2))
	assert.Equal(t, uint32(1), GetBits(word, 3, 0))

	word = SetBits(word, 0x7f, 4, 0xFF)
	assert.Equal(t, uint32(0x7f), GetBits(word, 0x7f, 4), "bits outside the mask are dropped")
	assert.Equal(t, uint32(2), GetBits(word, 3, 2), "neighbour fields are untouched")
}
