package codec

// Word is any integer used as a packed bit field container.
type Word interface {
	~int32 | ~uint32 | ~int64 | ~uint64
}

// GetBits returns the field of width mask located at shift.
func GetBits[T Word](word T, mask T, shift uint) T {
	return (word >> shift) & mask
}

// SetBits replaces the field of width mask located at shift with bits.
// Bits outside the mask are dropped.
func SetBits[T Word](word T, mask T, shift uint, bits T) T {
	return word&^(mask<<shift) | (bits&mask)<<shift
}
