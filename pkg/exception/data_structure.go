package exception

import "github.com/yanun0323/errors"

// Encoding errors
var (
	// ErrInvalidInput is returned when a short string cannot be packed into an integer.
	ErrInvalidInput = errors.New("encoding: invalid input")

	// ErrNegativeIndex is returned when an index or sub-index would be negative.
	ErrNegativeIndex = errors.New("encoding: negative index")

	// ErrInvalidSourceClassification is returned when the special flag of a call
	// disagrees with the classification of the source id.
	ErrInvalidSourceClassification = errors.New("encoding: invalid source classification")

	ErrInconsistentSnapshotTerminator = errors.New("encoding: snapshot end or snip with non-zero sub-index")
	ErrInconsistentRemoval            = errors.New("encoding: remove event flag on order with live size")

	ErrSequenceOutOfRange  = errors.New("encoding: sequence out of range")
	ErrInvalidExchangeCode = errors.New("encoding: invalid exchange code")
)
