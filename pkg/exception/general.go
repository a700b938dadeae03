// Package exception holds the sentinel errors of mdcodec. Errors are wrapped
// with github.com/yanun0323/errors, whose Unwrap does not yield the sentinel
// itself, so match them with that package's errors.Is, not the standard
// library's.
package exception

import "github.com/yanun0323/errors"

// General errors
var (
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrNilInstance         = errors.New("nil instance")
	ErrArgumentUnsupported = errors.New("argument unsupported")
	ErrInvalidArgument     = errors.New("invalid argument")
)
