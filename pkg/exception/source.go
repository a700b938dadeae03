package exception

import "github.com/yanun0323/errors"

// Source registry errors
var (
	ErrInvalidSourceID        = errors.New("source: invalid id")
	ErrInvalidSourceName      = errors.New("source: invalid name")
	ErrDuplicateID            = errors.New("source: duplicate id")
	ErrDuplicateName          = errors.New("source: duplicate name")
	ErrInvalidFlagCombination = errors.New("source: full order book without publishable event kind")
	ErrInvalidEventKind       = errors.New("source: invalid event kind")
)

// Catalog errors
var (
	// ErrCatalogConflict is returned when a persisted source disagrees with
	// a source already registered under the same id or name.
	ErrCatalogConflict = errors.New("catalog: conflicting source")
	ErrNilDatabase     = errors.New("catalog: nil database")
)
