package go5cell

import "errors"

// Errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadPairing      = errors.New("bad facet pairing")
	ErrNilPairing      = errors.New("nil facet pairing")
	ErrBadPerm         = errors.New("bad gluing permutation")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrCatalogReadOnly = errors.New("catalog is in read-only mode")
	ErrBadCensusParam  = errors.New("bad census param")
	ErrSearchCorrupt   = errors.New("search state is corrupt")
)
