package analysis

import "errors"

var (
	ErrNoEntry     = errors.New("function has no entry block")
	ErrIrreducible = errors.New("control flow graph is irreducible")
)
