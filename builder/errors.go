package builder

import "errors"

var (
	ErrParserError = errors.New("parser error occurred")
	ErrUnsupported = errors.New("unsupported construct")
	ErrNoPackages  = errors.New("no packages to build")
)
