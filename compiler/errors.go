package compiler

import "errors"

var (
	ErrUnknownTarget          = errors.New("unknown target")
	ErrUnsupportedValue       = errors.New("unsupported value")
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
)
