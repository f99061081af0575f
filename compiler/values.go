package compiler

import (
	"fmt"
	"strconv"

	"omibyte.io/stackc/ir"
)

// Load pushes the value of v.
func (fc *funcCompiler) Load(v ir.Value) error {
	switch ir.Classify(v) {
	case ir.ClassUndef, ir.ClassZeroVector, ir.ClassAggregateZero:
		return fc.loadZero(v.Repr())
	}

	if c, ok := v.(*ir.Const); ok {
		return fc.loadConst(c)
	}

	slot, ok := fc.frame.slot(v)
	if !ok {
		return fmt.Errorf("%w: %s has no slot", ErrUnsupportedValue, v.Name())
	}
	info, err := fc.target.Type(v.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	fc.emit(info.Prefix+"load", strconv.Itoa(slot))
	return nil
}

// Store pops the top of the stack into the slot of v.
func (fc *funcCompiler) Store(v ir.Value) error {
	slot, ok := fc.frame.slot(v)
	if !ok {
		return fmt.Errorf("%w: %s has no slot", ErrUnsupportedValue, v.Name())
	}
	info, err := fc.target.Type(v.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	fc.emit(info.Prefix+"store", strconv.Itoa(slot))
	return nil
}

func (fc *funcCompiler) loadZero(repr ir.Repr) error {
	info, err := fc.target.Type(repr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	if len(info.Zero) == 0 {
		return fmt.Errorf("%w: no zero for %s", ErrUnsupportedValue, repr)
	}
	fc.emit(info.Zero)
	return nil
}
