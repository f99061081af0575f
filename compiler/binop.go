package compiler

import (
	"fmt"
	"strings"

	"omibyte.io/stackc/ir"
)

func (fc *funcCompiler) createBinOp(v *ir.BinOp) error {
	info, err := fc.target.Type(v.X.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	switch {
	case v.Op == ir.OpAndNot:
		// x &^ y is x & (y ^ -1). The complement is computed first so the
		// stack never holds more than two operands.
		if !info.Supports(ir.OpXor) || !info.Supports(ir.OpAnd) {
			return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
		}
		if err = fc.Load(v.Y); err != nil {
			return err
		}
		if err = fc.loadConst(ir.IntConst(v.Y.Repr(), -1)); err != nil {
			return err
		}
		fc.emit(info.Prefix + ir.OpXor.String())
		if err = fc.Load(v.X); err != nil {
			return err
		}
		fc.emit(info.Prefix + ir.OpAnd.String())
	case info.Supports(v.Op):
		if err = fc.Load(v.X); err != nil {
			return err
		}
		if err = fc.Load(v.Y); err != nil {
			return err
		}

		// Shift counts are always int
		if v.Op.IsShift() && v.Y.Repr() == ir.ReprLong {
			long, err := fc.target.Type(ir.ReprLong)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
			}
			fc.emit(long.Convert[ir.ReprInt.String()])
		}
		fc.emit(info.Prefix + v.Op.String())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
	}

	return fc.Store(v)
}

// createCompare pushes 0 or 1 depending on the comparison.
func (fc *funcCompiler) createCompare(v *ir.Compare) error {
	info, err := fc.target.Type(v.X.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	if err = fc.Load(v.X); err != nil {
		return err
	}
	if err = fc.Load(v.Y); err != nil {
		return err
	}

	rel := v.Rel.String()
	switch {
	case len(info.Compare) > 0:
		// Reduce the operands to -1, 0 or 1 first. NaN must make ordered
		// comparisons false.
		compare := info.Compare
		if (v.Rel == ir.RelLt || v.Rel == ir.RelLe) && len(info.CompareLess) > 0 {
			compare = info.CompareLess
		}
		fc.emit(compare)
	case v.X.Repr() == ir.ReprRef && v.Rel != ir.RelEq && v.Rel != ir.RelNe:
		return fmt.Errorf("%w: ordered comparison of references", ErrUnsupportedInstruction)
	case len(info.Branch) == 0:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
	}

	trueLabel, doneLabel := fc.lowerer.Labels().Pair("cmp")
	fc.emit(info.Branch+rel, trueLabel)
	if err = fc.loadConst(ir.IntConst(ir.ReprInt, 0)); err != nil {
		return err
	}
	fc.emit(fc.target.Control.Goto, doneLabel)
	fc.stream.Label(trueLabel)
	if err = fc.loadConst(ir.IntConst(ir.ReprInt, 1)); err != nil {
		return err
	}
	fc.stream.Label(doneLabel)

	return fc.Store(v)
}

func (fc *funcCompiler) createConvert(v *ir.Convert) error {
	if err := fc.Load(v.X); err != nil {
		return err
	}

	from, to := v.X.Repr().Scalar(), v.Repr().Scalar()
	if from != to {
		info, err := fc.target.Type(from)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		mnemonic, ok := info.Convert[to.String()]
		if !ok {
			return fmt.Errorf("%w: conversion from %s to %s", ErrUnsupportedInstruction, from, to)
		}
		fc.emit(mnemonic)
	}

	if len(v.Narrow) > 0 {
		info, err := fc.target.Type(to)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		sequence, ok := info.Narrow[v.Narrow]
		if !ok {
			return fmt.Errorf("%w: narrowing %s to %s", ErrUnsupportedInstruction, to, v.Narrow)
		}
		for _, line := range sequence {
			fields := strings.Fields(line)
			fc.emit(fields[0], fields[1:]...)
		}
	}

	return fc.Store(v)
}
