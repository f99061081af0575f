package builder

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"omibyte.io/stackc/ir"
)

func (t *translator) createBinOp(b *ir.Block, v *ssa.BinOp) error {
	x, err := t.value(v.X)
	if err != nil {
		return err
	}
	y, err := t.value(v.Y)
	if err != nil {
		return err
	}

	info, err := typeInfoOf(v.X.Type())
	if err != nil {
		return err
	}
	if info.text {
		return fmt.Errorf("%w: string operation %s", ErrUnsupported, v)
	}
	switch v.X.Type().Underlying().(type) {
	case *types.Array, *types.Struct, *types.Interface:
		return fmt.Errorf("%w: aggregate comparison %s", ErrUnsupported, v)
	}

	if rel, ok := relations[v.Op]; ok {
		// Sub-word unsigned values are held zero-extended.
		if info.unsigned && info.narrow == "" && rel != ir.RelEq && rel != ir.RelNe {
			return fmt.Errorf("%w: unsigned comparison %s", ErrUnsupported, v)
		}
		t.values[v] = b.Compare(v.Name(), rel, x, y)
		return nil
	}

	op, ok := binOps[v.Op]
	if !ok {
		return fmt.Errorf("%w: operator %s", ErrUnsupported, v.Op)
	}
	if info.unsigned {
		switch op {
		case ir.OpDiv, ir.OpRem:
			return fmt.Errorf("%w: unsigned division %s", ErrUnsupported, v)
		case ir.OpShr:
			op = ir.OpUShr
		}
	}

	if op.IsShift() {
		res, err := t.createShift(b, v, op, x, y, info)
		if err != nil {
			return err
		}
		if op == ir.OpShl {
			res = t.narrow(b, v, res, info)
		}
		t.values[v] = res
		return nil
	}

	switch op {
	case ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpAndNot:
		// The result stays within the range of the operands.
		t.values[v] = b.BinOp(v.Name(), op, x, y)
	default:
		t.values[v] = t.narrow(b, v, b.BinOp(wideName(v, info), op, x, y), info)
	}
	return nil
}

// createShift yields zero, or the sign fill of a signed right shift, for
// counts of at least the operand width. The machine masks the count instead.
// Negative counts also select the fill.
func (t *translator) createShift(b *ir.Block, v *ssa.BinOp, op ir.Op, x, y ir.Value, info typeInfo) (ir.Value, error) {
	name := v.Name()
	if op == ir.OpShl {
		name = wideName(v, info)
	}

	width, bits := int64(32), int64(5)
	if x.Repr() == ir.ReprLong {
		width, bits = 64, 6
	}

	fill := func(name string) ir.Value {
		if op == ir.OpShr {
			return b.BinOp(name, ir.OpShr, x, ir.IntConst(ir.ReprInt, width-1))
		}
		return ir.IntConst(x.Repr(), 0)
	}

	if c, ok := v.Y.(*ssa.Const); ok {
		count, exact := constant.Uint64Val(constant.ToInt(c.Value))
		if !exact {
			return nil, fmt.Errorf("%w: shift count %s", ErrUnsupported, c)
		}
		if count < uint64(width) {
			return b.BinOp(name, op, x, y), nil
		}
		return fill(name), nil
	}

	shifted := b.BinOp(name+".shift", op, x, y)
	filled := fill(name + ".fill")
	high := b.BinOp(name+".high", ir.OpUShr, y, ir.IntConst(ir.ReprInt, bits))
	inRange := b.Compare(name+".ok", ir.RelEq, high, ir.IntConst(y.Repr(), 0))
	return b.Select(name, inRange, shifted, filled), nil
}

func (t *translator) createUnOp(b *ir.Block, v *ssa.UnOp) error {
	var op ir.Op
	switch v.Op {
	case token.SUB:
		op = ir.OpNeg
	case token.NOT:
		op = ir.OpNot
	case token.XOR:
		op = ir.OpComplement
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, v)
	}

	x, err := t.value(v.X)
	if err != nil {
		return err
	}
	info, err := typeInfoOf(v.X.Type())
	if err != nil {
		return err
	}

	t.values[v] = t.narrow(b, v, b.UnOp(wideName(v, info), op, x), info)
	return nil
}

func (t *translator) createConvert(b *ir.Block, v *ssa.Convert) error {
	from, err := typeInfoOf(v.X.Type())
	if err != nil {
		return err
	}
	to, err := typeInfoOf(v.Type())
	if err != nil {
		return err
	}

	floating := func(info typeInfo) bool {
		return info.repr == ir.ReprFloat || info.repr == ir.ReprDouble
	}
	switch {
	case from.text || to.text:
		return fmt.Errorf("%w: string conversion %s", ErrUnsupported, v)
	case !from.integer() && !floating(from), !to.integer() && !floating(to):
		return fmt.Errorf("%w: conversion %s", ErrUnsupported, v)
	case from.unsigned && from.narrow == "" && (floating(to) || from.repr == ir.ReprInt && to.repr == ir.ReprLong):
		// Only sign extension is available.
		return fmt.Errorf("%w: unsigned widening %s", ErrUnsupported, v)
	case to.unsigned && floating(from):
		return fmt.Errorf("%w: conversion to unsigned %s", ErrUnsupported, v)
	}

	x, err := t.value(v.X)
	if err != nil {
		return err
	}

	narrow := ""
	if to.narrow != from.narrow {
		narrow = to.narrow
	}
	if from.repr == to.repr && narrow == "" {
		// Reinterpretation
		t.values[v] = x
		return nil
	}
	t.values[v] = b.Convert(v.Name(), to.repr, x, narrow)
	return nil
}

func (t *translator) createCall(b *ir.Block, v *ssa.Call) error {
	if v.Call.IsInvoke() {
		return fmt.Errorf("%w: interface call %s", ErrUnsupported, v)
	}

	// Only plain functions of the same package map onto static methods of
	// the same class.
	callee := v.Call.StaticCallee()
	if callee == nil || callee.Pkg != t.fn.Pkg || callee.Signature.Recv() != nil || len(callee.FreeVars) > 0 {
		return fmt.Errorf("%w: call %s", ErrUnsupported, v)
	}

	result, err := resultInfo(callee.Signature)
	if err != nil {
		return err
	}

	args := make([]ir.Value, len(v.Call.Args))
	for i, arg := range v.Call.Args {
		if args[i], err = t.value(arg); err != nil {
			return err
		}
	}

	call := b.Call(v.Name(), result.repr, callee.Name(), args...)
	if result.repr != ir.ReprVoid {
		t.values[v] = call
	}
	return nil
}

// narrow truncates a sub-word result back into the range of its type.
func (t *translator) narrow(b *ir.Block, v ssa.Value, wide ir.Value, info typeInfo) ir.Value {
	if len(info.narrow) == 0 {
		return wide
	}
	return b.Convert(v.Name(), info.repr, wide, info.narrow)
}

func wideName(v ssa.Value, info typeInfo) string {
	if len(info.narrow) == 0 {
		return v.Name()
	}
	return v.Name() + ".wide"
}
