package compiler

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

func (fc *funcCompiler) createUnOp(v *ir.UnOp) error {
	info, err := fc.target.Type(v.X.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	if err = fc.Load(v.X); err != nil {
		return err
	}

	switch v.Op {
	case ir.OpNeg:
		if !info.Supports(ir.OpNeg) {
			return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
		}
		fc.emit(info.Prefix + "neg")
	case ir.OpNot:
		// Booleans are 0 or 1
		if err = fc.loadConst(ir.IntConst(ir.ReprInt, 1)); err != nil {
			return err
		}
		fc.emit(info.Prefix + ir.OpXor.String())
	case ir.OpComplement:
		if !info.Supports(ir.OpXor) {
			return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
		}
		if err = fc.loadConst(ir.IntConst(v.X.Repr(), -1)); err != nil {
			return err
		}
		fc.emit(info.Prefix + ir.OpXor.String())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, v)
	}

	return fc.Store(v)
}
