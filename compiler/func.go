package compiler

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

// EmitBlock lowers the instructions of b in order, terminator included.
func (fc *funcCompiler) EmitBlock(b *ir.Block) error {
	for _, instr := range b.Instrs {
		if err := fc.createInstruction(instr); err != nil {
			return fmt.Errorf("block %s: %w", b, err)
		}
	}
	return nil
}

func (fc *funcCompiler) createInstruction(instr ir.Instruction) error {
	switch instr := instr.(type) {
	case *ir.BinOp:
		return fc.createBinOp(instr)
	case *ir.UnOp:
		return fc.createUnOp(instr)
	case *ir.Compare:
		return fc.createCompare(instr)
	case *ir.Convert:
		return fc.createConvert(instr)
	case *ir.Select:
		if err := fc.lowerer.Select(instr); err != nil {
			return err
		}
		return fc.Store(instr)
	case *ir.Call:
		return fc.createCall(instr)
	case *ir.Jump, *ir.If:
		return fc.lowerer.Branch(instr)
	case *ir.Switch:
		return fc.lowerer.Switch(instr)
	case *ir.Return:
		return fc.createReturn(instr)
	case *ir.Unreachable:
		for _, mnemonic := range fc.target.Control.Unreachable {
			fc.emit(mnemonic)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, instr)
	}
}

func (fc *funcCompiler) createCall(v *ir.Call) error {
	params := make([]ir.Repr, len(v.Args))
	for i, arg := range v.Args {
		if err := fc.Load(arg); err != nil {
			return err
		}
		params[i] = arg.Repr()
	}

	descriptor, err := fc.descriptor(params, v.Repr())
	if err != nil {
		return err
	}
	fc.emit(fc.target.Control.Invoke, fc.options.Class+"/"+v.Callee+descriptor)

	if v.Repr() == ir.ReprVoid {
		return nil
	}
	return fc.Store(v)
}

func (fc *funcCompiler) createReturn(v *ir.Return) error {
	switch len(v.Results) {
	case 0:
		fc.emit(fc.target.Control.Return)
		return nil
	case 1:
		info, err := fc.target.Type(fc.fn.Result)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		if err = fc.Load(v.Results[0]); err != nil {
			return err
		}
		fc.emit(info.Prefix + "return")
		return nil
	default:
		return fmt.Errorf("%w: %d results", ErrUnsupportedInstruction, len(v.Results))
	}
}
