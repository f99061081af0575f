package builder

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"omibyte.io/stackc/ir"
)

var relations = map[token.Token]ir.Relation{
	token.EQL: ir.RelEq,
	token.NEQ: ir.RelNe,
	token.LSS: ir.RelLt,
	token.LEQ: ir.RelLe,
	token.GTR: ir.RelGt,
	token.GEQ: ir.RelGe,
}

var binOps = map[token.Token]ir.Op{
	token.ADD:     ir.OpAdd,
	token.SUB:     ir.OpSub,
	token.MUL:     ir.OpMul,
	token.QUO:     ir.OpDiv,
	token.REM:     ir.OpRem,
	token.AND:     ir.OpAnd,
	token.OR:      ir.OpOr,
	token.XOR:     ir.OpXor,
	token.SHL:     ir.OpShl,
	token.SHR:     ir.OpShr,
	token.AND_NOT: ir.OpAndNot,
}

type translator struct {
	fn      *ssa.Function
	out     *ir.Func
	blocks  map[*ssa.BasicBlock]*ir.Block
	values  map[ssa.Value]ir.Value
	plans   map[*ssa.BasicBlock]*switchPlan
	dropped map[*ssa.BasicBlock]bool
}

// Translate converts the SSA form of fn into the IR consumed by the
// compiler. When recoverSwitches is set, chains of equality tests against
// one value become a single switch where that is safe.
func Translate(fn *ssa.Function, recoverSwitches bool) (*ir.Func, error) {
	switch {
	case fn.Blocks == nil:
		return nil, fmt.Errorf("%w: %s has no body", ErrUnsupported, fn.Name())
	case fn.Signature.Recv() != nil:
		return nil, fmt.Errorf("%w: method %s", ErrUnsupported, fn.Name())
	case len(fn.FreeVars) > 0:
		return nil, fmt.Errorf("%w: closure %s", ErrUnsupported, fn.Name())
	case fn.Signature.TypeParams().Len() > 0:
		return nil, fmt.Errorf("%w: generic function %s", ErrUnsupported, fn.Name())
	case fn.Recover != nil:
		return nil, fmt.Errorf("%w: %s recovers from panics", ErrUnsupported, fn.Name())
	}

	result, err := resultInfo(fn.Signature)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	t := &translator{
		fn:     fn,
		out:    ir.NewFunc(fn.Name(), result.repr),
		blocks: map[*ssa.BasicBlock]*ir.Block{},
		values: map[ssa.Value]ir.Value{},
	}
	if recoverSwitches {
		t.plans, t.dropped = findSwitches(fn)
	}

	if err = t.translate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return t.out, nil
}

func (t *translator) translate() error {
	for _, param := range t.fn.Params {
		info, err := typeInfoOf(param.Type())
		if err != nil {
			return err
		}
		t.values[param] = t.out.NewParam(param.Name(), info.repr)
	}

	// Create the blocks in source order along with their phis
	for _, b := range t.fn.Blocks {
		if t.dropped[b] {
			continue
		}
		block := t.out.NewBlock(b.Comment)
		t.blocks[b] = block

		for _, instr := range b.Instrs {
			phi, ok := instr.(*ssa.Phi)
			if !ok {
				break
			}
			info, err := typeInfoOf(phi.Type())
			if err != nil {
				return err
			}
			t.values[phi] = block.NewPhi(phi.Name(), info.repr)
		}
	}

	// Definitions dominate their uses so a preorder walk of the dominator
	// tree sees every operand before it is used.
	for _, b := range t.fn.DomPreorder() {
		if t.dropped[b] {
			continue
		}
		skip := map[ssa.Instruction]bool{}
		if plan, ok := t.plans[b]; ok {
			skip[plan.compare] = true
		}
		block := t.blocks[b]
		for _, instr := range b.Instrs[:len(b.Instrs)-1] {
			if _, ok := instr.(*ssa.Phi); ok || skip[instr] {
				continue
			}
			if err := t.createInstruction(block, instr); err != nil {
				return err
			}
		}
	}

	if err := t.connectPhis(); err != nil {
		return err
	}

	for _, b := range t.fn.Blocks {
		if t.dropped[b] {
			continue
		}
		if err := t.createTerminator(b); err != nil {
			return err
		}
	}
	return nil
}

// connectPhis fills in the incoming values of every phi. Edge copies are
// stored in phi order, so a phi reading an earlier phi of the same block
// would observe the new value. Such operands are copied in the
// predecessor first.
func (t *translator) connectPhis() error {
	type copyKey struct {
		pred *ssa.BasicBlock
		phi  *ssa.Phi
	}
	copies := map[copyKey]ir.Value{}

	for _, b := range t.fn.Blocks {
		if _, ok := t.blocks[b]; !ok {
			continue
		}

		stored := map[*ssa.Phi]bool{}
		for _, instr := range b.Instrs {
			phi, ok := instr.(*ssa.Phi)
			if !ok {
				break
			}

			out := t.values[phi].(*ir.Phi)
			for i, edge := range phi.Edges {
				pred := b.Preds[i]
				predBlock, ok := t.blocks[pred]
				if !ok {
					return fmt.Errorf("%w: phi %s has an edge from a removed block", ErrUnsupported, phi.Name())
				}

				v, err := t.value(edge)
				if err != nil {
					return err
				}

				if src, ok := edge.(*ssa.Phi); ok && stored[src] {
					key := copyKey{pred, src}
					if _, ok := copies[key]; !ok {
						copies[key] = predBlock.Convert(src.Name()+".copy", v.Repr(), v, "")
					}
					v = copies[key]
				}
				out.AddIncoming(predBlock, v)
			}
			stored[phi] = true
		}
	}
	return nil
}

func (t *translator) createInstruction(b *ir.Block, instr ssa.Instruction) error {
	switch instr := instr.(type) {
	case *ssa.DebugRef:
		return nil
	case *ssa.BinOp:
		return t.createBinOp(b, instr)
	case *ssa.UnOp:
		return t.createUnOp(b, instr)
	case *ssa.Convert:
		return t.createConvert(b, instr)
	case *ssa.ChangeType:
		x, err := t.value(instr.X)
		if err != nil {
			return err
		}
		t.values[instr] = x
		return nil
	case *ssa.Call:
		return t.createCall(b, instr)
	}
	return fmt.Errorf("%w: %T %s", ErrUnsupported, instr, instr)
}

func (t *translator) createTerminator(b *ssa.BasicBlock) error {
	block := t.blocks[b]
	if plan, ok := t.plans[b]; ok {
		return t.createSwitch(block, plan)
	}

	switch instr := b.Instrs[len(b.Instrs)-1].(type) {
	case *ssa.Jump:
		block.Jump(t.blocks[b.Succs[0]])
	case *ssa.If:
		cond, err := t.value(instr.Cond)
		if err != nil {
			return err
		}
		block.If(cond, t.blocks[b.Succs[0]], t.blocks[b.Succs[1]])
	case *ssa.Return:
		results := make([]ir.Value, len(instr.Results))
		for i, result := range instr.Results {
			v, err := t.value(result)
			if err != nil {
				return err
			}
			results[i] = v
		}
		block.Return(results...)
	case *ssa.Panic:
		block.Unreachable()
	default:
		return fmt.Errorf("%w: %T %s", ErrUnsupported, instr, instr)
	}
	return nil
}

func (t *translator) createSwitch(block *ir.Block, plan *switchPlan) error {
	cond, err := t.value(plan.x)
	if err != nil {
		return err
	}

	cases := make([]ir.Case, len(plan.cases))
	for i, c := range plan.cases {
		key, _ := constant.Int64Val(constant.ToInt(c.Value.Value))
		cases[i] = ir.Case{Value: key, Target: t.blocks[c.Body]}
	}
	block.Switch(cond, t.blocks[plan.deflt], cases...)
	return nil
}

func (t *translator) value(v ssa.Value) (ir.Value, error) {
	if out, ok := t.values[v]; ok {
		return out, nil
	}
	if c, ok := v.(*ssa.Const); ok {
		return constValue(c)
	}
	return nil, fmt.Errorf("%w: value %s of kind %T", ErrUnsupported, v.Name(), v)
}

func constValue(c *ssa.Const) (ir.Value, error) {
	info, err := typeInfoOf(c.Type())
	if err != nil {
		return nil, err
	}

	if c.Value == nil {
		switch T := c.Type().Underlying().(type) {
		case *types.Array:
			return &ir.ZeroVector{Lanes: int(T.Len())}, nil
		case *types.Struct:
			return &ir.AggregateZero{Typ: ir.ReprRef}, nil
		}
		return &ir.Const{Typ: info.repr}, nil
	}

	switch {
	case c.Value.Kind() == constant.Bool:
		if constant.BoolVal(c.Value) {
			return ir.IntConst(info.repr, 1), nil
		}
		return ir.IntConst(info.repr, 0), nil
	case info.text:
		return &ir.Const{Typ: ir.ReprRef, Str: constant.StringVal(c.Value), IsText: true}, nil
	case info.repr == ir.ReprFloat || info.repr == ir.ReprDouble:
		return ir.FloatConst(info.repr, c.Float64()), nil
	case info.unsigned:
		u, _ := constant.Uint64Val(constant.ToInt(c.Value))
		if info.repr == ir.ReprInt {
			return ir.IntConst(info.repr, int64(int32(u))), nil
		}
		return ir.IntConst(info.repr, int64(u)), nil
	case info.integer():
		return ir.IntConst(info.repr, c.Int64()), nil
	}
	return nil, fmt.Errorf("%w: constant %s", ErrUnsupported, c)
}
