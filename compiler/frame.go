package compiler

import (
	"fmt"

	"omibyte.io/stackc/ir"
	"omibyte.io/stackc/targets"
)

// baseStack is the deepest operand stack any single instruction lowering
// needs, apart from calls: two operands of two slots each.
const baseStack = 4

// frame maps values to local variable slots.
type frame struct {
	slots  map[ir.Value]int
	locals int
	stack  int
}

// newFrame assigns slots to the parameters first, in order, and then to
// every phi and value-producing instruction in block order.
func newFrame(target targets.TargetInfo, fn *ir.Func) (*frame, error) {
	f := &frame{
		slots: map[ir.Value]int{},
		stack: baseStack,
	}

	for _, p := range fn.Params {
		if err := f.allocate(target, p); err != nil {
			return nil, err
		}
	}

	for _, b := range fn.Blocks {
		for _, phi := range b.Phis {
			if err := f.allocate(target, phi); err != nil {
				return nil, err
			}
		}

		for _, instr := range b.Instrs {
			if call, ok := instr.(*ir.Call); ok {
				// All arguments are on the stack at once
				depth := 0
				for _, arg := range call.Args {
					info, err := target.Type(arg.Repr())
					if err != nil {
						return nil, fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
					}
					depth += info.Slots
				}
				if depth > f.stack {
					f.stack = depth
				}
			}

			if v, ok := instr.(ir.Value); ok && v.Repr() != ir.ReprVoid {
				if err := f.allocate(target, v); err != nil {
					return nil, err
				}
			}
		}
	}

	return f, nil
}

func (f *frame) allocate(target targets.TargetInfo, v ir.Value) error {
	info, err := target.Type(v.Repr())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	f.slots[v] = f.locals
	f.locals += info.Slots
	return nil
}

// slot returns the slot assigned to v.
func (f *frame) slot(v ir.Value) (int, bool) {
	slot, ok := f.slots[v]
	return slot, ok
}
