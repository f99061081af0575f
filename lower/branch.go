package lower

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

// Jump resolves the edge from src to dest and jumps to dest.
func (l *Lowerer) Jump(src, dest *ir.Block) error {
	if err := l.ResolveEdge(src, dest); err != nil {
		return err
	}
	l.emitter.Instr(l.mnemonics.Goto, l.Label(dest))
	return nil
}

// CondJump lowers a two-way branch whose condition is already on the
// stack. A nil falseDest means the false edge falls through to the next
// block.
//
// The fallthrough form resolves the true edge before testing the
// condition. The true successor of a fallthrough branch must not have phis.
func (l *Lowerer) CondJump(src, trueDest, falseDest *ir.Block) error {
	// Both edges lead to the same block.
	if trueDest == falseDest {
		l.emitter.Instr(l.mnemonics.Pop)
		return l.Jump(src, trueDest)
	}

	if falseDest == nil {
		if err := l.ResolveEdge(src, trueDest); err != nil {
			return err
		}
		l.emitter.Instr(l.mnemonics.IfNonZero, l.Label(trueDest))
		return nil
	}

	// The copies for the true edge cannot run before the test. Route the
	// taken branch through a detour label that performs them.
	target := l.Label(trueDest)
	detour := trueDest.HasPhis()
	if detour {
		target = l.labels.Phi(target)
	}
	l.emitter.Instr(l.mnemonics.IfNonZero, target)

	if falseDest.HasPhis() {
		if err := l.ResolveEdge(src, falseDest); err != nil {
			return err
		}
	}
	l.emitter.Instr(l.mnemonics.Goto, l.Label(falseDest))

	if detour {
		l.emitter.Label(target)
		if err := l.ResolveEdge(src, trueDest); err != nil {
			return err
		}
		l.emitter.Instr(l.mnemonics.Goto, l.Label(trueDest))
	}
	return nil
}

// Branch lowers a jump or two-way branch terminator.
func (l *Lowerer) Branch(term ir.Instruction) error {
	switch term := term.(type) {
	case *ir.Jump:
		return l.Jump(term.Block(), term.Target)
	case *ir.If:
		if err := l.values.Load(term.Cond); err != nil {
			return err
		}
		return l.CondJump(term.Block(), term.Then, term.Else)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTerminator, term)
	}
}

// Select leaves sel.True on the stack when sel.Cond is non-zero and
// sel.False otherwise.
func (l *Lowerer) Select(sel *ir.Select) error {
	falseLabel, doneLabel := l.labels.Pair("select")

	if err := l.values.Load(sel.Cond); err != nil {
		return err
	}
	l.emitter.Instr(l.mnemonics.IfZero, falseLabel)

	if err := l.values.Load(sel.True); err != nil {
		return err
	}
	l.emitter.Instr(l.mnemonics.Goto, doneLabel)

	l.emitter.Label(falseLabel)
	if err := l.values.Load(sel.False); err != nil {
		return err
	}
	l.emitter.Label(doneLabel)
	return nil
}
