package lower

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

// LoopEmitter emits the blocks of a function so that the body of every loop
// is contiguous and nested loops appear inside their parent.
type LoopEmitter struct {
	lowerer *Lowerer
	info    *ir.LoopInfo
	body    BlockEmitter
	emitted map[*ir.Block]bool
}

// NewLoopEmitter returns a loop emitter over the given loop nest. The loop
// nest is required.
func NewLoopEmitter(lowerer *Lowerer, info *ir.LoopInfo, body BlockEmitter) (*LoopEmitter, error) {
	if info == nil {
		return nil, ErrMissingLoopInfo
	}
	if lowerer == nil || body == nil {
		return nil, fmt.Errorf("%w: loop emitter", ErrMissingCollaborator)
	}
	return &LoopEmitter{
		lowerer: lowerer,
		info:    info,
		body:    body,
		emitted: map[*ir.Block]bool{},
	}, nil
}

// EmitLoop emits the header label, every member whose innermost loop is
// loop, the direct child loops in place of their headers and finally the
// jump back to the header.
func (e *LoopEmitter) EmitLoop(loop *ir.Loop) error {
	emitter := e.lowerer.Emitter()
	emitter.Label(e.lowerer.Label(loop.Header))

	for _, b := range loop.Blocks {
		inner := e.info.LoopFor(b)
		switch {
		case inner == loop:
			if b != loop.Header {
				emitter.Label(e.lowerer.Label(b))
			}
			if err := e.emitBlock(b); err != nil {
				return err
			}
		case inner != nil && inner.Header == b && inner.Parent == loop:
			if err := e.EmitLoop(inner); err != nil {
				return err
			}
		default:
			// Emitted by the loop nested deeper.
		}
	}

	emitter.Instr(e.lowerer.mnemonics.Goto, e.lowerer.Label(loop.Header))
	return nil
}

// EmitFunc emits every block of fn once. Blocks outside any loop are
// emitted in program order and the header of an outermost loop emits the
// whole loop.
func (e *LoopEmitter) EmitFunc(fn *ir.Func) error {
	e.emitted = map[*ir.Block]bool{}

	for _, b := range fn.Blocks {
		loop := e.info.LoopFor(b)
		switch {
		case loop == nil:
			e.lowerer.Emitter().Label(e.lowerer.Label(b))
			if err := e.emitBlock(b); err != nil {
				return err
			}
		case loop.Header == b && loop.Parent == nil:
			if err := e.EmitLoop(loop); err != nil {
				return err
			}
		}
	}

	// Every block must have been reached through the loop nest.
	for _, b := range fn.Blocks {
		if !e.emitted[b] {
			return fmt.Errorf("%w: block %s of %s was never emitted", ErrInvariantViolation, b, fn.Name)
		}
	}
	return nil
}

func (e *LoopEmitter) emitBlock(b *ir.Block) error {
	if e.emitted[b] {
		return fmt.Errorf("%w: block %s emitted twice", ErrInvariantViolation, b)
	}
	e.emitted[b] = true
	return e.body.EmitBlock(b)
}
