package lower

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

// ResolveEdge emits the copies realizing every phi of dest for control
// arriving from src. The copies are emitted in phi declaration order and
// must run before the jump taking the edge.
func (l *Lowerer) ResolveEdge(src, dest *ir.Block) error {
	for _, phi := range dest.Phis {
		incoming, ok := phi.Incoming(src)
		if !ok {
			return fmt.Errorf("%w: phi %s in block %s has no value for predecessor %s",
				ErrInvariantViolation, phi.Name(), dest, src)
		}

		switch ir.Classify(incoming) {
		case ir.ClassUndef:
			// Any value will do.
			continue
		case ir.ClassZeroVector, ir.ClassAggregateZero:
			// Vectors have no native form. Both zero forms are narrowed to the
			// zero of the scalar representation.
			zero, ok := l.mnemonics.Zero[phi.Repr().Scalar()]
			if !ok {
				return fmt.Errorf("%w: zero of %s", ErrMissingMnemonic, phi.Repr().Scalar())
			}
			l.emitter.Instr(zero)
		case ir.ClassDefined:
			if err := l.values.Load(incoming); err != nil {
				return err
			}
		}

		if err := l.values.Store(phi); err != nil {
			return err
		}
	}
	return nil
}
