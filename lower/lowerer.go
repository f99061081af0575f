package lower

import (
	"fmt"

	"omibyte.io/stackc/ir"
)

// Emitter receives the lowered instruction stream in order.
type Emitter interface {
	// Label defines a label at the current position.
	Label(name string)

	// Instr appends one instruction.
	Instr(mnemonic string, operands ...string)

	// Dispatch appends a multi-way jump table.
	Dispatch(mnemonic string, entries []DispatchEntry, defaultLabel string)
}

// DispatchEntry is one key of a dispatch table.
type DispatchEntry struct {
	Key   int64
	Label string
}

// ValueAccess moves values between the operand stack and their slots.
type ValueAccess interface {
	// Load pushes the current value of v.
	Load(v ir.Value) error

	// Store pops the top of the stack into the slot backing v.
	Store(v ir.Value) error
}

// LabelNamer derives the label of a block.
type LabelNamer interface {
	BlockLabel(b *ir.Block) string
}

// BlockEmitter lowers the instructions of one block, terminator included.
// The block label is emitted by the caller.
type BlockEmitter interface {
	EmitBlock(b *ir.Block) error
}

// Mnemonics names the machine instructions the lowering emits.
type Mnemonics struct {
	Goto      string
	IfNonZero string
	IfZero    string
	Pop       string
	Dispatch  string

	// Zero maps a scalar representation to the instruction pushing its zero.
	Zero map[ir.Repr]string
}

// Config holds the collaborators of a Lowerer.
type Config struct {
	Emitter   Emitter
	Values    ValueAccess
	Namer     LabelNamer
	Labels    *Labels
	Mnemonics Mnemonics
}

// Lowerer translates phi nodes, branches, selects and switches into
// label based jump sequences.
type Lowerer struct {
	emitter   Emitter
	values    ValueAccess
	namer     LabelNamer
	labels    *Labels
	mnemonics Mnemonics
}

// NewLowerer checks the configuration and returns a Lowerer using it.
func NewLowerer(config Config) (*Lowerer, error) {
	switch {
	case config.Emitter == nil:
		return nil, fmt.Errorf("%w: emitter", ErrMissingCollaborator)
	case config.Values == nil:
		return nil, fmt.Errorf("%w: value access", ErrMissingCollaborator)
	case config.Namer == nil:
		return nil, fmt.Errorf("%w: label namer", ErrMissingCollaborator)
	case config.Labels == nil:
		return nil, fmt.Errorf("%w: label counter", ErrMissingCollaborator)
	}

	for name, mnemonic := range map[string]string{
		"goto":      config.Mnemonics.Goto,
		"ifNonZero": config.Mnemonics.IfNonZero,
		"ifZero":    config.Mnemonics.IfZero,
		"pop":       config.Mnemonics.Pop,
		"dispatch":  config.Mnemonics.Dispatch,
	} {
		if len(mnemonic) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingMnemonic, name)
		}
	}

	return &Lowerer{
		emitter:   config.Emitter,
		values:    config.Values,
		namer:     config.Namer,
		labels:    config.Labels,
		mnemonics: config.Mnemonics,
	}, nil
}

// Label returns the label of b.
func (l *Lowerer) Label(b *ir.Block) string {
	return l.namer.BlockLabel(b)
}

// Emitter returns the emitter the lowerer writes to.
func (l *Lowerer) Emitter() Emitter {
	return l.emitter
}

// Labels returns the synthetic label counter.
func (l *Lowerer) Labels() *Labels {
	return l.labels
}
