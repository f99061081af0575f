package compiler

import (
	"context"
	"fmt"
	"strings"

	"omibyte.io/stackc/analysis"
	"omibyte.io/stackc/asm"
	"omibyte.io/stackc/ir"
	"omibyte.io/stackc/lower"
	"omibyte.io/stackc/targets"
)

// Compiler compiles the functions of one class. All functions of the class
// share one synthetic label counter.
type Compiler struct {
	options Options
	target  targets.TargetInfo
	labels  lower.Labels
}

func NewCompiler(options Options) (*Compiler, error) {
	// Look up the machine description
	target, err := targets.All().FindByName(options.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownTarget, err)
	}

	return &Compiler{
		options: options,
		target:  target,
	}, nil
}

func (c *Compiler) Target() targets.TargetInfo {
	return c.target
}

// CompileClass compiles every function into a single class. The first
// failing function aborts the compilation.
func (c *Compiler) CompileClass(ctx context.Context, funcs []*ir.Func) (*asm.Class, error) {
	c.println(Info, "compiling class", c.options.Class)
	class := asm.NewClass(c.options.Class)
	if len(c.target.Super) > 0 {
		class.Super = c.target.Super
	}

	for _, fn := range funcs {
		method, err := c.CompileFunc(ctx, fn)
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, method)
	}
	return class, nil
}

// CompileFunc lowers fn into a static method.
func (c *Compiler) CompileFunc(ctx context.Context, fn *ir.Func) (*asm.Method, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.printf(Debug, "compiling %s.%s\n", c.options.Class, fn.Name)

	// Compute the loop nest
	info, err := analysis.Loops(fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}

	// Assign the frame slots
	frame, err := newFrame(c.target, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}

	descriptor, err := c.Descriptor(fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}

	fc := &funcCompiler{
		Compiler: c,
		fn:       fn,
		frame:    frame,
		stream:   &asm.Stream{},
	}

	// Create the lowering for this function
	fc.lowerer, err = lower.NewLowerer(lower.Config{
		Emitter:   fc.stream,
		Values:    fc,
		Namer:     asm.NewBlockLabels(c.options.Class + "." + fn.Name),
		Labels:    &c.labels,
		Mnemonics: c.target.Mnemonics(),
	})
	if err != nil {
		return nil, err
	}

	emitter, err := lower.NewLoopEmitter(fc.lowerer, info, fc)
	if err != nil {
		return nil, err
	}

	// Phi slots may be read on paths where no value was copied into them.
	// Give them a defined value up front.
	if err = fc.prologue(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}

	if err = emitter.EmitFunc(fn); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}

	c.printf(Debug, "compiled %s.%s: %d records, %d locals\n", c.options.Class, fn.Name, fc.stream.Len(), frame.locals)

	return &asm.Method{
		Name:       fn.Name,
		Descriptor: descriptor,
		Locals:     frame.locals,
		Stack:      frame.stack,
		Code:       fc.stream,
	}, nil
}

// Descriptor returns the method descriptor of fn.
func (c *Compiler) Descriptor(fn *ir.Func) (string, error) {
	params := make([]ir.Repr, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Typ
	}
	return c.descriptor(params, fn.Result)
}

func (c *Compiler) descriptor(params []ir.Repr, result ir.Repr) (string, error) {
	var sb strings.Builder
	sb.WriteString("(")
	for _, param := range params {
		info, err := c.target.Type(param)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
		}
		sb.WriteString(info.Descriptor)
	}
	sb.WriteString(")")

	info, err := c.target.Type(result)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	sb.WriteString(info.Descriptor)
	return sb.String(), nil
}

// funcCompiler holds the state of the function being compiled. It provides
// the value access and block lowering for the core lowering.
type funcCompiler struct {
	*Compiler
	fn      *ir.Func
	frame   *frame
	stream  *asm.Stream
	lowerer *lower.Lowerer
}

func (fc *funcCompiler) emit(mnemonic string, operands ...string) {
	fc.stream.Instr(mnemonic, operands...)
}

func (fc *funcCompiler) prologue() error {
	for _, b := range fc.fn.Blocks {
		for _, phi := range b.Phis {
			if err := fc.loadZero(phi.Repr()); err != nil {
				return err
			}
			if err := fc.Store(phi); err != nil {
				return err
			}
		}
	}
	return nil
}
