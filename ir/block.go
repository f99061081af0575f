package ir

import (
	"fmt"
)

// Func is a function in SSA form.
type Func struct {
	Name   string
	Params []*Param
	Result Repr
	Blocks []*Block

	nextValue int
}

// NewFunc creates an empty function.
func NewFunc(name string, result Repr) *Func {
	return &Func{
		Name:   name,
		Result: result,
	}
}

// NewParam appends a parameter to the function.
func (f *Func) NewParam(name string, typ Repr) *Param {
	p := &Param{
		name:  name,
		Index: len(f.Params),
		Typ:   typ,
	}
	f.Params = append(f.Params, p)
	return p
}

// NewBlock appends a block to the function. Blocks are numbered in
// creation order.
func (f *Func) NewBlock(comment string) *Block {
	b := &Block{
		Index:   len(f.Blocks),
		Comment: comment,
		parent:  f,
	}
	f.Blocks = append(f.Blocks, b)
	return b
}

// Entry returns the entry block, or nil for a function without a body.
func (f *Func) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

func (f *Func) valueName(name string) string {
	if len(name) > 0 {
		return name
	}
	name = fmt.Sprintf("t%d", f.nextValue)
	f.nextValue++
	return name
}

// Block is a basic block. Phi nodes are kept apart from the other
// instructions and always execute first.
type Block struct {
	Index   int
	Comment string
	Phis    []*Phi
	Instrs  []Instruction
	Preds   []*Block
	Succs   []*Block

	parent *Func
}

func (b *Block) String() string {
	if len(b.Comment) > 0 {
		return fmt.Sprintf("%d.%s", b.Index, b.Comment)
	}
	return fmt.Sprintf("%d", b.Index)
}

// Parent returns the function the block belongs to.
func (b *Block) Parent() *Func {
	return b.parent
}

// HasPhis reports whether the block begins with phi nodes.
func (b *Block) HasPhis() bool {
	return len(b.Phis) > 0
}

// Terminator returns the last instruction of the block if it is a
// terminator.
func (b *Block) Terminator() Instruction {
	if len(b.Instrs) == 0 {
		return nil
	}
	if last := b.Instrs[len(b.Instrs)-1]; IsTerminator(last) {
		return last
	}
	return nil
}

// NewPhi appends a phi node to the block.
func (b *Block) NewPhi(name string, typ Repr) *Phi {
	phi := &Phi{
		name:  b.parent.valueName(name),
		Typ:   typ,
		block: b,
	}
	b.Phis = append(b.Phis, phi)
	return phi
}

func (b *Block) append(instr Instruction) {
	if b.Terminator() != nil {
		panic(fmt.Sprintf("ir: block %s is already terminated", b))
	}
	instr.setBlock(b)
	b.Instrs = append(b.Instrs, instr)
}

func (b *Block) newRegister(name string, typ Repr) register {
	return register{
		name: b.parent.valueName(name),
		typ:  typ,
	}
}

// BinOp appends a binary operation.
func (b *Block) BinOp(name string, op Op, x, y Value) *BinOp {
	v := &BinOp{register: b.newRegister(name, x.Repr()), Op: op, X: x, Y: y}
	b.append(v)
	return v
}

// UnOp appends a unary operation.
func (b *Block) UnOp(name string, op Op, x Value) *UnOp {
	v := &UnOp{register: b.newRegister(name, x.Repr()), Op: op, X: x}
	b.append(v)
	return v
}

// Compare appends a comparison. The result is an int.
func (b *Block) Compare(name string, rel Relation, x, y Value) *Compare {
	v := &Compare{register: b.newRegister(name, ReprInt), Rel: rel, X: x, Y: y}
	b.append(v)
	return v
}

// Convert appends a representation change.
func (b *Block) Convert(name string, typ Repr, x Value, narrow string) *Convert {
	v := &Convert{register: b.newRegister(name, typ), X: x, Narrow: narrow}
	b.append(v)
	return v
}

// Select appends a ternary select.
func (b *Block) Select(name string, cond, t, f Value) *Select {
	v := &Select{register: b.newRegister(name, t.Repr()), Cond: cond, True: t, False: f}
	b.append(v)
	return v
}

// Call appends a call. A result of ReprVoid means the call yields nothing.
func (b *Block) Call(name string, result Repr, callee string, args ...Value) *Call {
	v := &Call{register: b.newRegister(name, result), Callee: callee, Args: args}
	b.append(v)
	return v
}

// Jump terminates the block with an unconditional jump.
func (b *Block) Jump(target *Block) *Jump {
	t := &Jump{Target: target}
	b.append(t)
	addEdge(b, target)
	return t
}

// If terminates the block with a two-way branch.
func (b *Block) If(cond Value, then, els *Block) *If {
	t := &If{Cond: cond, Then: then, Else: els}
	b.append(t)
	addEdge(b, then)
	addEdge(b, els)
	return t
}

// Switch terminates the block with a multi-way dispatch.
func (b *Block) Switch(cond Value, def *Block, cases ...Case) *Switch {
	t := &Switch{Cond: cond, Cases: cases, Default: def}
	b.append(t)
	addEdge(b, def)
	for _, c := range cases {
		addEdge(b, c.Target)
	}
	return t
}

// Return terminates the block with a return.
func (b *Block) Return(results ...Value) *Return {
	t := &Return{Results: results}
	b.append(t)
	return t
}

// Unreachable terminates the block with an unreachable marker.
func (b *Block) Unreachable() *Unreachable {
	t := &Unreachable{}
	b.append(t)
	return t
}

func addEdge(from, to *Block) {
	for _, succ := range from.Succs {
		if succ == to {
			return
		}
	}
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// Phi merges the values flowing in from each predecessor.
type Phi struct {
	name  string
	Typ   Repr
	Edges []PhiEdge

	block *Block
}

// PhiEdge is the value a phi takes when control arrives from Pred.
type PhiEdge struct {
	Pred  *Block
	Value Value
}

func (p *Phi) Name() string { return p.name }
func (p *Phi) Repr() Repr   { return p.Typ }
func (p *Phi) isValue()     {}

// Block returns the block owning the phi.
func (p *Phi) Block() *Block { return p.block }

// AddIncoming records the value flowing in from pred.
func (p *Phi) AddIncoming(pred *Block, v Value) *Phi {
	p.Edges = append(p.Edges, PhiEdge{Pred: pred, Value: v})
	return p
}

// Incoming returns the value flowing in from pred.
func (p *Phi) Incoming(pred *Block) (Value, bool) {
	for _, edge := range p.Edges {
		if edge.Pred == pred {
			return edge.Value, true
		}
	}
	return nil, false
}

func (p *Phi) String() string {
	s := fmt.Sprintf("%s = phi %s", p.name, p.Typ)
	for i, edge := range p.Edges {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(" [%s: %s]", edge.Pred, edge.Value.Name())
	}
	return s
}
