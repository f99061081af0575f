package ir

import (
	"fmt"
	"strings"
)

// Instruction is a member of a basic block.
type Instruction interface {
	Block() *Block
	String() string
	setBlock(b *Block)
}

type anInstruction struct {
	block *Block
}

func (i *anInstruction) Block() *Block     { return i.block }
func (i *anInstruction) setBlock(b *Block) { i.block = b }

// register is the common part of value-producing instructions.
type register struct {
	anInstruction
	name string
	typ  Repr
}

func (r *register) Name() string { return r.name }
func (r *register) Repr() Repr   { return r.typ }
func (r *register) isValue()     {}

// Op is an arithmetic or logical operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpUShr
	OpAndNot
	OpNeg
	OpNot
	OpComplement
)

var opNames = [...]string{
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpRem:        "rem",
	OpAnd:        "and",
	OpOr:         "or",
	OpXor:        "xor",
	OpShl:        "shl",
	OpShr:        "shr",
	OpUShr:       "ushr",
	OpAndNot:     "andnot",
	OpNeg:        "neg",
	OpNot:        "not",
	OpComplement: "compl",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// IsShift reports whether o takes a shift count as its second operand.
func (o Op) IsShift() bool {
	return o == OpShl || o == OpShr || o == OpUShr
}

// Relation is a comparison relation.
type Relation int

const (
	RelEq Relation = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

var relNames = [...]string{
	RelEq: "eq",
	RelNe: "ne",
	RelLt: "lt",
	RelLe: "le",
	RelGt: "gt",
	RelGe: "ge",
}

func (r Relation) String() string {
	if int(r) >= 0 && int(r) < len(relNames) {
		return relNames[r]
	}
	return fmt.Sprintf("rel(%d)", int(r))
}

// BinOp is a binary arithmetic or logical operation.
type BinOp struct {
	register
	Op   Op
	X, Y Value
}

func (v *BinOp) String() string {
	return fmt.Sprintf("%s = %s %s %s, %s", v.name, v.Op, v.typ, v.X.Name(), v.Y.Name())
}

// UnOp is a unary arithmetic or logical operation.
type UnOp struct {
	register
	Op Op
	X  Value
}

func (v *UnOp) String() string {
	return fmt.Sprintf("%s = %s %s %s", v.name, v.Op, v.typ, v.X.Name())
}

// Compare yields 1 when X Rel Y holds and 0 otherwise.
type Compare struct {
	register
	Rel  Relation
	X, Y Value
}

func (v *Compare) String() string {
	return fmt.Sprintf("%s = cmp %s %s %s, %s", v.name, v.Rel, v.X.Repr(), v.X.Name(), v.Y.Name())
}

// Convert changes the representation of X. Narrow optionally names a
// sub-word integer type the result is truncated to.
type Convert struct {
	register
	X      Value
	Narrow string
}

func (v *Convert) String() string {
	s := fmt.Sprintf("%s = convert %s %s to %s", v.name, v.X.Repr(), v.X.Name(), v.typ)
	if v.Narrow != "" {
		s += " (" + v.Narrow + ")"
	}
	return s
}

// Select yields True when Cond is non-zero and False otherwise.
type Select struct {
	register
	Cond, True, False Value
}

func (v *Select) String() string {
	return fmt.Sprintf("%s = select %s, %s, %s", v.name, v.Cond.Name(), v.True.Name(), v.False.Name())
}

// Call invokes a function of the same compilation unit.
type Call struct {
	register
	Callee string
	Args   []Value
}

func (v *Call) String() string {
	args := make([]string, len(v.Args))
	for i, arg := range v.Args {
		args[i] = arg.Name()
	}
	call := fmt.Sprintf("call %s(%s)", v.Callee, strings.Join(args, ", "))
	if v.typ == ReprVoid {
		return call
	}
	return v.name + " = " + call
}

// Jump transfers control unconditionally.
type Jump struct {
	anInstruction
	Target *Block
}

func (t *Jump) String() string {
	return "jump " + t.Target.String()
}

// If transfers control to Then when Cond is non-zero, otherwise to Else.
type If struct {
	anInstruction
	Cond       Value
	Then, Else *Block
}

func (t *If) String() string {
	return fmt.Sprintf("if %s goto %s else %s", t.Cond.Name(), t.Then, t.Else)
}

// Case is one arm of a switch.
type Case struct {
	Value  int64
	Target *Block
}

// Switch dispatches on an integer condition.
type Switch struct {
	anInstruction
	Cond    Value
	Cases   []Case
	Default *Block
}

func (t *Switch) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "switch %s [", t.Cond.Name())
	for i, c := range t.Cases {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: %s", c.Value, c.Target)
	}
	fmt.Fprintf(&sb, "] default %s", t.Default)
	return sb.String()
}

// Return leaves the function.
type Return struct {
	anInstruction
	Results []Value
}

func (t *Return) String() string {
	if len(t.Results) == 0 {
		return "ret"
	}
	results := make([]string, len(t.Results))
	for i, r := range t.Results {
		results[i] = r.Name()
	}
	return "ret " + strings.Join(results, ", ")
}

// Unreachable marks a point control never reaches.
type Unreachable struct {
	anInstruction
}

func (t *Unreachable) String() string { return "unreachable" }

// IsTerminator reports whether instr ends a block.
func IsTerminator(instr Instruction) bool {
	switch instr.(type) {
	case *Jump, *If, *Switch, *Return, *Unreachable:
		return true
	}
	return false
}
