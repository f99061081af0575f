package ir

import (
	"fmt"
	"strconv"
)

// Repr is the machine representation of a value on the operand stack.
type Repr int

const (
	ReprVoid Repr = iota
	ReprInt
	ReprLong
	ReprFloat
	ReprDouble
	ReprRef
	ReprVector
)

func (r Repr) String() string {
	switch r {
	case ReprVoid:
		return "void"
	case ReprInt:
		return "int"
	case ReprLong:
		return "long"
	case ReprFloat:
		return "float"
	case ReprDouble:
		return "double"
	case ReprRef:
		return "ref"
	case ReprVector:
		return "vector"
	}
	return "repr(" + strconv.Itoa(int(r)) + ")"
}

// Scalar returns the representation used to materialize r. Vectors have no
// native representation and are narrowed to a long placeholder.
func (r Repr) Scalar() Repr {
	if r == ReprVector {
		return ReprLong
	}
	return r
}

// Value is an SSA definition. The set of implementations is closed.
type Value interface {
	Name() string
	Repr() Repr
	isValue()
}

// Class is the classification of a value that phi resolution depends on.
type Class int

const (
	ClassDefined Class = iota
	ClassUndef
	ClassZeroVector
	ClassAggregateZero
)

func (c Class) String() string {
	switch c {
	case ClassDefined:
		return "defined"
	case ClassUndef:
		return "undef"
	case ClassZeroVector:
		return "zerovector"
	case ClassAggregateZero:
		return "aggregatezero"
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

// Classify returns the class of v. Every Value implementation must be
// listed here.
func Classify(v Value) Class {
	switch v.(type) {
	case *Undef:
		return ClassUndef
	case *ZeroVector:
		return ClassZeroVector
	case *AggregateZero:
		return ClassAggregateZero
	case *Const, *Param, *Phi, *BinOp, *UnOp, *Compare, *Convert, *Select, *Call:
		return ClassDefined
	}
	panic(fmt.Sprintf("ir: unclassified value %T", v))
}

// Const is a scalar constant. Ref constants are either the null reference
// or a string.
type Const struct {
	Typ    Repr
	Int    int64
	Float  float64
	Str    string
	IsText bool
}

func (c *Const) Name() string {
	switch c.Typ {
	case ReprInt, ReprLong:
		return strconv.FormatInt(c.Int, 10)
	case ReprFloat, ReprDouble:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ReprRef:
		if c.IsText {
			return strconv.Quote(c.Str)
		}
		return "null"
	}
	return "const"
}

func (c *Const) Repr() Repr { return c.Typ }
func (c *Const) isValue()   {}

// IntConst returns an integer constant of representation typ.
func IntConst(typ Repr, v int64) *Const {
	return &Const{Typ: typ, Int: v}
}

// FloatConst returns a floating-point constant of representation typ.
func FloatConst(typ Repr, v float64) *Const {
	return &Const{Typ: typ, Float: v}
}

// Param is a function parameter.
type Param struct {
	name  string
	Index int
	Typ   Repr
}

func (p *Param) Name() string { return p.name }
func (p *Param) Repr() Repr   { return p.Typ }
func (p *Param) isValue()     {}

// Undef is the undefined value. A merge of undef is a don't-care.
type Undef struct {
	Typ Repr
}

func (u *Undef) Name() string { return "undef" }
func (u *Undef) Repr() Repr   { return u.Typ }
func (u *Undef) isValue()     {}

// ZeroVector is an explicit all-zero vector constant.
type ZeroVector struct {
	Lanes int
}

func (z *ZeroVector) Name() string { return fmt.Sprintf("zerovector<%d>", z.Lanes) }
func (z *ZeroVector) Repr() Repr   { return ReprVector }
func (z *ZeroVector) isValue()     {}

// AggregateZero is the zero value of an aggregate type.
type AggregateZero struct {
	Typ Repr
}

func (z *AggregateZero) Name() string { return "zeroinitializer" }
func (z *AggregateZero) Repr() Repr   { return z.Typ }
func (z *AggregateZero) isValue()     {}
