package builder

import (
	"fmt"
	"go/types"

	"omibyte.io/stackc/ir"
)

// typeInfo describes how a Go type is held on the stack machine.
type typeInfo struct {
	repr ir.Repr

	// narrow names the sub-word type results must be truncated to.
	narrow string

	unsigned bool
	text     bool
}

func (t typeInfo) integer() bool {
	return t.repr == ir.ReprInt || t.repr == ir.ReprLong
}

func typeInfoOf(T types.Type) (typeInfo, error) {
	switch T := T.Underlying().(type) {
	case *types.Basic:
		switch T.Kind() {
		case types.Bool, types.UntypedBool, types.Int32, types.UntypedRune:
			return typeInfo{repr: ir.ReprInt}, nil
		case types.Int8:
			return typeInfo{repr: ir.ReprInt, narrow: "int8"}, nil
		case types.Int16:
			return typeInfo{repr: ir.ReprInt, narrow: "int16"}, nil
		case types.Uint8:
			return typeInfo{repr: ir.ReprInt, narrow: "uint8", unsigned: true}, nil
		case types.Uint16:
			return typeInfo{repr: ir.ReprInt, narrow: "uint16", unsigned: true}, nil
		case types.Uint32:
			return typeInfo{repr: ir.ReprInt, unsigned: true}, nil
		case types.Int, types.Int64, types.UntypedInt:
			return typeInfo{repr: ir.ReprLong}, nil
		case types.Uint, types.Uint64, types.Uintptr:
			return typeInfo{repr: ir.ReprLong, unsigned: true}, nil
		case types.Float32:
			return typeInfo{repr: ir.ReprFloat}, nil
		case types.Float64, types.UntypedFloat:
			return typeInfo{repr: ir.ReprDouble}, nil
		case types.String, types.UntypedString:
			return typeInfo{repr: ir.ReprRef, text: true}, nil
		case types.UntypedNil:
			return typeInfo{repr: ir.ReprRef}, nil
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface, *types.Struct:
		return typeInfo{repr: ir.ReprRef}, nil
	case *types.Array:
		return typeInfo{repr: ir.ReprVector}, nil
	}
	return typeInfo{}, fmt.Errorf("%w: type %s", ErrUnsupported, T)
}

// resultInfo describes the single result of a signature.
func resultInfo(sig *types.Signature) (typeInfo, error) {
	switch sig.Results().Len() {
	case 0:
		return typeInfo{repr: ir.ReprVoid}, nil
	case 1:
		return typeInfoOf(sig.Results().At(0).Type())
	}
	return typeInfo{}, fmt.Errorf("%w: multiple results", ErrUnsupported)
}
