package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"omibyte.io/stackc/ir"
)

func (fc *funcCompiler) loadConst(c *ir.Const) error {
	info, err := fc.target.Type(c.Typ)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}

	switch c.Typ {
	case ir.ReprInt, ir.ReprLong:
		text := strconv.FormatInt(c.Int, 10)
		if mnemonic, ok := info.Constant(text); ok {
			fc.emit(mnemonic)
		} else if mnemonic, ok := info.PushFor(c.Int); ok {
			fc.emit(mnemonic, text)
		} else {
			fc.emit(info.Ldc, text)
		}
	case ir.ReprFloat, ir.ReprDouble:
		if math.IsNaN(c.Float) || math.IsInf(c.Float, 0) {
			return fmt.Errorf("%w: %v has no literal form", ErrUnsupportedValue, c.Float)
		}
		text := strconv.FormatFloat(c.Float, 'f', -1, 64)
		if mnemonic, ok := info.Constant(text); ok && !math.Signbit(c.Float) {
			fc.emit(mnemonic)
			return nil
		}

		// Integral literals would be read back as integers
		if !strings.Contains(text, ".") {
			text += ".0"
		}
		fc.emit(info.Ldc, text)
	case ir.ReprRef:
		if !c.IsText {
			return fc.loadZero(ir.ReprRef)
		}
		fc.emit(info.Ldc, strconv.Quote(c.Str))
	default:
		return fmt.Errorf("%w: constant of %s", ErrUnsupportedValue, c.Typ)
	}
	return nil
}
