package ir

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual dump of fn to w.
func Fprint(w io.Writer, fn *Func) error {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", p.Name(), p.Typ)
	}
	if _, err := fmt.Fprintf(w, "func %s(%s) %s:\n", fn.Name, strings.Join(params, ", "), fn.Result); err != nil {
		return err
	}

	for _, b := range fn.Blocks {
		preds := make([]string, len(b.Preds))
		for i, pred := range b.Preds {
			preds[i] = pred.String()
		}
		if _, err := fmt.Fprintf(w, "%s: ; preds [%s]\n", b, strings.Join(preds, " ")); err != nil {
			return err
		}
		for _, phi := range b.Phis {
			if _, err := fmt.Fprintf(w, "\t%s\n", phi); err != nil {
				return err
			}
		}
		for _, instr := range b.Instrs {
			if _, err := fmt.Fprintf(w, "\t%s\n", instr); err != nil {
				return err
			}
		}
	}
	return nil
}
