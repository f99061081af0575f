package testutil

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

type panicImporter struct{}

func (p panicImporter) Import(path string) (*types.Package, error) {
	panic(fmt.Errorf("import not allowed: %s", path))
}

// CompileTestProgram type checks a single file package and builds its SSA
// form. The source must not import anything.
func CompileTestProgram(programStr string) (*ssa.Package, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", programStr, 0)
	if err != nil {
		return nil, fmt.Errorf("error parsing source: %v", err)
	}

	conf := &types.Config{
		Importer: &panicImporter{},
	}

	pkg := types.NewPackage(file.Name.Name, file.Name.Name)
	ssaPkg, _, err := ssautil.BuildPackage(conf, fset, pkg, []*ast.File{file}, ssa.SanityCheckFunctions|ssa.BareInits)
	if err != nil {
		return nil, err
	}
	return ssaPkg, nil
}

// Filter returns every instruction of type T in the named function.
func Filter[T ssa.Instruction](pkg *ssa.Package, fn string) []T {
	var out []T
	ssaFn := pkg.Func(fn)
	if ssaFn != nil {
		// Traverse the SSA representation and collect the desired instructions
		for _, b := range ssaFn.Blocks {
			for _, instr := range b.Instrs {
				if actual, ok := instr.(T); ok {
					out = append(out, actual)
				}
			}
		}
	}

	return out
}
