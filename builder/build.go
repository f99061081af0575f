package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"

	"omibyte.io/stackc/asm"
	"omibyte.io/stackc/compiler"
	"omibyte.io/stackc/ir"
	"omibyte.io/stackc/targets"
)

// Result lists what a build produced.
type Result struct {
	// Files are the written class files in package order.
	Files []string

	// Skipped names the functions left out of their class.
	Skipped []string
}

// Build loads the packages, compiles every package into one class and
// writes the classes below the output directory.
func Build(ctx context.Context, options Options) (Result, error) {
	if options.Environment == nil {
		options.Environment = Environment()
	}
	if len(options.Target) == 0 {
		options.Target = options.Environment.Value("STACKCTARGET")
	}
	if len(options.Output) == 0 {
		options.Output = options.Environment.Value("STACKCOUT")
	}

	var result Result
	target, err := targets.All().FindByName(options.Target)
	if err != nil {
		return result, fmt.Errorf("%w: %w", compiler.ErrUnknownTarget, err)
	}

	prog := NewProgram(options)
	if err = prog.Load(ctx); err != nil {
		return result, err
	}

	for _, pkg := range prog.Ordered {
		options.println(compiler.Info, "building", pkg.Pkg.Path())
		class, skipped, err := CompilePackage(ctx, pkg, options)
		result.Skipped = append(result.Skipped, skipped...)
		if err != nil {
			return result, err
		}

		fname, err := writeClass(options.Output, class, target.Extension)
		if err != nil {
			return result, err
		}
		options.printf(compiler.Info, "wrote %s\n", fname)
		result.Files = append(result.Files, fname)
	}

	return result, nil
}

// ClassName returns the class the functions of pkg are compiled into.
func ClassName(pkg *ssa.Package) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(pkg.Pkg.Path())
}

// CompilePackage compiles the package level functions of pkg. Functions
// that cannot be translated are skipped unless the options are strict.
// So are the functions calling them.
func CompilePackage(ctx context.Context, pkg *ssa.Package, options Options) (*asm.Class, []string, error) {
	var members []*ssa.Function
	for _, member := range pkg.Members {
		if fn, ok := member.(*ssa.Function); ok && len(fn.Synthetic) == 0 {
			members = append(members, fn)
		}
	}
	slices.SortFunc(members, func(a, b *ssa.Function) bool {
		if a.Pos() != b.Pos() {
			return a.Pos() < b.Pos()
		}
		return a.Name() < b.Name()
	})

	var funcs []*ir.Func
	var skipped []string
	for _, fn := range members {
		out, err := Translate(fn, options.RecoverSwitches)
		if err != nil {
			if options.Strict {
				return nil, skipped, err
			}
			options.printf(compiler.Warning, "skipping %s: %s\n", fn.Name(), err)
			skipped = append(skipped, fn.Name())
			continue
		}
		funcs = append(funcs, out)
	}

	// Drop the callers of skipped functions until none remain
	for changed := len(skipped) > 0; changed; {
		changed = false
		kept := funcs[:0]
		for _, fn := range funcs {
			if callee, ok := callsAny(fn, skipped); ok {
				options.printf(compiler.Warning, "skipping %s: calls %s\n", fn.Name, callee)
				skipped = append(skipped, fn.Name)
				changed = true
				continue
			}
			kept = append(kept, fn)
		}
		funcs = kept
	}

	if options.DumpIR {
		for _, fn := range funcs {
			if err := ir.Fprint(os.Stdout, fn); err != nil {
				return nil, skipped, err
			}
		}
	}

	cc, err := compiler.NewCompiler(compiler.Options{
		Target:    options.Target,
		Class:     ClassName(pkg),
		Verbosity: options.Verbosity,
	})
	if err != nil {
		return nil, skipped, err
	}

	class, err := cc.CompileClass(ctx, funcs)
	if err != nil {
		return nil, skipped, err
	}
	return class, skipped, nil
}

func callsAny(fn *ir.Func, names []string) (string, bool) {
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if call, ok := instr.(*ir.Call); ok && slices.Contains(names, call.Callee) {
				return call.Callee, true
			}
		}
	}
	return "", false
}

func writeClass(dir string, class *asm.Class, ext string) (string, error) {
	fname := filepath.Join(dir, filepath.FromSlash(class.Name)+ext)
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(fname)
	if err != nil {
		return "", err
	}
	if _, err = class.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", fname, err)
	}
	return fname, f.Close()
}
