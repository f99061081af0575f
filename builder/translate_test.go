package builder

import (
	"errors"
	"go/constant"
	"go/types"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/go/ssa"

	"omibyte.io/stackc/analysis"
	"omibyte.io/stackc/builder/testutil"
	"omibyte.io/stackc/ir"
)

func translateTest(t *testing.T, src, name string, switches bool) *ir.Func {
	t.Helper()
	pkg, err := testutil.CompileTestProgram(src)
	if err != nil {
		t.Fatal(err)
	}
	fn := pkg.Func(name)
	if fn == nil {
		t.Fatalf("no function %s", name)
	}
	out, err := Translate(fn, switches)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func instrStrings(b *ir.Block) []string {
	var out []string
	for _, instr := range b.Instrs {
		out = append(out, instr.String())
	}
	return out
}

func TestTranslateLoop(t *testing.T) {
	fn := translateTest(t, `
		package main
		func sum(n int) int {
			s := 0
			for i := 0; i < n; i++ {
				s += i
			}
			return s
		}`, "sum", false)

	if fn.Result != ir.ReprLong || len(fn.Params) != 1 || fn.Params[0].Typ != ir.ReprLong {
		t.Fatalf("unexpected signature %s(%v) %s", fn.Name, fn.Params, fn.Result)
	}

	phis := 0
	for _, b := range fn.Blocks {
		phis += len(b.Phis)
	}
	if phis != 2 {
		t.Errorf("expected 2 phis, got %d", phis)
	}

	info, err := analysis.Loops(fn)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Loops()) != 1 {
		t.Errorf("expected 1 loop, got %d", len(info.Loops()))
	}
}

func TestTranslateNarrowing(t *testing.T) {
	fn := translateTest(t, `
		package main
		func inc(x int8) int8 {
			return x + 1
		}`, "inc", false)

	expected := []string{
		"t0.wide = add int x, 1",
		"t0 = convert int t0.wide to int (int8)",
		"ret t0",
	}
	if diff := cmp.Diff(expected, instrStrings(fn.Entry())); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateBitwiseKeepsWidth(t *testing.T) {
	fn := translateTest(t, `
		package main
		func mask(x, y uint8) uint8 {
			return x & y
		}`, "mask", false)

	expected := []string{
		"t0 = and int x, y",
		"ret t0",
	}
	if diff := cmp.Diff(expected, instrStrings(fn.Entry())); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSwapCopies(t *testing.T) {
	fn := translateTest(t, `
		package main
		func swap(n int) int {
			a, b := 1, 2
			for i := 0; i < n; i++ {
				a, b = b, a
			}
			return a - b
		}`, "swap", false)

	copies := 0
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if conv, ok := instr.(*ir.Convert); ok && strings.HasSuffix(conv.Name(), ".copy") {
				copies++
			}
		}

		// No phi may read a phi of the same block that is stored before it
		for i, phi := range b.Phis {
			for _, edge := range phi.Edges {
				src, ok := edge.Value.(*ir.Phi)
				if !ok || src.Block() != b {
					continue
				}
				for _, earlier := range b.Phis[:i] {
					if earlier == src {
						t.Errorf("%s reads %s which is stored first", phi.Name(), src.Name())
					}
				}
			}
		}
	}
	if copies == 0 {
		t.Error("expected a copy of a swapped phi")
	}
}

func TestTranslateSwitchRecovery(t *testing.T) {
	const src = `
		package main
		func classify(x int32) int32 {
			switch x {
			case 10:
				return 1
			case 20:
				return 2
			case 30:
				return 3
			}
			return 0
		}
		func wide(x int) int {
			switch x {
			case 1:
				return 10
			case 2:
				return 20
			}
			return 0
		}`

	tests := []struct {
		name     string
		fn       string
		switches bool
		expected []int64
	}{
		{"recovered", "classify", true, []int64{10, 20, 30}},
		{"disabled", "classify", false, nil},
		{"longOperand", "wide", true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn := translateTest(t, src, tc.fn, tc.switches)

			var keys []int64
			for _, b := range fn.Blocks {
				if sw, ok := b.Terminator().(*ir.Switch); ok {
					for _, c := range sw.Cases {
						keys = append(keys, c.Value)
					}
				}
			}
			if diff := cmp.Diff(tc.expected, keys); diff != "" {
				t.Errorf("switch keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	const src = `
		package main
		func concat(a, b string) string {
			return a + b
		}
		func divmod(a, b int) (int, int) {
			return a / b, a % b
		}
		func udiv(a, b uint) uint {
			return a / b
		}
		func ucmp(a, b uint32) bool {
			return a < b
		}
		func widen(a uint32) int64 {
			return int64(a)
		}
		func deref(p *int) int {
			return *p
		}`

	pkg, err := testutil.CompileTestProgram(src)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"concat", "divmod", "udiv", "ucmp", "widen", "deref"} {
		t.Run(name, func(t *testing.T) {
			_, err := Translate(pkg.Func(name), false)
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestConstValue(t *testing.T) {
	tests := []struct {
		name     string
		value    constant.Value
		typ      types.Type
		expected ir.Value
	}{
		{"int", constant.MakeInt64(5), types.Typ[types.Int], ir.IntConst(ir.ReprLong, 5)},
		{"int8", constant.MakeInt64(-3), types.Typ[types.Int8], ir.IntConst(ir.ReprInt, -3)},
		{"uint32Max", constant.MakeUint64(math.MaxUint32), types.Typ[types.Uint32], ir.IntConst(ir.ReprInt, -1)},
		{"uint64Max", constant.MakeUint64(math.MaxUint64), types.Typ[types.Uint64], ir.IntConst(ir.ReprLong, -1)},
		{"true", constant.MakeBool(true), types.Typ[types.Bool], ir.IntConst(ir.ReprInt, 1)},
		{"float32", constant.MakeFloat64(1.5), types.Typ[types.Float32], ir.FloatConst(ir.ReprFloat, 1.5)},
		{"string", constant.MakeString("hi"), types.Typ[types.String], &ir.Const{Typ: ir.ReprRef, Str: "hi", IsText: true}},
		{"nilPointer", nil, types.NewPointer(types.Typ[types.Int]), &ir.Const{Typ: ir.ReprRef}},
		{"zeroArray", nil, types.NewArray(types.Typ[types.Int], 4), &ir.ZeroVector{Lanes: 4}},
		{"zeroStruct", nil, types.NewStruct(nil, nil), &ir.AggregateZero{Typ: ir.ReprRef}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := constValue(ssa.NewConst(tc.value, tc.typ))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.expected, v); diff != "" {
				t.Errorf("constant mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateSwitchDropsChain(t *testing.T) {
	pkg, err := testutil.CompileTestProgram(`
		package main
		func classify(x int32) int32 {
			switch x {
			case 10:
				return 1
			case 20:
				return 2
			case 30:
				return 3
			}
			return 0
		}`)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(testutil.Filter[*ssa.BinOp](pkg, "classify")); n != 3 {
		t.Fatalf("expected 3 comparisons in the SSA form, got %d", n)
	}

	fn, err := Translate(pkg.Func("classify"), true)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if _, ok := instr.(*ir.Compare); ok {
				t.Errorf("unexpected comparison %s in %s", instr, b)
			}
		}
	}
	if got, want := len(fn.Blocks), len(pkg.Func("classify").Blocks)-2; got != want {
		t.Errorf("expected %d blocks, got %d", want, got)
	}
}

func TestTranslateShifts(t *testing.T) {
	const src = `
		package main
		func shl(x int32, n uint32) int32 {
			return x << n
		}
		func sar(x int64, n uint) int64 {
			return x >> n
		}
		func shlConst(x int32) int32 {
			return x << 3
		}
		func shlWide(x int32) int32 {
			return x << 40
		}
		func sarWide(x int32) int32 {
			return x >> 40
		}`

	tests := []struct {
		name     string
		expected []string
	}{
		{
			"shl",
			[]string{
				"t0.shift = shl int x, n",
				"t0.high = ushr int n, 5",
				"t0.ok = cmp eq int t0.high, 0",
				"t0 = select t0.ok, t0.shift, 0",
				"ret t0",
			},
		},
		{
			"sar",
			[]string{
				"t0.shift = shr long x, n",
				"t0.fill = shr long x, 63",
				"t0.high = ushr long n, 6",
				"t0.ok = cmp eq long t0.high, 0",
				"t0 = select t0.ok, t0.shift, t0.fill",
				"ret t0",
			},
		},
		{
			"shlConst",
			[]string{
				"t0 = shl int x, 3",
				"ret t0",
			},
		},
		{
			"shlWide",
			[]string{
				"ret 0",
			},
		},
		{
			"sarWide",
			[]string{
				"t0 = shr int x, 31",
				"ret t0",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn := translateTest(t, src, tc.name, false)
			if diff := cmp.Diff(tc.expected, instrStrings(fn.Entry())); diff != "" {
				t.Errorf("instruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateSubWordUnsignedCompare(t *testing.T) {
	fn := translateTest(t, `
		package main
		func less(a, b uint8) bool {
			return a < b
		}`, "less", false)

	expected := []string{
		"t0 = cmp lt int a, b",
		"ret t0",
	}
	if diff := cmp.Diff(expected, instrStrings(fn.Entry())); diff != "" {
		t.Errorf("instruction mismatch (-want +got):\n%s", diff)
	}
}
