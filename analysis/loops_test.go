package analysis

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"omibyte.io/stackc/ir"
)

// buildCFG creates a function with one block per name and wires the edges
// with jumps, two-way branches and switches depending on the successor
// count.
func buildCFG(names []string, edges map[string][]string) *ir.Func {
	fn := ir.NewFunc("f", ir.ReprVoid)
	blocks := map[string]*ir.Block{}
	for _, name := range names {
		blocks[name] = fn.NewBlock(name)
	}

	cond := ir.IntConst(ir.ReprInt, 1)
	for _, name := range names {
		b := blocks[name]
		succs := edges[name]
		switch len(succs) {
		case 0:
			b.Return()
		case 1:
			b.Jump(blocks[succs[0]])
		case 2:
			b.If(cond, blocks[succs[0]], blocks[succs[1]])
		default:
			var cases []ir.Case
			for i, succ := range succs[1:] {
				cases = append(cases, ir.Case{Value: int64(i), Target: blocks[succ]})
			}
			b.Switch(cond, blocks[succs[0]], cases...)
		}
	}
	return fn
}

func describe(info *ir.LoopInfo) map[string][]string {
	result := map[string][]string{}
	for _, loop := range info.Loops() {
		key := loop.Header.Comment
		if loop.Parent != nil {
			key = loop.Parent.Header.Comment + "/" + key
		}
		for _, b := range loop.Blocks {
			result[key] = append(result[key], b.Comment)
		}
	}
	return result
}

func TestLoops(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []string
		edges    map[string][]string
		expected map[string][]string
	}{
		{
			"straight",
			[]string{"entry", "a", "exit"},
			map[string][]string{
				"entry": {"a"},
				"a":     {"exit"},
			},
			map[string][]string{},
		},
		{
			"while",
			[]string{"entry", "head", "body", "exit"},
			map[string][]string{
				"entry": {"head"},
				"head":  {"body", "exit"},
				"body":  {"head"},
			},
			map[string][]string{
				"head": {"head", "body"},
			},
		},
		{
			"selfLoop",
			[]string{"entry", "spin", "exit"},
			map[string][]string{
				"entry": {"spin"},
				"spin":  {"spin", "exit"},
			},
			map[string][]string{
				"spin": {"spin"},
			},
		},
		{
			"nested",
			[]string{"entry", "outer", "inner", "body", "latch", "exit"},
			map[string][]string{
				"entry": {"outer"},
				"outer": {"inner", "exit"},
				"inner": {"body", "latch"},
				"body":  {"inner"},
				"latch": {"outer"},
			},
			map[string][]string{
				"outer":       {"outer", "inner", "body", "latch"},
				"outer/inner": {"inner", "body"},
			},
		},
		{
			"sharedHeader",
			[]string{"entry", "head", "a", "b", "exit"},
			map[string][]string{
				"entry": {"head"},
				"head":  {"exit", "a", "b"},
				"a":     {"head"},
				"b":     {"head"},
			},
			map[string][]string{
				"head": {"head", "a", "b"},
			},
		},
		{
			"siblings",
			[]string{"entry", "h1", "b1", "h2", "b2", "exit"},
			map[string][]string{
				"entry": {"h1"},
				"h1":    {"b1", "h2"},
				"b1":    {"h1"},
				"h2":    {"b2", "exit"},
				"b2":    {"h2"},
			},
			map[string][]string{
				"h1": {"h1", "b1"},
				"h2": {"h2", "b2"},
			},
		},
		{
			"unreachableCycle",
			[]string{"entry", "dead1", "dead2"},
			map[string][]string{
				"dead1": {"dead2"},
				"dead2": {"dead1"},
			},
			map[string][]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn := buildCFG(tc.blocks, tc.edges)
			info, err := Loops(fn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.expected, describe(info)); diff != "" {
				t.Errorf("loop nest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoopsInnermost(t *testing.T) {
	fn := buildCFG(
		[]string{"entry", "outer", "inner", "body", "latch", "exit"},
		map[string][]string{
			"entry": {"outer"},
			"outer": {"inner", "exit"},
			"inner": {"body", "latch"},
			"body":  {"inner"},
			"latch": {"outer"},
		})

	info, err := Loops(fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"", "outer", "inner", "inner", "outer", ""}
	for i, b := range fn.Blocks {
		got := ""
		if loop := info.LoopFor(b); loop != nil {
			got = loop.Header.Comment
		}
		if got != expected[i] {
			t.Errorf("%s: expected innermost loop %q, got %q", b, expected[i], got)
		}
	}

	if top := info.TopLevel(); len(top) != 1 || top[0].Header != fn.Blocks[1] {
		t.Errorf("expected a single outermost loop headed by outer, got %v", top)
	}
	if inner := info.HeaderOf(fn.Blocks[2]); inner == nil || inner.Depth != 2 {
		t.Errorf("expected inner loop at depth 2, got %v", inner)
	}
}

func TestLoopsErrors(t *testing.T) {
	t.Run("irreducible", func(t *testing.T) {
		fn := buildCFG(
			[]string{"entry", "a", "b"},
			map[string][]string{
				"entry": {"a", "b"},
				"a":     {"b"},
				"b":     {"a"},
			})
		if _, err := Loops(fn); !errors.Is(err, ErrIrreducible) {
			t.Errorf("expected %v, got %v", ErrIrreducible, err)
		}
	})

	t.Run("noEntry", func(t *testing.T) {
		if _, err := Loops(ir.NewFunc("f", ir.ReprVoid)); !errors.Is(err, ErrNoEntry) {
			t.Errorf("expected %v, got %v", ErrNoEntry, err)
		}
	})
}
