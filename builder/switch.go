package builder

import (
	"go/constant"
	"math"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"omibyte.io/stackc/ir"
)

// switchPlan replaces the comparison chain rooted at start with a single
// dispatch on x.
type switchPlan struct {
	start   *ssa.BasicBlock
	x       ssa.Value
	compare ssa.Instruction
	cases   []ssautil.ConstCase
	deflt   *ssa.BasicBlock
}

// findSwitches finds the if-else chains of fn that can become a single
// dispatch. It returns the plans keyed by their first block along with the
// comparison blocks the plans make dead.
func findSwitches(fn *ssa.Function) (map[*ssa.BasicBlock]*switchPlan, map[*ssa.BasicBlock]bool) {
	plans := map[*ssa.BasicBlock]*switchPlan{}
	dropped := map[*ssa.BasicBlock]bool{}

	for _, sw := range ssautil.Switches(fn) {
		if plan := planSwitch(sw); plan != nil {
			plans[plan.start] = plan
			for _, c := range plan.cases[1:] {
				dropped[c.Block] = true
			}
		}
	}
	return plans, dropped
}

func planSwitch(sw ssautil.Switch) *switchPlan {
	if len(sw.TypeCases) > 0 || len(sw.ConstCases) < 2 {
		return nil
	}

	// The dispatch operand must already be a 32-bit value.
	if info, err := typeInfoOf(sw.X.Type()); err != nil || info.repr != ir.ReprInt {
		return nil
	}

	targets := map[*ssa.BasicBlock]bool{sw.Default: true}
	seen := map[int64]bool{}
	var compare ssa.Instruction
	for i, c := range sw.ConstCases {
		key, exact := constant.Int64Val(constant.ToInt(c.Value.Value))
		if !exact || key < math.MinInt32 || key > math.MaxInt32 || seen[key] {
			return nil
		}
		seen[key] = true
		targets[c.Body] = true

		cmp, ok := chainLink(c.Block, sw.X)
		if !ok {
			return nil
		}
		if i == 0 {
			compare = cmp
		} else if len(c.Block.Instrs) != 2 || len(c.Block.Preds) != 1 {
			return nil
		}
	}

	// Phis in the targets would need values for the dropped edges.
	for target := range targets {
		if hasPhis(target) {
			return nil
		}
	}
	for _, c := range sw.ConstCases[1:] {
		if targets[c.Block] {
			return nil
		}
	}

	return &switchPlan{
		start:   sw.Start,
		x:       sw.X,
		compare: compare,
		cases:   sw.ConstCases,
		deflt:   sw.Default,
	}
}

// chainLink checks that b ends in "if x == k" and that the comparison has no
// other use.
func chainLink(b *ssa.BasicBlock, x ssa.Value) (ssa.Instruction, bool) {
	n := len(b.Instrs)
	if n < 2 {
		return nil, false
	}
	cond, ok := b.Instrs[n-1].(*ssa.If)
	if !ok {
		return nil, false
	}
	cmp, ok := b.Instrs[n-2].(*ssa.BinOp)
	if !ok || cond.Cond != cmp || cmp.X != x {
		return nil, false
	}
	if refs := cmp.Referrers(); refs == nil || len(*refs) != 1 {
		return nil, false
	}
	return cmp, true
}

func hasPhis(b *ssa.BasicBlock) bool {
	if len(b.Instrs) == 0 {
		return false
	}
	_, ok := b.Instrs[0].(*ssa.Phi)
	return ok
}
