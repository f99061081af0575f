package analysis

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"omibyte.io/stackc/ir"
)

// Loops computes the natural loop nest of fn. Loops sharing a header are
// merged. Members of each loop are ordered header first and then in
// function order. Irreducible control flow is rejected.
func Loops(fn *ir.Func) (*ir.LoopInfo, error) {
	g, err := newCFG(fn)
	if err != nil {
		return nil, err
	}

	if err = g.checkReducible(); err != nil {
		return nil, err
	}

	// Collect the loop bodies keyed by header.
	bodies := map[*ir.Block]map[*ir.Block]struct{}{}
	var headers []*ir.Block
	for _, b := range fn.Blocks {
		for _, succ := range b.Succs {
			if !g.dominates(succ, b) {
				continue
			}

			// This is a back edge b -> succ.
			body, ok := bodies[succ]
			if !ok {
				body = map[*ir.Block]struct{}{succ: {}}
				bodies[succ] = body
				headers = append(headers, succ)
			}
			g.collectBody(succ, b, body)
		}
	}

	// Outer loops are created before the loops nested in them so that the
	// parent is always known.
	slices.SortStableFunc(headers, func(a, b *ir.Block) bool {
		if len(bodies[a]) != len(bodies[b]) {
			return len(bodies[a]) > len(bodies[b])
		}
		return a.Index < b.Index
	})

	info := ir.NewLoopInfo()
	for _, header := range headers {
		// The parent is the smallest enclosing loop created so far.
		var parent *ir.Loop
		for _, candidate := range info.Loops() {
			if _, ok := bodies[candidate.Header][header]; !ok {
				continue
			}
			if parent == nil || len(bodies[candidate.Header]) < len(bodies[parent.Header]) {
				parent = candidate
			}
		}

		loop := info.AddLoop(header, parent)
		for _, b := range fn.Blocks {
			if _, ok := bodies[header][b]; ok && b != header {
				info.AddBlock(loop, b)
			}
		}
	}

	return info, nil
}

// collectBody adds every block that reaches latch without passing through
// header to body.
func (g *cfg) collectBody(header, latch *ir.Block, body map[*ir.Block]struct{}) {
	walker := traverse.DepthFirst{
		Traverse: func(e graph.Edge) bool {
			return e.From().ID() != int64(header.Index) && g.dominates(header, g.node(e.To()).block)
		},
		Visit: func(n graph.Node) {
			body[g.node(n).block] = struct{}{}
		},
	}
	walker.Walk(g.backward, g.nodes[latch.Index], nil)
}

// checkReducible verifies that every cycle of reachable blocks is entered
// through a single block dominating the rest of the cycle. Cycles nested
// inside a strongly connected region with a proper header are not
// inspected separately.
func (g *cfg) checkReducible() error {
	for _, scc := range topo.TarjanSCC(g.forward) {
		if len(scc) < 2 {
			continue
		}

		blocks := make([]*ir.Block, 0, len(scc))
		reachable := true
		for _, n := range scc {
			b := g.node(n).block
			reachable = reachable && g.reachable(b)
			blocks = append(blocks, b)
		}
		if !reachable {
			continue
		}

		header := slices.IndexFunc(blocks, func(candidate *ir.Block) bool {
			for _, b := range blocks {
				if !g.dominates(candidate, b) {
					return false
				}
			}
			return true
		})
		if header < 0 {
			slices.SortFunc(blocks, func(a, b *ir.Block) bool {
				return a.Index < b.Index
			})
			return fmt.Errorf("%w: cycle %v in %s has no single entry", ErrIrreducible, blocks, g.fn.Name)
		}
	}
	return nil
}
