package analysis

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/flow"
	"gonum.org/v1/gonum/graph/multi"

	"omibyte.io/stackc/ir"
)

type blockNode struct {
	block *ir.Block
}

func (n *blockNode) ID() int64 {
	return int64(n.block.Index)
}

// cfg is the control flow graph of one function in both directions along
// with its dominator tree.
type cfg struct {
	fn       *ir.Func
	nodes    []*blockNode
	forward  *multi.DirectedGraph
	backward *multi.DirectedGraph
	dom      flow.DominatorTree
}

func newCFG(fn *ir.Func) (*cfg, error) {
	entry := fn.Entry()
	if entry == nil {
		return nil, ErrNoEntry
	}

	g := &cfg{
		fn:       fn,
		nodes:    make([]*blockNode, len(fn.Blocks)),
		forward:  multi.NewDirectedGraph(),
		backward: multi.NewDirectedGraph(),
	}

	// Add a node for every block first so unreachable blocks are known to
	// both graphs.
	for i, b := range fn.Blocks {
		g.nodes[i] = &blockNode{block: b}
		g.forward.AddNode(g.nodes[i])
		g.backward.AddNode(g.nodes[i])
	}

	// Add the edges.
	for _, b := range fn.Blocks {
		for _, succ := range b.Succs {
			from, to := g.nodes[b.Index], g.nodes[succ.Index]
			g.forward.SetLine(g.forward.NewLine(from, to))
			g.backward.SetLine(g.backward.NewLine(to, from))
		}
	}

	g.dom = flow.Dominators(g.nodes[entry.Index], g.forward)
	return g, nil
}

func (g *cfg) node(n graph.Node) *blockNode {
	return g.nodes[n.ID()]
}

// reachable reports whether b can be reached from the entry block.
func (g *cfg) reachable(b *ir.Block) bool {
	return b == g.fn.Entry() || g.dom.DominatorOf(int64(b.Index)) != nil
}

// dominates reports whether every path from the entry to b passes through a.
func (g *cfg) dominates(a, b *ir.Block) bool {
	if !g.reachable(b) {
		return false
	}
	for n := graph.Node(g.nodes[b.Index]); n != nil; n = g.dom.DominatorOf(n.ID()) {
		if n.ID() == int64(a.Index) {
			return true
		}
	}
	return false
}
