package ir

import (
	"fmt"
)

// Loop is a natural loop. Blocks lists every member including those of
// nested loops, header first and then in function order.
type Loop struct {
	Header   *Block
	Blocks   []*Block
	Parent   *Loop
	Children []*Loop
	Depth    int
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop(%s, depth %d)", l.Header, l.Depth)
}

// Contains reports whether b is a member of the loop or of one of its
// descendants.
func (l *Loop) Contains(b *Block) bool {
	for _, member := range l.Blocks {
		if member == b {
			return true
		}
	}
	return false
}

// LoopInfo describes the loop nest of one function.
type LoopInfo struct {
	loops     []*Loop
	innermost map[*Block]*Loop
	headers   map[*Block]*Loop
}

// NewLoopInfo returns an empty loop nest.
func NewLoopInfo() *LoopInfo {
	return &LoopInfo{
		innermost: map[*Block]*Loop{},
		headers:   map[*Block]*Loop{},
	}
}

// AddLoop creates a loop headed by header nested in parent, which may be
// nil for an outermost loop. The header becomes the first member.
func (info *LoopInfo) AddLoop(header *Block, parent *Loop) *Loop {
	loop := &Loop{
		Header: header,
		Parent: parent,
		Depth:  1,
	}
	if parent != nil {
		loop.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, loop)
	}
	info.loops = append(info.loops, loop)
	info.headers[header] = loop
	info.AddBlock(loop, header)
	return loop
}

// AddBlock makes b a member of loop and all of its ancestors. The deepest
// loop a block is added to becomes its innermost loop.
func (info *LoopInfo) AddBlock(loop *Loop, b *Block) {
	for l := loop; l != nil; l = l.Parent {
		if !l.Contains(b) {
			l.Blocks = append(l.Blocks, b)
		}
	}
	if current, ok := info.innermost[b]; !ok || current.Depth < loop.Depth {
		info.innermost[b] = loop
	}
}

// LoopFor returns the innermost loop containing b, or nil.
func (info *LoopInfo) LoopFor(b *Block) *Loop {
	return info.innermost[b]
}

// HeaderOf returns the loop headed by b, or nil.
func (info *LoopInfo) HeaderOf(b *Block) *Loop {
	return info.headers[b]
}

// TopLevel returns the outermost loops in creation order.
func (info *LoopInfo) TopLevel() (result []*Loop) {
	for _, loop := range info.loops {
		if loop.Parent == nil {
			result = append(result, loop)
		}
	}
	return
}

// Loops returns every loop in creation order.
func (info *LoopInfo) Loops() []*Loop {
	return info.loops
}
