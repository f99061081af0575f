package asm

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"omibyte.io/stackc/ir"
)

// BlockLabels derives block labels from the function name and the block
// index. The same function always yields the same labels.
type BlockLabels struct {
	prefix string
}

func NewBlockLabels(fn string) *BlockLabels {
	return &BlockLabels{
		prefix: fmt.Sprintf("L%08x", uint32(xxhash.Sum64String(fn))),
	}
}

func (n *BlockLabels) BlockLabel(b *ir.Block) string {
	return fmt.Sprintf("%s_%d", n.prefix, b.Index)
}
