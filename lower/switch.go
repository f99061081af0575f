package lower

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/stackc/ir"
)

// Switch lowers a multi-way dispatch. Entries are listed in ascending key
// order and a repeated key keeps the target supplied last.
//
// No copies are emitted for the switch edges. The successors of a switch
// must not have phis.
func (l *Lowerer) Switch(sw *ir.Switch) error {
	// Successor 0 is the default target. Case i targets successor i.
	successors := make([]*ir.Block, 0, len(sw.Cases)+1)
	successors = append(successors, sw.Default)
	index := map[int64]int{}
	for _, c := range sw.Cases {
		successors = append(successors, c.Target)
		index[c.Value] = len(successors) - 1
	}

	keys := maps.Keys(index)
	slices.Sort(keys)

	entries := make([]DispatchEntry, len(keys))
	for i, key := range keys {
		entries[i] = DispatchEntry{
			Key:   key,
			Label: l.Label(successors[index[key]]),
		}
	}

	if err := l.values.Load(sw.Cond); err != nil {
		return err
	}
	l.emitter.Dispatch(l.mnemonics.Dispatch, entries, l.Label(successors[0]))
	return nil
}
