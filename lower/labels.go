package lower

import (
	"strconv"
)

// Labels hands out synthetic labels. One counter must be shared by
// everything emitted into the same label namespace. The counter only ever
// increases.
type Labels struct {
	last uint64
}

// Next returns the next counter value.
func (l *Labels) Next() uint64 {
	l.last++
	return l.last
}

// Phi returns a fresh detour label for a branch into the block labeled base.
func (l *Labels) Phi(base string) string {
	return base + "$phi" + strconv.FormatUint(l.Next(), 10)
}

// Pair returns two fresh labels sharing one counter value, suffixed with "a"
// and "b".
func (l *Labels) Pair(prefix string) (string, string) {
	n := prefix + strconv.FormatUint(l.Next(), 10)
	return n + "a", n + "b"
}
