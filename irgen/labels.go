package irgen

import "strconv"

// The label prefixes used by the generator.
const (
	PrefixBranch = "else"
	PrefixLoop   = "loop"
	PrefixBlock  = "block"
)

// LabelAllocator hands out structural labels. One counter is shared by all
// prefixes, so a label is never handed out twice in one compilation.
type LabelAllocator struct {
	next int
}

// Next returns prefix followed by the next counter value.
func (a *LabelAllocator) Next(prefix string) string {
	l := prefix + strconv.Itoa(a.next)
	a.next++

	return l
}

// Count returns how many labels have been allocated.
func (a *LabelAllocator) Count() int {
	return a.next
}
