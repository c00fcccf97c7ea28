package cache

// A Ranked item holds a position in a recency stack.
type Ranked interface {
	comparable
	GetRank() int
	SetRank(rank int)
}

// RecencyConvention selects which end of a recency stack is most recently
// used.
type RecencyConvention int

const (
	// MRUAtZero ranks the most recently used item 0. Cache blocks use it.
	MRUAtZero RecencyConvention = iota
	// MRUAtTop ranks the most recently used item len-1. Stream buffers use
	// it.
	MRUAtTop
)

// Touch moves touched to the most recently used position of items. The
// items that were more recently used than touched shift one step toward
// the least recently used end; all others keep their rank.
func Touch[T Ranked](items []T, touched T, convention RecencyConvention) {
	prev := touched.GetRank()

	switch convention {
	case MRUAtZero:
		for _, item := range items {
			if item != touched && item.GetRank() < prev {
				item.SetRank(item.GetRank() + 1)
			}
		}
		touched.SetRank(0)
	case MRUAtTop:
		for _, item := range items {
			if item != touched && item.GetRank() > prev {
				item.SetRank(max(item.GetRank()-1, 0))
			}
		}
		touched.SetRank(len(items) - 1)
	default:
		panic("unknown recency convention")
	}
}
