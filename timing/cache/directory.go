package cache

// A Block of a cache is the information that is associated with a cache line.
type Block struct {
	SetID int
	WayID int

	IsValid bool
	IsDirty bool
	Tag     uint32

	// Address is the full address last installed in the block. A write-back
	// replays it to the lower level.
	Address uint32

	// Rank is the block's recency position. 0 is the most recently used
	// block of the set and associativity-1 the least recently used one.
	Rank int
}

// GetRank returns the recency rank of the block.
func (b *Block) GetRank() int {
	return b.Rank
}

// SetRank sets the recency rank of the block.
func (b *Block) SetRank(rank int) {
	b.Rank = rank
}

// A Set is a list of blocks where a certain piece of memory can be stored.
type Set struct {
	Blocks []*Block
}

// lookupResult is what a single left-to-right scan of a set finds.
type lookupResult struct {
	hit     *Block
	invalid *Block
	lru     *Block
}

// victim returns the block a miss replaces: the first invalid block if there
// is one, otherwise the least recently used block.
func (r lookupResult) victim() *Block {
	if r.invalid != nil {
		return r.invalid
	}

	if r.lru == nil {
		panic("set has no least recently used block")
	}

	return r.lru
}

// A directory stores the metadata of every block of one cache level.
type directory struct {
	geometry Geometry
	sets     []Set
}

func newDirectory(g Geometry) *directory {
	d := &directory{geometry: g}
	d.reset()
	return d
}

func (d *directory) reset() {
	numSets := int(d.geometry.NumSets())
	numWays := int(d.geometry.Associativity)

	d.sets = make([]Set, numSets)
	for i := range d.sets {
		d.sets[i].Blocks = make([]*Block, numWays)
		for j := range d.sets[i].Blocks {
			d.sets[i].Blocks[j] = &Block{
				SetID: i,
				WayID: j,
				Rank:  numWays - 1,
			}
		}
	}
}

func (d *directory) set(addr uint32) *Set {
	return &d.sets[d.geometry.Index(addr)]
}

// lookup scans the set addr maps to. The first invalid block and the first
// block holding the least recently used rank are remembered; the scan stops
// at the first valid block whose tag matches.
func (d *directory) lookup(addr uint32) (*Set, lookupResult) {
	set := d.set(addr)
	tag := d.geometry.Tag(addr)
	lruRank := int(d.geometry.Associativity) - 1

	var r lookupResult
	for _, block := range set.Blocks {
		if !block.IsValid && r.invalid == nil {
			r.invalid = block
		}

		if block.Rank == lruRank && r.lru == nil {
			r.lru = block
		}

		if block.IsValid && block.Tag == tag {
			r.hit = block
			break
		}
	}

	return set, r
}

// install overwrites block with addr and promotes it to most recently used.
func (d *directory) install(set *Set, block *Block, addr uint32, dirty bool) {
	block.Address = addr
	block.Tag = d.geometry.Tag(addr)
	block.IsDirty = dirty
	block.IsValid = true
	Touch(set.Blocks, block, MRUAtZero)
}

// visit promotes block to most recently used.
func (d *directory) visit(set *Set, block *Block) {
	Touch(set.Blocks, block, MRUAtZero)
}
