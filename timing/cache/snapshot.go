package cache

import "github.com/google/btree"

// BlockSnapshot is a copy of one valid block's metadata.
type BlockSnapshot struct {
	WayID   int
	Tag     uint32
	Address uint32
	Dirty   bool
	Rank    int
}

// SetSnapshot lists the valid blocks of one set, most recently used first.
type SetSnapshot struct {
	Index  int
	Blocks []BlockSnapshot
}

// rankSlot keys an item of a recency stack by its rank. The slot breaks ties
// between items that share a rank before the stack is warm.
type rankSlot struct {
	rank int
	slot int
}

func (a rankSlot) Less(than btree.Item) bool {
	b := than.(rankSlot)
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.slot < b.slot
}

func rankOrder[T Ranked](items []T) *btree.BTree {
	tree := btree.New(2)
	for i, item := range items {
		tree.ReplaceOrInsert(rankSlot{rank: item.GetRank(), slot: i})
	}
	return tree
}

func (d *directory) snapshot() []SetSnapshot {
	snapshots := make([]SetSnapshot, len(d.sets))

	for i := range d.sets {
		set := &d.sets[i]
		snapshots[i].Index = i

		rankOrder(set.Blocks).Ascend(func(item btree.Item) bool {
			block := set.Blocks[item.(rankSlot).slot]
			if !block.IsValid {
				return true
			}

			snapshots[i].Blocks = append(snapshots[i].Blocks, BlockSnapshot{
				WayID:   block.WayID,
				Tag:     block.Tag,
				Address: block.Address,
				Dirty:   block.IsDirty,
				Rank:    block.Rank,
			})
			return true
		})
	}

	return snapshots
}
