package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func blockRanks(blocks []*Block) []int {
	ranks := make([]int, len(blocks))
	for i, b := range blocks {
		ranks[i] = b.Rank
	}
	return ranks
}

func bufferRanks(buffers []*StreamBuffer) []int {
	ranks := make([]int, len(buffers))
	for i, b := range buffers {
		ranks[i] = b.Rank
	}
	return ranks
}

var _ = Describe("Touch", func() {
	Context("with the most recently used item at rank 0", func() {
		var blocks []*Block

		BeforeEach(func() {
			blocks = []*Block{{Rank: 2}, {Rank: 0}, {Rank: 3}, {Rank: 1}}
		})

		It("should age only the items more recent than the touched one", func() {
			Touch(blocks, blocks[3], MRUAtZero)

			Expect(blockRanks(blocks)).To(Equal([]int{2, 1, 3, 0}))
		})

		It("should age every other item when the least recent one is touched", func() {
			Touch(blocks, blocks[2], MRUAtZero)

			Expect(blockRanks(blocks)).To(Equal([]int{3, 1, 0, 2}))
		})

		It("should leave the order alone when the most recent item is touched", func() {
			Touch(blocks, blocks[1], MRUAtZero)

			Expect(blockRanks(blocks)).To(Equal([]int{2, 0, 3, 1}))
		})

		It("should build a permutation from a cold set", func() {
			cold := []*Block{{Rank: 3}, {Rank: 3}, {Rank: 3}, {Rank: 3}}

			for _, b := range cold {
				Touch(cold, b, MRUAtZero)
			}

			Expect(blockRanks(cold)).To(Equal([]int{3, 2, 1, 0}))
		})
	})

	Context("with the most recently used item at the top rank", func() {
		var buffers []*StreamBuffer

		BeforeEach(func() {
			buffers = []*StreamBuffer{{Rank: 2}, {Rank: 1}, {Rank: 0}}
		})

		It("should move the touched item to the top", func() {
			Touch(buffers, buffers[2], MRUAtTop)

			Expect(bufferRanks(buffers)).To(Equal([]int{1, 0, 2}))
		})

		It("should only demote items above the touched one", func() {
			Touch(buffers, buffers[1], MRUAtTop)

			Expect(bufferRanks(buffers)).To(Equal([]int{1, 2, 0}))
		})
	})
})
