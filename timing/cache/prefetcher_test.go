package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/cache"
)

var _ = Describe("StreamPrefetcher", func() {
	var (
		p      *cache.StreamPrefetcher
		issued []uint32
		issue  func(uint32)
	)

	BeforeEach(func() {
		p = cache.NewStreamPrefetcher(3, 4)
		issued = nil
		issue = func(blockAddr uint32) {
			issued = append(issued, blockAddr)
		}
	})

	It("should start with every buffer invalid and distinct ranks", func() {
		ranks := []int{}
		for _, b := range p.Buffers() {
			Expect(b.IsValid).To(BeFalse())
			ranks = append(ranks, b.Rank)
		}

		Expect(ranks).To(Equal([]int{2, 1, 0}))
		Expect(p.Search(0x100)).To(BeNil())
	})

	It("should allocate the least recently used buffer", func() {
		b := p.Allocate()

		Expect(b.ID).To(Equal(2))
	})

	It("should fill an allocated buffer after the anchor block", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)

		Expect(b.IsValid).To(BeTrue())
		Expect(b.Entries).To(Equal([]uint32{0x101, 0x102, 0x103, 0x104}))
		Expect(issued).To(Equal([]uint32{0x101, 0x102, 0x103, 0x104}))
		Expect(b.Rank).To(Equal(2))
	})

	It("should drop the consumed prefix on a stream hit", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)

		Expect(p.Search(0x102)).To(BeIdenticalTo(b))
		Expect(b.Entries).To(Equal([]uint32{0x103, 0x104}))
	})

	It("should continue after the last entry when refilling", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)
		p.Search(0x102)
		issued = nil

		p.Refill(b, 0x102, issue)

		Expect(b.Entries).To(Equal([]uint32{0x103, 0x104, 0x105, 0x106}))
		Expect(issued).To(Equal([]uint32{0x105, 0x106}))
	})

	It("should invalidate a buffer whose last entry is consumed", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)

		p.Search(0x104)

		Expect(b.IsValid).To(BeFalse())
		Expect(b.Entries).To(BeEmpty())
	})

	It("should restart from the requested block after draining a buffer", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)
		p.Search(0x104)

		p.Refill(b, 0x104, issue)

		Expect(b.Entries).To(Equal([]uint32{0x105, 0x106, 0x107, 0x108}))
	})

	It("should search the most recently used buffer first", func() {
		first := p.Allocate()
		p.Refill(first, 0x100, issue)
		second := p.Allocate()
		p.Refill(second, 0x101, issue)

		Expect(p.Search(0x103)).To(BeIdenticalTo(second))
		Expect(first.Entries).To(Equal([]uint32{0x101, 0x102, 0x103, 0x104}))
	})

	It("should keep ranks a permutation", func() {
		for i := uint32(0); i < 5; i++ {
			b := p.Allocate()
			p.Refill(b, i*0x100, issue)
		}

		ranks := []int{}
		for _, b := range p.Buffers() {
			ranks = append(ranks, b.Rank)
		}
		Expect(ranks).To(ConsistOf(0, 1, 2))
	})

	It("should hold consecutive increasing block addresses", func() {
		b := p.Allocate()
		p.Refill(b, 0x7f0, issue)
		p.Search(0x7f2)
		p.Refill(b, 0x7f2, issue)

		for i := 1; i < len(b.Entries); i++ {
			Expect(b.Entries[i]).To(Equal(b.Entries[i-1] + 1))
		}
	})

	It("should report buffers from most to least recently used", func() {
		first := p.Allocate()
		p.Refill(first, 0x100, issue)
		second := p.Allocate()
		p.Refill(second, 0x200, issue)

		Expect(p.Contents()).To(Equal([][]uint32{
			{0x201, 0x202, 0x203, 0x204},
			{0x101, 0x102, 0x103, 0x104},
			{},
		}))
	})

	It("should return to the initial state on reset", func() {
		b := p.Allocate()
		p.Refill(b, 0x100, issue)

		p.Reset()

		Expect(b.IsValid).To(BeFalse())
		Expect(b.Rank).To(Equal(0))
		Expect(p.Search(0x101)).To(BeNil())
	})
})
