package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Level", func() {
	var (
		mockCtrl *gomock.Controller
		lower    *MockLowerLevel
		l        *Level
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		lower = NewMockLowerLevel(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("without prefetching", func() {
		BeforeEach(func() {
			// 16B lines, direct-mapped, 2 sets.
			l = MakeBuilder().
				WithBlockSize(16).
				WithSize(32).
				WithAssociativity(1).
				WithLowerLevel(lower).
				Build("L1")
		})

		It("should fetch a write miss from the lower level as a read", func() {
			lower.EXPECT().Access(Request{Address: 0x04})

			result := l.Request(0x04, true)

			Expect(result.Hit).To(BeFalse())
			Expect(l.Stats().WriteMisses).To(Equal(uint64(1)))
			Expect(l.Stats().MemoryTraffic).To(Equal(uint64(0)))
		})

		It("should write back the stored address before fetching", func() {
			gomock.InOrder(
				lower.EXPECT().Access(Request{Address: 0x04}),
				lower.EXPECT().Access(Request{Address: 0x04, IsWrite: true}),
				lower.EXPECT().Access(Request{Address: 0x20}),
			)

			l.Request(0x04, true)
			result := l.Request(0x20, false)

			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedAddr).To(Equal(uint32(0x04)))
			Expect(l.Stats().Writebacks).To(Equal(uint64(1)))
		})

		It("should not touch the lower level on a hit", func() {
			lower.EXPECT().Access(Request{Address: 0x10})

			l.Request(0x10, false)
			result := l.Request(0x18, true)

			Expect(result.Hit).To(BeTrue())
			Expect(l.Contents()[1].Blocks[0].Dirty).To(BeTrue())
		})
	})

	Context("with prefetching", func() {
		BeforeEach(func() {
			l = MakeBuilder().
				WithBlockSize(16).
				WithSize(32).
				WithAssociativity(1).
				WithPrefetch(1, 1).
				WithLowerLevel(lower).
				Build("L1")
		})

		It("should prefetch, then write back, then fetch on a double miss", func() {
			gomock.InOrder(
				lower.EXPECT().Access(Request{Address: 0x10, Prefetch: true}),
				lower.EXPECT().Access(Request{Address: 0x00}),
				lower.EXPECT().Access(Request{Address: 0x50, Prefetch: true}),
				lower.EXPECT().Access(Request{Address: 0x00, IsWrite: true}),
				lower.EXPECT().Access(Request{Address: 0x40}),
			)

			l.Request(0x00, true)
			l.Request(0x40, false)

			Expect(l.Stats().Prefetches).To(Equal(uint64(2)))
			Expect(l.StreamBuffers()).To(Equal([][]uint32{{0x5}}))
		})

		It("should not fetch a block a stream buffer holds", func() {
			gomock.InOrder(
				lower.EXPECT().Access(Request{Address: 0x10, Prefetch: true}),
				lower.EXPECT().Access(Request{Address: 0x00}),
				lower.EXPECT().Access(Request{Address: 0x20, Prefetch: true}),
			)

			l.Request(0x00, false)
			result := l.Request(0x10, false)

			Expect(result.Hit).To(BeFalse())
			Expect(result.StreamHit).To(BeTrue())
			Expect(l.Stats().ReadMisses).To(Equal(uint64(1)))
		})
	})

	It("should panic on a geometry it cannot decode", func() {
		Expect(func() {
			MakeBuilder().WithBlockSize(24).Build("L1")
		}).To(Panic())
	})
})

var _ = Describe("directory", func() {
	It("should prefer the first invalid block as victim", func() {
		d := newDirectory(Geometry{BlockSize: 16, Size: 64, Associativity: 4})

		_, found := d.lookup(0x0)

		Expect(found.hit).To(BeNil())
		Expect(found.victim().WayID).To(Equal(0))
	})

	It("should pick the least recently used block once the set is full", func() {
		d := newDirectory(Geometry{BlockSize: 16, Size: 64, Associativity: 4})
		for _, addr := range []uint32{0x00, 0x10, 0x20, 0x30} {
			set, found := d.lookup(addr)
			d.install(set, found.victim(), addr, false)
		}

		set, found := d.lookup(0x00)
		d.visit(set, found.hit)
		_, found = d.lookup(0x40)

		Expect(found.victim().Address).To(Equal(uint32(0x10)))
	})

	It("should keep ranks a permutation after the set warms up", func() {
		d := newDirectory(Geometry{BlockSize: 16, Size: 128, Associativity: 8})
		addrs := []uint32{0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70,
			0x20, 0x80, 0x00, 0x90, 0x20, 0x50}

		for _, addr := range addrs {
			set, found := d.lookup(addr)
			if found.hit != nil {
				d.visit(set, found.hit)
				continue
			}
			d.install(set, found.victim(), addr, false)
		}

		ranks := []int{}
		for _, b := range d.sets[0].Blocks {
			ranks = append(ranks, b.Rank)
		}
		Expect(ranks).To(ConsistOf(0, 1, 2, 3, 4, 5, 6, 7))
	})
})
