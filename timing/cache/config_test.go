package cache_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/timing/cache"
)

var _ = Describe("Config", func() {
	It("should validate the default configuration", func() {
		config := cache.DefaultConfig()

		Expect(config.Validate()).To(Succeed())
		Expect(config.HasL2()).To(BeTrue())
		Expect(config.PrefetchEnabled()).To(BeTrue())
	})

	It("should disable prefetching when either parameter is zero", func() {
		config := cache.DefaultConfig()
		config.PrefM = 0

		Expect(config.PrefetchEnabled()).To(BeFalse())
	})

	It("should ignore the L2 geometry when there is no L2", func() {
		config := cache.DefaultConfig()
		config.L2Size = 0
		config.L2Assoc = 0

		Expect(config.Validate()).To(Succeed())
	})

	It("should reject a bad L2 geometry", func() {
		config := cache.DefaultConfig()
		config.L2Assoc = 3

		Expect(config.Validate()).To(MatchError(ContainSubstring("l2")))
	})

	It("should round-trip through a JSON file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "cache.json")
		config := cache.DefaultConfig()
		config.L1Size = 1024
		config.PrefN = 0

		Expect(config.SaveConfig(path)).To(Succeed())
		loaded, err := cache.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should fill missing fields with defaults", func() {
		path := filepath.Join(GinkgoT().TempDir(), "cache.json")
		Expect(os.WriteFile(path, []byte(`{"l2_size": 0}`), 0644)).To(Succeed())

		loaded, err := cache.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.HasL2()).To(BeFalse())
		Expect(loaded.L1Size).To(Equal(uint32(8192)))
	})

	It("should fail on a missing file", func() {
		_, err := cache.LoadConfig("/nonexistent/cache.json")

		Expect(err).To(HaveOccurred())
	})

	It("should clone independently", func() {
		config := cache.DefaultConfig()
		clone := config.Clone()
		clone.L1Size = 1

		Expect(config.L1Size).To(Equal(uint32(8192)))
	})
})

var _ = Describe("Hierarchy", func() {
	It("should attach stream buffers to L2 when there is one", func() {
		h := cache.NewHierarchy(cache.DefaultConfig())

		Expect(h.Levels()).To(HaveLen(2))
		Expect(h.L1().PrefetchEnabled()).To(BeFalse())
		Expect(h.L2().PrefetchEnabled()).To(BeTrue())
		Expect(h.L2().Prefetcher().NumStreams()).To(Equal(3))
		Expect(h.L2().Prefetcher().Depth()).To(Equal(10))
		Expect(h.L1().LowerLevel()).To(BeIdenticalTo(h.L2()))
		Expect(h.L2().LowerLevel()).To(BeNil())
	})

	It("should attach stream buffers to L1 when there is no L2", func() {
		config := cache.DefaultConfig()
		config.L2Size = 0

		h := cache.NewHierarchy(config)

		Expect(h.Levels()).To(HaveLen(1))
		Expect(h.L2()).To(BeNil())
		Expect(h.L1().PrefetchEnabled()).To(BeTrue())
		Expect(h.L1().LowerLevel()).To(BeNil())
	})

	It("should count memory traffic at the lowest level", func() {
		config := cache.DefaultConfig()
		config.PrefN = 0

		h := cache.NewHierarchy(config)
		h.Request(0x1000, false)
		h.Request(0x1000, true)

		Expect(h.L1().Stats().Reads).To(Equal(uint64(1)))
		Expect(h.L1().Stats().Writes).To(Equal(uint64(1)))
		Expect(h.L2().Stats().Reads).To(Equal(uint64(1)))
		Expect(h.MemoryTraffic()).To(Equal(uint64(1)))
	})

	It("should panic on an invalid configuration", func() {
		config := cache.DefaultConfig()
		config.BlockSize = 48

		Expect(func() { cache.NewHierarchy(config) }).To(Panic())
	})
})
