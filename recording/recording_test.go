package recording_test

import (
	"database/sql"
	"os"
	"path/filepath"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/timing/cache"
)

var _ = Describe("Recorder", func() {
	var (
		path   string
		r      *recording.Recorder
		config *cache.Config
		h      *cache.Hierarchy
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "run")

		var err error
		r, err = recording.New(path)
		Expect(err).NotTo(HaveOccurred())

		config = &cache.Config{
			BlockSize: 16,
			L1Size:    32,
			L1Assoc:   1,
			L2Size:    256,
			L2Assoc:   2,
		}
		h = cache.NewHierarchy(config)
	})

	AfterEach(func() {
		Expect(r.Close()).To(Succeed())
	})

	openDB := func() *sql.DB {
		db, err := sql.Open("sqlite3", r.Filename())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)
		return db
	}

	It("should create the database file", func() {
		Expect(r.Filename()).To(Equal(path + ".sqlite3"))
		Expect(r.Filename()).To(BeAnExistingFile())
		Expect(r.RunID()).NotTo(BeEmpty())
		Expect(r.Tables()).To(ContainElements(
			recording.RunTable,
			recording.MeasurementTable,
			recording.AccessTable,
		))
	})

	It("should refuse to overwrite an existing database", func() {
		Expect(r.Close()).To(Succeed())
		before, err := os.Stat(r.Filename())
		Expect(err).NotTo(HaveOccurred())

		_, err = recording.New(path)

		Expect(err).To(HaveOccurred())
		after, err := os.Stat(r.Filename())
		Expect(err).NotTo(HaveOccurred())
		Expect(after.ModTime()).To(Equal(before.ModTime()))
	})

	It("should record the run configuration", func() {
		r.RecordRun(config, "gcc_trace.txt")
		r.Flush()

		var traceFile, runID string
		var l2Size int64
		err := openDB().
			QueryRow("SELECT RunID, TraceFile, L2Size FROM runs").
			Scan(&runID, &traceFile, &l2Size)

		Expect(err).NotTo(HaveOccurred())
		Expect(runID).To(Equal(r.RunID()))
		Expect(traceFile).To(Equal("gcc_trace.txt"))
		Expect(l2Size).To(Equal(int64(256)))
	})

	It("should record the counters of every level", func() {
		h.Request(0x00, true)
		h.Request(0x20, false)

		r.RecordLevels(h)
		r.Flush()

		var reads, writeMisses, writebacks int64
		err := openDB().
			QueryRow("SELECT Reads, WriteMisses, Writebacks FROM measurements WHERE Level = 'L1'").
			Scan(&reads, &writeMisses, &writebacks)
		Expect(err).NotTo(HaveOccurred())
		Expect(reads).To(Equal(int64(1)))
		Expect(writeMisses).To(Equal(int64(1)))
		Expect(writebacks).To(Equal(int64(1)))

		var traffic int64
		err = openDB().
			QueryRow("SELECT MemoryTraffic FROM measurements WHERE Level = 'L2'").
			Scan(&traffic)
		Expect(err).NotTo(HaveOccurred())
		Expect(traffic).To(Equal(int64(2)))
	})

	It("should record accesses in the order they complete", func() {
		h.AcceptHook(recording.NewAccessHook(r))

		h.Request(0x00, true)
		h.Request(0x20, false)
		r.Flush()

		rows, err := openDB().Query("SELECT Level, Kind FROM accesses ORDER BY Seq")
		Expect(err).NotTo(HaveOccurred())
		defer rows.Close()

		events := []string{}
		for rows.Next() {
			var level, kind string
			Expect(rows.Scan(&level, &kind)).To(Succeed())
			events = append(events, level+" "+kind)
		}

		Expect(events).To(Equal([]string{
			"L2 read",
			"L1 write",
			"L2 write",
			"L2 read",
			"L1 read",
		}))
	})

	It("should name prefetch reads like the access log does", func() {
		l2 := cache.MakeBuilder().
			WithBlockSize(16).
			WithSize(256).
			WithAssociativity(2).
			Build("L2")
		l1 := cache.MakeBuilder().
			WithBlockSize(16).
			WithSize(32).
			WithAssociativity(1).
			WithPrefetch(1, 2).
			WithLowerLevel(l2).
			Build("L1")
		hook := recording.NewAccessHook(r)
		l1.AcceptHook(hook)
		l2.AcceptHook(hook)

		l1.Request(0x00, false)
		r.Flush()

		rows, err := openDB().Query("SELECT Level, Kind FROM accesses ORDER BY Seq")
		Expect(err).NotTo(HaveOccurred())
		defer rows.Close()

		events := []string{}
		for rows.Next() {
			var level, kind string
			Expect(rows.Scan(&level, &kind)).To(Succeed())
			events = append(events, level+" "+kind)
		}

		Expect(events).To(ContainElement("L2 prefetch-read"))
		Expect(events).To(ContainElement("L2 read"))
		Expect(events[len(events)-1]).To(Equal("L1 read"))
	})

	It("should keep entries buffered until a flush commits them", func() {
		r.RecordRun(config, "t.txt")

		countRuns := func() int {
			var n int
			Expect(openDB().QueryRow("SELECT COUNT(*) FROM runs").Scan(&n)).
				To(Succeed())
			return n
		}

		Expect(countRuns()).To(Equal(0))
		r.Flush()
		Expect(countRuns()).To(Equal(1))
		r.Flush()
		Expect(countRuns()).To(Equal(1))
	})

	It("should flush on close", func() {
		r.RecordRun(config, "t.txt")
		Expect(r.Close()).To(Succeed())

		var n int
		Expect(openDB().QueryRow("SELECT COUNT(*) FROM runs").Scan(&n)).To(Succeed())
		Expect(n).To(Equal(1))
	})
})
