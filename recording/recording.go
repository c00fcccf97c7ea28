// Package recording stores the outcome of simulation runs in a SQLite
// database, so that runs over many traces and configurations can be
// compared with plain SQL.
package recording

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/datarecording"

	"github.com/sarchlab/cachesim/timing/cache"
)

// Table names.
const (
	RunTable         = "runs"
	MeasurementTable = "measurements"
	AccessTable      = "accesses"
)

// A RunEntry describes one simulation run.
type RunEntry struct {
	RunID     string `akita_data:"unique"`
	TraceFile string
	BlockSize uint32
	L1Size    uint32
	L1Assoc   uint32
	L2Size    uint32
	L2Assoc   uint32
	PrefN     uint32
	PrefM     uint32
}

// A MeasurementEntry holds the final counters of one level.
type MeasurementEntry struct {
	RunID              string `akita_data:"index"`
	Level              string
	Reads              uint64
	ReadMisses         uint64
	Writes             uint64
	WriteMisses        uint64
	MissRate           float64
	Writebacks         uint64
	Prefetches         uint64
	PrefetchReads      uint64
	PrefetchReadMisses uint64
	MemoryTraffic      uint64
}

// An AccessEntry is one request seen by a level.
type AccessEntry struct {
	RunID     string `akita_data:"index"`
	Seq       uint64
	Level     string
	Kind      string
	Address   uint32
	Hit       bool
	StreamHit bool
}

// A Recorder writes run entries through an akita data recorder, which
// batches them and flushes on exit.
type Recorder struct {
	recorder datarecording.DataRecorder
	filename string
	runID    string
	seq      uint64
	closed   bool
}

// New creates a database at path plus the .sqlite3 extension and the tables
// of the recorder. An empty path picks a unique name. An existing database is
// never overwritten.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "cachesim_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	r := &Recorder{
		recorder: datarecording.NewDataRecorder(path),
		filename: filename,
		runID:    xid.New().String(),
	}

	r.recorder.CreateTable(RunTable, RunEntry{})
	r.recorder.CreateTable(MeasurementTable, MeasurementEntry{})
	r.recorder.CreateTable(AccessTable, AccessEntry{})

	return r, nil
}

// Filename returns the database file.
func (r *Recorder) Filename() string {
	return r.filename
}

// RunID returns the identifier attached to every entry of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Tables lists the tables of the database.
func (r *Recorder) Tables() []string {
	return r.recorder.ListTables()
}

// RecordRun stores the configuration of the run.
func (r *Recorder) RecordRun(c *cache.Config, traceFile string) {
	r.recorder.InsertData(RunTable, RunEntry{
		RunID:     r.runID,
		TraceFile: traceFile,
		BlockSize: c.BlockSize,
		L1Size:    c.L1Size,
		L1Assoc:   c.L1Assoc,
		L2Size:    c.L2Size,
		L2Assoc:   c.L2Assoc,
		PrefN:     c.PrefN,
		PrefM:     c.PrefM,
	})
}

// RecordLevels stores the counters of every level of h.
func (r *Recorder) RecordLevels(h *cache.Hierarchy) {
	for _, l := range h.Levels() {
		s := l.Stats()
		r.recorder.InsertData(MeasurementTable, MeasurementEntry{
			RunID:              r.runID,
			Level:              l.Name(),
			Reads:              s.Reads,
			ReadMisses:         s.ReadMisses,
			Writes:             s.Writes,
			WriteMisses:        s.WriteMisses,
			MissRate:           s.MissRate(),
			Writebacks:         s.Writebacks,
			Prefetches:         s.Prefetches,
			PrefetchReads:      s.PrefetchReads,
			PrefetchReadMisses: s.PrefetchReadMisses,
			MemoryTraffic:      s.MemoryTraffic,
		})
	}
}

func (r *Recorder) recordAccess(
	level string,
	req cache.Request,
	result cache.AccessResult,
) {
	r.seq++
	r.recorder.InsertData(AccessTable, AccessEntry{
		RunID:     r.runID,
		Seq:       r.seq,
		Level:     level,
		Kind:      req.Kind(),
		Address:   req.Address,
		Hit:       result.Hit,
		StreamHit: result.StreamHit,
	})
}

// Flush writes every buffered entry to the database.
func (r *Recorder) Flush() {
	r.recorder.Flush()
}

// Close flushes the buffered entries and closes the database. Closing twice
// is a no-op.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.recorder.Close(); err != nil {
		return fmt.Errorf("failed to close recording database: %w", err)
	}

	return nil
}
