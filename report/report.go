// Package report prints the configuration, final contents and measurements
// of a simulated hierarchy.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sarchlab/cachesim/timing/cache"
)

// A Printer writes reports to an output.
type Printer struct {
	w      io.Writer
	header *color.Color
}

// NewPrinter creates a Printer writing to w. Section headers are coloured
// unless colour output is globally disabled.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		header: color.New(color.FgCyan, color.Bold),
	}
}

// DisableColor prints plain section headers.
func (p *Printer) DisableColor() {
	p.header.DisableColor()
}

func (p *Printer) section(title string) {
	_, _ = p.header.Fprintf(p.w, "===== %s =====", title)
	_, _ = fmt.Fprintln(p.w)
}

// PrintAll prints the full report of a finished run.
func (p *Printer) PrintAll(c *cache.Config, traceFile string, h *cache.Hierarchy) {
	p.PrintConfig(c, traceFile)

	for _, l := range h.Levels() {
		p.PrintContents(l)
	}

	for _, l := range h.Levels() {
		if l.PrefetchEnabled() {
			p.PrintStreamBuffers(l)
		}
	}

	p.PrintMeasurements(h)
}

// PrintConfig prints the simulator parameters.
func (p *Printer) PrintConfig(c *cache.Config, traceFile string) {
	p.section("Simulator configuration")
	_, _ = fmt.Fprintf(p.w, "BLOCKSIZE:  %d\n", c.BlockSize)
	_, _ = fmt.Fprintf(p.w, "L1_SIZE:    %d\n", c.L1Size)
	_, _ = fmt.Fprintf(p.w, "L1_ASSOC:   %d\n", c.L1Assoc)
	_, _ = fmt.Fprintf(p.w, "L2_SIZE:    %d\n", c.L2Size)
	_, _ = fmt.Fprintf(p.w, "L2_ASSOC:   %d\n", c.L2Assoc)
	_, _ = fmt.Fprintf(p.w, "PREF_N:     %d\n", c.PrefN)
	_, _ = fmt.Fprintf(p.w, "PREF_M:     %d\n", c.PrefM)
	_, _ = fmt.Fprintf(p.w, "trace_file: %s\n", traceFile)
	_, _ = fmt.Fprintln(p.w)
}

// PrintContents prints the tags of every set, most recently used first.
// Dirty blocks are flagged with D.
func (p *Printer) PrintContents(l *cache.Level) {
	p.section(l.Name() + " contents")

	for _, set := range l.Contents() {
		_, _ = fmt.Fprintf(p.w, "set %6d:   ", set.Index)
		for _, b := range set.Blocks {
			dirty := " "
			if b.Dirty {
				dirty = "D"
			}
			_, _ = fmt.Fprintf(p.w, " %x %s  ", b.Tag, dirty)
		}
		_, _ = fmt.Fprintln(p.w)
	}
	_, _ = fmt.Fprintln(p.w)
}

// PrintStreamBuffers prints the block addresses each stream buffer holds,
// most recently used buffer first.
func (p *Printer) PrintStreamBuffers(l *cache.Level) {
	p.section("Stream Buffer(s) contents")

	for _, entries := range l.StreamBuffers() {
		for _, blockAddr := range entries {
			_, _ = fmt.Fprintf(p.w, " %x", blockAddr)
		}
		_, _ = fmt.Fprintln(p.w)
	}
	_, _ = fmt.Fprintln(p.w)
}

// PrintMeasurements prints the L1 and L2 counters and the main memory
// traffic. A hierarchy without L2 reports zeros for it.
func (p *Printer) PrintMeasurements(h *cache.Hierarchy) {
	p.section("Measurements")

	l1 := h.L1().Stats()
	p.line("a", "L1 reads", l1.Reads)
	p.line("b", "L1 read misses", l1.ReadMisses)
	p.line("c", "L1 writes", l1.Writes)
	p.line("d", "L1 write misses", l1.WriteMisses)
	p.rate("e", "L1 miss rate", l1.MissRate())
	p.line("f", "L1 writebacks", l1.Writebacks)
	p.line("g", "L1 prefetches", l1.Prefetches)

	var l2 cache.Statistics
	if h.L2() != nil {
		l2 = h.L2().Stats()
	}
	p.line("h", "L2 reads (demand)", l2.Reads)
	p.line("i", "L2 read misses (demand)", l2.ReadMisses)
	p.line("j", "L2 reads (prefetch)", l2.PrefetchReads)
	p.line("k", "L2 read misses (prefetch)", l2.PrefetchReadMisses)
	p.line("l", "L2 writes", l2.Writes)
	p.line("m", "L2 write misses", l2.WriteMisses)
	p.rate("n", "L2 miss rate", l2.MissRate())
	p.line("o", "L2 writebacks", l2.Writebacks)
	p.line("p", "L2 prefetches", l2.Prefetches)
	p.line("q", "memory traffic", h.MemoryTraffic())
}

func (p *Printer) line(item, label string, value uint64) {
	_, _ = fmt.Fprintf(p.w, "%s. %-27s %d\n", item, label+":", value)
}

func (p *Printer) rate(item, label string, value float64) {
	_, _ = fmt.Fprintf(p.w, "%s. %-27s %.4f\n", item, label+":", value)
}
