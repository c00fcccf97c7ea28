// Package trace reads and writes memory-reference traces. Each line holds an
// operation, r or w, and a hexadecimal address:
//
//	r ffe04540
//	w 7b032ae0
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/timing/cache"
)

// Event is one memory reference.
type Event struct {
	IsWrite bool
	Address uint32
}

// String formats the event as a trace line without the newline.
func (e Event) String() string {
	op := "r"
	if e.IsWrite {
		op = "w"
	}
	return fmt.Sprintf("%s %x", op, e.Address)
}

// ParseEvent parses a single trace line.
func ParseEvent(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("expected operation and address, got %q", line)
	}

	var e Event
	switch fields[0] {
	case "r", "R":
	case "w", "W":
		e.IsWrite = true
	default:
		return Event{}, fmt.Errorf("unknown request type %q", fields[0])
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(fields[1], "0x"), "0X")
	addr, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Event{}, fmt.Errorf("invalid address %q: %w", fields[1], err)
	}
	e.Address = uint32(addr)

	return e, nil
}

// A Reader reads events from a trace, one line at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next event. Blank lines are skipped. It returns io.EOF
// after the last event.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		e, err := ParseEvent(text)
		if err != nil {
			return Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		return e, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("failed to read trace: %w", err)
	}

	return Event{}, io.EOF
}

// ReadAll returns every remaining event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

// A Target is what a trace is replayed against.
type Target interface {
	Request(addr uint32, isWrite bool) cache.AccessResult
}

// Replay sends every event of r to target in order and returns the number of
// events replayed.
func Replay(r *Reader, target Target) (int, error) {
	n := 0
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		target.Request(e.Address, e.IsWrite)
		n++
	}
}

// ReplayFile opens the trace at path and replays it against target.
func ReplayFile(path string, target Target) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Replay(NewReader(f), target)
}

// A Writer writes events as trace lines.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one event.
func (w *Writer) Write(e Event) error {
	_, err := fmt.Fprintln(w.w, e.String())
	return err
}

// WriteAll appends every event and flushes.
func (w *Writer) WriteAll(events []Event) error {
	for _, e := range events {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
