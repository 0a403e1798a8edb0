// Package snapshot reads and writes the plain-text coordinate snapshot format
// and the tabular outputs of a run (density series CSV, g(r) CSV, thermo YAML).
//
// Snapshot format: the first line is "N radius Lx Ly"; then N lines "x y".
// Coordinates are written wrapped into the box. Files ending in .gz or .zst are
// compressed transparently.
package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/hard-disks/hard-disks/sim"
)

// Snapshot is a configuration of equal disks in a periodic box.
type Snapshot struct {
	Radius    float64
	Box       sim.Box
	Positions []sim.Position
}

// FromState captures the current configuration of s.
func FromState(s *sim.State) Snapshot {
	return Snapshot{Radius: s.Radius(), Box: s.Box(), Positions: s.Positions()}
}

// State builds a simulation state from the snapshot.
func (sn Snapshot) State() *sim.State {
	return sim.NewState(sn.Positions, sn.Radius, sn.Box)
}

// Write serializes sn in the snapshot text format.
func Write(w io.Writer, sn Snapshot) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %s %s %s\n", len(sn.Positions),
		formatFloat(sn.Radius), formatFloat(sn.Box.Lx), formatFloat(sn.Box.Ly)); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	for i, p := range sn.Positions {
		p = sn.Box.Wrap(p)
		if _, err := fmt.Fprintf(bw, "%s %s\n", formatFloat(p.X), formatFloat(p.Y)); err != nil {
			return fmt.Errorf("writing snapshot line %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// maxPreallocated bounds the capacity reserved from an untrusted header count.
const maxPreallocated = 1 << 16

// Read parses a snapshot. Blank lines are ignored; the number of coordinate
// lines must match the header.
func Read(r io.Reader) (Snapshot, error) {
	var sn Snapshot
	scanner := bufio.NewScanner(r)
	line := 0
	header := false
	n := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if !header {
			if len(fields) != 4 {
				return sn, fmt.Errorf("line %d: header must be \"N radius Lx Ly\", got %d fields", line, len(fields))
			}
			var err error
			if n, err = strconv.Atoi(fields[0]); err != nil || n < 0 {
				return sn, fmt.Errorf("line %d: invalid disk count %q", line, fields[0])
			}
			vals, err := parseFloats(fields[1:], line)
			if err != nil {
				return sn, err
			}
			if vals[0] <= 0 || vals[1] <= 0 || vals[2] <= 0 {
				return sn, fmt.Errorf("line %d: radius and box sides must be positive", line)
			}
			sn.Radius = vals[0]
			sn.Box = sim.Box{Lx: vals[1], Ly: vals[2]}
			sn.Positions = make([]sim.Position, 0, min(n, maxPreallocated))
			header = true
			continue
		}
		if len(fields) != 2 {
			return sn, fmt.Errorf("line %d: coordinate line must be \"x y\", got %d fields", line, len(fields))
		}
		vals, err := parseFloats(fields, line)
		if err != nil {
			return sn, err
		}
		sn.Positions = append(sn.Positions, sim.Position{X: vals[0], Y: vals[1]})
	}
	if err := scanner.Err(); err != nil {
		return sn, fmt.Errorf("reading snapshot: %w", err)
	}
	if !header {
		return sn, fmt.Errorf("snapshot is empty")
	}
	if len(sn.Positions) != n {
		return sn, fmt.Errorf("snapshot header announces %d disks, found %d", n, len(sn.Positions))
	}
	return sn, nil
}

// Save writes sn to path, compressing by extension (.gz, .zst).
func Save(path string, sn Snapshot) error {
	return writeFile(path, func(w io.Writer) error { return Write(w, sn) })
}

// Load reads a snapshot from path, decompressing by extension (.gz, .zst).
func Load(path string) (Snapshot, error) {
	var sn Snapshot
	err := readFile(path, func(r io.Reader) error {
		var err error
		sn, err = Read(r)
		return err
	})
	return sn, err
}

func parseFloats(fields []string, line int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %q: %w", line, f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("line %d: number %q is not finite", line, f)
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeFile creates path and hands fn a writer that compresses by extension.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zw := gzip.NewWriter(file)
		if err := fn(zw); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("finishing gzip stream %s: %w", path, err)
		}
		return nil
	case ".zst":
		enc, err := zstd.NewWriter(file)
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		if err := fn(enc); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("finishing zstd stream %s: %w", path, err)
		}
		return nil
	default:
		return fn(file)
	}
}

// readFile opens path and hands fn a reader that decompresses by extension.
func readFile(path string, fn func(r io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		defer func() { _ = zr.Close() }()
		return fn(zr)
	case ".zst":
		dec, err := zstd.NewReader(file)
		if err != nil {
			return fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		defer dec.Close()
		return fn(dec)
	default:
		return fn(file)
	}
}
