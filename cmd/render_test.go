package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/snapshot"
)

// failingCloser accepts every write and fails on Close, like a file whose
// buffered data cannot be flushed.
type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error { return errors.New("disk full") }

func TestWriteAndClose_CloseError_IsReturned(t *testing.T) {
	// GIVEN a writer that fails on Close
	wc := &failingCloser{}

	// WHEN the content is written successfully
	err := writeAndClose(wc, "out.svg", func(w io.Writer) error {
		_, err := io.WriteString(w, "<svg/>")
		return err
	})

	// THEN the Close failure is reported
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing out.svg")
	assert.Equal(t, "<svg/>", wc.String())
}

func TestWriteAndClose_WriteErrorWins(t *testing.T) {
	wc := &failingCloser{}
	err := writeAndClose(wc, "out.svg", func(w io.Writer) error { return errors.New("render failed") })
	require.Error(t, err)
	assert.Equal(t, "render failed", err.Error())
}

func TestRenderSnapshotFile_WritesSVG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, snapshot.Save(in, snapshot.FromState(sim.CreateSimpleState(4))))

	out := filepath.Join(dir, "out.svg")
	require.NoError(t, renderSnapshotFile(in, out, 10, true))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "<circle"))
}

func TestRenderSnapshotFile_MissingDirectory_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	require.NoError(t, snapshot.Save(in, snapshot.FromState(sim.CreateSimpleState(4))))

	err := renderSnapshotFile(in, filepath.Join(dir, "missing", "out.svg"), 10, true)
	assert.Error(t, err)
}
