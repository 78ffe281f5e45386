// Package testfixture builds small synthetic ANSYS binary files for tests.
package testfixture

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/ansysio/pkg/binfile"
)

// Words is a growable word-addressed buffer in a fixed byte order.
type Words struct {
	Order binary.ByteOrder
	buf   []byte
}

func NewWords(order binary.ByteOrder) *Words {
	return &Words{Order: order}
}

// Len returns the current length in words.
func (w *Words) Len() int64 { return int64(len(w.buf) / 4) }

func (w *Words) Int32s(vals ...int32) {
	var b [4]byte
	for _, v := range vals {
		w.Order.PutUint32(b[:], uint32(v))
		w.buf = append(w.buf, b[:]...)
	}
}

func (w *Words) Float64s(vals ...float64) {
	var b [8]byte
	for _, v := range vals {
		w.Order.PutUint64(b[:], math.Float64bits(v))
		w.buf = append(w.buf, b[:]...)
	}
}

// SetInt32 overwrites the word at index word.
func (w *Words) SetInt32(word int64, v int32) {
	w.Order.PutUint32(w.buf[word*4:], uint32(v))
}

// IntRecord appends a Fortran table of integers and returns its word index.
// Payloads shorter than size are zero padded.
func (w *Words) IntRecord(vals []int32, size int) int64 {
	if size < len(vals) {
		size = len(vals)
	}
	start := w.Len()
	w.Int32s(int32(size), 0)
	w.Int32s(vals...)
	for range size - len(vals) {
		w.Int32s(0)
	}
	w.Int32s(0)
	return start
}

// DoubleRecord appends a Fortran table of doubles and returns its word
// index.
func (w *Words) DoubleRecord(vals []float64) int64 {
	start := w.Len()
	w.Int32s(int32(2*len(vals)), 0)
	w.Float64s(vals...)
	w.Int32s(0)
	return start
}

func (w *Words) Bytes() []byte { return w.buf }

// WriteFile writes the buffer under t.TempDir and returns its path.
func (w *Words) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, w.buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Header holds the standard header fields a fixture sets.
type Header struct {
	Format  int32
	Units   int32
	Version string
	Jobname string
	Title   string
	Time    int32
	Date    int32
}

// StandardHeader appends the 100-word standard header record.
func (w *Words) StandardHeader(h Header) {
	data := make([]int32, 100)
	data[0] = 1 // file number
	data[1] = h.Format
	data[2] = h.Time
	data[3] = h.Date
	data[4] = h.Units
	copy(data[9:], binfile.EncodeString(h.Version, 1))
	copy(data[14:], binfile.EncodeString(h.Jobname, 2))
	copy(data[40:], binfile.EncodeString(h.Title, 20))
	w.IntRecord(data, 100)
}
