// Package binfile reads the word-addressed Fortran record layout shared by
// ANSYS binary files (.rst, .full, .emat, .db).
package binfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/samcharles93/ansysio/pkg/errs"
	"golang.org/x/sys/unix"
)

// WordSize is the addressing unit of every pointer in an ANSYS binary file.
const WordSize = 4

// Magic is the first word of every ANSYS binary file: the byte size of the
// standard header record, used to detect byte order.
const Magic = 100

// View is a read-only, byte-order aware window over a whole file.
// A View is not safe for use after Close.
type View struct {
	Path  string
	Order binary.ByteOrder

	data    []byte
	mmapped bool
}

// Open maps path read-only and detects its byte order. If mmap is
// unavailable the file is read into memory instead. Callers must Close the
// view to release the mapping.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, errs.Formatf(path, -1, "file too large to map (%d bytes)", size64)
	}
	size := int(size64)
	if size < 2*WordSize {
		return nil, &errs.FormatError{Path: path, Offset: 0, Expected: "at least 8 bytes", Found: fmt.Sprintf("%d bytes", size), Msg: "file is not a recognized ANSYS binary file"}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		v, verr := newView(path, data, true)
		if verr != nil {
			_ = unix.Munmap(data)
			return nil, verr
		}
		return v, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return newView(path, data, false)
}

// FromBytes wraps an in-memory file image. path is used only in errors.
func FromBytes(path string, data []byte) (*View, error) {
	return newView(path, data, false)
}

func newView(path string, data []byte, mmapped bool) (*View, error) {
	order, err := detect(path, data)
	if err != nil {
		return nil, err
	}
	return &View{Path: path, Order: order, data: data, mmapped: mmapped}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Close releases the mapping. It is safe to call more than once.
func (v *View) Close() error {
	if v == nil || v.data == nil {
		return nil
	}
	var err error
	if v.mmapped {
		err = unix.Munmap(v.data)
	}
	v.data = nil
	v.mmapped = false
	return err
}

// Size returns the file size in bytes.
func (v *View) Size() int64 { return int64(len(v.data)) }

// DataOffset converts a record pointer (in words) to the byte offset of the
// record payload: the pointer addresses the size word, the payload starts
// two words later.
func DataOffset(ptr int64) int64 { return (ptr + 2) * WordSize }

// WordOffset converts a word index to a byte offset.
func WordOffset(word int64) int64 { return word * WordSize }

func (v *View) span(off int64, n int64, what string) ([]byte, error) {
	if off < 0 || n < 0 || off+n > int64(len(v.data)) {
		return nil, &errs.FormatError{
			Path:     v.Path,
			Offset:   off,
			Expected: fmt.Sprintf("%d bytes of %s", n, what),
			Found:    fmt.Sprintf("file of %d bytes", len(v.data)),
			Msg:      "read past end of file",
		}
	}
	return v.data[off : off+n], nil
}

// Int32At reads one integer at byte offset off.
func (v *View) Int32At(off int64) (int32, error) {
	b, err := v.span(off, 4, "int32")
	if err != nil {
		return 0, err
	}
	return int32(v.Order.Uint32(b)), nil
}

// Int32sAt reads n consecutive integers starting at byte offset off.
func (v *View) Int32sAt(off int64, n int) ([]int32, error) {
	b, err := v.span(off, int64(n)*4, "int32")
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(v.Order.Uint32(b[i*4:]))
	}
	return out, nil
}

// Float64sAt reads n consecutive doubles starting at byte offset off.
func (v *View) Float64sAt(off int64, n int) ([]float64, error) {
	b, err := v.span(off, int64(n)*8, "float64")
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(v.Order.Uint64(b[i*8:]))
	}
	return out, nil
}
