// Package archive reads ASCII CDB archives: element types, the NBLOCK and
// EBLOCK fixed-width blocks, real constant sets and named components.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/samcharles93/ansysio/internal/logger"
	"gonum.org/v1/gonum/mat"
)

// MaxElementNodes is the fixed width of Element.Nodes.
const MaxElementNodes = 20

// ElementType maps a local element type number to an ANSYS element type.
type ElementType struct {
	Number int32 `json:"number"`
	Type   int32 `json:"type"`
}

// Nodes holds the NBLOCK in file order. Coords and Angles are n by 3 and
// nil when the archive has no nodes. Fields absent from a row are zero.
type Nodes struct {
	Numbers []int32
	Coords  *mat.Dense
	Angles  *mat.Dense
}

func (n Nodes) Len() int { return len(n.Numbers) }

// Element is one EBLOCK entry. Nodes is padded with -1 past NodeCount.
type Element struct {
	Number     int32                  `json:"number"`
	Material   int32                  `json:"material"`
	Type       int32                  `json:"type"`
	Real       int32                  `json:"real"`
	Section    int32                  `json:"section"`
	CoordSys   int32                  `json:"coord_sys"`
	Death      int32                  `json:"death"`
	SolidModel int32                  `json:"solid_model"`
	Shape      int32                  `json:"shape"`
	NodeCount  int32                  `json:"node_count"`
	Nodes      [MaxElementNodes]int32 `json:"nodes"`
}

// RealConstantSet is one RLBLOCK set.
type RealConstantSet struct {
	Number int32     `json:"number"`
	Values []float64 `json:"values"`
}

// Archive is a decoded CDB file.
type Archive struct {
	Path              string
	ElementTypes      []ElementType
	Nodes             Nodes
	Elements          []Element
	RealConstants     []RealConstantSet
	NodeComponents    map[string][]int32
	ElementComponents map[string][]int32
}

// TypeTable returns the ET declarations as a map from local type number.
func (a *Archive) TypeTable() map[int32]int32 {
	out := make(map[int32]int32, len(a.ElementTypes))
	for _, et := range a.ElementTypes {
		out[et.Number] = et.Type
	}
	return out
}

// Options configures Read and Decode. A nil Logger discards log output.
type Options struct {
	Logger logger.Logger
}

// Read decodes the archive at path. Paths ending in .zst are zstd
// compressed and decoded from memory; plain files are reopened for each
// pass.
func Read(ctx context.Context, path string, opts Options) (*Archive, error) {
	if strings.HasSuffix(path, ".zst") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data, err := zstd.Decompress(nil, raw)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return Decode(ctx, path, memSource(data), opts)
	}
	return Decode(ctx, path, fileSource(path), opts)
}

// Source opens a fresh random-access view of the archive text. Each
// decoding pass opens its own view and closes it when done.
type Source func() (io.ReaderAt, int64, io.Closer, error)

func fileSource(path string) Source {
	return func() (io.ReaderAt, int64, io.Closer, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, nil, err
		}
		st, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, 0, nil, err
		}
		return f, st.Size(), f, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func memSource(data []byte) Source {
	return func() (io.ReaderAt, int64, io.Closer, error) {
		return bytes.NewReader(data), int64(len(data)), nopCloser{}, nil
	}
}

// Bytes returns a Source over an in-memory archive.
func Bytes(data []byte) Source { return memSource(data) }

// Decode runs the scan pass and then decodes the node and element blocks
// it located. name is used in errors.
func Decode(ctx context.Context, name string, src Source, opts Options) (*Archive, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	d := &decoder{path: name, src: src, log: log}

	a, blocks, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}
	if blocks.nblock != nil {
		nodes, err := d.readNodes(ctx, blocks.nblock)
		if err != nil {
			return nil, err
		}
		a.Nodes = nodes
	}
	if blocks.eblock != nil {
		elems, err := d.readElements(ctx, blocks.eblock)
		if err != nil {
			return nil, err
		}
		a.Elements = elems
	}
	log.Debug("decoded archive",
		"path", name,
		"nodes", a.Nodes.Len(),
		"elements", len(a.Elements),
		"element_types", len(a.ElementTypes),
		"real_sets", len(a.RealConstants),
		"components", len(a.NodeComponents)+len(a.ElementComponents),
	)
	return a, nil
}

type decoder struct {
	path string
	src  Source
	log  logger.Logger
}
