// Package rst reads nodal solutions from ANSYS binary result files.
package rst

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
	"gonum.org/v1/gonum/mat"
)

// Order selects the row order of decoded per-node arrays.
type Order int

const (
	// Sorted orders rows by ascending node number.
	Sorted Order = iota
	// Unsorted keeps the on-disk node equivalence order.
	Unsorted
)

func (o Order) String() string {
	if o == Unsorted {
		return "unsorted"
	}
	return "sorted"
}

// Options configures Open. A nil Logger discards log output.
type Options struct {
	Logger logger.Logger
}

// ResultFile is an opened result file. Header data and the node sort
// permutation are read once by Open and never modified afterwards, so a
// ResultFile may be shared between goroutines. No file handle is held:
// every read maps the file, decodes and releases it.
type ResultFile struct {
	Path     string
	Order    binary.ByteOrder
	Standard binfile.StandardHeader
	Header   Header

	neqv      []int32
	sidx      []int
	nnum      []int32
	rpointers []int32
	times     []float64

	log logger.Logger
}

// Open parses the header, node equivalence table, set directory and time
// table of the result file at path.
func Open(path string, opts Options) (*ResultFile, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	v, err := binfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = v.Close() }()

	std, err := v.ReadStandardHeader()
	if err != nil {
		return nil, err
	}
	if std.Format != binfile.FormatResult {
		log.Warn("unexpected file format for result file", "path", path, "format", std.Format.String())
	}
	h, err := readHeader(v)
	if err != nil {
		return nil, err
	}

	neqv, err := v.Int32sAt(binfile.DataOffset(h.PtrNOD), int(h.Nodes))
	if err != nil {
		return nil, fmt.Errorf("read node equivalence table: %w", err)
	}
	rpointers, err := v.Int32sAt(binfile.DataOffset(h.PtrDSI), int(h.Sets))
	if err != nil {
		return nil, fmt.Errorf("read result set directory: %w", err)
	}
	var times []float64
	if h.PtrTIM > 0 && h.Sets > 0 {
		if times, err = v.Float64sAt(binfile.DataOffset(h.PtrTIM), int(h.Sets)); err != nil {
			return nil, fmt.Errorf("read time table: %w", err)
		}
	} else {
		times = make([]float64, h.Sets)
	}

	sidx := argsort(neqv)
	nnum := make([]int32, len(neqv))
	for i, j := range sidx {
		nnum[i] = neqv[j]
	}

	log.Debug("opened result file",
		"path", path,
		"order", v.Order.String(),
		"nodes", h.Nodes,
		"dofs", h.DOFs,
		"sets", h.Sets,
	)
	return &ResultFile{
		Path:      path,
		Order:     v.Order,
		Standard:  std,
		Header:    h,
		neqv:      neqv,
		sidx:      sidx,
		nnum:      nnum,
		rpointers: rpointers,
		times:     times,
		log:       log,
	}, nil
}

// argsort returns the stable ascending permutation of vals.
func argsort(vals []int32) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(vals[a], vals[b]) })
	return idx
}

// SetCount returns the number of result sets.
func (r *ResultFile) SetCount() int { return len(r.rpointers) }

// NodeCount returns the number of nodes with results.
func (r *ResultFile) NodeCount() int { return len(r.neqv) }

// DOFCount returns the number of DOFs per node.
func (r *ResultFile) DOFCount() int { return int(r.Header.DOFs) }

// Neqv returns the node numbers in on-disk order.
func (r *ResultFile) Neqv() []int32 { return slices.Clone(r.neqv) }

// NodeNumbers returns the node numbers in ascending order.
func (r *ResultFile) NodeNumbers() []int32 { return slices.Clone(r.nnum) }

// SortIndex returns the permutation mapping sorted rows to on-disk rows:
// NodeNumbers()[i] == Neqv()[SortIndex()[i]].
func (r *ResultFile) SortIndex() []int { return slices.Clone(r.sidx) }

// TimeValues returns the time or frequency of every result set.
func (r *ResultFile) TimeValues() []float64 { return slices.Clone(r.times) }

// NodalSolution decodes the nodal DOF block of result set index. Rows of
// the returned matrix correspond to the returned node numbers.
func (r *ResultFile) NodalSolution(ctx context.Context, index int, order Order) ([]int32, *mat.Dense, error) {
	if index < 0 || index >= len(r.rpointers) {
		return nil, nil, &errs.NotFoundError{What: "result set", Key: index, Available: len(r.rpointers)}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	v, err := binfile.Open(r.Path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = v.Close() }()

	base := int64(r.rpointers[index])
	nsl, err := v.Int32At(binfile.WordOffset(base + itemNSL))
	if err != nil {
		return nil, nil, fmt.Errorf("read solution pointer of set %d: %w", index, err)
	}
	nodes, dofs := len(r.neqv), int(r.Header.DOFs)
	// bounds are checked against the file before anything is allocated
	raw, err := v.Float64sAt(binfile.DataOffset(base+int64(nsl)), nodes*dofs)
	if err != nil {
		return nil, nil, fmt.Errorf("read nodal solution of set %d: %w", index, err)
	}
	r.log.Debug("read nodal solution", "set", index, "order", order.String())

	if order == Unsorted {
		return r.Neqv(), mat.NewDense(nodes, dofs, raw), nil
	}
	sorted := make([]float64, len(raw))
	for i, j := range r.sidx {
		copy(sorted[i*dofs:(i+1)*dofs], raw[j*dofs:(j+1)*dofs])
	}
	return r.NodeNumbers(), mat.NewDense(nodes, dofs, sorted), nil
}

// NodeIndex returns the sorted row of node.
func (r *ResultFile) NodeIndex(node int32) (int, error) {
	i, ok := slices.BinarySearch(r.nnum, node)
	if !ok {
		return -1, &errs.NotFoundError{What: "node", Key: node, Available: len(r.nnum)}
	}
	return i, nil
}

// CrossReference maps every node number in nodes to its sorted row. All
// nodes must be present in the result file; a result file covering a
// subset of the nodes is rejected.
func (r *ResultFile) CrossReference(nodes []int32) ([]int, error) {
	out := make([]int, len(nodes))
	var (
		missing int
		first   error
	)
	for k, n := range nodes {
		i, err := r.NodeIndex(n)
		if err != nil {
			if first == nil {
				first = err
			}
			missing++
			continue
		}
		out[k] = i
	}
	if missing > 0 {
		return nil, fmt.Errorf("%d of %d nodes absent from %s: %w", missing, len(nodes), r.Path, first)
	}
	return out, nil
}
