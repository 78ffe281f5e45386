// Package full decodes the assembled stiffness and mass matrices stored in
// ANSYS .full files.
package full

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
	"github.com/samcharles93/ansysio/pkg/sparse"
)

// Options configures Open. A nil Logger discards log output.
type Options struct {
	Logger logger.Logger
}

// FullFile is an opened .full file. Open rejects lumped and unsymmetric
// files, so every FullFile holds real symmetric matrices.
type FullFile struct {
	Path     string
	Order    binary.ByteOrder
	Standard binfile.StandardHeader
	Header   Header

	log logger.Logger
}

// DOFRef names the node and local degree of freedom behind one matrix
// row/column. DOF is the zero-based position within the node's DOF set.
type DOFRef struct {
	Node int32 `json:"node"`
	DOF  int32 `json:"dof"`
}

// Matrices holds the decoded system. K and M are half stored: each entry
// has row <= col, the diagonal included once. Indices address DOFRef.
// A matrix missing from the file is nil.
type Matrices struct {
	DOFRef      []DOFRef         `json:"dof_ref"`
	K           *sparse.Triplets `json:"k,omitempty"`
	M           *sparse.Triplets `json:"m,omitempty"`
	Constrained []DOFRef         `json:"constrained"`
}

// LoadOptions configures LoadKM.
type LoadOptions struct {
	// Sort orders DOFRef by node number then DOF.
	Sort bool
}

// Open reads and validates the headers of the .full file at path.
func Open(path string, opts Options) (*FullFile, error) {
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
	if std.Format != binfile.FormatFull {
		log.Warn("unexpected file format for full file", "path", path, "format", std.Format.String())
	}
	h, err := readHeader(v)
	if err != nil {
		return nil, err
	}
	log.Debug("opened full file", "path", path, "equations", h.Equations, "nodes", h.Nodes)
	return &FullFile{Path: path, Order: v.Order, Standard: std, Header: h, log: log}, nil
}

// dofTable is the equation layout: per node its DOF count, per equation
// its position among the free equations.
type dofTable struct {
	neqv        []int32
	ndof        []int32
	nfree       int
	refs        []DOFRef // free equations, file order
	constrained []DOFRef // constrained equations, file order
	freeIdx     []int    // equation -> index into refs, -1 when constrained
}

func (f *FullFile) readDOFTable(v *binfile.View) (*dofTable, error) {
	h := f.Header
	// standard header, full header, DOF labels, node equivalence
	recs, err := v.Records(0, 4)
	if err != nil {
		return nil, fmt.Errorf("walk header records: %w", err)
	}
	neqv, _, err := v.RecordInt32s(recs[3].Word)
	if err != nil {
		return nil, fmt.Errorf("read node equivalence table: %w", err)
	}
	ndof, rec, err := v.RecordInt32s(h.PtrDOF)
	if err != nil {
		return nil, fmt.Errorf("read DOFs per node: %w", err)
	}
	constraints, _, err := v.RecordInt32s(rec.Next())
	if err != nil {
		return nil, fmt.Errorf("read constraint table: %w", err)
	}

	nodes, neqn := int(h.Nodes), int(h.Equations)
	switch {
	case len(neqv) < nodes:
		return nil, &errs.FormatError{Path: f.Path, Offset: recs[3].DataOffset(), Expected: fmt.Sprintf("%d node numbers", nodes), Found: fmt.Sprint(len(neqv)), Msg: "short node equivalence table"}
	case len(ndof) < nodes:
		return nil, &errs.FormatError{Path: f.Path, Offset: binfile.DataOffset(h.PtrDOF), Expected: fmt.Sprintf("%d DOF counts", nodes), Found: fmt.Sprint(len(ndof)), Msg: "short DOF table"}
	case len(constraints) < neqn:
		return nil, &errs.FormatError{Path: f.Path, Offset: rec.Next() * binfile.WordSize, Expected: fmt.Sprintf("%d constraint flags", neqn), Found: fmt.Sprint(len(constraints)), Msg: "short constraint table"}
	}
	var total int
	for i, n := range ndof[:nodes] {
		if n < 0 {
			return nil, &errs.FormatError{Path: f.Path, Offset: binfile.DataOffset(h.PtrDOF) + int64(i)*binfile.WordSize, Expected: "non-negative DOF count", Found: fmt.Sprint(n), Msg: fmt.Sprintf("bad DOF count for node %d", neqv[i])}
		}
		total += int(n)
	}
	if total != neqn {
		return nil, &errs.FormatError{Path: f.Path, Offset: binfile.DataOffset(h.PtrDOF), Expected: fmt.Sprintf("%d equations", neqn), Found: fmt.Sprint(total), Msg: "DOFs per node do not add up to the equation count"}
	}

	t := &dofTable{
		neqv:    neqv[:nodes],
		ndof:    ndof[:nodes],
		freeIdx: make([]int, neqn),
	}
	eq := 0
	for i, node := range t.neqv {
		for j := range t.ndof[i] {
			ref := DOFRef{Node: node, DOF: j}
			if constraints[eq] > 0 {
				t.freeIdx[eq] = len(t.refs)
				t.refs = append(t.refs, ref)
			} else {
				t.freeIdx[eq] = -1
				t.constrained = append(t.constrained, ref)
			}
			eq++
		}
	}
	t.nfree = len(t.refs)
	return t, nil
}

// LoadKM decodes the DOF reference table and both matrices. Constrained
// equations are dropped from K and M and listed in Constrained.
func (f *FullFile) LoadKM(ctx context.Context, opts LoadOptions) (*Matrices, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := binfile.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = v.Close() }()

	t, err := f.readDOFTable(v)
	if err != nil {
		return nil, err
	}

	// eqIndex maps an equation to its output row, -1 when constrained.
	refs := t.refs
	eqIndex := make([]int32, len(t.freeIdx))
	pos := make([]int32, t.nfree)
	for i := range pos {
		pos[i] = int32(i)
	}
	if opts.Sort {
		order := make([]int, t.nfree)
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			if c := cmp.Compare(t.refs[a].Node, t.refs[b].Node); c != 0 {
				return c
			}
			return cmp.Compare(t.refs[a].DOF, t.refs[b].DOF)
		})
		refs = make([]DOFRef, t.nfree)
		for newPos, old := range order {
			pos[old] = int32(newPos)
			refs[newPos] = t.refs[old]
		}
	}
	for e, c := range t.freeIdx {
		if c < 0 {
			eqIndex[e] = -1
			continue
		}
		eqIndex[e] = pos[c]
	}

	out := &Matrices{DOFRef: refs, Constrained: t.constrained}
	blocks := []struct {
		name  string
		ptr   int64
		terms int64
		dst   **sparse.Triplets
	}{
		{"stiffness", f.Header.PtrSTF, f.Header.TermsK, &out.K},
		{"mass", f.Header.PtrMAS, f.Header.TermsM, &out.M},
	}
	for _, b := range blocks {
		if b.terms == 0 {
			f.log.Warn("matrix missing from full file", "matrix", b.name, "path", f.Path)
			continue
		}
		m, err := f.readMatrix(ctx, v, b.ptr, b.terms, eqIndex, t.nfree)
		if err != nil {
			return nil, fmt.Errorf("read %s matrix: %w", b.name, err)
		}
		*b.dst = m
	}
	f.log.Debug("loaded full matrices", "path", f.Path, "free", t.nfree, "constrained", len(t.constrained), "sorted", opts.Sort)
	return out, nil
}

// readMatrix walks one record pair per equation starting at word ptr. The
// integer record lists 1-based equation numbers, the last being the
// diagonal; the double record holds the matching values.
func (f *FullFile) readMatrix(ctx context.Context, v *binfile.View, ptr, terms int64, eqIndex []int32, nfree int) (*sparse.Triplets, error) {
	neqn := len(eqIndex)
	out := sparse.New(nfree, int(min(terms, int64(1)<<24)))
	word := ptr
	for i := range neqn {
		if i&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cols, rec, err := v.RecordInt32s(word)
		if err != nil {
			return nil, fmt.Errorf("equation %d: %w", i+1, err)
		}
		vals, drec, err := v.RecordFloat64s(rec.Next())
		if err != nil {
			return nil, fmt.Errorf("equation %d: %w", i+1, err)
		}
		word = drec.Next()

		col := eqIndex[i]
		if col < 0 {
			continue
		}
		if len(cols) == 0 || len(vals) != len(cols) {
			return nil, &errs.FormatError{
				Path:     f.Path,
				Offset:   rec.DataOffset(),
				Expected: fmt.Sprintf("%d values", len(cols)),
				Found:    fmt.Sprint(len(vals)),
				Msg:      fmt.Sprintf("malformed row for equation %d", i+1),
			}
		}
		last := len(cols) - 1
		for k, eq := range cols[:last] {
			if eq < 1 || int(eq) > neqn {
				return nil, &errs.FormatError{
					Path:     f.Path,
					Offset:   rec.DataOffset() + int64(k)*binfile.WordSize,
					Expected: fmt.Sprintf("equation in 1..%d", neqn),
					Found:    fmt.Sprint(eq),
					Msg:      "equation number out of range",
				}
			}
			row := eqIndex[eq-1]
			if row < 0 {
				continue
			}
			r, c := row, col
			if r > c {
				r, c = c, r
			}
			out.Append(r, c, vals[k])
		}
		out.Append(col, col, vals[last])
	}
	return out, nil
}
