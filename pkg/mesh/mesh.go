// Package mesh converts archive elements into VTK unstructured grid cells.
package mesh

import (
	"fmt"

	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/errs"
	"gonum.org/v1/gonum/mat"
)

// Family groups ANSYS element types by the cell shapes they can produce.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyPoint
	FamilyLine
	FamilyShell
	FamilySolid
	FamilyTet10
	FamilyLinearLine
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyPoint:
		return "point"
	case FamilyLine:
		return "line"
	case FamilyShell:
		return "shell"
	case FamilySolid:
		return "solid"
	case FamilyTet10:
		return "tet10"
	case FamilyLinearLine:
		return "linear-line"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// FamilyOf returns the family of an ANSYS element type number.
func FamilyOf(ansysType int32) Family {
	return familyByType[ansysType]
}

// CellType is a VTK cell type code.
type CellType uint8

const (
	CellEmpty               CellType = 0
	CellVertex              CellType = 1
	CellLine                CellType = 3
	CellTriangle            CellType = 5
	CellQuad                CellType = 9
	CellTetra               CellType = 10
	CellHexahedron          CellType = 12
	CellWedge               CellType = 13
	CellPyramid             CellType = 14
	CellQuadraticEdge       CellType = 21
	CellQuadraticTriangle   CellType = 22
	CellQuadraticQuad       CellType = 23
	CellQuadraticTetra      CellType = 24
	CellQuadraticHexahedron CellType = 25
	CellQuadraticWedge      CellType = 26
	CellQuadraticPyramid    CellType = 27
)

// Cells is a VTK cell array. Connectivity stores each cell as its point
// count followed by point indices; Offsets[i] is the position of cell i's
// count. A point index of -1 marks a missing midside node.
type Cells struct {
	Offsets      []int64
	Types        []CellType
	Connectivity []int64
}

func (c *Cells) Len() int { return len(c.Types) }

// Cell returns the point indices of cell i.
func (c *Cells) Cell(i int) []int64 {
	off := c.Offsets[i]
	n := c.Connectivity[off]
	return c.Connectivity[off+1 : off+1+n]
}

// Grid is an unstructured grid: node coordinates plus cells indexing them.
type Grid struct {
	NodeNumbers []int32
	Points      *mat.Dense
	Cells       *Cells
}

// FromArchive builds a grid from the nodes and elements of a decoded archive.
func FromArchive(a *archive.Archive) (*Grid, error) {
	cells, err := ToCells(a.Elements, a.TypeTable(), a.Nodes.Numbers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Path, err)
	}
	return &Grid{NodeNumbers: a.Nodes.Numbers, Points: a.Nodes.Coords, Cells: cells}, nil
}

// ToCells converts elements to VTK cells. types maps an element's local
// type number to its ANSYS element type; elements whose type is undeclared
// or has no cell form become empty cells. Element node numbers are mapped
// to their index in nodes; node 0 and padding map to -1, any other number
// missing from nodes is an error.
func ToCells(elems []archive.Element, types map[int32]int32, nodes []int32) (*Cells, error) {
	index := make(map[int32]int64, len(nodes))
	for i, n := range nodes {
		index[n] = int64(i)
	}
	b := &cellBuilder{
		index: index,
		cells: &Cells{
			Offsets:      make([]int64, 0, len(elems)),
			Types:        make([]CellType, 0, len(elems)),
			Connectivity: make([]int64, 0, len(elems)*9),
		},
	}
	for i := range elems {
		if err := b.add(&elems[i], FamilyOf(types[elems[i].Type])); err != nil {
			return nil, err
		}
	}
	return b.cells, nil
}

type cellBuilder struct {
	index map[int32]int64
	cells *Cells
	elem  *archive.Element
	err   error
}

func (b *cellBuilder) start(n int, typ CellType) {
	b.cells.Offsets = append(b.cells.Offsets, int64(len(b.cells.Connectivity)))
	b.cells.Types = append(b.cells.Types, typ)
	b.cells.Connectivity = append(b.cells.Connectivity, int64(n))
}

// pick appends the points at the given element node positions.
func (b *cellBuilder) pick(pos ...int) {
	for _, p := range pos {
		b.cells.Connectivity = append(b.cells.Connectivity, b.point(b.elem.Nodes[p]))
	}
}

func (b *cellBuilder) pickRange(from, to int) {
	for p := from; p < to; p++ {
		b.pick(p)
	}
}

func (b *cellBuilder) pad(n int) {
	for range n {
		b.cells.Connectivity = append(b.cells.Connectivity, -1)
	}
}

func (b *cellBuilder) point(node int32) int64 {
	if node <= 0 {
		return -1
	}
	i, ok := b.index[node]
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("element %d: %w", b.elem.Number, &errs.NotFoundError{What: "node", Key: node})
		}
		return -1
	}
	return i
}

func (b *cellBuilder) add(e *archive.Element, fam Family) error {
	b.elem = e
	n := &e.Nodes
	nnode := int(e.NodeCount)

	switch fam {
	case FamilyPoint:
		b.start(1, CellVertex)
		b.pick(0)
	case FamilyLine, FamilyLinearLine:
		if fam == FamilyLine && nnode > 2 {
			b.start(3, CellQuadraticEdge)
			b.pick(0, 1, 2)
		} else {
			b.start(2, CellLine)
			b.pick(0, 1)
		}
	case FamilyShell:
		quadratic := nnode > 4
		switch {
		case n[2] == n[3] && quadratic:
			b.start(6, CellQuadraticTriangle)
			b.pick(0, 1, 2, 4, 5, 7)
		case n[2] == n[3]:
			b.start(3, CellTriangle)
			b.pick(0, 1, 2)
		case quadratic:
			b.start(8, CellQuadraticQuad)
			b.pickRange(0, 8)
		default:
			b.start(4, CellQuad)
			b.pickRange(0, 4)
		}
	case FamilySolid:
		b.addSolid(n, nnode)
	case FamilyTet10:
		if nnode > 4 {
			b.start(10, CellQuadraticTetra)
			b.pickRange(0, min(nnode, 10))
			b.pad(10 - min(nnode, 10))
		} else {
			b.start(4, CellTetra)
			b.pickRange(0, 4)
		}
	default:
		b.start(0, CellEmpty)
	}
	return b.err
}

// addSolid tells the degenerate solid shapes apart by repeated corners:
// a wedge has node 7 equal to node 6, a pyramid also has node 6 equal to
// node 5, and a tetrahedron also has node 3 equal to node 2.
func (b *cellBuilder) addSolid(n *[archive.MaxElementNodes]int32, nnode int) {
	quadratic := nnode > 8
	switch {
	case n[6] != n[7]:
		if quadratic {
			b.start(20, CellQuadraticHexahedron)
			b.pickRange(0, nnode)
			b.pad(20 - nnode)
		} else {
			b.start(8, CellHexahedron)
			b.pickRange(0, 8)
		}
	case n[5] != n[6]:
		// reversed winding relative to VTK
		if quadratic {
			b.start(15, CellQuadraticWedge)
			b.pick(2, 1, 0, 6, 5, 4, 9, 8, 11, 13, 12, 15, 18, 17, 16)
		} else {
			b.start(6, CellWedge)
			b.pick(2, 1, 0, 6, 5, 4)
		}
	case n[2] != n[3]:
		if quadratic {
			b.start(13, CellQuadraticPyramid)
			b.pick(0, 1, 2, 3, 4, 8, 9, 10, 11, 16, 17, 18, 19)
		} else {
			b.start(5, CellPyramid)
			b.pickRange(0, 5)
		}
	default:
		if quadratic {
			b.start(10, CellQuadraticTetra)
			b.pick(0, 1, 2, 4, 8, 9, 11, 16, 17, 18)
		} else {
			b.start(4, CellTetra)
			b.pick(0, 1, 2, 4)
		}
	}
}
