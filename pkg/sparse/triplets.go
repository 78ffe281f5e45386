// Package sparse holds coordinate-format matrices decoded from ANSYS files
// and the glue to turn them into gonum matrices.
package sparse

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrEmpty is returned when a dense conversion is requested for a zero
// sized matrix.
var ErrEmpty = errors.New("sparse: empty matrix")

// Triplets is an N by N matrix in coordinate form. Entries with the same
// (row, col) are summed when materialized.
type Triplets struct {
	N      int       `json:"n"`
	Rows   []int32   `json:"rows"`
	Cols   []int32   `json:"cols"`
	Values []float64 `json:"values"`
}

// New returns an empty n by n matrix with room for capacity terms.
func New(n, capacity int) *Triplets {
	return &Triplets{
		N:      n,
		Rows:   make([]int32, 0, capacity),
		Cols:   make([]int32, 0, capacity),
		Values: make([]float64, 0, capacity),
	}
}

func (t *Triplets) Len() int { return len(t.Values) }

func (t *Triplets) Append(row, col int32, v float64) {
	t.Rows = append(t.Rows, row)
	t.Cols = append(t.Cols, col)
	t.Values = append(t.Values, v)
}

// Validate checks that the three slices agree in length and every index
// lies in [0, N).
func (t *Triplets) Validate() error {
	if len(t.Rows) != len(t.Values) || len(t.Cols) != len(t.Values) {
		return fmt.Errorf("sparse: length mismatch rows=%d cols=%d values=%d", len(t.Rows), len(t.Cols), len(t.Values))
	}
	for i := range t.Values {
		r, c := t.Rows[i], t.Cols[i]
		if r < 0 || int(r) >= t.N || c < 0 || int(c) >= t.N {
			return fmt.Errorf("sparse: entry %d at (%d,%d) outside %dx%d", i, r, c, t.N, t.N)
		}
	}
	return nil
}

// Mirror returns the full symmetric storage of a half-stored matrix: every
// off-diagonal entry is followed by its transpose.
func (t *Triplets) Mirror() *Triplets {
	out := New(t.N, 2*t.Len())
	for i, v := range t.Values {
		r, c := t.Rows[i], t.Cols[i]
		out.Append(r, c, v)
		if r != c {
			out.Append(c, r, v)
		}
	}
	return out
}

// Permute relabels index i as perm[i].
func (t *Triplets) Permute(perm []int) (*Triplets, error) {
	if len(perm) != t.N {
		return nil, fmt.Errorf("sparse: permutation of length %d for %dx%d matrix", len(perm), t.N, t.N)
	}
	out := New(t.N, t.Len())
	for i, v := range t.Values {
		out.Append(int32(perm[t.Rows[i]]), int32(perm[t.Cols[i]]), v)
	}
	return out, nil
}

// Upper reorients every entry so that row <= col.
func (t *Triplets) Upper() *Triplets {
	out := New(t.N, t.Len())
	for i, v := range t.Values {
		r, c := t.Rows[i], t.Cols[i]
		if r > c {
			r, c = c, r
		}
		out.Append(r, c, v)
	}
	return out
}

// SymDense materializes half-stored triplets as a dense symmetric matrix.
// It must not be called on mirrored triplets, whose off-diagonal terms
// would be counted twice.
func (t *Triplets) SymDense() (*mat.SymDense, error) {
	if t.N == 0 {
		return nil, ErrEmpty
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s := mat.NewSymDense(t.N, nil)
	for i, v := range t.Values {
		r, c := int(t.Rows[i]), int(t.Cols[i])
		s.SetSym(r, c, s.At(r, c)+v)
	}
	return s, nil
}

// Dense materializes the triplets as stored, without symmetrization.
func (t *Triplets) Dense() (*mat.Dense, error) {
	if t.N == 0 {
		return nil, ErrEmpty
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	d := mat.NewDense(t.N, t.N, nil)
	for i, v := range t.Values {
		r, c := int(t.Rows[i]), int(t.Cols[i])
		d.Set(r, c, d.At(r, c)+v)
	}
	return d, nil
}
