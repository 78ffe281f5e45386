package sparse

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// 3x3 upper triangle of
//
//	[ 4 -1  0 ]
//	[-1  4 -2 ]
//	[ 0 -2  5 ]
func halfStored() *Triplets {
	t := New(3, 5)
	t.Append(0, 0, 4)
	t.Append(0, 1, -1)
	t.Append(1, 1, 4)
	t.Append(1, 2, -2)
	t.Append(2, 2, 5)
	return t
}

func TestMirrorMatchesSymDense(t *testing.T) {
	t.Parallel()
	half := halfStored()
	full := half.Mirror()
	if full.Len() != 7 {
		t.Fatalf("mirrored length: got %d want 7", full.Len())
	}
	sym, err := half.SymDense()
	if err != nil {
		t.Fatalf("SymDense: %v", err)
	}
	dense, err := full.Dense()
	if err != nil {
		t.Fatalf("Dense: %v", err)
	}
	if !mat.Equal(sym, dense) {
		t.Fatalf("mirror mismatch:\n%v\n%v", mat.Formatted(sym), mat.Formatted(dense))
	}
	if dense.At(2, 1) != -2 {
		t.Fatalf("transpose term: got %v", dense.At(2, 1))
	}
}

func TestSymDenseSumsDuplicates(t *testing.T) {
	t.Parallel()
	tr := New(2, 3)
	tr.Append(0, 0, 1)
	tr.Append(0, 0, 2)
	tr.Append(1, 0, 5)
	s, err := tr.SymDense()
	if err != nil {
		t.Fatal(err)
	}
	if s.At(0, 0) != 3 || s.At(0, 1) != 5 {
		t.Fatalf("got %v", mat.Formatted(s))
	}
}

func TestPermuteAndUpper(t *testing.T) {
	t.Parallel()
	perm := []int{2, 0, 1}
	p, err := halfStored().Permute(perm)
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	u := p.Upper()
	for i := range u.Values {
		if u.Rows[i] > u.Cols[i] {
			t.Fatalf("entry %d below diagonal: (%d,%d)", i, u.Rows[i], u.Cols[i])
		}
	}
	orig, _ := halfStored().SymDense()
	got, _ := u.SymDense()
	for i := range 3 {
		for j := range 3 {
			if orig.At(i, j) != got.At(perm[i], perm[j]) {
				t.Fatalf("(%d,%d): got %v want %v", i, j, got.At(perm[i], perm[j]), orig.At(i, j))
			}
		}
	}
	if _, err := halfStored().Permute([]int{0}); err == nil {
		t.Fatal("expected error for short permutation")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		tr   *Triplets
		ok   bool
	}{
		{"valid", halfStored(), true},
		{"out of range", &Triplets{N: 2, Rows: []int32{2}, Cols: []int32{0}, Values: []float64{1}}, false},
		{"negative", &Triplets{N: 2, Rows: []int32{0}, Cols: []int32{-1}, Values: []float64{1}}, false},
		{"length mismatch", &Triplets{N: 2, Rows: []int32{0, 1}, Cols: []int32{0}, Values: []float64{1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.tr.Validate(); (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	if _, err := New(0, 0).SymDense(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
