package rst

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/samcharles93/ansysio/internal/testfixture"
	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
)

// three nodes stored out of order, two DOFs each; values encode node*10+dof
func sampleResult(order binary.ByteOrder) testfixture.Result {
	neqv := []int32{30, 10, 20}
	set := func(scale float64) []float64 {
		var out []float64
		for _, n := range neqv {
			out = append(out, scale*float64(n*10+0), scale*float64(n*10+1))
		}
		return out
	}
	return testfixture.Result{
		Order:  order,
		Neqv:   neqv,
		NumDOF: 2,
		Sets:   [][]float64{set(1), set(-1)},
		Times:  []float64{0.5, 1.0},
		Title:  "three node",
	}
}

func openSample(t *testing.T, order binary.ByteOrder) *ResultFile {
	t.Helper()
	path := testfixture.WriteResult(t, sampleResult(order))
	r, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

func TestOpenHeaderBothOrders(t *testing.T) {
	t.Parallel()
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			t.Parallel()
			r := openSample(t, order)
			if r.Order != order {
				t.Fatalf("order: got %v want %v", r.Order, order)
			}
			if r.NodeCount() != 3 || r.DOFCount() != 2 || r.SetCount() != 2 {
				t.Fatalf("counts: got %d nodes %d dofs %d sets", r.NodeCount(), r.DOFCount(), r.SetCount())
			}
			if r.Standard.Format != binfile.FormatResult || r.Standard.Title != "three node" {
				t.Fatalf("standard header: %+v", r.Standard)
			}
			if got := r.TimeValues(); !slices.Equal(got, []float64{0.5, 1.0}) {
				t.Fatalf("times: got %v", got)
			}
		})
	}
}

func TestSortPermutation(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.LittleEndian)
	nnum, neqv, sidx := r.NodeNumbers(), r.Neqv(), r.SortIndex()
	if !slices.Equal(nnum, []int32{10, 20, 30}) {
		t.Fatalf("nnum: got %v", nnum)
	}
	for i := range nnum {
		if nnum[i] != neqv[sidx[i]] {
			t.Fatalf("nnum[%d]=%d, neqv[sidx[%d]]=%d", i, nnum[i], i, neqv[sidx[i]])
		}
	}
	// callers get copies
	nnum[0] = -1
	if r.NodeNumbers()[0] != 10 {
		t.Fatal("NodeNumbers exposed internal state")
	}
}

func TestNodalSolutionSorted(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.BigEndian)
	ctx := context.Background()
	for set, scale := range []float64{1, -1} {
		nodes, vals, err := r.NodalSolution(ctx, set, Sorted)
		if err != nil {
			t.Fatalf("NodalSolution(%d): %v", set, err)
		}
		if !slices.IsSorted(nodes) {
			t.Fatalf("nodes not ascending: %v", nodes)
		}
		rows, cols := vals.Dims()
		if rows != 3 || cols != 2 {
			t.Fatalf("dims: got %dx%d", rows, cols)
		}
		for i, n := range nodes {
			for j := range cols {
				want := scale * float64(n*10+int32(j))
				if got := vals.At(i, j); got != want {
					t.Fatalf("set %d node %d dof %d: got %v want %v", set, n, j, got, want)
				}
			}
		}
	}
}

func TestNodalSolutionUnsortedAndIdempotent(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.LittleEndian)
	ctx := context.Background()
	nodes, vals, err := r.NodalSolution(ctx, 0, Unsorted)
	if err != nil {
		t.Fatalf("NodalSolution: %v", err)
	}
	if !slices.Equal(nodes, []int32{30, 10, 20}) {
		t.Fatalf("unsorted nodes: got %v", nodes)
	}
	if vals.At(0, 1) != 301 {
		t.Fatalf("first row: got %v", vals.At(0, 1))
	}

	_, a, err := r.NodalSolution(ctx, 1, Sorted)
	if err != nil {
		t.Fatal(err)
	}
	_, b, err := r.NodalSolution(ctx, 1, Sorted)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.RawMatrix().Data, b.RawMatrix().Data) {
		t.Fatal("repeated reads differ")
	}
}

func TestNodalSolutionIndexOutOfRange(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.LittleEndian)
	for _, idx := range []int{-1, 2, 99} {
		_, _, err := r.NodalSolution(context.Background(), idx, Sorted)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("index %d: expected not found, got %v", idx, err)
		}
		if !strings.Contains(err.Error(), "2 available") {
			t.Fatalf("index %d: count missing from %q", idx, err)
		}
	}
}

func TestNodalSolutionCancelled(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.LittleEndian)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := r.NodalSolution(ctx, 0, Sorted); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCrossReference(t *testing.T) {
	t.Parallel()
	r := openSample(t, binary.LittleEndian)

	rows, err := r.CrossReference([]int32{30, 10})
	if err != nil {
		t.Fatalf("CrossReference: %v", err)
	}
	if !slices.Equal(rows, []int{2, 0}) {
		t.Fatalf("rows: got %v", rows)
	}

	_, err = r.CrossReference([]int32{10, 40, 50})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 of 3 nodes") || !strings.Contains(err.Error(), "node 40") {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestOpenRejectsEmptyHeader(t *testing.T) {
	t.Parallel()
	res := sampleResult(binary.LittleEndian)
	res.NumDOF = 0
	path := testfixture.WriteResult(t, res)
	if _, err := Open(path, Options{}); !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestOpenRejectsImplausibleDOFCount(t *testing.T) {
	t.Parallel()
	for _, dofs := range []int{MaxDOFs + 1, math.MaxInt32} {
		res := sampleResult(binary.LittleEndian)
		res.NumDOF = dofs
		path := testfixture.WriteResult(t, res)
		_, err := Open(path, Options{})
		var fe *errs.FormatError
		if !errors.As(err, &fe) || fe.Offset != binfile.WordOffset(headerWord+itemDOFs) {
			t.Fatalf("dofs %d: expected format error at the DOF count, got %v", dofs, err)
		}
	}
}

func TestNodalSolutionTruncatedBlock(t *testing.T) {
	t.Parallel()
	// the header claims more DOFs than the last set's block holds
	res := sampleResult(binary.BigEndian)
	res.NumDOF = MaxDOFs
	path := testfixture.WriteResult(t, res)
	r, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, _, err = r.NodalSolution(context.Background(), 1, Sorted)
	if !errors.Is(err, errs.ErrFormat) || !strings.Contains(err.Error(), "set 1") {
		t.Fatalf("expected format error for set 1, got %v", err)
	}
}
