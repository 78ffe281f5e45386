package testfixture

import (
	"encoding/binary"
	"testing"
)

// Equation is one stored matrix row: Cols are 1-based equation numbers of
// the lower-triangle terms, the final entry being the diagonal.
type Equation struct {
	Cols []int32
	Vals []float64
}

// Full describes a synthetic .full file. K and M hold one Equation per
// equation; a nil matrix is written with a zero term count.
type Full struct {
	Order       binary.ByteOrder
	Neqv        []int32
	DOFPerNode  []int32
	Const       []int32
	K, M        []Equation
	Lumped      bool
	Unsymmetric bool
}

func (f Full) Build() []byte {
	w := NewWords(f.Order)
	w.StandardHeader(Header{Format: 4, Units: 1, Version: "19.2", Jobname: "file"})

	hdr := w.IntRecord(nil, 100)
	numdof := int32(0)
	for _, n := range f.DOFPerNode {
		numdof = max(numdof, n)
	}
	labels := make([]int32, numdof)
	for i := range labels {
		labels[i] = int32(i + 1)
	}
	w.IntRecord(labels, 0)
	w.IntRecord(f.Neqv, 0)
	ptrDOF := w.IntRecord(f.DOFPerNode, 0)
	w.IntRecord(f.Const, 0)

	block := func(eqs []Equation) (ptr int64, nterm, wfmax int32) {
		if eqs == nil {
			return 0, 0, 0
		}
		ptr = w.Len()
		for _, eq := range eqs {
			w.IntRecord(eq.Cols, 0)
			w.DoubleRecord(eq.Vals)
			nterm += int32(len(eq.Cols))
			wfmax = max(wfmax, int32(len(eq.Cols)))
		}
		return ptr, nterm, wfmax
	}
	ptrSTF, ntermK, wfK := block(f.K)
	ptrMAS, ntermM, wfM := block(f.M)

	fh := func(item int, v int32) { w.SetInt32(hdr+1+int64(item), v) }
	fh(1, -4)
	fh(2, int32(len(f.Const)))
	fh(6, max(wfK, wfM))
	fh(8, numdof)
	fh(9, ntermK)
	if f.Lumped {
		fh(11, 1)
	}
	if f.Unsymmetric {
		fh(14, 1)
	}
	fh(19, int32(ptrSTF))
	fh(27, int32(ptrMAS))
	fh(33, int32(len(f.Neqv)))
	fh(34, ntermM)
	fh(36, int32(ptrDOF))
	return w.Bytes()
}

// WriteFull builds f and writes it to a temp file.
func WriteFull(t testing.TB, f Full) string {
	t.Helper()
	w := NewWords(f.Order)
	w.buf = f.Build()
	return w.WriteFile(t, "file.full")
}
