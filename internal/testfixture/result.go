package testfixture

import (
	"encoding/binary"
	"testing"
)

// Result describes a synthetic result file. Sets holds one flattened
// node-by-DOF block per result set in on-disk (Neqv) row order.
type Result struct {
	Order  binary.ByteOrder
	Neqv   []int32
	NumDOF int
	Sets   [][]float64
	Times  []float64
	Title  string
}

const (
	solutionHeader = 100
	nslItem        = 10
)

// Build lays the file out as: standard header, result header, node
// equivalence table, set directory, time table, then per set a solution
// header followed by its DOF block.
func (r Result) Build() []byte {
	w := NewWords(r.Order)
	w.StandardHeader(Header{Format: 12, Units: 1, Version: "19.2", Jobname: "file", Title: r.Title, Time: 143005, Date: 20201017})

	hdr := w.IntRecord(nil, 100)
	ptrNOD := w.IntRecord(r.Neqv, 0)
	ptrDSI := w.IntRecord(make([]int32, len(r.Sets)), 0)
	times := r.Times
	if len(times) < len(r.Sets) {
		times = make([]float64, len(r.Sets))
		copy(times, r.Times)
		for i := len(r.Times); i < len(times); i++ {
			times[i] = float64(i + 1)
		}
	}
	ptrTIM := w.DoubleRecord(times)

	for i, set := range r.Sets {
		sol := w.IntRecord(nil, solutionHeader)
		dof := w.DoubleRecord(set)
		w.SetInt32(sol+2+nslItem, int32(dof-sol))
		w.SetInt32(ptrDSI+2+int64(i), int32(sol))
	}

	rh := func(item int, v int32) { w.SetInt32(hdr+2+int64(item), v) }
	rh(0, 12)
	rh(2, int32(len(r.Neqv)))
	rh(4, int32(r.NumDOF))
	rh(8, int32(len(r.Sets)))
	rh(10, int32(ptrDSI))
	rh(11, int32(ptrTIM))
	rh(14, int32(ptrNOD))
	return w.Bytes()
}

// WriteResult builds r and writes it to a temp file.
func WriteResult(t testing.TB, r Result) string {
	t.Helper()
	w := NewWords(r.Order)
	w.buf = r.Build()
	return w.WriteFile(t, "file.rst")
}
