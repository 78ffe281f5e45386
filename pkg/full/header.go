package full

import (
	"fmt"

	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
)

// The full header is read from word 104 so that item i lands at index i.
const (
	headerWord  = 104
	headerItems = 101

	itemFun04   = 1
	itemNeqn    = 2
	itemWFMax   = 6
	itemNumDOF  = 8
	itemNTermKl = 9
	itemNTermKh = 10
	itemLumpM   = 11
	itemKeyUns  = 14
	itemPtrSTFl = 19
	itemPtrSTFh = 20
	itemNTermMh = 22
	itemPtrMASl = 27
	itemPtrMASh = 28
	itemNNodes  = 33
	itemNTermMl = 34
	itemPtrDOFl = 36
	itemPtrDOFh = 37
)

// Header is the decoded .full file header.
type Header struct {
	Fun04       int32 `json:"fun04"`
	Equations   int32 `json:"equations"`
	WFMax       int32 `json:"wf_max"`
	DOFs        int32 `json:"dofs"`
	Nodes       int32 `json:"nodes"`
	TermsK      int64 `json:"terms_k"`
	TermsM      int64 `json:"terms_m"`
	Lumped      bool  `json:"lumped"`
	Unsymmetric bool  `json:"unsymmetric"`

	// Record pointers, in words.
	PtrSTF int64 `json:"ptr_stf"`
	PtrMAS int64 `json:"ptr_mas"`
	PtrDOF int64 `json:"ptr_dof"`
}

func longInt(lo, hi int32) int64 {
	return int64(hi)<<32 | int64(uint32(lo))
}

func readHeader(v *binfile.View) (Header, error) {
	items, err := v.Int32sAt(binfile.WordOffset(headerWord), headerItems)
	if err != nil {
		return Header{}, fmt.Errorf("read full header: %w", err)
	}
	h := Header{
		Fun04:       items[itemFun04],
		Equations:   items[itemNeqn],
		WFMax:       items[itemWFMax],
		DOFs:        items[itemNumDOF],
		Nodes:       items[itemNNodes],
		TermsK:      longInt(items[itemNTermKl], items[itemNTermKh]),
		TermsM:      longInt(items[itemNTermMl], items[itemNTermMh]),
		Lumped:      items[itemLumpM] != 0,
		Unsymmetric: items[itemKeyUns] != 0,
		PtrSTF:      longInt(items[itemPtrSTFl], items[itemPtrSTFh]),
		PtrMAS:      longInt(items[itemPtrMASl], items[itemPtrMASh]),
		PtrDOF:      longInt(items[itemPtrDOFl], items[itemPtrDOFh]),
	}

	reject := func(item int, expected, msg string) error {
		return &errs.FormatError{
			Path:     v.Path,
			Offset:   binfile.WordOffset(headerWord + int64(item)),
			Expected: expected,
			Found:    fmt.Sprint(items[item]),
			Msg:      msg,
		}
	}
	switch {
	case h.Lumped:
		return h, reject(itemLumpM, "0", "lumped mass matrices are not supported")
	case h.Unsymmetric:
		return h, reject(itemKeyUns, "0", "unsymmetric matrices are not supported")
	case h.Equations < 0:
		return h, reject(itemNeqn, "non-negative equation count", "invalid full header")
	case h.Nodes < 0:
		return h, reject(itemNNodes, "non-negative node count", "invalid full header")
	}
	return h, nil
}
