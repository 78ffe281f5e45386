package rst

import (
	"fmt"

	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/errs"
)

// Result header items, indexed from the first payload word of the
// record following the standard header.
const (
	headerWord  = 105
	headerItems = 55

	itemFun12   = 0
	itemMaxNode = 1
	itemNodes   = 2
	itemResMax  = 3
	itemDOFs    = 4
	itemMaxElem = 5
	itemElems   = 6
	itemKan     = 7
	itemSets    = 8
	itemDSIl    = 10
	itemTIMl    = 11
	itemNODl    = 14
	itemUnits   = 19
	itemDSIh    = 40
	itemTIMh    = 41
	itemNODh    = 45

	// solution header item holding the offset of the nodal DOF block
	itemNSL = 12

	// MaxDOFs bounds the DOF count per node; the DOF label table has 32
	// entries.
	MaxDOFs = 32
)

// Header is the decoded result file header.
type Header struct {
	Fun12    int32 `json:"fun12"`
	MaxNode  int32 `json:"max_node"`
	Nodes    int32 `json:"nodes"`
	ResMax   int32 `json:"res_max"`
	DOFs     int32 `json:"dofs"`
	MaxElem  int32 `json:"max_elem"`
	Elements int32 `json:"elements"`
	Kan      int32 `json:"analysis_type"`
	Sets     int32 `json:"sets"`
	Units    int32 `json:"units"`

	// Record pointers, in words.
	PtrDSI int64 `json:"ptr_dsi"`
	PtrTIM int64 `json:"ptr_tim"`
	PtrNOD int64 `json:"ptr_nod"`
}

func longPointer(lo, hi int32) int64 {
	return int64(hi)<<32 | int64(uint32(lo))
}

func readHeader(v *binfile.View) (Header, error) {
	items, err := v.Int32sAt(binfile.WordOffset(headerWord), headerItems)
	if err != nil {
		return Header{}, fmt.Errorf("read result header: %w", err)
	}
	h := Header{
		Fun12:    items[itemFun12],
		MaxNode:  items[itemMaxNode],
		Nodes:    items[itemNodes],
		ResMax:   items[itemResMax],
		DOFs:     items[itemDOFs],
		MaxElem:  items[itemMaxElem],
		Elements: items[itemElems],
		Kan:      items[itemKan],
		Sets:     items[itemSets],
		Units:    items[itemUnits],
		PtrDSI:   longPointer(items[itemDSIl], items[itemDSIh]),
		PtrTIM:   longPointer(items[itemTIMl], items[itemTIMh]),
		PtrNOD:   longPointer(items[itemNODl], items[itemNODh]),
	}
	switch {
	case h.Nodes <= 0:
		return h, &errs.FormatError{Path: v.Path, Offset: binfile.WordOffset(headerWord + itemNodes), Expected: "positive node count", Found: fmt.Sprint(h.Nodes), Msg: "invalid result header"}
	case h.DOFs <= 0 || h.DOFs > MaxDOFs:
		return h, &errs.FormatError{Path: v.Path, Offset: binfile.WordOffset(headerWord + itemDOFs), Expected: fmt.Sprintf("DOF count in 1..%d", MaxDOFs), Found: fmt.Sprint(h.DOFs), Msg: "invalid result header"}
	case h.Sets < 0:
		return h, &errs.FormatError{Path: v.Path, Offset: binfile.WordOffset(headerWord + itemSets), Expected: "non-negative set count", Found: fmt.Sprint(h.Sets), Msg: "invalid result header"}
	}
	return h, nil
}
