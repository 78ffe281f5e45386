package binfile

import (
	"fmt"

	"github.com/samcharles93/ansysio/pkg/errs"
)

// Record is one Fortran table: a size word, a type flag word, Size payload
// words and a trailing pad word.
type Record struct {
	Word int64
	Size int32
	Flag int32
}

// DataOffset is the byte offset of the record payload.
func (r Record) DataOffset() int64 { return DataOffset(r.Word) }

// Next is the word index of the following record.
func (r Record) Next() int64 { return r.Word + int64(r.Size) + 3 }

// Record reads the table header at word.
func (v *View) Record(word int64) (Record, error) {
	off := WordOffset(word)
	size, err := v.Int32At(off)
	if err != nil {
		return Record{}, err
	}
	if size < 0 {
		return Record{}, &errs.FormatError{Path: v.Path, Offset: off, Expected: "non-negative record size", Found: fmt.Sprint(size), Msg: "corrupt record header"}
	}
	flag, err := v.Int32At(off + WordSize)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Word: word, Size: size, Flag: flag}
	if WordOffset(rec.Next()) > v.Size() {
		return Record{}, &errs.FormatError{
			Path:     v.Path,
			Offset:   off,
			Expected: fmt.Sprintf("record ending at byte %d", WordOffset(rec.Next())),
			Found:    fmt.Sprintf("file of %d bytes", v.Size()),
			Msg:      "truncated record",
		}
	}
	return rec, nil
}

// RecordInt32s reads the record at word and decodes its payload as
// integers.
func (v *View) RecordInt32s(word int64) ([]int32, Record, error) {
	rec, err := v.Record(word)
	if err != nil {
		return nil, Record{}, err
	}
	vals, err := v.Int32sAt(rec.DataOffset(), int(rec.Size))
	if err != nil {
		return nil, Record{}, err
	}
	return vals, rec, nil
}

// RecordFloat64s reads the record at word and decodes its payload as
// doubles. Record sizes are counted in words, two per double.
func (v *View) RecordFloat64s(word int64) ([]float64, Record, error) {
	rec, err := v.Record(word)
	if err != nil {
		return nil, Record{}, err
	}
	if rec.Size%2 != 0 {
		return nil, Record{}, &errs.FormatError{Path: v.Path, Offset: WordOffset(word), Expected: "even word count for doubles", Found: fmt.Sprint(rec.Size), Msg: "corrupt double record"}
	}
	vals, err := v.Float64sAt(rec.DataOffset(), int(rec.Size/2))
	if err != nil {
		return nil, Record{}, err
	}
	return vals, rec, nil
}

// Records walks n consecutive records starting at word and returns them.
func (v *View) Records(word int64, n int) ([]Record, error) {
	out := make([]Record, 0, n)
	for range n {
		rec, err := v.Record(word)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
		word = rec.Next()
	}
	return out, nil
}
