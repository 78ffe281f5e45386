package archive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/ansysio/pkg/errs"
)

// readRealConstants decodes an RLBLOCK:
//
//	RLBLOCK,NUMSETS,MAXSET,MAXITEMS,NPERLINE
//	(2i8,6g16.9)
//	(7g16.9)
//
// A set's first line holds its number, value count and up to six values;
// continuation lines hold up to seven. Unparseable values on continuation
// lines read as zero.
func (d *decoder) readRealConstants(lr *lineReader, header string, start int64) ([]RealConstantSet, error) {
	hf := headerFields(header)
	if len(hf) < 2 {
		return nil, &errs.FormatError{Path: d.path, Offset: start, Expected: "RLBLOCK,NUMSETS,...", Found: strconv.Quote(trimEOL(header)), Msg: "bad RLBLOCK header"}
	}
	nsets, err := strconv.Atoi(hf[1])
	if err != nil || nsets < 0 {
		return nil, &errs.FormatError{Path: d.path, Offset: start, Expected: "set count", Found: strconv.Quote(hf[1]), Msg: "bad RLBLOCK header"}
	}

	f1, f1start, err := d.formatLine(lr, "RLBLOCK")
	if err != nil {
		return nil, err
	}
	first, ok := matchFormat(realFirstRe, f1)
	if !ok {
		return nil, &errs.FormatError{Path: d.path, Offset: f1start, Expected: "(2i8,6g16.9)", Found: strconv.Quote(trimEOL(f1)), Msg: "bad RLBLOCK format line"}
	}
	f2, f2start, err := d.formatLine(lr, "RLBLOCK")
	if err != nil {
		return nil, err
	}
	next, ok := matchFormat(realNextRe, f2)
	if !ok {
		return nil, &errs.FormatError{Path: d.path, Offset: f2start, Expected: "(7g16.9)", Found: strconv.Quote(trimEOL(f2)), Msg: "bad RLBLOCK format line"}
	}
	isz, firstCount, fsz := first[1], first[2], first[3]
	nextCount, nsz := next[0], next[1]

	sets := make([]RealConstantSet, 0, nsets)
	for range nsets {
		line, lstart, err := lr.next()
		if err != nil {
			return nil, truncated(d.path, lstart, "RLBLOCK", err)
		}
		body := trimEOL(line)
		numStr, _ := column(body, 0, isz)
		cntStr, _ := column(body, 1, isz)
		num, err1 := parseInt32(numStr)
		cnt, err2 := strconv.Atoi(cntStr)
		if err1 != nil || err2 != nil || cnt < 0 {
			return nil, &errs.FormatError{Path: d.path, Offset: lstart, Expected: "set number and value count", Found: strconv.Quote(body), Msg: "bad RLBLOCK set line"}
		}

		set := RealConstantSet{Number: num, Values: make([]float64, 0, cnt)}
		tail := ""
		if len(body) > 2*isz {
			tail = body[2*isz:]
		}
		for i := range min(cnt, firstCount) {
			s, _ := column(tail, i, fsz)
			v, err := parseFloat(s)
			if err != nil {
				return nil, &errs.FormatError{Path: d.path, Offset: lstart + int64(2*isz+i*fsz), Expected: "float", Found: strconv.Quote(s), Msg: fmt.Sprintf("bad value in real constant set %d", num)}
			}
			set.Values = append(set.Values, v)
		}
		for len(set.Values) < cnt {
			line, cstart, err := lr.next()
			if err != nil {
				return nil, truncated(d.path, cstart, "RLBLOCK", err)
			}
			body := trimEOL(line)
			for i := 0; i < nextCount && len(set.Values) < cnt; i++ {
				s, _ := column(body, i, nsz)
				v, err := parseFloat(s)
				if err != nil {
					d.log.Debug("unparseable real constant, using 0", "set", num, "field", strconv.Quote(s), "offset", cstart+int64(i*nsz))
					v = 0
				}
				set.Values = append(set.Values, v)
			}
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// readComponent decodes a CMBLOCK:
//
//	CMBLOCK,NAME,NODE,<count>
//	(8i10)
//
// followed by count integers, perLine to a line.
func (d *decoder) readComponent(lr *lineReader, header string, start int64) (string, string, []int32, error) {
	hf := headerFields(header)
	if len(hf) < 4 {
		return "", "", nil, &errs.FormatError{Path: d.path, Offset: start, Expected: "CMBLOCK,NAME,KIND,COUNT", Found: strconv.Quote(trimEOL(header)), Msg: "bad CMBLOCK header"}
	}
	name, kind := hf[1], strings.ToUpper(hf[2])
	count, err := strconv.Atoi(hf[3])
	if err != nil || count < 0 {
		return "", "", nil, &errs.FormatError{Path: d.path, Offset: start, Expected: "member count", Found: strconv.Quote(hf[3]), Msg: "bad CMBLOCK header"}
	}
	fmtLine, fstart, err := d.formatLine(lr, "CMBLOCK")
	if err != nil {
		return "", "", nil, err
	}
	vals, ok := matchFormat(intFormatRe, fmtLine)
	if !ok {
		return "", "", nil, &errs.FormatError{Path: d.path, Offset: fstart, Expected: "integer format such as (8i10)", Found: strconv.Quote(trimEOL(fmtLine)), Msg: "bad CMBLOCK format line"}
	}
	perLine, isz := vals[0], vals[1]

	raw := make([]int32, 0, count)
	for len(raw) < count {
		line, lstart, err := lr.next()
		if err != nil {
			return "", "", nil, truncated(d.path, lstart, "CMBLOCK "+name, err)
		}
		body := trimEOL(line)
		for i := 0; i < perLine && len(raw) < count; i++ {
			s, ok := column(body, i, isz)
			if !ok {
				break
			}
			v, err := parseInt32(s)
			if err != nil {
				return "", "", nil, &errs.FormatError{Path: d.path, Offset: lstart + int64(i*isz), Expected: "integer", Found: strconv.Quote(s), Msg: "bad CMBLOCK field in " + name}
			}
			raw = append(raw, v)
		}
	}
	members, err := ExpandComponent(raw)
	if err != nil {
		return "", "", nil, &errs.FormatError{Path: d.path, Offset: start, Msg: fmt.Sprintf("component %s: %v", name, err)}
	}
	return name, kind, members, nil
}

// MaxComponentMembers bounds the expanded size of one component.
const MaxComponentMembers = 1 << 25

// ExpandComponent decodes run-length component storage. A negative entry
// -k following a positive entry p stands for p+1 .. k.
func ExpandComponent(raw []int32) ([]int32, error) {
	out := make([]int32, 0, min(len(raw), MaxComponentMembers))
	for i, v := range raw {
		if v > 0 {
			if len(out) >= MaxComponentMembers {
				return nil, fmt.Errorf("more than %d members", MaxComponentMembers)
			}
			out = append(out, v)
			continue
		}
		if v == 0 {
			return nil, fmt.Errorf("zero member at position %d", i)
		}
		if i == 0 {
			return nil, fmt.Errorf("range end %d has no start", v)
		}
		from := raw[i-1]
		if from < 0 {
			from = -from
		}
		to := -v
		if to <= from {
			return nil, fmt.Errorf("range %d..%d at position %d is empty", from, to, i)
		}
		if int64(len(out))+int64(to)-int64(from) > MaxComponentMembers {
			return nil, fmt.Errorf("range %d..%d at position %d exceeds %d members", from, to, i, MaxComponentMembers)
		}
		for n := int64(from) + 1; n <= int64(to); n++ {
			out = append(out, int32(n))
		}
	}
	return out, nil
}
