package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/ansysio/pkg/errs"
)

type nblockInfo struct {
	offset  int64
	isz     int
	nfields int
	fsz     int
	rows    int
}

type eblockInfo struct {
	offset   int64
	isz      int
	perLine  int
	elements int
}

type blockSet struct {
	nblock *nblockInfo
	eblock *eblockInfo
}

// scan is the first pass: it decodes ET lines, RLBLOCK and CMBLOCK
// inline and records where the NBLOCK and EBLOCK bodies start.
func (d *decoder) scan(ctx context.Context) (*Archive, blockSet, error) {
	var blocks blockSet
	ra, size, closer, err := d.src()
	if err != nil {
		return nil, blocks, err
	}
	defer func() { _ = closer.Close() }()

	a := &Archive{
		Path:              d.path,
		NodeComponents:    map[string][]int32{},
		ElementComponents: map[string][]int32{},
	}
	lr := newLineReader(io.NewSectionReader(ra, 0, size))
	for n := 0; ; n++ {
		if n&0x3fff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, blocks, err
			}
		}
		line, start, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, blocks, fmt.Errorf("scan %s: %w", d.path, err)
		}

		switch keyword(line) {
		case "ET":
			et, err := d.parseET(line, start)
			if err != nil {
				return nil, blocks, err
			}
			a.ElementTypes = append(a.ElementTypes, et)
		case "NBLOCK":
			info, err := d.scanNBlock(lr, line, start)
			if err != nil {
				return nil, blocks, err
			}
			if blocks.nblock != nil {
				d.log.Warn("ignoring additional NBLOCK", "path", d.path, "offset", start)
				continue
			}
			blocks.nblock = info
		case "EBLOCK":
			info, err := d.scanEBlock(lr, line, start)
			if err != nil {
				return nil, blocks, err
			}
			if info == nil {
				continue
			}
			if blocks.eblock != nil {
				d.log.Warn("ignoring additional EBLOCK", "path", d.path, "offset", start)
				continue
			}
			blocks.eblock = info
		case "RLBLOCK":
			sets, err := d.readRealConstants(lr, line, start)
			if err != nil {
				return nil, blocks, err
			}
			a.RealConstants = append(a.RealConstants, sets...)
		case "CMBLOCK":
			name, kind, members, err := d.readComponent(lr, line, start)
			if err != nil {
				return nil, blocks, err
			}
			switch kind {
			case "NODE":
				a.NodeComponents[name] = members
			case "ELEM", "ELEMENT":
				a.ElementComponents[name] = members
			default:
				d.log.Debug("skipping component", "name", name, "kind", kind)
			}
		}
	}
	return a, blocks, nil
}

// ET,<number>,<type>
func (d *decoder) parseET(line string, start int64) (ElementType, error) {
	f := headerFields(line)
	if len(f) < 3 {
		return ElementType{}, &errs.FormatError{Path: d.path, Offset: start, Expected: "ET,<number>,<type>", Found: strconv.Quote(trimEOL(line)), Msg: "bad element type line"}
	}
	num, err1 := parseInt32(f[1])
	typ, err2 := parseInt32(f[2])
	if err1 != nil || err2 != nil {
		return ElementType{}, &errs.FormatError{Path: d.path, Offset: start, Expected: "integer element type", Found: strconv.Quote(trimEOL(line)), Msg: "bad element type line"}
	}
	return ElementType{Number: num, Type: typ}, nil
}

func (d *decoder) formatLine(lr *lineReader, block string) (string, int64, error) {
	line, start, err := lr.next()
	if err != nil {
		return "", start, truncated(d.path, start, block, err)
	}
	return line, start, nil
}

// NBLOCK,6,SOLID,<count>,<count>
// (3i8,6e16.9)
func (d *decoder) scanNBlock(lr *lineReader, header string, start int64) (*nblockInfo, error) {
	count := trailingCount(headerFields(header))
	fmtLine, fstart, err := d.formatLine(lr, "NBLOCK")
	if err != nil {
		return nil, err
	}
	vals, ok := matchFormat(nodeFormatRe, fmtLine)
	if !ok {
		return nil, &errs.FormatError{Path: d.path, Offset: fstart, Expected: "node format such as (3i8,6e16.9)", Found: strconv.Quote(trimEOL(fmtLine)), Msg: "bad NBLOCK format line"}
	}
	info := &nblockInfo{offset: lr.off, isz: vals[1], nfields: vals[2], fsz: vals[3]}
	for count < 0 || info.rows < count {
		line, _, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isSentinel(line) {
			break
		}
		info.rows++
	}
	if count >= 0 && info.rows < count {
		d.log.Debug("NBLOCK shorter than declared", "declared", count, "rows", info.rows, "offset", start)
	}
	return info, nil
}

// eblockHeaderFields is the number of leading integer fields of a solid
// EBLOCK row before the node list.
const eblockHeaderFields = 11

// EBLOCK,19,SOLID,<count>,<count>
// (19i9)
func (d *decoder) scanEBlock(lr *lineReader, header string, start int64) (*eblockInfo, error) {
	hf := headerFields(header)
	count := trailingCount(hf)
	fmtLine, fstart, err := d.formatLine(lr, "EBLOCK")
	if err != nil {
		return nil, err
	}
	vals, ok := matchFormat(intFormatRe, fmtLine)
	if !ok {
		return nil, &errs.FormatError{Path: d.path, Offset: fstart, Expected: "integer format such as (19i9)", Found: strconv.Quote(trimEOL(fmtLine)), Msg: "bad EBLOCK format line"}
	}
	info := &eblockInfo{offset: lr.off, perLine: vals[0], isz: vals[1]}

	solid := len(hf) > 2 && strings.EqualFold(hf[2], "SOLID")
	if !solid || info.perLine <= eblockHeaderFields {
		d.log.Warn("skipping EBLOCK with unsupported layout", "path", d.path, "offset", start, "header", trimEOL(header))
		for {
			line, _, err := lr.next()
			if err != nil || isSentinel(line) {
				return nil, nil
			}
		}
	}

	firstLine := info.perLine - eblockHeaderFields
	for count < 0 || info.elements < count {
		line, lstart, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isSentinel(line) {
			break
		}
		raw, _ := column(trimEOL(line), 8, info.isz)
		nnode, perr := parseInt32(raw)
		if perr != nil {
			return nil, &errs.FormatError{Path: d.path, Offset: lstart + int64(8*info.isz), Expected: "element node count", Found: strconv.Quote(raw), Msg: "bad EBLOCK row"}
		}
		if extra := int(nnode) - firstLine; extra > 0 {
			for range (extra + info.perLine - 1) / info.perLine {
				if _, _, err := lr.next(); err != nil {
					return nil, truncated(d.path, lr.off, "EBLOCK", err)
				}
			}
		}
		info.elements++
	}
	return info, nil
}
