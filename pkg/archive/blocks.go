package archive

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/samcharles93/ansysio/pkg/errs"
	"gonum.org/v1/gonum/mat"
)

// readNodes is the second pass over the NBLOCK body. Each row holds the
// node number, two ignored integer fields, then up to nfields floats:
// three coordinates followed by three rotation angles. A row may end
// early; missing fields stay zero.
func (d *decoder) readNodes(ctx context.Context, info *nblockInfo) (Nodes, error) {
	if info.rows == 0 {
		return Nodes{}, nil
	}
	ra, size, closer, err := d.src()
	if err != nil {
		return Nodes{}, err
	}
	defer func() { _ = closer.Close() }()

	fr := newFieldReader(ra, size, info.offset, d.path)
	numbers := make([]int32, info.rows)
	coords := make([]float64, info.rows*3)
	angles := make([]float64, info.rows*3)

	for i := range info.rows {
		if i&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return Nodes{}, err
			}
		}
		start := fr.off
		s, err := fr.fixed(info.isz)
		if err != nil {
			return Nodes{}, truncated(d.path, start, "NBLOCK", err)
		}
		num, perr := parseInt32(s)
		if perr != nil {
			return Nodes{}, &errs.FormatError{Path: d.path, Offset: start, Expected: "node number", Found: strconv.Quote(s), Msg: "bad NBLOCK row"}
		}
		numbers[i] = num
		if _, err := fr.fixed(2 * info.isz); err != nil {
			return Nodes{}, truncated(d.path, fr.off, "NBLOCK", err)
		}

		full := true
		for j := range info.nfields {
			b, err := fr.readByte()
			if errors.Is(err, io.EOF) {
				full = false
				break
			}
			if err != nil {
				return Nodes{}, err
			}
			if b == '\r' {
				if nb, perr := fr.peek(); perr == nil && nb == '\n' {
					_, _ = fr.readByte()
				}
				full = false
				break
			}
			if b == '\n' {
				full = false
				break
			}
			fstart := fr.off - 1
			rest, err := fr.fixed(info.fsz - 1)
			if err != nil {
				return Nodes{}, truncated(d.path, fstart, "NBLOCK", err)
			}
			field := string(b) + rest
			v, perr := parseFloat(field)
			if perr != nil {
				return Nodes{}, &errs.FormatError{Path: d.path, Offset: fstart, Expected: "float", Found: strconv.Quote(field), Msg: "bad NBLOCK field"}
			}
			switch {
			case j < 3:
				coords[i*3+j] = v
			case j < 6:
				angles[i*3+j-3] = v
			}
		}
		if full {
			if err := fr.eol(); err != nil {
				return Nodes{}, err
			}
		}
	}
	return Nodes{
		Numbers: numbers,
		Coords:  mat.NewDense(info.rows, 3, coords),
		Angles:  mat.NewDense(info.rows, 3, angles),
	}, nil
}

// readElements is the second pass over the EBLOCK body. Fields are read
// by width, so a node list continued on the next line needs no special
// handling.
func (d *decoder) readElements(ctx context.Context, info *eblockInfo) ([]Element, error) {
	if info.elements == 0 {
		return nil, nil
	}
	ra, size, closer, err := d.src()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer.Close() }()

	fr := newFieldReader(ra, size, info.offset, d.path)
	out := make([]Element, 0, info.elements)
	var head [eblockHeaderFields]int32
	for len(out) < info.elements {
		if len(out)&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		first, err := fr.intField(info.isz, "material number")
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if first == -1 {
			break
		}
		head[0] = first
		for k := 1; k < eblockHeaderFields; k++ {
			if head[k], err = fr.intField(info.isz, "element field"); err != nil {
				return nil, truncated(d.path, fr.off, "EBLOCK", err)
			}
		}
		e := Element{
			Material:   head[0],
			Type:       head[1],
			Real:       head[2],
			Section:    head[3],
			CoordSys:   head[4],
			Death:      head[5],
			SolidModel: head[6],
			Shape:      head[7],
			NodeCount:  head[8],
			Number:     head[10],
		}
		if e.NodeCount < 0 || e.NodeCount > MaxElementNodes {
			return nil, &errs.FormatError{
				Path:     d.path,
				Offset:   fr.off,
				Expected: "at most 20 nodes",
				Found:    strconv.Itoa(int(e.NodeCount)),
				Msg:      "element " + strconv.Itoa(int(e.Number)) + " has too many nodes",
			}
		}
		for k := range e.NodeCount {
			if e.Nodes[k], err = fr.intField(info.isz, "node number"); err != nil {
				return nil, truncated(d.path, fr.off, "EBLOCK", err)
			}
		}
		for k := e.NodeCount; k < MaxElementNodes; k++ {
			e.Nodes[k] = -1
		}
		out = append(out, e)
	}
	return out, nil
}
