package viz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// VTKWriter writes legacy ASCII VTK unstructured grids.
type VTKWriter struct{}

func (VTKWriter) Name() string { return "vtk" }

// Plot writes req to req.Output.
func (w VTKWriter) Plot(ctx context.Context, req Request) error {
	if req.Output == "" {
		return errors.New("vtk: no output path")
	}
	f, err := os.Create(req.Output)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, f, req); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write encodes req to out.
func (VTKWriter) Write(ctx context.Context, out io.Writer, req Request) error {
	g := req.Grid
	if g == nil || g.Cells == nil {
		return errors.New("vtk: request has no grid")
	}
	npts := len(g.NodeNumbers)
	if req.Values != nil && len(req.Values) != npts {
		return fmt.Errorf("vtk: %d values for %d points", len(req.Values), npts)
	}

	bw := bufio.NewWriter(out)
	title := strings.ReplaceAll(req.Title, "\n", " ")
	if title == "" {
		title = "ansysio"
	}
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)

	fmt.Fprintf(bw, "POINTS %d double\n", npts)
	for i := range npts {
		if g.Points != nil {
			fmt.Fprintf(bw, "%s %s %s\n", ftoa(g.Points.At(i, 0)), ftoa(g.Points.At(i, 1)), ftoa(g.Points.At(i, 2)))
		} else {
			bw.WriteString("0 0 0\n")
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cells := g.Cells
	fmt.Fprintf(bw, "CELLS %d %d\n", cells.Len(), len(cells.Connectivity))
	for i := range cells.Len() {
		ids := cells.Cell(i)
		bw.WriteString(strconv.Itoa(len(ids)))
		for _, id := range ids {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatInt(id, 10))
		}
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", cells.Len())
	for _, t := range cells.Types {
		fmt.Fprintf(bw, "%d\n", t)
	}

	if req.Values != nil {
		name := req.Name
		if name == "" {
			name = "values"
		}
		fmt.Fprintf(bw, "POINT_DATA %d\nSCALARS %s double 1\nLOOKUP_TABLE default\n", npts, strings.ReplaceAll(name, " ", "_"))
		for _, v := range req.Values {
			bw.WriteString(ftoa(v))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
