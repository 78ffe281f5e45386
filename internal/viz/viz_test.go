package viz

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/mesh"
	"gonum.org/v1/gonum/mat"
)

func TestSelect(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	log := logger.New(logger.Options{Level: slog.LevelWarn, Format: logger.FormatText, Writer: &out})

	if p := Select("VTK", log); p.Name() != "vtk" {
		t.Fatalf("vtk: got %s", p.Name())
	}
	if p := Select("", log); p.Name() != "none" {
		t.Fatalf("empty: got %s", p.Name())
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected warning %q", out.String())
	}
	if p := Select("opengl", log); p.Name() != "none" {
		t.Fatalf("unknown: got %s", p.Name())
	}
	if !strings.Contains(out.String(), "backend=opengl") {
		t.Fatalf("missing warning in %q", out.String())
	}
	if err := (Nop{}).Plot(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
}

func TestScalars(t *testing.T) {
	t.Parallel()
	sol := mat.NewDense(2, 3, []float64{
		3, 4, 0,
		1, 2, 2,
	})
	rows := []int{1, 0, 1}
	tests := []struct {
		comp Component
		want []float64
	}{
		{ComponentX, []float64{1, 3, 1}},
		{ComponentZ, []float64{2, 0, 2}},
		{ComponentNorm, []float64{3, 5, 3}},
	}
	for _, tt := range tests {
		got, err := Scalars(sol, rows, tt.comp)
		if err != nil {
			t.Fatalf("%s: %v", tt.comp, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("%s: got %v want %v", tt.comp, got, tt.want)
		}
	}
	if _, err := Scalars(sol, []int{2}, ComponentX); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestScalarsNarrowSolution(t *testing.T) {
	t.Parallel()
	got, err := Scalars(mat.NewDense(1, 1, []float64{-7}), []int{0}, ComponentY)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0 {
		t.Fatalf("got %v want 0", got[0])
	}
}

func TestParseComponent(t *testing.T) {
	t.Parallel()
	if c, err := ParseComponent("NORM"); err != nil || c != ComponentNorm {
		t.Fatalf("got %v %v", c, err)
	}
	if _, err := ParseComponent("w"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRange(t *testing.T) {
	t.Parallel()
	lo, hi := Range([]float64{2, math.NaN(), -1, math.Inf(1), 5})
	if lo != -1 || hi != 5 {
		t.Fatalf("got %v %v", lo, hi)
	}
}

func quadGrid() *mesh.Grid {
	return &mesh.Grid{
		NodeNumbers: []int32{1, 2, 3, 4},
		Points:      mat.NewDense(4, 3, []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}),
		Cells: &mesh.Cells{
			Offsets:      []int64{0},
			Types:        []mesh.CellType{mesh.CellQuad},
			Connectivity: []int64{4, 0, 1, 2, 3},
		},
	}
}

func TestVTKWrite(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	req := Request{Title: "plate", Grid: quadGrid(), Name: "disp norm", Values: []float64{0, 0.5, 1, 0.25}}
	if err := (VTKWriter{}).Write(context.Background(), &buf, req); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `# vtk DataFile Version 3.0
plate
ASCII
DATASET UNSTRUCTURED_GRID
POINTS 4 double
0 0 0
1 0 0
1 1 0
0 1 0
CELLS 1 5
4 0 1 2 3
CELL_TYPES 1
9
POINT_DATA 4
SCALARS disp_norm double 1
LOOKUP_TABLE default
0
0.5
1
0.25
`
	if buf.String() != want {
		t.Fatalf("output mismatch:\n%s", buf.String())
	}
}

func TestVTKPlotFile(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "grid.vtk")
	if err := Select("vtk", nil).Plot(context.Background(), Request{Grid: quadGrid(), Output: out}); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "CELL_TYPES 1") || strings.Contains(string(data), "POINT_DATA") {
		t.Fatalf("unexpected file:\n%s", data)
	}

	err = (VTKWriter{}).Plot(context.Background(), Request{Grid: quadGrid(), Values: []float64{1}, Output: out})
	if err == nil {
		t.Fatal("expected value count error")
	}
}
