package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/samcharles93/ansysio/internal/testfixture"
)

const quadArchive = `/PREP7
ET,1,181
NBLOCK,6,SOLID,       4,       4
(3i8,6e16.9)
       1       0       0 0.000000000E+00 0.000000000E+00 0.000000000E+00
       2       0       0 1.000000000E+00 0.000000000E+00 0.000000000E+00
       3       0       0 1.000000000E+00 1.000000000E+00 0.000000000E+00
       4       0       0 0.000000000E+00 1.000000000E+00 0.000000000E+00
N,R5.3,LOC,      -1,
EBLOCK,19,SOLID,       1,       1
(19i9)
        1        1        1        1        0        0        0        0        4        0        1        1        2        3        4
       -1
CMBLOCK,TOP,NODE,       2
(8i10)
         3        -4
FINISH
`

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "none.yaml"))
	jsonOutput, debug = false, false

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"ansysio", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFixtures(t *testing.T) (rstPath, cdbPath string) {
	t.Helper()
	dir := t.TempDir()
	res := testfixture.Result{
		Order:  binary.LittleEndian,
		Neqv:   []int32{4, 3, 2, 1},
		NumDOF: 3,
		Sets: [][]float64{{
			0, 0, 4, // node 4
			3, 4, 0, // node 3
			1, 0, 0, // node 2
			0, 0, 0, // node 1
		}},
		Times: []float64{1},
		Title: "quad plate",
	}
	rstPath = filepath.Join(dir, "plate.rst")
	cdbPath = filepath.Join(dir, "plate.cdb")
	if err := os.WriteFile(rstPath, res.Build(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cdbPath, []byte(quadArchive), 0o644); err != nil {
		t.Fatal(err)
	}
	return rstPath, cdbPath
}

func TestInspectJSON(t *testing.T) {
	rstPath, cdbPath := writeFixtures(t)

	out, err := run(t, "inspect", "--json", rstPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var rep struct {
		Kind     string `json:"kind"`
		Standard struct {
			Title string `json:"title"`
		} `json:"standard_header"`
		Result struct {
			Nodes int `json:"nodes"`
			Sets  int `json:"sets"`
		} `json:"result_header"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if rep.Kind != "result" || rep.Standard.Title != "quad plate" || rep.Result.Nodes != 4 || rep.Result.Sets != 1 {
		t.Fatalf("report: %+v", rep)
	}

	out, err = run(t, "inspect", cdbPath)
	if err != nil {
		t.Fatalf("inspect archive: %v", err)
	}
	if !strings.Contains(out, "kind:      archive") || !strings.Contains(out, "181    shell") {
		t.Fatalf("archive text:\n%s", out)
	}
}

func TestInspectRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "inspect", path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := run(t, "inspect"); err != errNoFile {
		t.Fatalf("expected errNoFile, got %v", err)
	}
}

func TestSolutionNodes(t *testing.T) {
	rstPath, _ := writeFixtures(t)
	out, err := run(t, "solution", "--json", "--nodes", "3,1", rstPath)
	if err != nil {
		t.Fatalf("solution: %v", err)
	}
	var rep solutionReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rep.Nodes) != 2 || rep.Nodes[0] != 3 || rep.Nodes[1] != 1 {
		t.Fatalf("nodes: %v", rep.Nodes)
	}
	if rep.Values[0][1] != 4 || rep.Values[1][0] != 0 {
		t.Fatalf("values: %v", rep.Values)
	}

	out, err = run(t, "solution", "--unsorted", "--nodes", "2", rstPath)
	if err != nil {
		t.Fatalf("solution unsorted: %v", err)
	}
	if !strings.Contains(out, "         2   1.000000e+00") {
		t.Fatalf("text output:\n%s", out)
	}

	if _, err := run(t, "solution", "--set", "3", rstPath); err == nil || !strings.Contains(err.Error(), "1 available") {
		t.Fatalf("expected set range error, got %v", err)
	}
}

func TestArchiveMembers(t *testing.T) {
	_, cdbPath := writeFixtures(t)
	out, err := run(t, "archive", "--json", "--members", cdbPath)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	var rep archiveReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if rep.Nodes != 4 || rep.Elements != 1 || len(rep.Components) != 1 {
		t.Fatalf("report: %+v", rep)
	}
	if c := rep.Components[0]; c.Name != "TOP" || len(c.Members) != 2 || c.Members[1] != 4 {
		t.Fatalf("component: %+v", c)
	}
}

func TestPlotWritesVTK(t *testing.T) {
	rstPath, cdbPath := writeFixtures(t)
	vtk := filepath.Join(t.TempDir(), "plate.vtk")
	if _, err := run(t, "plot", "--archive", cdbPath, "--result", rstPath, "--out", vtk); err != nil {
		t.Fatalf("plot: %v", err)
	}
	data, err := os.ReadFile(vtk)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "CELL_TYPES 1\n9\n") {
		t.Fatalf("cells missing:\n%s", text)
	}
	// norms for nodes 1..4 in archive order
	if !strings.Contains(text, "SCALARS displacement_norm double 1\nLOOKUP_TABLE default\n0\n1\n5\n4\n") {
		t.Fatalf("scalars missing:\n%s", text)
	}
}

func TestPlotNoneBackend(t *testing.T) {
	_, cdbPath := writeFixtures(t)
	vtk := filepath.Join(t.TempDir(), "skipped.vtk")
	if _, err := run(t, "plot", "--archive", cdbPath, "--backend", "none", "--out", vtk); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if _, err := os.Stat(vtk); !os.IsNotExist(err) {
		t.Fatalf("nop backend wrote a file: %v", err)
	}
}
