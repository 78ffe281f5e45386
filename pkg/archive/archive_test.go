package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/errs"
)

func nodeRow(n int, xyz ...float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%8d%8d%8d", n, 0, 0)
	for _, v := range xyz {
		fmt.Fprintf(&b, "%16.9E", v)
	}
	b.WriteString("\n")
	return b.String()
}

func intRow(width int, vals ...int) string {
	var b strings.Builder
	for _, v := range vals {
		fmt.Fprintf(&b, "%*d", width, v)
	}
	b.WriteString("\n")
	return b.String()
}

// elemRows lays out a solid EBLOCK entry: eleven header fields and up to
// eight nodes on the first line, the rest on continuation lines.
func elemRows(num, typ int, nodes ...int) string {
	head := []int{1, typ, 1, 1, 0, 0, 0, 0, len(nodes), 0, num}
	first := append(head, nodes[:min(8, len(nodes))]...)
	out := intRow(9, first...)
	for rest := nodes[min(8, len(nodes)):]; len(rest) > 0; {
		k := min(19, len(rest))
		out += intRow(9, rest[:k]...)
		rest = rest[k:]
	}
	return out
}

func sampleArchive() string {
	var b strings.Builder
	b.WriteString("/PREP7\n")
	b.WriteString("ET,1,185\n")
	b.WriteString("ET,2,187\n")
	b.WriteString("NBLOCK,6,SOLID,       2,       2\n")
	b.WriteString("(3i8,6e16.9)\n")
	b.WriteString(nodeRow(1, 0, 1, 1))
	b.WriteString(nodeRow(10, 4, 5, 1))
	b.WriteString("N,R5.3,LOC,      -1,\n")
	b.WriteString("EBLOCK,19,SOLID,       2,       2\n")
	b.WriteString("(19i9)\n")
	b.WriteString(elemRows(1, 1, 1, 2, 3, 4, 5, 6, 7, 8))
	b.WriteString(elemRows(2, 2, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20))
	b.WriteString(intRow(9, -1))
	b.WriteString("RLBLOCK,       2,       2,       8,       7\n")
	b.WriteString("(2i8,6g16.9)\n")
	b.WriteString("(7g16.9)\n")
	fmt.Fprintf(&b, "%8d%8d%16.9E%16.9E%16.9E%16.9E%16.9E%16.9E\n", 1, 8, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0)
	fmt.Fprintf(&b, "%16.9E%16s\n", 7.0, "garbage")
	fmt.Fprintf(&b, "%8d%8d%16.9E%16.9E\n", 2, 2, 0.5, 1.5)
	b.WriteString("CMBLOCK,FIXED,NODE,       3\n")
	b.WriteString("(8i10)\n")
	b.WriteString(intRow(10, 5, -8, 12))
	b.WriteString("CMBLOCK,ALLEL,ELEM,       2  ! all elements\n")
	b.WriteString("(8i10)\n")
	b.WriteString(intRow(10, 1, -2))
	b.WriteString("FINISH\n")
	return b.String()
}

func decode(t *testing.T, text string) *Archive {
	t.Helper()
	a, err := Decode(context.Background(), "test.cdb", Bytes([]byte(text)), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return a
}

func checkSample(t *testing.T, a *Archive) {
	t.Helper()

	if !slices.Equal(a.ElementTypes, []ElementType{{1, 185}, {2, 187}}) {
		t.Fatalf("element types: got %v", a.ElementTypes)
	}
	if got := a.TypeTable(); got[2] != 187 {
		t.Fatalf("type table: got %v", got)
	}

	if !slices.Equal(a.Nodes.Numbers, []int32{1, 10}) {
		t.Fatalf("node numbers: got %v", a.Nodes.Numbers)
	}
	wantXYZ := [][]float64{{0, 1, 1}, {4, 5, 1}}
	for i, row := range wantXYZ {
		for j, v := range row {
			if got := a.Nodes.Coords.At(i, j); got != v {
				t.Fatalf("coords[%d][%d]: got %v want %v", i, j, got, v)
			}
			if got := a.Nodes.Angles.At(i, j); got != 0 {
				t.Fatalf("angles[%d][%d]: got %v want 0", i, j, got)
			}
		}
	}

	if len(a.Elements) != 2 {
		t.Fatalf("elements: got %d want 2", len(a.Elements))
	}
	hex := a.Elements[0]
	if hex.Number != 1 || hex.Type != 1 || hex.NodeCount != 8 || hex.Material != 1 {
		t.Fatalf("first element: %+v", hex)
	}
	for k := 8; k < MaxElementNodes; k++ {
		if hex.Nodes[k] != -1 {
			t.Fatalf("padding at %d: got %d", k, hex.Nodes[k])
		}
	}
	tet := a.Elements[1]
	var want [MaxElementNodes]int32
	for k := range want {
		want[k] = -1
	}
	for k := range 10 {
		want[k] = int32(11 + k)
	}
	if tet.Number != 2 || tet.NodeCount != 10 || tet.Nodes != want {
		t.Fatalf("continued element: %+v", tet)
	}

	if len(a.RealConstants) != 2 {
		t.Fatalf("real constant sets: got %d", len(a.RealConstants))
	}
	if got := a.RealConstants[0]; got.Number != 1 || !slices.Equal(got.Values, []float64{1, 2, 3, 4, 5, 6, 7, 0}) {
		t.Fatalf("set 1: got %+v", got)
	}
	if got := a.RealConstants[1]; got.Number != 2 || !slices.Equal(got.Values, []float64{0.5, 1.5}) {
		t.Fatalf("set 2: got %+v", got)
	}

	if got := a.NodeComponents["FIXED"]; !slices.Equal(got, []int32{5, 6, 7, 8, 12}) {
		t.Fatalf("FIXED: got %v", got)
	}
	if got := a.ElementComponents["ALLEL"]; !slices.Equal(got, []int32{1, 2}) {
		t.Fatalf("ALLEL: got %v", got)
	}
}

func TestDecodeSample(t *testing.T) {
	t.Parallel()
	checkSample(t, decode(t, sampleArchive()))
}

func TestDecodeCRLF(t *testing.T) {
	t.Parallel()
	checkSample(t, decode(t, strings.ReplaceAll(sampleArchive(), "\n", "\r\n")))
}

func TestReadFileAndZstd(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	text := []byte(sampleArchive())

	plain := filepath.Join(dir, "model.cdb")
	if err := os.WriteFile(plain, text, 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := Read(context.Background(), plain, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	checkSample(t, a)

	packed, err := zstd.Compress(nil, text)
	if err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "model.cdb.zst")
	if err := os.WriteFile(compressed, packed, 0o644); err != nil {
		t.Fatal(err)
	}
	a, err = Read(context.Background(), compressed, Options{})
	if err != nil {
		t.Fatalf("Read zst: %v", err)
	}
	checkSample(t, a)
}

func TestNodeRowWithAngles(t *testing.T) {
	t.Parallel()
	text := "NBLOCK,6,SOLID,       1,       1\n(3i8,6e16.9)\n" +
		nodeRow(7, 1, 2, 3, 10, 20, 30) +
		"N,R5.3,LOC,      -1,\n"
	a := decode(t, text)
	if a.Nodes.Len() != 1 || a.Nodes.Angles.At(0, 2) != 30 || a.Nodes.Coords.At(0, 0) != 1 {
		t.Fatalf("nodes: %v %v %v", a.Nodes.Numbers, a.Nodes.Coords, a.Nodes.Angles)
	}
}

func TestNodeCountIsAdvisory(t *testing.T) {
	t.Parallel()
	// declares five rows but the sentinel follows the second
	text := "NBLOCK,6,SOLID,       5,       5\n(3i8,6e16.9)\n" +
		nodeRow(1, 0, 0, 0) + nodeRow(2, 1, 0, 0) +
		"N,R5.3,LOC,      -1,\n"
	if a := decode(t, text); a.Nodes.Len() != 2 {
		t.Fatalf("nodes: got %d want 2", a.Nodes.Len())
	}
}

func TestElementCountIsAdvisory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		header string
	}{
		{"no count", "EBLOCK,19,SOLID\n"},
		{"count too large", "EBLOCK,19,SOLID,       9,       9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text := tt.header + "(19i9)\n" +
				elemRows(1, 1, 1, 2, 3, 4, 5, 6, 7, 8) +
				elemRows(2, 2, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20) +
				intRow(9, -1) + "FINISH\n"
			a := decode(t, text)
			if len(a.Elements) != 2 {
				t.Fatalf("elements: got %d want 2", len(a.Elements))
			}
			last := a.Elements[1]
			if last.Number != 2 || last.NodeCount != 10 || last.Nodes[9] != 20 || last.Nodes[10] != -1 {
				t.Fatalf("second element: %+v", last)
			}
			if a.Elements[0].Nodes[8] != -1 {
				t.Fatalf("first element padding: %v", a.Elements[0].Nodes)
			}
		})
	}
}

func TestEmptyArchive(t *testing.T) {
	t.Parallel()
	a := decode(t, "/PREP7\nFINISH\n")
	if a.Nodes.Len() != 0 || a.Nodes.Coords != nil || len(a.Elements) != 0 {
		t.Fatalf("expected empty archive, got %+v", a)
	}
}

func TestSkipsNonSolidEBlock(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	log := logger.New(logger.Options{Level: slog.LevelWarn, Format: logger.FormatText, Writer: &out})
	text := "EBLOCK,10,,       1\n(10i8)\n" + intRow(8, 1, 1, 1, 1, 0, 1, 2, 3, 4, 0) + intRow(8, -1)
	a, err := Decode(context.Background(), "shell.cdb", Bytes([]byte(text)), Options{Logger: log})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(a.Elements) != 0 {
		t.Fatalf("elements: got %d want 0", len(a.Elements))
	}
	if !strings.Contains(out.String(), "unsupported layout") {
		t.Fatalf("missing warning in %q", out.String())
	}
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
	}{
		{"bad node format", "NBLOCK,6,SOLID,1,1\n(garbage)\n"},
		{"bad node field", "NBLOCK,6,SOLID,1,1\n(3i8,6e16.9)\n" + fmt.Sprintf("%8d%8d%8d%16s\n", 1, 0, 0, "x.yz") + "N,R5.3,LOC,-1,\n"},
		{"truncated element", "EBLOCK,19,SOLID,1,1\n(19i9)\n" + intRow(9, 1, 1, 1, 1, 0, 0, 0, 0, 10, 0, 1, 1, 2, 3, 4, 5, 6, 7, 8)},
		{"bad real constant", "RLBLOCK,1,1,2,7\n(2i8,6g16.9)\n(7g16.9)\n" + fmt.Sprintf("%8d%8d%16s%16.9E\n", 1, 2, "nope", 1.0)},
		{"truncated real constants", "RLBLOCK,2,1,2,7\n(2i8,6g16.9)\n(7g16.9)\n" + fmt.Sprintf("%8d%8d%16.9E\n", 1, 1, 1.0)},
		{"bad element type", "ET,one,185\n"},
		{"component starts with range", "CMBLOCK,BAD,NODE,2\n(8i10)\n" + intRow(10, -3, 4)},
		{"component zero", "CMBLOCK,BAD,NODE,2\n(8i10)\n" + intRow(10, 3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(context.Background(), "bad.cdb", Bytes([]byte(tt.text)), Options{})
			if !errors.Is(err, errs.ErrFormat) {
				t.Fatalf("expected format error, got %v", err)
			}
			if !strings.Contains(err.Error(), "bad.cdb") {
				t.Fatalf("path missing from %q", err)
			}
		})
	}
}

func TestExpandComponent(t *testing.T) {
	t.Parallel()
	got, err := ExpandComponent([]int32{5, -8, 12})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int32{5, 6, 7, 8, 12}) {
		t.Fatalf("got %v", got)
	}
	for _, raw := range [][]int32{{-1, 4}, {0}, {9, -4}, {1, -math.MaxInt32}} {
		if _, err := ExpandComponent(raw); err == nil {
			t.Fatalf("%v: expected error", raw)
		}
	}
}

func TestExpandComponentRangeEndsAtMaxInt32(t *testing.T) {
	t.Parallel()
	got, err := ExpandComponent([]int32{math.MaxInt32 - 3, -math.MaxInt32})
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{math.MaxInt32 - 3, math.MaxInt32 - 2, math.MaxInt32 - 1, math.MaxInt32}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestComponentRangeTooLarge(t *testing.T) {
	t.Parallel()
	text := "CMBLOCK,HUGE,NODE,       2\n(8i10)\n" + intRow(10, 1, -999999999) + "FINISH\n"
	_, err := Decode(context.Background(), "huge.cdb", Bytes([]byte(text)), Options{})
	if !errors.Is(err, errs.ErrFormat) || !strings.Contains(err.Error(), "HUGE") {
		t.Fatalf("expected format error naming the component, got %v", err)
	}
}

func TestDecodeCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, "x.cdb", Bytes([]byte(sampleArchive())), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
