package api

import (
	"github.com/samcharles93/ansysio/internal/catalog"
	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/full"
	"github.com/samcharles93/ansysio/pkg/rst"
)

type FileList struct {
	ID     string          `json:"id"`
	Object string          `json:"object"`
	Data   []catalog.Entry `json:"data"`
}

type FileInfo struct {
	ID       string                  `json:"id"`
	Object   string                  `json:"object"`
	Name     string                  `json:"name"`
	Kind     catalog.Kind            `json:"kind"`
	Standard *binfile.StandardHeader `json:"standard_header,omitempty"`
	Result   *ResultSummary          `json:"result,omitempty"`
	Full     *FullSummary            `json:"full,omitempty"`
	Archive  *ArchiveSummary         `json:"archive,omitempty"`
}

type ResultSummary struct {
	Header rst.Header `json:"header"`
	Nodes  int        `json:"nodes"`
	DOFs   int        `json:"dofs"`
	Sets   int        `json:"sets"`
	Times  []float64  `json:"times"`
}

type FullSummary struct {
	Header full.Header `json:"header"`
}

type ArchiveSummary struct {
	Nodes             int                   `json:"nodes"`
	Elements          int                   `json:"elements"`
	ElementTypes      []archive.ElementType `json:"element_types"`
	RealConstantSets  int                   `json:"real_constant_sets"`
	NodeComponents    map[string]int        `json:"node_components"`
	ElementComponents map[string]int        `json:"element_components"`
}

type SolutionResponse struct {
	ID     string      `json:"id"`
	Object string      `json:"object"`
	File   string      `json:"file"`
	Set    int         `json:"set"`
	Time   float64     `json:"time"`
	Order  string      `json:"order"`
	Nodes  []int32     `json:"nodes"`
	Values [][]float64 `json:"values"`
}

type MatricesResponse struct {
	ID       string         `json:"id"`
	Object   string         `json:"object"`
	File     string         `json:"file"`
	Sorted   bool           `json:"sorted"`
	Matrices *full.Matrices `json:"matrices"`
}

type ComponentResponse struct {
	ID      string  `json:"id"`
	Object  string  `json:"object"`
	File    string  `json:"file"`
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Members []int32 `json:"members"`
}

func summarizeArchive(a *archive.Archive) *ArchiveSummary {
	s := &ArchiveSummary{
		Nodes:             a.Nodes.Len(),
		Elements:          len(a.Elements),
		ElementTypes:      a.ElementTypes,
		RealConstantSets:  len(a.RealConstants),
		NodeComponents:    make(map[string]int, len(a.NodeComponents)),
		ElementComponents: make(map[string]int, len(a.ElementComponents)),
	}
	for name, m := range a.NodeComponents {
		s.NodeComponents[name] = len(m)
	}
	for name, m := range a.ElementComponents {
		s.ElementComponents[name] = len(m)
	}
	return s
}
