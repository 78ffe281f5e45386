// Package api serves the files of a data directory over a read-only JSON
// HTTP interface.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/samcharles93/ansysio/internal/catalog"
	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/errs"
	"github.com/samcharles93/ansysio/pkg/full"
	"github.com/samcharles93/ansysio/pkg/rst"
	"gonum.org/v1/gonum/mat"
)

// Server answers requests for the files under one data directory.
type Server struct {
	dataDir string
	handles *HandleCache
	log     logger.Logger
}

// NewServer returns a Server reading dataDir through handles.
func NewServer(dataDir string, handles *HandleCache, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{dataDir: dataDir, handles: handles, log: log}
}

// Register mounts the /v1 routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/files", s.handleListFiles)
	e.GET("/v1/files/:name", s.handleFileInfo)
	e.GET("/v1/results/:name/sets/:index", s.handleSolution)
	e.GET("/v1/matrices/:name", s.handleMatrices)
	e.GET("/v1/archives/:name", s.handleArchive)
	e.GET("/v1/archives/:name/components/:component", s.handleComponent)
}

func (s *Server) resolve(c *echo.Context) (string, error) {
	path, err := catalog.Resolve(s.dataDir, c.Param("name"))
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return "", newInvalidRequest(err.Error())
	}
	return path, err
}

func (s *Server) handleListFiles(c *echo.Context) error {
	ents, err := catalog.List(s.dataDir)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, FileList{ID: newRequestID(), Object: "list", Data: ents})
}

func (s *Server) handleFileInfo(c *echo.Context) error {
	path, err := s.resolve(c)
	if err != nil {
		return writeErr(c, err)
	}
	kind, hdr, err := catalog.Detect(path)
	if err != nil {
		return writeErr(c, err)
	}
	resp := FileInfo{ID: newRequestID(), Object: "file", Name: c.Param("name"), Kind: kind, Standard: hdr}

	switch kind {
	case catalog.KindResult:
		r, err := s.handles.Result(path)
		if err != nil {
			return writeErr(c, err)
		}
		resp.Result = &ResultSummary{
			Header: r.Header,
			Nodes:  r.NodeCount(),
			DOFs:   r.DOFCount(),
			Sets:   r.SetCount(),
			Times:  r.TimeValues(),
		}
	case catalog.KindFull:
		f, err := s.handles.Full(path)
		if err != nil {
			return writeErr(c, err)
		}
		resp.Full = &FullSummary{Header: f.Header}
	case catalog.KindArchive:
		a, err := s.handles.Archive(c.Request().Context(), path)
		if err != nil {
			return writeErr(c, err)
		}
		resp.Archive = summarizeArchive(a)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSolution(c *echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return writeBadRequest(c, "set index must be an integer", "index")
	}
	order := rst.Sorted
	switch strings.ToLower(c.QueryParam("order")) {
	case "", "sorted":
	case "unsorted":
		order = rst.Unsorted
	default:
		return writeBadRequest(c, "order must be sorted or unsorted", "order")
	}

	path, err := s.resolve(c)
	if err != nil {
		return writeErr(c, err)
	}
	r, err := s.handles.Result(path)
	if err != nil {
		return writeErr(c, err)
	}
	nodes, vals, err := r.NodalSolution(c.Request().Context(), index, order)
	if err != nil {
		return writeErr(c, err)
	}
	resp := SolutionResponse{
		ID:     newRequestID(),
		Object: "solution",
		File:   c.Param("name"),
		Set:    index,
		Order:  order.String(),
		Nodes:  nodes,
		Values: denseRows(vals),
	}
	if times := r.TimeValues(); index < len(times) {
		resp.Time = times[index]
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMatrices(c *echo.Context) error {
	sorted, err := queryBool(c, "sort")
	if err != nil {
		return writeErr(c, err)
	}
	path, err := s.resolve(c)
	if err != nil {
		return writeErr(c, err)
	}
	f, err := s.handles.Full(path)
	if err != nil {
		return writeErr(c, err)
	}
	m, err := f.LoadKM(c.Request().Context(), full.LoadOptions{Sort: sorted})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, MatricesResponse{
		ID:       newRequestID(),
		Object:   "matrices",
		File:     c.Param("name"),
		Sorted:   sorted,
		Matrices: m,
	})
}

func (s *Server) handleArchive(c *echo.Context) error {
	path, err := s.resolve(c)
	if err != nil {
		return writeErr(c, err)
	}
	if !catalog.IsArchivePath(path) {
		return writeBadRequest(c, "not a CDB archive", "name")
	}
	a, err := s.handles.Archive(c.Request().Context(), path)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      newRequestID(),
		"object":  "archive",
		"file":    c.Param("name"),
		"archive": summarizeArchive(a),
	})
}

func (s *Server) handleComponent(c *echo.Context) error {
	path, err := s.resolve(c)
	if err != nil {
		return writeErr(c, err)
	}
	if !catalog.IsArchivePath(path) {
		return writeBadRequest(c, "not a CDB archive", "name")
	}
	a, err := s.handles.Archive(c.Request().Context(), path)
	if err != nil {
		return writeErr(c, err)
	}
	name := c.Param("component")
	resp := ComponentResponse{ID: newRequestID(), Object: "component", File: c.Param("name"), Name: name}
	if m, ok := a.NodeComponents[name]; ok {
		resp.Kind, resp.Members = "node", m
	} else if m, ok := a.ElementComponents[name]; ok {
		resp.Kind, resp.Members = "element", m
	} else {
		n := len(a.NodeComponents) + len(a.ElementComponents)
		return writeErr(c, &errs.NotFoundError{What: "component", Key: name, Available: n})
	}
	return c.JSON(http.StatusOK, resp)
}

func denseRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range r {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
