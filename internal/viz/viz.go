// Package viz exports decoded meshes and nodal results for external
// viewers. Backends are chosen once from configuration; an unavailable
// backend degrades to Nop with a warning.
package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/mesh"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Request is one plot: a grid and an optional scalar per grid point.
type Request struct {
	Title  string
	Grid   *mesh.Grid
	Name   string
	Values []float64
	Output string
}

// Plotter renders a Request.
type Plotter interface {
	Name() string
	Plot(ctx context.Context, req Request) error
}

// Nop discards every request.
type Nop struct{}

func (Nop) Name() string { return "none" }

func (Nop) Plot(context.Context, Request) error { return nil }

// Select returns the backend named by name. "" and "none" give Nop. An
// unknown or unavailable backend logs a warning and also gives Nop, so
// callers never fail for lack of a viewer.
func Select(name string, log logger.Logger) Plotter {
	if log == nil {
		log = logger.Discard()
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return Nop{}
	case "vtk":
		return VTKWriter{}
	default:
		log.Warn("plot backend unavailable, plots disabled", "backend", name)
		return Nop{}
	}
}

// Component selects a scalar from a nodal displacement row.
type Component string

const (
	ComponentX    Component = "x"
	ComponentY    Component = "y"
	ComponentZ    Component = "z"
	ComponentNorm Component = "norm"
)

func ParseComponent(s string) (Component, error) {
	switch c := Component(strings.ToLower(s)); c {
	case ComponentX, ComponentY, ComponentZ, ComponentNorm:
		return c, nil
	default:
		return "", fmt.Errorf("unknown component %q (want x, y, z or norm)", s)
	}
}

// Scalars picks one value per grid point from a nodal solution. rows[i]
// is the solution row for grid point i, as returned by a cross reference.
// The first three solution columns are taken as UX, UY, UZ; columns a
// result does not have read as zero.
func Scalars(sol *mat.Dense, rows []int, comp Component) ([]float64, error) {
	nrows, ncols := sol.Dims()
	out := make([]float64, len(rows))
	xyz := make([]float64, 3)
	for i, r := range rows {
		if r < 0 || r >= nrows {
			return nil, fmt.Errorf("grid point %d: solution row %d out of range (%d rows)", i, r, nrows)
		}
		for j := range xyz {
			xyz[j] = 0
			if j < ncols {
				xyz[j] = sol.At(r, j)
			}
		}
		switch comp {
		case ComponentX:
			out[i] = xyz[0]
		case ComponentY:
			out[i] = xyz[1]
		case ComponentZ:
			out[i] = xyz[2]
		case ComponentNorm:
			out[i] = floats.Norm(xyz, 2)
		default:
			return nil, fmt.Errorf("unknown component %q", comp)
		}
	}
	return out, nil
}

// Range returns the smallest and largest finite value.
func Range(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
