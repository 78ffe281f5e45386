package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/internal/viz"
	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/mesh"
	"github.com/samcharles93/ansysio/pkg/rst"
	"github.com/urfave/cli/v3"
)

func plotCmd() *cli.Command {
	var (
		archivePath string
		resultPath  string
		set         int
		component   string
		output      string
		backend     string
	)

	return &cli.Command{
		Name:  "plot",
		Usage: "Export an archive mesh, optionally coloured by a result set, for an external viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "archive",
				Aliases:     []string{"a"},
				Usage:       "CDB archive holding the mesh",
				Required:    true,
				Destination: &archivePath,
			},
			&cli.StringFlag{
				Name:        "result",
				Aliases:     []string{"r"},
				Usage:       "result file to take nodal displacements from",
				Destination: &resultPath,
			},
			&cli.IntFlag{
				Name:        "set",
				Aliases:     []string{"s"},
				Usage:       "zero-based result set index",
				Destination: &set,
			},
			&cli.StringFlag{
				Name:        "component",
				Usage:       "displacement component (x, y, z, norm)",
				Value:       "norm",
				Destination: &component,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file",
				Value:       "mesh.vtk",
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "plot backend (vtk, none)",
				Value:       "vtk",
				Destination: &backend,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyPlotConfig(cmd, appConfig, &backend)
			plotter := viz.Select(backend, log)

			a, err := archive.Read(ctx, archivePath, archive.Options{Logger: log})
			if err != nil {
				return err
			}
			grid, err := mesh.FromArchive(a)
			if err != nil {
				return err
			}
			if grid.Points == nil {
				return errors.New(archivePath + ": archive has no nodes")
			}
			req := viz.Request{Title: a.Path, Grid: grid, Output: output}

			if resultPath != "" {
				comp, err := viz.ParseComponent(component)
				if err != nil {
					return err
				}
				vals, err := displacement(ctx, resultPath, grid, set, comp, log)
				if err != nil {
					return err
				}
				lo, hi := viz.Range(vals)
				log.Info("nodal values", "component", comp, "min", lo, "max", hi)
				req.Name = "displacement_" + string(comp)
				req.Values = vals
				req.Title = fmt.Sprintf("%s set %d", resultPath, set)
			}

			if err := plotter.Plot(ctx, req); err != nil {
				return err
			}
			if _, ok := plotter.(viz.Nop); !ok {
				log.Info("wrote plot", "backend", plotter.Name(), "path", output, "cells", grid.Cells.Len())
			}
			return nil
		},
	}
}

// displacement maps one result set onto the grid points. Every archive
// node must appear in the result file.
func displacement(ctx context.Context, path string, grid *mesh.Grid, set int, comp viz.Component, log logger.Logger) ([]float64, error) {
	r, err := rst.Open(path, rst.Options{Logger: log})
	if err != nil {
		return nil, err
	}
	rows, err := r.CrossReference(grid.NodeNumbers)
	if err != nil {
		return nil, err
	}
	_, sol, err := r.NodalSolution(ctx, set, rst.Sorted)
	if err != nil {
		return nil, err
	}
	return viz.Scalars(sol, rows, comp)
}
