package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/full"
	"github.com/samcharles93/ansysio/pkg/sparse"
	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/mat"
)

// maxDense bounds --dense output.
const maxDense = 24

func matricesCmd() *cli.Command {
	var (
		sorted bool
		dense  bool
	)

	return &cli.Command{
		Name:      "matrices",
		Usage:     "Extract the stiffness and mass matrices of a .full file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.BoolFlag{
				Name:        "sort",
				Usage:       "order DOFs by node number",
				Destination: &sorted,
			},
			&cli.BoolFlag{
				Name:        "dense",
				Usage:       fmt.Sprintf("print matrices in dense form (up to %d DOFs)", maxDense),
				Destination: &dense,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errNoFile
			}
			f, err := full.Open(path, full.Options{Logger: logger.FromContext(ctx)})
			if err != nil {
				return err
			}
			m, err := f.LoadKM(ctx, full.LoadOptions{Sort: sorted})
			if err != nil {
				return err
			}

			out := stdout(cmd)
			if jsonOutput {
				return writeJSON(out, m)
			}
			fmt.Fprintf(out, "free dofs:        %d\n", len(m.DOFRef))
			fmt.Fprintf(out, "constrained dofs: %d\n", len(m.Constrained))
			for _, named := range []struct {
				name string
				t    *sparse.Triplets
			}{{"K", m.K}, {"M", m.M}} {
				if err := printMatrix(out, named.name, named.t, dense); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printMatrix(w io.Writer, name string, t *sparse.Triplets, dense bool) error {
	if t == nil {
		fmt.Fprintf(w, "%s: absent\n", name)
		return nil
	}
	fmt.Fprintf(w, "%s: %d x %d, %d stored terms (upper triangle)\n", name, t.N, t.N, t.Len())
	if !dense {
		return nil
	}
	if t.N > maxDense {
		return fmt.Errorf("%s has %d DOFs, more than the %d --dense prints", name, t.N, maxDense)
	}
	sym, err := t.SymDense()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", mat.Formatted(sym, mat.Squeeze()))
	return nil
}
