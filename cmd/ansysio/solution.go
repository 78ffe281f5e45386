package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/rst"
	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/mat"
)

type solutionReport struct {
	Path   string      `json:"path"`
	Set    int         `json:"set"`
	Time   float64     `json:"time"`
	Order  string      `json:"order"`
	Nodes  []int32     `json:"nodes"`
	Values [][]float64 `json:"values"`
}

func solutionCmd() *cli.Command {
	var (
		set      int
		unsorted bool
		nodeList string
	)

	return &cli.Command{
		Name:      "solution",
		Usage:     "Print the nodal DOF solution of one result set",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.IntFlag{
				Name:        "set",
				Aliases:     []string{"s"},
				Usage:       "zero-based result set index",
				Destination: &set,
			},
			&cli.BoolFlag{
				Name:        "unsorted",
				Usage:       "keep the file's node order instead of ascending node numbers",
				Destination: &unsorted,
			},
			&cli.StringFlag{
				Name:        "nodes",
				Usage:       "comma separated node numbers to print",
				Destination: &nodeList,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errNoFile
			}
			r, err := rst.Open(path, rst.Options{Logger: logger.FromContext(ctx)})
			if err != nil {
				return err
			}
			order := rst.Sorted
			if unsorted {
				order = rst.Unsorted
			}
			nodes, vals, err := r.NodalSolution(ctx, set, order)
			if err != nil {
				return err
			}

			rep := solutionReport{Path: path, Set: set, Order: order.String()}
			if times := r.TimeValues(); set < len(times) {
				rep.Time = times[set]
			}
			rows, err := selectRows(r, nodes, nodeList, order)
			if err != nil {
				return err
			}
			for _, i := range rows {
				rep.Nodes = append(rep.Nodes, nodes[i])
				rep.Values = append(rep.Values, mat.Row(nil, i, vals))
			}

			out := stdout(cmd)
			if jsonOutput {
				return writeJSON(out, rep)
			}
			printSolution(out, rep)
			return nil
		},
	}
}

// selectRows returns the rows of nodes to print: all of them, or those
// named in list.
func selectRows(r *rst.ResultFile, nodes []int32, list string, order rst.Order) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		rows := make([]int, len(nodes))
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}
	var want []int32
	for _, f := range strings.Split(list, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad node number %q", f)
		}
		want = append(want, int32(n))
	}
	rows, err := r.CrossReference(want)
	if err != nil {
		return nil, err
	}
	if order == rst.Unsorted {
		sidx := r.SortIndex()
		for i, row := range rows {
			rows[i] = sidx[row]
		}
	}
	return rows, nil
}

func printSolution(w io.Writer, rep solutionReport) {
	fmt.Fprintf(w, "set %d  time %g  (%s)\n", rep.Set, rep.Time, rep.Order)
	for i, n := range rep.Nodes {
		fmt.Fprintf(w, "%10d", n)
		for _, v := range rep.Values[i] {
			fmt.Fprintf(w, " %14.6e", v)
		}
		fmt.Fprintln(w)
	}
}
