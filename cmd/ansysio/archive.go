package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/mesh"
	"github.com/urfave/cli/v3"
)

type elementTypeReport struct {
	Number int32  `json:"number"`
	Type   int32  `json:"type"`
	Family string `json:"family"`
}

type componentReport struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Count   int     `json:"count"`
	Members []int32 `json:"members,omitempty"`
}

type archiveReport struct {
	Nodes         int                       `json:"nodes"`
	Elements      int                       `json:"elements"`
	ElementTypes  []elementTypeReport       `json:"element_types"`
	RealConstants []archive.RealConstantSet `json:"real_constants,omitempty"`
	Components    []componentReport         `json:"components"`
}

func newArchiveReport(a *archive.Archive) *archiveReport {
	rep := &archiveReport{Nodes: a.Nodes.Len(), Elements: len(a.Elements), RealConstants: a.RealConstants}
	for _, et := range a.ElementTypes {
		rep.ElementTypes = append(rep.ElementTypes, elementTypeReport{
			Number: et.Number,
			Type:   et.Type,
			Family: mesh.FamilyOf(et.Type).String(),
		})
	}
	add := func(kind string, comps map[string][]int32) {
		for name, m := range comps {
			rep.Components = append(rep.Components, componentReport{Name: name, Kind: kind, Count: len(m), Members: m})
		}
	}
	add("node", a.NodeComponents)
	add("element", a.ElementComponents)
	slices.SortFunc(rep.Components, func(x, y componentReport) int {
		if c := cmp.Compare(x.Kind, y.Kind); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return rep
}

func archiveCmd() *cli.Command {
	var members bool

	return &cli.Command{
		Name:      "archive",
		Usage:     "Summarize a CDB archive (.cdb or .cdb.zst)",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.BoolFlag{
				Name:        "members",
				Usage:       "list component members",
				Destination: &members,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errNoFile
			}
			a, err := archive.Read(ctx, path, archive.Options{Logger: logger.FromContext(ctx)})
			if err != nil {
				return err
			}
			rep := newArchiveReport(a)
			if !members {
				for i := range rep.Components {
					rep.Components[i].Members = nil
				}
			}
			out := stdout(cmd)
			if jsonOutput {
				return writeJSON(out, rep)
			}
			printArchive(out, rep, members)
			return nil
		},
	}
}

func printArchive(w io.Writer, rep *archiveReport, members bool) {
	fmt.Fprintf(w, "nodes:     %d\n", rep.Nodes)
	fmt.Fprintf(w, "elements:  %d\n", rep.Elements)
	fmt.Fprintf(w, "real sets: %d\n", len(rep.RealConstants))
	if len(rep.ElementTypes) > 0 {
		fmt.Fprintln(w, "element types:")
		for _, et := range rep.ElementTypes {
			fmt.Fprintf(w, "  %-4d %-6d %s\n", et.Number, et.Type, et.Family)
		}
	}
	if len(rep.Components) > 0 {
		fmt.Fprintln(w, "components:")
		for _, c := range rep.Components {
			fmt.Fprintf(w, "  %-8s %-20s %d\n", c.Kind, c.Name, c.Count)
			if members && len(c.Members) > 0 {
				fmt.Fprintf(w, "    %v\n", c.Members)
			}
		}
	}
}
