package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samcharles93/ansysio/internal/catalog"
	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/samcharles93/ansysio/pkg/archive"
	"github.com/samcharles93/ansysio/pkg/binfile"
	"github.com/samcharles93/ansysio/pkg/full"
	"github.com/samcharles93/ansysio/pkg/rst"
	"github.com/urfave/cli/v3"
)

var errNoFile = errors.New("a file argument is required")

type inspectReport struct {
	Path     string                  `json:"path"`
	Kind     catalog.Kind            `json:"kind"`
	Standard *binfile.StandardHeader `json:"standard_header,omitempty"`
	Result   *rst.Header             `json:"result_header,omitempty"`
	Times    []float64               `json:"times,omitempty"`
	Full     *full.Header            `json:"full_header,omitempty"`
	Archive  *archiveReport          `json:"archive,omitempty"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Identify a file and print its headers",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errNoFile
			}
			log := logger.FromContext(ctx)

			kind, hdr, err := catalog.Detect(path)
			if err != nil {
				return err
			}
			rep := inspectReport{Path: path, Kind: kind, Standard: hdr}
			switch kind {
			case catalog.KindResult:
				r, err := rst.Open(path, rst.Options{Logger: log})
				if err != nil {
					return err
				}
				rep.Result = &r.Header
				rep.Times = r.TimeValues()
			case catalog.KindFull:
				f, err := full.Open(path, full.Options{Logger: log})
				if err != nil {
					return err
				}
				rep.Full = &f.Header
			case catalog.KindArchive:
				a, err := archive.Read(ctx, path, archive.Options{Logger: log})
				if err != nil {
					return err
				}
				rep.Archive = newArchiveReport(a)
			case catalog.KindUnknown:
				return fmt.Errorf("%s: not an ANSYS binary file or CDB archive", path)
			}

			out := stdout(cmd)
			if jsonOutput {
				return writeJSON(out, rep)
			}
			printInspect(out, rep)
			return nil
		},
	}
}

func printInspect(w io.Writer, rep inspectReport) {
	fmt.Fprintf(w, "file:      %s\n", rep.Path)
	fmt.Fprintf(w, "kind:      %s\n", rep.Kind)
	if h := rep.Standard; h != nil {
		fmt.Fprintf(w, "format:    %s\n", h.Format)
		fmt.Fprintf(w, "version:   %s\n", h.Version)
		fmt.Fprintf(w, "jobname:   %s\n", h.Jobname)
		fmt.Fprintf(w, "units:     %s\n", h.Units)
		if h.Title != "" {
			fmt.Fprintf(w, "title:     %s\n", h.Title)
		}
		if h.Date != "" {
			fmt.Fprintf(w, "written:   %s %s\n", h.Date, h.Time)
		}
	}
	if h := rep.Result; h != nil {
		fmt.Fprintf(w, "nodes:     %d\n", h.Nodes)
		fmt.Fprintf(w, "elements:  %d\n", h.Elements)
		fmt.Fprintf(w, "dofs/node: %d\n", h.DOFs)
		fmt.Fprintf(w, "sets:      %d\n", h.Sets)
		for i, t := range rep.Times {
			fmt.Fprintf(w, "  set %-4d time %g\n", i, t)
		}
	}
	if h := rep.Full; h != nil {
		fmt.Fprintf(w, "equations: %d\n", h.Equations)
		fmt.Fprintf(w, "nodes:     %d\n", h.Nodes)
		fmt.Fprintf(w, "dofs/node: %d\n", h.DOFs)
		fmt.Fprintf(w, "k terms:   %d\n", h.TermsK)
		fmt.Fprintf(w, "m terms:   %d\n", h.TermsM)
	}
	if rep.Archive != nil {
		printArchive(w, rep.Archive, false)
	}
}
