package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matkit/pkg/matfile"
)

type dumpReport struct {
	Name    string  `json:"name"`
	Class   string  `json:"class"`
	Dims    []int32 `json:"dims"`
	Type    string  `json:"type"`
	Complex bool    `json:"complex"`
	Real    any     `json:"real"`
	Imag    any     `json:"imag,omitempty"`
}

func dumpCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print one variable's metadata and values",
		ArgsUsage: "<file.mat> <name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of a table", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx
			if c.Args().Len() != 2 {
				return cli.Exit("usage: matkit dump <file.mat> <name>", 2)
			}
			f, err := matfile.Open(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open mat: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			arr, err := f.Array(c.Args().Get(1))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			realVals, err := arr.Real.Values()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: decode real part: %v", err), 1)
			}
			report := dumpReport{
				Name:    arr.Name,
				Class:   arr.Class().String(),
				Dims:    arr.Dims,
				Type:    arr.Real.Type.String(),
				Complex: arr.IsComplex(),
				Real:    realVals,
			}
			if arr.Imag != nil {
				imagVals, err := arr.Imag.Values()
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: decode imaginary part: %v", err), 1)
				}
				report.Imag = imagVals
			}

			if asJSON {
				return printJSON(report)
			}
			row("name", report.Name)
			row("class", report.Class)
			row("dims", formatDims(report.Dims))
			row("type", report.Type)
			row("complex", fmt.Sprintf("%v", report.Complex))
			fmt.Printf("real: %v\n", report.Real)
			if report.Imag != nil {
				fmt.Printf("imag: %v\n", report.Imag)
			}
			return nil
		},
	}
}
