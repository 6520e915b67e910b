package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matkit/pkg/matfile"
)

type whoEntry struct {
	Name    string  `json:"name"`
	Class   string  `json:"class"`
	Dims    []int32 `json:"dims"`
	Complex bool    `json:"complex"`
}

func whoCmd() *cli.Command {
	var (
		long   bool
		asJSON bool
	)

	return &cli.Command{
		Name:      "who",
		Usage:     "List the variables in a MAT-file",
		ArgsUsage: "<file.mat>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "long", Aliases: []string{"l"}, Usage: "include class and dimensions", Destination: &long},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of plain names", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx
			if c.Args().Len() != 1 {
				return cli.Exit("usage: matkit who <file.mat>", 2)
			}
			f, err := matfile.Open(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open mat: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			if asJSON {
				entries := make([]whoEntry, 0, len(f.Elements))
				for i := range f.Elements {
					if a := f.Elements[i].Array; a != nil {
						entries = append(entries, whoEntry{
							Name:    a.Name,
							Class:   a.Class().String(),
							Dims:    a.Dims,
							Complex: a.IsComplex(),
						})
					}
				}
				return printJSON(entries)
			}

			for i := range f.Elements {
				a := f.Elements[i].Array
				if a == nil {
					continue
				}
				if long {
					fmt.Printf("%-24s %-16s %s\n", a.Name, a.Class().String(), formatDims(a.Dims))
				} else {
					fmt.Println(a.Name)
				}
			}
			return nil
		},
	}
}
