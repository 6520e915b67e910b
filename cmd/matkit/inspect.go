package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matkit/pkg/matfile"
)

type inspectReport struct {
	File         string          `json:"file"`
	Size         int64           `json:"size"`
	Description  string          `json:"description"`
	Version      uint16          `json:"version"`
	ByteOrder    string          `json:"byte_order"`
	HasSubsystem bool            `json:"has_subsystem"`
	Elements     []elementReport `json:"elements"`
}

type elementReport struct {
	Index      int     `json:"index"`
	Encoding   string  `json:"encoding"`
	Type       string  `json:"type"`
	Size       uint32  `json:"size"`
	Compressed bool    `json:"compressed,omitempty"`
	Name       string  `json:"name,omitempty"`
	Class      string  `json:"class,omitempty"`
	Dims       []int32 `json:"dims,omitempty"`
	Complex    bool    `json:"complex,omitempty"`
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect the contents of a MAT-file",
		ArgsUsage: "<file.mat>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit JSON instead of a table", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx
			if c.Args().Len() != 1 {
				return cli.Exit("usage: matkit inspect <file.mat>", 2)
			}
			path := c.Args().First()

			stat, err := os.Stat(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: stat %q: %v", path, err), 1)
			}
			f, err := matfile.Open(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open mat: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			report := buildReport(path, stat.Size(), f)
			if asJSON {
				return printJSON(report)
			}
			printReport(report)
			return nil
		},
	}
}

func buildReport(path string, size int64, f *matfile.File) inspectReport {
	r := inspectReport{
		File:         filepath.Base(path),
		Size:         size,
		Description:  f.Header.Description(),
		Version:      f.Header.Version,
		ByteOrder:    byteOrderName(f.Header.Order),
		HasSubsystem: f.Header.HasSubsystem(),
		Elements:     make([]elementReport, 0, len(f.Elements)),
	}
	for i := range f.Elements {
		e := &f.Elements[i]
		er := elementReport{
			Index:      i,
			Encoding:   encodingName(e),
			Type:       e.Type.String(),
			Size:       e.Size,
			Compressed: e.Compressed,
		}
		if a := e.Array; a != nil {
			er.Name = a.Name
			er.Class = a.Class().String()
			er.Dims = a.Dims
			er.Complex = a.IsComplex()
		}
		r.Elements = append(r.Elements, er)
	}
	return r
}

func printReport(r inspectReport) {
	fmt.Printf("MAT Inspect: %s (%s)\n", r.File, formatBytes(uint64(r.Size)))
	section("Header")
	row("description", r.Description)
	row("version", fmt.Sprintf("0x%04x", r.Version))
	row("byte_order", r.ByteOrder)
	row("subsystem", fmt.Sprintf("%v", r.HasSubsystem))
	rowInt("elements", len(r.Elements))

	if len(r.Elements) == 0 {
		return
	}
	section("Elements")
	for _, e := range r.Elements {
		line := fmt.Sprintf("%3d  %-5s %-14s %10s", e.Index, e.Encoding, e.Type, formatBytes(uint64(e.Size)))
		if e.Compressed {
			line += "  (compressed)"
		}
		if e.Name != "" || e.Class != "" {
			line += fmt.Sprintf("  %s %s dims=%s", e.Name, e.Class, formatDims(e.Dims))
			if e.Complex {
				line += " complex"
			}
		}
		fmt.Println(line)
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}

func encodingName(e *matfile.Element) string {
	if e.Small {
		return "small"
	}
	return "large"
}

func formatDims(dims []int32) string {
	if len(dims) == 0 {
		return "[]"
	}
	parts := make([]string, len(dims))
	for i, v := range dims {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, "x") + "]"
}

func section(title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-16s %s\n", label+":", value)
}

func rowInt(label string, v int) {
	row(label, fmt.Sprintf("%d", v))
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
