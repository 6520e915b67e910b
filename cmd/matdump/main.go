package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samcharles93/matkit/pkg/matfile"
)

func main() {
	var (
		showElements = flag.Bool("el", false, "list every data element")
		showVars     = flag.Bool("vars", true, "list matrix variables")
		dumpName     = flag.String("dump", "", "print the values of one variable")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: matdump [--el] [--vars] [--dump NAME] <path.mat>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, err := matfile.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	fmt.Printf("File: %s\n", path)
	fmt.Printf("MAT v0x%04x | order=%s | elements=%d | subsystem=%v\n",
		f.Header.Version, orderName(f), len(f.Elements), f.Header.HasSubsystem())
	if desc := f.Header.Description(); desc != "" {
		fmt.Printf("Description: %s\n", desc)
	}

	if *showElements {
		fmt.Println()
		fmt.Println("Elements:")
		for i := range f.Elements {
			e := &f.Elements[i]
			enc := "large"
			if e.Small {
				enc = "small"
			}
			line := fmt.Sprintf("  %3d  %-5s %-14s %d bytes", i, enc, e.Type, e.Size)
			if e.Compressed {
				line += " (compressed)"
			}
			fmt.Println(line)
		}
	}

	if *showVars {
		fmt.Println()
		fmt.Println("Variables:")
		for i := range f.Elements {
			a := f.Elements[i].Array
			if a == nil {
				continue
			}
			complexMark := ""
			if a.IsComplex() {
				complexMark = " complex"
			}
			fmt.Printf("  %-24s %-16s dims=%s%s\n", a.Name, a.Class(), formatDims(a.Dims), complexMark)
		}
	}

	if *dumpName != "" {
		arr, err := f.Array(*dumpName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		vals, err := arr.Real.Values()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Printf("%s real: %v\n", arr.Name, vals)
		if arr.Imag != nil {
			imag, err := arr.Imag.Values()
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			fmt.Printf("%s imag: %v\n", arr.Name, imag)
		}
	}
}

func orderName(f *matfile.File) string {
	if f.Header.Order.String() == "BigEndian" {
		return "big"
	}
	return "little"
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
