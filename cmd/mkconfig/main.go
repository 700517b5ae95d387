//go:build !tinygo

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"macrodeck/config"
)

const defaultOutPath = "config.bin"

func main() {
	var (
		mode       = flag.String("mode", "encode", "encode|dump.")
		layoutPath = flag.String("layout", "", "YAML layout (encode mode).")
		inPath     = flag.String("in", defaultOutPath, "Configuration blob (dump mode).")
		outPath    = flag.String("out", "", "Output path (default config.bin for encode, stdout for dump).")
	)
	flag.Parse()

	switch strings.ToLower(*mode) {
	case "encode":
		if *layoutPath == "" {
			fatalf("usage: mkconfig -layout deck.yaml [-out config.bin]\n       mkconfig -mode dump [-in config.bin] [-out dump.txt]")
		}
		out := *outPath
		if out == "" {
			out = defaultOutPath
		}
		if err := encode(*layoutPath, out); err != nil {
			fatalf("encode: %v", err)
		}
	case "dump":
		if err := dumpFile(*inPath, *outPath); err != nil {
			fatalf("dump: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func encode(layoutPath, outPath string) error {
	l, err := loadLayout(layoutPath)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", outPath, err)
	}
	w := bufio.NewWriter(f)
	if err := config.Encode(w, l); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", outPath, err)
	}
	return f.Close()
}

func dumpFile(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", inPath, err)
	}
	defer func() { _ = in.Close() }()

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %q: %w", outPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return dump(config.NewReadSeekerStream(in), out)
}

// dump writes the header and every page's decoded functions.
func dump(stream config.Stream, w io.Writer) error {
	store, err := config.NewStore(stream)
	if err != nil {
		return err
	}
	h := store.Header()
	fmt.Fprintf(w, "%s\n", h)
	for p := uint16(0); p < h.StoredPages(); p++ {
		if err := store.LoadPage(p); err != nil {
			return err
		}
		fmt.Fprintf(w, "page %d\n", p)
		for a, b := range store.Page().Buttons {
			fmt.Fprintf(w, "  %2d: primary=%s", a, b.PrimaryFunction())
			if b.HasSecondaryFunction() {
				fmt.Fprintf(w, " secondary=%s", b.SecondaryFunction())
			}
			if b.HasLiveData() {
				fmt.Fprint(w, " live")
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
