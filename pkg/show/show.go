// Package show implements the thin pretty-printer consumed by the `show`
// subcommand. Per spec.md §1, "the show pretty-printer" is an external
// collaborator specified only through the narrow interface the core
// consumes: parse a record with pkg/dumpfmt, optionally rewrite it with
// pkg/kabi's hide_kabi transform, and render it back out. Nothing here
// participates in extraction or comparison.
package show

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kabidw/kabidw/pkg/dumpfmt"
	"github.com/kabidw/kabidw/pkg/kabi"
	"github.com/kabidw/kabidw/pkg/kabierr"
)

// Options controls show's rendering, mirroring the original tool's
// -d/-k/-n/--no-offset flags (original_source/show.c).
type Options struct {
	Debug    bool // -d: also print the record's CU, origin and containment stack
	HideKabi kabi.HideKabiOptions
	NoOffset bool
}

// File parses the record at path and writes its rendering to w.
func File(w io.Writer, path string, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return kabierr.Wrap(kabierr.KindIO, "show.File", "open record file", err)
	}
	defer f.Close()

	rec, err := dumpfmt.ReadRecord(f)
	if err != nil {
		return err
	}

	if opts.HideKabi.Enabled {
		kabi.HideKabi(rec.Obj, opts.HideKabi.ShowNew)
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if opts.Debug {
		fmt.Fprintf(bw, "CU: %s\n", rec.CU)
		fmt.Fprintf(bw, "Origin: %s\n", rec.Origin)
		for _, entry := range rec.Stack {
			fmt.Fprintf(bw, "-> %s\n", entry)
		}
	}

	return dumpfmt.WriteTreeOpts(bw, rec.Obj, dumpfmt.WriteOptions{NoOffset: opts.NoOffset})
}
