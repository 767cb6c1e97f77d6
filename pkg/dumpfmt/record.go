package dumpfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kabidw/kabidw/pkg/kabierr"
	"github.com/kabidw/kabidw/pkg/typegraph"
)

// Record is the subset of pkg/record.Record that this package knows how
// to serialize; kept separate so dumpfmt has no dependency on pkg/record.
type Record struct {
	CU     string
	Origin string
	Stack  []string
	Obj    *typegraph.Node
}

// WriteRecord writes rec to w in the canonical format: a "CU" line, a
// "File" line, zero or more stack-entry lines outermost first, then the
// prefix-printed type tree.
func WriteRecord(w io.Writer, rec Record) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "CU %q\n", rec.CU); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "File %s\n", rec.Origin); err != nil {
		return err
	}
	for _, entry := range rec.Stack {
		if _, err := fmt.Fprintf(bw, "-> %q\n", entry); err != nil {
			return err
		}
	}
	if err := WriteTree(bw, rec.Obj); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadRecord parses the canonical format produced by WriteRecord.
func ReadRecord(r io.Reader) (Record, error) {
	br := bufio.NewReader(r)

	cuLine, err := br.ReadString('\n')
	if err != nil {
		return Record{}, kabierr.Wrap(kabierr.KindFormat, "dumpfmt.ReadRecord", "read CU line", err)
	}
	cu, ok := unquoteField(cuLine, "CU ")
	if !ok {
		return Record{}, kabierr.New(kabierr.KindFormat, "dumpfmt.ReadRecord", "malformed CU line")
	}

	fileLine, err := br.ReadString('\n')
	if err != nil {
		return Record{}, kabierr.Wrap(kabierr.KindFormat, "dumpfmt.ReadRecord", "read File line", err)
	}
	origin := strings.TrimPrefix(strings.TrimSuffix(fileLine, "\n"), "File ")

	var stack []string
	for {
		peek, err := br.Peek(3)
		if err != nil || string(peek) != "-> " {
			break
		}
		line, err := br.ReadString('\n')
		if err != nil {
			return Record{}, kabierr.Wrap(kabierr.KindFormat, "dumpfmt.ReadRecord", "read stack line", err)
		}
		entry, ok := unquoteField(line, "-> ")
		if !ok {
			return Record{}, kabierr.New(kabierr.KindFormat, "dumpfmt.ReadRecord", "malformed stack line")
		}
		stack = append(stack, entry)
	}

	obj, err := ParseTree(br)
	if err != nil {
		return Record{}, err
	}

	return Record{CU: cu, Origin: origin, Stack: stack, Obj: obj}, nil
}

func unquoteField(line, prefix string) (string, bool) {
	line = strings.TrimSuffix(line, "\n")
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	quoted := strings.TrimPrefix(line, prefix)
	unquoted, err := strconv.Unquote(quoted)
	if err != nil {
		return "", false
	}
	return unquoted, true
}
