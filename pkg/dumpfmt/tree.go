package dumpfmt

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

const indentWidth = 4

// emptyName is substituted for an empty Name so the grammar never has to
// guess whether a name token was omitted.
const emptyName = "_"

// WriteOptions controls optional cosmetic suppression in WriteTreeOpts.
type WriteOptions struct {
	// NoOffset omits struct_member offset/bitfield annotations, matching
	// the --no-offset display flag.
	NoOffset bool
}

// WriteTree writes the prefix-printed dump of the type graph rooted at n.
func WriteTree(w io.Writer, n *typegraph.Node) error {
	return WriteTreeOpts(w, n, WriteOptions{})
}

// WriteTreeOpts is WriteTree with display options; pkg/compare uses it to
// honor --no-offset when printing diff messages.
func WriteTreeOpts(w io.Writer, n *typegraph.Node, opts WriteOptions) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
		defer bw.Flush()
	}
	if err := writeChain(bw, n, 0, opts); err != nil {
		return err
	}
	return nil
}

func writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth*indentWidth; i++ {
		w.WriteByte(' ')
	}
}

func nameOrSentinel(name string) string {
	if name == "" {
		return emptyName
	}
	return name
}

// writeChain prints the possibly-nested wrapper kinds (struct_member, var,
// ptr, qualifier, array, typedef) on the current line, recursing into
// Pointee, until it reaches a terminal kind (struct/union/enum/func/base/
// constant/reffile) which closes the line or opens a nested block.
func writeChain(w *bufio.Writer, n *typegraph.Node, depth int, opts WriteOptions) error {
	if n == nil {
		_, err := fmt.Fprintf(w, "%q\n", "void")
		return err
	}

	switch n.Kind {
	case typegraph.KindStructMember:
		if !opts.NoOffset {
			writeOffset(w, n)
		}
		fmt.Fprintf(w, "%s ", nameOrSentinel(n.Name))
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindVar:
		fmt.Fprintf(w, "%s ", nameOrSentinel(n.Name))
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindPtr:
		w.WriteByte('*')
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindQualifier:
		fmt.Fprintf(w, "%s ", n.BaseType)
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindArray:
		fmt.Fprintf(w, "[%d]", n.Index)
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindTypedef:
		fmt.Fprintf(w, "typedef %s\n", nameOrSentinel(n.Name))
		writeIndent(w, depth)
		return writeChain(w, n.Pointee, depth, opts)

	case typegraph.KindBase:
		_, err := fmt.Fprintf(w, "%q\n", n.BaseType)
		return err

	case typegraph.KindConstant:
		_, err := fmt.Fprintf(w, "%s = %x\n", nameOrSentinel(n.Name), uint64(n.Constant))
		return err

	case typegraph.KindRefFile:
		_, err := fmt.Fprintf(w, "-> %q\n", n.BaseType)
		return err

	case typegraph.KindStruct, typegraph.KindUnion, typegraph.KindEnum:
		return writeComposite(w, n, depth, opts)

	case typegraph.KindFunc:
		return writeFunc(w, n, depth, opts)

	default:
		return fmt.Errorf("dumpfmt: cannot write node of kind %s", n.Kind)
	}
}

func writeOffset(w *bufio.Writer, n *typegraph.Node) {
	if !n.HasOffset {
		return
	}
	if n.IsBitfield {
		fmt.Fprintf(w, "0x%x:%d-%d ", n.Offset, n.FirstBit, n.LastBit)
		return
	}
	fmt.Fprintf(w, "0x%x ", n.Offset)
}

func writeComposite(w *bufio.Writer, n *typegraph.Node, depth int, opts WriteOptions) error {
	if n.Name != "" {
		fmt.Fprintf(w, "%s %s {\n", n.Kind, n.Name)
	} else {
		fmt.Fprintf(w, "%s {\n", n.Kind)
	}

	if n.HasByteSize || n.HasAlignment {
		writeIndent(w, depth+1)
		if n.HasByteSize {
			fmt.Fprintf(w, "size 0x%x", n.ByteSize)
			if n.HasAlignment {
				w.WriteByte(' ')
			}
		}
		if n.HasAlignment {
			fmt.Fprintf(w, "align 0x%x", n.Alignment)
		}
		w.WriteByte('\n')
	}

	for _, m := range n.Members {
		writeIndent(w, depth+1)
		if err := writeChain(w, m, depth+1, opts); err != nil {
			return err
		}
	}

	writeIndent(w, depth)
	w.WriteString("}\n")
	return nil
}

func writeFunc(w *bufio.Writer, n *typegraph.Node, depth int, opts WriteOptions) error {
	fmt.Fprintf(w, "%s (\n", nameOrSentinel(n.Name))
	for _, m := range n.Members {
		writeIndent(w, depth+1)
		if err := writeChain(w, m, depth+1, opts); err != nil {
			return err
		}
	}
	writeIndent(w, depth)
	w.WriteString(") ")
	return writeChain(w, n.Pointee, depth, opts)
}
