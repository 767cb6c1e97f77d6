package compare

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/kabidw/kabidw/pkg/dumpfmt"
	"github.com/kabidw/kabidw/pkg/typegraph"
)

const (
	addPrefix = "+"
	delPrefix = "-"
)

// CompareTree performs a structural diff of a and b, writing a human
// readable change log to w and returning the most severe verdict
// encountered. a and b are normally two record roots, but the recursion
// also calls it on pointer targets and array/typedef wrappers.
func (c *Comparator) CompareTree(a, b *typegraph.Node, w io.Writer) (Verdict, error) {
	return c.compareTree(a, b, w)
}

func (c *Comparator) compareTree(a, b *typegraph.Node, w io.Writer) (Verdict, error) {
	ret := VerdictSame

	sev, err := c.CompareNodes(a, b, false)
	if err != nil {
		return 0, err
	}
	if sev != CmpSame {
		switch {
		case sev == CmpReffile:
			fmt.Fprintf(w, "symbol %s has changed\n", a.BaseType)
			return VerdictDiff, nil

		case sev == CmpOffset:
			if !c.opts.NoShifted {
				if err := c.printTwoNodes("Shifted", a, b, w); err != nil {
					return 0, err
				}
			}
			ret = combineVerdict(ret, VerdictCont)

		case sev == CmpDiff:
			if !c.opts.NoReplaced {
				if err := c.printTwoNodes("Replaced", a, b, w); err != nil {
					return 0, err
				}
			}
			ret = combineVerdict(ret, VerdictCont)

		case sev == CmpAlignment:
			c.messageAlignment(a, b, w)
			ret = combineVerdict(ret, VerdictCont)

		case sev == CmpByteSize:
			c.messageByteSize(a, b, w)
			ret = combineVerdict(ret, VerdictCont)
		}
	}

	list1, list2 := a.Members, b.Members
	for len(list1) > 0 && len(list2) > 0 {
		headSev, err := c.CompareNodes(list1[0], list2[0], false)
		if err != nil {
			return 0, err
		}
		if headSev == CmpDiff {
			kind, next1, next2, err := c.listDiff(list1, list2)
			if err != nil {
				return 0, err
			}
			switch kind {
			case diffInsert:
				if !c.opts.NoInserted {
					if err := c.printNodeRange("Inserted", addPrefix, list2[:next2], w); err != nil {
						return 0, err
					}
					ret = VerdictDiff
				}
				list2 = list2[next2:]
			case diffDelete:
				if !c.opts.NoDeleted {
					if err := c.printNodeRange("Deleted", delPrefix, list1[:next1], w); err != nil {
						return 0, err
					}
					ret = VerdictDiff
				}
				list1 = list1[next1:]
			case diffReplace, diffCont:
				// Nothing to print directly: the upcoming pairwise
				// compareTree call(s) report the individual changes.
			}
		}

		tmp, err := c.compareTree(list1[0], list2[0], w)
		if err != nil {
			return 0, err
		}
		ret = combineVerdict(ret, tmp)

		list1 = list1[1:]
		list2 = list2[1:]
		if len(list1) == 0 && len(list2) > 0 {
			if !c.opts.NoAdded {
				if err := c.printNodeRange("Added", addPrefix, list2, w); err != nil {
					return 0, err
				}
				ret = VerdictDiff
			}
			return ret, nil
		}
		if len(list1) > 0 && len(list2) == 0 {
			if !c.opts.NoRemoved {
				if err := c.printNodeRange("Removed", delPrefix, list1, w); err != nil {
					return 0, err
				}
				ret = VerdictDiff
			}
			return ret, nil
		}
	}

	if a.Pointee != nil && b.Pointee != nil {
		tmp, err := c.compareTree(a.Pointee, b.Pointee, w)
		if err != nil {
			return 0, err
		}
		ret = combineVerdict(ret, tmp)
	}

	return ret, nil
}

// printTwoNodes walks a and b up to their nearest WorthyOfPrint ancestor in
// lockstep, then prints that ancestor's subtree from each side under a
// "<label>:" header.
func (c *Comparator) printTwoNodes(label string, a, b *typegraph.Node, w io.Writer) error {
	for !a.WorthyOfPrint() {
		a, b = a.Parent, b.Parent
		if a == nil || b == nil {
			return fmt.Errorf("compare: no ancestor worthy of print for %q", label)
		}
	}
	fmt.Fprintf(w, "%s:\n", label)
	if err := c.writePrefixed(w, delPrefix, a); err != nil {
		return err
	}
	return c.writePrefixed(w, addPrefix, b)
}

// printNodeRange prints a run of sibling nodes under a "<label>:" header,
// each line prefixed with prefix.
func (c *Comparator) printNodeRange(label, prefix string, nodes []*typegraph.Node, w io.Writer) error {
	fmt.Fprintf(w, "%s:\n", label)
	for _, n := range nodes {
		if err := c.writePrefixed(w, prefix, n); err != nil {
			return err
		}
	}
	return nil
}

func (c *Comparator) writePrefixed(w io.Writer, prefix string, n *typegraph.Node) error {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := dumpfmt.WriteTreeOpts(bw, n, dumpfmt.WriteOptions{NoOffset: c.opts.NoOffset}); err != nil {
		return err
	}
	bw.Flush()
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if _, err := fmt.Fprintf(w, "%s %s\n", prefix, line); err != nil {
			return err
		}
	}
	return nil
}

func messageValue(v uint64, w io.Writer) {
	if v == 0 {
		fmt.Fprint(w, "<undefined>")
		return
	}
	fmt.Fprintf(w, "%d", v)
}

func (c *Comparator) messageAlignment(a, b *typegraph.Node, w io.Writer) {
	part := "symbol"
	if a.Kind == typegraph.KindStructMember {
		part = "field"
	}
	fmt.Fprintf(w, "The alignment of %s '%s' has changed from ", part, a.Name)
	messageValue(a.Alignment, w)
	fmt.Fprint(w, " to ")
	messageValue(b.Alignment, w)
	fmt.Fprint(w, "\n")
}

func (c *Comparator) messageByteSize(a, b *typegraph.Node, w io.Writer) {
	fmt.Fprintf(w, "The byte size of symbol '%s' has changed from ", a.Name)
	messageValue(a.ByteSize, w)
	fmt.Fprint(w, " to ")
	messageValue(b.ByteSize, w)
	fmt.Fprint(w, "\n")
}
