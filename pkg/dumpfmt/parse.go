package dumpfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kabidw/kabidw/pkg/kabierr"
	"github.com/kabidw/kabidw/pkg/typegraph"
)

// ParseTree parses the prefix-printed type tree body produced by WriteTree,
// reconstructing the type graph it encodes. It is the reverse direction of
// the grammar documented on WriteTree and writeChain: the comparator and
// show command consume graphs built this way, never raw DWARF.
func ParseTree(r io.Reader) (*typegraph.Node, error) {
	l := newLexer(r)
	n, err := parseValue(l)
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindParse, "dumpfmt.ParseTree", "parse type tree", err)
	}
	return n, nil
}

func unsentinel(name string) string {
	if name == emptyName {
		return ""
	}
	return name
}

// parseValue parses one "chain" position: a value with no name prefix of
// its own (a pointee, an array element, a qualifier's inner type, or a
// record's root node).
func parseValue(l *lexer) (*typegraph.Node, error) {
	t, err := l.peekTok()
	if err != nil {
		return nil, err
	}

	switch {
	case t.kind == tokString:
		l.next()
		return typegraph.NewBase(t.text), nil

	case t.kind == tokPunct && t.text == "*":
		l.next()
		inner, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		return typegraph.NewPtr(inner), nil

	case t.kind == tokPunct && t.text == "[":
		l.next()
		idxTok, err := l.next()
		if err != nil {
			return nil, err
		}
		if idxTok.kind != tokIdent {
			return nil, fmt.Errorf("dumpfmt: expected array length, got %q", idxTok.text)
		}
		idx, err := strconv.ParseUint(idxTok.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dumpfmt: invalid array length %q: %w", idxTok.text, err)
		}
		if err := expectPunct(l, "]"); err != nil {
			return nil, err
		}
		inner, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		return typegraph.NewArray(idx, inner), nil

	case t.kind == tokPunct && t.text == "->":
		l.next()
		pathTok, err := l.next()
		if err != nil {
			return nil, err
		}
		if pathTok.kind != tokString {
			return nil, fmt.Errorf("dumpfmt: expected quoted reffile path, got %q", pathTok.text)
		}
		return typegraph.NewRefFile(pathTok.text), nil

	case t.kind == tokIdent && (t.text == "const" || t.text == "volatile"):
		l.next()
		inner, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		return typegraph.NewQualifier(t.text, inner), nil

	case t.kind == tokIdent && t.text == "typedef":
		l.next()
		nameTok, err := l.next()
		if err != nil {
			return nil, err
		}
		inner, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		return typegraph.NewTypedef(unsentinel(nameTok.text), inner), nil

	case t.kind == tokIdent && (t.text == "struct" || t.text == "union" || t.text == "enum"):
		return parseComposite(l, t.text)

	case t.kind == tokIdent:
		return parseNamedValue(l)

	default:
		return nil, fmt.Errorf("dumpfmt: unexpected token %q", t.text)
	}
}

// parseNamedValue parses a name-prefixed node: a var (name + inner chain),
// an enum constant (name "=" hex), or a func (name "(" params ")" inner).
func parseNamedValue(l *lexer) (*typegraph.Node, error) {
	nameTok, err := l.next()
	if err != nil {
		return nil, err
	}
	name := unsentinel(nameTok.text)

	next, err := l.peekTok()
	if err != nil {
		return nil, err
	}

	switch {
	case next.kind == tokPunct && next.text == "(":
		return parseFunc(l, name)

	case next.kind == tokPunct && next.text == "=":
		l.next()
		valTok, err := l.next()
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseUint(valTok.text, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("dumpfmt: invalid constant value %q: %w", valTok.text, err)
		}
		return typegraph.NewConstant(name, int64(val)), nil

	default:
		inner, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		return typegraph.NewVar(name, inner), nil
	}
}

func parseFunc(l *lexer, name string) (*typegraph.Node, error) {
	if err := expectPunct(l, "("); err != nil {
		return nil, err
	}

	var members []*typegraph.Node
	for {
		t, err := l.peekTok()
		if err != nil {
			return nil, err
		}
		if t.kind == tokPunct && t.text == ")" {
			l.next()
			break
		}
		m, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	ret, err := parseValue(l)
	if err != nil {
		return nil, err
	}

	fn := typegraph.NewFunc(ret)
	fn.Name = name
	for _, m := range members {
		fn.AddMember(m)
	}
	return fn, nil
}

func parseComposite(l *lexer, kindWord string) (*typegraph.Node, error) {
	l.next() // consume "struct"/"union"/"enum"

	nameTok, err := l.peekTok()
	if err != nil {
		return nil, err
	}
	name := ""
	if nameTok.kind == tokIdent {
		l.next()
		name = nameTok.text
	}

	if err := expectPunct(l, "{"); err != nil {
		return nil, err
	}

	var node *typegraph.Node
	switch kindWord {
	case "struct":
		node = typegraph.NewStruct(name)
	case "union":
		node = typegraph.NewUnion(name)
	case "enum":
		node = typegraph.NewEnum(name)
	}

	if err := parseCompositeLayout(l, node); err != nil {
		return nil, err
	}

	for {
		t, err := l.peekTok()
		if err != nil {
			return nil, err
		}
		if t.kind == tokPunct && t.text == "}" {
			l.next()
			break
		}
		if t.kind == tokEOF {
			return nil, fmt.Errorf("dumpfmt: unexpected EOF inside %s %s", kindWord, name)
		}
		member, err := parseMember(l)
		if err != nil {
			return nil, err
		}
		node.AddMember(member)
	}

	return node, nil
}

// parseCompositeLayout consumes the optional "size 0x.. align 0x.." line
// written by writeComposite for a struct/union/enum carrying byte_size
// and/or alignment metadata.
func parseCompositeLayout(l *lexer, node *typegraph.Node) error {
	t, err := l.peekTok()
	if err != nil {
		return err
	}
	if t.kind != tokIdent || t.text != "size" && t.text != "align" {
		return nil
	}

	if t.text == "size" {
		l.next()
		sizeTok, err := l.next()
		if err != nil {
			return err
		}
		size, _, _, _, err := parseOffsetToken(sizeTok.text)
		if err != nil {
			return fmt.Errorf("dumpfmt: invalid byte size %q: %w", sizeTok.text, err)
		}
		node.SetByteSize(size)
	}

	t, err = l.peekTok()
	if err != nil {
		return err
	}
	if t.kind == tokIdent && t.text == "align" {
		l.next()
		alignTok, err := l.next()
		if err != nil {
			return err
		}
		align, _, _, _, err := parseOffsetToken(alignTok.text)
		if err != nil {
			return fmt.Errorf("dumpfmt: invalid alignment %q: %w", alignTok.text, err)
		}
		node.SetAlignment(align)
	}

	return nil
}

// parseMember parses one composite child: a struct field (offset-prefixed),
// or a var/constant (handled identically to any other named value).
func parseMember(l *lexer) (*typegraph.Node, error) {
	t, err := l.peekTok()
	if err != nil {
		return nil, err
	}
	if t.kind == tokOffset {
		return parseStructMember(l)
	}
	return parseValue(l)
}

func parseStructMember(l *lexer) (*typegraph.Node, error) {
	offTok, err := l.next()
	if err != nil {
		return nil, err
	}
	offset, isBitfield, first, last, err := parseOffsetToken(offTok.text)
	if err != nil {
		return nil, err
	}

	nameTok, err := l.next()
	if err != nil {
		return nil, err
	}
	name := unsentinel(nameTok.text)

	inner, err := parseValue(l)
	if err != nil {
		return nil, err
	}

	if isBitfield {
		return typegraph.NewBitfieldMember(name, offset, first, last, inner), nil
	}
	return typegraph.NewStructMember(name, offset, inner), nil
}

// parseOffsetToken parses "0x<hex>" or "0x<hex>:<first>-<last>".
func parseOffsetToken(text string) (offset uint64, isBitfield bool, first, last int, err error) {
	s := strings.TrimPrefix(text, "0x")
	hexPart, bitsPart, hasBits := strings.Cut(s, ":")

	offset, err = strconv.ParseUint(hexPart, 16, 64)
	if err != nil {
		return 0, false, 0, 0, fmt.Errorf("dumpfmt: invalid offset %q: %w", text, err)
	}
	if !hasBits {
		return offset, false, 0, 0, nil
	}

	firstStr, lastStr, ok := strings.Cut(bitsPart, "-")
	if !ok {
		return 0, false, 0, 0, fmt.Errorf("dumpfmt: invalid bitfield range %q", text)
	}
	first, err = strconv.Atoi(firstStr)
	if err != nil {
		return 0, false, 0, 0, fmt.Errorf("dumpfmt: invalid bitfield first bit %q: %w", text, err)
	}
	last, err = strconv.Atoi(lastStr)
	if err != nil {
		return 0, false, 0, 0, fmt.Errorf("dumpfmt: invalid bitfield last bit %q: %w", text, err)
	}
	return offset, true, first, last, nil
}

func expectPunct(l *lexer, text string) error {
	t, err := l.next()
	if err != nil {
		return err
	}
	if t.kind != tokPunct || t.text != text {
		return fmt.Errorf("dumpfmt: expected %q, got %q", text, t.text)
	}
	return nil
}
