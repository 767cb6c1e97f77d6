package dwarfx

import (
	"fmt"
	"path"
	"strings"

	"debug/dwarf"

	"github.com/kabidw/kabidw/pkg/kabierr"
	"github.com/kabidw/kabidw/pkg/record"
	"github.com/kabidw/kabidw/pkg/typegraph"
)

// cuCtx holds the per-compile-unit state of one extraction pass: a
// dedicated offset-seeking reader (separate from whatever reader the caller
// uses to walk CU siblings), the CU's decl-file table, the record-promotion
// "already processed in this CU" set, and, when GenExtra is set, the
// type-containment stack snapshotted into each new record.
type cuCtx struct {
	ex      *Extractor
	data    *dwarf.Data
	cuEntry *dwarf.Entry
	cuName  string

	tr        *dwarf.Reader
	lineFiles []string
	processed map[string]bool
	stack     []string
}

func loadLineFiles(data *dwarf.Data, cu *dwarf.Entry) []string {
	lr, err := data.LineReader(cu)
	if err != nil || lr == nil {
		return nil
	}
	files := lr.Files()
	names := make([]string, len(files))
	for i, f := range files {
		if f != nil {
			names[i] = f.Name
		}
	}
	return names
}

// getSymbolFile decides whether die needs its own record at all, and if so,
// under which key. The second return is false for DIEs that are always
// inlined directly into the caller's record (anonymous composites,
// qualifiers, pointers, arrays, base types, and any tag outside
// filePrefixByTag).
func (c *cuCtx) getSymbolFile(die *dwarf.Entry) (string, bool) {
	prefix, ok := filePrefixByTag[die.Tag]
	if !ok {
		return "", false
	}
	name := dieName(die)

	if isDeclaration(die) {
		return path.Join(declarationPath, prefix+name+".txt"), true
	}

	switch die.Tag {
	case dwarf.TagStructType, dwarf.TagUnionType, dwarf.TagEnumerationType:
		if name == "" {
			// Anonymous composite: always inlined where it's referenced,
			// never promoted to its own record.
			return "", false
		}
	}
	return prefix + name + ".txt", true
}

// emit is print_die: the single decision point reached both for a CU's
// top-level qualifying symbols and for every nested type reference. It
// promotes die into a new record, reuses an already-processed record of the
// same key within this CU, or (for declaration-only and non-record-worthy
// DIEs) hands back a plain translated node / reffile placeholder.
func (c *cuCtx) emit(die *dwarf.Entry) (*typegraph.Node, error) {
	file, needsRecord := c.getSymbolFile(die)
	if !needsRecord {
		return c.emitTag(die, nil)
	}

	if c.processed[file] {
		// Same type, same CU: the original file is a pure optimization here
		// since within one CU the same key always describes the same type.
		return typegraph.NewRefFile(file), nil
	}
	c.processed[file] = true

	if isDeclaration(die) {
		return typegraph.NewRefFile(file), nil
	}

	rec := record.New(file)
	if err := c.fillOrigin(rec, die); err != nil {
		return nil, err
	}
	if c.ex.opts.GenExtra {
		rec.CU = c.cuName
		rec.Stack = append([]string(nil), c.stack...)
	} else {
		rec.CU = "<nottracked>"
	}

	c.stack = append(c.stack, file)
	obj, err := c.emitTag(die, rec)
	c.stack = c.stack[:len(c.stack)-1]
	if err != nil {
		return nil, err
	}
	rec.Close(obj)

	finalKey := c.ex.db.Insert(rec)
	return typegraph.NewRefFile(finalKey), nil
}

// fillOrigin sets rec.Origin to "<path>:<line>" (dumpfmt adds the "File "
// line prefix), special-casing compiler built-in types.
func (c *cuCtx) fillOrigin(rec *record.Record, die *dwarf.Entry) error {
	name := dieName(die)
	if isBuiltinName(name) {
		rec.Origin = fmt.Sprintf("%s:%d", builtinPath, 0)
		return nil
	}

	line, _ := attrInt64(die, dwarf.AttrDeclLine)
	fileIdx, hasFile := attrInt64(die, dwarf.AttrDeclFile)

	file := "<unknown>"
	if hasFile && int(fileIdx) >= 0 && int(fileIdx) < len(c.lineFiles) {
		file = c.lineFiles[fileIdx]
	}
	if c.ex.opts.ReplacePrefix != "" {
		file = strings.TrimPrefix(file, c.ex.opts.ReplacePrefix)
	}
	rec.Origin = fmt.Sprintf("%s:%d", file, line)
	return nil
}

// emitType resolves die's DW_AT_type attribute and emits the referenced
// type, defaulting to a "void" base type when the attribute is absent (a
// bare pointer/return type with no declared target) — print_die_type.
func (c *cuCtx) emitType(die *dwarf.Entry) (*typegraph.Node, error) {
	off, ok := attrOffset(die, dwarf.AttrType)
	if !ok {
		return typegraph.NewBase("void"), nil
	}
	target, err := c.entryAt(off)
	if err != nil {
		return nil, err
	}
	return c.emit(target)
}

// entryAt reads the DIE at off using the context's dedicated reader,
// independent of whatever reader is walking CU siblings.
func (c *cuCtx) entryAt(off dwarf.Offset) (*dwarf.Entry, error) {
	c.tr.Seek(off)
	entry, err := c.tr.Next()
	if err != nil {
		return nil, kabierr.Wrap(kabierr.KindFormat, "dwarfx.entryAt", "read referenced DIE", err)
	}
	if entry == nil {
		return nil, kabierr.New(kabierr.KindInvariant, "dwarfx.entryAt", "type reference points past end of unit")
	}
	return entry, nil
}

// children returns die's direct children entries (not their descendants),
// using the context's dedicated reader. Safe to call from deep inside a
// recursive translation without disturbing an in-progress sibling walk,
// since each call repositions and fully drains its own reader before
// returning control to the caller.
func (c *cuCtx) children(die *dwarf.Entry) ([]*dwarf.Entry, error) {
	if !die.Children {
		return nil, nil
	}
	c.tr.Seek(die.Offset)
	if _, err := c.tr.Next(); err != nil {
		return nil, err
	}
	var kids []*dwarf.Entry
	for {
		kid, err := c.tr.Next()
		if err != nil {
			return nil, kabierr.Wrap(kabierr.KindFormat, "dwarfx.children", "read child DIE", err)
		}
		if kid == nil || kid.Tag == 0 {
			return kids, nil
		}
		kids = append(kids, kid)
		if kid.Children {
			c.tr.SkipChildren()
		}
	}
}

// emitTag is print_die_tag: translates die's own shape into a typegraph
// node, given the record (if any) that will own it. rec is nil when die is
// being inlined directly into an ancestor's graph rather than promoted.
func (c *cuCtx) emitTag(die *dwarf.Entry, rec *record.Record) (*typegraph.Node, error) {
	switch die.Tag {
	case dwarf.TagBaseType:
		return typegraph.NewBase(dieName(die)), nil

	case dwarf.TagPointerType:
		pointee, err := c.emitType(die)
		if err != nil {
			return nil, err
		}
		return typegraph.NewPtr(pointee), nil

	case dwarf.TagConstType:
		return c.emitQualifier(die, "const")
	case dwarf.TagVolatileType:
		return c.emitQualifier(die, "volatile")

	case dwarf.TagTypedef:
		inner, err := c.emitType(die)
		if err != nil {
			return nil, err
		}
		return typegraph.NewTypedef(dieName(die), inner), nil

	case dwarf.TagArrayType:
		return c.emitArray(die)

	case dwarf.TagStructType:
		return c.emitComposite(die, typegraph.NewStruct(dieName(die)), true)
	case dwarf.TagUnionType:
		return c.emitComposite(die, typegraph.NewUnion(dieName(die)), false)
	case dwarf.TagEnumerationType:
		return c.emitEnum(die)

	case dwarf.TagSubprogram, dwarf.TagSubroutineType:
		return c.emitFunc(die)

	case dwarf.TagVariable:
		typ, err := c.emitType(die)
		if err != nil {
			return nil, err
		}
		return typegraph.NewVar(dieName(die), typ), nil

	default:
		return nil, kabierr.New(kabierr.KindUnsupportedDWARF,
			"dwarfx.emitTag", fmt.Sprintf("unsupported DIE tag %s", die.Tag))
	}
}

func (c *cuCtx) emitQualifier(die *dwarf.Entry, qualifier string) (*typegraph.Node, error) {
	inner, err := c.emitType(die)
	if err != nil {
		return nil, err
	}
	return typegraph.NewQualifier(qualifier, inner), nil
}

// emitArray builds the right-associated dimension chain from the
// array_type DIE's subrange_type children, outermost dimension first,
// wrapping the element type at the innermost position.
func (c *cuCtx) emitArray(die *dwarf.Entry) (*typegraph.Node, error) {
	element, err := c.emitType(die)
	if err != nil {
		return nil, err
	}
	subranges, err := c.children(die)
	if err != nil {
		return nil, err
	}
	if len(subranges) == 0 {
		return typegraph.NewArray(0, element), nil
	}

	node := element
	for i := len(subranges) - 1; i >= 0; i-- {
		node = typegraph.NewArray(arrayIndexOf(subranges[i]), node)
	}
	return node, nil
}

func arrayIndexOf(subrange *dwarf.Entry) uint64 {
	if v, ok := attrInt64(subrange, dwarf.AttrUpperBound); ok {
		return uint64(v + 1)
	}
	if v, ok := attrInt64(subrange, dwarf.AttrCount); ok {
		return uint64(v)
	}
	return 0
}

// emitComposite translates a structure_type/union_type DIE's member list.
// Struct members carry their DW_AT_data_member_location offset (and
// bitfield bounds, when present) as struct_member nodes; union members
// carry none of that and are emitted as plain var nodes, matching
// print_die_structure vs print_die_union.
func (c *cuCtx) emitComposite(die *dwarf.Entry, node *typegraph.Node, withOffsets bool) (*typegraph.Node, error) {
	if size, ok := attrInt64(die, dwarf.AttrByteSize); ok {
		node.SetByteSize(uint64(size))
	}
	if align, ok := attrInt64(die, dwarf.AttrAlignment); ok {
		node.SetAlignment(uint64(align))
	}

	members, err := c.children(die)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.Tag != dwarf.TagMember {
			continue
		}
		member, err := c.emitMember(m, withOffsets)
		if err != nil {
			return nil, err
		}
		node.AddMember(member)
	}
	return node, nil
}

func (c *cuCtx) emitMember(die *dwarf.Entry, withOffset bool) (*typegraph.Node, error) {
	typ, err := c.emitType(die)
	if err != nil {
		return nil, err
	}
	name := dieName(die)
	if !withOffset {
		return typegraph.NewVar(name, typ), nil
	}

	loc, ok := attrInt64(die, dwarf.AttrDataMemberLoc)
	if !ok {
		return nil, kabierr.New(kabierr.KindInvariant, "dwarfx.emitMember",
			fmt.Sprintf("struct member %q missing DW_AT_data_member_location", name))
	}

	bitSize, hasBitSize := attrInt64(die, dwarf.AttrBitSize)
	if !hasBitSize {
		return typegraph.NewStructMember(name, uint64(loc), typ), nil
	}
	bitOffset, _ := attrInt64(die, dwarf.AttrBitOffset)
	first := int(bitOffset)
	last := first + int(bitSize) - 1
	return typegraph.NewBitfieldMember(name, uint64(loc), first, last, typ), nil
}

// emitEnum translates an enumeration_type's enumerator children into
// constant nodes, requiring DW_AT_const_value.
func (c *cuCtx) emitEnum(die *dwarf.Entry) (*typegraph.Node, error) {
	node := typegraph.NewEnum(dieName(die))
	if size, ok := attrInt64(die, dwarf.AttrByteSize); ok {
		node.SetByteSize(uint64(size))
	}

	members, err := c.children(die)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.Tag != dwarf.TagEnumerator {
			continue
		}
		val, ok := attrInt64(m, dwarf.AttrConstValue)
		if !ok {
			return nil, kabierr.New(kabierr.KindInvariant, "dwarfx.emitEnum",
				fmt.Sprintf("enumerator %q missing DW_AT_const_value", dieName(m)))
		}
		node.AddMember(typegraph.NewConstant(dieName(m), val))
	}
	return node, nil
}

// emitFunc translates a subprogram or subroutine_type DIE: its return type
// plus its leading run of formal_parameter/unspecified_parameters children
// (a function body's local variables and lexical blocks, which also appear
// as children of a subprogram DIE, are not parameters and stop the scan).
func (c *cuCtx) emitFunc(die *dwarf.Entry) (*typegraph.Node, error) {
	ret, err := c.emitType(die)
	if err != nil {
		return nil, err
	}
	node := typegraph.NewFunc(ret)
	node.Name = dieName(die)

	children, err := c.children(die)
	if err != nil {
		return nil, err
	}
	for _, p := range children {
		switch p.Tag {
		case dwarf.TagFormalParameter:
			typ, err := c.emitType(p)
			if err != nil {
				return nil, err
			}
			node.AddMember(typegraph.NewVar(dieName(p), typ))
		case dwarf.TagUnspecifiedParameters:
			node.AddMember(typegraph.NewVar("", typegraph.NewBase("...")))
		default:
			// First non-parameter child (a lexical_block, local variable,
			// ...): parameter list is over.
			return node, nil
		}
	}
	return node, nil
}
