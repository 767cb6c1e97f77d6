package dwarfx

import "debug/dwarf"

// declarationPath and builtinPath are the two synthetic path prefixes a
// record gets routed into instead of a real <prefix><name>.txt file:
// declarationPath for forward-declaration-only types, and builtinPath for
// compiler-synthesized types that carry no usable DW_AT_decl_file.
const (
	declarationPath = "<declarations>"
	builtinPath     = "<built-in>"

	// declInlineThreshold is DW_INL_declared_not_inlined: a subprogram DIE
	// with DW_AT_inline at or above this value is a standalone definition
	// worth recording even without DW_AT_external.
	declInlineThreshold = 2
)

// builtinTypeNames lists compiler-synthesized type names that get routed to
// builtinPath rather than a (nonexistent or misleading) source file path.
var builtinTypeNames = map[string]bool{
	"__va_list_tag": true,
}

// filePrefixByTag maps a DIE's tag to the file-name prefix its record key
// uses. DIEs whose tag has no entry here are never record roots: they are
// always inlined into whatever record is being built.
var filePrefixByTag = map[dwarf.Tag]string{
	dwarf.TagSubprogram:      "func--",
	dwarf.TagVariable:        "var--",
	dwarf.TagTypedef:         "typedef--",
	dwarf.TagStructType:      "struct--",
	dwarf.TagUnionType:       "union--",
	dwarf.TagEnumerationType: "enum--",
}

func isBuiltinName(name string) bool { return builtinTypeNames[name] }

func dieName(die *dwarf.Entry) string {
	name, _ := die.Val(dwarf.AttrName).(string)
	return name
}

func isDeclaration(die *dwarf.Entry) bool {
	v, ok := die.Val(dwarf.AttrDeclaration).(bool)
	return ok && v
}

func isExternal(die *dwarf.Entry) bool {
	v, ok := die.Val(dwarf.AttrExternal).(bool)
	return ok && v
}

func isDeclaredNotInlined(die *dwarf.Entry) bool {
	v, ok := die.Val(dwarf.AttrInline).(int64)
	return ok && v >= declInlineThreshold
}

func attrInt64(die *dwarf.Entry, attr dwarf.Attr) (int64, bool) {
	v, ok := die.Val(attr).(int64)
	return v, ok
}

func attrOffset(die *dwarf.Entry, attr dwarf.Attr) (dwarf.Offset, bool) {
	v, ok := die.Val(attr).(dwarf.Offset)
	return v, ok
}
