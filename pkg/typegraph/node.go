package typegraph

import "fmt"

// Kind is the closed set of node kinds a C type graph vertex can take.
type Kind int

const (
	KindNone Kind = iota
	KindStruct
	KindUnion
	KindEnum
	KindFunc
	KindPtr
	KindTypedef
	KindArray
	KindVar
	KindStructMember
	KindQualifier
	KindBase
	KindConstant
	KindRefFile
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindFunc:
		return "func"
	case KindPtr:
		return "ptr"
	case KindTypedef:
		return "typedef"
	case KindArray:
		return "array"
	case KindVar:
		return "var"
	case KindStructMember:
		return "struct_member"
	case KindQualifier:
		return "qualifier"
	case KindBase:
		return "base"
	case KindConstant:
		return "constant"
	case KindRefFile:
		return "reffile"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is the single vertex type of a type graph. Field meaning depends on
// Kind; see the package doc and spec §3.1 for the full table.
type Node struct {
	Kind Kind

	Name     string // field/tag/symbol name, optional
	BaseType string // "base" type name, "qualifier" name, or reffile target path

	Members []*Node // ordered: struct/union fields, enum constants, func formals
	Pointee *Node   // pointer target, typedef def, func return, array element, qualifier inner

	// struct_member only.
	HasOffset bool
	Offset    uint64

	IsBitfield bool
	FirstBit   int
	LastBit    int // inclusive; bit width = LastBit-FirstBit+1

	// constant only.
	Constant int64

	// array only. 0 means unspecified length (flexible array / zero-length).
	Index uint64

	// record root and composites only.
	HasAlignment bool
	Alignment    uint64
	HasByteSize  bool
	ByteSize     uint64

	// weak-alias reference nodes only: the aliased symbol name.
	Link string

	// Parent is filled by Finalize; nil for the root and before Finalize.
	Parent *Node
}

// BitWidth returns the inclusive bit width of a bitfield member.
func (n *Node) BitWidth() int {
	if !n.IsBitfield {
		return 0
	}
	return n.LastBit - n.FirstBit + 1
}

// NewStruct creates an (initially empty) struct composite node.
func NewStruct(name string) *Node { return &Node{Kind: KindStruct, Name: name} }

// NewUnion creates an (initially empty) union composite node.
func NewUnion(name string) *Node { return &Node{Kind: KindUnion, Name: name} }

// NewEnum creates an (initially empty) enum composite node.
func NewEnum(name string) *Node { return &Node{Kind: KindEnum, Name: name} }

// NewFunc creates a function node whose Pointee is the return type.
func NewFunc(ret *Node) *Node { return &Node{Kind: KindFunc, Pointee: ret} }

// NewPtr creates a pointer node wrapping pointee (nil pointee means void*).
func NewPtr(pointee *Node) *Node { return &Node{Kind: KindPtr, Pointee: pointee} }

// NewTypedef creates a typedef node wrapping its definition.
func NewTypedef(name string, def *Node) *Node {
	return &Node{Kind: KindTypedef, Name: name, Pointee: def}
}

// NewArray creates a single array dimension of the given length (0 =
// unspecified) wrapping element. Multi-dimensional arrays are represented
// as a right-associated chain of NewArray calls, outermost dimension first.
func NewArray(index uint64, element *Node) *Node {
	return &Node{Kind: KindArray, Index: index, Pointee: element}
}

// NewQualifier creates a const/volatile qualifier node wrapping inner.
func NewQualifier(qualifier string, inner *Node) *Node {
	return &Node{Kind: KindQualifier, BaseType: qualifier, Pointee: inner}
}

// NewVar creates a variable/parameter/field-value node wrapping its type.
func NewVar(name string, typ *Node) *Node {
	return &Node{Kind: KindVar, Name: name, Pointee: typ}
}

// NewStructMember creates a struct/union field node at the given offset,
// wrapping its type.
func NewStructMember(name string, offset uint64, typ *Node) *Node {
	return &Node{Kind: KindStructMember, Name: name, HasOffset: true, Offset: offset, Pointee: typ}
}

// NewBitfieldMember creates a struct_member with bitfield bounds set.
func NewBitfieldMember(name string, offset uint64, firstBit, lastBit int, typ *Node) *Node {
	n := NewStructMember(name, offset, typ)
	n.IsBitfield = true
	n.FirstBit = firstBit
	n.LastBit = lastBit
	return n
}

// NewBase creates a base ("unsigned int", ...) leaf node.
func NewBase(name string) *Node { return &Node{Kind: KindBase, BaseType: name} }

// NewConstant creates an enum constant leaf node.
func NewConstant(name string, value int64) *Node {
	return &Node{Kind: KindConstant, Name: name, Constant: value}
}

// NewRefFile creates a reffile placeholder node pointing at a relative
// record path.
func NewRefFile(path string) *Node { return &Node{Kind: KindRefFile, BaseType: path} }

// AddMember appends child to n's member list in sibling order. Panics if n
// is not a composite kind, since an ordered member list is only meaningful
// on struct/union/enum/func nodes — a programmer error, not a runtime one.
func (n *Node) AddMember(child *Node) {
	switch n.Kind {
	case KindStruct, KindUnion, KindEnum, KindFunc:
		n.Members = append(n.Members, child)
	default:
		panic(fmt.Sprintf("typegraph: AddMember on non-composite kind %s", n.Kind))
	}
}

// SetAlignment records the node's required alignment in bytes.
func (n *Node) SetAlignment(align uint64) {
	n.HasAlignment = true
	n.Alignment = align
}

// SetByteSize records the node's size in bytes.
func (n *Node) SetByteSize(size uint64) {
	n.HasByteSize = true
	n.ByteSize = size
}

// Finalize walks the graph rooted at n exactly once, stamping every
// descendant's Parent back-pointer. Call exactly once per record before
// treating the graph as immutable.
func Finalize(root *Node) {
	finalize(root, nil)
}

func finalize(n *Node, parent *Node) {
	if n == nil {
		return
	}
	n.Parent = parent
	for _, m := range n.Members {
		finalize(m, n)
	}
	finalize(n.Pointee, n)
}

// Free recursively clears a graph's members and pointee, releasing it for
// garbage collection. Safe on a partially constructed graph (nil children
// are no-ops).
func Free(n *Node) {
	if n == nil {
		return
	}
	for _, m := range n.Members {
		Free(m)
	}
	n.Members = nil
	Free(n.Pointee)
	n.Pointee = nil
	n.Parent = nil
}

// WorthyOfPrint reports whether n is a node the comparator should anchor a
// diff message on when walking up from a changed leaf: named nodes,
// struct_member fields, and var (parameter) nodes are all places a reader
// expects to see "what changed", as opposed to an anonymous intermediate
// qualifier or pointer hop.
func (n *Node) WorthyOfPrint() bool {
	if n == nil {
		return false
	}
	if n.Name != "" {
		return true
	}
	return n.Kind == KindStructMember || n.Kind == KindVar
}
