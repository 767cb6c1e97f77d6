package dumpfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabidw/kabidw/pkg/typegraph"
)

// assertNodesEqual walks both graphs in lock-step, asserting equality on
// every scalar field the round-trip property (spec §8) names: kind, name,
// base_type, members-in-order, offsets, bitfield triple, index, constant,
// alignment, byte_size.
func assertNodesEqual(t *testing.T, want, got *typegraph.Node) {
	t.Helper()
	if want == nil || got == nil {
		assert.Equal(t, want, got)
		return
	}
	require.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.BaseType, got.BaseType)
	assert.Equal(t, want.HasOffset, got.HasOffset)
	assert.Equal(t, want.Offset, got.Offset)
	assert.Equal(t, want.IsBitfield, got.IsBitfield)
	assert.Equal(t, want.FirstBit, got.FirstBit)
	assert.Equal(t, want.LastBit, got.LastBit)
	assert.Equal(t, want.Constant, got.Constant)
	assert.Equal(t, want.Index, got.Index)
	assert.Equal(t, want.HasAlignment, got.HasAlignment)
	assert.Equal(t, want.Alignment, got.Alignment)
	assert.Equal(t, want.HasByteSize, got.HasByteSize)
	assert.Equal(t, want.ByteSize, got.ByteSize)
	require.Len(t, got.Members, len(want.Members))
	for i := range want.Members {
		assertNodesEqual(t, want.Members[i], got.Members[i])
	}
	assertNodesEqual(t, want.Pointee, got.Pointee)
}

func buildSampleStruct() *typegraph.Node {
	root := typegraph.NewStruct("foo")
	root.SetByteSize(16)
	root.SetAlignment(8)

	a := typegraph.NewStructMember("a", 0, typegraph.NewBase("int"))
	flag := typegraph.NewBitfieldMember("flag", 4, 3, 5, typegraph.NewBase("unsigned int"))
	arr := typegraph.NewStructMember("buf", 8, typegraph.NewArray(4, typegraph.NewBase("char")))
	ptr := typegraph.NewStructMember("next", 8,
		typegraph.NewPtr(typegraph.NewQualifier("const", typegraph.NewRefFile("struct--foo.txt"))))

	root.AddMember(a)
	root.AddMember(flag)
	root.AddMember(arr)
	root.AddMember(ptr)

	typegraph.Finalize(root)
	return root
}

func TestRoundTripStruct(t *testing.T) {
	want := buildSampleStruct()

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, want))

	got, err := ParseTree(&buf)
	require.NoError(t, err)

	assertNodesEqual(t, want, got)
}

func TestRoundTripFunc(t *testing.T) {
	fn := typegraph.NewFunc(typegraph.NewBase("int"))
	fn.Name = "do_thing"
	fn.AddMember(typegraph.NewVar("x", typegraph.NewBase("int")))
	fn.AddMember(typegraph.NewVar("", typegraph.NewBase("...")))
	typegraph.Finalize(fn)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, fn))

	got, err := ParseTree(&buf)
	require.NoError(t, err)

	assertNodesEqual(t, fn, got)
}

func TestRoundTripEnum(t *testing.T) {
	e := typegraph.NewEnum("color")
	e.SetByteSize(4)
	e.AddMember(typegraph.NewConstant("RED", 0))
	e.AddMember(typegraph.NewConstant("BLUE", 1))
	typegraph.Finalize(e)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, e))

	got, err := ParseTree(&buf)
	require.NoError(t, err)

	assertNodesEqual(t, e, got)
}

func TestRoundTripRecord(t *testing.T) {
	rec := Record{
		CU:     "foo.c",
		Origin: "foo.c:42",
		Stack:  []string{"struct foo", "int a"},
		Obj:    buildSampleStruct(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, rec))

	got, err := ReadRecord(&buf)
	require.NoError(t, err)

	assert.Equal(t, rec.CU, got.CU)
	assert.Equal(t, rec.Origin, got.Origin)
	assert.Equal(t, rec.Stack, got.Stack)
	assertNodesEqual(t, rec.Obj, got.Obj)
}

func TestRoundTripVoidPointer(t *testing.T) {
	ptr := typegraph.NewPtr(nil)
	typegraph.Finalize(ptr)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, ptr))

	got, err := ParseTree(&buf)
	require.NoError(t, err)

	require.Equal(t, typegraph.KindPtr, got.Kind)
	require.NotNil(t, got.Pointee)
	assert.Equal(t, typegraph.KindBase, got.Pointee.Kind)
	assert.Equal(t, "void", got.Pointee.BaseType)
}
