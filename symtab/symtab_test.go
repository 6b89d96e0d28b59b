package symtab

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
)

func TestTable_AddLookup(t *testing.T) {
	st := New()
	require.NoError(t, st.Add(&Symbol{Name: "java::A.main:()V::x", Type: program.Int32}))

	s, ok := st.Lookup("java::A.main:()V::x")
	require.True(t, ok)
	assert.Equal(t, "x", s.BaseName)
	assert.True(t, st.Has("java::A.main:()V::x"))
	assert.False(t, st.Has("y"))

	err := st.Add(&Symbol{Name: "java::A.main:()V::x"})
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindDuplicate}))

	assert.Error(t, st.Add(&Symbol{}))
	assert.Error(t, st.Add(nil))
}

func TestTable_Symbols_Sorted(t *testing.T) {
	st := New()
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, st.Add(&Symbol{Name: n, Type: program.Bool}))
	}
	var names []string
	for _, s := range st.Symbols() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, 3, st.Len())
}

func TestTable_Structs(t *testing.T) {
	st := New()
	node := program.StructType{Name: "Node", Fields: []program.Field{{Name: "next", Type: program.Pointer(program.Tag("Node"))}}}
	require.NoError(t, st.DefineStruct(node))
	assert.Error(t, st.DefineStruct(node))
	assert.Error(t, st.DefineStruct(program.StructType{}))

	resolved, err := st.Resolve(program.Tag("Node"))
	require.NoError(t, err)
	assert.Equal(t, node, resolved)

	same, err := st.Resolve(program.Int32)
	require.NoError(t, err)
	assert.Equal(t, program.Int32, same)

	_, err = st.Resolve(program.Tag("Missing"))
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseGenerate, Kind: errors.KindNotFound}))

	require.NoError(t, st.DefineStruct(program.StructType{Name: "A"}))
	structs := st.Structs()
	require.Len(t, structs, 2)
	assert.Equal(t, "A", structs[0].Name)
}

func TestTable_Fresh(t *testing.T) {
	st := New()
	require.NoError(t, st.Add(&Symbol{Name: "tmp$1", Type: program.Int32}))

	a := st.Fresh("tmp", program.Int32, program.SourceLocation{}, "java")
	b := st.Fresh("tmp", program.Int32, program.SourceLocation{}, "java")
	c := st.Fresh("other", program.Bool, program.SourceLocation{}, "java")

	assert.Equal(t, "tmp$0", a.Name)
	assert.Equal(t, "tmp$2", b.Name, "tmp$1 already taken")
	assert.Equal(t, "other$0", c.Name)
	assert.True(t, st.Has(b.Name))
	assert.Equal(t, "java", b.Mode)

	e := b.Expr()
	assert.Equal(t, b.Name, e.ID)
	assert.Equal(t, program.Int32, e.Type)
}
