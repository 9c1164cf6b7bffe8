package as7

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableVars(t *testing.T) {
	st := NewSymbolTable()

	// Seeded mnemonics are plain variables and may be overwritten silently
	value, ok := st.Var("lac")
	require.True(t, ok)
	assert.Equal(t, uint32(0o200000), value.Mag)

	st.SetVar("lac", Absolute(42))
	value, _ = st.Var("lac")
	assert.Equal(t, uint32(42), value.Mag)

	_, ok = st.Var("nosuch")
	assert.False(t, ok)
}

func TestIsLocal(t *testing.T) {
	st := NewSymbolTable()
	st.DeclareLocal("a.s", "buf")

	tests := []struct {
		name  string
		file  string
		label string
		want  bool
	}{
		{"declared local", "a.s", "buf", true},
		{"not declared in another file", "b.s", "buf", false},
		{"leading L is local everywhere", "b.s", "Loop", true},
		{"plain name is global", "a.s", "start", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.IsLocal(tt.file, tt.label))
		})
	}
}

func TestSetLabelScoping(t *testing.T) {
	st := NewSymbolTable()
	st.DeclareLocal("a.s", "buf")

	st.SetLabel("a.s", "buf", Relocatable(1))
	st.SetLabel("a.s", "start", Relocatable(2))

	// The local entry is invisible to other files and to the global table
	_, ok := st.GlobalLabel("buf")
	assert.False(t, ok)
	_, ok = st.Label("b.s", "buf")
	assert.False(t, ok)

	// The global entry is visible everywhere
	value, ok := st.Label("b.s", "start")
	require.True(t, ok)
	assert.Equal(t, uint32(2), value.Mag)
}

func TestLabelLocalShadowsGlobal(t *testing.T) {
	st := NewSymbolTable()
	st.DeclareLocal("a.s", "x")

	st.SetLabel("b.s", "x", Relocatable(7))
	st.SetLabel("a.s", "x", Relocatable(3))

	value, ok := st.Label("a.s", "x")
	require.True(t, ok)
	assert.Equal(t, uint32(3), value.Mag)

	value, ok = st.Label("b.s", "x")
	require.True(t, ok)
	assert.Equal(t, uint32(7), value.Mag)
}

func TestSetLabelRedefinition(t *testing.T) {
	st := NewSymbolTable()

	_, redefined := st.SetLabel("a.s", "start", Relocatable(1))
	assert.False(t, redefined)

	// Same value again is a no-op, as happens naturally across the passes
	_, redefined = st.SetLabel("a.s", "start", Relocatable(1))
	assert.False(t, redefined)

	// A differing value is refused and reported; the first value stays
	previous, redefined := st.SetLabel("a.s", "start", Relocatable(5))
	assert.True(t, redefined)
	assert.Equal(t, uint32(1), previous.Mag)

	value, _ := st.Label("a.s", "start")
	assert.Equal(t, uint32(1), value.Mag)
}

func TestResolveRelative(t *testing.T) {
	st := NewSymbolTable()
	st.AddRelative("a.s", 1, Relocatable(0))
	st.AddRelative("a.s", 1, Relocatable(3))
	st.AddRelative("a.s", 1, Relocatable(6))

	tests := []struct {
		name    string
		forward bool
		dot     uint32
		want    uint32
		found   bool
	}{
		{"forward from between first and second", true, 1, 3, true},
		{"backward from between first and second", false, 1, 0, true},
		{"forward skips the current location", true, 3, 6, true},
		{"backward from the top", false, 7, 6, true},
		{"no forward definition left", true, 6, 0, false},
		{"no backward definition yet", false, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := st.ResolveRelative("a.s", 1, tt.forward, Relocatable(tt.dot))
			assert.Equal(t, tt.found, ok)

			if tt.found {
				assert.Equal(t, tt.want, loc.Mag)
			}
		})
	}
}

func TestResolveRelativePerFile(t *testing.T) {
	st := NewSymbolTable()
	st.AddRelative("a.s", 1, Relocatable(2))

	_, ok := st.ResolveRelative("b.s", 1, false, Relocatable(5))
	assert.False(t, ok)
}

func TestGlobalLabelsSorted(t *testing.T) {
	st := NewSymbolTable()
	st.SetLabel("a.s", "zeta", Relocatable(1))
	st.SetLabel("a.s", "alpha", Relocatable(2))
	st.SetLabel("a.s", "mid", Relocatable(3))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, st.GlobalLabels())
}
