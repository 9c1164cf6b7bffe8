package as7

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleLines(lines ...string) *Assembler {
	a := NewAssembler()
	a.Assemble([]SourceFile{{Name: "test.s", Lines: lines}})
	return a
}

func TestNewSourceFile(t *testing.T) {
	src, err := NewSourceFile("test.s", strings.NewReader("lac x\nhlt\n"))

	require.NoError(t, err)
	assert.Equal(t, "test.s", src.Name)
	assert.Equal(t, []string{"lac x", "hlt"}, src.Lines)
}

func TestAssembleAssignmentAndInstruction(t *testing.T) {
	a := assembleLines(".. = 0", "x = 5; lac x")

	assert.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, map[uint32]uint32{0: 0o200005}, a.Image())
	assert.Equal(t, uint32(1), a.dot().Mag)
}

func TestAssembleRelocatableLabelReference(t *testing.T) {
	a := assembleLines("foo: lac foo")

	assert.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, map[uint32]uint32{0o10000: 0o210000}, a.Image())
}

func TestAssembleForwardReference(t *testing.T) {
	a := assembleLines(".. = 0", "jmp end", "hlt", "end: hlt")

	require.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, uint32(0o600002), a.Image()[0])
}

func TestAssembleRelativeLabels(t *testing.T) {
	a := assembleLines("hlt", "1:", "jmp 1f", "1:")

	require.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, uint32(0o610002), a.Image()[0o10001])
}

func TestAssembleRelativeLabelDirections(t *testing.T) {
	// Three definitions of the same numeric label; references from between
	// the first two resolve forward to the second and backward to the first.
	a := assembleLines(".. = 0", "1:", "hlt", "jmp 1b; jmp 1f", "1:", "hlt", "1:")

	require.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, uint32(0o600000), a.Image()[1])
	assert.Equal(t, uint32(0o600003), a.Image()[2])
}

func TestAssembleLocationCounterAssignment(t *testing.T) {
	a := assembleLines(". = 7", "hlt")

	require.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, map[uint32]uint32{0o10007: 0o740040}, a.Image())
}

func TestAssembleMultipleLabelsOneLine(t *testing.T) {
	a := assembleLines("a: b: c: hlt")

	for _, name := range []string{"a", "b", "c"} {
		value, ok := a.Symbols().Label("test.s", name)
		require.True(t, ok, "label %s", name)
		assert.Equal(t, Relocatable(0), value)
	}
}

func TestAssembleCommentsAndBlankLines(t *testing.T) {
	a := assembleLines("", `" a whole comment line`, "   ", `hlt " trailing comment`)

	assert.False(t, a.Diagnostics().HasDiagnostics())
	assert.Equal(t, map[uint32]uint32{0o10000: 0o740040}, a.Image())
}

func TestAssembleEmptyInput(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble([]SourceFile{{Name: "empty.s"}})

	assert.NoError(t, err)
	assert.Empty(t, a.Image())
}

func TestAssembleRelocationMixError(t *testing.T) {
	a := assembleLines("foo: 5-foo")

	require.Len(t, a.Diagnostics().Errors, 1)
	assert.Equal(t, FlagRelocation, a.Diagnostics().Errors[0].Flag)

	// rel - rel carries no error and yields an absolute word
	a = assembleLines("foo: bar: foo-bar")
	assert.Empty(t, a.Diagnostics().Errors)
}

func TestAssembleUndefinedSymbol(t *testing.T) {
	a := assembleLines("lac nosuch")

	require.Len(t, a.Diagnostics().Errors, 1)
	assert.Equal(t, FlagUndefined, a.Diagnostics().Errors[0].Flag)
	assert.Equal(t, "test.s:1", a.Diagnostics().Errors[0].Pos.String())

	// The cell is still written, with the undefined name read as zero
	assert.Equal(t, uint32(0o200000), a.Image()[0o10000])
}

func TestAssembleSyntaxFailureIsLocalised(t *testing.T) {
	a := assembleLines("*garbage", "hlt")

	require.Len(t, a.Diagnostics().Errors, 1)
	assert.Equal(t, FlagSyntax, a.Diagnostics().Errors[0].Flag)

	// The bad line is dropped; the next line still assembles
	assert.Equal(t, map[uint32]uint32{0o10000: 0o740040}, a.Image())
}

func TestAssembleDuplicateLabelWarns(t *testing.T) {
	a := assembleLines("foo:", "hlt", "foo:")

	assert.Empty(t, a.Diagnostics().Errors)
	require.Len(t, a.Diagnostics().Warnings, 1)

	// The first definition wins
	value, _ := a.Symbols().Label("test.s", "foo")
	assert.Equal(t, uint32(0), value.Mag)
}

func TestAssembleExitStatus(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble([]SourceFile{{Name: "test.s", Lines: []string{"foo:", "hlt", "foo:"}}})

	// Duplicate labels are not fatal but still fail the run
	require.Error(t, err)
	assert.Equal(t, uint32(0o740040), a.Image()[0o10000])
}

func TestAssembleLocalDirective(t *testing.T) {
	fileA := SourceFile{Name: "a.s", Lines: []string{
		"\t.local buf",
		"buf: hlt",
		"lac buf",
	}}
	fileB := SourceFile{Name: "b.s", Lines: []string{
		"buf: nop",
		"lac buf",
	}}

	a := NewAssembler()
	err := a.Assemble([]SourceFile{fileA, fileB})
	require.NoError(t, err)

	// a.s sees its local buf at offset 0, b.s sees the global one at offset 2
	assert.Equal(t, uint32(0o210000), a.Image()[0o10001])
	assert.Equal(t, uint32(0o210002), a.Image()[0o10003])

	// Only the global label is dumped
	assert.Equal(t, []string{"buf"}, a.Symbols().GlobalLabels())
	value, _ := a.Symbols().GlobalLabel("buf")
	assert.Equal(t, uint32(2), value.Mag)
}

func TestAssembleLeadingLNamesAreLocal(t *testing.T) {
	fileA := SourceFile{Name: "a.s", Lines: []string{"Loop: jmp Loop"}}
	fileB := SourceFile{Name: "b.s", Lines: []string{"Loop: jmp Loop"}}

	a := NewAssembler()
	err := a.Assemble([]SourceFile{fileA, fileB})
	require.NoError(t, err)

	// Each file refers to its own Loop; nothing is global
	assert.Equal(t, uint32(0o610000), a.Image()[0o10000])
	assert.Equal(t, uint32(0o610001), a.Image()[0o10001])
	assert.Empty(t, a.Symbols().GlobalLabels())
}

func TestAssembleBaseChangeMidFile(t *testing.T) {
	// The base used for a cell is the value ".." holds when the cell is
	// written; earlier cells are not revisited.
	a := assembleLines("hlt", ".. = ..+010000", "hlt")

	require.False(t, a.Diagnostics().HasDiagnostics())

	// Pass one leaves ".." at 0o20000, so pass two relocates the first cell
	// with 0o20000 and the second with 0o30000.
	assert.Equal(t, map[uint32]uint32{
		0o20000: 0o740040,
		0o30001: 0o740040,
	}, a.Image())
}

func TestAssembleIdempotent(t *testing.T) {
	lines := []string{"start: lac x", "x = 3; dac x+1", "jmp start"}

	first := &strings.Builder{}
	second := &strings.Builder{}

	a := assembleLines(lines...)
	require.NoError(t, a.WriteA7Out(first))

	b := assembleLines(lines...)
	require.NoError(t, b.WriteA7Out(second))

	assert.Equal(t, first.String(), second.String())
}

func TestAssembleRecordsSourceLines(t *testing.T) {
	a := assembleLines(".. = 0", "lac 5; dac 6")

	assert.Equal(t, "lac 5; dac 6", a.SourceLine(0))
	assert.Equal(t, "lac 5; dac 6", a.SourceLine(1))
}
