// Package as7 implements a two-pass assembler for Ken Thompson's PDP-7
// assembly notation, as used by the first edition of Unix. Pass one defines
// symbols and relative labels; pass two repeats the parse, reports
// diagnostics and writes the 18-bit memory image.
package as7

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// SourceFile is one input file, read fully up front so both passes see
// identical content in the same order.
type SourceFile struct {
	Name  string
	Lines []string
}

// NewSourceFile reads all lines of an input file from a reader
func NewSourceFile(name string, r io.Reader) (SourceFile, error) {
	file := SourceFile{Name: name}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		file.Lines = append(file.Lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return file, utils.MakeError(err, "reading %s", name)
	}

	return file, nil
}

// Assembler drives the two passes over the input files and owns every
// table of the run: symbols, diagnostics and the memory image. A run is
// single threaded; build a fresh Assembler for every run.
type Assembler struct {
	syms  *SymbolTable
	diags *DiagnosticList
	image map[uint32]uint32
	lines map[uint32]string
	pass  int
	pos   Position
	cur   string
	log   *slog.Logger
	list  *listingWriter
}

func NewAssembler() *Assembler {
	return &Assembler{
		syms:  NewSymbolTable(),
		diags: &DiagnosticList{},
		image: make(map[uint32]uint32),
		lines: make(map[uint32]string),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Trace routes internal tracing to the given logger
func (a *Assembler) Trace(logger *slog.Logger) {
	a.log = logger
}

// Diagnostics returns the errors and warnings recorded so far
func (a *Assembler) Diagnostics() *DiagnosticList {
	return a.diags
}

// Symbols returns the symbol tables of the run
func (a *Assembler) Symbols() *SymbolTable {
	return a.syms
}

// Image returns the assembled memory image, a sparse map from absolute
// location to 18-bit word. Only cells written on pass two are present.
func (a *Assembler) Image() map[uint32]uint32 {
	return a.image
}

// SourceLine returns the source line that produced the given memory cell
func (a *Assembler) SourceLine(loc uint32) string {
	return a.lines[loc]
}

// Base returns the current magnitude of the relocation base ".."
func (a *Assembler) Base() uint32 {
	base, _ := a.syms.Var("..")
	return base.Mag
}

func (a *Assembler) dot() Word {
	dot, _ := a.syms.Var(".")
	return dot
}

func (a *Assembler) setDot(value Word) {
	a.syms.SetVar(".", value)
}

// Assemble runs both passes over the file list, in order. Between passes
// only the location counter is rewound; variables, labels and the
// local-name sets persist. The returned error is the diagnostic list when
// any error or warning was recorded.
func (a *Assembler) Assemble(files []SourceFile) error {
	for pass := 1; pass <= 2; pass++ {
		a.pass = pass
		a.setDot(Relocatable(0))

		for _, file := range files {
			a.pos.File = file.Name
			a.log.Debug("pass over file", "pass", pass, "file", file.Name, "lines", len(file.Lines))

			for i, line := range file.Lines {
				a.pos.Line = i + 1
				a.cur = line

				if pass == 2 && a.list != nil {
					a.list.line(line)
				}

				a.parseLine(line)
			}
		}
	}

	if a.list != nil {
		a.list.labels(a)
	}

	if a.diags.HasDiagnostics() {
		return a.diags
	}

	return nil
}

// store writes one assembled word at the current location and advances the
// location counter. Memory is written on pass two only; the counter moves
// in both passes. Both the address and the word are relocated with the
// value the base ".." holds at this point of the assembly, so changing ".."
// mid-file only affects later cells.
func (a *Assembler) store(value Word, flag Flag) {
	dot := a.dot()

	if a.pass == 2 {
		base := a.Base()
		loc := int64(dot.Mag)

		if dot.Reloc {
			loc = (loc + int64(base)) & int64(Mask18)
		}

		if loc < 0 {
			a.reportError(utils.MakeError(ErrBelowBase, "location %o is below the base", dot.Mag))
		} else {
			word := value.Relocate(base)
			a.image[uint32(loc)] = word
			a.lines[uint32(loc)] = a.cur
			a.log.Debug("store", "loc", uint32(loc), "word", word)

			if a.list != nil {
				a.list.store(uint32(loc), word, flag)
			}
		}
	}

	a.setDot(dot.Add(Absolute(1)))
}

// reportError records a diagnostic. Pass one stays silent: it exists to
// collect symbols, and its undefined references are expected.
func (a *Assembler) reportError(err error) {
	if a.pass != 2 {
		return
	}

	d := &Diagnostic{Pos: a.pos, Flag: FlagOf(err), Message: err.Error()}
	a.diags.AddError(d)
	a.log.Debug("diagnostic", "pos", a.pos.String(), "flag", string(d.Flag), "message", d.Message)

	if a.list != nil {
		a.list.diagnostic(d)
	}
}

func (a *Assembler) warn(format string, args ...any) {
	if a.pass != 2 {
		return
	}

	d := &Diagnostic{Pos: a.pos, Flag: FlagNone, Message: fmt.Sprintf(format, args...)}
	a.diags.AddWarning(d)

	if a.list != nil {
		a.list.diagnostic(d)
	}
}

func (a *Assembler) reportSyntax(s *lineScanner) {
	a.reportError(utils.MakeError(ErrSyntax, "unrecognised input at %q", s.rest()))
}
