package as7

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories of the assembler. Each category maps to a one-character
// flag shown in the listing error column.
var (
	ErrUndefined  = errors.New("undefined symbol")
	ErrRelocation = errors.New("relocation error")
	ErrBelowBase  = errors.New("location below base")
	ErrSyntax     = errors.New("syntax error")
)

// Flag is the one-character listing code of a diagnostic
type Flag byte

const (
	FlagNone       Flag = ' '
	FlagUndefined  Flag = 'U'
	FlagRelocation Flag = 'A'
	FlagBelowBase  Flag = '.'
	FlagSyntax     Flag = '?'
)

// Returns the listing flag of an error category
func FlagOf(err error) Flag {
	switch {
	case errors.Is(err, ErrUndefined):
		return FlagUndefined
	case errors.Is(err, ErrRelocation):
		return FlagRelocation
	case errors.Is(err, ErrBelowBase):
		return FlagBelowBase
	case errors.Is(err, ErrSyntax):
		return FlagSyntax
	}

	return FlagNone
}

// Position is a location in an input file
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Diagnostic is a single assembly error or warning with source context
type Diagnostic struct {
	Pos     Position
	Flag    Flag
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// DiagnosticList accumulates the diagnostics of a run. Errors and warnings
// are kept on separate channels; both count towards a failed run.
type DiagnosticList struct {
	Errors   []*Diagnostic
	Warnings []*Diagnostic
}

func (dl *DiagnosticList) AddError(d *Diagnostic) {
	dl.Errors = append(dl.Errors, d)
}

func (dl *DiagnosticList) AddWarning(d *Diagnostic) {
	dl.Warnings = append(dl.Warnings, d)
}

// Returns true if any error or warning was recorded
func (dl *DiagnosticList) HasDiagnostics() bool {
	return len(dl.Errors) > 0 || len(dl.Warnings) > 0
}

func (dl *DiagnosticList) Error() string {
	var builder strings.Builder

	for _, d := range dl.Errors {
		builder.WriteString(d.Error())
		builder.WriteByte('\n')
	}

	for _, d := range dl.Warnings {
		builder.WriteString(d.Error())
		builder.WriteByte('\n')
	}

	return builder.String()
}
