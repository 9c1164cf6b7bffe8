package as7

import (
	"strconv"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// lineScanner walks one physical source line byte by byte. The notation is
// plain ASCII, so bytes are enough.
type lineScanner struct {
	src string
	pos int
}

func (s *lineScanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *lineScanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.src[s.pos]
}

func (s *lineScanner) peekAt(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}

	return s.src[s.pos+offset]
}

func (s *lineScanner) advance() byte {
	c := s.peek()
	s.pos++
	return c
}

// Commas count as whitespace throughout the notation
func (s *lineScanner) skipBlanks() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', ',':
			s.pos++
		default:
			return
		}
	}
}

// Statements end at end of line, at a statement separator or at a comment
func (s *lineScanner) atStatementEnd() bool {
	return s.eof() || s.peek() == ';' || s.peek() == '"'
}

func (s *lineScanner) rest() string {
	if s.eof() {
		return ""
	}

	return s.src[s.pos:]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c == '.'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func (s *lineScanner) scanIdent() string {
	start := s.pos

	for !s.eof() && isIdentChar(s.peek()) {
		s.pos++
	}

	return s.src[start:s.pos]
}

// evalExpr evaluates an expression starting at the scanner position. There
// is no operator precedence: the expression is a strict left-to-right fold
// over syllables, where whitespace adjacency means bitwise OR and + and -
// combine with 18-bit wraparound. The returned flag is the listing error
// column for the statement.
func (a *Assembler) evalExpr(s *lineScanner) (Word, Flag) {
	s.skipBlanks()

	word, flag, ok := a.evalSyllable(s)
	if !ok {
		a.reportSyntax(s)
		return word, FlagSyntax
	}

	for {
		s.skipBlanks()

		if s.atStatementEnd() {
			return word, flag
		}

		switch s.peek() {
		case '+':
			s.advance()
			s.skipBlanks()

			operand, operandFlag, ok := a.evalSyllable(s)
			if !ok {
				a.reportSyntax(s)
				return word, FlagSyntax
			}

			word = word.Add(operand)
			flag = combineFlags(flag, operandFlag)

		case '-':
			s.advance()
			s.skipBlanks()

			operand, operandFlag, ok := a.evalSyllable(s)
			if !ok {
				a.reportSyntax(s)
				return word, FlagSyntax
			}

			difference, err := word.Sub(operand)
			if err != nil {
				a.reportError(err)
				flag = combineFlags(flag, FlagOf(err))
			}

			word = difference
			flag = combineFlags(flag, operandFlag)

		default:
			operand, operandFlag, ok := a.evalSyllable(s)
			if !ok {
				a.reportSyntax(s)
				return word, FlagSyntax
			}

			word = word.Or(operand)
			flag = combineFlags(flag, operandFlag)
		}
	}
}

// The first error of a statement wins the listing column
func combineFlags(current, next Flag) Flag {
	if current != FlagNone {
		return current
	}

	return next
}

// evalSyllable scans and evaluates one syllable. The forms are tried in
// order: <c and c> and >c character literals, symbol references, relative
// label references, integer literals. Returns ok=false when no syllable
// form matches the scanner head.
func (a *Assembler) evalSyllable(s *lineScanner) (Word, Flag, bool) {
	switch {
	case s.eof():
		return Word{}, FlagNone, false

	// <c: character in the high half of the word
	case s.peek() == '<':
		s.advance()
		if s.eof() {
			return Word{}, FlagNone, false
		}
		return Absolute(uint32(s.advance()) << 9), FlagNone, true

	// c>: character in the low half of the word
	case s.peekAt(1) == '>':
		c := s.advance()
		s.advance()
		return Absolute(uint32(c)), FlagNone, true

	// >c: alias of c>
	case s.peek() == '>':
		s.advance()
		if s.eof() {
			return Word{}, FlagNone, false
		}
		return Absolute(uint32(s.advance())), FlagNone, true

	case isIdentStart(s.peek()):
		return a.evalSymbol(s.scanIdent())

	case isDigit(s.peek()):
		return a.evalNumeric(s)
	}

	return Word{}, FlagNone, false
}

// Symbol references look at the variable table first, then at the label
// tables with the file's local entries shadowing globals. On pass one an
// undefined name silently evaluates to zero: forward references resolve
// when pass two repeats the same code.
func (a *Assembler) evalSymbol(name string) (Word, Flag, bool) {
	if value, ok := a.syms.Var(name); ok {
		return value, FlagNone, true
	}

	if value, ok := a.syms.Label(a.pos.File, name); ok {
		return value, FlagNone, true
	}

	if a.pass == 1 {
		return Absolute(0), FlagNone, true
	}

	a.reportError(utils.MakeError(ErrUndefined, "%s", name))
	return Absolute(0), FlagUndefined, true
}

// Digits lead either a relative label reference (Nf, Nb) or an integer
// literal, octal when the text starts with 0 and decimal otherwise.
func (a *Assembler) evalNumeric(s *lineScanner) (Word, Flag, bool) {
	start := s.pos

	for !s.eof() && isDigit(s.peek()) {
		s.pos++
	}

	digits := s.src[start:s.pos]

	if c := s.peek(); (c == 'f' || c == 'b') && !isIdentChar(s.peekAt(1)) {
		s.advance()
		return a.evalRelative(digits, c == 'f')
	}

	if !s.eof() && isIdentChar(s.peek()) {
		s.pos = start
		return Word{}, FlagNone, false
	}

	base := 10
	if digits[0] == '0' {
		base = 8
	}

	value, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		s.pos = start
		return Word{}, FlagNone, false
	}

	return Absolute(uint32(value)), FlagNone, true
}

func (a *Assembler) evalRelative(digits string, forward bool) (Word, Flag, bool) {
	number, err := strconv.Atoi(digits)
	if err != nil {
		return Word{}, FlagNone, false
	}

	if loc, ok := a.syms.ResolveRelative(a.pos.File, number, forward, a.dot()); ok {
		return loc, FlagNone, true
	}

	if a.pass == 1 {
		return Absolute(0), FlagNone, true
	}

	direction := "b"
	if forward {
		direction = "f"
	}

	a.reportError(utils.MakeError(ErrUndefined, "relative label %s%s", digits, direction))
	return Absolute(0), FlagUndefined, true
}
