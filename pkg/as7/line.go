package as7

import (
	"strconv"
	"strings"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// parseLine consumes one physical line: an optional directive, a chain of
// label definitions, then assignment or expression statements separated
// by semicolons. A comment introduced by a double quote runs to the end of
// the line. On a parse failure the rest of the line is dropped; the next
// line parses normally.
func (a *Assembler) parseLine(text string) {
	if strings.HasPrefix(text, "\t.") {
		a.parseDirective(text)
		return
	}

	s := &lineScanner{src: text}

	for {
		s.skipBlanks()

		if s.eof() || s.peek() == '"' {
			return
		}

		if name, ok := s.scanLabelDef(); ok {
			a.defineLabel(name)
			continue
		}

		if name, ok := s.scanAssignHead(); ok {
			value, flag := a.evalExpr(s)
			if flag == FlagSyntax {
				return
			}

			a.bindVariable(name, value)

			if a.pass == 2 && a.list != nil {
				a.list.assignment(value.Relocate(a.Base()), flag)
			}
		} else {
			value, flag := a.evalExpr(s)
			if flag == FlagSyntax {
				return
			}

			a.store(value, flag)
		}

		s.skipBlanks()

		if s.eof() || s.peek() == '"' {
			return
		}

		if s.peek() == ';' {
			s.advance()
			continue
		}

		a.reportSyntax(s)
		return
	}
}

// Directives occupy a whole line starting with a tab and a dot. The only
// one recognised is ".local NAME", which makes NAME file-local.
func (a *Assembler) parseDirective(text string) {
	fields := strings.Fields(text)

	if len(fields) == 2 && fields[0] == ".local" {
		a.syms.DeclareLocal(a.pos.File, fields[1])
		return
	}

	a.reportError(utils.MakeError(ErrSyntax, "unrecognised directive %q", strings.TrimSpace(text)))
}

// scanLabelDef matches IDENT: at the scanner head, leaving the position
// untouched when there is no label here.
func (s *lineScanner) scanLabelDef() (string, bool) {
	start := s.pos

	for !s.eof() && isIdentChar(s.peek()) {
		s.pos++
	}

	name := s.src[start:s.pos]

	if name != "" && s.peek() == ':' {
		s.advance()
		return name, true
	}

	s.pos = start
	return "", false
}

// scanAssignHead matches SYMBOL = at the scanner head, leaving the position
// untouched when this is not an assignment.
func (s *lineScanner) scanAssignHead() (string, bool) {
	start := s.pos

	if !isIdentStart(s.peek()) {
		return "", false
	}

	name := s.scanIdent()
	s.skipBlanks()

	if s.peek() == '=' {
		s.advance()
		return name, true
	}

	s.pos = start
	return "", false
}

// defineLabel binds a label to the current location counter. Purely numeric
// names are relative labels: every definition appends to the file's list,
// on pass one only. Alphabetic names go to the local or global table per
// the file's classification; a redefinition with a different value keeps
// the first value and is reported on pass two.
func (a *Assembler) defineLabel(name string) {
	if isNumericName(name) {
		if a.pass == 1 {
			number, err := strconv.Atoi(name)
			if err != nil {
				a.reportError(utils.MakeError(ErrSyntax, "bad relative label %q", name))
				return
			}

			a.syms.AddRelative(a.pos.File, number, a.dot())
		}

		return
	}

	previous, redefined := a.syms.SetLabel(a.pos.File, name, a.dot())

	if redefined && a.pass == 2 {
		a.warn("label %s redefined with a different value; keeping %06o", name, previous.Mag)
	}
}

// bindVariable binds an assignment target in the variable table. The
// location counter keeps its relocation state across assignments, so code
// placed with ". = expr" stays inside the relocatable segment.
func (a *Assembler) bindVariable(name string, value Word) {
	if name == "." {
		value.Reloc = value.Reloc || a.dot().Reloc
	}

	a.syms.SetVar(name, value)
	a.log.Debug("assign", "name", name, "value", value.String())
}

func isNumericName(name string) bool {
	for i := 0; i < len(name); i++ {
		if !isDigit(name[i]) {
			return false
		}
	}

	return len(name) > 0
}
