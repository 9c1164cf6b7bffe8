package as7

import (
	"sort"
)

// SymbolTable owns every name known to an assembly run: the variable table
// (pre-seeded with the predefined mnemonics), the global label table, the
// per-file local label tables with their sets of declared-local names, and
// the per-file relative label lists.
type SymbolTable struct {
	vars       map[string]Word
	globals    map[string]Word
	locals     map[string]map[string]Word
	localNames map[string]map[string]bool
	relative   map[string]map[int][]Word
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:       SeedSymbols(),
		globals:    make(map[string]Word),
		locals:     make(map[string]map[string]Word),
		localNames: make(map[string]map[string]bool),
		relative:   make(map[string]map[int][]Word),
	}
}

// Var looks up a name in the variable table
func (st *SymbolTable) Var(name string) (Word, bool) {
	value, ok := st.vars[name]
	return value, ok
}

// SetVar binds a name in the variable table, silently overwriting any
// previous binding.
func (st *SymbolTable) SetVar(name string, value Word) {
	st.vars[name] = value
}

// DeclareLocal marks a name as file-local, as requested by the .local
// directive.
func (st *SymbolTable) DeclareLocal(file, name string) {
	names, ok := st.localNames[file]
	if !ok {
		names = make(map[string]bool)
		st.localNames[file] = names
	}

	names[name] = true
}

// IsLocal reports whether a label name is local to the given file: either
// declared so via .local, or starting with the letter L.
func (st *SymbolTable) IsLocal(file, name string) bool {
	if st.localNames[file][name] {
		return true
	}

	return len(name) > 0 && name[0] == 'L'
}

// SetLabel defines a label at the given value, picking the local or global
// table per the file's classification of the name. Redefinition with the
// same value is a no-op. Redefinition with a different value does not
// overwrite the earlier definition; the previous value is returned with
// redefined set so the caller can issue a diagnostic.
func (st *SymbolTable) SetLabel(file, name string, value Word) (previous Word, redefined bool) {
	table := st.globals

	if st.IsLocal(file, name) {
		table = st.locals[file]
		if table == nil {
			table = make(map[string]Word)
			st.locals[file] = table
		}
	}

	if existing, ok := table[name]; ok {
		if existing != value {
			return existing, true
		}
		return existing, false
	}

	table[name] = value
	return value, false
}

// Label looks up a label for the given file, preferring the file's local
// entry over the global one.
func (st *SymbolTable) Label(file, name string) (Word, bool) {
	if value, ok := st.locals[file][name]; ok {
		return value, true
	}

	value, ok := st.globals[name]
	return value, ok
}

// AddRelative appends a definition of a numeric label to the file's list.
// Relative labels may be redefined arbitrarily often; every definition is
// kept in order.
func (st *SymbolTable) AddRelative(file string, number int, loc Word) {
	labels, ok := st.relative[file]
	if !ok {
		labels = make(map[int][]Word)
		st.relative[file] = labels
	}

	labels[number] = append(labels[number], loc)
}

// ResolveRelative finds the definition of a numeric label nearest to the
// current location: forward references resolve to the smallest definition
// strictly above the location counter, backward references to the largest
// strictly below it.
func (st *SymbolTable) ResolveRelative(file string, number int, forward bool, dot Word) (Word, bool) {
	var best Word
	found := false

	for _, loc := range st.relative[file][number] {
		if forward {
			if loc.Mag > dot.Mag && (!found || loc.Mag < best.Mag) {
				best, found = loc, true
			}
		} else {
			if loc.Mag < dot.Mag && (!found || loc.Mag > best.Mag) {
				best, found = loc, true
			}
		}
	}

	return best, found
}

// GlobalLabels returns the names of all global labels, sorted ascending.
// Local labels never appear in dumps.
func (st *SymbolTable) GlobalLabels() []string {
	names := make([]string, 0, len(st.globals))

	for name := range st.globals {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// GlobalLabel looks up a label in the global table only
func (st *SymbolTable) GlobalLabel(name string) (Word, bool) {
	value, ok := st.globals[name]
	return value, ok
}
