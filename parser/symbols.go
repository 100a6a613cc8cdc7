package parser

// Symbol is one label record. Address is a pre-relocation segment offset
// until the job relocates; Pos tracks where the label was last defined or,
// for undeclared placeholders, last mentioned.
type Symbol struct {
	Name          string
	Pos           Position
	Address       int
	IsInstruction bool
	Entry         bool
	External      bool
	Declared      bool
}

// SymbolTable is an insertion-ordered mapping from label name to record.
// All files of a job share one table.
type SymbolTable struct {
	byName map[string]*Symbol
	order  []*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol)}
}

// Find returns the record for a label name.
func (st *SymbolTable) Find(name string) (*Symbol, bool) {
	sym, ok := st.byName[name]
	return sym, ok
}

// Len returns the number of records.
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// All returns the records in insertion order. The slice is shared; callers
// must not reorder it.
func (st *SymbolTable) All() []*Symbol {
	return st.order
}

// insert adds a fresh record.
func (st *SymbolTable) insert(sym *Symbol) *Symbol {
	st.byName[sym.Name] = sym
	st.order = append(st.order, sym)
	return sym
}

// Declare binds a label declaration. A second declaration overwrites the
// record; redeclared reports whether that happened so the caller can raise
// LabelAlreadyDeclared. Placeholders created by Reference, MarkEntry or
// MarkExternal are filled in without complaint.
func (st *SymbolTable) Declare(name string, address int, isInstruction bool, pos Position) (redeclared bool) {
	sym, ok := st.byName[name]
	if !ok {
		st.insert(&Symbol{
			Name:          name,
			Pos:           pos,
			Address:       address,
			IsInstruction: isInstruction,
			Declared:      true,
		})
		return false
	}

	redeclared = sym.Declared
	sym.Address = address
	sym.IsInstruction = isInstruction
	sym.Declared = true
	sym.Pos = pos
	return redeclared
}

// MarkEntry flags a label as exported. Repeating .entry on the same label is
// idempotent; conflict reports an entry on an external label or on a label
// declared in a different file.
func (st *SymbolTable) MarkEntry(name string, pos Position) (conflict bool) {
	sym, ok := st.byName[name]
	if !ok {
		st.insert(&Symbol{Name: name, Pos: pos, Entry: true})
		return false
	}

	if sym.External || (sym.Declared && sym.Pos.Filename != pos.Filename) {
		conflict = true
	}
	sym.Entry = true
	if !sym.Declared {
		sym.Pos = pos
	}
	return conflict
}

// MarkExternal flags a label as imported. conflict reports an .extern on a
// label that is already declared or exported.
func (st *SymbolTable) MarkExternal(name string, pos Position) (conflict bool) {
	sym, ok := st.byName[name]
	if !ok {
		st.insert(&Symbol{Name: name, Pos: pos, External: true})
		return false
	}

	if sym.Declared || sym.Entry {
		conflict = true
	}
	sym.External = true
	sym.Address = 0
	if !sym.Declared {
		sym.Pos = pos
	}
	return conflict
}

// Reference records a label use before its declaration has been seen. The
// placeholder keeps the use position so an unresolved label can be reported
// where it was mentioned.
func (st *SymbolTable) Reference(name string, pos Position) *Symbol {
	sym, ok := st.byName[name]
	if !ok {
		return st.insert(&Symbol{Name: name, Pos: pos})
	}
	if !sym.Declared {
		sym.Pos = pos
	}
	return sym
}
