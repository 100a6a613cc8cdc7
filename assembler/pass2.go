package assembler

import (
	"github.com/word15asm/assembler/encoder"
	"github.com/word15asm/assembler/parser"
)

// ExternalUse records one instruction word that references an external
// label. Address is the word's final, relocated address.
type ExternalUse struct {
	Name    string
	Address int
}

// SecondPass patches every instruction word that references a label and
// cross-checks entry/extern consistency over the whole symbol table. It
// must run after Relocate. The returned uses feed the externals file, in
// instruction-stream order.
func (j *Job) SecondPass() []ExternalUse {
	var uses []ExternalUse

	for _, node := range j.Code.Nodes {
		if node.LabelRef == "" {
			continue
		}
		sym, ok := j.Symbols.Find(node.LabelRef)
		if !ok {
			// Pass 1 inserts a placeholder for every reference, so a
			// missing record means the stream and table disagree.
			j.Errors.Add(parser.ErrLabelNotDeclared, node.Pos, node.LabelRef)
			continue
		}

		switch {
		case sym.External:
			node.Word = encoder.Word(encoder.AREExternal)
			uses = append(uses, ExternalUse{Name: sym.Name, Address: node.Address})
		case sym.Declared:
			node.Word = encoder.LabelWord(sym.Address, encoder.ARERelocatable)
		default:
			// Neither declared nor external: reported once per label in
			// the sweep below.
		}
	}

	for _, sym := range j.Symbols.All() {
		switch {
		case sym.External && sym.Declared:
			j.Errors.Add(parser.ErrLabelDeclaredAsExternal, sym.Pos, sym.Name)
		case sym.External && sym.Entry:
			j.Errors.Add(parser.ErrEntryLabelExternal, sym.Pos, sym.Name)
		case !sym.External && !sym.Declared:
			j.Errors.Add(parser.ErrLabelNotDeclared, sym.Pos, sym.Name)
		}
	}

	return uses
}
