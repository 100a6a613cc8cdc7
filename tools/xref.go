// Package tools holds developer-facing helpers layered on top of a
// finished job. They never affect the emitted artifacts.
package tools

import (
	"fmt"
	"strings"

	"github.com/word15asm/assembler/assembler"
	"github.com/word15asm/assembler/parser"
)

// Reference is one use of a symbol by an instruction word.
type Reference struct {
	Address int
	Pos     parser.Position
}

// XRef is a cross-reference of a job's symbol table: for every label, its
// definition and all instruction words that reference it.
type XRef struct {
	job  *assembler.Job
	uses map[string][]Reference
}

// NewXRef builds the cross-reference for a job. The job should be fully
// assembled; addresses are final.
func NewXRef(job *assembler.Job) *XRef {
	x := &XRef{
		job:  job,
		uses: make(map[string][]Reference),
	}
	for _, node := range job.Code.Nodes {
		if node.LabelRef != "" {
			x.uses[node.LabelRef] = append(x.uses[node.LabelRef], Reference{
				Address: node.Address,
				Pos:     node.Pos,
			})
		}
	}
	return x
}

// Uses returns the use sites of one label, in stream order.
func (x *XRef) Uses(name string) []Reference {
	return x.uses[name]
}

// UnusedSymbols returns every declared label no instruction references.
// Entry labels are exempt: they exist to be referenced from outside.
func (x *XRef) UnusedSymbols() []*parser.Symbol {
	var unused []*parser.Symbol
	for _, sym := range x.job.Symbols.All() {
		if sym.Declared && !sym.Entry && len(x.uses[sym.Name]) == 0 {
			unused = append(unused, sym)
		}
	}
	return unused
}

// Report renders the symbol table with segments, flags and use sites, in
// insertion order.
func (x *XRef) Report() string {
	var sb strings.Builder

	sb.WriteString("Symbol Table:\n")
	sb.WriteString("=============\n")
	sb.WriteString(fmt.Sprintf("%-20s %8s  %-6s %s\n", "NAME", "ADDRESS", "SEG", "FLAGS"))

	for _, sym := range x.job.Symbols.All() {
		segment := "data"
		if sym.IsInstruction {
			segment = "code"
		}
		if sym.External {
			segment = "-"
		}

		var flags []string
		if sym.Entry {
			flags = append(flags, "entry")
		}
		if sym.External {
			flags = append(flags, "extern")
		}
		if !sym.Declared && !sym.External {
			flags = append(flags, "undeclared")
		}

		sb.WriteString(fmt.Sprintf("%-20s %8d  %-6s %s\n",
			sym.Name, sym.Address, segment, strings.Join(flags, ",")))

		for _, ref := range x.uses[sym.Name] {
			sb.WriteString(fmt.Sprintf("    used at %04d (%s)\n", ref.Address, ref.Pos))
		}
	}

	sb.WriteString(fmt.Sprintf("\n%d symbols\n", x.job.Symbols.Len()))
	return sb.String()
}

// Warn appends an advisory per unused label to the job's accumulator.
// Warnings never suppress output.
func (x *XRef) Warn() {
	for _, sym := range x.UnusedSymbols() {
		x.job.Errors.AddWarning(sym.Pos, fmt.Sprintf("label %q is never referenced", sym.Name))
	}
}
