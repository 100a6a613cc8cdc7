// Package assembler drives the two passes that turn preprocessed source
// lines into the instruction and data images of one job. All source files
// given on the command line share a single Job: one symbol table, one pair
// of streams, one error accumulator.
package assembler

import (
	"github.com/word15asm/assembler/encoder"
	"github.com/word15asm/assembler/parser"
)

// Node is one emitted word. Address is a segment offset until relocation.
// LabelRef names the label a direct operand refers to; the second pass
// rewrites the word of every node that carries one.
type Node struct {
	Address  int
	Word     encoder.Word
	LabelRef string
	Pos      parser.Position
}

// Stream is an insert-ordered sequence of emitted words.
type Stream struct {
	Nodes []*Node
}

func (s *Stream) append(node *Node) {
	s.Nodes = append(s.Nodes, node)
}

// Len returns the number of words in the stream.
func (s *Stream) Len() int {
	return len(s.Nodes)
}

// Job holds the shared mutable state of one assembly invocation.
type Job struct {
	Symbols *parser.SymbolTable
	Code    *Stream
	Data    *Stream
	Errors  *parser.ErrorList

	IC int
	DC int

	relocated bool
}

// NewJob creates an empty job.
func NewJob() *Job {
	return &Job{
		Symbols: parser.NewSymbolTable(),
		Code:    &Stream{},
		Data:    &Stream{},
		Errors:  parser.NewErrorList(),
	}
}

// emitCode appends a word to the instruction stream at IC and advances IC.
func (j *Job) emitCode(w encoder.Word, labelRef string, pos parser.Position) {
	j.Code.append(&Node{Address: j.IC, Word: w, LabelRef: labelRef, Pos: pos})
	j.IC++
}

// emitData appends a word to the data stream at DC and advances DC.
func (j *Job) emitData(w encoder.Word, pos parser.Position) {
	j.Data.append(&Node{Address: j.DC, Word: w, Pos: pos})
	j.DC++
}

// Relocate shifts every address so the program starts at the origin and the
// data segment follows the instruction segment. External symbols keep
// address 0. Relocation happens exactly once, between the passes.
func (j *Job) Relocate() {
	if j.relocated {
		return
	}
	j.relocated = true

	for _, sym := range j.Symbols.All() {
		switch {
		case sym.External:
			sym.Address = 0
		case !sym.Declared:
			// stays 0; the second pass reports it
		case sym.IsInstruction:
			sym.Address += encoder.Origin
		default:
			sym.Address += j.IC + encoder.Origin
		}
	}

	for _, node := range j.Code.Nodes {
		node.Address += encoder.Origin
	}
	for _, node := range j.Data.Nodes {
		node.Address += j.IC + encoder.Origin
	}
}
