package assembler

import (
	"github.com/word15asm/assembler/parser"
)

// SourceFile is one input to a job: the name used in diagnostics and the
// raw file content.
type SourceFile struct {
	Name    string
	Content string
}

// Assemble runs the full pipeline over in-memory sources: macro expansion
// per file, first pass over every file into the shared job, relocation,
// second pass. Callers check job.Errors before using the streams.
func Assemble(files ...SourceFile) (*Job, []ExternalUse) {
	job := NewJob()
	for _, file := range files {
		pp := parser.NewPreprocessor(job.Errors)
		lines, macros := pp.Process(file.Content, file.Name)
		job.FirstPass(lines, file.Name, macros)
	}
	job.Relocate()
	uses := job.SecondPass()
	return job, uses
}
