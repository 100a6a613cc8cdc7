package assembler

import (
	"strconv"
	"strings"

	"github.com/word15asm/assembler/encoder"
	"github.com/word15asm/assembler/parser"
)

// FirstPass classifies and encodes the preprocessed lines of one file.
// Side effects happen strictly in source order: symbol bindings, stream
// appends and counter increments for line n precede those for line n+1.
// macros is the file's macro table, consulted only for name clashes.
func (j *Job) FirstPass(lines []string, filename string, macros *parser.MacroTable) {
	for i, line := range lines {
		pos := parser.Position{Filename: filename, Line: i + 1}
		if parser.IsBlankLine(line) || parser.IsCommentLine(line) {
			continue
		}
		j.parseLine(line, pos, macros)
	}
}

// parseLine handles one non-empty source line.
func (j *Job) parseLine(line string, pos parser.Position, macros *parser.MacroTable) {
	tokens := parser.Tokenize(line)
	label, rest := parser.SplitLabel(tokens)

	if label != "" && len(rest) > 0 && (rest[0] == ".entry" || rest[0] == ".extern") {
		// A label in front of .entry/.extern binds nothing.
		label = ""
	}

	if label != "" {
		j.declareLabel(label, rest, pos, macros)
	}

	if len(rest) == 0 {
		return
	}

	switch rest[0] {
	case ".data":
		j.handleData(rest[1:], pos)
	case ".string":
		j.handleString(parser.RestOfLine(line, ".string"), pos)
	case ".entry":
		j.handleEntry(rest[1:], pos, macros)
	case ".extern":
		j.handleExtern(rest[1:], pos, macros)
	default:
		if _, ok := encoder.Opcode(rest[0]); ok {
			j.encodeInstruction(rest[0], rest[1:], line, pos, macros)
		} else {
			j.Errors.Add(parser.ErrUnexpectedToken, pos, rest[0])
		}
	}
}

// declareLabel binds a label declaration at the current counter of the
// segment the rest of the line belongs to.
func (j *Job) declareLabel(label string, rest []string, pos parser.Position, macros *parser.MacroTable) {
	if code, ok := parser.CheckLabelName(label, macros); !ok {
		j.Errors.Add(code, pos, label)
		return
	}

	isInstruction := len(rest) > 0 && encoder.IsMnemonic(rest[0])
	address := j.DC
	if isInstruction {
		address = j.IC
	}

	if j.Symbols.Declare(label, address, isInstruction, pos) {
		j.Errors.Add(parser.ErrLabelAlreadyDeclared, pos, label)
	}
}

// handleData appends one signed word per valid integer literal.
func (j *Job) handleData(values []string, pos parser.Position) {
	for _, token := range values {
		if !parser.IsIntegerLiteral(token) {
			j.Errors.Add(parser.ErrInvalidData, pos, token)
			continue
		}
		value, _ := strconv.Atoi(strings.TrimPrefix(token, "#"))
		j.emitData(encoder.IntToWord(value), pos)
	}
}

// handleString appends one word per string byte plus a zero terminator.
func (j *Job) handleString(literal string, pos parser.Position) {
	if !parser.IsStringLiteral(literal) {
		j.Errors.Add(parser.ErrInvalidString, pos, literal)
		return
	}
	for i := 1; i < len(literal)-1; i++ {
		j.emitData(encoder.Word(literal[i]), pos)
	}
	j.emitData(0, pos)
}

// handleEntry marks the named label as exported.
func (j *Job) handleEntry(args []string, pos parser.Position, macros *parser.MacroTable) {
	name, ok := j.directiveLabel(args, pos, macros)
	if !ok {
		return
	}
	if j.Symbols.MarkEntry(name, pos) {
		j.Errors.Add(parser.ErrLabelAlreadyDeclared, pos, name)
	}
}

// handleExtern marks the named label as imported.
func (j *Job) handleExtern(args []string, pos parser.Position, macros *parser.MacroTable) {
	name, ok := j.directiveLabel(args, pos, macros)
	if !ok {
		return
	}
	if j.Symbols.MarkExternal(name, pos) {
		j.Errors.Add(parser.ErrLabelAlreadyDeclared, pos, name)
	}
}

// directiveLabel validates the label operand of .entry/.extern.
func (j *Job) directiveLabel(args []string, pos parser.Position, macros *parser.MacroTable) (string, bool) {
	if len(args) == 0 {
		j.Errors.Add(parser.ErrInvalidLabelName, pos, "")
		return "", false
	}
	name := args[0]
	if code, ok := parser.CheckLabelName(name, macros); !ok {
		j.Errors.Add(code, pos, name)
		return "", false
	}
	return name, true
}
