package parser

import (
	"strings"
)

// Preprocessor expands text macros in one source file. A definition opens
// with a line whose first token is "macr" and closes on an "endmacr" line;
// elsewhere, a line whose first token names a defined macro is replaced by
// the body verbatim. Comment and blank lines pass through unchanged.
type Preprocessor struct {
	errors *ErrorList
}

// NewPreprocessor creates a preprocessor reporting into the given list.
func NewPreprocessor(errors *ErrorList) *Preprocessor {
	return &Preprocessor{errors: errors}
}

// Process runs both preprocessing scans over the file content and returns
// the expanded line list together with the file's macro table. The table is
// returned so the first pass can reject labels that shadow a macro name.
func (p *Preprocessor) Process(content, filename string) ([]string, *MacroTable) {
	lines := splitLines(content)
	macros := p.collect(lines, filename)
	return p.expand(lines, macros), macros
}

// collect scans for macro definitions and records their bodies.
func (p *Preprocessor) collect(lines []string, filename string) *MacroTable {
	macros := NewMacroTable()

	for i := 0; i < len(lines); i++ {
		tokens := strings.Fields(lines[i])
		if len(tokens) == 0 || tokens[0] != "macr" {
			continue
		}
		pos := Position{Filename: filename, Line: i + 1}

		var name string
		valid := true
		if len(tokens) < 2 {
			p.errors.Add(ErrMacroNameMissing, pos, "")
			valid = false
		} else {
			name = tokens[1]
			if !ValidMacroName(name) {
				p.errors.Add(ErrMacroNameInvalid, pos, name)
				valid = false
			}
		}

		// Consume the body up to endmacr whether or not the name was
		// usable, so a bad definition never leaks body lines.
		var body []string
		for i++; i < len(lines); i++ {
			if FirstToken(lines[i]) == "endmacr" {
				break
			}
			body = append(body, lines[i])
		}

		if valid {
			macros.Define(&Macro{Name: name, Body: body, Pos: pos})
		}
	}

	return macros
}

// expand re-emits the file with definitions removed and call sites replaced
// by their bodies.
func (p *Preprocessor) expand(lines []string, macros *MacroTable) []string {
	result := make([]string, 0, len(lines))
	inDefinition := false

	for _, line := range lines {
		first := FirstToken(line)

		switch {
		case first == "macr":
			inDefinition = true
		case first == "endmacr":
			inDefinition = false
		case inDefinition:
			// definition body, already collected
		default:
			if macro, ok := macros.Lookup(first); ok {
				result = append(result, macro.Body...)
			} else {
				result = append(result, line)
			}
		}
	}

	return result
}

// splitLines breaks file content into lines without their terminators. A
// trailing newline does not produce a phantom empty line.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
