package parser

import (
	"fmt"
	"io"
	"strings"
)

// Position represents a location in a source file
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// ErrorCode categorizes every diagnostic the pipeline can raise.
type ErrorCode int

const (
	ErrFileNotFound ErrorCode = iota
	ErrMacroNameMissing
	ErrMacroNameInvalid
	ErrAllocationFailed
	ErrUnexpectedToken
	ErrInvalidLabelName
	ErrLabelNameUsedAsMacro
	ErrLabelNameAlreadyDeclared
	ErrReservedWord
	ErrInvalidData
	ErrInvalidString
	ErrInvalidInstruction
	ErrInvalidSourceOperand
	ErrInvalidDestOperand
	ErrInvalidAddressMode
	ErrLabelAlreadyDeclared
	ErrLabelDeclaredAsExternal
	ErrLabelNotDeclared
	ErrEntryLabelExternal
	ErrUnknown
)

// errorMessages maps each code to its format string. A %s interpolates the
// detail token carried by the record.
var errorMessages = map[ErrorCode]string{
	ErrFileNotFound:             "File not found: %s",
	ErrMacroNameMissing:         "Macro name missing.",
	ErrMacroNameInvalid:         "Macro name is not valid: %s",
	ErrAllocationFailed:         "Memory allocation failed.",
	ErrUnexpectedToken:          "Unexpected token: %s",
	ErrInvalidLabelName:         "Invalid label name: %s",
	ErrLabelNameUsedAsMacro:     "Label name used as macro: %s",
	ErrLabelNameAlreadyDeclared: "Label name already declared: %s",
	ErrReservedWord:             "Reserved word: %s",
	ErrInvalidData:              "Invalid data: %s",
	ErrInvalidString:            "Invalid string: %s",
	ErrInvalidInstruction:       "Invalid instruction: %s",
	ErrInvalidSourceOperand:     "Invalid source operand at the instruction: %s",
	ErrInvalidDestOperand:       "Invalid destination operand at the instruction: %s",
	ErrInvalidAddressMode:       "Invalid address mode at the instruction: %s",
	ErrLabelAlreadyDeclared:     "Label already declared: %s",
	ErrLabelDeclaredAsExternal:  "Label: %s is declared as an extern.",
	ErrLabelNotDeclared:         "Label: %s is not declared.",
	ErrEntryLabelExternal:       "Label: %s is declared as an entry.",
	ErrUnknown:                  "Unknown error.",
}

// Error is a single accumulated diagnostic.
type Error struct {
	Code   ErrorCode
	Pos    Position
	Detail string
}

func (e *Error) Error() string {
	format, ok := errorMessages[e.Code]
	if !ok {
		format = errorMessages[ErrUnknown]
	}
	message := format
	if strings.Contains(format, "%s") {
		message = fmt.Sprintf(format, e.Detail)
	}
	return fmt.Sprintf("Error in file %s at line %d: %s", e.Pos.Filename, e.Pos.Line, message)
}

// Warning represents a non-fatal advisory. Warnings never suppress output.
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList accumulates diagnostics across the whole job. Handlers append
// and continue; nothing unwinds on a single error.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

// NewErrorList creates an empty accumulator.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends one diagnostic record.
func (el *ErrorList) Add(code ErrorCode, pos Position, detail string) {
	el.Errors = append(el.Errors, &Error{Code: code, Pos: pos, Detail: detail})
}

// AddWarning appends an advisory.
func (el *ErrorList) AddWarning(pos Position, message string) {
	el.Warnings = append(el.Warnings, &Warning{Pos: pos, Message: message})
}

// HasErrors returns true once any record exists.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, err := range el.Errors {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Print writes every error on its own line.
func (el *ErrorList) Print(w io.Writer) {
	for _, err := range el.Errors {
		fmt.Fprintln(w, err.Error())
	}
}

// PrintWarnings writes every warning on its own line.
func (el *ErrorList) PrintWarnings(w io.Writer) {
	for _, warn := range el.Warnings {
		fmt.Fprintln(w, warn.String())
	}
}
