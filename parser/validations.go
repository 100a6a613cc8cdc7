package parser

import (
	"strings"

	"github.com/word15asm/assembler/encoder"
)

// Pure predicates over tokens. None of these touch the error accumulator;
// callers translate a failure into the code that fits the context.

// reservedWords are the tokens a label may never shadow.
var reservedWords = append(encoder.Mnemonics(), ".data", ".string", ".extern", ".entry")

// IsReservedWord reports whether the token is a mnemonic or a directive name.
func IsReservedWord(token string) bool {
	for _, word := range reservedWords {
		if token == word {
			return true
		}
	}
	return false
}

// IsRegister reports whether the token is rN with N in 0..7.
func IsRegister(token string) bool {
	return len(token) == 2 && token[0] == 'r' && token[1] >= '0' && token[1] <= '7'
}

// IsPointerRegister reports whether the token is *rN with N in 0..7.
func IsPointerRegister(token string) bool {
	return len(token) == 3 && token[0] == '*' && IsRegister(token[1:])
}

// IsIntegerLiteral reports whether the token is an optionally #-prefixed,
// optionally signed run of decimal digits.
func IsIntegerLiteral(token string) bool {
	s := strings.TrimPrefix(token, "#")
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsStringLiteral reports whether the token is a double-quoted string whose
// interior bytes are printable ASCII.
func IsStringLiteral(token string) bool {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return false
	}
	for i := 1; i < len(token)-1; i++ {
		if token[i] < 32 || token[i] > 126 {
			return false
		}
	}
	return true
}

// startsWithLetter is the first-character rule shared by label and macro names.
func startsWithLetter(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// CheckLabelName validates a label name and, on failure, says which
// diagnostic applies. macros may be nil when no macro context exists.
func CheckLabelName(name string, macros *MacroTable) (ErrorCode, bool) {
	if !startsWithLetter(name) {
		return ErrInvalidLabelName, false
	}
	if IsReservedWord(name) {
		return ErrReservedWord, false
	}
	if macros != nil && macros.IsDefined(name) {
		return ErrLabelNameUsedAsMacro, false
	}
	return 0, true
}

// ValidMacroName reports whether a token may name a macro: it must start
// with a letter and shadow neither an operation, the macro keywords, nor a
// register.
func ValidMacroName(name string) bool {
	if !startsWithLetter(name) {
		return false
	}
	if encoder.IsMnemonic(name) || name == "macr" || name == "endmacr" {
		return false
	}
	if IsRegister(name) {
		return false
	}
	return true
}

// ValidOperand reports whether the token is a register, a pointer register,
// an immediate literal, or a well-formed label name.
func ValidOperand(token string, macros *MacroTable) bool {
	if IsRegister(token) || IsPointerRegister(token) {
		return true
	}
	if strings.HasPrefix(token, "#") {
		return IsIntegerLiteral(token)
	}
	_, ok := CheckLabelName(token, macros)
	return ok
}

// CheckInstruction applies the per-opcode addressing-mode legality table and
// returns the codes of every violation, in the order the table states them.
func CheckInstruction(mnemonic string, src, dst encoder.AddrMode) []ErrorCode {
	var codes []ErrorCode

	switch mnemonic {
	case "mov", "cmp", "add", "sub", "lea":
		if src == encoder.ModeUndefined {
			codes = append(codes, ErrInvalidSourceOperand)
		}
		if dst == encoder.ModeUndefined {
			codes = append(codes, ErrInvalidDestOperand)
		}
		if mnemonic != "cmp" && dst == encoder.ModeImmediate {
			codes = append(codes, ErrInvalidAddressMode)
		}
		if mnemonic == "lea" && src != encoder.ModeUndefined && src != encoder.ModeDirect {
			codes = append(codes, ErrInvalidAddressMode)
		}

	case "clr", "not", "inc", "dec", "jmp", "bne", "red", "prn", "jsr":
		if src != encoder.ModeUndefined {
			codes = append(codes, ErrInvalidSourceOperand)
		}
		if dst == encoder.ModeUndefined {
			codes = append(codes, ErrInvalidDestOperand)
		}
		switch mnemonic {
		case "clr", "not", "inc", "dec", "red":
			if dst == encoder.ModeImmediate {
				codes = append(codes, ErrInvalidAddressMode)
			}
		case "jmp", "bne", "jsr":
			if dst == encoder.ModeImmediate || dst == encoder.ModeDirect {
				codes = append(codes, ErrInvalidAddressMode)
			}
		}

	case "rts", "stop":
		if src != encoder.ModeUndefined || dst != encoder.ModeUndefined {
			codes = append(codes, ErrInvalidSourceOperand)
		}

	default:
		codes = append(codes, ErrInvalidInstruction)
	}

	return codes
}
