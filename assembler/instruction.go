package assembler

import (
	"strconv"
	"strings"

	"github.com/word15asm/assembler/encoder"
	"github.com/word15asm/assembler/parser"
)

// encodeInstruction emits the opcode word and the operand words of one
// instruction. On any validation failure the whole line is abandoned and IC
// is left untouched.
func (j *Job) encodeInstruction(mnemonic string, operands []string, line string, pos parser.Position, macros *parser.MacroTable) {
	opcode, _ := encoder.Opcode(mnemonic)
	if len(operands) > 2 {
		operands = operands[:2]
	}

	srcMode := encoder.ModeUndefined
	dstMode := encoder.ModeUndefined
	valid := true

	switch len(operands) {
	case 1:
		// A lone operand is the destination.
		dstMode = encoder.AddressingModeOf(operands[0])
		if !parser.ValidOperand(operands[0], macros) {
			j.Errors.Add(parser.ErrInvalidDestOperand, pos, operands[0])
			valid = false
		}
	case 2:
		srcMode = encoder.AddressingModeOf(operands[0])
		dstMode = encoder.AddressingModeOf(operands[1])
		if !parser.ValidOperand(operands[0], macros) {
			j.Errors.Add(parser.ErrInvalidSourceOperand, pos, operands[0])
			valid = false
		}
		if !parser.ValidOperand(operands[1], macros) {
			j.Errors.Add(parser.ErrInvalidDestOperand, pos, operands[1])
			valid = false
		}
	}

	if !valid {
		return
	}

	if codes := parser.CheckInstruction(mnemonic, srcMode, dstMode); len(codes) > 0 {
		detail := strings.TrimSpace(line)
		for _, code := range codes {
			j.Errors.Add(code, pos, detail)
		}
		return
	}

	j.emitCode(encoder.InstructionWord(opcode, srcMode, dstMode), "", pos)

	registerForm := func(m encoder.AddrMode) bool {
		return m == encoder.ModeDirectRegister || m == encoder.ModeIndirectRegister
	}

	switch {
	case len(operands) == 2 && registerForm(srcMode) && registerForm(dstMode):
		// Both operands are registers: one shared word.
		src := encoder.RegisterNumber(operands[0])
		dst := encoder.RegisterNumber(operands[1])
		j.emitCode(encoder.CombinedRegisterWord(src, dst), "", pos)
	case len(operands) == 2:
		j.emitOperand(operands[0], srcMode, false, pos)
		j.emitOperand(operands[1], dstMode, true, pos)
	case len(operands) == 1:
		j.emitOperand(operands[0], dstMode, true, pos)
	}
}

// emitOperand appends the extra word of a single operand.
func (j *Job) emitOperand(operand string, mode encoder.AddrMode, destination bool, pos parser.Position) {
	switch mode {
	case encoder.ModeImmediate:
		value, _ := strconv.Atoi(strings.TrimPrefix(operand, "#"))
		j.emitCode(encoder.ImmediateWord(value), "", pos)

	case encoder.ModeDirect:
		// Record the reference; the second pass patches the word once
		// every file has been seen and addresses are final.
		sym := j.Symbols.Reference(operand, pos)
		are := encoder.ARERelocatable
		if sym.External || !sym.Declared {
			are = encoder.AREExternal
		}
		j.emitCode(encoder.LabelWord(sym.Address, are), operand, pos)

	case encoder.ModeDirectRegister, encoder.ModeIndirectRegister:
		j.emitCode(encoder.RegisterWord(encoder.RegisterNumber(operand), destination), "", pos)
	}
}
