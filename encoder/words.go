package encoder

// Word builders for the three word shapes the first pass emits: the opcode
// word, standalone operand words, and the shared word used when both
// operands are registers.

// InstructionWord builds the opcode word: opcode in bits 14..11, source mode
// in bits 10..7, destination mode in bits 6..3, ARE=Absolute.
func InstructionWord(opcode int, src, dst AddrMode) Word {
	w := Word(opcode) << opcodeShift
	w |= Word(src) << srcModeShift
	w |= Word(dst) << dstModeShift
	w |= Word(AREAbsolute)
	return w & WordMask
}

// ImmediateWord encodes an immediate operand. The value wraps silently to
// the 12 bits left of the ARE field.
func ImmediateWord(value int) Word {
	w := IntToWord(value) << valueShift
	w |= Word(AREAbsolute)
	return w & WordMask
}

// LabelWord encodes a direct operand: the address in bits 14..3 and the ARE
// tag the resolver chose for the label.
func LabelWord(address int, are ARE) Word {
	w := IntToWord(address) << valueShift
	w |= Word(are)
	return w & WordMask
}

// RegisterWord encodes a lone register operand, direct or indirect. A
// destination register sits in bits 8..6, a source register in bits 5..3.
func RegisterWord(register int, destination bool) Word {
	var w Word
	if destination {
		w = Word(register) << dstRegShift
	} else {
		w = Word(register) << srcRegShift
	}
	w |= Word(AREAbsolute)
	return w & WordMask
}

// CombinedRegisterWord encodes the single shared word used when both
// operands are register forms: source in bits 5..3, destination in bits 8..6.
func CombinedRegisterWord(srcRegister, dstRegister int) Word {
	w := Word(srcRegister) << srcRegShift
	w |= Word(dstRegister) << dstRegShift
	w |= Word(AREAbsolute)
	return w & WordMask
}

// RegisterNumber extracts the register digit from an rN or *rN token.
func RegisterNumber(operand string) int {
	if operand[0] == '*' {
		return int(operand[2] - '0')
	}
	return int(operand[1] - '0')
}
