package encoder

// AddrMode is an operand addressing mode. The one-hot values are part of the
// wire format: the instruction word stores the source mode in bits 10..7 and
// the destination mode in bits 6..3 exactly as numbered here.
type AddrMode int

const (
	// ModeUndefined marks a missing operand before validation. It encodes as 0.
	ModeUndefined AddrMode = 0
	// ModeImmediate is a literal operand, written #N.
	ModeImmediate AddrMode = 1
	// ModeDirect is a label operand resolved to an address.
	ModeDirect AddrMode = 2
	// ModeIndirectRegister is a register used as a pointer, written *rN.
	ModeIndirectRegister AddrMode = 4
	// ModeDirectRegister is a plain register operand, written rN.
	ModeDirectRegister AddrMode = 8
)

func (m AddrMode) String() string {
	switch m {
	case ModeUndefined:
		return "undefined"
	case ModeImmediate:
		return "immediate"
	case ModeDirect:
		return "direct"
	case ModeIndirectRegister:
		return "indirect register"
	case ModeDirectRegister:
		return "direct register"
	}
	return "invalid"
}

// ARE is the three-bit field in bits 2..0 of every instruction-stream word.
// Data words carry no ARE field.
type ARE Word

const (
	AREExternal    ARE = 1 // address fixed up by the loader
	ARERelocatable ARE = 2 // address relative to the program origin
	AREAbsolute    ARE = 4 // immediate values and registers
)

// NumRegisters is the size of the register file r0..r7.
const NumRegisters = 8

// Field offsets within a word.
const (
	opcodeShift  = 11 // opcode in bits 14..11
	srcModeShift = 7  // source mode in bits 10..7
	dstModeShift = 3  // destination mode in bits 6..3
	valueShift   = 3  // immediate value / address in bits 14..3
	srcRegShift  = 3  // source register in bits 5..3
	dstRegShift  = 6  // destination register in bits 8..6
)

// AddressingModeOf classifies an operand token by its leading characters.
// Anything that is not an immediate or a register form is assumed to be a
// label; the validators decide whether it is a legal one.
func AddressingModeOf(operand string) AddrMode {
	switch {
	case operand == "":
		return ModeUndefined
	case operand[0] == '#':
		return ModeImmediate
	case len(operand) == 2 && operand[0] == 'r' && operand[1] >= '0' && operand[1] <= '7':
		return ModeDirectRegister
	case len(operand) == 3 && operand[0] == '*' && operand[1] == 'r' && operand[2] >= '0' && operand[2] <= '7':
		return ModeIndirectRegister
	default:
		return ModeDirect
	}
}
