package encoder_test

import (
	"testing"

	"github.com/word15asm/assembler/encoder"
)

func TestIntToWord_Positive(t *testing.T) {
	if w := encoder.IntToWord(7); w != 7 {
		t.Errorf("expected 7, got %d", w)
	}
}

func TestIntToWord_Negative(t *testing.T) {
	// -1 is all ones in 15-bit two's complement
	if w := encoder.IntToWord(-1); w != 0x7FFF {
		t.Errorf("expected 0x7FFF, got %#x", w)
	}
	if w := encoder.IntToWord(-5); w != 0x7FFB {
		t.Errorf("expected 0x7FFB, got %#x", w)
	}
}

func TestIntToWord_RoundTrip(t *testing.T) {
	for _, n := range []int{-16384, -16383, -100, -1, 0, 1, 7, 100, 16382, 16383} {
		w := encoder.IntToWord(n)
		if w > 0x7FFF {
			t.Errorf("IntToWord(%d) = %#x exceeds 15 bits", n, w)
		}
		if got := encoder.WordToInt(w); got != n {
			t.Errorf("round trip of %d gave %d", n, got)
		}
	}
}

func TestIntToWord_Wraps(t *testing.T) {
	// Out-of-range values wrap silently rather than erroring.
	if w := encoder.IntToWord(1 << 15); w != 0 {
		t.Errorf("expected wrap to 0, got %d", w)
	}
}

func TestOpcode_CanonicalOrder(t *testing.T) {
	expected := []string{
		"mov", "cmp", "add", "sub", "lea", "clr", "not", "inc",
		"dec", "jmp", "bne", "red", "prn", "jsr", "rts", "stop",
	}
	for i, mnemonic := range expected {
		opcode, ok := encoder.Opcode(mnemonic)
		if !ok {
			t.Fatalf("mnemonic %q not found", mnemonic)
		}
		if opcode != i {
			t.Errorf("mnemonic %q: expected opcode %d, got %d", mnemonic, i, opcode)
		}
	}
}

func TestOpcode_NotFound(t *testing.T) {
	if _, ok := encoder.Opcode("blt"); ok {
		t.Error("expected lookup failure for unknown mnemonic")
	}
	if encoder.IsMnemonic(".data") {
		t.Error("directive is not a mnemonic")
	}
}

func TestAddressingModeOf(t *testing.T) {
	tests := []struct {
		operand string
		mode    encoder.AddrMode
	}{
		{"#5", encoder.ModeImmediate},
		{"#-3", encoder.ModeImmediate},
		{"r0", encoder.ModeDirectRegister},
		{"r7", encoder.ModeDirectRegister},
		{"*r2", encoder.ModeIndirectRegister},
		{"LABEL", encoder.ModeDirect},
		{"r8", encoder.ModeDirect}, // not a register, parsed as a label
		{"", encoder.ModeUndefined},
	}
	for _, tt := range tests {
		if got := encoder.AddressingModeOf(tt.operand); got != tt.mode {
			t.Errorf("AddressingModeOf(%q) = %v, want %v", tt.operand, got, tt.mode)
		}
	}
}

func TestInstructionWord_Layout(t *testing.T) {
	// mov with direct-register source and direct destination:
	// opcode 0, source mode 8 in bits 10..7, dest mode 2 in bits 6..3, ARE absolute
	w := encoder.InstructionWord(0, encoder.ModeDirectRegister, encoder.ModeDirect)
	want := encoder.Word(8<<7 | 2<<3 | 4)
	if w != want {
		t.Errorf("expected %05o, got %05o", want, w)
	}

	// stop: opcode 15, no operands
	w = encoder.InstructionWord(15, encoder.ModeUndefined, encoder.ModeUndefined)
	want = encoder.Word(15<<11 | 4)
	if w != want {
		t.Errorf("expected %05o, got %05o", want, w)
	}
}

func TestImmediateWord(t *testing.T) {
	if w := encoder.ImmediateWord(5); w != encoder.Word(5<<3|4) {
		t.Errorf("ImmediateWord(5) = %05o", w)
	}
	// negative values carry their two's-complement pattern left of the ARE bits
	w := encoder.ImmediateWord(-1)
	if w&7 != 4 {
		t.Errorf("expected absolute ARE, got %d", w&7)
	}
	if w>>3 != 0xFFF {
		t.Errorf("expected all-ones value field, got %#x", w>>3)
	}
}

func TestLabelWord(t *testing.T) {
	if w := encoder.LabelWord(104, encoder.ARERelocatable); w != encoder.Word(104<<3|2) {
		t.Errorf("LabelWord(104, R) = %05o", w)
	}
	if w := encoder.LabelWord(0, encoder.AREExternal); w != 1 {
		t.Errorf("LabelWord(0, E) = %05o", w)
	}
}

func TestRegisterWord(t *testing.T) {
	// destination register in bits 8..6, source register in bits 5..3
	if w := encoder.RegisterWord(1, true); w != encoder.Word(1<<6|4) {
		t.Errorf("destination r1 = %05o", w)
	}
	if w := encoder.RegisterWord(3, false); w != encoder.Word(3<<3|4) {
		t.Errorf("source r3 = %05o", w)
	}
}

func TestCombinedRegisterWord(t *testing.T) {
	if w := encoder.CombinedRegisterWord(1, 2); w != encoder.Word(1<<3|2<<6|4) {
		t.Errorf("combined r1,r2 = %05o", w)
	}
}

func TestRegisterNumber(t *testing.T) {
	if n := encoder.RegisterNumber("r5"); n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
	if n := encoder.RegisterNumber("*r2"); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}
