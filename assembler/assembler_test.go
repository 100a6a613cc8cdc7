package assembler_test

import (
	"testing"

	"github.com/word15asm/assembler/assembler"
	"github.com/word15asm/assembler/encoder"
	"github.com/word15asm/assembler/parser"
)

func assemble(t *testing.T, content string) (*assembler.Job, []assembler.ExternalUse) {
	t.Helper()
	job, uses := assembler.Assemble(assembler.SourceFile{Name: "test.as", Content: content})
	return job, uses
}

func mustSucceed(t *testing.T, job *assembler.Job) {
	t.Helper()
	if job.Errors.HasErrors() {
		t.Fatalf("unexpected errors:\n%v", job.Errors)
	}
}

func hasCode(t *testing.T, job *assembler.Job, code parser.ErrorCode) bool {
	t.Helper()
	for _, err := range job.Errors.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

func TestAssemble_InstructionAndData(t *testing.T) {
	job, _ := assemble(t, "MAIN: mov r3, LENGTH\nstop\nLENGTH: .data 7\n")
	mustSucceed(t, job)

	if job.IC != 4 || job.DC != 1 {
		t.Fatalf("expected IC=4 DC=1, got IC=%d DC=%d", job.IC, job.DC)
	}

	// opcode word: mov, source direct-register, destination direct
	if w := job.Code.Nodes[0].Word; w != encoder.Word(8<<7|2<<3|4) {
		t.Errorf("opcode word = %05o", w)
	}
	// source register word: r3 in bits 5..3
	if w := job.Code.Nodes[1].Word; w != encoder.Word(3<<3|4) {
		t.Errorf("source register word = %05o", w)
	}
	// LENGTH resolved to 104 (after 4 code words and the origin), relocatable
	if w := job.Code.Nodes[2].Word; w != encoder.Word(104<<3|2) {
		t.Errorf("label word = %05o", w)
	}
	// stop word
	if w := job.Code.Nodes[3].Word; w != encoder.Word(15<<11|4) {
		t.Errorf("stop word = %05o", w)
	}

	// addresses: code at 100..103, data at 104
	for i, node := range job.Code.Nodes {
		if node.Address != 100+i {
			t.Errorf("code node %d at %d", i, node.Address)
		}
	}
	if job.Data.Nodes[0].Address != 104 {
		t.Errorf("data node at %d", job.Data.Nodes[0].Address)
	}
	if job.Data.Nodes[0].Word != 7 {
		t.Errorf("data word = %d", job.Data.Nodes[0].Word)
	}

	main, _ := job.Symbols.Find("MAIN")
	if main.Address != 100 || !main.IsInstruction {
		t.Errorf("MAIN = %+v", main)
	}
	length, _ := job.Symbols.Find("LENGTH")
	if length.Address != 104 || length.IsInstruction {
		t.Errorf("LENGTH = %+v", length)
	}
}

func TestAssemble_ExternalReference(t *testing.T) {
	job, uses := assemble(t, ".extern EXT\nmov EXT, r1\n")
	mustSucceed(t, job)

	if job.IC != 3 {
		t.Fatalf("expected IC=3, got %d", job.IC)
	}

	// the operand word for EXT keeps address bits zero with ARE=External
	if w := job.Code.Nodes[1].Word; w != encoder.Word(encoder.AREExternal) {
		t.Errorf("external operand word = %05o", w)
	}

	if len(uses) != 1 {
		t.Fatalf("expected 1 external use, got %d", len(uses))
	}
	if uses[0].Name != "EXT" || uses[0].Address != 101 {
		t.Errorf("use = %+v", uses[0])
	}

	sym, _ := job.Symbols.Find("EXT")
	if sym.Address != 0 {
		t.Errorf("external label address = %d", sym.Address)
	}
}

func TestAssemble_ExternalUsedTwice(t *testing.T) {
	job, uses := assemble(t, ".extern X\njsr r1\nmov X, X\n")
	mustSucceed(t, job)

	if len(uses) != 2 {
		t.Fatalf("expected 2 uses, got %d", len(uses))
	}
	if uses[0].Address != 103 || uses[1].Address != 104 {
		t.Errorf("use addresses = %d, %d", uses[0].Address, uses[1].Address)
	}
}

func TestAssemble_EntryDataOnly(t *testing.T) {
	job, _ := assemble(t, ".entry E\nE: .data 5\n")
	mustSucceed(t, job)

	if job.IC != 0 || job.DC != 1 {
		t.Fatalf("expected IC=0 DC=1, got IC=%d DC=%d", job.IC, job.DC)
	}

	// with no instructions the data segment starts at the origin
	sym, _ := job.Symbols.Find("E")
	if !sym.Entry || sym.Address != 100 {
		t.Errorf("E = %+v", sym)
	}
	if job.Data.Nodes[0].Address != 100 {
		t.Errorf("data node at %d", job.Data.Nodes[0].Address)
	}
}

func TestAssemble_MacroExpansion(t *testing.T) {
	job, _ := assemble(t, "macr GREET\nmov r1,r2\nendmacr\nGREET\nstop\n")
	mustSucceed(t, job)

	// both operands are registers, so mov collapses to two words
	if job.IC != 3 {
		t.Fatalf("expected IC=3, got %d", job.IC)
	}
	if w := job.Code.Nodes[1].Word; w != encoder.Word(1<<3|2<<6|4) {
		t.Errorf("combined register word = %05o", w)
	}
}

func TestAssemble_CombinedRegisterWordForms(t *testing.T) {
	// indirect and direct register operands share one word
	job, _ := assemble(t, "mov *r1, r2\n")
	mustSucceed(t, job)
	if job.IC != 2 {
		t.Fatalf("expected IC=2, got %d", job.IC)
	}
	if w := job.Code.Nodes[1].Word; w != encoder.Word(1<<3|2<<6|4) {
		t.Errorf("combined word = %05o", w)
	}

	// an immediate source keeps the operands in separate words
	job, _ = assemble(t, "mov #4, r2\n")
	mustSucceed(t, job)
	if job.IC != 3 {
		t.Fatalf("expected IC=3, got %d", job.IC)
	}
	if w := job.Code.Nodes[1].Word; w != encoder.Word(4<<3|4) {
		t.Errorf("immediate word = %05o", w)
	}
	if w := job.Code.Nodes[2].Word; w != encoder.Word(2<<6|4) {
		t.Errorf("destination register word = %05o", w)
	}
}

func TestAssemble_StringDirective(t *testing.T) {
	job, _ := assemble(t, `STR: .string "ab"`+"\n")
	mustSucceed(t, job)

	if job.DC != 3 {
		t.Fatalf("expected DC=3 (two bytes plus terminator), got %d", job.DC)
	}
	if job.Data.Nodes[0].Word != 'a' || job.Data.Nodes[1].Word != 'b' || job.Data.Nodes[2].Word != 0 {
		t.Errorf("string words = %v %v %v",
			job.Data.Nodes[0].Word, job.Data.Nodes[1].Word, job.Data.Nodes[2].Word)
	}
}

func TestAssemble_DataList(t *testing.T) {
	job, _ := assemble(t, ".data 6, -9, +15\n")
	mustSucceed(t, job)

	if job.DC != 3 {
		t.Fatalf("expected DC=3, got %d", job.DC)
	}
	if job.Data.Nodes[1].Word != encoder.IntToWord(-9) {
		t.Errorf("negative data word = %05o", job.Data.Nodes[1].Word)
	}
	if job.Data.Nodes[2].Word != 15 {
		t.Errorf("signed data word = %05o", job.Data.Nodes[2].Word)
	}
}

func TestAssemble_InvalidAddressMode(t *testing.T) {
	job, _ := assemble(t, "lea #5, r1\n")
	if !hasCode(t, job, parser.ErrInvalidAddressMode) {
		t.Fatalf("expected InvalidAddressMode, got:\n%v", job.Errors)
	}
	// the failed line must leave IC untouched
	if job.IC != 0 {
		t.Errorf("IC advanced on invalid line: %d", job.IC)
	}
}

func TestAssemble_DuplicateLabel(t *testing.T) {
	job, _ := assemble(t, "A: .data 1\nA: .data 2\n")
	if !hasCode(t, job, parser.ErrLabelAlreadyDeclared) {
		t.Fatalf("expected LabelAlreadyDeclared, got:\n%v", job.Errors)
	}
	// the record remains in the table and the later declaration wins
	sym, ok := job.Symbols.Find("A")
	if !ok {
		t.Fatal("symbol missing after redeclaration")
	}
	if sym.Address != 101 {
		t.Errorf("expected overwritten address 101, got %d", sym.Address)
	}
}

func TestAssemble_UndeclaredLabel(t *testing.T) {
	job, _ := assemble(t, "mov NOPE, r1\nstop\n")
	if !hasCode(t, job, parser.ErrLabelNotDeclared) {
		t.Fatalf("expected LabelNotDeclared, got:\n%v", job.Errors)
	}
}

func TestAssemble_UnexpectedToken(t *testing.T) {
	job, _ := assemble(t, "frobnicate r1\n")
	if !hasCode(t, job, parser.ErrUnexpectedToken) {
		t.Fatalf("expected UnexpectedToken, got:\n%v", job.Errors)
	}
}

func TestAssemble_InvalidData(t *testing.T) {
	job, _ := assemble(t, ".data 1, x, 3\n")
	if !hasCode(t, job, parser.ErrInvalidData) {
		t.Fatalf("expected InvalidData, got:\n%v", job.Errors)
	}
	// valid values around the bad one are still emitted
	if job.DC != 2 {
		t.Errorf("expected DC=2, got %d", job.DC)
	}
}

func TestAssemble_LabelOnEntryLineIgnored(t *testing.T) {
	job, _ := assemble(t, "L: .entry E\nE: .data 1\n")
	mustSucceed(t, job)
	if _, ok := job.Symbols.Find("L"); ok {
		t.Error("label before .entry must not be bound")
	}
}

func TestAssemble_EntryOnExternalLabel(t *testing.T) {
	job, _ := assemble(t, ".extern X\n.entry X\nmov X, r1\n")
	if !hasCode(t, job, parser.ErrLabelAlreadyDeclared) {
		t.Errorf("expected LabelAlreadyDeclared from .entry on external")
	}
	if !hasCode(t, job, parser.ErrEntryLabelExternal) {
		t.Errorf("expected EntryLabelExternal from the cross-check")
	}
}

func TestAssemble_ExternDeclaredLocally(t *testing.T) {
	files := []assembler.SourceFile{
		{Name: "a.as", Content: ".extern X\nmov X, r1\n"},
		{Name: "b.as", Content: "X: .data 3\n"},
	}
	job, _ := assembler.Assemble(files...)
	if !hasCode(t, job, parser.ErrLabelDeclaredAsExternal) {
		t.Fatalf("expected LabelDeclaredAsExternal, got:\n%v", job.Errors)
	}
}

func TestAssemble_CrossFileResolution(t *testing.T) {
	files := []assembler.SourceFile{
		{Name: "a.as", Content: "MAIN: mov DATA, r1\nstop\n"},
		{Name: "b.as", Content: "DATA: .data 42\n"},
	}
	job, uses := assembler.Assemble(files...)
	mustSucceed(t, job)

	if len(uses) != 0 {
		t.Errorf("no externals expected, got %v", uses)
	}

	// a.as: opcode + label word + register word + stop = 4 code words
	sym, _ := job.Symbols.Find("DATA")
	if sym.Address != 104 {
		t.Errorf("DATA address = %d", sym.Address)
	}
	if w := job.Code.Nodes[1].Word; w != encoder.Word(104<<3|2) {
		t.Errorf("patched label word = %05o", w)
	}
}

func TestAssemble_AddressRangeProperties(t *testing.T) {
	job, _ := assemble(t, "start: mov #3, r1\nprn r1\njmp *r2\nstop\nvals: .data 1,2,3\nmsg: .string \"ok\"\n")
	mustSucceed(t, job)

	for _, node := range job.Code.Nodes {
		if node.Word > 0x7FFF {
			t.Errorf("word %05o exceeds 15 bits", node.Word)
		}
		if node.Address < 100 || node.Address >= 100+job.IC {
			t.Errorf("code address %d out of [100, %d)", node.Address, 100+job.IC)
		}
	}
	for _, node := range job.Data.Nodes {
		if node.Word > 0x7FFF {
			t.Errorf("word %05o exceeds 15 bits", node.Word)
		}
		if node.Address < 100+job.IC || node.Address >= 100+job.IC+job.DC {
			t.Errorf("data address %d out of [%d, %d)", node.Address, 100+job.IC, 100+job.IC+job.DC)
		}
	}
}

func TestAssemble_AREBitsMatchSymbolKind(t *testing.T) {
	files := []assembler.SourceFile{
		{Name: "a.as", Content: ".extern EXT\nmov EXT, r1\nmov LOCAL, r2\nmov #7, r3\nstop\nLOCAL: .data 1\n"},
	}
	job, _ := assembler.Assemble(files...)
	mustSucceed(t, job)

	are := func(w encoder.Word) encoder.ARE { return encoder.ARE(w & 7) }

	if are(job.Code.Nodes[1].Word) != encoder.AREExternal {
		t.Errorf("external reference ARE = %d", job.Code.Nodes[1].Word&7)
	}
	if are(job.Code.Nodes[4].Word) != encoder.ARERelocatable {
		t.Errorf("internal reference ARE = %d", job.Code.Nodes[4].Word&7)
	}
	if are(job.Code.Nodes[7].Word) != encoder.AREAbsolute {
		t.Errorf("immediate ARE = %d", job.Code.Nodes[7].Word&7)
	}
}

func TestAssemble_NoOperandWithOperandFails(t *testing.T) {
	job, _ := assemble(t, "rts r1\n")
	if !hasCode(t, job, parser.ErrInvalidSourceOperand) {
		t.Fatalf("expected InvalidSourceOperand, got:\n%v", job.Errors)
	}
}

func TestAssemble_ImmediateWraps(t *testing.T) {
	// values beyond the 12-bit field wrap silently, no error
	job, _ := assemble(t, "prn #100000\n")
	mustSucceed(t, job)
	if job.Code.Nodes[1].Word > 0x7FFF {
		t.Errorf("wrapped immediate exceeds 15 bits: %05o", job.Code.Nodes[1].Word)
	}
}
