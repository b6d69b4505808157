package disassembler

import (
	"strings"
	"testing"
)

func encodeR(funct, rs, rt, rd, shamt uint32) uint32 {
	return (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct
}

func encodeI(opcode, rs, rt uint32, imm uint16) uint32 {
	return (opcode << 26) | (rs << 21) | (rt << 16) | uint32(imm)
}

func encodeJ(opcode, target uint32) uint32 {
	return (opcode << 26) | (target & 0x03ffffff)
}

func TestDisassembleADDIU(t *testing.T) {
	line := Disassemble(0x1000, encodeI(0x09, 0, 8, 5))
	if !strings.Contains(line, "addiu $t0, $zero, 5") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleLUI(t *testing.T) {
	line := Disassemble(0x1000, encodeI(0x0f, 0, 8, 0x8001))
	if !strings.Contains(line, "lui $t0, 0x8001") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleLoadStore(t *testing.T) {
	line := Disassemble(0x1000, encodeI(0x23, 9, 8, 4))
	if !strings.Contains(line, "lw $t0, 4($t1)") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleBranch(t *testing.T) {
	line := Disassemble(0x1000, encodeI(0x04, 1, 2, 3))
	if !strings.Contains(line, "beq $at, $v0, 12") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleJump(t *testing.T) {
	line := Disassemble(0x1000, encodeJ(0x02, 0x1000))
	if !strings.Contains(line, "j 0x4000") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleSpecialShift(t *testing.T) {
	line := Disassemble(0x1000, encodeR(0x00, 0, 8, 9, 2))
	if !strings.Contains(line, "sll $t1, $t0, 2") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleJR(t *testing.T) {
	line := Disassemble(0x1000, encodeR(0x08, 31, 0, 0, 0))
	if !strings.Contains(line, "jr $ra") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleSyscall(t *testing.T) {
	line := Disassemble(0x1000, encodeR(0x0c, 0, 0, 0, 0))
	if !strings.Contains(line, "syscall") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleMFC0(t *testing.T) {
	word := (0x10 << 26) | (0 << 21) | (8 << 16) | (12 << 11)
	line := Disassemble(0x1000, uint32(word))
	if !strings.Contains(line, "mfc0 $t0, $12") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleRFE(t *testing.T) {
	word := (0x10 << 26) | (0x10 << 21) | 0x10
	line := Disassemble(0x1000, uint32(word))
	if !strings.Contains(line, "rfe") {
		t.Errorf("got %q", line)
	}
}

func TestDisassembleReserved(t *testing.T) {
	line := Disassemble(0x1000, 0xfc000000)
	if !strings.Contains(line, ".word") {
		t.Errorf("got %q", line)
	}
}
