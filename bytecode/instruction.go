package bytecode

import "fmt"

// Instruction is one decoded unit of the program: an opcode plus its 16-bit
// immediate operands, in source order. Operands beyond an opcode's declared
// Arity are unused and always zero.
type Instruction struct {
	Op       Opcode
	Operands [1]uint16
}

// Program is the flat, ordered instruction list produced by the compiler and
// consumed by the VM. Unlike the teacher's Chunk, a Program carries no
// constant pool and no local-variable count — BroLang has neither; register
// allocation is entirely static (see compiler/codegen.go).
type Program struct {
	Instructions []Instruction
}

// NewProgram returns an empty program ready for Emit calls.
func NewProgram() *Program {
	return &Program{}
}

// Emit appends a zero-operand instruction and returns its index.
func (p *Program) Emit(op Opcode) int {
	p.Instructions = append(p.Instructions, Instruction{Op: op})
	return len(p.Instructions) - 1
}

// EmitWithOperand appends a one-operand instruction and returns its index.
func (p *Program) EmitWithOperand(op Opcode, operand uint16) int {
	p.Instructions = append(p.Instructions, Instruction{Op: op, Operands: [1]uint16{operand}})
	return len(p.Instructions) - 1
}

// EmitJump appends a jump instruction with a placeholder operand and returns
// its index, so a later PatchJump call can fill in the real target once it
// is known.
func (p *Program) EmitJump(op Opcode) int {
	return p.EmitWithOperand(op, 0xFFFF)
}

// PatchJump sets the operand of the jump instruction at idx to target, an
// absolute byte offset into the encoded program image. Unlike the teacher's
// PatchJump — which patches a relative delta from the jump site — BroLang's
// JMP/JZ/JNZ operands are absolute IP values per spec.md §4.1, so this simply
// overwrites the operand with target.
func (p *Program) PatchJump(idx int, target uint16) {
	p.Instructions[idx].Operands[0] = target
}

// ByteOffsets returns, for each instruction index, the byte offset that
// instruction will occupy once Encode lays the program out. This is how
// patchJumps (compiler/codegen.go) resolves label-as-instruction-index into
// label-as-byte-offset — the fix for the label-scale defect described in
// spec.md's Open Questions (Pattern 3).
func (p *Program) ByteOffsets() []uint16 {
	offsets := make([]uint16, len(p.Instructions))
	var cursor uint16
	for i, instr := range p.Instructions {
		offsets[i] = cursor
		cursor += uint16(instr.Op.Width())
	}
	return offsets
}

// Encode serializes the program into the flat little-endian byte image
// described in spec.md §4.1: one opcode byte followed by Arity 16-bit
// little-endian immediates, back to back, with no header and no padding.
func (p *Program) Encode() []byte {
	var size int
	for _, instr := range p.Instructions {
		size += instr.Op.Width()
	}
	out := make([]byte, size)
	var cursor int
	for _, instr := range p.Instructions {
		out[cursor] = byte(instr.Op)
		cursor++
		for i := 0; i < instr.Op.Arity(); i++ {
			out[cursor] = byte(instr.Operands[i])
			out[cursor+1] = byte(instr.Operands[i] >> 8)
			cursor += 2
		}
	}
	return out
}

// Decode parses a flat byte image back into a Program. It is the inverse of
// Encode and is used by the disassembler and by tests that want to assert
// round-trip fidelity (Invariant 2 in spec.md §8). It does not reject
// undefined opcode bytes — those decode to a zero-arity Instruction whose
// Op.IsDefined() is false, and it is the VM's dispatch loop, not decoding,
// that raises IllegalInstruction.
func Decode(image []byte) (*Program, error) {
	p := NewProgram()
	var cursor int
	for cursor < len(image) {
		op := Opcode(image[cursor])
		cursor++
		arity := op.Arity()
		instr := Instruction{Op: op}
		for i := 0; i < arity; i++ {
			if cursor+2 > len(image) {
				return nil, fmt.Errorf("bytecode: truncated operand for %s at offset %d", op, cursor-1)
			}
			instr.Operands[i] = uint16(image[cursor]) | uint16(image[cursor+1])<<8
			cursor += 2
		}
		p.Instructions = append(p.Instructions, instr)
	}
	return p, nil
}
