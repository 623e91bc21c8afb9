package bytecode

import (
	"fmt"
	"strings"
)

// DefaultColumnWidth is the mnemonic column width Disassemble uses when no
// *config.Config is available to supply one (e.g. in tests).
const DefaultColumnWidth = 8

// Disassemble returns a human-readable mnemonic listing of p, one line per
// instruction, formatted as "<offset>  <mnemonic> [operand]", using
// DefaultColumnWidth for the mnemonic column.
func (p *Program) Disassemble() string {
	return p.DisassembleWithWidth(DefaultColumnWidth)
}

// DisassembleWithWidth is Disassemble with the mnemonic column padded to
// columnWidth instead of DefaultColumnWidth — the knob cmd/brodis feeds from
// broc.toml's disassembly.column-width setting.
func (p *Program) DisassembleWithWidth(columnWidth int) string {
	var sb strings.Builder
	offsets := p.ByteOffsets()
	for i, instr := range p.Instructions {
		sb.WriteString(disassembleInstruction(offsets[i], instr, columnWidth))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DisassembleImage disassembles a flat byte image directly, without the
// caller building a Program first. cmd/brodis does not use it: brodis only
// reads Go source artifacts.
func DisassembleImage(image []byte) (string, error) {
	p, err := Decode(image)
	if err != nil {
		return "", err
	}
	return p.Disassemble(), nil
}

func disassembleInstruction(offset uint16, instr Instruction, columnWidth int) string {
	info := GetOpcodeInfo(instr.Op)
	if info.Arity == 0 {
		return fmt.Sprintf("%04X  %s", offset, info.Name)
	}
	mnemonicVerb := fmt.Sprintf("%%04X  %%-%ds %%d", columnWidth)
	return fmt.Sprintf(mnemonicVerb, offset, info.Name, instr.Operands[0])
}
