// Package bytecode defines BroLang's closed opcode enumeration, the
// Instruction/Program in-memory representation, the flat little-endian
// encoding shared between the compiler and the VM, and the VM itself.
//
// # Architecture
//
//   - Opcodes: a closed, fixed-width instruction set (opcodes.go) — every
//     opcode is either 1 byte (no operands) or 3 bytes (one 16-bit
//     little-endian immediate).
//
//   - Instruction/Program: the in-memory instruction list the compiler
//     builds (instruction.go), plus Encode/Decode to move between that list
//     and the flat byte image the VM actually runs.
//
//   - VM: a register/stack-hybrid interpreter (vm.go) over 64 KiB of
//     byte-addressed memory shared by code and stack.
//
//   - Emit/Load: the bridge between a Program and a Go source artifact
//     (emit.go, load.go) — the artifact is real, syntactically valid Go
//     declaring the instruction list as a composite literal, read back by
//     the VM loader via go/parser rather than compiled.
//
// # Stack discipline
//
// PUSH/POP move 16-bit register values between the general-purpose
// registers and memory addressed by SP, which starts at 0xFFFF and grows
// downward. Code is loaded from address 0 upward. Nothing prevents the two
// regions from colliding; that is the caller's responsibility, not the VM's.
package bytecode
