package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestInitialState covers Invariant 6: initial register state before
// execution begins.
func TestInitialState(t *testing.T) {
	vm := NewVM()
	require.Equal(t, uint16(0), vm.AX)
	require.Equal(t, uint16(0), vm.BX)
	require.Equal(t, uint16(0), vm.CX)
	require.Equal(t, uint16(0), vm.DX)
	require.Equal(t, uint16(0), vm.Flags)
	require.Equal(t, uint16(0xFFFF), vm.SP)
	require.Equal(t, uint16(0x0000), vm.IP)
}

func buildAndRun(t *testing.T, p *Program) *VM {
	t.Helper()
	vm := NewVM()
	vm.Load(p.Encode())
	err := vm.Run()
	require.NoError(t, err)
	return vm
}

// TestS1ConstantPrint covers scenario S1.
func TestS1ConstantPrint(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpMOV, 42)
	p.Emit(OpPRN)
	p.Emit(OpHLT)

	vm := buildAndRun(t, p)
	require.Equal(t, []string{"Output: 42", "HUMAN OUTPUT: 42"}, vm.Output)
}

// TestS2Arithmetic covers scenario S2: 3 + 4*2 == 11, with * binding tighter
// than +. The hand-written sequence evaluates b*2 first, saves it on the
// stack and pops it into BX for the ADD; it is shorter than what codegen
// emits for Binary(Add, a, Binary(Mul, b, 2)).
func TestS2Arithmetic(t *testing.T) {
	p := NewProgram()
	// b * 2 -> AX=4, BX=2, MUL -> AX=8
	p.EmitWithOperand(OpMOV, 4)
	p.EmitWithOperand(OpMOV_BX, 2)
	p.Emit(OpMUL)
	// save 8, then evaluate a=3, combine: AX=3, BX=8 (the mul result), ADD
	p.EmitWithOperand(OpPUSH, RegAX) // save mul result
	p.EmitWithOperand(OpMOV, 3)
	p.EmitWithOperand(OpPOP, RegBX) // BX <- mul result
	p.Emit(OpADD)
	p.Emit(OpPRN)
	p.Emit(OpHLT)

	vm := buildAndRun(t, p)
	require.Equal(t, []string{"Output: 11", "HUMAN OUTPUT: 11"}, vm.Output)
}

// TestS6DivisionByZero covers scenario S6.
func TestS6DivisionByZero(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpMOV, 10)
	p.EmitWithOperand(OpMOV_BX, 0)
	p.Emit(OpDIV)
	p.Emit(OpHLT)

	vm := NewVM()
	vm.Load(p.Encode())
	err := vm.Run()
	require.Error(t, err)
	vmErr, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, DivisionByZero, vmErr.Kind)
	require.Equal(t, "VM Error: Division by zero", err.Error())
}

// TestS5StackOverflow covers scenario S5: enough PUSHes without matching
// POPs to drive SP below 2.
func TestS5StackOverflow(t *testing.T) {
	p := NewProgram()
	for i := 0; i < 32769; i++ {
		p.EmitWithOperand(OpPUSH, RegAX)
	}
	p.Emit(OpHLT)

	vm := NewVM()
	vm.Load(p.Encode())
	err := vm.Run()
	require.Error(t, err)
	vmErr, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, StackOverflow, vmErr.Kind)
}

func TestStackUnderflow(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpPOP, RegAX)
	p.Emit(OpHLT)

	vm := NewVM()
	vm.Load(p.Encode())
	err := vm.Run()
	require.Error(t, err)
	vmErr, ok := err.(*VMError)
	require.True(t, ok)
	require.Equal(t, StackUnderflow, vmErr.Kind)
}

func TestInvalidPushRegister(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpPUSH, 9)
	p.Emit(OpHLT)

	vm := NewVM()
	vm.Load(p.Encode())
	err := vm.Run()
	require.Error(t, err)
	require.Equal(t, "VM Error: Invalid PUSH/POP register", err.Error())
}

func TestJZBranchesOnZero(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpMOV, 0)
	idx := p.EmitJump(OpJZ)
	p.EmitWithOperand(OpMOV, 99) // skipped
	p.Emit(OpPRN)
	skipHLT := p.Emit(OpHLT)
	p.EmitWithOperand(OpMOV, 7)
	p.Emit(OpPRN)
	p.Emit(OpHLT)

	offsets := p.ByteOffsets()
	p.PatchJump(idx, offsets[skipHLT+1])

	vm := buildAndRun(t, p)
	require.Equal(t, []string{"Output: 7", "HUMAN OUTPUT: 7"}, vm.Output)
}

func TestFlagsSetClearSingleBit(t *testing.T) {
	p := NewProgram()
	p.Emit(OpSTE)
	p.Emit(OpSTG)
	p.Emit(OpCLE)
	p.Emit(OpHLT)

	vm := buildAndRun(t, p)
	require.Equal(t, FlagGreater, vm.Flags)
}

func TestArithmeticWrapsModulo16Bit(t *testing.T) {
	p := NewProgram()
	p.EmitWithOperand(OpMOV, 0xFFFF)
	p.EmitWithOperand(OpMOV_BX, 2)
	p.Emit(OpADD)
	p.Emit(OpHLT)

	vm := buildAndRun(t, p)
	require.Equal(t, uint16(1), vm.AX)
}
