package compiler

import (
	"fmt"

	"github.com/brolang/broc/bytecode"
)

// ---------------------------------------------------------------------------
// Codegen: lowers a Program AST to a bytecode.Program
// ---------------------------------------------------------------------------

// labelPlaceholder records a jump instruction emitted before its target
// position was known, awaiting patchJumps.
type labelPlaceholder struct {
	InstrIndex int
	LabelID    int
}

// Compiler holds the transient state of a single Compile call. Per Design
// Note 4 (spec.md §9), a fresh Compiler is constructed per compilation —
// nothing here is process-wide state.
type Compiler struct {
	program *bytecode.Program

	symbolTable map[string]uint16 // variable name -> virtual register index
	nextReg     uint16            // starts at 1; 0 (AX) is never a Let target

	labelTargets      map[int]int // label id -> instruction index
	labelPlaceholders []labelPlaceholder
	labelCounter      int

	diagnostics []Diagnostic
}

// NewCompiler returns a Compiler ready to compile one Program.
func NewCompiler() *Compiler {
	return &Compiler{
		program:      bytecode.NewProgram(),
		symbolTable:  make(map[string]uint16),
		nextReg:      1,
		labelTargets: make(map[int]int),
	}
}

// Diagnostics returns every diagnostic recorded during Compile.
func (c *Compiler) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Compiler) errorf(pos Position, format string, args ...interface{}) {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: Warning,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Compile lowers prog to a bytecode.Program terminated by exactly one HLT
// (Invariant 3, spec.md §8). It is a pure function of prog: same AST, same
// byte-identical output (Invariant 5) — nothing here depends on wall-clock
// time, randomness, or prior calls.
func (c *Compiler) Compile(prog *Program) *bytecode.Program {
	c.compileStatements(prog.Statements)
	c.program.Emit(bytecode.OpHLT)
	c.patchJumps()
	return c.program
}

func (c *Compiler) compileStatements(stmts []Stmt) {
	for _, stmt := range stmts {
		c.compileStmt(stmt)
	}
}

func (c *Compiler) compileStmt(stmt Stmt) {
	switch n := stmt.(type) {
	case *Let:
		c.compileExpr(n.Value)
		c.program.EmitWithOperand(bytecode.OpPUSH, bytecode.RegAX)
		reg := c.registerFor(n.Name, n.SpanVal.Start)
		c.program.EmitWithOperand(bytecode.OpPOP, reg)

	case *Print:
		c.compileExpr(n.Value)
		c.program.Emit(bytecode.OpPRN)

	case *If:
		c.compileExpr(n.Cond)
		c.emitNormalizeCondition()

		elseLabel := c.newLabel()
		endLabel := c.newLabel()

		jz := c.program.EmitJump(bytecode.OpJZ)
		c.recordPlaceholder(jz, elseLabel)

		c.compileStatements(n.Then)

		jmp := c.program.EmitJump(bytecode.OpJMP)
		c.recordPlaceholder(jmp, endLabel)

		c.markLabel(elseLabel)
		c.compileStatements(n.Else)

		c.markLabel(endLabel)

	case *While:
		condLabel := c.newLabel()
		endLabel := c.newLabel()

		c.markLabel(condLabel)
		c.compileExpr(n.Cond)
		c.emitNormalizeCondition()

		jz := c.program.EmitJump(bytecode.OpJZ)
		c.recordPlaceholder(jz, endLabel)

		c.compileStatements(n.Body)

		jmp := c.program.EmitJump(bytecode.OpJMP)
		c.recordPlaceholder(jmp, condLabel)

		c.markLabel(endLabel)

	default:
		c.errorf(stmt.Span().Start, "codegen: unhandled statement %T", stmt)
	}
}

// emitNormalizeCondition emits the fixed prelude spec.md §4.2 requires after
// evaluating an If/While condition into AX: `PUSH 0; POP 1; MOV 0; SUB;
// STE; CLE`. It is preserved exactly, quirks included — this is what makes
// S3 (numeric-difference "equality") and S4 (the always-true-nonzero while
// condition) come out the way spec.md's scenarios document.
func (c *Compiler) emitNormalizeCondition() {
	c.program.EmitWithOperand(bytecode.OpPUSH, bytecode.RegAX)
	c.program.EmitWithOperand(bytecode.OpPOP, bytecode.RegBX)
	c.program.EmitWithOperand(bytecode.OpMOV, 0)
	c.program.Emit(bytecode.OpSUB)
	c.program.Emit(bytecode.OpSTE)
	c.program.Emit(bytecode.OpCLE)
}

func (c *Compiler) compileExpr(expr Expr) {
	switch n := expr.(type) {
	case *Number:
		c.program.EmitWithOperand(bytecode.OpMOV, uint16(uint32(n.Value)))

	case *Variable:
		reg, ok := c.symbolTable[n.Name]
		if !ok {
			c.errorf(n.SpanVal.Start, "unbound variable: %s", n.Name)
			c.program.EmitWithOperand(bytecode.OpMOV, 0)
			return
		}
		c.program.EmitWithOperand(bytecode.OpPUSH, reg)
		c.program.EmitWithOperand(bytecode.OpPOP, bytecode.RegAX)

	case *Binary:
		c.compileExpr(n.Left)
		c.program.EmitWithOperand(bytecode.OpPUSH, bytecode.RegAX)
		c.compileExpr(n.Right)
		c.program.EmitWithOperand(bytecode.OpPUSH, bytecode.RegAX)
		c.program.EmitWithOperand(bytecode.OpPOP, bytecode.RegBX) // R
		c.program.EmitWithOperand(bytecode.OpPOP, bytecode.RegAX) // L

		switch n.Op {
		case OpAdd:
			c.program.Emit(bytecode.OpADD)
		case OpSub:
			c.program.Emit(bytecode.OpSUB)
		case OpMul:
			c.program.Emit(bytecode.OpMUL)
		case OpDiv:
			c.program.Emit(bytecode.OpDIV)
		case OpEqual:
			c.program.Emit(bytecode.OpSUB)
			c.program.Emit(bytecode.OpSTE)
		case OpGreater:
			c.program.Emit(bytecode.OpSUB)
			c.program.Emit(bytecode.OpSTG)
		case OpLess:
			c.program.Emit(bytecode.OpSUB)
			c.program.Emit(bytecode.OpSTL)
		default:
			c.errorf(n.SpanVal.Start, "codegen: unhandled binary operator %s", n.Op)
		}

	default:
		c.errorf(expr.Span().Start, "codegen: unhandled expression %T", expr)
	}
}

// registerFor returns the virtual register index for name, allocating a
// fresh one via nextReg++ on first use. Only indices 0..3 are valid at
// runtime; a program with more than three distinct names should already
// have been rejected by SemanticAnalyzer before Compile is called, but
// codegen still records a diagnostic rather than panicking if it happens
// anyway, in keeping with spec.md §7's permissive propagation policy.
func (c *Compiler) registerFor(name string, pos Position) uint16 {
	if reg, ok := c.symbolTable[name]; ok {
		return reg
	}
	reg := c.nextReg
	c.nextReg++
	c.symbolTable[name] = reg
	if reg > 3 {
		c.errorf(pos, "too many variables: BroLang supports at most 3")
	}
	return reg
}

func (c *Compiler) newLabel() int {
	id := c.labelCounter
	c.labelCounter++
	return id
}

// markLabel records that labelID refers to the instruction about to be
// emitted next.
func (c *Compiler) markLabel(labelID int) {
	c.labelTargets[labelID] = len(c.program.Instructions)
}

func (c *Compiler) recordPlaceholder(instrIndex, labelID int) {
	c.labelPlaceholders = append(c.labelPlaceholders, labelPlaceholder{InstrIndex: instrIndex, LabelID: labelID})
}

// patchJumps resolves every recorded placeholder to an absolute byte
// offset. This is the fix for spec.md §9 Pattern 3: labelTargets maps a
// label to an *instruction index*, but PatchJump needs a *byte offset* —
// ByteOffsets() converts by summing preceding instruction widths, the
// "recommended" resolution of the open question rather than the original's
// index/offset-scale defect.
func (c *Compiler) patchJumps() {
	offsets := c.program.ByteOffsets()
	for _, ph := range c.labelPlaceholders {
		instrIdx, ok := c.labelTargets[ph.LabelID]
		if !ok || instrIdx >= len(offsets) {
			c.errorf(Position{}, "codegen: unknown label id %d", ph.LabelID)
			continue
		}
		c.program.PatchJump(ph.InstrIndex, offsets[instrIdx])
	}
}
