package bytecode

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// Load reads a bytecode artifact — a Go source file as produced by Emit —
// and reconstructs the Program it declares. It does this with go/parser,
// not `go build`: the artifact is data here, not a package to compile.
func Load(path string) (*Program, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("bytecode: parsing artifact: %w", err)
	}

	lit, err := findProgramLiteral(file)
	if err != nil {
		return nil, err
	}

	p := NewProgram()
	for _, elt := range lit.Elts {
		instr, err := decodeInstructionLiteral(elt)
		if err != nil {
			return nil, err
		}
		p.Instructions = append(p.Instructions, instr)
	}
	return p, nil
}

// findProgramLiteral locates the "var Program = []bytecode.Instruction{...}"
// declaration's composite literal.
func findProgramLiteral(file *ast.File) (*ast.CompositeLit, error) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if name.Name != "Program" || i >= len(vs.Values) {
					continue
				}
				if lit, ok := vs.Values[i].(*ast.CompositeLit); ok {
					return lit, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("bytecode: artifact declares no Program composite literal")
}

// decodeInstructionLiteral turns a single `{Op: bytecode.OpXXX, Operands:
// [1]uint16{n}}` element into an Instruction.
func decodeInstructionLiteral(elt ast.Expr) (Instruction, error) {
	lit, ok := elt.(*ast.CompositeLit)
	if !ok {
		return Instruction{}, fmt.Errorf("bytecode: artifact element is not a struct literal")
	}

	var instr Instruction
	var sawOp bool

	for _, field := range lit.Elts {
		kv, ok := field.(*ast.KeyValueExpr)
		if !ok {
			return Instruction{}, fmt.Errorf("bytecode: artifact element uses positional, not keyed, fields")
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch key.Name {
		case "Op":
			sel, ok := kv.Value.(*ast.SelectorExpr)
			if !ok {
				return Instruction{}, fmt.Errorf("bytecode: Op field is not a qualified identifier")
			}
			op, ok := OpcodeByName(trimOpPrefix(sel.Sel.Name))
			if !ok {
				return Instruction{}, fmt.Errorf("bytecode: unknown opcode name %q in artifact", sel.Sel.Name)
			}
			instr.Op = op
			sawOp = true
		case "Operands":
			operand, err := decodeOperandsLiteral(kv.Value)
			if err != nil {
				return Instruction{}, err
			}
			instr.Operands[0] = operand
		}
	}

	if !sawOp {
		return Instruction{}, fmt.Errorf("bytecode: artifact element has no Op field")
	}
	return instr, nil
}

// decodeOperandsLiteral reads the single element of a `[1]uint16{n}` array
// literal.
func decodeOperandsLiteral(expr ast.Expr) (uint16, error) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok || len(lit.Elts) == 0 {
		return 0, fmt.Errorf("bytecode: Operands field is not a one-element array literal")
	}
	basic, ok := lit.Elts[0].(*ast.BasicLit)
	if !ok || basic.Kind != token.INT {
		return 0, fmt.Errorf("bytecode: Operands element is not an integer literal")
	}
	n, err := strconv.ParseUint(basic.Value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bytecode: parsing operand literal: %w", err)
	}
	return uint16(n), nil
}

// trimOpPrefix strips the "Op" prefix jennifer's Qual emits as
// "bytecode.OpMOV" so the identifier matches the names in opcodeInfoTable.
func trimOpPrefix(name string) string {
	const prefix = "Op"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
