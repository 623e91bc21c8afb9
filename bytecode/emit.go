package bytecode

import (
	"bytes"

	"github.com/dave/jennifer/jen"
)

// ArtifactPackage is the package clause every emitted artifact carries.
// cmd/broc writes exactly one artifact per invocation; the package name is
// fixed rather than derived from the input filename so the loader never has
// to discover it.
const ArtifactPackage = "artifact"

// bytecodePackage is the import path the emitted artifact's "Program" var
// refers to. It must match this module's own bytecode package so a reader
// who copies the artifact into a real build gets a compiling program, per
// the round-trip design described in doc.go.
const bytecodePackage = "github.com/brolang/broc/bytecode"

// Emit renders p as a Go source file declaring a package-level
// "Program []bytecode.Instruction" literal — the "bytecode artifact" of
// spec.md §6. The file is ordinary, syntactically valid Go: it compiles if
// dropped into a build alongside this module, and bytecode.Load (via
// go/parser) can also read it back directly without invoking the Go
// toolchain.
func Emit(p *Program) ([]byte, error) {
	f := jen.NewFile(ArtifactPackage)
	f.HeaderComment("Code generated by broc. DO NOT EDIT.")

	elements := make([]jen.Code, 0, len(p.Instructions))
	for _, instr := range p.Instructions {
		info := GetOpcodeInfo(instr.Op)
		fields := jen.Dict{
			jen.Id("Op"): jen.Qual(bytecodePackage, "Op"+info.Name),
		}
		if info.Arity > 0 {
			fields[jen.Id("Operands")] = jen.Index(jen.Lit(1)).Uint16().Values(jen.Lit(int(instr.Operands[0])))
		}
		elements = append(elements, jen.Values(fields))
	}

	f.Var().Id("Program").Op("=").Index().Qual(bytecodePackage, "Instruction").Values(elements...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
