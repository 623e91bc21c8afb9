package compiler

import (
	"testing"

	"github.com/brolang/broc/bytecode"
)

// FuzzLexer asserts the lexer never panics and always terminates with an
// EOF token, for any input — unknown characters must become TokenInvalid,
// never an abort.
func FuzzLexer(f *testing.F) {
	f.Add("letbro a = 1;")
	f.Add("ifbro (a > 3) { printbro(a); }")
	f.Add("")
	f.Add("@@@ $$$ ###")
	f.Add("letbro")

	f.Fuzz(func(t *testing.T, src string) {
		toks := Tokenize(src)
		if len(toks) == 0 || toks[len(toks)-1].Type != TokenEOF {
			t.Fatalf("Tokenize(%q) did not terminate with EOF", src)
		}
	})
}

// FuzzParser asserts the parser never panics on arbitrary token streams,
// whatever diagnostics it records along the way.
func FuzzParser(f *testing.F) {
	f.Add("letbro a = 1; printbro(a);")
	f.Add("ifbro (a == 5) { printbro(1); } elsebro { printbro(2); }")
	f.Add("whilebro (n) { printbro(n); }")
	f.Add("letbro a = ;")
	f.Add("printbro(")

	f.Fuzz(func(t *testing.T, src string) {
		p := NewParser(src)
		_ = p.ParseProgram()
	})
}

// FuzzCodegen asserts that whatever AST the parser produces for arbitrary
// input, parse errors included, compiles to a non-empty Program whose last
// instruction is HLT, whatever diagnostics accompany it.
func FuzzCodegen(f *testing.F) {
	f.Add("letbro a = 1; letbro b = 2; letbro c = 3; printbro(a + b * c);")
	f.Add("whilebro (1) { printbro(1); }")

	f.Fuzz(func(t *testing.T, src string) {
		p := NewParser(src)
		prog := p.ParseProgram()

		bp := NewCompiler().Compile(prog)
		if len(bp.Instructions) == 0 {
			t.Fatalf("Compile produced an empty program for %q", src)
		}
		last := bp.Instructions[len(bp.Instructions)-1]
		if last.Op != bytecode.OpHLT {
			t.Fatalf("Compile(%q) did not end with HLT", src)
		}
	})
}
