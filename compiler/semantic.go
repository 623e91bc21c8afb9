package compiler

// ---------------------------------------------------------------------------
// SemanticAnalyzer: static checks that run before codegen
// ---------------------------------------------------------------------------

// maxNamedVariables is the number of distinct Let-bound names BroLang can
// support: only virtual register indices 0..3 map to real VM registers, and
// index 0 (AX) is never a Let target (Let always ends in `PUSH 0; POP reg`
// with reg >= 1), leaving three usable slots (1, 2, 3). This is the resolved
// form of the register-spill open question in spec.md §9 Pattern 2: rather
// than let a fourth binding fail at runtime with an opaque "Invalid
// PUSH/POP register" error, the analyzer catches it here, statically, where
// it is always knowable.
const maxNamedVariables = 3

// SemanticAnalyzer walks a Program looking for conditions codegen cannot
// recover from, before any bytecode is emitted.
type SemanticAnalyzer struct {
	diagnostics []Diagnostic
}

// NewSemanticAnalyzer returns an analyzer ready to run.
func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{}
}

// Analyze walks prog and returns every diagnostic found. An empty slice
// means codegen may proceed; callers should still check each Diagnostic's
// Severity, since a Diagnostic slice with only Warnings is not fatal.
func (s *SemanticAnalyzer) Analyze(prog *Program) []Diagnostic {
	seen := make(map[string]bool)
	var order []string

	var walkStmts func(stmts []Stmt)
	walkStmts = func(stmts []Stmt) {
		for _, stmt := range stmts {
			switch n := stmt.(type) {
			case *Let:
				if !seen[n.Name] {
					seen[n.Name] = true
					order = append(order, n.Name)
					if len(order) > maxNamedVariables {
						s.diagnostics = append(s.diagnostics, Diagnostic{
							Severity: Error,
							Pos:      n.SpanVal.Start,
							Message:  "too many variables: BroLang supports at most 3",
						})
					}
				}
			case *If:
				walkStmts(n.Then)
				walkStmts(n.Else)
			case *While:
				walkStmts(n.Body)
			}
		}
	}
	walkStmts(prog.Statements)

	return s.diagnostics
}

// HasErrors reports whether any collected diagnostic is Error-severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
