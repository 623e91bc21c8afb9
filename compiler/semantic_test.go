package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSemanticAnalyzerAllowsThreeVariables(t *testing.T) {
	prog := NewParser(`letbro a = 1; letbro b = 2; letbro c = 3;`).ParseProgram()
	diags := NewSemanticAnalyzer().Analyze(prog)
	require.False(t, HasErrors(diags))
}

func TestSemanticAnalyzerRejectsFourthVariable(t *testing.T) {
	prog := NewParser(`letbro a = 1; letbro b = 2; letbro c = 3; letbro d = 4;`).ParseProgram()
	diags := NewSemanticAnalyzer().Analyze(prog)
	require.True(t, HasErrors(diags))
}

func TestSemanticAnalyzerCountsDistinctNamesNotRebindings(t *testing.T) {
	// Rebinding an existing name (S4's pattern) must not count as a new
	// variable.
	prog := NewParser(`letbro n = 3; letbro n = n + 1; letbro n = n + 1;`).ParseProgram()
	diags := NewSemanticAnalyzer().Analyze(prog)
	require.False(t, HasErrors(diags))
}

func TestSemanticAnalyzerWalksNestedBlocks(t *testing.T) {
	prog := NewParser(`
		letbro a = 1;
		ifbro (a) {
			letbro b = 2;
			letbro c = 3;
			letbro d = 4;
		} elsebro {
			printbro(a);
		}
	`).ParseProgram()
	diags := NewSemanticAnalyzer().Analyze(prog)
	require.True(t, HasErrors(diags))
}
