// Command broc compiles a BroLang source file to a bytecode artifact.
package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/brolang/broc/bytecode"
	"github.com/brolang/broc/compiler"
	"github.com/brolang/broc/internal/config"
	"github.com/spf13/cobra"
)

const usage = "Usage: broc <input> -o <output>"

func main() {
	commonlog.NewInfoMessage(0, "broc starting")

	root := &cobra.Command{
		Use:                "broc",
		Short:              "Compile a BroLang source file to a bytecode artifact",
		DisableFlagParsing: true, // the "-o" contract is positional, not a registered flag
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               run,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) != 3 || args[1] != "-o" {
		fmt.Println(usage)
		os.Exit(1)
	}
	input, output := args[0], args[2]

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	src, err := os.ReadFile(input)
	if err != nil {
		commonlog.NewErrorMessage(0, "failed to open input file: "+input)
		fmt.Fprintf(os.Stderr, "Failed to open input file: %s\n", input)
		os.Exit(1)
	}

	p := compiler.NewParser(string(src))
	prog := p.ParseProgram()
	for _, e := range p.Errors() {
		commonlog.NewErrorMessage(0, e)
		fmt.Fprintf(os.Stderr, "Parse error: %s\n", e)
	}

	diags := compiler.NewSemanticAnalyzer().Analyze(prog)
	c := compiler.NewCompiler()
	program := c.Compile(prog)
	diags = append(diags, c.Diagnostics()...)

	printed := 0
	for _, d := range diags {
		if printed >= cfg.Diagnostics.MaxPrinted {
			commonlog.NewWarningMessage(0, "remaining diagnostics truncated")
			fmt.Fprintf(os.Stderr, "Compiler error: (remaining diagnostics truncated)\n")
			break
		}
		commonlog.NewErrorMessage(0, d.String())
		fmt.Fprintf(os.Stderr, "Compiler error: %s\n", d)
		printed++
	}

	if compiler.HasErrors(diags) {
		os.Exit(1)
	}

	artifact, err := bytecode.Emit(program)
	if err != nil {
		commonlog.NewErrorMessage(0, "emitter failed: "+err.Error())
		fmt.Fprintf(os.Stderr, "Compiler error: emitter failed: %s\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, artifact, 0o644); err != nil {
		commonlog.NewErrorMessage(0, err.Error())
		fmt.Fprintf(os.Stderr, "Compiler error: %s\n", err)
		os.Exit(1)
	}

	return nil
}
