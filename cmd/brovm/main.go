// Command brovm loads a bytecode artifact and executes it.
package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/brolang/broc/bytecode"
	"github.com/brolang/broc/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	commonlog.NewInfoMessage(0, "brovm starting")

	root := &cobra.Command{
		Use:           "brovm <artifact>",
		Short:         "Run a BroLang bytecode artifact",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	program, err := bytecode.Load(args[0])
	if err != nil {
		commonlog.NewErrorMessage(0, err.Error())
		fmt.Fprintf(os.Stderr, "VM Error: %s\n", err)
		os.Exit(1)
	}

	vm := bytecode.NewVM()
	vm.Load(program.Encode())
	vm.Trace = cfg.VM.Trace
	if vm.Trace {
		vm.TraceWriter = func(line string) { fmt.Fprintln(os.Stderr, line) }
	}

	fmt.Println("Starting VM Execution...")

	runErr := vm.Run()
	for _, line := range vm.Output {
		fmt.Println(line)
	}

	if runErr != nil {
		commonlog.NewErrorMessage(0, runErr.Error())
		fmt.Fprintln(os.Stderr, runErr.Error())
		os.Exit(1)
	}

	fmt.Println("Program Halted.")
	fmt.Println(vm.Dump())
	fmt.Println(vm.HexTail())
	return nil
}
