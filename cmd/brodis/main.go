// Command brodis disassembles a bytecode artifact to a mnemonic listing.
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
	commonlog.NewInfoMessage(0, "brodis starting")

	root := &cobra.Command{
		Use:           "brodis <artifact>",
		Short:         "Disassemble a BroLang bytecode artifact",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	if err := root.Execute(); err != nil {
		commonlog.NewErrorMessage(0, err.Error())
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
		return err
	}
	fmt.Print(program.DisassembleWithWidth(cfg.Disassembly.ColumnWidth))
	return nil
}
