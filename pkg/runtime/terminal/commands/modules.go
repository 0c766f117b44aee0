package commands

import (
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ModulesCmd struct {
	format   string
	open     Opener
	reporter *export.Reporter
}

func NewModulesCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	mc := &ModulesCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List report modules in routing order",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.format, "format", export.FormatText, "Output format (text, markdown)")

	return cmd
}

func (mc *ModulesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stack, err := mc.open(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	modules := stack.Modules(ctx)
	if len(modules) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No report modules registered")
		return nil
	}

	return mc.reporter.HandleModules(modules, mc.format)
}
