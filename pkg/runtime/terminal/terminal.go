package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// Loader builds the report stack from the config file given on the command line.
type Loader func(ctx context.Context, configPath string) (commands.Stack, error)

// CLI represents the command-line interface
type CLI struct {
	load       Loader
	reporter   *export.Reporter
	rootCmd    *cobra.Command
	configPath string
}

// Options contain configuration for the CLI
type Options struct {
	Load   Loader
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		load:     opts.Load,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) open(ctx context.Context) (commands.Stack, error) {
	return cli.load(ctx, cli.configPath)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "farm-atlas",
		Short:         "Farm report dispatcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML settings file")

	cmd.AddCommand(commands.NewRouteCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewQueryCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewModulesCmd(cli.open, cli.reporter))

	return cmd
}
