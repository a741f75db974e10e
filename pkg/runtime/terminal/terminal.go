package terminal

import (
	"io"
	"os"

	terminalexport "github.com/co-tools/billing-atlas/pkg/export/terminal"
	"github.com/co-tools/billing-atlas/pkg/runtime/terminal/commands"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry *dataset.Registry
	reporter *terminalexport.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry *dataset.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Registry == nil {
		opts.Registry = dataset.NewRegistry()
	}

	cli := &CLI{
		registry: opts.Registry,
		reporter: terminalexport.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Billing workbook reporting tool",
	}

	cmd.AddCommand(commands.NewReportCmd(cli.registry, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.registry))

	return cmd
}
