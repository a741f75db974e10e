package main

import (
	"fmt"
	"os"

	"github.com/co-tools/billing-atlas/pkg/runtime/terminal"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: dataset.NewRegistry(),
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
