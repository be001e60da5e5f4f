package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/reporter"
	"nilan/vm"
)

// runCmd implements the `run` subcommand: compile and execute a source
// file to completion.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Compile and execute a Nilan source file.
`
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: file not provided")
		return subcommands.ExitUsageError
	}

	source, err := readSourceFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rep := reporter.New(os.Stderr, source)
	fn := compileSource(args[0], source, rep)
	if fn == nil {
		return subcommands.ExitFailure
	}

	machine := vm.New(os.Stdout)
	if err := machine.Run(fn); err != nil {
		rep.Runtime(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
