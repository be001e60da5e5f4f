package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/google/subcommands"

	"nilan/ast"
	"nilan/compiler"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
	"nilan/reporter"
	"nilan/value"
)

// emitCmd implements the `emit` subcommand: compile a source file and
// disassemble its bytecode to stdout without running it. With -ast, it
// prints the parsed program as JSON instead.
type emitCmd struct {
	ast bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "Disassemble a source file's compiled bytecode" }
func (*emitCmd) Usage() string {
	return `emit <file>:
  Compile a Nilan source file and print its disassembled bytecode.
`
}
func (c *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.ast, "ast", false, "print the parsed AST as JSON instead of disassembling bytecode")
}

func (c *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "emit: file not provided")
		return subcommands.ExitUsageError
	}

	source, err := readSourceFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rep := reporter.New(os.Stderr, source)
	tokens := lexer.Scan(source)
	statements, err := parser.Parse(tokens)
	if err != nil {
		if me, ok := err.(*multierror.Error); ok {
			rep.Parse(me.Errors)
		} else {
			rep.Parse([]error{err})
		}
		return subcommands.ExitFailure
	}

	if c.ast {
		out, err := ast.PrintJSON(statements)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Println(out)
		return subcommands.ExitSuccess
	}

	fn, err := compiler.Compile(args[0], statements)
	if err != nil {
		rep.Compile(err)
		return subcommands.ExitFailure
	}
	disassembleRecursive(os.Stdout, fn)
	return subcommands.ExitSuccess
}

// disassembleRecursive dumps fn's own Executable and then, like clox's
// disassembler, walks its constant pool for any nested *object.Function
// (every `fun` declaration and method body ends up there) and dumps those
// too, so `emit` shows the whole call graph, not just the top-level script.
func disassembleRecursive(out *os.File, fn *object.Function) {
	fn.Body.Disassemble(out)
	for _, c := range fn.Body.Constants {
		if nested, ok := value.Is[*object.Function](c); ok {
			disassembleRecursive(out, nested)
		}
	}
}
