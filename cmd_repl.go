package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"nilan/lexer"
	"nilan/reporter"
	"nilan/token"
	"nilan/vm"
)

// replCmd implements the `repl` subcommand: a persistent VM that
// compiles and runs one top-level statement (or block) at a time,
// sharing globals across the whole session.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive Nilan session.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (c *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Nilan REPL. Type 'exit' to quit.")
	machine := vm.New(os.Stdout)
	var buffer strings.Builder

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if buffer.Len() == 0 {
				continue
			}
			buffer.Reset()
			rl.SetPrompt(">>> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			return subcommands.ExitSuccess
		}
		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		tokens := lexer.Scan(buffer.String())
		if !replInputReady(tokens) {
			rl.SetPrompt("... ")
			continue
		}
		rl.SetPrompt(">>> ")

		source := buffer.String()
		buffer.Reset()

		rep := reporter.New(os.Stderr, source)
		fn := compileSource("repl", source, rep)
		if fn == nil {
			continue
		}
		if err := machine.Run(fn); err != nil {
			rep.Runtime(err)
		}
	}
}

// replInputReady reports whether tokens form a complete statement: every
// brace is closed and the input doesn't end mid-expression. This mirrors
// the teacher's interactive continuation heuristic, adapted to this
// module's token.Kind set.
func replInputReady(tokens []token.Token) bool {
	braceBalance := 0
	parenBalance := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LeftBrace:
			braceBalance++
		case token.RightBrace:
			braceBalance--
		case token.LeftParen:
			parenBalance++
		case token.RightParen:
			parenBalance--
		}
	}
	if braceBalance > 0 || parenBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}
	switch last.Kind {
	case token.Equal, token.Plus, token.Minus, token.Star, token.Slash, token.Bang,
		token.EqualEqual, token.BangEqual, token.Less, token.LessEqual,
		token.Greater, token.GreaterEqual, token.Comma, token.LeftParen, token.LeftBrace,
		token.If, token.Else, token.While, token.For, token.Fun, token.Class,
		token.Return, token.Var, token.And, token.Or, token.Print:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind != token.Eof {
			return &tokens[i]
		}
	}
	return nil
}
