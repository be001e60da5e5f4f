package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
	"nilan/reporter"
)

// compileSource runs source through the lexer, parser and compiler,
// reporting every diagnostic it produces along the way against rep.
// It returns nil if any stage failed.
func compileSource(name, source string, rep *reporter.Reporter) *object.Function {
	tokens := lexer.Scan(source)

	statements, err := parser.Parse(tokens)
	if err != nil {
		if me, ok := err.(*multierror.Error); ok {
			rep.Parse(me.Errors)
		} else {
			rep.Parse([]error{err})
		}
		return nil
	}

	fn, err := compiler.Compile(name, statements)
	if err != nil {
		rep.Compile(err)
		return nil
	}
	return fn
}

func readSourceFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
