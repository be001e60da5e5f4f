// Package reporter turns a pipeline-stage error into a diagnostic printed
// against the original source text: "Parse Error - ..." style messages
// that point at the offending span (spec.md §4's "Error reporter").
package reporter

import (
	"io"

	"github.com/sirupsen/logrus"

	"nilan/token"
)

// Located is implemented by every error this reporter knows how to place
// in the source: parser.ParseError, compiler.CompileError, vm.RuntimeError.
type Located interface {
	error
	Span() token.Span
}

// Reporter prints stage-prefixed diagnostics to a logrus.Logger, resolving
// each error's span against the source text that produced it.
type Reporter struct {
	log    *logrus.Logger
	source string
}

// New creates a Reporter for one compilation unit's source text, writing
// to out.
func New(out io.Writer, source string) *Reporter {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Reporter{log: log, source: source}
}

// Parse reports one or more parse errors. errs is typically the
// *multierror.Error returned by parser.Parse, unwrapped via its
// WrappedErrors or Errors accessor by the caller.
func (r *Reporter) Parse(errs []error) {
	for _, err := range errs {
		r.report("parse", "Parse Error", err)
	}
}

// Compile reports a single compile error.
func (r *Reporter) Compile(err error) {
	r.report("compile", "Compile Error", err)
}

// Runtime reports a single runtime error.
func (r *Reporter) Runtime(err error) {
	r.report("runtime", "Runtime Error", err)
}

// report renders the stage's required "<Prefix> - <message>" text (spec.md
// §6) into the logged message itself, not just a structured field, so the
// literal contract string actually appears in the output.
func (r *Reporter) report(stage, prefix string, err error) {
	entry := r.log.WithField("stage", stage)
	if located, ok := err.(Located); ok {
		entry = entry.WithField("at", located.Span().Slice(r.source))
	}
	entry.Error(prefix + " - " + err.Error())
}
