package reporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"nilan/token"
)

type locatedErr struct {
	msg  string
	span token.Span
}

func (e *locatedErr) Error() string    { return e.msg }
func (e *locatedErr) Span() token.Span { return e.span }

func TestParseRendersLiteralStagePrefix(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, "var ;")
	r.Parse([]error{&locatedErr{msg: "expected expression"}})
	assert.Contains(t, out.String(), "Parse Error - expected expression")
}

func TestCompileRendersLiteralStagePrefix(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, "return 1;")
	r.Compile(&locatedErr{msg: "can't return a value from an initializer"})
	assert.Contains(t, out.String(), "Compile Error - can't return a value from an initializer")
}

func TestRuntimeRendersLiteralStagePrefix(t *testing.T) {
	var out bytes.Buffer
	r := New(&out, "print nope;")
	r.Runtime(&locatedErr{msg: "undefined variable 'nope'"})
	assert.Contains(t, out.String(), "Runtime Error - undefined variable 'nope'")
}
