package vm

import "nilan/object"

// callFrame is one live invocation on the VM's explicit call stack
// (spec.md §5's suggestion to avoid recursing the host language). base is
// the stack index of the callee's slot 0 (the receiver, or the callee
// itself for a bare function).
type callFrame struct {
	closure *object.Closure
	ip      int
	base    int
}
