package compiler

import (
	"fmt"
	"math/rand/v2"

	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/value"
)

// maxCallDepth bounds recursive user-defined operator invocation, per
// spec.md §5's requirement that deep recursion be diagnosed cleanly
// rather than crash the process.
const maxCallDepth = 4096

// Runtime carries everything a Computable needs while it evaluates:
// the seeded PRNG driving oneOf/actionAny, the diagnostic sink runtime
// errors are appended to, and a call-depth counter. The evaluator is
// strictly single-threaded and cooperative (spec.md §5), so Runtime is
// never shared across goroutines.
type Runtime struct {
	RNG    *rand.Rand
	Errors *diag.Bag
	depth  int
}

func NewRuntime(rng *rand.Rand, errs *diag.Bag) *Runtime {
	return &Runtime{RNG: rng, Errors: errs}
}

// Fail records a runtime error attributed to ref and returns the "no
// value" pair every Computable.Eval returns on failure.
func (rt *Runtime) Fail(ref int64, format string, args ...interface{}) (value.Value, bool) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	rt.Errors.AddRuntime(msg, ref)
	return nil, false
}

// Computable is a lazy thunk producing an optional value: (value, true)
// on success, (nil, false) on failure. Failure never panics or unwinds
// — it is a value the caller must check, matching spec.md §7's
// propagation rule.
type Computable interface {
	Eval(rt *Runtime) (value.Value, bool)
}

// constComputable always returns the same value.
type constComputable struct{ v value.Value }

func Const(v value.Value) Computable { return constComputable{v: v} }

func (c constComputable) Eval(rt *Runtime) (value.Value, bool) { return c.v, true }

// registerComputable reads a register, failing with a diagnostic
// attributed to the register's declaration site if it is unset.
type registerComputable struct{ r *Register }

func RegisterRead(r *Register) Computable { return registerComputable{r: r} }

func (c registerComputable) Eval(rt *Runtime) (value.Value, bool) {
	v, ok := c.r.Get()
	if !ok {
		return rt.Fail(c.r.Decl, "%s '%s' has no value", c.r.Kind, c.r.Name)
	}
	return v, true
}

// funcComputable closes over other computables via the closure supplied
// at construction time; this is how every opcode and user-defined body
// is represented once compiled.
type funcComputable struct {
	fn func(rt *Runtime) (value.Value, bool)
}

func Func(fn func(rt *Runtime) (value.Value, bool)) Computable {
	return funcComputable{fn: fn}
}

func (c funcComputable) Eval(rt *Runtime) (value.Value, bool) { return c.fn(rt) }

// Callable pairs a computable body with the parameter registers that
// must hold its arguments during evaluation. Invocation is a stack
// discipline: it saves each parameter register's previous state, binds
// the new arguments, evaluates the body, and restores the previous
// state on the way out — supporting recursive invocation correctly
// because nested Invoke calls save/restore in LIFO order matching the
// Go call stack.
type Callable struct {
	Name   string
	Params []*Register
	Body   Computable
	// DeclRef is the node id of the operator definition or lambda.
	// Invoke attributes its arity and recursion-depth errors to the ref
	// passed by the call site, not to DeclRef.
	DeclRef int64
}

func (c *Callable) Invoke(rt *Runtime, ref int64, args []value.Value) (value.Value, bool) {
	if len(args) != len(c.Params) {
		return rt.Fail(ref, "operator '%s' expects %d argument(s), got %d", c.Name, len(c.Params), len(args))
	}
	rt.depth++
	if rt.depth > maxCallDepth {
		rt.depth--
		return rt.Fail(ref, "maximum recursion depth exceeded in '%s'", c.Name)
	}
	saved := make([]RegisterState, len(c.Params))
	for i, p := range c.Params {
		v, ok := p.Get()
		saved[i] = RegisterState{Val: v, Ok: ok}
		p.Set(args[i])
	}
	result, ok := c.Body.Eval(rt)
	for i, p := range c.Params {
		p.val, p.ok = saved[i].Val, saved[i].Ok
	}
	rt.depth--
	return result, ok
}
