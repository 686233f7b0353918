// env.go: the scope stack the evaluator threads through every call.
//
// An Environment is an ordered stack of frames ("contexts"), each mapping a
// name to a Binding. Lookup searches innermost to outermost, so an inner
// frame shadows an outer one. Scoping is dynamic: a called function's body is
// evaluated against the full live frame stack at call time, caller frames
// included — frames are never snapshotted at definition site.
//
// Frames are exclusively owned by the evaluator call that pushed them; the
// pushing call must pop on every exit path, error paths included.
package mlisp

import "errors"

// Binding pairs a parameter-name list with a body expression. An empty
// parameter list denotes a plain variable; a non-empty one a function. The
// body is a shared handle, not a copy.
type Binding struct {
	Params []string
	Body   *Expr
}

// IsFunction reports whether the binding takes parameters.
func (b Binding) IsFunction() bool { return len(b.Params) > 0 }

// Environment is a stack of name->Binding frames.
type Environment struct {
	contexts []map[string]Binding
}

// errNoContext is returned when a definition arrives with no frame to hold it.
var errNoContext = errors.New("Environment has no context to add to.")

// NewEnvironment returns an environment with no frames at all. Definitions
// fail until a context is pushed.
func NewEnvironment() *Environment {
	return &Environment{}
}

// DefaultEnvironment returns a fresh interpreter environment: one seeded
// frame binding False to the empty list and True to the one-element list (1).
// Booleans are 0-or-1-element lists by construction, not a dedicated type.
func DefaultEnvironment() *Environment {
	env := NewEnvironment()
	env.PushContext()
	env.contexts[0]["False"] = Binding{Body: EmptyList()}
	env.contexts[0]["True"] = Binding{Body: NewList(Number(1))}
	return env
}

// EnvironmentFromVars builds a one-frame environment holding the given
// variables. Test construction helper.
func EnvironmentFromVars(vars map[string]*Expr) *Environment {
	env := NewEnvironment()
	env.PushContext()
	for name, expr := range vars {
		_ = env.AddVar(name, expr)
	}
	return env
}

// PushContext pushes an empty frame.
func (env *Environment) PushContext() {
	env.contexts = append(env.contexts, map[string]Binding{})
}

// PopContext pops the innermost frame. Popping an empty environment is a
// no-op.
func (env *Environment) PopContext() {
	if n := len(env.contexts); n > 0 {
		env.contexts = env.contexts[:n-1]
	}
}

// NumContexts returns the current frame count.
func (env *Environment) NumContexts() int { return len(env.contexts) }

// Lookup searches frames innermost->outermost and returns the first binding
// found for name.
func (env *Environment) Lookup(name string) (Binding, bool) {
	for i := len(env.contexts) - 1; i >= 0; i-- {
		if b, ok := env.contexts[i][name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// ContainsKey reports whether name is bound in any frame.
func (env *Environment) ContainsKey(name string) bool {
	_, ok := env.Lookup(name)
	return ok
}

// AddVar binds name to expr as a plain variable in the innermost frame,
// replacing any binding of the same name in that frame.
func (env *Environment) AddVar(name string, expr *Expr) error {
	if len(env.contexts) == 0 {
		return errNoContext
	}
	env.contexts[len(env.contexts)-1][name] = Binding{Body: expr}
	return nil
}

// AddFn binds name to a function of the given parameters in the innermost
// frame.
func (env *Environment) AddFn(name string, params []string, body *Expr) error {
	if len(env.contexts) == 0 {
		return errNoContext
	}
	ps := make([]string, len(params))
	copy(ps, params)
	env.contexts[len(env.contexts)-1][name] = Binding{Params: ps, Body: body}
	return nil
}
