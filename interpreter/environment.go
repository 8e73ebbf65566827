package interpreter

import "github.com/tomreyes/golox/token"

// environment is a single lexical scope frame: a map of names to values, with a pointer to the enclosing scope.
// Frames are chained to implement closures: a function captures the environment live at its declaration, and shares
// (rather than copies) it with every invocation, so writes through one closure are visible through another that
// captured the same frame.
type environment struct {
	parent *environment
	values map[string]loxObject
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent, values: map[string]loxObject{}}
}

// declare binds name to val in this frame, shadowing any binding of the same name in an enclosing frame.
func (e *environment) declare(name string, val loxObject) {
	e.values[name] = val
}

// ancestor returns the frame n scopes out from e. It's used alongside the resolver's distance table to jump directly
// to the frame that declares a variable, instead of walking outward one frame at a time.
func (e *environment) ancestor(n int) *environment {
	env := e
	for range n {
		env = env.parent
	}
	return env
}

func (e *environment) getAt(n int, name string) loxObject {
	return e.ancestor(n).values[name]
}

func (e *environment) assignAt(n int, name string, val loxObject) {
	e.ancestor(n).values[name] = val
}

// get looks up tok's lexeme, walking outward through enclosing frames. It's only used for globals, which the
// resolver leaves unresolved (distance-less) by design: every global reference is looked up by name at the point of
// use, so that forward references between top-level declarations work.
func (e *environment) get(tok token.Token) (loxObject, *RuntimeError) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[tok.Lexeme]; ok {
			return val, nil
		}
	}
	return nil, newRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme)
}

func (e *environment) assign(tok token.Token, val loxObject) *RuntimeError {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[tok.Lexeme]; ok {
			env.values[tok.Lexeme] = val
			return nil
		}
	}
	return newRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme)
}
