package interpreter

import (
	"strconv"

	"github.com/tomreyes/golox/ast"
	"github.com/tomreyes/golox/token"
)

// loxObject is the interface implemented by every Lox runtime value: numbers, strings, booleans, nil, functions,
// classes and instances.
type loxObject interface {
	String() string
	Type() string
	Equals(other loxObject) bool
}

// loxUnaryOperand is implemented by values that support a unary operator: currently just numbers, for negation.
type loxUnaryOperand interface {
	loxObject
	UnaryOp(op token.Token) (loxObject, *RuntimeError)
}

// loxBinaryOperand is implemented by values that support arithmetic and comparison binary operators. Equality
// (== and !=) is handled separately, directly against loxObject.Equals, since every value supports it.
type loxBinaryOperand interface {
	loxObject
	BinaryOp(op token.Token, right loxObject) (loxObject, *RuntimeError)
}

// loxCallable is implemented by values that can appear as the callee of a call expression: functions, methods and
// classes (calling a class constructs an instance).
type loxCallable interface {
	loxObject
	Arity() int
	Call(interp *Interpreter, args []loxObject) (loxObject, *RuntimeError)
}

// truthy reports whether o is truthy. Every value is truthy except nil and false.
func truthy(o loxObject) bool {
	switch o := o.(type) {
	case loxNil:
		return false
	case loxBool:
		return bool(o)
	default:
		return true
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ---- number ----

type loxNumber float64

func (n loxNumber) String() string { return formatNumber(float64(n)) }
func (loxNumber) Type() string     { return "number" }

func (n loxNumber) Equals(other loxObject) bool {
	o, ok := other.(loxNumber)
	return ok && n == o
}

func (n loxNumber) UnaryOp(op token.Token) (loxObject, *RuntimeError) {
	if op.Type == token.Minus {
		return -n, nil
	}
	return nil, newRuntimeError(op, "Operand must be a number.")
}

func (n loxNumber) BinaryOp(op token.Token, right loxObject) (loxObject, *RuntimeError) {
	r, ok := right.(loxNumber)
	if !ok {
		if op.Type == token.Plus {
			return nil, newRuntimeError(op, "Operands must be two numbers or two strings.")
		}
		return nil, newRuntimeError(op, "Operands must be numbers.")
	}
	switch op.Type {
	case token.Plus:
		return n + r, nil
	case token.Minus:
		return n - r, nil
	case token.Asterisk:
		return n * r, nil
	case token.Slash:
		return n / r, nil
	case token.Greater:
		return loxBool(n > r), nil
	case token.GreaterEqual:
		return loxBool(n >= r), nil
	case token.Less:
		return loxBool(n < r), nil
	case token.LessEqual:
		return loxBool(n <= r), nil
	default:
		panic("interpreter: unhandled numeric operator " + op.Type.String())
	}
}

// ---- string ----

type loxString string

func (s loxString) String() string { return string(s) }
func (loxString) Type() string     { return "string" }

func (s loxString) Equals(other loxObject) bool {
	o, ok := other.(loxString)
	return ok && s == o
}

func (s loxString) BinaryOp(op token.Token, right loxObject) (loxObject, *RuntimeError) {
	if op.Type != token.Plus {
		return nil, newRuntimeError(op, "Operands must be numbers.")
	}
	r, ok := right.(loxString)
	if !ok {
		return nil, newRuntimeError(op, "Operands must be two numbers or two strings.")
	}
	return s + r, nil
}

// ---- bool ----

type loxBool bool

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (loxBool) Type() string { return "boolean" }

func (b loxBool) Equals(other loxObject) bool {
	o, ok := other.(loxBool)
	return ok && b == o
}

// ---- nil ----

type loxNil struct{}

func (loxNil) String() string { return "nil" }
func (loxNil) Type() string   { return "nil" }

func (loxNil) Equals(other loxObject) bool {
	_, ok := other.(loxNil)
	return ok
}

// ---- function ----

// loxFunction is a user-defined function or method. Its closure is the environment frame live at the point it was
// declared, captured by reference so that assignments through the closure after the function returns are still
// visible to it.
type loxFunction struct {
	name          string
	fn            ast.Function
	closure       *environment
	isInitialiser bool
}

func (f *loxFunction) String() string { return "<fn " + f.name + ">" }
func (*loxFunction) Type() string     { return "function" }

func (f *loxFunction) Equals(other loxObject) bool {
	o, ok := other.(*loxFunction)
	return ok && f == o
}

func (f *loxFunction) Arity() int { return len(f.fn.Params) }

func (f *loxFunction) Call(interp *Interpreter, args []loxObject) (loxObject, *RuntimeError) {
	env := newEnvironment(f.closure)
	for i, param := range f.fn.Params {
		env.declare(param.Lexeme, args[i])
	}

	result, err := interp.execBlock(f.fn.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitialiser {
		return f.closure.getAt(0, token.ThisIdent), nil
	}
	if result.kind == stmtResultReturn {
		return result.value, nil
	}
	return loxNil{}, nil
}

// bind returns a copy of f whose closure has "this" bound to instance, so that the method body can refer to the
// instance it was looked up on.
func (f *loxFunction) bind(instance *loxInstance) *loxFunction {
	env := newEnvironment(f.closure)
	env.declare(token.ThisIdent, instance)
	return &loxFunction{name: f.name, fn: f.fn, closure: env, isInitialiser: f.isInitialiser}
}

// ---- class ----

type loxClass struct {
	name    string
	methods map[string]*loxFunction
}

func (c *loxClass) String() string { return c.name }
func (*loxClass) Type() string     { return "class" }

func (c *loxClass) Equals(other loxObject) bool {
	o, ok := other.(*loxClass)
	return ok && c == o
}

func (c *loxClass) findMethod(name string) (*loxFunction, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *loxClass) Arity() int {
	if init, ok := c.findMethod(token.InitIdent); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance of c, running its init method (if it has one) against it.
func (c *loxClass) Call(interp *Interpreter, args []loxObject) (loxObject, *RuntimeError) {
	instance := &loxInstance{class: c, fields: map[string]loxObject{}}
	if init, ok := c.findMethod(token.InitIdent); ok {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// ---- instance ----

type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

func (i *loxInstance) String() string { return i.class.name + " instance" }
func (*loxInstance) Type() string     { return "instance" }

func (i *loxInstance) Equals(other loxObject) bool {
	o, ok := other.(*loxInstance)
	return ok && i == o
}

func (i *loxInstance) get(name token.Token) (loxObject, *RuntimeError) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}
	if method, ok := i.class.findMethod(name.Lexeme); ok {
		return method.bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *loxInstance) set(name token.Token, val loxObject) {
	i.fields[name.Lexeme] = val
}
