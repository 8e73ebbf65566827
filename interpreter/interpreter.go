// Package interpreter evaluates a resolved Lox AST.
package interpreter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tomreyes/golox/ast"
	"github.com/tomreyes/golox/resolver"
	"github.com/tomreyes/golox/token"
)

// stmtResultKind tags the outcome of executing a statement: either control falls through normally, or a return
// statement is propagating a value up through enclosing blocks and loops to the call that should receive it.
type stmtResultKind int

const (
	stmtResultNone stmtResultKind = iota
	stmtResultReturn
)

type stmtResult struct {
	kind  stmtResultKind
	value loxObject
}

var stmtResultNormal = stmtResult{kind: stmtResultNone}

// Interpreter executes a resolved Lox program, one top-level statement at a time.
type Interpreter struct {
	globals *environment
	env     *environment
	dists   resolver.Distances

	stdout io.Writer

	// printExprStmtResults makes a bare expression statement's value print to stdout, as the REPL does.
	printExprStmtResults bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// PrintExprStmtResults makes the interpreter print the value of every expression statement, as the REPL does.
func PrintExprStmtResults() Option {
	return func(i *Interpreter) { i.printExprStmtResults = true }
}

// New constructs an Interpreter which writes the output of print statements (and, if enabled, expression statement
// results) to stdout.
func New(dists resolver.Distances, stdout io.Writer, opts ...Option) *Interpreter {
	globals := newEnvironment(nil)
	globals.declare("clock", builtinClock{})

	interp := &Interpreter{globals: globals, env: globals, dists: dists, stdout: stdout}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// SetDistances replaces the resolution map the interpreter consults to resolve variable references. The REPL calls
// this once per line: each line is scanned, parsed and resolved independently, but all share the one Interpreter (and
// so its globals), so that declarations on one line stay visible to later lines.
func (interp *Interpreter) SetDistances(dists resolver.Distances) {
	interp.dists = dists
}

// Interpret executes every statement in program in order, stopping at the first runtime error.
func (interp *Interpreter) Interpret(program ast.Program) *RuntimeError {
	for _, stmt := range program.Stmts {
		if _, err := interp.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) execStmt(s ast.Stmt) (stmtResult, *RuntimeError) {
	switch s := s.(type) {
	case *ast.IllegalStmt:
		return stmtResultNormal, nil

	case *ast.VarDecl:
		val := loxObject(loxNil{})
		if s.Initialiser != nil {
			v, err := interp.evalExpr(s.Initialiser)
			if err != nil {
				return stmtResult{}, err
			}
			val = v
		}
		interp.env.declare(s.Name.Lexeme, val)
		return stmtResultNormal, nil

	case *ast.FunDecl:
		fn := &loxFunction{name: s.Name.Lexeme, fn: s.Function, closure: interp.env}
		interp.env.declare(s.Name.Lexeme, fn)
		return stmtResultNormal, nil

	case *ast.ClassDecl:
		return interp.execClassDecl(s)

	case *ast.ExprStmt:
		val, err := interp.evalExpr(s.Expr)
		if err != nil {
			return stmtResult{}, err
		}
		if interp.printExprStmtResults {
			fmt.Fprintln(interp.stdout, "=> "+val.String())
		}
		return stmtResultNormal, nil

	case *ast.PrintStmt:
		val, err := interp.evalExpr(s.Expr)
		if err != nil {
			return stmtResult{}, err
		}
		fmt.Fprintln(interp.stdout, val.String())
		return stmtResultNormal, nil

	case *ast.BlockStmt:
		return interp.execBlock(s.Stmts, newEnvironment(interp.env))

	case *ast.IfStmt:
		cond, err := interp.evalExpr(s.Condition)
		if err != nil {
			return stmtResult{}, err
		}
		if truthy(cond) {
			return interp.execStmt(s.Then)
		}
		if s.Else != nil {
			return interp.execStmt(s.Else)
		}
		return stmtResultNormal, nil

	case *ast.WhileStmt:
		for {
			cond, err := interp.evalExpr(s.Condition)
			if err != nil {
				return stmtResult{}, err
			}
			if !truthy(cond) {
				return stmtResultNormal, nil
			}
			result, err := interp.execStmt(s.Body)
			if err != nil {
				return stmtResult{}, err
			}
			if result.kind != stmtResultNone {
				return result, nil
			}
		}

	case *ast.ReturnStmt:
		val := loxObject(loxNil{})
		if s.Value != nil {
			v, err := interp.evalExpr(s.Value)
			if err != nil {
				return stmtResult{}, err
			}
			val = v
		}
		return stmtResult{kind: stmtResultReturn, value: val}, nil

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", s))
	}
}

// execBlock executes stmts against env, restoring the interpreter's previous environment once done (or once a
// return propagates out), so that a block's bindings never leak into its enclosing scope.
func (interp *Interpreter) execBlock(stmts []ast.Stmt, env *environment) (stmtResult, *RuntimeError) {
	prev := interp.env
	interp.env = env
	defer func() { interp.env = prev }()

	for _, stmt := range stmts {
		result, err := interp.execStmt(stmt)
		if err != nil {
			return stmtResult{}, err
		}
		if result.kind != stmtResultNone {
			return result, nil
		}
	}
	return stmtResultNormal, nil
}

// execClassDecl declares the class's name before building its methods, so that a method body can refer to the class
// itself (e.g. to construct more instances of it) even though the class object doesn't exist yet while its methods
// are being closed over.
func (interp *Interpreter) execClassDecl(s *ast.ClassDecl) (stmtResult, *RuntimeError) {
	interp.env.declare(s.Name.Lexeme, loxNil{})

	methods := make(map[string]*loxFunction, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &loxFunction{
			name:          m.Name.Lexeme,
			fn:            m.Function,
			closure:       interp.env,
			isInitialiser: m.Name.Lexeme == token.InitIdent,
		}
	}

	class := &loxClass{name: s.Name.Lexeme, methods: methods}
	if err := interp.env.assign(s.Name, class); err != nil {
		return stmtResult{}, err
	}
	return stmtResultNormal, nil
}

func (interp *Interpreter) evalExpr(e ast.Expr) (loxObject, *RuntimeError) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return literalValue(e.Value), nil

	case *ast.GroupingExpr:
		return interp.evalExpr(e.Inner)

	case *ast.VariableExpr:
		return interp.resolveVariable(e.Name)

	case *ast.ThisExpr:
		return interp.resolveVariable(e.Keyword)

	case *ast.AssignExpr:
		val, err := interp.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := interp.dists[e.Name]; ok {
			interp.env.assignAt(dist, e.Name.Lexeme, val)
			return val, nil
		}
		if err := interp.globals.assign(e.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	case *ast.UnaryExpr:
		return interp.evalUnary(e)

	case *ast.BinaryExpr:
		return interp.evalBinary(e)

	case *ast.LogicalExpr:
		return interp.evalLogical(e)

	case *ast.CallExpr:
		return interp.evalCall(e)

	case *ast.GetExpr:
		obj, err := interp.evalExpr(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*loxInstance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have properties.")
		}
		return instance.get(e.Name)

	case *ast.SetExpr:
		obj, err := interp.evalExpr(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*loxInstance)
		if !ok {
			return nil, newRuntimeError(e.Name, "Only instances have fields.")
		}
		val, err := interp.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		instance.set(e.Name, val)
		return val, nil

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", e))
	}
}

// resolveVariable looks up the variable tok refers to. If the resolver found a local declaration for this
// occurrence, the lookup goes straight to the recorded frame; otherwise it falls back to a dynamic lookup in
// globals, so that top-level declarations can forward-reference each other.
func (interp *Interpreter) resolveVariable(tok token.Token) (loxObject, *RuntimeError) {
	if dist, ok := interp.dists[tok]; ok {
		return interp.env.getAt(dist, tok.Lexeme), nil
	}
	return interp.globals.get(tok)
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpr) (loxObject, *RuntimeError) {
	right, err := interp.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	if e.Op.Type == token.Bang {
		return loxBool(!truthy(right)), nil
	}

	operand, ok := right.(loxUnaryOperand)
	if !ok {
		return nil, newRuntimeError(e.Op, "Operand must be a number.")
	}
	return operand.UnaryOp(e.Op)
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpr) (loxObject, *RuntimeError) {
	left, err := interp.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case token.EqualEqual:
		return loxBool(left.Equals(right)), nil
	case token.BangEqual:
		return loxBool(!left.Equals(right)), nil
	}

	operand, ok := left.(loxBinaryOperand)
	if !ok {
		if e.Op.Type == token.Plus {
			return nil, newRuntimeError(e.Op, "Operands must be two numbers or two strings.")
		}
		return nil, newRuntimeError(e.Op, "Operands must be numbers.")
	}
	return operand.BinaryOp(e.Op, right)
}

func (interp *Interpreter) evalLogical(e *ast.LogicalExpr) (loxObject, *RuntimeError) {
	left, err := interp.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op.Type == token.Or {
		if truthy(left) {
			return left, nil
		}
	} else if !truthy(left) {
		return left, nil
	}

	return interp.evalExpr(e.Right)
}

func (interp *Interpreter) evalCall(e *ast.CallExpr) (loxObject, *RuntimeError) {
	callee, err := interp.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]loxObject, len(e.Args))
	for i, a := range e.Args {
		v, err := interp.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, newRuntimeError(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}
	return callable.Call(interp, args)
}

func literalValue(tok token.Token) loxObject {
	switch tok.Type {
	case token.Number:
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		return loxNumber(f)
	case token.String:
		return loxString(tok.Literal)
	case token.True:
		return loxBool(true)
	case token.False:
		return loxBool(false)
	case token.Nil:
		return loxNil{}
	default:
		panic(fmt.Sprintf("interpreter: unhandled literal token type %s", tok.Type))
	}
}
