// Package resolver performs static resolution of variable references, computing how many enclosing scopes separate
// each use of a variable from the scope it was declared in. The result is a table the interpreter consults instead
// of walking its environment chain outward at runtime.
package resolver

import (
	"github.com/tomreyes/golox/ast"
	"github.com/tomreyes/golox/loxerr"
	"github.com/tomreyes/golox/token"
)

// identStatus tracks the declaration lifecycle of a name within a single scope, so that a variable's own initialiser
// can be rejected for referring to it ("var a = a;").
type identStatus int

const (
	declared identStatus = iota
	defined
)

type funcType int

const (
	funcTypeNone funcType = iota
	funcTypeFunction
	funcTypeMethod
	funcTypeInitialiser
)

type classType int

const (
	classTypeNone classType = iota
	classTypeClass
)

// scope maps a name declared in a lexical block to its current lifecycle status.
type scope map[string]identStatus

// Distances maps a Token occurrence of a variable reference (an ast.VariableExpr.Name, ast.AssignExpr.Name, or
// ast.ThisExpr.Keyword) to the number of scopes between the reference and the scope which declares it. Names absent
// from Distances are resolved at global scope.
type Distances map[token.Token]int

// Resolve walks program and returns the distance table used by the interpreter to resolve variable references in
// constant time, without re-walking the environment chain at runtime.
func Resolve(program ast.Program) (Distances, error) {
	r := &resolver{dists: Distances{}}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	return r.dists, r.errs.Err()
}

type resolver struct {
	scopes []scope
	dists  Distances

	curFunc  funcType
	curClass classType

	errs loxerr.Errors
}

func (r *resolver) pushScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) popScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name token.Token) {
	sc := r.peekScope()
	if sc == nil {
		return
	}
	if _, ok := sc[name.Lexeme]; ok {
		r.errs.Addf(name.Start, name.End, "Already a variable named %q in this scope.", name.Lexeme)
	}
	sc[name.Lexeme] = declared
}

func (r *resolver) define(name token.Token) {
	sc := r.peekScope()
	if sc == nil {
		return
	}
	sc[name.Lexeme] = defined
}

// resolveLocal records the distance from the innermost scope to the scope which declares name, if any is found.
// Scopes are walked innermost-out so that shadowing resolves to the closest declaration.
func (r *resolver) resolveLocal(ref token.Token, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.dists[ref] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: treat as a global, resolved directly by the interpreter.
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.IllegalStmt:
		// Nothing to resolve; the parser already reported why.
	case *ast.VarDecl:
		r.declare(s.Name)
		if s.Initialiser != nil {
			r.resolveExpr(s.Initialiser)
		}
		r.define(s.Name)
	case *ast.FunDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Function, funcTypeFunction)
	case *ast.ClassDecl:
		r.resolveClass(s)
	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)
	case *ast.BlockStmt:
		r.pushScope()
		r.resolveStmts(s.Stmts)
		r.popScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.ReturnStmt:
		if r.curFunc == funcTypeNone {
			r.errs.Add(s.Return.Start, s.Return.End, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.curFunc == funcTypeInitialiser {
				r.errs.Add(s.Return.Start, s.Return.End, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveClass(s *ast.ClassDecl) {
	enclosingClass := r.curClass
	r.curClass = classTypeClass
	defer func() { r.curClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	r.pushScope()
	defer r.popScope()
	r.peekScope()[token.ThisIdent] = defined

	for _, method := range s.Methods {
		funcType := funcTypeMethod
		if method.Name.Lexeme == token.InitIdent {
			funcType = funcTypeInitialiser
		}
		r.resolveFunction(method.Function, funcType)
	}
}

func (r *resolver) resolveFunction(fn ast.Function, typ funcType) {
	enclosingFunc := r.curFunc
	r.curFunc = typ
	defer func() { r.curFunc = enclosingFunc }()

	r.pushScope()
	defer r.popScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.VariableExpr:
		if sc := r.peekScope(); sc != nil {
			if status, ok := sc[e.Name.Lexeme]; ok && status == declared {
				r.errs.Add(e.Name.Start, e.Name.End, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.Name, e.Name.Lexeme)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.Name, e.Name.Lexeme)
	case *ast.ThisExpr:
		if r.curClass == classTypeNone {
			r.errs.Add(e.Keyword.Start, e.Keyword.End, "Cannot use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.Keyword, token.ThisIdent)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.GroupingExpr:
		r.resolveExpr(e.Inner)
	case *ast.LiteralExpr:
		// no references to resolve
	default:
		panic("resolver: unhandled expression type")
	}
}
