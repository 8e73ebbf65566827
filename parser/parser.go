// Package parser implements a recursive-descent parser for Lox source code, with panic-mode error recovery.
package parser

import (
	"fmt"

	"github.com/tomreyes/golox/ast"
	"github.com/tomreyes/golox/loxerr"
	"github.com/tomreyes/golox/scanner"
	"github.com/tomreyes/golox/token"
)

const maxArgs = 8

// unwind is panicked by the parser to abort the current declaration and trigger synchronisation. It carries no data;
// the error has already been recorded in p.errs.
type unwind struct{}

// Parse parses the tokens produced by s into a Program. If any syntax errors were encountered, an error (of dynamic
// type loxerr.Errors) is also returned alongside the (partial, but structurally complete) Program: failed
// declarations are replaced by *ast.IllegalStmt so that positions are preserved and later stages can keep walking.
func Parse(s *scanner.Scanner) (ast.Program, error) {
	p := &parser{}
	s.SetErrorHandler(func(tok token.Token, msg string) {
		p.errs.Add(tok.Start, tok.End, msg)
	})
	p.toks = s.ScanTokens()
	return p.parse()
}

type parser struct {
	toks []token.Token
	pos  int

	errs loxerr.Errors
}

func (p *parser) parse() (ast.Program, error) {
	program := ast.Program{Stmts: p.declsUntil(token.EOF)}
	return program, p.errs.Err()
}

func (p *parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *parser) peekNext() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token.Token {
	tok := p.cur()
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(typ token.Type) bool {
	return p.cur().Type == typ
}

// match consumes and returns the current token if it has one of the given types.
func (p *parser) match(types ...token.Type) (token.Token, bool) {
	for _, typ := range types {
		if p.check(typ) {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

// expect consumes the current token if it has the given type, otherwise it reports a syntax error and panics with
// unwind.
func (p *parser) expect(typ token.Type, context string) token.Token {
	if p.check(typ) {
		return p.advance()
	}
	p.errorAtCurrent("expected %m %s", typ, context)
	panic(unwind{})
}

func (p *parser) errorAtCurrent(format string, args ...any) {
	tok := p.cur()
	msg := fmt.Sprintf(format, args...)
	if tok.Type == token.EOF {
		p.errs.Add(tok.Start, tok.End, "at end: "+msg)
	} else {
		p.errs.Add(tok.Start, tok.End, fmt.Sprintf("at %q: %s", tok.Lexeme, msg))
	}
}

func (p *parser) errorAtToken(tok token.Token, format string, args ...any) {
	p.errs.Add(tok.Start, tok.End, fmt.Sprintf(format, args...))
}

// sync discards tokens until it finds a probable statement boundary, so that parsing can resume after a syntax
// error. It consumes a terminating ';', or stops just before a statement-starting keyword.
func (p *parser) sync() token.Token {
	final := p.cur()
	for {
		switch p.cur().Type {
		case token.Semicolon:
			final = p.advance()
			return final
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return, token.EOF:
			return final
		}
		final = p.advance()
	}
}

func (p *parser) declsUntil(types ...token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for {
		for _, typ := range types {
			if p.check(typ) {
				return stmts
			}
		}
		stmts = append(stmts, p.safelyParseDecl())
	}
}

func (p *parser) safelyParseDecl() (stmt ast.Stmt) {
	from := p.cur()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				to := p.sync()
				stmt = &ast.IllegalStmt{From: from, To: to}
			} else {
				panic(r)
			}
		}
	}()
	return p.decl()
}

func (p *parser) decl() ast.Stmt {
	switch {
	case p.check(token.Class):
		return p.classDecl()
	case p.check(token.Fun):
		return p.funDecl()
	case p.check(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *parser) classDecl() ast.Stmt {
	classTok := p.advance()
	name := p.expect(token.Ident, "class name")
	p.expect(token.LeftBrace, "before class body")

	var methods []*ast.MethodDecl
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		methods = append(methods, p.method())
	}
	end := p.expect(token.RightBrace, "after class body").End

	return &ast.ClassDecl{Class: classTok, Name: name, Methods: methods, End: end}
}

func (p *parser) method() *ast.MethodDecl {
	name := p.expect(token.Ident, "method name")
	fn, end := p.function("method")
	return &ast.MethodDecl{Name: name, Function: fn, End: end}
}

func (p *parser) funDecl() ast.Stmt {
	funTok := p.advance()
	name := p.expect(token.Ident, "function name")
	fn, end := p.function("function")
	return &ast.FunDecl{Fun: funTok, Name: name, Function: fn, End: end}
}

func (p *parser) function(kind string) (ast.Function, token.Position) {
	p.expect(token.LeftParen, "after "+kind+" name")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent("can't have more than %d parameters", maxArgs)
			}
			params = append(params, p.expect(token.Ident, "parameter name"))
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
	}
	p.expect(token.RightParen, "after parameters")
	p.expect(token.LeftBrace, "before "+kind+" body")
	body := p.block()
	end := p.toks[p.pos-1].End
	return ast.Function{Params: params, Body: body}, end
}

func (p *parser) varDecl() ast.Stmt {
	varTok := p.advance()
	name := p.expect(token.Ident, "variable name")
	var init ast.Expr
	if _, ok := p.match(token.Equal); ok {
		init = p.expression()
	}
	p.expect(token.Semicolon, "after variable declaration")
	return &ast.VarDecl{Var: varTok, Name: name, Initialiser: init}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.check(token.For):
		return p.forStmt()
	case p.check(token.If):
		return p.ifStmt()
	case p.check(token.Print):
		return p.printStmt()
	case p.check(token.Return):
		return p.returnStmt()
	case p.check(token.While):
		return p.whileStmt()
	case p.check(token.LeftBrace):
		return p.blockStmt()
	default:
		return p.exprStmt()
	}
}

// forStmt desugars for (init; cond; incr) body into:
//
//	{ init; while (cond) { body; incr; } }
//
// with init and incr omitted when absent, and cond defaulting to a literal true.
func (p *parser) forStmt() ast.Stmt {
	forTok := p.advance()
	p.expect(token.LeftParen, "after 'for'")

	var init ast.Stmt
	switch {
	case p.check(token.Semicolon):
		p.advance()
	case p.check(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.expect(token.Semicolon, "after loop condition")

	var incr ast.Expr
	if !p.check(token.RightParen) {
		incr = p.expression()
	}
	p.expect(token.RightParen, "after for clauses")

	body := p.statement()

	if incr != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExprStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: token.Token{Type: token.True, Lexeme: "true", Start: forTok.Start, End: forTok.End}}
	}
	loop := ast.Stmt(&ast.WhileStmt{While: forTok, Condition: cond, Body: body})
	if init != nil {
		loop = &ast.BlockStmt{Stmts: []ast.Stmt{init, loop}}
	} else {
		loop = &ast.BlockStmt{Stmts: []ast.Stmt{loop}}
	}
	return loop
}

func (p *parser) ifStmt() ast.Stmt {
	ifTok := p.advance()
	p.expect(token.LeftParen, "after 'if'")
	cond := p.expression()
	p.expect(token.RightParen, "after if condition")
	then := p.statement()
	var elseStmt ast.Stmt
	if _, ok := p.match(token.Else); ok {
		elseStmt = p.statement()
	}
	return &ast.IfStmt{If: ifTok, Condition: cond, Then: then, Else: elseStmt}
}

func (p *parser) printStmt() ast.Stmt {
	printTok := p.advance()
	value := p.expression()
	semi := p.expect(token.Semicolon, "after value")
	return &ast.PrintStmt{Print: printTok, Expr: value, Semicolon: semi}
}

func (p *parser) returnStmt() ast.Stmt {
	returnTok := p.advance()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	semi := p.expect(token.Semicolon, "after return value")
	return &ast.ReturnStmt{Return: returnTok, Value: value, Semicolon: semi}
}

func (p *parser) whileStmt() ast.Stmt {
	whileTok := p.advance()
	p.expect(token.LeftParen, "after 'while'")
	cond := p.expression()
	p.expect(token.RightParen, "after while condition")
	body := p.statement()
	return &ast.WhileStmt{While: whileTok, Condition: cond, Body: body}
}

func (p *parser) blockStmt() ast.Stmt {
	leftBrace := p.advance()
	stmts := p.block()
	rightBrace := p.toks[p.pos-1]
	return &ast.BlockStmt{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
}

// block parses declaration* '}', consuming the closing brace.
func (p *parser) block() []ast.Stmt {
	stmts := p.declsUntil(token.RightBrace, token.EOF)
	p.expect(token.RightBrace, "after block")
	return stmts
}

func (p *parser) exprStmt() ast.Stmt {
	e := p.expression()
	semi := p.expect(token.Semicolon, "after expression")
	return &ast.ExprStmt{Expr: e, Semicolon: semi}
}

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses a logic_or expression and, if '=' follows, reinterprets the already-parsed left-hand side as an
// assignment target instead of backtracking: a bare VariableExpr becomes an AssignExpr, a GetExpr becomes a SetExpr,
// and anything else is an error (reported, but parsing continues using the right-hand side's value).
func (p *parser) assignment() ast.Expr {
	left := p.or()

	if eq, ok := p.match(token.Equal); ok {
		value := p.assignment()
		switch l := left.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: l.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: l.Object, Name: l.Name, Value: value}
		default:
			p.errorAtToken(eq, "Invalid assignment target")
			return value
		}
	}

	return left
}

func (p *parser) or() ast.Expr {
	left := p.and()
	for {
		op, ok := p.match(token.Or)
		if !ok {
			return left
		}
		left = &ast.LogicalExpr{Left: left, Op: op, Right: p.and()}
	}
}

func (p *parser) and() ast.Expr {
	left := p.equality()
	for {
		op, ok := p.match(token.And)
		if !ok {
			return left
		}
		left = &ast.LogicalExpr{Left: left, Op: op, Right: p.equality()}
	}
}

func (p *parser) equality() ast.Expr {
	left := p.comparison()
	for {
		op, ok := p.match(token.BangEqual, token.EqualEqual)
		if !ok {
			return left
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.comparison()}
	}
}

func (p *parser) comparison() ast.Expr {
	left := p.addition()
	for {
		op, ok := p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
		if !ok {
			return left
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.addition()}
	}
}

func (p *parser) addition() ast.Expr {
	left := p.mult()
	for {
		op, ok := p.match(token.Minus, token.Plus)
		if !ok {
			return left
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.mult()}
	}
}

func (p *parser) mult() ast.Expr {
	left := p.unary()
	for {
		op, ok := p.match(token.Slash, token.Asterisk)
		if !ok {
			return left
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.unary()}
	}
}

func (p *parser) unary() ast.Expr {
	if op, ok := p.match(token.Bang, token.Minus); ok {
		return &ast.UnaryExpr{Op: op, Right: p.unary()}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	e := p.primary()
	for {
		switch {
		case p.check(token.LeftParen):
			p.advance()
			e = p.finishCall(e)
		case p.check(token.Dot):
			p.advance()
			name := p.expect(token.Ident, "property name after '.'")
			e = &ast.GetExpr{Object: e, Name: name}
		default:
			return e
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent("can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.expression())
			if _, ok := p.match(token.Comma); !ok {
				break
			}
		}
	}
	paren := p.expect(token.RightParen, "after arguments")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch tok := p.cur(); {
	case p.check(token.True), p.check(token.False), p.check(token.Nil), p.check(token.Number), p.check(token.String):
		p.advance()
		return &ast.LiteralExpr{Value: tok}
	case p.check(token.This):
		p.advance()
		return &ast.ThisExpr{Keyword: tok}
	case p.check(token.Ident):
		p.advance()
		return &ast.VariableExpr{Name: tok}
	case p.check(token.LeftParen):
		p.advance()
		inner := p.expression()
		rightParen := p.expect(token.RightParen, "after expression")
		return &ast.GroupingExpr{LeftParen: tok, Inner: inner, RightParen: rightParen}
	default:
		p.errorAtCurrent("expected expression")
		panic(unwind{})
	}
}
