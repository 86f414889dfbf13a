// Package compiler is the single-pass recursive-descent compiler: it walks
// chasm source exactly once, with one token of lookahead, and emits Wasm
// opcodes directly into the current function's Body as it recognises each
// construct. There is no intermediate AST — grammar recognition and code
// emission happen in the same recursive call.
package compiler

import (
	"strconv"

	"github.com/chasm-lang/chasmc/internal/diagnostic"
	"github.com/chasm-lang/chasmc/internal/scanner"
	"github.com/chasm-lang/chasmc/internal/symtab"
	"github.com/chasm-lang/chasmc/internal/token"
	"github.com/chasm-lang/chasmc/internal/wasmgen"
)

// Compile lexes and compiles source into a complete Wasm binary module in
// one pass, or returns the first *diagnostic.Error encountered.
func Compile(source string) ([]byte, error) {
	c, err := newCompiler(source)
	if err != nil {
		return nil, err
	}

	c.mod = wasmgen.NewModule()
	c.body = wasmgen.NewBody()
	c.syms = &symtab.Table{}

	for c.cur.Kind != token.Eof {
		if c.cur.Kind == token.Proc {
			if err := c.procDecl(); err != nil {
				return nil, err
			}
			continue
		}
		if err := c.statement(); err != nil {
			return nil, err
		}
	}

	c.mod.SetMainBody(wasmgen.EncodeFunctionBody(c.body.Bytes(), c.syms.Len()))
	return c.mod.Finish(), nil
}

// compiler holds the state for one function body at a time. body and syms
// are swapped out (and restored) around nested proc declarations, so the
// same recursive-descent call stack naturally threads outer/inner context.
type compiler struct {
	sc        *scanner.Scanner
	cur       token.Token
	lookahead *token.Token

	mod   *wasmgen.Module
	procs map[string]int

	body *wasmgen.Body
	syms *symtab.Table
}

func newCompiler(source string) (*compiler, error) {
	c := &compiler{sc: scanner.New(source), procs: make(map[string]int)}
	tok, err := c.sc.Next()
	if err != nil {
		return nil, err
	}
	c.cur = tok
	return c, nil
}

func (c *compiler) advance() error {
	if c.lookahead != nil {
		c.cur = *c.lookahead
		c.lookahead = nil
		return nil
	}
	tok, err := c.sc.Next()
	if err != nil {
		return err
	}
	c.cur = tok
	return nil
}

func (c *compiler) peek() (token.Token, error) {
	if c.lookahead == nil {
		tok, err := c.sc.Next()
		if err != nil {
			return token.Token{}, err
		}
		c.lookahead = &tok
	}
	return *c.lookahead, nil
}

func (c *compiler) expect(kind token.Kind) error {
	if c.cur.Kind != kind {
		return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected %s, got %s", kind, c.cur.Kind)
	}
	return c.advance()
}

// procDecl compiles `proc NAME statement* endproc` into its own function,
// reserving the function index before the body is parsed so the proc can
// call itself, and restoring the enclosing body/symtab on return.
func (c *compiler) procDecl() error {
	if err := c.advance(); err != nil { // consume 'proc'
		return err
	}
	nameTok := c.cur
	if nameTok.Kind != token.Ident {
		return diagnostic.FromToken(diagnostic.UnexpectedToken, nameTok, "expected procedure name, got %s", nameTok.Kind)
	}
	if err := c.advance(); err != nil {
		return err
	}

	idx := c.mod.DeclareProc(nameTok.Literal)
	c.procs[nameTok.Literal] = idx

	savedBody, savedSyms := c.body, c.syms
	c.body = wasmgen.NewBody()
	c.syms = &symtab.Table{}

	for c.cur.Kind != token.Endproc {
		if c.cur.Kind == token.Eof {
			return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected 'endproc', got EOF")
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	if err := c.advance(); err != nil { // consume 'endproc'
		return err
	}

	c.mod.SetProcBody(idx, wasmgen.EncodeFunctionBody(c.body.Bytes(), c.syms.Len()))
	c.body, c.syms = savedBody, savedSyms
	return nil
}

func (c *compiler) statement() error {
	switch c.cur.Kind {
	case token.Var:
		return c.varDecl()
	case token.Ident:
		next, err := c.peek()
		if err != nil {
			return err
		}
		if next.Kind == token.Assign {
			return c.assignStmt()
		}
		return c.procCallStmt()
	case token.While:
		return c.whileStmt()
	case token.If:
		return c.ifStmt()
	case token.Print:
		return c.printStmt()
	case token.Setpixel:
		return c.setpixelStmt()
	default:
		return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "unexpected token %s", c.cur.Kind)
	}
}

func (c *compiler) varDecl() error {
	if err := c.advance(); err != nil { // 'var'
		return err
	}
	nameTok := c.cur
	if err := c.expect(token.Ident); err != nil {
		return err
	}
	idx := c.syms.Declare(nameTok.Literal)
	if err := c.expect(token.Assign); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.body.LocalSet(idx)
	return nil
}

func (c *compiler) assignStmt() error {
	nameTok := c.cur
	idx, ok := c.syms.Lookup(nameTok.Literal)
	if !ok {
		return diagnostic.FromToken(diagnostic.UndefinedSymbol, nameTok, "undefined variable %q", nameTok.Literal)
	}
	if err := c.advance(); err != nil { // consume ident
		return err
	}
	if err := c.expect(token.Assign); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.body.LocalSet(idx)
	return nil
}

// procCallStmt compiles a bare identifier statement: a call to a
// previously-declared, parameterless, return-less proc.
func (c *compiler) procCallStmt() error {
	nameTok := c.cur
	idx, ok := c.procs[nameTok.Literal]
	if !ok {
		return diagnostic.FromToken(diagnostic.UndefinedSymbol, nameTok, "undefined procedure %q", nameTok.Literal)
	}
	if err := c.advance(); err != nil {
		return err
	}
	c.body.Call(idx)
	return nil
}

func (c *compiler) printStmt() error {
	if err := c.advance(); err != nil { // 'print'
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.body.Call(c.mod.PrintFuncIndex())
	return nil
}

// whileStmt lowers `while (cond) body endwhile` to block { loop { cond;
// i32.eqz; br_if 1; body; br 0 } }. cond's opcodes are emitted once, in
// textual position right after loop — since that position is inside the
// loop, the VM re-executes them every iteration without any replay.
func (c *compiler) whileStmt() error {
	if err := c.advance(); err != nil { // 'while'
		return err
	}
	if err := c.expect(token.LParen); err != nil {
		return err
	}
	c.body.Block()
	c.body.Loop()
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.expect(token.RParen); err != nil {
		return err
	}
	c.body.TruncF32S()
	c.body.Eqz()
	c.body.BrIf(1)

	for c.cur.Kind != token.Endwhile {
		if c.cur.Kind == token.Eof {
			return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected 'endwhile', got EOF")
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	if err := c.advance(); err != nil { // consume 'endwhile'
		return err
	}

	c.body.Br(0)
	c.body.End() // loop
	c.body.End() // block
	return nil
}

func (c *compiler) ifStmt() error {
	if err := c.advance(); err != nil { // 'if'
		return err
	}
	if err := c.expect(token.LParen); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	if err := c.expect(token.RParen); err != nil {
		return err
	}
	c.body.TruncF32S()
	c.body.If()

	for c.cur.Kind != token.Endif && c.cur.Kind != token.Else {
		if c.cur.Kind == token.Eof {
			return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected 'endif', got EOF")
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	if c.cur.Kind == token.Else {
		if err := c.advance(); err != nil {
			return err
		}
		c.body.Else()
		for c.cur.Kind != token.Endif {
			if c.cur.Kind == token.Eof {
				return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected 'endif', got EOF")
			}
			if err := c.statement(); err != nil {
				return err
			}
		}
	}
	if err := c.advance(); err != nil { // consume 'endif'
		return err
	}
	c.body.End()
	return nil
}

// setpixelStmt compiles `setpixel(x, y, c)`. The three operands are parsed
// and staged into anonymous locals (each expression leaves one value on the
// stack, and the three can't be reordered in place), then the linear
// address y*100+x is computed in f32 and truncated once, per chasm's
// arithmetic-only-in-f32 discipline.
func (c *compiler) setpixelStmt() error {
	if err := c.advance(); err != nil { // 'setpixel'
		return err
	}
	if err := c.expect(token.LParen); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	xIdx := c.syms.DeclareAnon()
	c.body.LocalSet(xIdx)

	if err := c.expect(token.Comma); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	yIdx := c.syms.DeclareAnon()
	c.body.LocalSet(yIdx)

	if err := c.expect(token.Comma); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	cIdx := c.syms.DeclareAnon()
	c.body.LocalSet(cIdx)

	if err := c.expect(token.RParen); err != nil {
		return err
	}

	c.body.LocalGet(yIdx)
	c.body.F32Const(100)
	c.body.Mul()
	c.body.LocalGet(xIdx)
	c.body.Add()
	c.body.TruncF32S() // address -> i32

	c.body.LocalGet(cIdx)
	c.body.TruncF32S() // colour -> i32, low byte taken by the store

	c.body.I32Store8()
	return nil
}

// expression parses one primary: a number, an identifier, or a parenthesised
// group. Binary operators only ever appear inside a paren group — see
// emitBinOp — so a bare top-level expression is always a single primary.
func (c *compiler) expression() error {
	switch c.cur.Kind {
	case token.Number:
		lit := c.cur.Literal
		val, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			return diagnostic.FromToken(diagnostic.NumberOutOfRange, c.cur, "number %q out of range for f32", lit)
		}
		if err := c.advance(); err != nil {
			return err
		}
		c.body.F32Const(float32(val))
		return nil

	case token.Ident:
		idx, ok := c.syms.Lookup(c.cur.Literal)
		if !ok {
			return diagnostic.FromToken(diagnostic.UndefinedSymbol, c.cur, "undefined variable %q", c.cur.Literal)
		}
		if err := c.advance(); err != nil {
			return err
		}
		c.body.LocalGet(idx)
		return nil

	case token.LParen:
		if err := c.advance(); err != nil { // consume '('
			return err
		}
		if err := c.expression(); err != nil { // left
			return err
		}
		if c.cur.Kind == token.RParen {
			return c.advance() // pure grouping: (e) == e
		}
		opKind := c.cur.Kind
		if !isBinOp(opKind) {
			return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected operator or ')', got %s", c.cur.Kind)
		}
		if err := c.advance(); err != nil { // consume operator
			return err
		}
		if err := c.emitBinOp(opKind); err != nil {
			return err
		}
		return c.expect(token.RParen)

	default:
		return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "expected expression, got %s", c.cur.Kind)
	}
}

func isBinOp(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.Star, token.Slash,
		token.Eq, token.Lt, token.Gt, token.And, token.Or:
		return true
	default:
		return false
	}
}

// emitBinOp parses the right operand and emits the operator, given the left
// operand is already on the stack as f32.
func (c *compiler) emitBinOp(opKind token.Kind) error {
	switch opKind {
	case token.Plus, token.Minus, token.Star, token.Slash:
		if err := c.expression(); err != nil {
			return err
		}
		switch opKind {
		case token.Plus:
			c.body.Add()
		case token.Minus:
			c.body.Sub()
		case token.Star:
			c.body.Mul()
		case token.Slash:
			c.body.Div()
		}
		return nil

	case token.Eq, token.Lt, token.Gt:
		if err := c.expression(); err != nil {
			return err
		}
		switch opKind {
		case token.Eq:
			c.body.CmpEq()
		case token.Lt:
			c.body.CmpLt()
		case token.Gt:
			c.body.CmpGt()
		}
		c.body.ConvertI32S() // keep the stack uniformly f32
		return nil

	case token.And, token.Or:
		c.body.TruncF32S() // left: f32 boolean -> i32
		if err := c.expression(); err != nil {
			return err
		}
		c.body.TruncF32S() // right: f32 boolean -> i32
		if opKind == token.And {
			c.body.And()
		} else {
			c.body.Or()
		}
		c.body.ConvertI32S()
		return nil

	default:
		return diagnostic.FromToken(diagnostic.UnexpectedToken, c.cur, "unsupported operator %s", opKind)
	}
}
