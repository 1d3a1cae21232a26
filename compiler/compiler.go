// Package compiler is a single-pass PL/0 front end. It parses source text by
// recursive descent and drives an assembler.Assembler directly while it
// parses, without building a syntax tree.
//
// # Block layout
//
// Every block, the main program included, is laid out as:
//
//	BRANCH body            ; skip over nested procedure bodies
//	...nested procedures...
//	body: ENTER n          ; n = number of variables in the block
//	...statement...
//	LEAVE
//
// A procedure's entry address is the address of that leading BRANCH, which
// is known as soon as the procedure's name is declared. Direct and recursive
// calls therefore always have a known target.
//
// # Forward calls
//
// A call may name a procedure declared later in an enclosing block, for
// example two sibling procedures calling each other. Such calls are emitted
// with Assembler.CallForward and kept pending. When a block finishes its
// procedure declarations, pending calls from inside it that name one of its
// procedures are resolved by patching both the level (the caller's depth
// minus the block's depth) and the entry address. Calls still pending when
// the outermost block ends name undeclared procedures.
//
// A call is resolved against the declarations visible at the point of the
// call; a later declaration in a closer scope does not rebind it.
package compiler

import (
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/plzero/pl0/assembler"
	"github.com/plzero/pl0/bytecode"
	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/internal/lexer"
	"github.com/plzero/pl0/token"
)

// MainName is the procedure name recorded for the outermost block.
const MainName = "main"

// pendingCall is a call to a procedure that was not declared yet.
type pendingCall struct {
	tok         token.Token
	scope       *SymbolTable
	patch       *assembler.Backpatcher
	callerLevel int
}

// Compiler translates one PL/0 compilation unit.
type Compiler struct {
	l   *lexer.Lexer
	cur token.Token
	asm *assembler.Assembler

	// The block currently being compiled
	symbols *SymbolTable

	// Forward calls waiting for a declaration, per open block
	pending map[*SymbolTable][]pendingCall

	procedures []bytecode.Procedure
	errs       *multierror.Error

	id       string
	filename string
	source   string
	logger   zerolog.Logger
}

// Compile compiles PL/0 source into immutable bytecode.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	return New(source, opts...).Compile()
}

// New returns a Compiler for the given source.
func New(source string, opts ...Option) *Compiler {
	c := &Compiler{
		source:  source,
		pending: map[*SymbolTable][]pendingCall{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = bytecode.NewID()
	}
	c.l = lexer.New(source)
	c.l.SetFilename(c.filename)
	c.asm = assembler.New(assembler.WithLogger(c.logger))
	return c
}

// Compile parses the whole program and returns the generated code. A
// contract violation raised by the assembler aborts compilation and is
// returned as an error.
func (c *Compiler) Compile() (code *bytecode.Code, err error) {
	defer errz.RecoverContract(&err)

	if err := c.next(); err != nil {
		return nil, err
	}
	c.symbols = NewSymbolTable()
	c.procedures = append(c.procedures, bytecode.Procedure{
		Name:  MainName,
		Entry: c.asm.NextAddress(),
		Level: 0,
	})
	if err := c.block(); err != nil {
		return nil, err
	}
	// Forward calls made from the main program body
	c.resolvePending(c.symbols)
	if c.cur.Type != token.PERIOD {
		return nil, c.expected(`"." at end of program`)
	}
	if err := c.next(); err != nil {
		return nil, err
	}
	if c.cur.Type != token.EOF {
		return nil, c.syntaxError("unexpected %q after end of program", c.cur.Literal)
	}
	if c.errs != nil {
		c.errs.ErrorFormat = formatErrors
		return nil, c.errs.ErrorOrNil()
	}
	code = c.asm.Finish(bytecode.CodeParams{
		ID:         c.id,
		Filename:   c.filename,
		Source:     c.source,
		Procedures: c.procedures,
	})
	c.logger.Debug().
		Str("id", c.id).
		Int("instructions", code.InstructionCount()).
		Int("procedures", code.ProcedureCount()).
		Msg("compiled")
	return code, nil
}

func (c *Compiler) next() error {
	tok, err := c.l.Next()
	if err != nil {
		c.cur = tok
		return c.fromLexerError(err)
	}
	c.cur = tok
	return nil
}

// expect consumes a token of type t.
func (c *Compiler) expect(t token.Type, what string) error {
	if c.cur.Type != t {
		return c.expected(what)
	}
	return c.next()
}

// ident consumes an identifier and returns its token.
func (c *Compiler) ident() (token.Token, error) {
	tok := c.cur
	if tok.Type != token.IDENT {
		return tok, c.expected("identifier")
	}
	return tok, c.next()
}

// mark records the current token's position on emitted instructions.
func (c *Compiler) mark(tok token.Token) {
	c.asm.Mark(bytecode.SourceLocation{
		Line:   tok.StartPosition.LineNumber(),
		Column: tok.StartPosition.ColumnNumber(),
	})
}

func (c *Compiler) block() error {
	c.mark(c.cur)
	skip := c.asm.BranchForward()

	if c.cur.Type == token.CONST {
		if err := c.constDeclarations(); err != nil {
			return err
		}
	}
	if c.cur.Type == token.VAR {
		if err := c.varDeclarations(); err != nil {
			return err
		}
	}
	for c.cur.Type == token.PROCEDURE {
		if err := c.procedureDeclaration(); err != nil {
			return err
		}
	}
	c.resolvePending(c.symbols)

	skip.SetAddress(c.asm.NextAddress())
	c.mark(c.cur)
	c.asm.Enter(c.symbols.Count())
	if err := c.statement(); err != nil {
		return err
	}
	c.asm.Leave()
	return nil
}

func (c *Compiler) constDeclarations() error {
	if err := c.next(); err != nil {
		return err
	}
	for {
		name, err := c.ident()
		if err != nil {
			return err
		}
		if c.cur.Type == token.ASSIGN {
			return c.syntaxError(`constants are declared with "=", not ":="`)
		}
		if err := c.expect(token.EQ, `"="`); err != nil {
			return err
		}
		value, err := c.number()
		if err != nil {
			return err
		}
		if _, err := c.symbols.InsertConstant(name.Literal, value); err != nil {
			c.nameError(name, "%s", err)
		}
		if c.cur.Type != token.COMMA {
			break
		}
		if err := c.next(); err != nil {
			return err
		}
	}
	return c.expect(token.SEMICOLON, `";"`)
}

func (c *Compiler) varDeclarations() error {
	if err := c.next(); err != nil {
		return err
	}
	for {
		name, err := c.ident()
		if err != nil {
			return err
		}
		if _, err := c.symbols.InsertVariable(name.Literal); err != nil {
			c.nameError(name, "%s", err)
		}
		if c.cur.Type != token.COMMA {
			break
		}
		if err := c.next(); err != nil {
			return err
		}
	}
	return c.expect(token.SEMICOLON, `";"`)
}

func (c *Compiler) procedureDeclaration() error {
	if err := c.next(); err != nil {
		return err
	}
	name, err := c.ident()
	if err != nil {
		return err
	}
	entry := c.asm.NextAddress()
	if _, err := c.symbols.InsertProcedure(name.Literal, entry); err != nil {
		c.nameError(name, "%s", err)
	}
	if err := c.expect(token.SEMICOLON, `";"`); err != nil {
		return err
	}

	parent := c.symbols
	c.symbols = parent.NewChild()
	c.procedures = append(c.procedures, bytecode.Procedure{
		Name:  name.Literal,
		Entry: entry,
		Level: c.symbols.Level(),
	})
	if err := c.block(); err != nil {
		return err
	}
	// Calls that could not be resolved inside the procedure may name a
	// procedure declared later in an enclosing block.
	c.pending[parent] = append(c.pending[parent], c.pending[c.symbols]...)
	delete(c.pending, c.symbols)
	c.symbols = parent

	return c.expect(token.SEMICOLON, `";"`)
}

// resolvePending patches forward calls naming procedures declared in table.
// Calls it cannot resolve stay pending for the enclosing block.
func (c *Compiler) resolvePending(table *SymbolTable) {
	pending := c.pending[table]
	if len(pending) == 0 {
		return
	}
	var remaining []pendingCall
	for _, call := range pending {
		sym, ok := table.Get(call.tok.Literal)
		if !ok {
			remaining = append(remaining, call)
			continue
		}
		if sym.Kind() != Procedure {
			c.nameError(call.tok, "cannot call %s %q", sym.Kind(), sym.Name())
			continue
		}
		call.patch.SetLevel(call.callerLevel - table.Level())
		call.patch.SetAddress(sym.Entry())
	}
	if table.Parent() == nil {
		for _, call := range remaining {
			c.undeclared(call.tok, call.scope, "procedure")
		}
		delete(c.pending, table)
		return
	}
	c.pending[table] = remaining
}

func (c *Compiler) statement() error {
	c.mark(c.cur)
	switch c.cur.Type {
	case token.IDENT:
		return c.assignment()
	case token.CALL:
		return c.call()
	case token.QUESTION:
		return c.read()
	case token.BANG:
		if err := c.next(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		c.asm.Write()
		return nil
	case token.BEGIN:
		return c.compound()
	case token.IF:
		return c.ifStatement()
	case token.WHILE:
		return c.whileStatement()
	default:
		// The empty statement
		return nil
	}
}

func (c *Compiler) assignment() error {
	target, err := c.ident()
	if err != nil {
		return err
	}
	if c.cur.Type == token.EQ {
		return c.syntaxError(`assignment uses ":=", not "="`)
	}
	if err := c.expect(token.ASSIGN, `":="`); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.mark(target)
	c.storeTo(target)
	return nil
}

// storeTo emits a store into the variable named by tok.
func (c *Compiler) storeTo(tok token.Token) {
	res, ok := c.symbols.Resolve(tok.Literal)
	if !ok {
		c.undeclared(tok, c.symbols, "identifier")
		return
	}
	if res.Symbol.Kind() != Variable {
		c.nameError(tok, "cannot assign to %s %q", res.Symbol.Kind(), tok.Literal)
		return
	}
	c.asm.Store(res.Distance, res.Symbol.Index())
}

func (c *Compiler) call() error {
	if err := c.next(); err != nil {
		return err
	}
	name, err := c.ident()
	if err != nil {
		return err
	}
	res, ok := c.symbols.Resolve(name.Literal)
	if !ok {
		patch := c.asm.CallForward()
		c.pending[c.symbols] = append(c.pending[c.symbols], pendingCall{
			tok:         name,
			scope:       c.symbols,
			patch:       patch,
			callerLevel: c.symbols.Level(),
		})
		c.logger.Debug().
			Str("procedure", name.Literal).
			Int("addr", patch.Index()).
			Msg("forward call")
		return nil
	}
	if res.Symbol.Kind() != Procedure {
		c.nameError(name, "cannot call %s %q", res.Symbol.Kind(), name.Literal)
		return nil
	}
	c.asm.Call(res.Distance, res.Symbol.Entry())
	return nil
}

func (c *Compiler) read() error {
	if err := c.next(); err != nil {
		return err
	}
	target, err := c.ident()
	if err != nil {
		return err
	}
	c.asm.Read()
	c.storeTo(target)
	return nil
}

func (c *Compiler) compound() error {
	if err := c.next(); err != nil {
		return err
	}
	if err := c.statement(); err != nil {
		return err
	}
	for c.cur.Type == token.SEMICOLON {
		if err := c.next(); err != nil {
			return err
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	return c.expect(token.END, `";" or "end"`)
}

func (c *Compiler) ifStatement() error {
	if err := c.next(); err != nil {
		return err
	}
	if err := c.condition(); err != nil {
		return err
	}
	skip := c.asm.BranchIfFalseForward()
	if err := c.expect(token.THEN, `"then"`); err != nil {
		return err
	}
	if err := c.statement(); err != nil {
		return err
	}
	skip.SetAddress(c.asm.NextAddress())
	return nil
}

func (c *Compiler) whileStatement() error {
	if err := c.next(); err != nil {
		return err
	}
	test := c.asm.NextAddress()
	if err := c.condition(); err != nil {
		return err
	}
	exit := c.asm.BranchIfFalseForward()
	if err := c.expect(token.DO, `"do"`); err != nil {
		return err
	}
	if err := c.statement(); err != nil {
		return err
	}
	c.asm.Branch(test)
	exit.SetAddress(c.asm.NextAddress())
	return nil
}

func (c *Compiler) condition() error {
	if c.cur.Type == token.ODD {
		tok := c.cur
		if err := c.next(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		c.mark(tok)
		c.asm.Operation(token.ODD)
		return nil
	}
	if err := c.expression(); err != nil {
		return err
	}
	relop := c.cur
	switch relop.Type {
	case token.EQ, token.NOT_EQ, token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS:
	default:
		return c.expected("relational operator")
	}
	if err := c.next(); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.mark(relop)
	c.asm.Operation(relop.Type)
	return nil
}

func (c *Compiler) expression() error {
	sign := c.cur
	if sign.Type == token.PLUS || sign.Type == token.MINUS {
		if err := c.next(); err != nil {
			return err
		}
	}
	if err := c.term(); err != nil {
		return err
	}
	if sign.Type == token.MINUS {
		c.mark(sign)
		c.asm.Operation(token.NEG)
	}
	for c.cur.Type == token.PLUS || c.cur.Type == token.MINUS {
		operator := c.cur
		if err := c.next(); err != nil {
			return err
		}
		if err := c.term(); err != nil {
			return err
		}
		c.mark(operator)
		c.asm.Operation(operator.Type)
	}
	return nil
}

func (c *Compiler) term() error {
	if err := c.factor(); err != nil {
		return err
	}
	for c.cur.Type == token.ASTERISK || c.cur.Type == token.SLASH {
		operator := c.cur
		if err := c.next(); err != nil {
			return err
		}
		if err := c.factor(); err != nil {
			return err
		}
		c.mark(operator)
		c.asm.Operation(operator.Type)
	}
	return nil
}

func (c *Compiler) factor() error {
	tok := c.cur
	c.mark(tok)
	switch tok.Type {
	case token.IDENT:
		if err := c.next(); err != nil {
			return err
		}
		res, ok := c.symbols.Resolve(tok.Literal)
		if !ok {
			c.undeclared(tok, c.symbols, "identifier")
			return nil
		}
		switch res.Symbol.Kind() {
		case Constant:
			c.asm.LoadConst(res.Symbol.Value())
		case Variable:
			c.asm.Load(res.Distance, res.Symbol.Index())
		default:
			c.nameError(tok, "procedure %q used as a value", tok.Literal)
		}
		return nil
	case token.NUMBER:
		value, err := c.number()
		if err != nil {
			return err
		}
		c.asm.LoadConst(value)
		return nil
	case token.LPAREN:
		if err := c.next(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		return c.expect(token.RPAREN, `")"`)
	default:
		return c.expected("expression")
	}
}

// number consumes a NUMBER token.
func (c *Compiler) number() (int, error) {
	if c.cur.Type != token.NUMBER {
		return 0, c.expected("number")
	}
	value, err := strconv.ParseInt(c.cur.Literal, 10, 32)
	if err != nil {
		return 0, c.syntaxError("number %s is out of range", c.cur.Literal)
	}
	return int(value), c.next()
}
