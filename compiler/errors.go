package compiler

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/plzero/pl0/errz"
	"github.com/plzero/pl0/internal/lexer"
	"github.com/plzero/pl0/token"
)

func (c *Compiler) location(pos token.Position) errz.SourceLocation {
	return errz.SourceLocation{
		Filename: c.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   c.l.GetLineText(pos),
	}
}

// syntaxError returns an error for the current token. Syntax errors stop
// compilation.
func (c *Compiler) syntaxError(format string, args ...any) error {
	return errz.NewStructuredErrorf(errz.ErrSyntax, c.location(c.cur.StartPosition), format, args...)
}

func (c *Compiler) expected(what string) error {
	if c.cur.Type == token.EOF {
		return c.syntaxError("expected %s, found end of input", what)
	}
	return c.syntaxError("expected %s, found %q", what, c.cur.Literal)
}

func (c *Compiler) fromLexerError(err error) error {
	if lerr, ok := err.(*lexer.Error); ok {
		loc := c.location(lerr.Position)
		return errz.NewStructuredError(errz.ErrSyntax, lerr.Message, loc, nil).WithCause(err)
	}
	return err
}

// nameError records a semantic error and lets compilation continue so that
// further errors can be reported in the same run.
func (c *Compiler) nameError(tok token.Token, format string, args ...any) *errz.StructuredError {
	err := errz.NewStructuredErrorf(errz.ErrName, c.location(tok.StartPosition), format, args...)
	c.errs = multierror.Append(c.errs, err)
	return err
}

// undeclared records a reference to a name not visible from scope, with
// similar visible names as a hint.
func (c *Compiler) undeclared(tok token.Token, scope *SymbolTable, what string) {
	var names []string
	for t := scope; t != nil; t = t.Parent() {
		names = append(names, t.Names()...)
	}
	hint := errz.FormatSuggestions(errz.SuggestSimilar(tok.Literal, names))
	c.nameError(tok, "undeclared %s %q", what, tok.Literal).WithHint(hint)
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(errs), strings.Join(lines, "\n"))
}
