// Package token defines PL/0 keywords and tokens used when lexing source code.
package token

import "strings"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ASSIGN    Type = ":="
	ASTERISK  Type = "*"
	BEGIN     Type = "BEGIN"
	CALL      Type = "CALL"
	COMMA     Type = ","
	CONST     Type = "CONST"
	DO        Type = "DO"
	END       Type = "END"
	EOF       Type = "EOF"
	EQ        Type = "="
	GT        Type = ">"
	GT_EQUALS Type = ">="
	IDENT     Type = "IDENT"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	NOT_EQ    Type = "#"
	NUMBER    Type = "NUMBER"
	ODD       Type = "ODD"
	PERIOD    Type = "."
	PLUS      Type = "+"
	PROCEDURE Type = "PROCEDURE"
	QUESTION  Type = "?"
	BANG      Type = "!"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	THEN      Type = "THEN"
	VAR       Type = "VAR"
	WHILE     Type = "WHILE"

	// NEG is never produced by the lexer. The parser classifies a leading
	// MINUS as NEG before handing it to the assembler.
	NEG Type = "NEG"
)

// Reserved keywords. PL/0 keywords are case-insensitive.
var keywords = map[string]Type{
	"begin":     BEGIN,
	"call":      CALL,
	"const":     CONST,
	"do":        DO,
	"end":       END,
	"if":        IF,
	"odd":       ODD,
	"procedure": PROCEDURE,
	"read":      QUESTION,
	"then":      THEN,
	"var":       VAR,
	"while":     WHILE,
	"write":     BANG,
}

// LookupIdentifier determines whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[strings.ToLower(identifier)]; ok {
		return tok
	}
	return IDENT
}
