// Package lexer converts PL/0 source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/plzero/pl0/token"
)

// Lexer holds our object-state.
type Lexer struct {
	// The current character position
	position int

	// The next character position
	readPosition int

	// The current character
	ch byte

	// The input string
	input string

	// Line number (0-indexed)
	line int

	// Byte offset of the start of the current line
	lineStart int

	// Name of the file being lexed
	file string
}

// New returns a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// SetFilename sets the name attached to token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the name attached to token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Position returns the position of the current character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

// GetLineText returns the text of the line containing the given position.
func (l *Lexer) GetLineText(pos token.Position) string {
	if pos.LineStart >= len(l.input) {
		return ""
	}
	rest := l.input[pos.LineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(rest, "\r")
}

// Next returns the next token from the input.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}
	start := l.Position()
	var tok token.Token
	switch l.ch {
	case 0:
		tok = l.newToken(token.EOF, "", start)
		return tok, nil
	case ':':
		if l.peekChar() != '=' {
			return l.illegal(start, "expected '=' after ':'")
		}
		l.readChar()
		tok = l.newToken(token.ASSIGN, ":=", start)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = l.newToken(token.LT_EQUALS, "<=", start)
		case '>':
			l.readChar()
			tok = l.newToken(token.NOT_EQ, "<>", start)
		default:
			tok = l.newToken(token.LT, "<", start)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.GT_EQUALS, ">=", start)
		} else {
			tok = l.newToken(token.GT, ">", start)
		}
	case '#':
		tok = l.newToken(token.NOT_EQ, "#", start)
	case '=':
		tok = l.newToken(token.EQ, "=", start)
	case '+':
		tok = l.newToken(token.PLUS, "+", start)
	case '-':
		tok = l.newToken(token.MINUS, "-", start)
	case '*':
		tok = l.newToken(token.ASTERISK, "*", start)
	case '/':
		tok = l.newToken(token.SLASH, "/", start)
	case '(':
		tok = l.newToken(token.LPAREN, "(", start)
	case ')':
		tok = l.newToken(token.RPAREN, ")", start)
	case ',':
		tok = l.newToken(token.COMMA, ",", start)
	case ';':
		tok = l.newToken(token.SEMICOLON, ";", start)
	case '.':
		tok = l.newToken(token.PERIOD, ".", start)
	case '?':
		tok = l.newToken(token.QUESTION, "?", start)
	case '!':
		tok = l.newToken(token.BANG, "!", start)
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return token.Token{
				Type:          token.LookupIdentifier(ident),
				Literal:       ident,
				StartPosition: start,
				EndPosition:   l.Position(),
			}, nil
		}
		if isDigit(l.ch) {
			number := l.readNumber()
			return token.Token{
				Type:          token.NUMBER,
				Literal:       number,
				StartPosition: start,
				EndPosition:   l.Position(),
			}, nil
		}
		return l.illegal(start, fmt.Sprintf("unexpected character %q", l.ch))
	}
	l.readChar()
	tok.EndPosition = l.Position()
	return tok, nil
}

func (l *Lexer) newToken(t token.Type, literal string, start token.Position) token.Token {
	return token.Token{Type: t, Literal: literal, StartPosition: start}
}

func (l *Lexer) illegal(start token.Position, msg string) (token.Token, error) {
	tok := token.Token{
		Type:          token.ILLEGAL,
		Literal:       string(l.ch),
		StartPosition: start,
		EndPosition:   start,
	}
	l.readChar()
	return tok, &Error{Message: msg, Position: start, Line: l.GetLineText(start)}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// Comments are written in braces: { like this }. They do not nest.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.readChar()
		case '{':
			start := l.Position()
			for l.ch != '}' {
				if l.ch == 0 {
					return &Error{Message: "unterminated comment", Position: start, Line: l.GetLineText(start)}
				}
				l.readChar()
			}
			l.readChar()
		default:
			return nil
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Error is returned for input the lexer cannot tokenize.
type Error struct {
	Message  string
	Position token.Position
	Line     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Position.LineNumber(), e.Position.ColumnNumber())
}
